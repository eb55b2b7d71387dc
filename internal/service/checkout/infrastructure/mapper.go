package infrastructure

import (
	"bloom/internal/service/checkout/domain"
)

func toDomainProduct(m *ProductModel) *domain.Product {
	return &domain.Product{
		ID:        m.ID,
		Name:      m.Name,
		Price:     m.Price,
		Quantity:  m.Quantity,
		Status:    domain.ProductStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainCoupon(m *CouponModel) *domain.Coupon {
	return &domain.Coupon{
		ID:              m.ID,
		Code:            m.Code,
		DiscountType:    domain.DiscountType(m.DiscountType),
		DiscountValue:   m.DiscountValue,
		MinimumAmount:   m.MinimumAmount,
		MaximumDiscount: m.MaximumDiscount,
		UsageLimit:      m.UsageLimit,
		UsageCount:      m.UsageCount,
		UserUsageLimit:  m.UserUsageLimit,
		ValidFrom:       m.ValidFrom,
		ValidUntil:      m.ValidUntil,
		IsActive:        m.IsActive,
		NewUsersOnly:    m.NewUsersOnly,
		RuleExpression:  m.RuleExpression,
		CreatedAt:       m.CreatedAt,
	}
}

func fromDomainCouponUsage(u *domain.CouponUsage) *CouponUsageModel {
	return &CouponUsageModel{
		ID:             u.ID,
		CouponID:       u.CouponID,
		OrderID:        u.OrderID,
		CustomerID:     u.CustomerID,
		CustomerEmail:  u.CustomerEmail,
		DiscountAmount: u.DiscountAmount,
		OrderAmount:    u.OrderAmount,
		UsedAt:         u.UsedAt,
	}
}

func fromDomainOrder(o *domain.Order) *OrderModel {
	m := &OrderModel{
		ID:            o.ID,
		Number:        o.Number,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		AddressLine:   o.AddressLine,
		City:          o.City,
		PostalCode:    o.PostalCode,
		PaymentMethod: o.PaymentMethod,
		DeliveryType:  string(o.DeliveryType),
		DeliveryDate:  o.DeliveryDate,
		DeliveryTime:  o.DeliveryTime,
		Instructions:  o.Instructions,
		Status:        string(o.Status),
		TotalAmount:   o.TotalAmount,
		Discount:      o.Discount,
		VATAmount:     o.VATAmount,
		DeliveryCost:  o.DeliveryCost,
		CODFee:        o.CODFee,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, item := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return m
}

func toDomainOrder(m *OrderModel) *domain.Order {
	o := &domain.Order{
		ID:            m.ID,
		Number:        m.Number,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		CustomerPhone: m.CustomerPhone,
		AddressLine:   m.AddressLine,
		City:          m.City,
		PostalCode:    m.PostalCode,
		PaymentMethod: m.PaymentMethod,
		DeliveryType:  domain.DeliveryType(m.DeliveryType),
		DeliveryDate:  m.DeliveryDate,
		DeliveryTime:  m.DeliveryTime,
		Instructions:  m.Instructions,
		Status:        domain.OrderStatus(m.Status),
		TotalAmount:   m.TotalAmount,
		Discount:      m.Discount,
		VATAmount:     m.VATAmount,
		DeliveryCost:  m.DeliveryCost,
		CODFee:        m.CODFee,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, item := range m.Items {
		o.Items = append(o.Items, domain.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return o
}

func toDomainCustomer(m *CustomerModel) *domain.Customer {
	return &domain.Customer{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		IsGuest:      m.IsGuest,
		CreatedAt:    m.CreatedAt,
	}
}
