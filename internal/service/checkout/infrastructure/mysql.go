package infrastructure

import (
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "github.com/go-sql-driver/mysql"
)

// OpenDB connects to MySQL and migrates the checkout schema. The default
// READ COMMITTED isolation is sufficient: conditional updates substitute for
// explicit row locks.
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	err = db.AutoMigrate(
		&ProductModel{},
		&CouponModel{},
		&CouponUsageModel{},
		&OrderModel{},
		&OrderItemModel{},
		&CustomerModel{},
		&NotificationModel{},
	)
	if err != nil {
		return nil, errors.Wrap(err, "migrate schema")
	}
	return db, nil
}
