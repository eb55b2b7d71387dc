package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"bloom/internal/pkg/bootstrap"
	"bloom/internal/pkg/logger"
	"bloom/internal/pkg/mq"
)

const serviceName = "push-gateway"

var (
	nodeID   = serviceName + "-" + uuid.New().String()[:8]
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// The dashboard is served from another origin in development.
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

// Hub fans order notifications out to every connected dashboard client.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	lock       sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.lock.Lock()
			h.clients[client] = struct{}{}
			h.lock.Unlock()
			logger.L().Info().Str("node", nodeID).Msg("dashboard client connected")
		case client := <-h.unregister:
			h.lock.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.lock.Unlock()
		case message := <-h.broadcast:
			h.lock.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop the frame rather than block the hub.
				}
			}
			h.lock.RUnlock()
		}
	}
}

// Client is one websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func serveWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.L().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}

// consume reads committed order notifications and hands them to the hub.
func consume(ctx context.Context, reader *kafka.Reader, hub *Hub) {
	tracer := otel.Tracer(serviceName)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.L().Warn().Err(err).Msg("fetch message failed, retrying")
			time.Sleep(time.Second)
			continue
		}

		carrier := mq.KafkaHeaderCarrier(msg.Headers)
		msgCtx := otel.GetTextMapPropagator().Extract(ctx, &carrier)
		_, span := tracer.Start(msgCtx, "push-gateway.Broadcast")
		hub.broadcast <- msg.Value
		span.End()

		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.L().Warn().Err(err).Msg("commit failed")
		}
	}
}

func main() {
	if err := bootstrap.Init(); err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load configuration")
	}
	cfg := bootstrap.GetCurrentConfig()

	hub := newHub()
	go hub.run()

	reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.NotificationTopic, serviceName)
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	go consume(consumerCtx, reader, hub)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8090,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) { serveWs(hub, w, r) })
		},
		OnShutdown: func(ctx context.Context) {
			stopConsumer()
			if err := reader.Close(); err != nil {
				logger.L().Warn().Err(err).Msg("kafka reader close failed")
			}
		},
	})
}
