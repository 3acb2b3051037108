package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/ewakoroyal/booking-api/internal/platform/logger"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderPriced        = "OrderPriced"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	ServiceType string `json:"service_type"`
}

type OrderStatusChangedPayload struct {
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

type OrderPricedPayload struct {
	OrderID       string `json:"order_id"`
	TotalPriceIDR int64  `json:"total_price_idr"`
}

// Publisher menerbitkan event pesanan; implementasi tidak boleh memblokir
// alur request.
type Publisher interface {
	Publish(eventType, orderID string, payload any)
	Close()
}

// kafkaPublisher menulis async lewat inbox channel supaya handler HTTP
// tidak menunggu broker.
type kafkaPublisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewKafkaPublisher(brokers []string, topic string, buf int) Publisher {
	p := &kafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *kafkaPublisher) loop() {
	for m := range p.inbox {
		if err := p.w.WriteMessages(context.Background(), m); err != nil {
			logger.Error("events: failed to write kafka message", err)
		}
	}
	_ = p.w.Close()
	close(p.closeCh)
}

func (p *kafkaPublisher) Publish(eventType, orderID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Error("events: failed to marshal payload", err)
		return
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now(),
		Producer:      "booking-api",
		CorrelationID: orderID,
		Payload:       raw,
	}
	value, err := json.Marshal(env)
	if err != nil {
		logger.Error("events: failed to marshal envelope", err)
		return
	}
	select {
	case p.inbox <- kafka.Message{Key: []byte(orderID), Value: value, Time: time.Now()}:
	default:
		logger.Warn("events: inbox full, dropping %s for order %s", eventType, orderID)
	}
}

// Close menutup inbox supaya loop nge-flush sisa pesan lalu exit.
func (p *kafkaPublisher) Close() {
	close(p.inbox)
	<-p.closeCh
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(eventType, orderID string, _ any) {
	logger.Debug("events (noop): %s order=%s", eventType, orderID)
}

func (noopPublisher) Close() {}
