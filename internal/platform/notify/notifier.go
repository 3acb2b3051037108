package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ewakoroyal/booking-api/internal/platform/logger"
)

// Notifier adalah kontrak pengiriman notifikasi ke pelanggan/admin.
// Transportasi sebenarnya (WhatsApp gateway) dikerjakan proses lain;
// engine hanya perlu memanggil interface ini.
type Notifier interface {
	NotifyCustomer(ctx context.Context, phone, message string) error
	NotifyAdmin(ctx context.Context, message string) error
}

// OutboundMessage adalah payload yang diantrikan untuk worker pengirim.
type OutboundMessage struct {
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`
	DeepLink   string    `json:"deep_link"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// WhatsAppLink membangun deep link wa.me untuk nomor + pesan.
func WhatsAppLink(phone, message string) string {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}

// redisNotifier mendorong pesan ke Redis list; worker terpisah yang
// mengirimkannya. Gagal antri hanya dicatat, tidak menggagalkan transaksi
// pesanan.
type redisNotifier struct {
	rdb        *redis.Client
	outboxKey  string
	adminPhone string
}

func NewRedisNotifier(addr, outboxKey, adminPhone string) Notifier {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &redisNotifier{rdb: rdb, outboxKey: outboxKey, adminPhone: adminPhone}
}

func (n *redisNotifier) enqueue(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(OutboundMessage{
		Phone:      phone,
		Message:    message,
		DeepLink:   WhatsAppLink(phone, message),
		EnqueuedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if err := n.rdb.LPush(ctx, n.outboxKey, payload).Err(); err != nil {
		logger.Error("notify: failed to enqueue outbound message", err)
		return err
	}
	return nil
}

func (n *redisNotifier) NotifyCustomer(ctx context.Context, phone, message string) error {
	if strings.TrimSpace(phone) == "" {
		logger.Warn("notify: skipping customer notification, empty phone")
		return nil
	}
	return n.enqueue(ctx, phone, message)
}

func (n *redisNotifier) NotifyAdmin(ctx context.Context, message string) error {
	return n.enqueue(ctx, n.adminPhone, message)
}

// noopNotifier dipakai saat Redis tidak dikonfigurasi (dev/test).
type noopNotifier struct{}

func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) NotifyCustomer(_ context.Context, phone, message string) error {
	logger.Debug("notify (noop) to %s: %s", phone, message)
	return nil
}

func (noopNotifier) NotifyAdmin(_ context.Context, message string) error {
	logger.Debug("notify (noop) to admin: %s", message)
	return nil
}
