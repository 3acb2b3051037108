package domain

import "time"

type PaymentType string

const (
	PaymentDP      PaymentType = "DP"
	PaymentLunas   PaymentType = "LUNAS"
	PaymentLainnya PaymentType = "LAINNYA"
)

func (t PaymentType) Valid() bool {
	return t == PaymentDP || t == PaymentLunas || t == PaymentLainnya
}

type PaymentMethod string

const (
	MethodTransfer   PaymentMethod = "Transfer"
	MethodMidtransVA PaymentMethod = "Midtrans VA" // placeholder, belum ada integrasi gateway
	MethodCash       PaymentMethod = "Cash"
	MethodLainnya    PaymentMethod = "Lainnya"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodTransfer || m == MethodMidtransVA || m == MethodCash || m == MethodLainnya
}

type Payment struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"` // pencatat, bisa admin atas nama pelanggan
	Amount        int64         `json:"amount"`  // selalu IDR
	PaymentDate   string        `json:"payment_date"`
	PaymentType   PaymentType   `json:"payment_type"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
