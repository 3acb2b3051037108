package domain

import "time"

// AdminSenderName adalah label pengirim untuk pesan dari sisi admin.
const AdminSenderName = "Admin Ewako"

// ChatMessage terikat ke satu pesanan; riwayatnya di-poll klien lewat
// REST, tidak di-push.
type ChatMessage struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"` // "Admin Ewako" atau nama pelanggan
	Text       string    `json:"text,omitempty"`
	FileName   string    `json:"file_name,omitempty"`
	FileType   string    `json:"file_type,omitempty"`
	// FileDataURL: data URL base64 untuk preview gambar kecil; file besar
	// hanya menyimpan nama + tipe.
	FileDataURL string    `json:"file_data_url,omitempty"`
	IsRead      bool      `json:"is_read"`
	Timestamp   time.Time `json:"timestamp"`
}

func (m *ChatMessage) HasContent() bool {
	return m.Text != "" || m.FileName != ""
}
