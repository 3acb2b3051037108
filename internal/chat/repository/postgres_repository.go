package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ewakoroyal/booking-api/internal/chat/domain"
	"github.com/ewakoroyal/booking-api/internal/platform/logger"
)

type ChatRepository interface {
	ListMessagesByOrderID(ctx context.Context, orderID string) ([]domain.ChatMessage, error)
	CreateMessage(ctx context.Context, msg *domain.ChatMessage) error
	MarkMessagesRead(ctx context.Context, orderID, readerID string) error
}

type postgresChatRepository struct {
	db *sql.DB
}

func NewPostgresChatRepository(db *sql.DB) ChatRepository {
	return &postgresChatRepository{db: db}
}

func (r *postgresChatRepository) ListMessagesByOrderID(ctx context.Context, orderID string) ([]domain.ChatMessage, error) {
	query := `SELECT id, order_id, sender_id, sender_name, text, file_name, file_type, file_data_url, is_read, timestamp
              FROM chat_messages WHERE order_id = $1 ORDER BY timestamp ASC`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		logger.Error("ListMessagesByOrderID: query failed", err)
		return nil, err
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var (
			m           domain.ChatMessage
			text        sql.NullString
			fileName    sql.NullString
			fileType    sql.NullString
			fileDataURL sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.OrderID, &m.SenderID, &m.SenderName, &text, &fileName, &fileType, &fileDataURL, &m.IsRead, &m.Timestamp); err != nil {
			logger.Error("ListMessagesByOrderID: scan failed", err)
			return nil, err
		}
		m.Text = text.String
		m.FileName = fileName.String
		m.FileType = fileType.String
		m.FileDataURL = fileDataURL.String
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *postgresChatRepository) CreateMessage(ctx context.Context, msg *domain.ChatMessage) error {
	query := `INSERT INTO chat_messages (order_id, sender_id, sender_name, text, file_name, file_type, file_data_url, is_read, timestamp)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, timestamp`
	msg.Timestamp = time.Now()
	err := r.db.QueryRowContext(ctx, query,
		msg.OrderID, msg.SenderID, msg.SenderName,
		nullable(msg.Text), nullable(msg.FileName), nullable(msg.FileType), nullable(msg.FileDataURL),
		msg.IsRead, msg.Timestamp,
	).Scan(&msg.ID, &msg.Timestamp)
	if err != nil {
		logger.Error("CreateMessage: failed to insert message", err)
		return err
	}
	return nil
}

// MarkMessagesRead menandai pesan pihak lain sebagai terbaca.
func (r *postgresChatRepository) MarkMessagesRead(ctx context.Context, orderID, readerID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE chat_messages SET is_read = TRUE WHERE order_id = $1 AND sender_id <> $2 AND is_read = FALSE`,
		orderID, readerID)
	if err != nil {
		logger.Error("MarkMessagesRead: update failed", err)
	}
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
