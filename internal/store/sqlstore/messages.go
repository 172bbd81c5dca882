package sqlstore

import (
	"database/sql"
	"time"

	"chatwire/internal/models"
)

func (s *SQLStore) SaveMessage(msg *models.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	var attachment sql.NullString
	if msg.AttachmentPath != nil {
		attachment = sql.NullString{String: *msg.AttachmentPath, Valid: true}
	}

	query := s.rebind("INSERT INTO messages (chatroom_id, user_id, message_text, attachment_path, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id")
	return s.db.QueryRow(query, msg.ChatroomID, msg.UserID, msg.MessageText, attachment, msg.CreatedAt).Scan(&msg.ID)
}

func (s *SQLStore) ListMessages(chatroomID, page, perPage int) ([]models.Message, int, error) {
	var total int
	query := s.rebind("SELECT COUNT(*) FROM messages WHERE chatroom_id = ?")
	if err := s.db.QueryRow(query, chatroomID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query = s.rebind(`
		SELECT id, chatroom_id, user_id, message_text, attachment_path, created_at
		FROM messages
		WHERE chatroom_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`)
	rows, err := s.db.Query(query, chatroomID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		var attachment sql.NullString
		if err := rows.Scan(&m.ID, &m.ChatroomID, &m.UserID, &m.MessageText, &attachment, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		if attachment.Valid {
			m.AttachmentPath = &attachment.String
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}
