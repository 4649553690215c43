package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/okunev/chirp/internal/models"
	"github.com/okunev/chirp/internal/store"
)

// SaveMessage inserts the message and bumps the owning chat's last-activity
// timestamp to the message's creation time, in one transaction.
func (s *SQLStore) SaveMessage(chatID int, senderID *int, content, messageType string, fileURL *string, isSystem bool) (*models.Message, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// The timestamp is assigned here rather than by a column default: SQLite's
	// CURRENT_TIMESTAMP is second-granular, which would make same-second
	// appends tie.
	msg := &models.Message{
		ChatID:      chatID,
		SenderID:    senderID,
		Content:     content,
		MessageType: messageType,
		FileURL:     fileURL,
		IsSystem:    isSystem,
		ReadBy:      []int{},
		CreatedAt:   time.Now().UTC(),
	}

	query := s.rebind("INSERT INTO messages (chat_id, sender_id, content, message_type, file_url, is_system, created_at) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id")
	if err := tx.QueryRow(query, chatID, senderID, content, messageType, fileURL, isSystem, msg.CreatedAt).Scan(&msg.ID); err != nil {
		return nil, err
	}

	query = s.rebind("UPDATE chats SET updated_at = ? WHERE id = ?")
	if _, err := tx.Exec(query, msg.CreatedAt, chatID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetChatMessages returns the chat's messages oldest first, each joined with
// the sender's current public profile and its read-by set.
func (s *SQLStore) GetChatMessages(chatID int) ([]models.Message, error) {
	query := s.rebind(`
		SELECT m.id, m.chat_id, m.sender_id, m.content, m.message_type,
			m.file_url, m.is_system, m.created_at,
			u.username, u.nickname, u.avatar_url
		FROM messages m
		LEFT JOIN users u ON m.sender_id = u.id
		WHERE m.chat_id = ?
		ORDER BY m.created_at ASC, m.id ASC
	`)
	rows, err := s.db.Query(query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	index := map[int]int{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.MessageType,
			&m.FileURL, &m.IsSystem, &m.CreatedAt,
			&m.Sender.Username, &m.Sender.Nickname, &m.Sender.AvatarURL); err != nil {
			return nil, err
		}
		m.ReadBy = []int{}
		index[m.ID] = len(messages)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		return messages, nil
	}

	readQuery := s.rebind(`
		SELECT r.message_id, r.user_id
		FROM message_reads r
		JOIN messages m ON r.message_id = m.id
		WHERE m.chat_id = ?
	`)
	readRows, err := s.db.Query(readQuery, chatID)
	if err != nil {
		return nil, err
	}
	defer readRows.Close()

	for readRows.Next() {
		var messageID, userID int
		if err := readRows.Scan(&messageID, &userID); err != nil {
			return nil, err
		}
		if i, ok := index[messageID]; ok {
			messages[i].ReadBy = append(messages[i].ReadBy, userID)
		}
	}
	return messages, readRows.Err()
}

// MarkMessageRead adds userID to the message's read-by set. Re-marking is a
// no-op, not an error: the set's primary key absorbs the duplicate.
func (s *SQLStore) MarkMessageRead(messageID, userID int) error {
	query := "INSERT OR IGNORE INTO message_reads (message_id, user_id) VALUES (?, ?)"
	if s.driverName == "postgres" {
		query = s.rebind("INSERT INTO message_reads (message_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING")
	}
	_, err := s.db.Exec(query, messageID, userID)
	return err
}

func (s *SQLStore) GetMessageChatID(messageID int) (int, error) {
	var chatID int
	query := s.rebind("SELECT chat_id FROM messages WHERE id = ?")
	err := s.db.QueryRow(query, messageID).Scan(&chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrNotFound
	}
	return chatID, err
}
