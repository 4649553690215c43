package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okunev/chirp/internal/models"
)

// CreateChat inserts the chat row and every membership row in one
// transaction, so a half-created chat is never observable. The membership set
// is {creator} plus memberIDs, deduplicated, with the creator always first.
func (s *SQLStore) CreateChat(chatType string, creatorID int, name, avatarURL *string, memberIDs []int) (int, error) {
	if chatType != models.ChatTypePrivate && chatType != models.ChatTypeGroup {
		return 0, fmt.Errorf("unknown chat type %q", chatType)
	}

	members := []int{creatorID}
	seen := map[int]bool{creatorID: true}
	for _, id := range memberIDs {
		if !seen[id] {
			members = append(members, id)
			seen[id] = true
		}
	}

	var ownerID *int
	if chatType == models.ChatTypeGroup {
		ownerID = &creatorID
	} else {
		// A private chat has no owner and no stored name or avatar.
		name = nil
		avatarURL = nil
		if len(members) != 2 {
			return 0, fmt.Errorf("private chat needs exactly 2 members, got %d", len(members))
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var chatID int
	query := s.rebind("INSERT INTO chats (type, name, avatar_url, owner_id) VALUES (?, ?, ?, ?) RETURNING id")
	if err := tx.QueryRow(query, chatType, name, avatarURL, ownerID).Scan(&chatID); err != nil {
		return 0, err
	}

	memberQuery := s.rebind("INSERT INTO chat_members (chat_id, user_id) VALUES (?, ?)")
	for _, userID := range members {
		if _, err := tx.Exec(memberQuery, chatID, userID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return chatID, nil
}

func (s *SQLStore) IsMember(chatID, userID int) (bool, error) {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id = ? AND user_id = ?)")
	err := s.db.QueryRow(query, chatID, userID).Scan(&exists)
	return exists, err
}

// GetUserChats returns every chat the user belongs to, most recently active
// first, each annotated with its latest message. Private chats additionally
// embed the other member's public profile.
func (s *SQLStore) GetUserChats(userID int) ([]models.ChatSummary, error) {
	query := s.rebind(`
		SELECT c.id, c.type, c.name, c.avatar_url, c.owner_id
		FROM chats c
		JOIN chat_members cm ON c.id = cm.chat_id
		WHERE cm.user_id = ?
		ORDER BY c.updated_at DESC, c.id DESC
	`)
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.ChatSummary
	for rows.Next() {
		var chat models.ChatSummary
		if err := rows.Scan(&chat.ID, &chat.Type, &chat.Name, &chat.AvatarURL, &chat.OwnerID); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range chats {
		if err := s.annotateLastMessage(&chats[i]); err != nil {
			return nil, err
		}
		if chats[i].Type != models.ChatTypePrivate {
			continue
		}
		other, err := s.getOtherMember(chats[i].ID, userID)
		if err != nil {
			return nil, err
		}
		chats[i].OtherUser = other
	}
	return chats, nil
}

func (s *SQLStore) annotateLastMessage(chat *models.ChatSummary) error {
	query := s.rebind(`
		SELECT content, created_at FROM messages
		WHERE chat_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`)
	var content string
	var createdAt time.Time
	err := s.db.QueryRow(query, chat.ID).Scan(&content, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	chat.LastMessage = &content
	chat.LastMessageTime = &createdAt
	return nil
}

// getOtherMember resolves the counterpart of a private chat: the single
// membership row whose user differs from the requesting user.
func (s *SQLStore) getOtherMember(chatID, userID int) (*models.PublicUser, error) {
	query := s.rebind(`
		SELECT u.id, u.username, COALESCE(u.nickname, ''), COALESCE(u.avatar_url, '')
		FROM users u
		JOIN chat_members cm ON u.id = cm.user_id
		WHERE cm.chat_id = ? AND u.id != ?
		LIMIT 1
	`)
	var user models.PublicUser
	err := s.db.QueryRow(query, chatID, userID).Scan(&user.ID, &user.Username, &user.Nickname, &user.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
