package store

import (
	"errors"

	"github.com/okunev/chirp/internal/models"
)

// Sentinel errors returned by Store implementations. Handlers match on these
// with errors.Is and never see driver-specific error codes.
var (
	ErrNotFound          = errors.New("store: not found")
	ErrDuplicateUsername = errors.New("store: username already exists")
)

type Store interface {
	// User operations
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	SetOnline(userID int, online bool) error
	UpdateProfile(userID int, patch models.ProfilePatch) error

	// Chat operations
	CreateChat(chatType string, creatorID int, name, avatarURL *string, memberIDs []int) (int, error)
	GetUserChats(userID int) ([]models.ChatSummary, error)
	IsMember(chatID, userID int) (bool, error)

	// Message operations
	GetChatMessages(chatID int) ([]models.Message, error)
	SaveMessage(chatID int, senderID *int, content, messageType string, fileURL *string, isSystem bool) (*models.Message, error)
	MarkMessageRead(messageID, userID int) error
	GetMessageChatID(messageID int) (int, error)
}
