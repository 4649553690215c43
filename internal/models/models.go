package models

import "time"

const (
	ChatTypePrivate = "private"
	ChatTypeGroup   = "group"
)

type User struct {
	ID               int    `json:"id"`
	Username         string `json:"username"`
	PasswordHash     string `json:"-"`
	Nickname         string `json:"nickname"`
	AvatarURL        string `json:"avatar_url"`
	IsOnline         bool   `json:"is_online"`
	HideOnlineStatus bool   `json:"hide_online_status"`
	Theme            string `json:"theme"`
}

// ProfilePatch carries the optional fields of a profile update. Nil means
// "leave untouched"; the store only writes the fields that are set.
type ProfilePatch struct {
	Nickname         *string `json:"nickname"`
	AvatarURL        *string `json:"avatar_url"`
	HideOnlineStatus *bool   `json:"hide_online_status"`
	Theme            *string `json:"theme"`
}

func (p ProfilePatch) Empty() bool {
	return p.Nickname == nil && p.AvatarURL == nil && p.HideOnlineStatus == nil && p.Theme == nil
}

// PublicUser is the subset of a profile that other users get to see.
type PublicUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// ChatSummary is one row of a user's chat list. LastMessage and
// LastMessageTime are nil for chats with no messages yet. OtherUser is set
// for private chats only: a 1:1 chat has no name of its own, so its
// UI-facing identity is the counterpart's profile.
type ChatSummary struct {
	ID              int         `json:"id"`
	Type            string      `json:"type"`
	Name            *string     `json:"name"`
	AvatarURL       *string     `json:"avatar_url"`
	OwnerID         *int        `json:"owner_id"`
	LastMessage     *string     `json:"last_message"`
	LastMessageTime *time.Time  `json:"last_message_time"`
	OtherUser       *PublicUser `json:"other_user,omitempty"`
}

// Sender is the public profile snapshot joined onto a message at read time.
// Fields are nil for system messages, which have no sender row.
type Sender struct {
	Username  *string `json:"username"`
	Nickname  *string `json:"nickname"`
	AvatarURL *string `json:"avatar_url"`
}

type Message struct {
	ID          int       `json:"id"`
	ChatID      int       `json:"chat_id"`
	SenderID    *int      `json:"sender_id"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	FileURL     *string   `json:"file_url"`
	IsSystem    bool      `json:"is_system"`
	ReadBy      []int     `json:"read_by"`
	CreatedAt   time.Time `json:"created_at"`
	Sender      Sender    `json:"sender"`
}
