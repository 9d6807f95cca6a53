package models

import "time"

// Conversation is one chat thread belonging to a user.
type Conversation struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	CreatedAt  time.Time `json:"created_at"`
}

// Message is a single turn in a conversation. Role is "user" or "assistant".
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// PublishedPost is the gallery summary stored after a successful WordPress
// publish. The draft itself lives on the WordPress side.
type PublishedPost struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	PostURL         string    `json:"post_url"`
	EditURL         string    `json:"edit_url,omitempty"`
	WordPressPostID int       `json:"wordpress_post_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
