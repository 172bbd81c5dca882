package models

import "time"

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Chatroom struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	MaxMembers int    `json:"max_members"`
}

type Message struct {
	ID             int       `json:"id"`
	ChatroomID     int       `json:"chatroom_id"`
	UserID         int       `json:"user_id"`
	MessageText    string    `json:"message_text"`
	AttachmentPath *string   `json:"attachment_path"`
	CreatedAt      time.Time `json:"created_at"`
}
