package store

import "chatwire/internal/models"

type Store interface {
	// User operations
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)

	// Chatroom operations
	CreateChatroom(name string, maxMembers int) (*models.Chatroom, error)
	GetChatroom(id int) (*models.Chatroom, error)
	ListChatrooms(page, perPage int) ([]models.Chatroom, int, error)
	JoinChatroom(chatroomID, userID int) error
	LeaveChatroom(chatroomID, userID int) error
	IsMember(chatroomID, userID int) (bool, error)
	MemberCount(chatroomID int) (int, error)

	// Message operations
	SaveMessage(msg *models.Message) error
	ListMessages(chatroomID, page, perPage int) ([]models.Message, int, error)
}
