// Package service holds the business rules between the HTTP handlers
// and the store. Every call takes the acting user id explicitly; there
// is no ambient "current user" state.
package service

import (
	"log/slog"

	"chatwire/internal/models"
	"chatwire/internal/store"
)

// PageSize is the fixed page size for chatroom and message listings.
const PageSize = 10

// MembershipService enforces the join/leave rules and capacity limits
// on chatrooms.
type MembershipService struct {
	store store.Store
	log   *slog.Logger
}

func NewMembershipService(st store.Store, log *slog.Logger) *MembershipService {
	return &MembershipService{store: st, log: log}
}

func (s *MembershipService) Create(name string, maxMembers int) (*models.Chatroom, error) {
	return s.store.CreateChatroom(name, maxMembers)
}

func (s *MembershipService) List(page int) ([]models.Chatroom, int, error) {
	return s.store.ListChatrooms(page, PageSize)
}

// Join adds the user to the chatroom. The store runs existence,
// capacity and duplicate checks atomically and surfaces
// ErrChatroomNotFound, ErrChatroomFull or ErrAlreadyMember.
func (s *MembershipService) Join(chatroomID, userID int) error {
	if err := s.store.JoinChatroom(chatroomID, userID); err != nil {
		return err
	}
	s.log.Info("user joined chatroom", "chatroom_id", chatroomID, "user_id", userID)
	return nil
}

// Leave removes the user's membership. Leaving a chatroom the user
// never joined succeeds; only a missing chatroom is an error.
func (s *MembershipService) Leave(chatroomID, userID int) error {
	if _, err := s.store.GetChatroom(chatroomID); err != nil {
		return err
	}
	return s.store.LeaveChatroom(chatroomID, userID)
}
