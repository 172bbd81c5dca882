package sqlstore

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"chatwire/internal/chaterr"
)

func TestCreateChatroom(t *testing.T) {
	s := newTestStore(t)

	room, err := s.CreateChatroom("General Chat", 2)
	if err != nil {
		t.Fatalf("Failed to create chatroom: %v", err)
	}
	if room.ID == 0 {
		t.Error("Expected non-zero chatroom ID")
	}
	if room.MaxMembers != 2 {
		t.Errorf("Expected max_members 2, got %d", room.MaxMembers)
	}
}

func TestGetChatroom(t *testing.T) {
	s := newTestStore(t)
	created, _ := s.CreateChatroom("General Chat", 5)

	room, err := s.GetChatroom(created.ID)
	if err != nil {
		t.Fatalf("Failed to get chatroom: %v", err)
	}
	if room.Name != "General Chat" {
		t.Errorf("Expected name 'General Chat', got '%s'", room.Name)
	}

	_, err = s.GetChatroom(9999)
	if !errors.Is(err, chaterr.ErrChatroomNotFound) {
		t.Errorf("Expected ErrChatroomNotFound, got %v", err)
	}
}

func TestListChatrooms(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 12; i++ {
		s.CreateChatroom(fmt.Sprintf("Room %d", i), 10)
	}

	rooms, total, err := s.ListChatrooms(1, 10)
	if err != nil {
		t.Fatalf("ListChatrooms failed: %v", err)
	}
	if total != 12 {
		t.Errorf("Expected total 12, got %d", total)
	}
	if len(rooms) != 10 {
		t.Errorf("Expected 10 rooms on page 1, got %d", len(rooms))
	}

	rooms, _, _ = s.ListChatrooms(2, 10)
	if len(rooms) != 2 {
		t.Errorf("Expected 2 rooms on page 2, got %d", len(rooms))
	}
}

func TestJoinChatroom(t *testing.T) {
	s := newTestStore(t)
	room, _ := s.CreateChatroom("General Chat", 2)
	alice := createTestUser(t, s, "Alice", "alice@example.com")
	bob := createTestUser(t, s, "Bob", "bob@example.com")
	carol := createTestUser(t, s, "Carol", "carol@example.com")

	if err := s.JoinChatroom(room.ID, alice.ID); err != nil {
		t.Fatalf("First join failed: %v", err)
	}

	// Second join by the same user
	err := s.JoinChatroom(room.ID, alice.ID)
	if !errors.Is(err, chaterr.ErrAlreadyMember) {
		t.Errorf("Expected ErrAlreadyMember, got %v", err)
	}

	if err := s.JoinChatroom(room.ID, bob.ID); err != nil {
		t.Fatalf("Second member join failed: %v", err)
	}

	// Room is now at capacity
	err = s.JoinChatroom(room.ID, carol.ID)
	if !errors.Is(err, chaterr.ErrChatroomFull) {
		t.Errorf("Expected ErrChatroomFull, got %v", err)
	}

	// Capacity is checked before the duplicate check, so a member of a
	// full room is told the room is full.
	err = s.JoinChatroom(room.ID, alice.ID)
	if !errors.Is(err, chaterr.ErrChatroomFull) {
		t.Errorf("Expected ErrChatroomFull for member of full room, got %v", err)
	}

	err = s.JoinChatroom(9999, alice.ID)
	if !errors.Is(err, chaterr.ErrChatroomNotFound) {
		t.Errorf("Expected ErrChatroomNotFound, got %v", err)
	}
}

// Concurrent joins must never push a room past max_members; the
// transactional check in JoinChatroom is what guarantees it.
func TestJoinChatroomConcurrent(t *testing.T) {
	s := newTestStore(t)
	room, _ := s.CreateChatroom("Busy Room", 5)

	const contenders = 20
	userIDs := make([]int, contenders)
	for i := 0; i < contenders; i++ {
		user := createTestUser(t, s, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i))
		userIDs[i] = user.ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	joined := 0
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			if err := s.JoinChatroom(room.ID, userID); err == nil {
				mu.Lock()
				joined++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	count, err := s.MemberCount(room.ID)
	if err != nil {
		t.Fatalf("MemberCount failed: %v", err)
	}
	if count > room.MaxMembers {
		t.Errorf("Member count %d exceeds max_members %d", count, room.MaxMembers)
	}
	if joined != count {
		t.Errorf("Successful joins (%d) disagree with member count (%d)", joined, count)
	}
}

func TestLeaveChatroom(t *testing.T) {
	s := newTestStore(t)
	room, _ := s.CreateChatroom("General Chat", 2)
	alice := createTestUser(t, s, "Alice", "alice@example.com")

	s.JoinChatroom(room.ID, alice.ID)
	if err := s.LeaveChatroom(room.ID, alice.ID); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}

	member, _ := s.IsMember(room.ID, alice.ID)
	if member {
		t.Error("Expected user to no longer be a member")
	}

	// Leaving again is not an error
	if err := s.LeaveChatroom(room.ID, alice.ID); err != nil {
		t.Errorf("Repeated leave should be idempotent, got %v", err)
	}
}
