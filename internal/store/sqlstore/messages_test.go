package sqlstore

import (
	"fmt"
	"testing"
	"time"

	"chatwire/internal/models"
)

func TestSaveMessage(t *testing.T) {
	s := newTestStore(t)
	room, _ := s.CreateChatroom("General Chat", 5)
	alice := createTestUser(t, s, "Alice", "alice@example.com")

	msg := &models.Message{ChatroomID: room.ID, UserID: alice.ID, MessageText: "Hello, World!"}
	if err := s.SaveMessage(msg); err != nil {
		t.Fatalf("Failed to save message: %v", err)
	}
	if msg.ID == 0 {
		t.Error("Expected non-zero message ID")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	messages, total, err := s.ListMessages(room.ID, 1, 10)
	if err != nil {
		t.Fatalf("Failed to list messages: %v", err)
	}
	if total != 1 || len(messages) != 1 {
		t.Fatalf("Expected 1 message, got total=%d len=%d", total, len(messages))
	}
	if messages[0].MessageText != "Hello, World!" {
		t.Errorf("Expected text 'Hello, World!', got '%s'", messages[0].MessageText)
	}
	if messages[0].AttachmentPath != nil {
		t.Errorf("Expected nil attachment path, got %v", *messages[0].AttachmentPath)
	}
}

func TestSaveMessageWithAttachment(t *testing.T) {
	s := newTestStore(t)
	room, _ := s.CreateChatroom("General Chat", 5)
	alice := createTestUser(t, s, "Alice", "alice@example.com")

	url := "http://localhost:8080/pictures/1700000000-cat.png"
	msg := &models.Message{ChatroomID: room.ID, UserID: alice.ID, AttachmentPath: &url}
	if err := s.SaveMessage(msg); err != nil {
		t.Fatalf("Failed to save message: %v", err)
	}

	messages, _, _ := s.ListMessages(room.ID, 1, 10)
	if messages[0].AttachmentPath == nil || *messages[0].AttachmentPath != url {
		t.Errorf("Expected attachment path %q, got %v", url, messages[0].AttachmentPath)
	}
}

func TestListMessagesOrderAndPaging(t *testing.T) {
	s := newTestStore(t)
	room, _ := s.CreateChatroom("General Chat", 5)
	alice := createTestUser(t, s, "Alice", "alice@example.com")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		msg := &models.Message{
			ChatroomID:  room.ID,
			UserID:      alice.ID,
			MessageText: fmt.Sprintf("message %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}
		if err := s.SaveMessage(msg); err != nil {
			t.Fatalf("Failed to save message %d: %v", i, err)
		}
	}

	messages, total, err := s.ListMessages(room.ID, 1, 10)
	if err != nil {
		t.Fatalf("Failed to list messages: %v", err)
	}
	if total != 12 {
		t.Errorf("Expected total 12, got %d", total)
	}
	if len(messages) != 10 {
		t.Fatalf("Expected 10 messages on page 1, got %d", len(messages))
	}
	if messages[0].MessageText != "message 0" {
		t.Errorf("Expected oldest message first, got '%s'", messages[0].MessageText)
	}

	messages, _, _ = s.ListMessages(room.ID, 2, 10)
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages on page 2, got %d", len(messages))
	}
	if messages[1].MessageText != "message 11" {
		t.Errorf("Expected newest message last, got '%s'", messages[1].MessageText)
	}
}

func TestListMessagesScopedToChatroom(t *testing.T) {
	s := newTestStore(t)
	room1, _ := s.CreateChatroom("Room One", 5)
	room2, _ := s.CreateChatroom("Room Two", 5)
	alice := createTestUser(t, s, "Alice", "alice@example.com")

	s.SaveMessage(&models.Message{ChatroomID: room1.ID, UserID: alice.ID, MessageText: "for room one"})

	messages, total, err := s.ListMessages(room2.ID, 1, 10)
	if err != nil {
		t.Fatalf("Failed to list messages: %v", err)
	}
	if total != 0 || len(messages) != 0 {
		t.Errorf("Expected no messages in other chatroom, got total=%d len=%d", total, len(messages))
	}
}
