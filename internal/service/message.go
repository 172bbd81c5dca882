package service

import (
	"io"
	"log/slog"
	"time"

	"chatwire/internal/chaterr"
	"chatwire/internal/models"
	"chatwire/internal/store"
	"chatwire/internal/ws"
)

// Broadcaster publishes events to topic subscribers, excluding the
// originating socket. Implemented by ws.Hub.
type Broadcaster interface {
	Publish(topic, event string, payload any, excludeSocket string)
}

// AttachmentStore persists an upload and returns its public URL, or
// chaterr.ErrUnsupportedMedia when the content is neither image nor video.
type AttachmentStore interface {
	Save(file io.ReadSeeker, filename string) (string, error)
}

// Upload is an attachment handed in by the HTTP layer.
type Upload struct {
	File     io.ReadSeeker
	Filename string
}

// MessageEvent is the payload fanned out to chatroom subscribers when a
// message lands.
type MessageEvent struct {
	Message   string `json:"message"`
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
}

const eventTimeFormat = "2006-01-02 15:04:05"

type MessageService struct {
	store       store.Store
	attachments AttachmentStore
	broadcaster Broadcaster
	log         *slog.Logger
}

func NewMessageService(st store.Store, attachments AttachmentStore, broadcaster Broadcaster, log *slog.Logger) *MessageService {
	return &MessageService{store: st, attachments: attachments, broadcaster: broadcaster, log: log}
}

// Send validates and records a message, then notifies the chatroom's
// subscribers. The sender only has to exist, not to be a member of the
// chatroom; the original API behaves the same way and callers rely on it.
//
// The write is durable before the notify step runs; a failed broadcast
// is logged and never rolls the message back.
func (s *MessageService) Send(senderID, chatroomID int, text string, upload *Upload, socketID string) (*models.Message, error) {
	if _, err := s.store.GetChatroom(chatroomID); err != nil {
		return nil, err
	}

	var attachmentURL *string
	if upload != nil {
		url, err := s.attachments.Save(upload.File, upload.Filename)
		if err != nil {
			return nil, err
		}
		attachmentURL = &url
	}

	// Whitespace-only text counts as content; only a truly empty string
	// with no attachment is rejected.
	if text == "" && attachmentURL == nil {
		return nil, chaterr.ErrEmptyMessage
	}

	msg := &models.Message{
		ChatroomID:     chatroomID,
		UserID:         senderID,
		MessageText:    text,
		AttachmentPath: attachmentURL,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.SaveMessage(msg); err != nil {
		return nil, err
	}

	s.notify(msg, socketID)
	return msg, nil
}

func (s *MessageService) notify(msg *models.Message, socketID string) {
	sender, err := s.store.GetUserByID(msg.UserID)
	if err != nil {
		s.log.Error("lookup sender for broadcast", "message_id", msg.ID, "error", err)
		return
	}

	event := MessageEvent{
		Message:   msg.MessageText,
		User:      sender.Name,
		CreatedAt: msg.CreatedAt.Format(eventTimeFormat),
	}
	s.broadcaster.Publish(ws.Topic(msg.ChatroomID), "message.sent", event, socketID)
	s.log.Info("message broadcast", "message_id", msg.ID, "chatroom_id", msg.ChatroomID)
}

// List returns one page of the chatroom's messages in insertion order.
func (s *MessageService) List(chatroomID, page int) ([]models.Message, int, error) {
	if _, err := s.store.GetChatroom(chatroomID); err != nil {
		return nil, 0, err
	}
	return s.store.ListMessages(chatroomID, page, PageSize)
}
