// Package chaterr holds the sentinel errors shared between the store,
// the services and the HTTP layer. Handlers translate them into status
// codes; everything not listed here surfaces as a 500.
package chaterr

import "errors"

var (
	ErrChatroomNotFound = errors.New("chatroom not found")
	ErrChatroomFull     = errors.New("chatroom is full")
	ErrAlreadyMember    = errors.New("user is already in this chatroom")
	ErrEmptyMessage     = errors.New("either message text or an attachment is required")
	ErrUnsupportedMedia = errors.New("unsupported file type")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email is already registered")
)
