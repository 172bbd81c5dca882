package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"chatwire/internal/chaterr"
	"chatwire/internal/middleware"
	"chatwire/internal/service"
)

const internalErrorMsg = "Something went wrong. Please try again later."

// maxUploadBytes bounds the in-memory part of multipart parsing; larger
// uploads spill to temp files.
const maxUploadBytes = 32 << 20

type MessageHandler struct {
	Service *service.MessageService
	Log     *slog.Logger

	// Production suppresses the details field on internal errors.
	Production bool
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Expected multipart form data.")
		return
	}

	chatroomID, err := strconv.Atoi(r.FormValue("chatroom_id"))
	if err != nil || chatroomID < 1 {
		respondError(w, http.StatusBadRequest, "A valid chatroom_id is required.")
		return
	}

	var upload *service.Upload
	file, header, err := r.FormFile("attachment")
	switch {
	case err == nil:
		defer file.Close()
		upload = &service.Upload{File: file, Filename: header.Filename}
	case !errors.Is(err, http.ErrMissingFile):
		respondError(w, http.StatusBadRequest, "Invalid attachment.")
		return
	}

	msg, err := h.Service.Send(
		middleware.UserID(r),
		chatroomID,
		r.FormValue("message_text"),
		upload,
		r.Header.Get("X-Socket-ID"),
	)
	switch {
	case errors.Is(err, chaterr.ErrChatroomNotFound):
		respondError(w, http.StatusNotFound, "Chatroom not found.")
	case errors.Is(err, chaterr.ErrEmptyMessage):
		respondError(w, http.StatusBadRequest, "Either message text or an attachment is required.")
	case errors.Is(err, chaterr.ErrUnsupportedMedia):
		respondError(w, http.StatusBadRequest, "Unsupported file type.")
	case err != nil:
		h.Log.Error("send message failed", "chatroom_id", chatroomID, "error", err)
		body := map[string]string{"error": internalErrorMsg}
		if !h.Production {
			body["details"] = err.Error()
		}
		respondJSON(w, http.StatusInternalServerError, body)
	default:
		respondJSON(w, http.StatusCreated, msg)
	}
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatroomID, ok := chatroomIDVar(w, r)
	if !ok {
		return
	}

	page := pageParam(r)
	messages, total, err := h.Service.List(chatroomID, page)
	switch {
	case errors.Is(err, chaterr.ErrChatroomNotFound):
		respondError(w, http.StatusNotFound, "Chatroom not found.")
	case err != nil:
		h.Log.Error("list messages failed", "chatroom_id", chatroomID, "error", err)
		respondError(w, http.StatusInternalServerError, internalErrorMsg)
	default:
		respondJSON(w, http.StatusOK, pagedResponse{Data: messages, Page: page, PerPage: service.PageSize, Total: total})
	}
}
