package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chatwire/internal/chaterr"
	"chatwire/internal/middleware"
	"chatwire/internal/service"
)

type ChatroomHandler struct {
	Service *service.MembershipService
}

type CreateChatroomRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	MaxMembers int    `json:"max_members" validate:"required,min=1"`
}

func (h *ChatroomHandler) CreateChatroom(w http.ResponseWriter, r *http.Request) {
	var req CreateChatroomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := h.Service.Create(req.Name, req.MaxMembers)
	if err != nil {
		respondError(w, http.StatusInternalServerError, internalErrorMsg)
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

func (h *ChatroomHandler) ListChatrooms(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	rooms, total, err := h.Service.List(page)
	if err != nil {
		respondError(w, http.StatusInternalServerError, internalErrorMsg)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Data: rooms, Page: page, PerPage: service.PageSize, Total: total})
}

func (h *ChatroomHandler) JoinChatroom(w http.ResponseWriter, r *http.Request) {
	chatroomID, ok := chatroomIDVar(w, r)
	if !ok {
		return
	}

	err := h.Service.Join(chatroomID, middleware.UserID(r))
	switch {
	case errors.Is(err, chaterr.ErrChatroomNotFound):
		respondError(w, http.StatusNotFound, "Chatroom not found.")
	case errors.Is(err, chaterr.ErrChatroomFull):
		respondError(w, http.StatusForbidden, "Chatroom is full")
	case errors.Is(err, chaterr.ErrAlreadyMember):
		respondError(w, http.StatusBadRequest, "You are already in this chatroom")
	case err != nil:
		respondError(w, http.StatusInternalServerError, internalErrorMsg)
	default:
		respondMessage(w, http.StatusOK, "You have successfully joined the chatroom")
	}
}

func (h *ChatroomHandler) LeaveChatroom(w http.ResponseWriter, r *http.Request) {
	chatroomID, ok := chatroomIDVar(w, r)
	if !ok {
		return
	}

	err := h.Service.Leave(chatroomID, middleware.UserID(r))
	switch {
	case errors.Is(err, chaterr.ErrChatroomNotFound):
		respondError(w, http.StatusNotFound, "Chatroom not found.")
	case err != nil:
		respondError(w, http.StatusInternalServerError, internalErrorMsg)
	default:
		respondMessage(w, http.StatusOK, "Left successfully")
	}
}

// chatroomIDVar parses the {id} path variable. A non-numeric id can
// never reference a chatroom, so it reports not found.
func chatroomIDVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		respondError(w, http.StatusNotFound, "Chatroom not found.")
		return 0, false
	}
	return id, true
}
