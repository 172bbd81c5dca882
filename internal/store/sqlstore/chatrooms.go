package sqlstore

import (
	"database/sql"
	"errors"

	"chatwire/internal/chaterr"
	"chatwire/internal/models"
)

func (s *SQLStore) CreateChatroom(name string, maxMembers int) (*models.Chatroom, error) {
	room := models.Chatroom{Name: name, MaxMembers: maxMembers}
	query := s.rebind("INSERT INTO chatrooms (name, max_members) VALUES (?, ?) RETURNING id")
	if err := s.db.QueryRow(query, name, maxMembers).Scan(&room.ID); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *SQLStore) GetChatroom(id int) (*models.Chatroom, error) {
	var room models.Chatroom
	query := s.rebind("SELECT id, name, max_members FROM chatrooms WHERE id = ?")
	err := s.db.QueryRow(query, id).Scan(&room.ID, &room.Name, &room.MaxMembers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, chaterr.ErrChatroomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *SQLStore) ListChatrooms(page, perPage int) ([]models.Chatroom, int, error) {
	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chatrooms").Scan(&total); err != nil {
		return nil, 0, err
	}

	query := s.rebind("SELECT id, name, max_members FROM chatrooms ORDER BY id LIMIT ? OFFSET ?")
	rows, err := s.db.Query(query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rooms []models.Chatroom
	for rows.Next() {
		var room models.Chatroom
		if err := rows.Scan(&room.ID, &room.Name, &room.MaxMembers); err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, room)
	}
	return rooms, total, rows.Err()
}

// JoinChatroom runs the capacity check, the duplicate check and the
// insert inside one transaction so concurrent joins cannot push a room
// past max_members. On Postgres the chatroom row is locked for the
// duration of the transaction; on SQLite every transaction already
// serializes on the single pooled connection. The capacity check
// deliberately runs before the duplicate check: a full room reports
// full even to existing members.
func (s *SQLStore) JoinChatroom(chatroomID, userID int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var maxMembers int
	query := s.rebind("SELECT max_members FROM chatrooms WHERE id = ?") + s.forUpdate()
	err = tx.QueryRow(query, chatroomID).Scan(&maxMembers)
	if errors.Is(err, sql.ErrNoRows) {
		return chaterr.ErrChatroomNotFound
	}
	if err != nil {
		return err
	}

	var count int
	query = s.rebind("SELECT COUNT(*) FROM memberships WHERE chatroom_id = ?")
	if err := tx.QueryRow(query, chatroomID).Scan(&count); err != nil {
		return err
	}
	if count >= maxMembers {
		return chaterr.ErrChatroomFull
	}

	var member bool
	query = s.rebind("SELECT EXISTS(SELECT 1 FROM memberships WHERE chatroom_id = ? AND user_id = ?)")
	if err := tx.QueryRow(query, chatroomID, userID).Scan(&member); err != nil {
		return err
	}
	if member {
		return chaterr.ErrAlreadyMember
	}

	query = s.rebind("INSERT INTO memberships (chatroom_id, user_id) VALUES (?, ?)")
	if _, err := tx.Exec(query, chatroomID, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// LeaveChatroom is idempotent: deleting an absent membership is not an error.
func (s *SQLStore) LeaveChatroom(chatroomID, userID int) error {
	query := s.rebind("DELETE FROM memberships WHERE chatroom_id = ? AND user_id = ?")
	_, err := s.db.Exec(query, chatroomID, userID)
	return err
}

func (s *SQLStore) IsMember(chatroomID, userID int) (bool, error) {
	var member bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM memberships WHERE chatroom_id = ? AND user_id = ?)")
	err := s.db.QueryRow(query, chatroomID, userID).Scan(&member)
	return member, err
}

func (s *SQLStore) MemberCount(chatroomID int) (int, error) {
	var count int
	query := s.rebind("SELECT COUNT(*) FROM memberships WHERE chatroom_id = ?")
	err := s.db.QueryRow(query, chatroomID).Scan(&count)
	return count, err
}
