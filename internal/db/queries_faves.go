package db

import (
	"database/sql"
	"time"

	"github.com/adamavenir/meshchat/internal/types"
)

// Favorite is a faved peer.
type Favorite struct {
	PeerID   types.PeerID `json:"peer_id"`
	Nickname string       `json:"nickname,omitempty"`
	FavedAt  int64        `json:"faved_at"`
}

// AddFavorite marks a peer as favorite, recording its current nickname.
func AddFavorite(db DBTX, peerID types.PeerID, nickname string) (int64, error) {
	favedAt := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT OR REPLACE INTO meshchat_favorites (peer_id, nickname, faved_at)
		VALUES (?, ?, ?)
	`, string(peerID), nullString(nickname), favedAt)
	return favedAt, err
}

// RemoveFavorite clears the favorite flag. It reports whether a row existed.
func RemoveFavorite(db DBTX, peerID types.PeerID) (bool, error) {
	result, err := db.Exec(`DELETE FROM meshchat_favorites WHERE peer_id = ?`, string(peerID))
	if err != nil {
		return false, err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsFavorite checks whether a peer is faved.
func IsFavorite(db DBTX, peerID types.PeerID) (bool, error) {
	row := db.QueryRow(`SELECT 1 FROM meshchat_favorites WHERE peer_id = ?`, string(peerID))
	var exists int
	err := row.Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetFavorites returns all favorites, most recent first.
func GetFavorites(db DBTX) ([]Favorite, error) {
	rows, err := db.Query(`
		SELECT peer_id, nickname, faved_at
		FROM meshchat_favorites
		ORDER BY faved_at DESC, peer_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faves []Favorite
	for rows.Next() {
		var f Favorite
		var peerID string
		var nickname sql.NullString
		if err := rows.Scan(&peerID, &nickname, &f.FavedAt); err != nil {
			return nil, err
		}
		f.PeerID = types.PeerID(peerID)
		f.Nickname = nickname.String
		faves = append(faves, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return faves, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
