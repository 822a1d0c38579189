package db

import (
	"database/sql"
	"strings"

	"github.com/adamavenir/meshchat/internal/types"
	"github.com/google/uuid"
)

const (
	configNickname = "nickname"
	configPeerID   = "peer_id"
)

// ConfigEntry is one stored setting.
type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GetConfig returns a config value.
func GetConfig(db DBTX, key string) (string, error) {
	row := db.QueryRow("SELECT value FROM meshchat_config WHERE key = ?", key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetConfig sets a config value.
func SetConfig(db DBTX, key, value string) error {
	_, err := db.Exec("INSERT OR REPLACE INTO meshchat_config (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetAllConfig returns all config entries.
func GetAllConfig(db DBTX) ([]ConfigEntry, error) {
	rows, err := db.Query("SELECT key, value FROM meshchat_config ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ConfigEntry
	for rows.Next() {
		var entry ConfigEntry
		if err := rows.Scan(&entry.Key, &entry.Value); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetNickname returns the stored local nickname, or "".
func GetNickname(db DBTX) (string, error) {
	return GetConfig(db, configNickname)
}

// SetNickname stores the local nickname.
func SetNickname(db DBTX, nickname string) error {
	return SetConfig(db, configNickname, strings.TrimSpace(nickname))
}

// LocalPeerID returns the stored local peer id, generating one on first use.
func LocalPeerID(db DBTX) (types.PeerID, error) {
	value, err := GetConfig(db, configPeerID)
	if err != nil {
		return "", err
	}
	if value != "" {
		return types.PeerID(value), nil
	}
	value = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	if err := SetConfig(db, configPeerID, value); err != nil {
		return "", err
	}
	return types.PeerID(value), nil
}
