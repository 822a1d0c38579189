package db

import (
	"testing"

	"github.com/adamavenir/meshchat/internal/types"
)

func TestFavoritesQueries(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	if _, err := AddFavorite(db, "p1", "alice"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := AddFavorite(db, "p2", ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	faved, err := IsFavorite(db, "p1")
	if err != nil || !faved {
		t.Fatalf("expected p1 faved, got %v %v", faved, err)
	}
	faved, err = IsFavorite(db, "p3")
	if err != nil || faved {
		t.Fatalf("expected p3 not faved, got %v %v", faved, err)
	}

	faves, err := GetFavorites(db)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	byID := map[types.PeerID]Favorite{}
	for _, f := range faves {
		byID[f.PeerID] = f
	}
	if len(byID) != 2 || byID["p1"].Nickname != "alice" || byID["p2"].Nickname != "" {
		t.Fatalf("unexpected favorites %+v", faves)
	}
	if byID["p1"].FavedAt == 0 {
		t.Fatal("faved_at not recorded")
	}

	removed, err := RemoveFavorite(db, "p1")
	if err != nil || !removed {
		t.Fatalf("remove: %v %v", removed, err)
	}
	removed, err = RemoveFavorite(db, "p1")
	if err != nil || removed {
		t.Fatalf("second remove: %v %v", removed, err)
	}
}

func TestConfigQueries(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	value, err := GetConfig(db, "missing")
	if err != nil || value != "" {
		t.Fatalf("missing key: %q %v", value, err)
	}

	if err := SetNickname(db, "  neo "); err != nil {
		t.Fatalf("set nickname: %v", err)
	}
	nickname, err := GetNickname(db)
	if err != nil || nickname != "neo" {
		t.Fatalf("nickname = %q, %v", nickname, err)
	}

	entries, err := GetAllConfig(db)
	if err != nil {
		t.Fatalf("all config: %v", err)
	}
	if len(entries) != 2 || entries[0].Key != "nickname" || entries[1].Key != "schema_version" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestLocalPeerIDIsStable(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	first, err := LocalPeerID(db)
	if err != nil {
		t.Fatalf("peer id: %v", err)
	}
	if len(first) != 16 {
		t.Fatalf("unexpected peer id %q", first)
	}
	second, err := LocalPeerID(db)
	if err != nil {
		t.Fatalf("peer id: %v", err)
	}
	if first != second {
		t.Fatalf("peer id changed: %s -> %s", first, second)
	}
}
