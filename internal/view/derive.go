// Package view derives everything the chat screen renders from a state
// snapshot. Derive is pure; the terminal layer only styles its output.
package view

import (
	"time"

	"github.com/adamavenir/meshchat/internal/core"
	"github.com/adamavenir/meshchat/internal/mesh"
	"github.com/adamavenir/meshchat/internal/router"
	"github.com/adamavenir/meshchat/internal/state"
	"github.com/adamavenir/meshchat/internal/types"
)

const (
	PlaceholderPublic  = "Type a message..."
	PlaceholderPrivate = "Type a private message..."
	TimeFormat         = "15:04"
)

// Model is the derived screen content.
type Model struct {
	Title       string
	Badge       string
	ShowBadge   bool
	Private     bool
	Favorite    bool
	Placeholder string
	Messages    []MessageRow
	Channels    []ChannelRow
	Peers       []PeerRow
}

// MessageRow is one rendered message.
type MessageRow struct {
	ID        string
	Sender    string
	Avatar    string
	Content   string
	Time      string
	Timestamp time.Time
	Band      core.SignalBand
	Token     core.Token
	HasToken  bool
	Mine      bool
	System    bool
}

// ChannelRow is a joined channel in the sidebar.
type ChannelRow struct {
	Name   string
	Unread int
	Active bool
}

// PeerRow is a connected peer in the sidebar.
type PeerRow struct {
	ID       types.PeerID
	Name     string
	Avatar   string
	Tier     int
	Band     core.SignalBand
	Favorite bool
	Unread   bool
	Active   bool
}

// Derive computes the screen model. dir and favs may be nil.
func Derive(snap state.Snapshot, dir mesh.Directory, favs core.Favorites) Model {
	nicknames := map[types.PeerID]string{}
	readings := map[types.PeerID]int{}
	if dir != nil {
		if n := dir.Nicknames(); n != nil {
			nicknames = n
		}
		if r := dir.Readings(); r != nil {
			readings = r
		}
	}
	nicknameOf := func(id types.PeerID) (string, bool) {
		name, ok := nicknames[id]
		return name, ok
	}
	isFavorite := func(id types.PeerID) bool {
		return favs != nil && favs.IsFavorite(id)
	}

	m := Model{
		Title:       router.Title(snap.Selection, nicknameOf),
		Placeholder: PlaceholderPublic,
	}
	m.Badge, m.ShowBadge = core.BadgeLabel(core.UnreadBadge(snap.UnreadPrivate, snap.Connected, nicknameOf, snap.UnreadChannels))

	activePeer, private := snap.Selection.Private()
	if private {
		m.Private = true
		m.Favorite = isFavorite(activePeer)
		m.Placeholder = PlaceholderPrivate
	}

	active := snap.Active()
	m.Messages = make([]MessageRow, 0, len(active))
	for _, msg := range active {
		m.Messages = append(m.Messages, deriveMessage(snap, msg, readings))
	}

	activeChannel, _ := snap.Selection.Channel()
	m.Channels = make([]ChannelRow, 0, len(snap.Joined))
	for _, name := range snap.Joined {
		m.Channels = append(m.Channels, ChannelRow{
			Name:   name,
			Unread: snap.UnreadChannels[name],
			Active: name == activeChannel,
		})
	}

	ordered := core.OrderedPeers(snap.Connected, nicknameOf)
	m.Peers = make([]PeerRow, 0, len(ordered))
	for _, id := range ordered {
		rssi := core.PeerReading(id, readings)
		name := core.DisplayName(id, nicknameOf)
		_, unread := snap.UnreadPrivate[id]
		m.Peers = append(m.Peers, PeerRow{
			ID:       id,
			Name:     name,
			Avatar:   core.AvatarLabel(nicknames[id]),
			Tier:     core.SignalTier(rssi),
			Band:     core.SignalColor(rssi),
			Favorite: isFavorite(id),
			Unread:   unread,
			Active:   private && id == activePeer,
		})
	}
	return m
}

func deriveMessage(snap state.Snapshot, msg types.Message, readings map[types.PeerID]int) MessageRow {
	row := MessageRow{
		ID:        msg.ID,
		Sender:    msg.Sender,
		Avatar:    core.AvatarLabel(msg.Sender),
		Content:   msg.Content,
		Time:      msg.Timestamp.Format(TimeFormat),
		Timestamp: msg.Timestamp,
		Band:      core.SignalColor(core.SenderReading(msg, readings)),
		Mine:      snap.IsMine(msg),
		System:    msg.IsSystem(),
	}
	if row.Mine {
		row.Token, row.HasToken = core.RenderToken(msg.Status)
	}
	return row
}
