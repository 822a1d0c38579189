package chat

import (
	"fmt"
	"strings"

	"github.com/adamavenir/meshchat/internal/core"
	"github.com/adamavenir/meshchat/internal/types"
	tea "github.com/charmbracelet/bubbletea"
)

const helpText = "commands: /j #channel · /leave [#channel] · /m nick [message] · /nick name · " +
	"/fav [nick] · /back · /w · /copy · /quit"

// submit sends the input, or runs it when it is a slash command.
func (m *Model) submit() tea.Cmd {
	value := m.input.Value()
	m.input.Reset()
	m.resize()

	if handled, cmd := m.handleSlashCommand(value); handled {
		return cmd
	}
	if m.store.Send(value) {
		m.status = ""
	}
	return nil
}

func (m *Model) handleSlashCommand(input string) (bool, tea.Cmd) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return false, nil
	}

	cmd, err := m.runSlashCommand(trimmed)
	if err != nil {
		m.status = err.Error()
		m.input.SetValue(input)
		m.input.CursorEnd()
		return true, nil
	}
	return true, cmd
}

func (m *Model) runSlashCommand(input string) (tea.Cmd, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, nil
	}

	switch fields[0] {
	case "/quit", "/exit":
		return tea.Quit, nil
	case "/help":
		m.store.AddNotice(helpText)
		return nil, nil
	case "/j", "/join":
		if len(fields) < 2 {
			return nil, fmt.Errorf("usage: /j #channel")
		}
		return nil, m.store.JoinChannel(fields[1])
	case "/leave":
		return nil, m.runLeaveCommand(fields[1:])
	case "/m", "/msg":
		return nil, m.runPrivateCommand(input, fields[1:])
	case "/nick":
		if len(fields) < 2 {
			return nil, fmt.Errorf("usage: /nick name")
		}
		return nil, m.store.SetNickname(strings.Join(fields[1:], " "))
	case "/fav":
		return nil, m.runFavCommand(fields[1:])
	case "/back":
		if _, ok := m.snap.Selection.Private(); ok {
			m.store.EndPrivateChat()
		} else {
			m.store.SwitchChannel("")
		}
		return nil, nil
	case "/w", "/who":
		m.store.AddNotice(m.whoText())
		return nil, nil
	case "/copy":
		text, ok := m.lastMessageText()
		if !ok {
			return nil, fmt.Errorf("nothing to copy")
		}
		return m.copyCmd(text), nil
	}
	return nil, fmt.Errorf("unknown command: %s", fields[0])
}

func (m *Model) runLeaveCommand(args []string) error {
	name := ""
	if len(args) > 0 {
		name = core.NormalizeChannelName(args[0])
	} else if active, ok := m.snap.Selection.Channel(); ok {
		name = active
	}
	if name == "" {
		return fmt.Errorf("usage: /leave #channel")
	}
	return m.store.LeaveChannel(name)
}

// runPrivateCommand opens a private chat and sends the optional message.
func (m *Model) runPrivateCommand(input string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: /m nick [message]")
	}
	peer, ok := m.resolvePeer(args[0])
	if !ok {
		return fmt.Errorf("no peer named %s", strings.TrimPrefix(args[0], "@"))
	}
	m.store.StartPrivateChat(peer)
	if text := messageAfterArgs(input, 2); text != "" {
		m.store.Send(text)
	}
	return nil
}

func (m *Model) runFavCommand(args []string) error {
	var peer types.PeerID
	if len(args) > 0 {
		resolved, ok := m.resolvePeer(args[0])
		if !ok {
			return fmt.Errorf("no peer named %s", strings.TrimPrefix(args[0], "@"))
		}
		peer = resolved
	} else if active, ok := m.snap.Selection.Private(); ok {
		peer = active
	} else {
		return fmt.Errorf("usage: /fav nick (or use it in a private chat)")
	}
	m.toggleFavorite(peer)
	return nil
}

func (m *Model) toggleFavorite(peer types.PeerID) {
	faved, err := m.store.ToggleFavorite(peer)
	if err != nil {
		m.status = err.Error()
		return
	}
	name := m.peerName(peer)
	if faved {
		m.status = "★ " + name
	} else {
		m.status = "☆ " + name
	}
}

// resolvePeer finds a connected peer by nickname (case-insensitive) or ID.
func (m *Model) resolvePeer(ref string) (types.PeerID, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "@")
	if ref == "" {
		return "", false
	}
	for _, row := range m.screen.Peers {
		if strings.EqualFold(row.Name, ref) {
			return row.ID, true
		}
	}
	for _, row := range m.screen.Peers {
		if string(row.ID) == ref {
			return row.ID, true
		}
	}
	return "", false
}

func (m *Model) peerName(peer types.PeerID) string {
	for _, row := range m.screen.Peers {
		if row.ID == peer {
			return row.Name
		}
	}
	return string(peer)
}

func (m *Model) whoText() string {
	if len(m.screen.Peers) == 0 {
		return "no one else is online"
	}
	names := make([]string, 0, len(m.screen.Peers))
	for _, row := range m.screen.Peers {
		names = append(names, row.Name)
	}
	return "online: " + strings.Join(names, ", ")
}

// messageAfterArgs returns the text following the first n fields of input,
// with its inner spacing preserved.
func messageAfterArgs(input string, n int) string {
	rest := strings.TrimSpace(input)
	for i := 0; i < n; i++ {
		idx := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' })
		if idx < 0 {
			return ""
		}
		rest = strings.TrimSpace(rest[idx:])
	}
	return rest
}
