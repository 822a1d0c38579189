package command

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adamavenir/meshchat/internal/db"
	"github.com/spf13/cobra"
)

func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// isolate points config, storage and HOME at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("MESHCHAT_STORAGE__PATH", filepath.Join(dir, "meshchat.db"))
	t.Setenv("MESHCHAT_LOG__PATH", filepath.Join(dir, "meshchat.log"))
	return dir
}

func TestRootCommandVersion(t *testing.T) {
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd, "--version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "meshchat version test") {
		t.Fatalf("expected version output, got %q", output)
	}
}

func TestRootCommandHelp(t *testing.T) {
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd, "--help")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, want := range []string{"bitchat", "chat", "faves", "nick"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in help output, got %q", want, output)
		}
	}
}

func TestChatRejectsJSON(t *testing.T) {
	isolate(t)

	output, err := executeCommand(NewRootCmd("test"), "chat", "--json")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(output, "--json not supported") {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestChatRejectsInvalidTheme(t *testing.T) {
	isolate(t)

	output, err := executeCommand(NewRootCmd("test"), "chat", "--theme", "neon")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(output, "unknown theme") {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestNickCommand(t *testing.T) {
	dir := isolate(t)

	output, err := executeCommand(NewRootCmd("test"), "nick")
	if err != nil {
		t.Fatalf("nick: %v", err)
	}
	if !strings.Contains(output, "No nickname set") {
		t.Fatalf("unexpected output %q", output)
	}

	if _, err := executeCommand(NewRootCmd("test"), "nick", "neo"); err != nil {
		t.Fatalf("nick neo: %v", err)
	}

	output, err = executeCommand(NewRootCmd("test"), "nick", "--json")
	if err != nil {
		t.Fatalf("nick --json: %v", err)
	}
	var payload struct {
		Nickname string `json:"nickname"`
		PeerID   string `json:"peer_id"`
	}
	if err := json.Unmarshal([]byte(output), &payload); err != nil {
		t.Fatalf("decode %q: %v", output, err)
	}
	if payload.Nickname != "neo" || payload.PeerID == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	dbConn, err := db.Open(filepath.Join(dir, "meshchat.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()
	stored, err := db.GetNickname(dbConn)
	if err != nil || stored != "neo" {
		t.Fatalf("stored nickname = %q, %v", stored, err)
	}
}

func TestFaveCommands(t *testing.T) {
	isolate(t)

	output, err := executeCommand(NewRootCmd("test"), "fave", "a1b2", "--nick", "alice")
	if err != nil {
		t.Fatalf("fave: %v", err)
	}
	if !strings.Contains(output, "Faved a1b2") {
		t.Fatalf("unexpected output %q", output)
	}

	output, err = executeCommand(NewRootCmd("test"), "fave", "a1b2")
	if err != nil {
		t.Fatalf("fave again: %v", err)
	}
	if !strings.Contains(output, "Already faved") {
		t.Fatalf("unexpected output %q", output)
	}

	output, err = executeCommand(NewRootCmd("test"), "faves", "--json")
	if err != nil {
		t.Fatalf("faves: %v", err)
	}
	var faves []db.Favorite
	if err := json.Unmarshal([]byte(output), &faves); err != nil {
		t.Fatalf("decode %q: %v", output, err)
	}
	if len(faves) != 1 || faves[0].PeerID != "a1b2" || faves[0].Nickname != "alice" {
		t.Fatalf("unexpected faves %+v", faves)
	}

	output, err = executeCommand(NewRootCmd("test"), "unfave", "a1b2")
	if err != nil {
		t.Fatalf("unfave: %v", err)
	}
	if !strings.Contains(output, "Unfaved a1b2") {
		t.Fatalf("unexpected output %q", output)
	}

	output, err = executeCommand(NewRootCmd("test"), "faves")
	if err != nil {
		t.Fatalf("faves: %v", err)
	}
	if !strings.Contains(output, "No faves yet") {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "config.toml")

	output, err := executeCommand(NewRootCmd("test"), "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, "Wrote") {
		t.Fatalf("unexpected output %q", output)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	output, err = executeCommand(NewRootCmd("test"), "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init again: %v", err)
	}
	if !strings.Contains(output, "already exists") {
		t.Fatalf("unexpected output %q", output)
	}

	output, err = executeCommand(NewRootCmd("test"), "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(output, "transport.kind: loopback") {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestResolveNickname(t *testing.T) {
	dir := isolate(t)
	dbConn, err := db.Open(filepath.Join(dir, "nick.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	got, err := resolveNickname(dbConn, "", "", "abcdef12")
	if err != nil || got != "anonabcd" {
		t.Fatalf("generated = %q, %v", got, err)
	}
	got, err = resolveNickname(dbConn, "", "cfg", "abcdef12")
	if err != nil || got != "cfg" {
		t.Fatalf("configured = %q, %v", got, err)
	}
	got, err = resolveNickname(dbConn, "flag", "cfg", "abcdef12")
	if err != nil || got != "flag" {
		t.Fatalf("flag = %q, %v", got, err)
	}
	got, err = resolveNickname(dbConn, "", "cfg", "abcdef12")
	if err != nil || got != "flag" {
		t.Fatalf("stored = %q, %v", got, err)
	}
}

func TestErrorHint(t *testing.T) {
	tests := []struct {
		err  string
		want string
	}{
		{"no such table: meshchat_favorites", "schema mismatch"},
		{"transport.relay_url is required for the relay transport", "--relay"},
		{`unknown theme "neon" (want dark or light)`, "--theme"},
		{"something else", ""},
	}
	for _, tt := range tests {
		got := errorHint(errors.New(tt.err))
		if tt.want == "" {
			if got != "" {
				t.Errorf("errorHint(%q) = %q, want none", tt.err, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("errorHint(%q) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
