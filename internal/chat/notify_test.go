package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/adamavenir/meshchat/internal/types"
)

func TestTruncateNotification(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"collapse   all\n\nwhitespace", 40, "collapse all whitespace"},
		{"abcdefghij", 5, "abcd…"},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tt := range tests {
		if got := truncateNotification(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncateNotification(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestPrivateMessageNotifier(t *testing.T) {
	if PrivateMessageNotifier(false) != nil {
		t.Fatal("disabled notifier should be nil")
	}

	type note struct{ title, body string }
	sent := make(chan note, 1)
	prev := notify
	notify = func(title, body string) error {
		sent <- note{title, body}
		return nil
	}
	t.Cleanup(func() { notify = prev })

	PrivateMessageNotifier(true)("a1", types.Message{Sender: "alice", Content: "psst " + strings.Repeat("x", 200)})

	select {
	case got := <-sent:
		if got.title != "meshchat · alice" {
			t.Fatalf("title = %q", got.title)
		}
		if n := len([]rune(got.body)); n != notificationBodyLimit {
			t.Fatalf("body length = %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("notification not sent")
	}
}
