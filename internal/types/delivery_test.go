package types

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from DeliveryStatus
		to   DeliveryStatus
		want bool
	}{
		{"nil accepts anything", nil, Read{}, true},
		{"sending to sent", Sending{}, Sent{}, true},
		{"sending to failed", Sending{}, Failed{}, true},
		{"sending to partial", Sending{}, PartiallyDelivered{Acked: 1, Total: 3}, true},
		{"sending skips to read", Sending{}, Read{}, false},
		{"sent to delivered", Sent{}, Delivered{}, true},
		{"sent back to sending", Sent{}, Sending{}, false},
		{"delivered to read", Delivered{}, Read{}, true},
		{"delivered to failed", Delivered{}, Failed{}, false},
		{"read is terminal", Read{}, Delivered{}, false},
		{"failed is terminal", Failed{}, Sent{}, false},
		{"partial grows", PartiallyDelivered{Acked: 1, Total: 3}, PartiallyDelivered{Acked: 2, Total: 3}, true},
		{"partial cannot shrink", PartiallyDelivered{Acked: 2, Total: 3}, PartiallyDelivered{Acked: 1, Total: 3}, false},
		{"partial completes", PartiallyDelivered{Acked: 2, Total: 3}, Delivered{}, true},
		{"nil target", Sending{}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransition(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParseDeliveryStatusRoundTripsNames(t *testing.T) {
	all := []DeliveryStatus{Sending{}, Sent{}, Delivered{}, Read{}, Failed{}, PartiallyDelivered{Acked: 1, Total: 2}}
	for _, status := range all {
		parsed, err := ParseDeliveryStatus(status.Name(), 1, 2)
		if err != nil {
			t.Fatalf("parse %s: %v", status.Name(), err)
		}
		if parsed.Name() != status.Name() {
			t.Errorf("parsed %s as %s", status.Name(), parsed.Name())
		}
	}
}

func TestParseDeliveryStatusRejectsBadInput(t *testing.T) {
	if _, err := ParseDeliveryStatus("queued", 0, 0); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := ParseDeliveryStatus("partial", 3, 2); err == nil {
		t.Error("expected error for acked > total")
	}
}

func TestWithStatusReturnsReplacement(t *testing.T) {
	original := Message{ID: "m1", Content: "hi", Status: Sending{}}
	updated := original.WithStatus(Sent{})
	if original.Status.Name() != "sending" {
		t.Errorf("original mutated to %s", original.Status.Name())
	}
	if updated.Status.Name() != "sent" {
		t.Errorf("updated status = %s", updated.Status.Name())
	}
}
