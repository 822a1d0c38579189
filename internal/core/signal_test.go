package core

import (
	"math"
	"testing"

	"github.com/adamavenir/meshchat/internal/types"
)

func TestSignalTierBoundaries(t *testing.T) {
	tests := []struct {
		rssi int
		want int
	}{
		{0, 3},
		{-49, 3},
		{-50, 3},
		{-51, 2},
		{-70, 2},
		{-71, 1},
		{-90, 1},
		{-91, 0},
		{-200, 0},
		{40, 3},
		{math.MinInt, 0},
		{math.MaxInt, 3},
	}
	for _, tt := range tests {
		if got := SignalTier(tt.rssi); got != tt.want {
			t.Errorf("SignalTier(%d) = %d, want %d", tt.rssi, got, tt.want)
		}
	}
}

func TestSignalTierMonotonic(t *testing.T) {
	prev := SignalTier(-150)
	for r := -149; r <= 20; r++ {
		tier := SignalTier(r)
		if tier < prev {
			t.Fatalf("tier decreased at %d: %d -> %d", r, prev, tier)
		}
		if tier < 0 || tier > MaxSignalTier {
			t.Fatalf("tier %d out of range at %d", tier, r)
		}
		prev = tier
	}
}

func TestSignalColorBoundaries(t *testing.T) {
	tests := []struct {
		rssi int
		want SignalBand
	}{
		{-50, BandBrightGreen},
		{-51, BandGreenYellow},
		{-60, BandGreenYellow},
		{-61, BandYellow},
		{-70, BandYellow},
		{-71, BandOrange},
		{-80, BandOrange},
		{-81, BandRed},
		{10, BandBrightGreen},
		{math.MinInt, BandRed},
	}
	for _, tt := range tests {
		if got := SignalColor(tt.rssi); got != tt.want {
			t.Errorf("SignalColor(%d) = %s, want %s", tt.rssi, got, tt.want)
		}
	}
}

// Each threshold flips the band exactly at the stated value.
func TestSignalColorFlipsAtThreshold(t *testing.T) {
	for _, threshold := range []int{-80, -70, -60, -50} {
		at := SignalColor(threshold)
		below := SignalColor(threshold - 1)
		if at == below {
			t.Errorf("band did not change at %d: %s", threshold, at)
		}
		if at != SignalColor(threshold+1) {
			t.Errorf("band changed just above %d", threshold)
		}
	}
}

func TestSignalBandHex(t *testing.T) {
	want := map[SignalBand]string{
		BandBrightGreen: "#00FF00",
		BandGreenYellow: "#80FF00",
		BandYellow:      "#FFFF00",
		BandOrange:      "#FF8000",
		BandRed:         "#FF4444",
	}
	for band, hex := range want {
		if got := band.Hex(); got != hex {
			t.Errorf("%s.Hex() = %s, want %s", band, got, hex)
		}
	}
}

func TestSenderReading(t *testing.T) {
	p1 := types.PeerID("p1")
	p2 := types.PeerID("p2")
	readings := map[types.PeerID]int{p1: -42}

	if got := SenderReading(types.Message{SenderPeerID: &p1}, readings); got != -42 {
		t.Errorf("known sender: got %d", got)
	}
	if got := SenderReading(types.Message{SenderPeerID: &p2}, readings); got != DefaultReading {
		t.Errorf("unknown reading: got %d", got)
	}
	if got := SenderReading(types.Message{}, readings); got != DefaultReading {
		t.Errorf("no sender: got %d", got)
	}
	if SignalColor(DefaultReading) != BandGreenYellow {
		t.Errorf("default reading should color green-yellow")
	}
}

func TestPeerReadingDefaultsToZero(t *testing.T) {
	if got := PeerReading("missing", nil); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
	if SignalTier(PeerReading("missing", nil)) != 3 {
		t.Fatal("missing reading should show full bars")
	}
}
