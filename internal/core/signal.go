package core

import "github.com/adamavenir/meshchat/internal/types"

// DefaultReading is the RSSI used to color a message whose sender has no
// known reading.
const DefaultReading = -60

// MaxSignalTier is the number of bars in the compact signal indicator.
const MaxSignalTier = 3

// SignalTier maps an RSSI reading to 0..3 bars. Thresholds are inclusive.
func SignalTier(rssi int) int {
	switch {
	case rssi >= -50:
		return 3
	case rssi >= -70:
		return 2
	case rssi >= -90:
		return 1
	default:
		return 0
	}
}

// SignalBand is a five-step color scale for signal quality.
type SignalBand int

const (
	BandRed SignalBand = iota
	BandOrange
	BandYellow
	BandGreenYellow
	BandBrightGreen
)

var bandHex = [...]string{
	BandRed:         "#FF4444",
	BandOrange:      "#FF8000",
	BandYellow:      "#FFFF00",
	BandGreenYellow: "#80FF00",
	BandBrightGreen: "#00FF00",
}

var bandNames = [...]string{
	BandRed:         "red",
	BandOrange:      "orange",
	BandYellow:      "yellow",
	BandGreenYellow: "green-yellow",
	BandBrightGreen: "bright-green",
}

// Hex returns the RGB color of the band.
func (b SignalBand) Hex() string {
	return bandHex[b]
}

func (b SignalBand) String() string {
	return bandNames[b]
}

// SignalColor maps an RSSI reading to a color band. Thresholds are inclusive.
func SignalColor(rssi int) SignalBand {
	switch {
	case rssi >= -50:
		return BandBrightGreen
	case rssi >= -60:
		return BandGreenYellow
	case rssi >= -70:
		return BandYellow
	case rssi >= -80:
		return BandOrange
	default:
		return BandRed
	}
}

// SenderReading returns the reading of the message's sender, or
// DefaultReading when the message has no sender peer or no reading is known.
func SenderReading(msg types.Message, readings map[types.PeerID]int) int {
	if msg.SenderPeerID == nil {
		return DefaultReading
	}
	if rssi, ok := readings[*msg.SenderPeerID]; ok {
		return rssi
	}
	return DefaultReading
}

// PeerReading returns the sidebar reading for a peer. Peers without a
// reading show as 0, matching the mesh service's default.
func PeerReading(peer types.PeerID, readings map[types.PeerID]int) int {
	return readings[peer]
}
