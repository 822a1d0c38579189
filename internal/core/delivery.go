package core

import (
	"fmt"

	"github.com/adamavenir/meshchat/internal/types"
)

// ColorRole names a theme color without binding to a palette.
type ColorRole int

const (
	RoleMuted ColorRole = iota
	RolePrimary
	RoleAccent
	RoleError
)

func (r ColorRole) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleAccent:
		return "accent"
	case RoleError:
		return "error"
	default:
		return "muted"
	}
}

// Delivery glyphs. Each status has its own glyph.
const (
	GlyphSending   = "○"
	GlyphSent      = "✓"
	GlyphDelivered = "✓✓"
	GlyphRead      = "✔✔"
	GlyphFailed    = "⚠"
	GlyphPartial   = "✓…"
)

// Token is the rendering of a delivery status.
type Token struct {
	Glyph  string
	Role   ColorRole
	Detail string // e.g. "2/3" for partial delivery
}

type tokenVisitor struct {
	token Token
}

func (v *tokenVisitor) VisitSending(types.Sending) {
	v.token = Token{Glyph: GlyphSending, Role: RoleMuted}
}

func (v *tokenVisitor) VisitSent(types.Sent) {
	v.token = Token{Glyph: GlyphSent, Role: RoleMuted}
}

func (v *tokenVisitor) VisitDelivered(types.Delivered) {
	v.token = Token{Glyph: GlyphDelivered, Role: RolePrimary}
}

func (v *tokenVisitor) VisitRead(types.Read) {
	v.token = Token{Glyph: GlyphRead, Role: RoleAccent}
}

func (v *tokenVisitor) VisitFailed(types.Failed) {
	v.token = Token{Glyph: GlyphFailed, Role: RoleError}
}

func (v *tokenVisitor) VisitPartiallyDelivered(p types.PartiallyDelivered) {
	v.token = Token{Glyph: GlyphPartial, Role: RoleMuted, Detail: fmt.Sprintf("%d/%d", p.Acked, p.Total)}
}

// RenderToken maps a delivery status to its glyph and color role.
// A nil status has no token.
func RenderToken(status types.DeliveryStatus) (Token, bool) {
	if status == nil {
		return Token{}, false
	}
	var v tokenVisitor
	status.Accept(&v)
	return v.token, true
}
