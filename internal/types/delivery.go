package types

import "fmt"

// DeliveryStatus is the closed set of delivery states a sent message can be in.
// The marker method is unexported so no package outside types can add a
// variant. Consumers branch on a status by implementing DeliveryVisitor, which
// has one method per variant: adding a variant adds a method, and every
// visitor stops compiling until it handles the new case.
type DeliveryStatus interface {
	Accept(v DeliveryVisitor)
	Name() string
	deliveryStatus()
}

// DeliveryVisitor handles every DeliveryStatus variant.
type DeliveryVisitor interface {
	VisitSending(Sending)
	VisitSent(Sent)
	VisitDelivered(Delivered)
	VisitRead(Read)
	VisitFailed(Failed)
	VisitPartiallyDelivered(PartiallyDelivered)
}

// Sending means the message was handed to the transport.
type Sending struct{}

// Sent means the transport put the message on the mesh.
type Sent struct{}

// Delivered means the recipient acknowledged receipt.
type Delivered struct{}

// Read means the recipient reported the message as read.
type Read struct{}

// Failed means the transport gave up on the message.
type Failed struct {
	Reason string
}

// PartiallyDelivered means a multi-recipient send reached Acked of Total peers.
type PartiallyDelivered struct {
	Acked int
	Total int
}

func (s Sending) Accept(v DeliveryVisitor)            { v.VisitSending(s) }
func (s Sent) Accept(v DeliveryVisitor)               { v.VisitSent(s) }
func (s Delivered) Accept(v DeliveryVisitor)          { v.VisitDelivered(s) }
func (s Read) Accept(v DeliveryVisitor)               { v.VisitRead(s) }
func (s Failed) Accept(v DeliveryVisitor)             { v.VisitFailed(s) }
func (s PartiallyDelivered) Accept(v DeliveryVisitor) { v.VisitPartiallyDelivered(s) }

func (Sending) Name() string            { return "sending" }
func (Sent) Name() string               { return "sent" }
func (Delivered) Name() string          { return "delivered" }
func (Read) Name() string               { return "read" }
func (Failed) Name() string             { return "failed" }
func (PartiallyDelivered) Name() string { return "partial" }

func (Sending) deliveryStatus()            {}
func (Sent) deliveryStatus()               {}
func (Delivered) deliveryStatus()          {}
func (Read) deliveryStatus()               {}
func (Failed) deliveryStatus()             {}
func (PartiallyDelivered) deliveryStatus() {}

// ParseDeliveryStatus decodes a status name as produced by Name.
// acked and total are only used for "partial".
func ParseDeliveryStatus(name string, acked, total int) (DeliveryStatus, error) {
	switch name {
	case "sending":
		return Sending{}, nil
	case "sent":
		return Sent{}, nil
	case "delivered":
		return Delivered{}, nil
	case "read":
		return Read{}, nil
	case "failed":
		return Failed{}, nil
	case "partial":
		if total <= 0 || acked < 0 || acked > total {
			return nil, fmt.Errorf("invalid partial delivery %d/%d", acked, total)
		}
		return PartiallyDelivered{Acked: acked, Total: total}, nil
	}
	return nil, fmt.Errorf("unknown delivery status %q", name)
}

// successors lists the states each variant may move to.
type successors struct {
	next func(DeliveryStatus) bool
}

func isSent(s DeliveryStatus) bool {
	_, ok := s.(Sent)
	return ok
}

func isDelivered(s DeliveryStatus) bool {
	_, ok := s.(Delivered)
	return ok
}

func isRead(s DeliveryStatus) bool {
	_, ok := s.(Read)
	return ok
}

func isFailed(s DeliveryStatus) bool {
	_, ok := s.(Failed)
	return ok
}

func isPartial(s DeliveryStatus) bool {
	_, ok := s.(PartiallyDelivered)
	return ok
}

func (v *successors) VisitSending(Sending) {
	v.next = func(s DeliveryStatus) bool { return isSent(s) || isFailed(s) || isPartial(s) }
}

func (v *successors) VisitSent(Sent) {
	v.next = func(s DeliveryStatus) bool { return isDelivered(s) || isFailed(s) || isPartial(s) }
}

func (v *successors) VisitDelivered(Delivered) {
	v.next = isRead
}

func (v *successors) VisitRead(Read) {
	v.next = func(DeliveryStatus) bool { return false }
}

func (v *successors) VisitFailed(Failed) {
	v.next = func(DeliveryStatus) bool { return false }
}

func (v *successors) VisitPartiallyDelivered(p PartiallyDelivered) {
	v.next = func(s DeliveryStatus) bool {
		if next, ok := s.(PartiallyDelivered); ok {
			return next.Acked > p.Acked
		}
		return isDelivered(s) || isRead(s) || isFailed(s)
	}
}

// CanTransition reports whether a status update from -> to follows the
// delivery lifecycle. A nil from accepts any status.
func CanTransition(from, to DeliveryStatus) bool {
	if to == nil {
		return false
	}
	if from == nil {
		return true
	}
	var v successors
	from.Accept(&v)
	return v.next(to)
}
