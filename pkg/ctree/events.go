package ctree

// EventType identifies the value-changed event families the binding
// engine listens for.
type EventType uint8

const (
	EventInput  EventType = iota // text-like value edits
	EventChange                  // committed checkbox/radio/file/select changes
	EventBlur                    // focus leaving a control
	EventSubmit                  // form submission trigger
)

// String returns the string representation of the EventType.
func (t EventType) String() string {
	switch t {
	case EventInput:
		return "input"
	case EventChange:
		return "change"
	case EventBlur:
		return "blur"
	case EventSubmit:
		return "submit"
	default:
		return "unknown"
	}
}

// Event is a bubbling tree event.
type Event struct {
	Type   EventType
	Target *Node

	defaultPrevented bool
}

// NewEvent creates an event targeting the given node.
func NewEvent(t EventType, target *Node) *Event {
	return &Event{Type: t, Target: target}
}

// PreventDefault marks the event's default action as suppressed.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

type listener struct {
	id uint64
	fn func(*Event)
}

// On registers a delegated listener on this node for the given event
// type. The listener fires for events dispatched to this node or any
// descendant. The returned function removes the listener; calling it
// more than once is a no-op.
func (n *Node) On(t EventType, fn func(*Event)) func() {
	if n.listeners == nil {
		n.listeners = map[EventType][]*listener{}
	}
	n.nextListenerID++
	l := &listener{id: n.nextListenerID, fn: fn}
	n.listeners[t] = append(n.listeners[t], l)

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		ls := n.listeners[t]
		for i, cur := range ls {
			if cur.id == l.id {
				n.listeners[t] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers the event to listeners on the target and each of
// its ancestors, innermost first. A nil target defaults to n.
func (n *Node) Dispatch(e *Event) {
	if e.Target == nil {
		e.Target = n
	}
	for cur := e.Target; cur != nil; cur = cur.parent {
		// Copy before invoking: listeners may remove themselves.
		ls := append([]*listener(nil), cur.listeners[e.Type]...)
		for _, l := range ls {
			l.fn(e)
		}
	}
}
