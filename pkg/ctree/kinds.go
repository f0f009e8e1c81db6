package ctree

// Kind is the closed control-kind discriminator. Value extraction and
// group merging switch exhaustively over it; there is no open-ended
// type inspection anywhere else.
type Kind uint8

const (
	KindText           Kind = iota // input type=text, email, password, ...
	KindNumber                     // input type=number or range
	KindCheckbox                   // input type=checkbox
	KindRadio                      // input type=radio
	KindFile                       // input type=file
	KindSelect                     // single select
	KindSelectMultiple             // select with the multiple attribute
	KindTextArea                   // textarea
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindCheckbox:
		return "checkbox"
	case KindRadio:
		return "radio"
	case KindFile:
		return "file"
	case KindSelect:
		return "select"
	case KindSelectMultiple:
		return "select-multiple"
	case KindTextArea:
		return "textarea"
	default:
		return "unknown"
	}
}

// IsControl reports whether the node is a form-control-capable element.
func IsControl(n *Node) bool {
	switch n.Tag {
	case "input", "select", "textarea":
		return true
	default:
		return false
	}
}

// KindOf classifies a control node. Calling it on a non-control is a
// programming error; it returns KindText for unknown input types, which
// matches browser behavior for unrecognized type attributes.
func KindOf(n *Node) Kind {
	switch n.Tag {
	case "textarea":
		return KindTextArea
	case "select":
		if _, multiple := n.Attrs["multiple"]; multiple {
			return KindSelectMultiple
		}
		return KindSelect
	}
	switch n.Attrs[AttrType] {
	case "checkbox":
		return KindCheckbox
	case "radio":
		return KindRadio
	case "file":
		return KindFile
	case "number", "range":
		return KindNumber
	default:
		return KindText
	}
}

// TextLike reports whether the kind is handled by input events.
// The remaining kinds are committed through change events.
func (k Kind) TextLike() bool {
	switch k {
	case KindText, KindNumber, KindTextArea:
		return true
	case KindCheckbox, KindRadio, KindFile, KindSelect, KindSelectMultiple:
		return false
	default:
		return false
	}
}
