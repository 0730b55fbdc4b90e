package state

// PopupKind is the kind of record shown in the detail popup.
type PopupKind string

// Popup kinds.
const (
	PopupProduct   PopupKind = "produto"
	PopupPromotion PopupKind = "promo"
)

// CloseReason is how the visitor dismissed the popup.
type CloseReason string

// Close reasons.
const (
	CloseButton  CloseReason = "button"
	CloseOverlay CloseReason = "overlay"
	CloseEscape  CloseReason = "escape"
)

// Popup is the single-record detail view. At most one record is open at a time:
// opening a record closes the previous one.
type Popup struct {
	kind PopupKind
	id   string
}

// Open shows a record and returns the one it replaced, if any.
func (p *Popup) Open(kind PopupKind, id string) (PopupKind, string, bool) {
	prevKind, prevID, wasOpen := p.kind, p.id, p.IsOpen()

	p.kind = kind
	p.id = id

	return prevKind, prevID, wasOpen
}

// Close dismisses the open record. It reports false when nothing was open
// or the reason is unknown.
func (p *Popup) Close(reason CloseReason) bool {
	if !p.IsOpen() {
		return false
	}

	switch reason {
	case CloseButton, CloseOverlay, CloseEscape:
	default:
		return false
	}

	p.kind = ""
	p.id = ""

	return true
}

// IsOpen reports whether a record is shown.
func (p *Popup) IsOpen() bool {
	return p.id != ""
}

// Current returns the open record.
func (p *Popup) Current() (PopupKind, string) {
	return p.kind, p.id
}
