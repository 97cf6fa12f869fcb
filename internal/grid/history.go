package grid

// EntryKind distinguishes history entries.
type EntryKind string

const (
	KindReplace EntryKind = "replace"
	KindPage    EntryKind = "page"
)

// Entry is one undoable step. Replace entries describe a single position swap;
// page entries describe a user-initiated page advance.
type Entry struct {
	Kind EntryKind
	// Page is the page the entry belongs to. For page entries it is ToPage.
	Page int

	Position   int
	RemovedID  int64
	InsertedID int64
	// Decision is the ledger sequence of the decision written by the
	// dismissal that caused the swap. Zero when none was written.
	Decision int64

	FromPage int
	ToPage   int
}

// UndoAction tells the caller what Undo did or wants done.
type UndoAction int

const (
	// UndoNothing means there was nothing to undo on the first page.
	UndoNothing UndoAction = iota
	// UndoRetreat asks the caller to move back to TargetPage.
	UndoRetreat
	// UndoAdvance asks the caller to move forward to TargetPage.
	UndoAdvance
	// UndoRestore means a replace entry was reverted on the current page.
	UndoRestore
)

func (a UndoAction) String() string {
	switch a {
	case UndoRetreat:
		return "retreat"
	case UndoAdvance:
		return "advance"
	case UndoRestore:
		return "restore"
	default:
		return "nothing"
	}
}

// UndoResult reports the outcome of Undo.
type UndoResult struct {
	Action     UndoAction
	TargetPage int
	// Entry is the popped entry, zero when history was empty.
	Entry Entry
	// Deselected lists ids that must drop out of the caller's selection.
	Deselected []int64
}

type history struct {
	entries []Entry
}

func (h *history) push(e Entry) {
	h.entries = append(h.entries, e)
}

func (h *history) pop() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	e := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return e, true
}

func (h *history) len() int {
	return len(h.entries)
}

func (h *history) clear() {
	h.entries = nil
}

func (h *history) snapshot() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
