package store

// ChangeKind classifies a staged change.
type ChangeKind uint8

const (
	Added ChangeKind = iota + 1
	Modified
	Deleted
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is a single staged change.
type Change[M Model[ID], ID comparable] struct {
	Model M
	ID    ID
	Kind  ChangeKind
}

// Tracker stages changes for a session. Drivers embed it and flush
// Pending() inside their own transaction on Commit.
type Tracker[M Model[ID], ID comparable] struct {
	newID   func() ID
	changes []Change[M, ID]
}

// NewTracker creates a tracker using the store options' ID generator.
func NewTracker[M Model[ID], ID comparable](o Options[ID]) Tracker[M, ID] {
	return Tracker[M, ID]{newID: o.IDGenerator}
}

// Insert stages m as added, assigning an identity when it has none.
func (t *Tracker[M, ID]) Insert(m M) {
	if IsZero(m.GetID()) && t.newID != nil {
		m.SetID(t.newID())
	}
	t.changes = append(t.changes, Change[M, ID]{Kind: Added, Model: m})
}

// Remove stages m as deleted.
func (t *Tracker[M, ID]) Remove(m M) {
	t.changes = append(t.changes, Change[M, ID]{Kind: Deleted, Model: m})
}

// ApplyCurrentValues copies source onto target and stages target as modified.
func (t *Tracker[M, ID]) ApplyCurrentValues(target, source M) error {
	if err := ApplyValues(target, source); err != nil {
		return err
	}
	t.changes = append(t.changes, Change[M, ID]{Kind: Modified, Model: target})
	return nil
}

// Pending returns staged changes with identities captured at call time.
func (t *Tracker[M, ID]) Pending() []Change[M, ID] {
	out := make([]Change[M, ID], len(t.changes))
	for i, c := range t.changes {
		c.ID = c.Model.GetID()
		out[i] = c
	}
	return out
}

// Reset drops staged changes. Drivers call it after a successful commit.
func (t *Tracker[M, ID]) Reset() {
	t.changes = nil
}
