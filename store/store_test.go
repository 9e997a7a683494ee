package store_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudforge/store"
)

type widget struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func (w *widget) GetID() int   { return w.ID }
func (w *widget) SetID(id int) { w.ID = id }

type ticket struct {
	Labels map[string]int `json:"labels,omitempty"`
	Note   string         `json:"note,omitempty"`
	ID     int            `json:"id"`
}

func (t *ticket) GetID() int   { return t.ID }
func (t *ticket) SetID(id int) { t.ID = id }

type sku string

type gadget struct {
	ID    sku    `json:"id"`
	Label string `json:"label"`
	Notes string `json:"notes"`
}

func (g *gadget) GetID() sku   { return g.ID }
func (g *gadget) SetID(id sku) { g.ID = id }

// Assign keeps Notes unless the source sets them.
func (g *gadget) Assign(src *gadget) {
	g.Label = src.Label
	if src.Notes != "" {
		g.Notes = src.Notes
	}
}

// --- Identity ---

func TestFormatID(t *testing.T) {
	t.Parallel()

	require.Equal(t, "42", store.FormatID(42))
	require.Equal(t, "abc", store.FormatID("abc"))
	require.Equal(t, "a-1", store.FormatID(sku("a-1")))
	require.Equal(t, "7", store.FormatID(uint64(7)))

	id := uuid.MustParse("0190d9a8-5a5e-7c3e-9a4b-6f2d1e0c8b7a")
	require.Equal(t, "0190d9a8-5a5e-7c3e-9a4b-6f2d1e0c8b7a", store.FormatID(id))
}

func TestParseID(t *testing.T) {
	t.Parallel()

	t.Run("int", func(t *testing.T) {
		t.Parallel()

		id, err := store.ParseID[int]("42")
		require.NoError(t, err)
		require.Equal(t, 42, id)

		_, err = store.ParseID[int]("forty-two")
		require.ErrorIs(t, err, store.ErrInvalidID)
	})

	t.Run("int overflow", func(t *testing.T) {
		t.Parallel()

		_, err := store.ParseID[int8]("300")
		require.ErrorIs(t, err, store.ErrInvalidID)
	})

	t.Run("unsigned rejects negatives", func(t *testing.T) {
		t.Parallel()

		_, err := store.ParseID[uint32]("-1")
		require.ErrorIs(t, err, store.ErrInvalidID)
	})

	t.Run("named string", func(t *testing.T) {
		t.Parallel()

		id, err := store.ParseID[sku]("a-1")
		require.NoError(t, err)
		require.Equal(t, sku("a-1"), id)
	})

	t.Run("uuid", func(t *testing.T) {
		t.Parallel()

		want := uuid.New()
		id, err := store.ParseID[uuid.UUID](want.String())
		require.NoError(t, err)
		require.Equal(t, want, id)

		_, err = store.ParseID[uuid.UUID]("not-a-uuid")
		require.ErrorIs(t, err, store.ErrInvalidID)
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()

		_, err := store.ParseID[float64]("1.5")
		require.ErrorIs(t, err, store.ErrInvalidID)
	})
}

func TestIsZero(t *testing.T) {
	t.Parallel()

	require.True(t, store.IsZero(0))
	require.True(t, store.IsZero(uuid.Nil))
	require.False(t, store.IsZero("x"))
}

// --- ApplyValues ---

func TestApplyValues(t *testing.T) {
	t.Parallel()

	t.Run("overwrites fields and keeps identity", func(t *testing.T) {
		t.Parallel()

		target := &widget{ID: 1, Name: "old", Price: 10}
		source := &widget{ID: 99, Name: "new", Price: 20}

		require.NoError(t, store.ApplyValues(target, source))
		require.Equal(t, &widget{ID: 1, Name: "new", Price: 20}, target)
	})

	t.Run("clears omitted and zero fields", func(t *testing.T) {
		t.Parallel()

		target := &ticket{ID: 7, Note: "old", Labels: map[string]int{"a": 1, "b": 2}}
		source := &ticket{Note: "", Labels: map[string]int{"a": 9}}

		require.NoError(t, store.ApplyValues(target, source))
		require.Equal(t, &ticket{ID: 7, Labels: map[string]int{"a": 9}}, target)
	})

	t.Run("does not alias source", func(t *testing.T) {
		t.Parallel()

		target := &ticket{ID: 1}
		source := &ticket{Labels: map[string]int{"a": 1}}

		require.NoError(t, store.ApplyValues(target, source))
		source.Labels["a"] = 2
		require.Equal(t, 1, target.Labels["a"])
	})

	t.Run("uses Assigner when implemented", func(t *testing.T) {
		t.Parallel()

		target := &gadget{ID: "g-1", Label: "old", Notes: "keep"}
		source := &gadget{ID: "other", Label: "new"}

		require.NoError(t, store.ApplyValues(target, source))
		require.Equal(t, &gadget{ID: "g-1", Label: "new", Notes: "keep"}, target)
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	w, err := store.Decode[*widget]([]byte(`{"id":3,"name":"bolt","price":5}`))
	require.NoError(t, err)
	require.Equal(t, &widget{ID: 3, Name: "bolt", Price: 5}, w)

	_, err = store.Decode[*widget]([]byte(`{`))
	require.ErrorIs(t, err, store.ErrDecode)
}

// --- Tracker ---

func TestTracker(t *testing.T) {
	t.Parallel()

	t.Run("assigns identity on insert", func(t *testing.T) {
		t.Parallel()

		tr := store.NewTracker[*widget](store.BuildOptions(store.WithIDGenerator(store.Sequence(10))))
		a := &widget{Name: "a"}
		b := &widget{ID: 5, Name: "b"}
		tr.Insert(a)
		tr.Insert(b)

		require.Equal(t, 10, a.ID)
		require.Equal(t, 5, b.ID)

		pending := tr.Pending()
		require.Len(t, pending, 2)
		require.Equal(t, store.Added, pending[0].Kind)
		require.Equal(t, 10, pending[0].ID)
		require.Equal(t, 5, pending[1].ID)
	})

	t.Run("keeps zero identity without generator", func(t *testing.T) {
		t.Parallel()

		tr := store.NewTracker[*widget](store.Options[int]{})
		w := &widget{Name: "a"}
		tr.Insert(w)
		require.Zero(t, w.ID)
	})

	t.Run("stages modified and deleted", func(t *testing.T) {
		t.Parallel()

		tr := store.NewTracker[*widget](store.Options[int]{})
		target := &widget{ID: 1, Name: "old"}
		require.NoError(t, tr.ApplyCurrentValues(target, &widget{Name: "new"}))
		tr.Remove(&widget{ID: 2})

		pending := tr.Pending()
		require.Len(t, pending, 2)
		require.Equal(t, store.Modified, pending[0].Kind)
		require.Equal(t, "new", pending[0].Model.Name)
		require.Equal(t, store.Deleted, pending[1].Kind)
		require.Equal(t, 2, pending[1].ID)

		tr.Reset()
		require.Empty(t, tr.Pending())
	})
}

func TestChangeKind_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "added", store.Added.String())
	require.Equal(t, "modified", store.Modified.String())
	require.Equal(t, "deleted", store.Deleted.String())
	require.Equal(t, "unknown", store.ChangeKind(0).String())
}

// --- ID generators ---

func TestSequence(t *testing.T) {
	t.Parallel()

	next := store.Sequence[int64](1)
	require.Equal(t, int64(1), next())
	require.Equal(t, int64(2), next())
	require.Equal(t, int64(3), next())
}

func TestUUIDGenerator(t *testing.T) {
	t.Parallel()

	next := store.UUIDGenerator()
	a, b := next(), next()
	require.NotEqual(t, a, b)
	require.Equal(t, uuid.Version(7), a.Version())

	s := store.UUIDStringGenerator()()
	_, err := uuid.Parse(s)
	require.NoError(t, err)
}
