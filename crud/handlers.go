package crud

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/dmitrymomot/crudforge/internal"
	"github.com/dmitrymomot/crudforge/store"
)

// handlers are stateless: every request opens its own store session.
type handlers[M store.Model[ID], ID comparable] struct {
	store    store.Store[M, ID]
	location string
}

func (h handlers[M, ID]) list(c internal.Context) error {
	items, err := h.store.Session().All(c)
	if err != nil {
		return err
	}
	if items == nil {
		items = []M{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h handlers[M, ID]) get(c internal.Context) error {
	id, err := pathID[ID](c)
	if err != nil {
		return err
	}

	m, err := h.store.Session().Find(c, id)
	if err != nil {
		return notFound(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h handlers[M, ID]) create(c internal.Context) error {
	m, err := bind[M](c)
	if err != nil {
		return err
	}

	s := h.store.Session()
	s.Insert(m)
	if err := s.Commit(c); err != nil {
		return err
	}

	c.SetHeader("Location", h.location+"/"+store.FormatID(m.GetID()))
	return c.JSON(http.StatusCreated, m)
}

func (h handlers[M, ID]) update(c internal.Context) error {
	id, err := pathID[ID](c)
	if err != nil {
		return err
	}
	incoming, err := bind[M](c)
	if err != nil {
		return err
	}

	s := h.store.Session()
	existing, err := s.Find(c, id)
	if err != nil {
		return notFound(err)
	}
	if err := s.ApplyCurrentValues(existing, incoming); err != nil {
		return err
	}
	if err := s.Commit(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h handlers[M, ID]) remove(c internal.Context) error {
	id, err := pathID[ID](c)
	if err != nil {
		return err
	}

	s := h.store.Session()
	existing, err := s.Find(c, id)
	if err != nil {
		return notFound(err)
	}
	s.Remove(existing)
	if err := s.Commit(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID[ID comparable](c internal.Context) (ID, error) {
	id, err := store.ParseID[ID](c.Param("id"))
	if err != nil {
		return id, internal.ErrBadRequest("invalid identity", internal.WithError(err))
	}
	return id, nil
}

func bind[M any](c internal.Context) (M, error) {
	var m M
	if err := c.BindJSON(&m); err != nil {
		return m, internal.ErrBadRequest("invalid request body", internal.WithError(err))
	}
	if isNil(m) {
		return m, internal.ErrBadRequest("request body must be a JSON object")
	}
	return m, nil
}

// notFound converts a missing identity into a 404; other lookup failures
// propagate unchanged.
func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return internal.ErrNotFound("entity not found", internal.WithError(err))
	}
	return err
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
