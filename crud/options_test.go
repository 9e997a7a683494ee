package crud_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudforge/crud"
	"github.com/dmitrymomot/crudforge/internal"
)

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	var o crud.Options
	for _, op := range crud.Operations() {
		res := o.Resolve(op)
		require.True(t, res.Active, op.String())
		require.Empty(t, res.Customizers)
	}
	require.False(t, o.AllDisabled())
	require.NoError(t, o.Err())
}

func TestOptions_Disable(t *testing.T) {
	t.Parallel()

	t.Run("specific operation", func(t *testing.T) {
		t.Parallel()

		o := crud.NewOptions().Disable(crud.Update)
		require.False(t, o.Resolve(crud.Update).Active)
		require.True(t, o.Resolve(crud.List).Active)
		require.False(t, o.AllDisabled())
	})

	t.Run("all layer disables every operation", func(t *testing.T) {
		t.Parallel()

		o := crud.NewOptions().Disable(crud.All)
		for _, op := range crud.Operations() {
			require.False(t, o.Resolve(op).Active, op.String())
		}
		require.True(t, o.AllDisabled())
	})

	t.Run("unknown operation is recorded", func(t *testing.T) {
		t.Parallel()

		o := crud.NewOptions().Disable(crud.Operation(99))
		require.ErrorIs(t, o.Err(), crud.ErrUnknownOperation)
		require.False(t, o.Resolve(crud.Operation(99)).Active)
	})
}

func TestOptions_CustomizerOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	mark := func(s string) crud.RouteCustomizer {
		return func(*internal.Route) { calls = append(calls, s) }
	}

	o := crud.NewOptions().
		Configure(crud.Delete, mark("delete-1")).
		Configure(crud.All, mark("all-1")).
		Configure(crud.Delete, mark("delete-2")).
		Configure(crud.All, mark("all-2"))

	o.Resolve(crud.Delete).Apply(nil)
	require.Equal(t, []string{"all-1", "all-2", "delete-1", "delete-2"}, calls)

	calls = nil
	o.Resolve(crud.List).Apply(nil)
	require.Equal(t, []string{"all-1", "all-2"}, calls)

	calls = nil
	o.Resolve(crud.All).Apply(nil)
	require.Equal(t, []string{"all-1", "all-2"}, calls)
}

func TestOptions_ConfigureIgnoresNil(t *testing.T) {
	t.Parallel()

	o := crud.NewOptions().Configure(crud.List, nil)
	require.Empty(t, o.Resolve(crud.List).Customizers)
	require.NoError(t, o.Err())

	o.Configure(crud.Operation(0), func(*internal.Route) {})
	require.ErrorIs(t, o.Err(), crud.ErrUnknownOperation)
}

func TestOptions_ResolveIsFresh(t *testing.T) {
	t.Parallel()

	o := crud.NewOptions().Configure(crud.All, func(*internal.Route) {})
	first := o.Resolve(crud.List)
	first.Customizers = append(first.Customizers, func(*internal.Route) {})
	first.Active = false

	second := o.Resolve(crud.List)
	require.True(t, second.Active)
	require.Len(t, second.Customizers, 1)
}

func TestOptions_Clone(t *testing.T) {
	t.Parallel()

	o := crud.NewOptions().Disable(crud.List)
	c := o.Clone()
	c.Disable(crud.Create)

	require.True(t, o.Resolve(crud.Create).Active)
	require.False(t, c.Resolve(crud.Create).Active)
	require.False(t, c.Resolve(crud.List).Active)
}

func TestEndpointOptions_Apply(t *testing.T) {
	t.Parallel()

	r := &internal.Route{}
	opts := crud.EndpointOptions{
		Active: true,
		Customizers: []crud.RouteCustomizer{
			func(r *internal.Route) { r.WithTags("a") },
			func(r *internal.Route) { r.WithDescription("described") },
		},
	}
	opts.Apply(r)

	info := r.Info()
	require.Equal(t, []string{"a"}, info.Tags)
	require.Equal(t, "described", info.Description)
}
