package shared_test

import (
	"testing"

	"github.com/flxzt/pxtogether/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct{ n int }

func cloneCounter(c *counter) *counter {
	cp := *c
	return &cp
}

func TestRc_CloneAndRelease(t *testing.T) {
	a := shared.New(&counter{n: 1})
	assert.True(t, a.Unique())
	assert.Equal(t, 1, a.Owners())

	b := a.Clone()
	assert.True(t, a.Same(b))
	assert.Equal(t, 2, a.Owners())
	assert.False(t, a.Unique())

	b.Release()
	assert.False(t, b.Valid())
	assert.Nil(t, b.Get())
	assert.True(t, a.Unique())
}

func TestRc_SameIsIdentityNotValue(t *testing.T) {
	a := shared.New(&counter{n: 7})
	b := shared.New(&counter{n: 7})

	assert.Equal(t, *a.Get(), *b.Get())
	assert.False(t, a.Same(b), "equal values in distinct instances must not be the same")

	var empty shared.Rc[counter]
	assert.False(t, empty.Same(empty))
}

func TestMakeMut_UniqueMutatesInPlace(t *testing.T) {
	a := shared.New(&counter{n: 1})
	before := a.Get()

	v := shared.MakeMut(&a, cloneCounter)
	v.n = 2

	assert.Same(t, before, a.Get())
	assert.Equal(t, 2, a.Get().n)
}

func TestMakeMut_SharedDetaches(t *testing.T) {
	a := shared.New(&counter{n: 1})
	snapshot := a.Clone()

	v := shared.MakeMut(&a, cloneCounter)
	v.n = 99

	require.False(t, a.Same(snapshot))
	assert.Equal(t, 1, snapshot.Get().n, "other owner must not observe the write")
	assert.Equal(t, 99, a.Get().n)
	assert.True(t, a.Unique())
	assert.True(t, snapshot.Unique())
}

func TestMakeMut_EmptyHandlePanics(t *testing.T) {
	var empty shared.Rc[counter]
	assert.Panics(t, func() { shared.MakeMut(&empty, cloneCounter) })
}
