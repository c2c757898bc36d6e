package listd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddKeepsOrderAndDuplicates(t *testing.T) {
	var s Store
	require.NoError(t, s.Add("/b"))
	require.NoError(t, s.Add("/a"))
	require.NoError(t, s.Add("/b"))

	assert.Equal(t, []string{"/b", "/a", "/b"}, s.List())
	assert.Equal(t, 3, s.Len())
}

func TestStore_AddRejectsBlank(t *testing.T) {
	var s Store
	assert.ErrorIs(t, s.Add("  "), ErrEmptyPath)
	assert.Zero(t, s.Len())
}

func TestStore_ListIsACopy(t *testing.T) {
	var s Store
	require.NoError(t, s.Add("/a"))

	out := s.List()
	out[0] = "/mutated"
	assert.Equal(t, []string{"/a"}, s.List())
}

func TestStore_EmptyListIsNotNil(t *testing.T) {
	var s Store
	assert.NotNil(t, s.List())
	assert.Empty(t, s.List())
}

func TestStore_RemoveDropsEveryMatch(t *testing.T) {
	var s Store
	for _, p := range []string{"/a", "/b", "/a", "/c"} {
		require.NoError(t, s.Add(p))
	}

	assert.Equal(t, 2, s.Remove("/a"))
	assert.Equal(t, []string{"/b", "/c"}, s.List())

	assert.Equal(t, 0, s.Remove("/missing"))
	assert.Equal(t, []string{"/b", "/c"}, s.List())
}

func TestStore_Clear(t *testing.T) {
	var s Store
	require.NoError(t, s.Add("/a"))
	require.NoError(t, s.Add("/b"))

	assert.Equal(t, 2, s.Clear())
	assert.Empty(t, s.List())
	assert.Equal(t, 0, s.Clear())
}
