package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashTextNormalizes(t *testing.T) {
	assert.Equal(t, hashText("Great Product!"), hashText("  great product!  "))
	assert.NotEqual(t, hashText("great product"), hashText("great products"))
	assert.Len(t, hashText("x"), 64)
}

func TestKeySetFirstWriterWins(t *testing.T) {
	ks := newKeySet(nil)
	assert.False(t, ks.Add("a"))
	assert.True(t, ks.Add("a"))
	assert.False(t, ks.Add("b"))
	assert.Equal(t, 2, ks.Len())
}

func TestKeySetSeeded(t *testing.T) {
	ks := newKeySet([]string{"persisted-1", "persisted-2"})
	assert.True(t, ks.Add("persisted-1"), "seeded key counts as already seen")
	assert.False(t, ks.Add("fresh"))
}
