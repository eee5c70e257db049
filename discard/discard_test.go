package discard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mjcore/discard"
	"mjcore/tile"
)

func TestDiscardAndContains(t *testing.T) {
	p := discard.New()
	p.Discard(tile.MustParse("m5"), true, false)
	p.Discard(tile.MustParse("p0"), false, false)

	assert.True(t, p.Contains(tile.MustParse("m5")))
	// a red five and its ordinary counterpart normalize to the same
	// furiten kind.
	assert.True(t, p.Contains(tile.MustParse("p5")))
	assert.False(t, p.Contains(tile.MustParse("s5")))
	assert.Equal(t, 2, p.Len())
}

func TestMarkCalledUpdatesLastDiscard(t *testing.T) {
	p := discard.New()
	p.Discard(tile.MustParse("z1"), false, false)

	require.NoError(t, p.MarkCalled(tile.DirToimen))
	last, ok := p.Last()
	require.True(t, ok)
	assert.True(t, last.Called)
	assert.Equal(t, tile.DirToimen, last.Dir)

	require.Error(t, p.MarkCalled(tile.DirKamicha), "a discard can only be claimed once")
}

func TestMarkCalledOnEmptyPileFails(t *testing.T) {
	p := discard.New()
	require.Error(t, p.MarkCalled(tile.DirShimocha))
}

func TestStringFromStringRoundTrip(t *testing.T) {
	p := discard.New()
	p.Discard(tile.MustParse("m5"), true, false)
	p.Discard(tile.MustParse("p3"), false, true)
	require.NoError(t, p.MarkCalled(tile.DirKamicha))

	s := p.String()
	got, err := discard.FromString(s)
	require.NoError(t, err)
	assert.Equal(t, s, got.String())
	assert.Equal(t, p.Len(), got.Len())
	assert.True(t, got.Contains(tile.MustParse("m5")))
}

func TestFromStringEmpty(t *testing.T) {
	p, err := discard.FromString("")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}

func TestCloneIsIndependent(t *testing.T) {
	p := discard.New()
	p.Discard(tile.MustParse("s7"), false, false)

	c := p.Clone()
	c.Discard(tile.MustParse("s8"), false, false)

	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 2, c.Len())
	assert.False(t, p.Contains(tile.MustParse("s8")))
}
