package wall_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mjcore/tile"
	"mjcore/wall"
)

func newTestWall(cfg wall.Config) *wall.Wall {
	return wall.New(rand.New(rand.NewSource(42)), cfg)
}

func TestNewWallLiveAndDoraCounts(t *testing.T) {
	w := newTestWall(wall.Config{RedFives: 1, KanDoraEnabled: true})
	assert.Equal(t, 122, w.LiveCount())
	require.Len(t, w.DoraIndicators(), 1)
	assert.Nil(t, w.UraDoraIndicators())
}

func TestDrawDecrementsLiveCount(t *testing.T) {
	w := newTestWall(wall.Config{})
	before := w.LiveCount()
	_, err := w.Draw()
	require.NoError(t, err)
	assert.Equal(t, before-1, w.LiveCount())
}

func TestDrawExhaustion(t *testing.T) {
	w := newTestWall(wall.Config{})
	for i := 0; i < 122; i++ {
		_, err := w.Draw()
		require.NoError(t, err)
	}
	_, err := w.Draw()
	require.Error(t, err)
}

func TestKanDrawSetsPendingAndBlocksDraw(t *testing.T) {
	w := newTestWall(wall.Config{KanDoraEnabled: true})
	_, err := w.KanDraw()
	require.NoError(t, err)
	assert.True(t, w.KanPending())

	_, err = w.Draw()
	require.Error(t, err, "cannot draw while a kan-dora reveal is pending")

	require.NoError(t, w.RevealKanDora())
	assert.False(t, w.KanPending())
	require.Len(t, w.DoraIndicators(), 2)
}

func TestKanDoraDisabledLeavesIndicatorsUnchanged(t *testing.T) {
	w := newTestWall(wall.Config{KanDoraEnabled: false})
	_, err := w.KanDraw()
	require.NoError(t, err)
	require.NoError(t, w.RevealKanDora())
	assert.Len(t, w.DoraIndicators(), 1, "kan-dora disabled keeps the visible count unchanged")
}

func TestFourKanDoraCapsFifthKanDraw(t *testing.T) {
	w := newTestWall(wall.Config{KanDoraEnabled: true})
	for i := 0; i < 4; i++ {
		_, err := w.KanDraw()
		require.NoError(t, err)
		require.NoError(t, w.RevealKanDora())
	}
	assert.Len(t, w.DoraIndicators(), 5)
	_, err := w.KanDraw()
	require.Error(t, err, "a fifth kan draw is not allowed once five indicators are visible")
}

func TestRevealKanDoraWithoutPendingKanFails(t *testing.T) {
	w := newTestWall(wall.Config{})
	err := w.RevealKanDora()
	require.Error(t, err)
}

func TestCloseExposesUraDora(t *testing.T) {
	w := newTestWall(wall.Config{UraEnabled: true, KanUraEnabled: true, KanDoraEnabled: true})
	_, err := w.KanDraw()
	require.NoError(t, err)
	require.NoError(t, w.RevealKanDora())

	assert.Nil(t, w.UraDoraIndicators(), "ura stays hidden until close")

	require.NoError(t, w.Close())
	ura := w.UraDoraIndicators()
	require.Len(t, ura, 2, "base indicator plus one kan-ura indicator")

	_, err = w.Draw()
	require.Error(t, err, "closed wall cannot be drawn from")
}

func TestCloseWithUraDisabledExposesNothing(t *testing.T) {
	w := newTestWall(wall.Config{UraEnabled: false})
	require.NoError(t, w.Close())
	assert.Nil(t, w.UraDoraIndicators())
}

func TestDoubleCloseFails(t *testing.T) {
	w := newTestWall(wall.Config{})
	require.NoError(t, w.Close())
	require.Error(t, w.Close())
}

func TestDrawsAreDistinctTiles(t *testing.T) {
	w := newTestWall(wall.Config{RedFives: 1})
	counts := map[tile.Tile]int{}
	for i := 0; i < 30; i++ {
		tt, err := w.Draw()
		require.NoError(t, err)
		counts[tt]++
	}
	for tt, c := range counts {
		assert.LessOrEqual(t, c, 4, tt.String())
	}
}
