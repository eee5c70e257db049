package decomp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mjcore/decomp"
	"mjcore/hand"
	"mjcore/tile"
)

func mustHand(t *testing.T, s string) *hand.Hand {
	t.Helper()
	h, err := hand.FromString(s)
	require.NoError(t, err)
	return h
}

func TestRyanmenRonProducesRyanmenWait(t *testing.T) {
	// m23 completed by ron on m1 or m4; three other melds plus a pair
	// already sit in the hand.
	h := mustHand(t, "m23p456s789z111z22")
	decs := decomp.Enumerate(h, tile.MustParse("m1"), false)
	require.NotEmpty(t, decs)

	var found bool
	for _, d := range decs {
		if d.Kind == decomp.Standard && d.Wait == decomp.Ryanmen {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPenchanWaitOnLowEdge(t *testing.T) {
	// m12 can only complete on m3 (penchan), never m0.
	h := mustHand(t, "m12p456s789z111z22")
	decs := decomp.Enumerate(h, tile.MustParse("m3"), false)
	require.NotEmpty(t, decs)

	var found bool
	for _, d := range decs {
		if d.Kind == decomp.Standard && d.Wait == decomp.Penchan {
			found = true
		}
	}
	assert.True(t, found)
}

func TestKanchanWait(t *testing.T) {
	// m46 waits only on m5 (kanchan).
	h := mustHand(t, "m46p456s789z111z22")
	decs := decomp.Enumerate(h, tile.MustParse("m5"), false)
	require.NotEmpty(t, decs)

	var found bool
	for _, d := range decs {
		if d.Kind == decomp.Standard && d.Wait == decomp.Kanchan {
			found = true
		}
	}
	assert.True(t, found)
}

func TestShanponWaitOnDoublePair(t *testing.T) {
	// two pairs (m1 and m2); winning on either turns it into a triplet
	// while the other stays the pair.
	h := mustHand(t, "m1122p456s789z111")
	decs := decomp.Enumerate(h, tile.MustParse("m2"), false)
	require.NotEmpty(t, decs)

	var found bool
	for _, d := range decs {
		if d.Kind == decomp.Standard && d.Wait == decomp.Shanpon {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTankiWaitOnSinglePair(t *testing.T) {
	// four complete melds already, waiting on the pair's second tile.
	h := mustHand(t, "m123p456s789z111z2")
	decs := decomp.Enumerate(h, tile.MustParse("z2"), false)
	require.NotEmpty(t, decs)

	var found bool
	for _, d := range decs {
		if d.Kind == decomp.Standard && d.Wait == decomp.Tanki && d.PairWon {
			found = true
		}
	}
	assert.True(t, found)
}

func TestOpenMeldCountsTowardStandardFour(t *testing.T) {
	h := mustHand(t, "m123p456s78z11,p111+")
	decs := decomp.Enumerate(h, tile.MustParse("s9"), false)
	require.NotEmpty(t, decs)
	for _, d := range decs {
		if d.Kind != decomp.Standard {
			continue
		}
		assert.Len(t, d.Melds, 4)
		var openCount int
		for _, m := range d.Melds {
			if m.Open {
				openCount++
			}
		}
		assert.Equal(t, 1, openCount)
	}
}

func TestChiitoitsuAlwaysTanki(t *testing.T) {
	h := mustHand(t, "m1122p3344s5566z1")
	decs := decomp.Enumerate(h, tile.MustParse("z1"), false)
	var found bool
	for _, d := range decs {
		if d.Kind == decomp.Chiitoitsu {
			found = true
			assert.Equal(t, decomp.Tanki, d.Wait)
			assert.Len(t, d.Pairs, 7)
		}
	}
	assert.True(t, found)
}

func TestKokushiThirteenWait(t *testing.T) {
	h := mustHand(t, "m19p19s19z1234567")
	decs := decomp.Enumerate(h, tile.MustParse("z7"), false)
	var found bool
	for _, d := range decs {
		if d.Kind == decomp.Kokushi {
			found = true
			assert.Equal(t, decomp.ThirteenWait, d.Wait)
		}
	}
	assert.True(t, found)
}

func TestKokushiSingleWait(t *testing.T) {
	// missing only z7, holding the other 12 kinds plus a duplicate m1.
	h := mustHand(t, "m119p19s19z123456")
	decs := decomp.Enumerate(h, tile.MustParse("z7"), false)
	var found bool
	for _, d := range decs {
		if d.Kind == decomp.Kokushi {
			found = true
			assert.Equal(t, decomp.Tanki, d.Wait)
			assert.False(t, d.PairWon)
		}
	}
	assert.True(t, found)
}

func TestNineGatesPureThirteenWait(t *testing.T) {
	// pre-win hand is exactly 1112345678999; winning on any of the 9
	// numbers in that suit is a pure nine gates.
	h := mustHand(t, "m1112345678999")
	decs := decomp.Enumerate(h, tile.MustParse("m5"), false)
	var found bool
	for _, d := range decs {
		if d.Kind == decomp.NineGates {
			found = true
			assert.True(t, d.NineGatesPure)
			assert.Equal(t, tile.Man, d.NineGatesSuit)
		}
	}
	assert.True(t, found)
}

func TestNineGatesImpureWhenPreWinHasExtra(t *testing.T) {
	// pre-win hand already holds two 5s (1112345567899 minus the win) so
	// only completing on the exact position keeps the base+1 shape, and
	// removing the winning tile does not recover the pure base pattern.
	h := mustHand(t, "m1112345567899")
	decs := decomp.Enumerate(h, tile.MustParse("m9"), false)
	for _, d := range decs {
		if d.Kind == decomp.NineGates {
			assert.False(t, d.NineGatesPure)
		}
	}
}

func TestTsumoDrawnTileNotDoubleCounted(t *testing.T) {
	// z1112 is the pre-draw 13-tile tanki wait (z111 triplet + lone z2);
	// the trailing separate z2 run is the tile just drawn to pair it.
	h := mustHand(t, "m123p456s789z1112z2")
	require.NotNil(t, h.Draw)
	decs := decomp.Enumerate(h, h.Draw.Tile, true)
	require.NotEmpty(t, decs)
	for _, d := range decs {
		assert.True(t, d.Tsumo)
	}
}
