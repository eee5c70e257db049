package shanten_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mjcore/hand"
	"mjcore/shanten"
	"mjcore/tile"
)

func mustHand(t *testing.T, s string) *hand.Hand {
	t.Helper()
	h, err := hand.FromString(s)
	require.NoError(t, err)
	return h
}

func TestStandardCompleteHandIsMinusOne(t *testing.T) {
	h := mustHand(t, "m123p456s789z111z22")
	assert.Equal(t, -1, shanten.Standard(h))
}

func TestStandardTenpaiHandIsZero(t *testing.T) {
	// waiting on m1/m4 to complete the last run.
	h := mustHand(t, "m23p456s789z111z22")
	assert.Equal(t, 0, shanten.Standard(h))
}

func TestStandardOneShantenHand(t *testing.T) {
	h := mustHand(t, "m1359p456s789z111z2")
	assert.Equal(t, 1, shanten.Standard(h))
}

func TestChiitoitsuSixPairsPlusSingleIsTenpai(t *testing.T) {
	h := mustHand(t, "m1122p3344s5566z1")
	assert.Equal(t, 0, shanten.Chiitoitsu(h))
}

func TestChiitoitsuSevenPairsIsComplete(t *testing.T) {
	h := mustHand(t, "m1122p3344s5566z11")
	assert.Equal(t, -1, shanten.Chiitoitsu(h))
}

func TestChiitoitsuDisqualifiedByCalledMeld(t *testing.T) {
	h := mustHand(t, "m1122p1122s11,p456+")
	assert.GreaterOrEqual(t, shanten.Chiitoitsu(h), 8)
}

func TestKokushiThirteenWaitIsMinusOne(t *testing.T) {
	h := mustHand(t, "m19p19s19z11234567")
	assert.Equal(t, -1, shanten.Kokushi(h))
}

func TestKokushiNoPairYetIsZero(t *testing.T) {
	h := mustHand(t, "m19p19s19z1234567")
	assert.Equal(t, 0, shanten.Kokushi(h))
}

func TestBestPicksMinimumAcrossShapes(t *testing.T) {
	h := mustHand(t, "m1122p3344s5566z11")
	assert.Equal(t, -1, shanten.Best(h))
}

func TestWaitsOnTenpaiHand(t *testing.T) {
	// m23 waits on m1 and m4 to complete the run.
	h := mustHand(t, "m23p456s789z111z22")
	waits := shanten.Waits(h)
	require.NotEmpty(t, waits)
	assert.Contains(t, waits, tile.MustParse("m1"))
	assert.Contains(t, waits, tile.MustParse("m4"))
}

func TestWaitsNilWithPendingDraw(t *testing.T) {
	h := mustHand(t, "m123p456s789z111z22z4")
	require.NotNil(t, h.Draw)
	assert.Nil(t, shanten.Waits(h))
}

func TestStandardWithCalledMeldCountsAsFixedMeld(t *testing.T) {
	// one pon already called, three concealed melds plus a pair needed
	// from ten concealed tiles.
	h := mustHand(t, "m123p456s78z11,p111+")
	assert.Equal(t, 0, shanten.Standard(h))
}
