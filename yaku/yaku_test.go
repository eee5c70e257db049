package yaku_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mjcore/decomp"
	"mjcore/hand"
	"mjcore/rules"
	"mjcore/tile"
	"mjcore/yaku"
)

func mustHand(t *testing.T, s string) *hand.Hand {
	t.Helper()
	h, err := hand.FromString(s)
	require.NoError(t, err)
	return h
}

func firstStandard(t *testing.T, decs []decomp.Decomposition) decomp.Decomposition {
	t.Helper()
	for _, d := range decs {
		if d.Kind == decomp.Standard {
			return d
		}
	}
	t.Fatal("no standard decomposition found")
	return decomp.Decomposition{}
}

func firstOfKind(t *testing.T, decs []decomp.Decomposition, k decomp.Kind) decomp.Decomposition {
	t.Helper()
	for _, d := range decs {
		if d.Kind == k {
			return d
		}
	}
	t.Fatalf("no %s decomposition found", k)
	return decomp.Decomposition{}
}

func hasYaku(h yaku.Hand, id yaku.ID) bool {
	for _, y := range h.Yaku {
		if y == id {
			return true
		}
	}
	return false
}

func TestPinfuRyanmenRonScoresThirtyFu(t *testing.T) {
	h := mustHand(t, "m34567p45699s789")
	decs := decomp.Enumerate(h, tile.MustParse("m8"), false)
	d := firstStandard(t, decs)
	require.Equal(t, decomp.Ryanmen, d.Wait)

	ctx := yaku.Context{Hand: h, RoundWind: tile.East, SeatWind: tile.South, Rules: rules.New()}
	res := yaku.Evaluate(ctx, d)
	assert.True(t, hasYaku(res, yaku.YakuPinfu))
	assert.Equal(t, 1, res.Han)
	assert.Equal(t, 30, yaku.Fu(d, ctx, true))
}

func TestTanyaoPinfuTsumoScoresTwentyFu(t *testing.T) {
	h := mustHand(t, "m234567p456s5567s8")
	require.NotNil(t, h.Draw)
	decs := decomp.Enumerate(h, h.Draw.Tile, true)
	d := firstStandard(t, decs)
	require.Equal(t, decomp.Ryanmen, d.Wait)

	ctx := yaku.Context{Hand: h, RoundWind: tile.East, SeatWind: tile.South, Rules: rules.New()}
	res := yaku.Evaluate(ctx, d)
	assert.True(t, hasYaku(res, yaku.YakuTanyao))
	assert.True(t, hasYaku(res, yaku.YakuPinfu))
	assert.True(t, hasYaku(res, yaku.YakuMenzenTsumo))
	assert.GreaterOrEqual(t, res.Han, 3)
	assert.Equal(t, 20, yaku.Fu(d, ctx, true))
}

func TestYakuhaiRoundWindTriplet(t *testing.T) {
	h := mustHand(t, "m234p456s789z111z2")
	decs := decomp.Enumerate(h, tile.MustParse("z2"), false)
	d := firstStandard(t, decs)

	ctx := yaku.Context{Hand: h, RoundWind: tile.East, SeatWind: tile.South, Rules: rules.New()}
	res := yaku.Evaluate(ctx, d)
	assert.True(t, hasYaku(res, yaku.YakuYakuhai))
	assert.GreaterOrEqual(t, res.Han, 1)
}

func TestChiitoitsuFixedFu(t *testing.T) {
	h := mustHand(t, "m1122p3344s5566z1")
	decs := decomp.Enumerate(h, tile.MustParse("z1"), false)
	d := firstOfKind(t, decs, decomp.Chiitoitsu)

	ctx := yaku.Context{Hand: h, RoundWind: tile.East, SeatWind: tile.South, Rules: rules.New()}
	assert.Equal(t, 25, yaku.Fu(d, ctx, true))
	res := yaku.Evaluate(ctx, d)
	assert.True(t, hasYaku(res, yaku.YakuChiitoitsu))
}

func TestOpenHandFloorsToThirtyFu(t *testing.T) {
	h := mustHand(t, "m123p456s78z11,p111+")
	decs := decomp.Enumerate(h, tile.MustParse("s9"), false)
	d := firstStandard(t, decs)

	ctx := yaku.Context{Hand: h, RoundWind: tile.South, SeatWind: tile.South, Rules: rules.New()}
	assert.Equal(t, 30, yaku.Fu(d, ctx, false))
}

func TestKokushiYakumanNoHanNoFu(t *testing.T) {
	h := mustHand(t, "m19p19s19z1234567")
	decs := decomp.Enumerate(h, tile.MustParse("z7"), false)
	d := firstOfKind(t, decs, decomp.Kokushi)

	ctx := yaku.Context{Hand: h, RoundWind: tile.East, SeatWind: tile.East, Rules: rules.New()}
	res := yaku.Evaluate(ctx, d)
	require.Equal(t, 1, len(res.Yaku))
	assert.Equal(t, yaku.YakuKokushiJuusanmen, res.Yaku[0])
	assert.Equal(t, 2, res.YakumanMultiplier) // 13-sided kokushi doubles under standard rules
}

func TestScoreNonDealerRon(t *testing.T) {
	h := yaku.Hand{Yaku: []yaku.ID{yaku.YakuRiichi, yaku.YakuTanyao, yaku.YakuPinfu}, Han: 3}
	pts := yaku.Score(h, 30, 0, 1, 2, false, 0, 0, rules.New())
	assert.Equal(t, 3900, pts.Payments[1])
	assert.Equal(t, -3900, pts.Payments[2])
}

func TestScoreDealerTsumoSplitsEvenly(t *testing.T) {
	h := yaku.Hand{Yaku: []yaku.ID{yaku.YakuMenzenTsumo}, Han: 2}
	pts := yaku.Score(h, 30, 0, 0, -1, true, 0, 0, rules.New())
	for seat := 1; seat < 4; seat++ {
		assert.Equal(t, -1000, pts.Payments[seat])
	}
	assert.Equal(t, 3000, pts.Payments[0])
}

func TestScoreNonDealerTsumoSplitsUnevenly(t *testing.T) {
	h := yaku.Hand{Yaku: []yaku.ID{yaku.YakuTanyao}, Han: 2}
	pts := yaku.Score(h, 30, 0, 1, -1, true, 0, 0, rules.New())
	assert.Equal(t, -1000, pts.Payments[0]) // dealer pays double
	assert.Equal(t, -500, pts.Payments[2])
	assert.Equal(t, -500, pts.Payments[3])
	assert.Equal(t, 2000, pts.Payments[1])
}

func TestShanponRonScoresCompletedTripletAsMinkou(t *testing.T) {
	// two pairs (m1, m2); ron on m2 turns it into a triplet that must
	// score as minkou (called), same as countAnkou already treats it
	// for sanankou/suuankou purposes.
	h := mustHand(t, "m1122p456s789z111")
	decs := decomp.Enumerate(h, tile.MustParse("m2"), false)
	var d decomp.Decomposition
	found := false
	for _, dd := range decs {
		if dd.Kind == decomp.Standard && dd.Wait == decomp.Shanpon {
			d = dd
			found = true
			break
		}
	}
	require.True(t, found, "no shanpon-wait decomposition found")

	ctx := yaku.Context{Hand: h, RoundWind: tile.East, SeatWind: tile.South, Rules: rules.New()}
	assert.Equal(t, 40, yaku.Fu(d, ctx, true))
}

func TestBaseFromHanFuCapsAtSanbaimanWhenCountedYakumanDisabled(t *testing.T) {
	h := yaku.Hand{Yaku: []yaku.ID{yaku.YakuTanyao}, Han: 13}

	enabled := rules.New()
	pts := yaku.Score(h, 30, 0, 1, 2, false, 0, 0, enabled)
	assert.Equal(t, 32000, pts.Payments[1]) // 8000 * (13/13) * 4

	disabled := rules.New()
	disabled.CountedYakumanEnabled = false
	pts = yaku.Score(h, 30, 0, 1, 2, false, 0, 0, disabled)
	assert.Equal(t, 24000, pts.Payments[1]) // capped at the sanbaiman 6000 base * 4
}

func TestDaisangenPaoAttributesCalledTriplet(t *testing.T) {
	h := mustHand(t, "m123z1155566,z777+")
	decs := decomp.Enumerate(h, tile.MustParse("z6"), false)
	d := firstStandard(t, decs)

	ctx := yaku.Context{Hand: h, Seat: 0, RoundWind: tile.East, SeatWind: tile.East, Rules: rules.New()}
	res := yaku.Evaluate(ctx, d)
	assert.True(t, hasYaku(res, yaku.YakuDaisangen))
	assert.Equal(t, yaku.PaoSeat(1), res.Pao) // z777 called by seat 0 with '+', i.e. from its shimocha, seat 1
}

func TestDaisangenNoPaoWhenAllTripletsConcealed(t *testing.T) {
	h := mustHand(t, "m123z1155566677")
	decs := decomp.Enumerate(h, tile.MustParse("z7"), false)
	d := firstStandard(t, decs)

	ctx := yaku.Context{Hand: h, Seat: 0, RoundWind: tile.East, SeatWind: tile.East, Rules: rules.New()}
	res := yaku.Evaluate(ctx, d)
	require.True(t, hasYaku(res, yaku.YakuDaisangen))
	assert.Equal(t, yaku.NoPao, res.Pao)
}

func TestAnkanDoraCountsAllFourTiles(t *testing.T) {
	h := mustHand(t, "m123p456s78z11,p9999")

	decs := decomp.Enumerate(h, tile.MustParse("s9"), false)
	d := firstStandard(t, decs)

	ctx := yaku.Context{
		Hand: h, Seat: 0, RoundWind: tile.South, SeatWind: tile.South,
		Riichi:         yaku.Riichi,
		DoraIndicators: []tile.Tile{tile.MustParse("p8")},
		Rules:          rules.New(),
	}
	res := yaku.Evaluate(ctx, d)
	assert.True(t, hasYaku(res, yaku.YakuRiichi))
	assert.Equal(t, 5, res.Han) // riichi (1) + four p9 dora from the ankan's fourth tile
}

func TestRedFiveInCalledMeldCounts(t *testing.T) {
	h := mustHand(t, "m123s78z11,z555+,p055+")

	decs := decomp.Enumerate(h, tile.MustParse("s9"), false)
	d := firstStandard(t, decs)

	ctx := yaku.Context{Hand: h, Seat: 0, RoundWind: tile.East, SeatWind: tile.South, Rules: rules.New()}
	res := yaku.Evaluate(ctx, d)
	assert.True(t, hasYaku(res, yaku.YakuYakuhai))
	assert.Equal(t, 2, res.Han) // yakuhai (1) + the red five called into the pin-five pon (1)
}

func TestScorePaoRonRedirectsEntirePayment(t *testing.T) {
	h := yaku.Hand{Yaku: []yaku.ID{yaku.YakuDaisangen}, YakumanMultiplier: 1, Pao: yaku.PaoSeat(2)}
	pts := yaku.Score(h, 0, 0, 1, 3, false, 0, 0, rules.New())
	assert.Equal(t, 32000, pts.Payments[1])
	assert.Equal(t, -32000, pts.Payments[2])
	assert.Equal(t, 0, pts.Payments[3]) // the actual discarder owes nothing once liability is redirected
}

func TestScorePaoTsumoRedirectsNonDealerShares(t *testing.T) {
	h := yaku.Hand{Yaku: []yaku.ID{yaku.YakuDaisangen}, YakumanMultiplier: 1, Pao: yaku.PaoSeat(2)}
	pts := yaku.Score(h, 0, 0, 1, -1, true, 0, 0, rules.New())
	assert.Equal(t, -16000, pts.Payments[0]) // dealer's own share is untouched
	assert.Equal(t, -16000, pts.Payments[2]) // pao absorbs its own share plus seat 3's
	assert.Equal(t, 0, pts.Payments[3])
	assert.Equal(t, 32000, pts.Payments[1])
}

func TestScorePaoTsumoDealerWinnerRedirectsEverySeat(t *testing.T) {
	h := yaku.Hand{Yaku: []yaku.ID{yaku.YakuDaisangen}, YakumanMultiplier: 1, Pao: yaku.PaoSeat(2)}
	pts := yaku.Score(h, 0, 0, 0, -1, true, 0, 0, rules.New())
	assert.Equal(t, -48000, pts.Payments[2])
	assert.Equal(t, 0, pts.Payments[1])
	assert.Equal(t, 0, pts.Payments[3])
	assert.Equal(t, 48000, pts.Payments[0])
}

func TestScoreHonbaAndRiichiSticks(t *testing.T) {
	h := yaku.Hand{Yaku: []yaku.ID{yaku.YakuTanyao}, Han: 1}
	pts := yaku.Score(h, 30, 0, 1, 2, false, 2, 1, rules.New())
	assert.Equal(t, 1000+600+1000, pts.Payments[1])
	assert.Equal(t, -(1000 + 600), pts.Payments[2])
}
