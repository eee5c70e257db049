package hand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mjcore/hand"
	"mjcore/tile"
)

// buildTenpaiHand returns a 13-tile hand with no pending draw, as if
// dealt directly rather than assembled one draw at a time.
func buildTenpaiHand(t *testing.T) *hand.Hand {
	t.Helper()
	h := hand.New()
	tiles := []string{"m1", "m2", "m3", "p4", "p5", "p6", "s7", "s8", "s9", "z1", "z1", "z2", "z2"}
	for _, tok := range tiles {
		require.NoError(t, h.DrawTile(tile.MustParse(tok)))
		h.Draw = nil
	}
	return h
}

func TestDrawDiscardCycle(t *testing.T) {
	h := hand.New()
	require.NoError(t, h.DrawTile(tile.MustParse("m5")))
	assert.NotNil(t, h.Draw)
	require.Error(t, h.DrawTile(tile.MustParse("m6")), "cannot draw twice without discarding")

	require.NoError(t, h.Discard(tile.MustParse("m5")))
	assert.Nil(t, h.Draw)
	assert.Equal(t, 0, h.ConcealedTotal())
}

func TestDiscardWithoutDrawFails(t *testing.T) {
	h := hand.New()
	err := h.Discard(tile.MustParse("m5"))
	require.Error(t, err)
}

func TestRiichiLocksDiscardToDraw(t *testing.T) {
	h := buildTenpaiHand(t)
	h.Riichi = true
	require.NoError(t, h.DrawTile(tile.MustParse("m9")))

	err := h.Discard(tile.MustParse("m1"))
	require.Error(t, err)

	require.NoError(t, h.Discard(tile.MustParse("m9")))
}

func TestCallChiUpdatesMenzen(t *testing.T) {
	h := hand.New()
	for _, tok := range []string{"p2", "p3"} {
		require.NoError(t, h.DrawTile(tile.MustParse(tok)))
		h.Draw = nil // pretend these were dealt, not drawn one at a time
	}
	assert.True(t, h.Menzen())

	m, err := tile.ParseMeld("p234-")
	require.NoError(t, err)
	require.NoError(t, h.Call(m))

	assert.False(t, h.Menzen())
	require.Len(t, h.Melds, 1)
	assert.NotNil(t, h.Draw)
	assert.True(t, h.Draw.IsMeld())
	assert.Equal(t, 0, h.Concealed[tile.MustParse("p2").Ordinal()])
	assert.Equal(t, 0, h.Concealed[tile.MustParse("p3").Ordinal()])
}

func TestCallWhileRiichiFails(t *testing.T) {
	h := hand.New()
	h.Riichi = true
	m, err := tile.ParseMeld("p234-")
	require.NoError(t, err)
	require.Error(t, h.Call(m))
}

func TestAnkanFromDraw(t *testing.T) {
	h := hand.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, h.DrawTile(tile.MustParse("s5")))
		h.Draw = nil
	}
	require.NoError(t, h.DrawTile(tile.MustParse("s5")))

	m, err := tile.ParseMeld("s5555")
	require.NoError(t, err)
	require.NoError(t, h.Kan(m))

	require.Len(t, h.Melds, 1)
	assert.Equal(t, tile.AnkanShape, h.Melds[0].Shape)
	assert.Equal(t, 0, h.Concealed[tile.MustParse("s5").Ordinal()])
	assert.True(t, h.Draw.IsMeld())
}

func TestKakanUpgradesPon(t *testing.T) {
	h := hand.New()
	for _, tok := range []string{"p3", "p3"} {
		require.NoError(t, h.DrawTile(tile.MustParse(tok)))
		h.Draw = nil
	}
	pon, err := tile.ParseMeld("p333+")
	require.NoError(t, err)
	require.NoError(t, h.Call(pon))
	h.Draw = nil

	require.NoError(t, h.DrawTile(tile.MustParse("p3")))
	kakan, err := tile.ParseMeld("p333+3")
	require.NoError(t, err)
	require.NoError(t, h.Kan(kakan))

	require.Len(t, h.Melds, 1)
	assert.Equal(t, tile.KakanShape, h.Melds[0].Shape)
	assert.Equal(t, 3, h.Melds[0].AddedNum)
}

func TestStringFromStringRoundTrip(t *testing.T) {
	h := hand.New()
	for _, tok := range []string{"m1", "m2", "m3", "p4", "p5", "p6", "s7", "s8", "s9", "z1", "z1", "z2", "z2"} {
		require.NoError(t, h.DrawTile(tile.MustParse(tok)))
		h.Draw = nil
	}
	require.NoError(t, h.DrawTile(tile.MustParse("z3")))

	s := h.String()
	got, err := hand.FromString(s)
	require.NoError(t, err)
	assert.Equal(t, s, got.String())
	assert.Equal(t, h.ConcealedTotal(), got.ConcealedTotal())
}

func TestStringFromStringRoundTripWithMeld(t *testing.T) {
	h := hand.New()
	for _, tok := range []string{"m1", "m2", "m3", "p4", "p5", "p6", "s7", "s8", "s9", "z2", "z2"} {
		require.NoError(t, h.DrawTile(tile.MustParse(tok)))
		h.Draw = nil
	}
	m, err := tile.ParseMeld("z222=")
	require.NoError(t, err)
	require.NoError(t, h.Call(m))

	s := h.String()
	got, err := hand.FromString(s)
	require.NoError(t, err)
	require.Len(t, got.Melds, 1)
	assert.True(t, got.Draw.IsMeld())
	assert.Equal(t, s, got.String())
}

func TestLegalDiscardsKuikaeStrict(t *testing.T) {
	h := hand.New()
	for _, tok := range []string{"p2", "p3", "p1", "z5"} {
		require.NoError(t, h.DrawTile(tile.MustParse(tok)))
		h.Draw = nil
	}
	m, err := tile.ParseMeld("p234-")
	require.NoError(t, err)
	require.NoError(t, h.Call(m))

	discards := h.LegalDiscards(hand.KuikaeStrict)
	require.NotEmpty(t, discards)
	for _, d := range discards {
		assert.False(t, d.Equal(tile.MustParse("p4")), "identical tile forbidden")
		assert.False(t, d.Equal(tile.MustParse("p1")), "suji swap forbidden under strict kuikae")
	}
	assert.Contains(t, discards, tile.MustParse("z5"))
}

func TestLegalPonEnumeratesRedVariant(t *testing.T) {
	h := hand.New()
	for _, tok := range []string{"p5", "p0"} {
		require.NoError(t, h.DrawTile(tile.MustParse(tok)))
		h.Draw = nil
	}
	melds := h.LegalPon(tile.MustParse("p5"))
	require.Len(t, melds, 1) // only the red-plus-ordinary variant: a single ordinary five is held
}

func TestLegalChiFromKamicha(t *testing.T) {
	h := hand.New()
	for _, tok := range []string{"p3", "p4"} {
		require.NoError(t, h.DrawTile(tile.MustParse(tok)))
		h.Draw = nil
	}
	melds := h.LegalChi(tile.MustParse("p5"))
	require.Len(t, melds, 1)
	assert.Equal(t, tile.ChiShape, melds[0].Shape)
}
