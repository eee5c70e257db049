// Package decomp enumerates the ways a completed 14-tile configuration
// breaks down into a winning shape — four melds plus a pair, seven
// pairs, thirteen orphans, or the nine-gates shape — and classifies
// the winning tile's role (which meld or pair it completed, and
// whether that completion was a two-sided, closed, edge, or single
// wait) so the yaku/fu layer can score every candidate reading and
// keep the best one.
package decomp

import (
	"mjcore/hand"
	"mjcore/tile"
)

// Kind identifies which of the four winning shapes a Decomposition
// follows.
type Kind int

const (
	Standard Kind = iota
	Chiitoitsu
	Kokushi
	NineGates
)

func (k Kind) String() string {
	switch k {
	case Standard:
		return "standard"
	case Chiitoitsu:
		return "chiitoitsu"
	case Kokushi:
		return "kokushi"
	case NineGates:
		return "nine-gates"
	default:
		return "unknown"
	}
}

// MeldKind distinguishes a run from a triplet within a Decomposition;
// kans are folded back to Triplet (the fourth tile never changes a
// meld's wait classification).
type MeldKind int

const (
	Sequence MeldKind = iota
	Triplet
)

// WaitShape classifies how the winning tile completed its meld or the
// pair — the shape fu scoring keys off.
type WaitShape int

const (
	NoWait WaitShape = iota
	Tanki         // pair completed by the winning tile
	Shanpon       // a triplet completed from an existing pair
	Kanchan       // closed run wait (e.g. 4_6 waiting on 5)
	Penchan       // edge run wait (12 waiting on 3, or 89 waiting on 7)
	Ryanmen       // two-sided run wait
	ThirteenWait  // kokushi juusanmenmachi: all 13 kinds held singly
)

func (w WaitShape) String() string {
	switch w {
	case Tanki:
		return "tanki"
	case Shanpon:
		return "shanpon"
	case Kanchan:
		return "kanchan"
	case Penchan:
		return "penchan"
	case Ryanmen:
		return "ryanmen"
	case ThirteenWait:
		return "thirteen-wait"
	default:
		return "none"
	}
}

// DecomposedMeld is one meld of a Standard Decomposition, expressed by
// tile ordinal rather than by concrete tile identity — red fives are
// the yaku layer's concern, not this one's.
type DecomposedMeld struct {
	Kind         MeldKind
	Ordinals     [3]int // ascending; a Triplet repeats one ordinal three times
	Open         bool   // called: pon, chi, or daiminkan
	Kan          bool
	ConcealedKan bool // true only for an ankan
	WinningTile  bool // this meld contains the tile that completed the hand
}

// Decomposition is one legal reading of a completed hand.
type Decomposition struct {
	Kind Kind

	// Standard only: four melds (fixed calls first, in call order,
	// then the melds found in the concealed pool) plus the pair.
	Melds   []DecomposedMeld
	Pair    [2]int // ordinal repeated twice; unused for Chiitoitsu/Kokushi
	PairWon bool   // the pair, not a meld, holds the winning tile

	// Chiitoitsu: the seven paired ordinals. Kokushi: the one paired ordinal.
	Pairs []int

	// NineGates only: which suit and whether the pre-win hand was
	// already the base 1112345678999 shape (a genuine 13-sided wait).
	NineGatesSuit tile.Suit
	NineGatesPure bool

	WinOrdinal int
	Tsumo      bool
	Wait       WaitShape
}

// nineGatesBase is 1112345678999 laid out by suit-local number (0-8).
var nineGatesBase = [9]int{3, 1, 1, 1, 1, 1, 1, 1, 3}

// Enumerate returns every legal decomposition of h after winning on
// winTile. For a tsumo win winTile must already be h.Draw.Tile (it is
// not re-added); for a ron win it is added to a scratch copy of the
// concealed counts before decomposition. Callers pick the
// highest-scoring Decomposition; ties are broken by yaku/fu rules the
// yaku package owns, not this one.
func Enumerate(h *hand.Hand, winTile tile.Tile, tsumo bool) []Decomposition {
	full := h.Concealed
	if !tsumo {
		full[winTile.Ordinal()]++
	}
	winOrd := winTile.Ordinal()

	var out []Decomposition
	out = append(out, standardDecompositions(h, full, winOrd, tsumo)...)
	if d, ok := chiitoitsuDecomposition(h, full, winOrd, tsumo); ok {
		out = append(out, d)
	}
	if d, ok := kokushiDecomposition(h, full, winOrd, tsumo); ok {
		out = append(out, d)
	}
	out = append(out, nineGatesDecompositions(h, full, winOrd, tsumo)...)
	return out
}

// --- standard: four melds + pair ---

// rawPartition is one structural way to split a counts array into a
// fixed number of melds plus exactly one pair, found by exhaustive
// backtracking in ordinal order.
type rawPartition struct {
	melds [][3]int
	pair  int
}

func standardDecompositions(h *hand.Hand, full [34]int, winOrd int, tsumo bool) []Decomposition {
	meldsNeeded := 4 - len(h.Melds)
	if meldsNeeded < 0 {
		return nil
	}
	raws := enumerateStandard(full, meldsNeeded)

	var out []Decomposition
	for _, raw := range raws {
		fixed := make([]DecomposedMeld, 0, 4)
		for _, m := range h.Melds {
			fixed = append(fixed, fixedMeldOf(m))
		}
		for _, ords := range raw.melds {
			fixed = append(fixed, DecomposedMeld{
				Kind:     meldKindOf(ords),
				Ordinals: ords,
			})
		}
		out = append(out, variantsForWinningTile(fixed, raw.pair, winOrd, tsumo)...)
	}
	return out
}

func fixedMeldOf(m tile.Meld) DecomposedMeld {
	dm := DecomposedMeld{Open: m.Dir != tile.DirNone, Kan: m.Shape.IsKan(), ConcealedKan: m.Shape == tile.AnkanShape}
	tiles := m.Tiles()
	switch m.Shape {
	case tile.ChiShape:
		dm.Kind = Sequence
		ords := []int{tiles[0].Ordinal(), tiles[1].Ordinal(), tiles[2].Ordinal()}
		sortThree(ords)
		dm.Ordinals = [3]int{ords[0], ords[1], ords[2]}
	default: // pon, daiminkan, ankan, kakan all collapse to Triplet for wait purposes
		dm.Kind = Triplet
		ord := tiles[0].Ordinal()
		dm.Ordinals = [3]int{ord, ord, ord}
	}
	return dm
}

func sortThree(a []int) {
	if a[0] > a[1] {
		a[0], a[1] = a[1], a[0]
	}
	if a[1] > a[2] {
		a[1], a[2] = a[2], a[1]
	}
	if a[0] > a[1] {
		a[0], a[1] = a[1], a[0]
	}
}

func meldKindOf(ords [3]int) MeldKind {
	if ords[0] == ords[1] {
		return Triplet
	}
	return Sequence
}

// variantsForWinningTile emits one Decomposition per candidate
// meld/pair that could plausibly be "the one the winning tile
// completed" — ambiguous shapes (e.g. a hand that reads as either
// shanpon or ryanmen) legitimately produce more than one, and the
// yaku layer picks whichever scores highest.
func variantsForWinningTile(melds []DecomposedMeld, pairOrd, winOrd int, tsumo bool) []Decomposition {
	var out []Decomposition

	if pairOrd == winOrd {
		cp := cloneMelds(melds)
		out = append(out, Decomposition{
			Kind: Standard, Melds: cp, Pair: [2]int{pairOrd, pairOrd},
			PairWon: true, WinOrdinal: winOrd, Tsumo: tsumo, Wait: Tanki,
		})
	}

	for i, m := range melds {
		if !containsOrdinal(m, winOrd) {
			continue
		}
		cp := cloneMelds(melds)
		cp[i].WinningTile = true
		out = append(out, Decomposition{
			Kind: Standard, Melds: cp, Pair: [2]int{pairOrd, pairOrd},
			WinOrdinal: winOrd, Tsumo: tsumo, Wait: classifyMeldWait(m, winOrd),
		})
	}
	return out
}

func containsOrdinal(m DecomposedMeld, ord int) bool {
	return m.Ordinals[0] == ord || m.Ordinals[1] == ord || m.Ordinals[2] == ord
}

func cloneMelds(melds []DecomposedMeld) []DecomposedMeld {
	return append([]DecomposedMeld(nil), melds...)
}

func classifyMeldWait(m DecomposedMeld, winOrd int) WaitShape {
	if m.Kind == Triplet {
		return Shanpon
	}
	a := m.Ordinals[0]
	local := func(o int) int { return o % 9 }
	switch winOrd {
	case a + 1:
		return Kanchan
	case a:
		if local(a+2) == 8 {
			return Penchan
		}
		return Ryanmen
	case a + 2:
		if local(a) == 0 {
			return Penchan
		}
		return Ryanmen
	default:
		return NoWait
	}
}

// enumerateStandard backtracks over all 34 ordinals, at each step
// trying a triplet, a run (only within a suit block, honors excluded),
// or — once — the pair, until meldsNeeded melds and one pair account
// for every held tile. It mirrors shanten.decompose's branch-and-bound
// shape but must return every complete partition rather than the best
// meld count, since decomp needs every candidate winning-tile role.
func enumerateStandard(counts [34]int, meldsNeeded int) []rawPartition {
	var out []rawPartition
	var meldAcc [][3]int

	var rec func(c [34]int, remaining int, pairUsed bool, pairOrd int)
	rec = func(c [34]int, remaining int, pairUsed bool, pairOrd int) {
		i := 0
		for i < 34 && c[i] == 0 {
			i++
		}
		if i == 34 {
			if remaining == 0 && pairUsed {
				out = append(out, rawPartition{melds: append([][3]int(nil), meldAcc...), pair: pairOrd})
			}
			return
		}

		if remaining > 0 && c[i] >= 3 {
			c[i] -= 3
			meldAcc = append(meldAcc, [3]int{i, i, i})
			rec(c, remaining-1, pairUsed, pairOrd)
			meldAcc = meldAcc[:len(meldAcc)-1]
			c[i] += 3
		}
		if remaining > 0 && i < 27 && i%9 <= 6 && c[i] > 0 && c[i+1] > 0 && c[i+2] > 0 {
			c[i]--
			c[i+1]--
			c[i+2]--
			meldAcc = append(meldAcc, [3]int{i, i + 1, i + 2})
			rec(c, remaining-1, pairUsed, pairOrd)
			meldAcc = meldAcc[:len(meldAcc)-1]
			c[i]++
			c[i+1]++
			c[i+2]++
		}
		if !pairUsed && c[i] >= 2 {
			c[i] -= 2
			rec(c, remaining, true, i)
			c[i] += 2
		}
	}
	rec(counts, meldsNeeded, false, -1)
	return out
}

// --- chiitoitsu ---

func chiitoitsuDecomposition(h *hand.Hand, full [34]int, winOrd int, tsumo bool) (Decomposition, bool) {
	if len(h.Melds) > 0 {
		return Decomposition{}, false
	}
	var pairs []int
	for ord := 0; ord < 34; ord++ {
		switch full[ord] {
		case 2:
			pairs = append(pairs, ord)
		case 0, 1:
		default:
			return Decomposition{}, false // chiitoitsu forbids any quad
		}
	}
	if len(pairs) != 7 {
		return Decomposition{}, false
	}
	return Decomposition{
		Kind: Chiitoitsu, Pairs: pairs, PairWon: true,
		WinOrdinal: winOrd, Tsumo: tsumo, Wait: Tanki,
	}, true
}

// --- kokushi musou ---

var yaochuuOrdinals = [13]int{0, 8, 9, 17, 18, 26, 27, 28, 29, 30, 31, 32, 33}

func kokushiDecomposition(h *hand.Hand, full [34]int, winOrd int, tsumo bool) (Decomposition, bool) {
	if len(h.Melds) > 0 {
		return Decomposition{}, false
	}
	pairOrd := -1
	for ord := 0; ord < 34; ord++ {
		if full[ord] == 0 {
			continue
		}
		if !isYaochuu(ord) {
			return Decomposition{}, false
		}
		if full[ord] > 2 {
			return Decomposition{}, false
		}
		if full[ord] == 2 {
			if pairOrd != -1 {
				return Decomposition{}, false
			}
			pairOrd = ord
		}
	}
	for _, ord := range yaochuuOrdinals {
		if full[ord] == 0 {
			return Decomposition{}, false
		}
	}
	if pairOrd == -1 {
		return Decomposition{}, false
	}
	wait := Tanki
	if pairOrd == winOrd {
		wait = ThirteenWait
	}
	return Decomposition{
		Kind: Kokushi, Pairs: []int{pairOrd}, PairWon: pairOrd == winOrd,
		WinOrdinal: winOrd, Tsumo: tsumo, Wait: wait,
	}, true
}

func isYaochuu(ord int) bool {
	for _, y := range yaochuuOrdinals {
		if ord == y {
			return true
		}
	}
	return false
}

// --- nine gates ---

func nineGatesDecompositions(h *hand.Hand, full [34]int, winOrd int, tsumo bool) []Decomposition {
	if len(h.Melds) > 0 {
		return nil
	}
	suit, base, ok := suitBlockOf(winOrd)
	if !ok {
		return nil
	}
	var counts [9]int
	for i := 0; i < 9; i++ {
		counts[i] = full[base+i]
	}
	// every other tile of the hand must belong to the same suit block.
	for ord := 0; ord < 34; ord++ {
		if ord >= base && ord < base+9 {
			continue
		}
		if full[ord] != 0 {
			return nil
		}
	}
	if counts[0] < 3 || counts[8] < 3 {
		return nil
	}
	for i := 1; i < 8; i++ {
		if counts[i] < 1 {
			return nil
		}
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != 14 {
		return nil
	}

	preWin := counts
	preWin[winOrd-base]--
	pure := preWin == nineGatesBase

	return []Decomposition{{
		Kind: NineGates, NineGatesSuit: suit, NineGatesPure: pure,
		WinOrdinal: winOrd, Tsumo: tsumo, Wait: ThirteenWait,
	}}
}

func suitBlockOf(ord int) (tile.Suit, int, bool) {
	switch {
	case ord < 9:
		return tile.Man, 0, true
	case ord < 18:
		return tile.Pin, 9, true
	case ord < 27:
		return tile.Sou, 18, true
	default:
		return 0, 0, false
	}
}
