package hand

import "mjcore/tile"

// Kuikae policy levels, resolved for the swap-calling restriction that
// applies to a discard made immediately after the hand's own chi.
// KuikaeStrict forbids both the identical tile and its suji swap;
// KuikaeSuji forbids only the identical tile; KuikaeOff forbids
// neither (genbutsu-only house rule).
type KuikaeLevel int

const (
	KuikaeStrict KuikaeLevel = iota
	KuikaeSuji
	KuikaeOff
)

// LegalDiscards returns the tiles the hand may discard right now:
// tsumogiri (the current draw) plus every distinct concealed tile,
// minus whatever the kuikae policy forbids following the hand's most
// recent chi. After riichi the drawn tile is the only legal discard.
func (h *Hand) LegalDiscards(level KuikaeLevel) []tile.Tile {
	if h.Draw == nil {
		return nil
	}
	if h.Riichi && !h.Draw.IsMeld() {
		return []tile.Tile{h.Draw.Tile}
	}

	forbidden := h.kuikaeForbidden(level)

	seen := map[tile.Tile]bool{}
	var out []tile.Tile
	add := func(t tile.Tile) {
		if forbidden[t.Ordinal()] {
			return
		}
		if seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	}

	if h.Draw.IsMeld() {
		for ord, cnt := range h.Concealed {
			if cnt == 0 {
				continue
			}
			add(tileWithRedPreference(h, ord))
		}
		return out
	}

	add(h.Draw.Tile)
	for ord, cnt := range h.Concealed {
		if cnt == 0 {
			continue
		}
		t := tileWithRedPreference(h, ord)
		if t.Equal(h.Draw.Tile) {
			continue
		}
		add(t)
	}
	return out
}

// tileWithRedPreference returns the ordinary tile of ord, or the red
// five if the hand's only remaining copy at that ordinal is red.
func tileWithRedPreference(h *Hand, ord int) tile.Tile {
	t := tile.FromOrdinal(ord)
	if t.IsNumbered() && t.NormalizedNum() == 5 {
		si := suitIndex(t.Suit)
		if h.RedFive[si] > 0 && h.RedFive[si] == h.Concealed[ord] {
			return tile.Tile{Suit: t.Suit, Num: 0}
		}
	}
	return t
}

// kuikaeForbidden computes the set of ordinals a discard may not use
// this turn, keyed off the chi just called (if any).
func (h *Hand) kuikaeForbidden(level KuikaeLevel) map[int]bool {
	forbidden := map[int]bool{}
	if level == KuikaeOff || !h.Draw.IsMeld() {
		return forbidden
	}
	m := h.Draw.FromMeld
	if m.Shape != tile.ChiShape {
		return forbidden
	}
	called, ok := m.CalledTile()
	if !ok {
		return forbidden
	}
	forbidden[called.Ordinal()] = true
	if level == KuikaeStrict {
		if swap, ok := kuikaeSwap(*m, called); ok {
			forbidden[swap.Ordinal()] = true
		}
	}
	return forbidden
}

// kuikaeSwap returns the suji tile that could complete the same chi
// shape from the opposite end, e.g. calling 4p into 2p3p4p also
// forbids discarding 1p (the swap that would complete 1p2p3p using
// the same two concealed tiles).
func kuikaeSwap(m tile.Meld, called tile.Tile) (tile.Tile, bool) {
	norm := make([]int, len(m.Nums))
	for i, n := range m.Nums {
		if n == 0 {
			norm[i] = 5
		} else {
			norm[i] = n
		}
	}
	calledNorm := called.NormalizedNum()
	lo, hi := norm[0], norm[0]
	for _, n := range norm[1:] {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	switch calledNorm {
	case lo:
		if hi+1 <= 9 {
			return tile.Tile{Suit: m.Suit, Num: hi + 1}, true
		}
	case hi:
		if lo-1 >= 1 {
			return tile.Tile{Suit: m.Suit, Num: lo - 1}, true
		}
	}
	return tile.Tile{}, false
}

// LegalChi returns every chi meld the hand can form using t, called
// from kamicha. It returns nil after riichi and while a draw or call
// is pending (a hand mid-call cannot chi again until it discards).
// Kuikae is not applied here; it only restricts the discard that
// follows the chi (see LegalDiscards).
func (h *Hand) LegalChi(t tile.Tile) []tile.Meld {
	if !t.IsNumbered() || h.Draw != nil || h.Riichi {
		return nil
	}
	n := t.NormalizedNum()
	var out []tile.Meld

	tryShape := func(a, b int) {
		if a < 1 || b > 9 {
			return
		}
		for _, useRedA := range redOptions(h, t.Suit, a) {
			for _, useRedB := range redOptions(h, t.Suit, b) {
				if h.Concealed[tile.Tile{Suit: t.Suit, Num: a}.Ordinal()] == 0 {
					continue
				}
				if h.Concealed[tile.Tile{Suit: t.Suit, Num: b}.Ordinal()] == 0 {
					continue
				}
				digitA, digitB := a, b
				if useRedA {
					digitA = 0
				}
				if useRedB {
					digitB = 0
				}
				out = append(out, buildChi(t.Suit, digitA, digitB, t))
			}
		}
	}

	tryShape(n-2, n-1) // t completes the high end
	tryShape(n-1, n+1) // t is the middle tile
	tryShape(n+1, n+2) // t completes the low end
	return out
}

// redOptions reports which "use the red five instead of ordinary"
// choices are available for digit within suit, given the hand's
// current stock; always includes false (ordinary), and includes true
// only when a red five is held and digit==5.
func redOptions(h *Hand, suit tile.Suit, digit int) []bool {
	if digit != 5 {
		return []bool{false}
	}
	opts := []bool{false}
	if h.RedFive[suitIndex(suit)] > 0 {
		opts = append(opts, true)
	}
	return opts
}

func buildChi(suit tile.Suit, a, b int, called tile.Tile) tile.Meld {
	nums := []int{a, b}
	// insert the called tile in ascending normalized position among
	// the three, matching the canonicalization the run's own sequence
	// implies (concealed digits ascend, the called digit sits where it
	// falls value-wise).
	full := insertSorted(nums, called.Num)
	callIndex := indexOf(full, called.Num)
	return tile.Meld{
		Shape:     tile.ChiShape,
		Suit:      suit,
		Nums:      full,
		CallIndex: callIndex,
		Dir:       tile.DirKamicha,
	}
}

func insertSorted(nums []int, v int) []int {
	norm := func(n int) int {
		if n == 0 {
			return 5
		}
		return n
	}
	out := make([]int, 0, len(nums)+1)
	inserted := false
	for _, n := range nums {
		if !inserted && norm(v) < norm(n) {
			out = append(out, v)
			inserted = true
		}
		out = append(out, n)
	}
	if !inserted {
		out = append(out, v)
	}
	return out
}

func indexOf(nums []int, v int) int {
	for i, n := range nums {
		if n == v {
			return i
		}
	}
	return -1
}

// LegalPon returns the pon melds the hand can form on t: one meld per
// number of red fives (zero, one, or two) among the two contributed
// tiles that the held red and ordinary fives can supply. Forbidden
// after riichi.
func (h *Hand) LegalPon(t tile.Tile) []tile.Meld {
	if h.Riichi || h.Draw != nil {
		return nil
	}
	ord := t.Ordinal()
	if h.Concealed[ord] < 2 {
		return nil
	}
	var variants [][2]int // [redCount option] describing how many of the 2 contributed tiles are red
	si := suitIndex(t.Suit)
	redAvail := 0
	if t.IsNumbered() && t.NormalizedNum() == 5 {
		redAvail = h.RedFive[si]
	}
	maxRed := minInt(redAvail, 2)
	minRed := 2 - (h.Concealed[ord] - redAvail) // ordinary copies held may not cover both tiles
	if minRed < 0 {
		minRed = 0
	}
	for r := minRed; r <= maxRed; r++ {
		variants = append(variants, [2]int{r, 0})
	}
	if len(variants) == 0 {
		variants = [][2]int{{0, 0}}
	}

	var out []tile.Meld
	for _, v := range variants {
		nums := make([]int, 0, 3)
		for i := 0; i < 2; i++ {
			if i < v[0] {
				nums = append(nums, 0)
			} else {
				nums = append(nums, t.NormalizedNum())
			}
		}
		full := insertSorted(nums, t.Num)
		callIndex := indexOf(full, t.Num)
		out = append(out, tile.Meld{
			Shape:     tile.PonShape,
			Suit:      t.Suit,
			Nums:      full,
			CallIndex: callIndex,
			Dir:       tile.DirKamicha, // caller resolves the actual seat direction
		})
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// LegalKan without an argument returns the ankan/kakan melds available
// from the current draw; with t non-nil, returns the daiminkan formed
// by claiming t from a discard.
func (h *Hand) LegalKan(t *tile.Tile) []tile.Meld {
	if t != nil {
		if h.Riichi {
			return nil
		}
		ord := t.Ordinal()
		if h.Concealed[ord] < 3 {
			return nil
		}
		nums := fourNumsFromStock(h, *t)
		full := insertSorted(nums[:3], t.Num)
		callIndex := indexOf(full, t.Num)
		return []tile.Meld{{
			Shape:     tile.DaiminkanShape,
			Suit:      t.Suit,
			Nums:      full,
			CallIndex: callIndex,
			Dir:       tile.DirKamicha,
		}}
	}

	if h.Draw == nil || h.Draw.IsMeld() {
		return nil
	}
	drawn := h.Draw.Tile
	var out []tile.Meld

	if h.Concealed[drawn.Ordinal()] == 4 {
		nums := fourNumsFromStock(h, drawn)
		out = append(out, tile.Meld{
			Shape:     tile.AnkanShape,
			Suit:      drawn.Suit,
			Nums:      nums,
			CallIndex: -1,
		})
	}
	for _, m := range h.Melds {
		if m.Shape != tile.PonShape || m.Suit != drawn.Suit {
			continue
		}
		if !ponMatches(m, drawn) {
			continue
		}
		kakan := m
		kakan.Shape = tile.KakanShape
		kakan.AddedNum = drawn.Num
		out = append(out, kakan)
	}
	return out
}

func normalizedDigit(t tile.Tile) int {
	if t.IsRed() {
		return 5
	}
	return t.Num
}

func ponMatches(m tile.Meld, drawn tile.Tile) bool {
	for _, n := range m.Nums {
		nn := n
		if nn == 0 {
			nn = 5
		}
		if nn == normalizedDigit(drawn) {
			return true
		}
	}
	return false
}

func fourNumsFromStock(h *Hand, t tile.Tile) []int {
	si := suitIndex(t.Suit)
	redAvail := 0
	if t.IsNumbered() && t.NormalizedNum() == 5 {
		redAvail = h.RedFive[si]
	}
	nums := make([]int, 4)
	for i := range nums {
		if i < redAvail {
			nums[i] = 0
		} else {
			nums[i] = t.NormalizedNum()
		}
	}
	return nums
}
