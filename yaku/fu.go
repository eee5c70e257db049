package yaku

import (
	"mjcore/decomp"
	"mjcore/tile"
)

// Fu computes the fu score for one Decomposition under ctx, following
// the standard base-20 table: meld fu scaled by triplet/kan and
// simple/terminal-honor and concealed/open, a yakuhai pair bonus, a
// wait-shape bonus, the menzen-ron and tsumo bonuses, the open-hand
// floor, and finally rounding up to the next 10 — except chiitoitsu,
// which is a fixed 25 regardless of shape.
func Fu(d decomp.Decomposition, ctx Context, isMenzen bool) int {
	if d.Kind == decomp.Chiitoitsu {
		return 25
	}
	if d.Kind != decomp.Standard {
		return 0 // kokushi and nine-gates score by yakuman base, fu is meaningless
	}

	fu := 20
	for _, m := range d.Melds {
		fu += meldFu(m, d)
	}
	fu += pairFu(d.Pair[0], ctx)
	fu += waitFu(d.Wait)

	if d.Tsumo {
		if !isPinfuShape(d, ctx) {
			fu += 2
		}
	} else if isMenzen {
		fu += 10
	}

	if !isMenzen && fu == 20 {
		fu = 30 // open-hand floor: an open pinfu-shape ron is never 20 fu
	}

	return roundUpTo10(fu)
}

func meldFu(m decomp.DecomposedMeld, d decomp.Decomposition) int {
	if m.Kind == decomp.Sequence {
		return 0
	}
	yaochuu := tile.FromOrdinal(m.Ordinals[0]).IsYaochuu()
	open := m.Open
	if m.WinningTile && d.Wait == decomp.Shanpon && !d.Tsumo {
		open = true // a ron-completed shanpon triplet scores as minkou, matching countAnkou's treatment of the same shape
	}
	switch {
	case m.ConcealedKan && yaochuu:
		return 32
	case m.ConcealedKan:
		return 16
	case m.Kan && yaochuu:
		return 16
	case m.Kan:
		return 8
	case !open && yaochuu:
		return 8
	case !open:
		return 4
	case yaochuu:
		return 4
	default:
		return 2
	}
}

func pairFu(ord int, ctx Context) int {
	t := tile.FromOrdinal(ord)
	if !t.IsHonor() {
		return 0
	}
	fu := 0
	if t.Num == ctx.RoundWind {
		fu += 2
	}
	if t.Num == ctx.SeatWind {
		fu += 2
	}
	if t.Num >= tile.White && t.Num <= tile.Red {
		fu += 2
	}
	return fu
}

func waitFu(w decomp.WaitShape) int {
	switch w {
	case decomp.Kanchan, decomp.Penchan, decomp.Tanki:
		return 2
	default:
		return 0
	}
}

// isPinfuShape reports whether d, taken alone, has the all-runs,
// non-yakuhai-pair, ryanmen-wait shape pinfu requires — used only to
// suppress the tsumo fu bonus, since a pinfu tsumo scores a flat 20.
func isPinfuShape(d decomp.Decomposition, ctx Context) bool {
	if d.Wait != decomp.Ryanmen {
		return false
	}
	if pairFu(d.Pair[0], ctx) != 0 {
		return false
	}
	for _, m := range d.Melds {
		if m.Kind != decomp.Sequence || m.Open {
			return false
		}
	}
	return true
}

func roundUpTo10(fu int) int {
	if fu%10 == 0 {
		return fu
	}
	return fu + (10 - fu%10)
}
