package yaku

import (
	"mjcore/decomp"
	"mjcore/tile"
)

// evaluateYakuman checks d for any yakuman shape, returning ok=false
// when none applies (the caller falls through to ordinary scoring).
// When d qualifies for more than one yakuman, all of them are kept and
// their multipliers summed if rules.YakumanCompositionEnabled;
// otherwise only the last one found is kept, at its own multiplier.
func evaluateYakuman(ctx Context, d decomp.Decomposition) (Hand, bool) {
	dbl := ctx.Rules.DoubleYakumanEnabled

	switch d.Kind {
	case decomp.Kokushi:
		if d.Wait == decomp.ThirteenWait {
			return yakumanHand(YakuKokushiJuusanmen, mult(dbl, 2)), true
		}
		return yakumanHand(YakuKokushi, 1), true

	case decomp.NineGates:
		if d.NineGatesPure {
			return yakumanHand(YakuJunseiChuurenPoutou, mult(dbl, 2)), true
		}
		return yakumanHand(YakuChuurenPoutou, 1), true
	}

	if d.Kind != decomp.Standard {
		return Hand{}, false
	}

	var found []ID
	multiplier := 0
	add := func(id ID, m int) {
		found = append(found, id)
		multiplier += m
	}

	if n := countAnkou(d); n == 4 {
		if d.Wait == decomp.Tanki {
			add(YakuSuuankouTanki, mult(dbl, 2))
		} else {
			add(YakuSuuankou, 1)
		}
	}
	if countKan(d) == 4 {
		add(YakuSuukantsu, 1)
	}
	if dragonTripletCount(d) == 3 {
		add(YakuDaisangen, 1)
	}
	windTriplets := windTripletCount(d)
	pairIsWind := tile.FromOrdinal(d.Pair[0]).IsHonor() &&
		tile.FromOrdinal(d.Pair[0]).Num >= tile.East && tile.FromOrdinal(d.Pair[0]).Num <= tile.North
	if windTriplets == 4 {
		add(YakuDaisuushii, mult(dbl, 2))
	} else if windTriplets == 3 && pairIsWind {
		add(YakuShousuushii, 1)
	}
	if allHonorGroups(d) {
		add(YakuTsuuiisou, 1)
	}
	if allGreen(d) {
		add(YakuRyuuiisou, 1)
	}
	if allTerminalTriplets(d) {
		add(YakuChinroutou, 1)
	}

	if len(found) == 0 {
		return Hand{}, false
	}
	if !ctx.Rules.YakumanCompositionEnabled {
		found = found[len(found)-1:]
		multiplier = yakumanValue(found[0], dbl)
	}
	return Hand{Yaku: found, YakumanMultiplier: multiplier, Pao: paoFor(ctx, found)}, true
}

// paoFor resolves baojia (pao) liability for whichever pao-eligible
// yakuman survived composition: daisangen and daisuushii liability
// follows the dragon/wind triplet a player completed by calling from
// someone else rather than drawing or holding it concealed; suukantsu
// liability follows the discard a player's fourth kan was claimed
// from. Every other yakuman carries no liability.
func paoFor(ctx Context, found []ID) PaoSeat {
	pao := NoPao
	for _, id := range found {
		switch id {
		case YakuDaisangen:
			pao = paoSeatForCalledTriplet(ctx, isDragonTile)
		case YakuDaisuushii:
			pao = paoSeatForCalledTriplet(ctx, isWindTile)
		case YakuSuukantsu:
			pao = paoSeatForClaimedKan(ctx)
		}
	}
	return pao
}

// paoSeatForCalledTriplet looks for a meld matching want (a dragon or
// wind triplet, pon or kan alike) that carries a non-nil call
// direction — i.e. it exists because it was claimed off someone's
// discard rather than drawn or held concealed. Exactly one such meld
// is the overwhelmingly common case (there are only three dragon and
// four wind kinds to claim); when more than one qualifies, the last
// one in Hand.Melds — the most recently formed — is taken to be the
// one that completed the yakuman shape.
func paoSeatForCalledTriplet(ctx Context, want func(tile.Tile) bool) PaoSeat {
	if !ctx.Rules.YakumanPaoEnabled || ctx.Hand == nil {
		return NoPao
	}
	pao := NoPao
	for _, m := range ctx.Hand.Melds {
		if m.Dir == tile.DirNone {
			continue
		}
		if m.Shape != tile.PonShape && !m.Shape.IsKan() {
			continue
		}
		if !want(tile.Tile{Suit: m.Suit, Num: m.Nums[0]}) {
			continue
		}
		pao = PaoSeat(seatFromDirection(ctx.Seat, m.Dir))
	}
	return pao
}

// paoSeatForClaimedKan finds the last daiminkan in Hand.Melds — a kan
// claimed whole off a discard, as opposed to an ankan or a kakan
// (whose fourth tile is always self-drawn) — and attributes suukantsu
// liability to the seat it was claimed from.
func paoSeatForClaimedKan(ctx Context) PaoSeat {
	if !ctx.Rules.YakumanPaoEnabled || ctx.Hand == nil {
		return NoPao
	}
	pao := NoPao
	for _, m := range ctx.Hand.Melds {
		if m.Shape != tile.DaiminkanShape {
			continue
		}
		pao = PaoSeat(seatFromDirection(ctx.Seat, m.Dir))
	}
	return pao
}

// seatFromDirection inverts callDirection: given the seat that called
// a meld and the direction it was called from, it returns the
// absolute seat that discarded it.
func seatFromDirection(caller int, dir tile.Direction) int {
	switch dir {
	case tile.DirKamicha:
		return (caller - 1 + 4) % 4
	case tile.DirToimen:
		return (caller + 2) % 4
	case tile.DirShimocha:
		return (caller + 1) % 4
	default:
		return caller
	}
}

func isDragonTile(t tile.Tile) bool {
	return t.Suit == tile.Honor && t.Num >= tile.White && t.Num <= tile.Red
}

func isWindTile(t tile.Tile) bool {
	return t.Suit == tile.Honor && t.Num >= tile.East && t.Num <= tile.North
}

func yakumanHand(id ID, m int) Hand {
	return Hand{Yaku: []ID{id}, YakumanMultiplier: m, Pao: NoPao}
}

func mult(doubleEnabled bool, base int) int {
	if !doubleEnabled {
		return 1
	}
	return base
}

func yakumanValue(id ID, doubleEnabled bool) int {
	switch id {
	case YakuSuuankouTanki, YakuDaisuushii, YakuKokushiJuusanmen, YakuJunseiChuurenPoutou:
		return mult(doubleEnabled, 2)
	default:
		return 1
	}
}

func dragonTripletCount(d decomp.Decomposition) int {
	n := 0
	for _, m := range d.Melds {
		if m.Kind != decomp.Triplet {
			continue
		}
		t := tile.FromOrdinal(m.Ordinals[0])
		if t.IsHonor() && t.Num >= tile.White && t.Num <= tile.Red {
			n++
		}
	}
	return n
}

func windTripletCount(d decomp.Decomposition) int {
	n := 0
	for _, m := range d.Melds {
		if m.Kind != decomp.Triplet {
			continue
		}
		t := tile.FromOrdinal(m.Ordinals[0])
		if t.IsHonor() && t.Num >= tile.East && t.Num <= tile.North {
			n++
		}
	}
	return n
}

func allHonorGroups(d decomp.Decomposition) bool {
	if !tile.FromOrdinal(d.Pair[0]).IsHonor() {
		return false
	}
	for _, m := range d.Melds {
		if !tile.FromOrdinal(m.Ordinals[0]).IsHonor() {
			return false
		}
	}
	return true
}

func allTerminalTriplets(d decomp.Decomposition) bool {
	if !tile.FromOrdinal(d.Pair[0]).IsTerminal() {
		return false
	}
	for _, m := range d.Melds {
		if m.Kind != decomp.Triplet || !tile.FromOrdinal(m.Ordinals[0]).IsTerminal() {
			return false
		}
	}
	return true
}

// allGreen reports the ryuuiisou shape: every tile is a green tile
// (sou 2,3,4,6,8 or the green dragon).
func allGreen(d decomp.Decomposition) bool {
	green := func(ord int) bool {
		t := tile.FromOrdinal(ord)
		if t.Suit == tile.Honor {
			return t.Num == tile.Green
		}
		if t.Suit != tile.Sou {
			return false
		}
		switch t.Num {
		case 2, 3, 4, 6, 8:
			return true
		default:
			return false
		}
	}
	if !green(d.Pair[0]) {
		return false
	}
	for _, m := range d.Melds {
		for _, ord := range m.Ordinals {
			if !green(ord) {
				return false
			}
		}
	}
	return true
}
