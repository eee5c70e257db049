package yaku

import (
	"mjcore/decomp"
	"mjcore/hand"
	"mjcore/tile"
)

// ID names one yaku or yakuman. Ordering has no scoring meaning.
type ID int

const (
	YakuRiichi ID = iota
	YakuDoubleRiichi
	YakuIppatsu
	YakuMenzenTsumo
	YakuPinfu
	YakuIipeiko
	YakuYakuhai
	YakuTanyao
	YakuSanshokuDoujun
	YakuIttsu
	YakuChanta
	YakuChiitoitsu
	YakuToitoi
	YakuSanankou
	YakuSankantsu
	YakuSanshokuDoukou
	YakuHonroutou
	YakuShousangen
	YakuHonitsu
	YakuJunchan
	YakuRyanpeiko
	YakuChinitsu
	YakuHaiteiTsumo
	YakuHouteiRon
	YakuRinshan
	YakuChankan
	YakuTenho
	YakuChiho

	YakuKokushi
	YakuKokushiJuusanmen
	YakuSuuankou
	YakuSuuankouTanki
	YakuDaisangen
	YakuShousuushii
	YakuDaisuushii
	YakuTsuuiisou
	YakuRyuuiisou
	YakuChinroutou
	YakuSuukantsu
	YakuChuurenPoutou
	YakuJunseiChuurenPoutou
)

func (id ID) String() string {
	names := map[ID]string{
		YakuRiichi: "riichi", YakuDoubleRiichi: "double riichi", YakuIppatsu: "ippatsu",
		YakuMenzenTsumo: "menzen tsumo", YakuPinfu: "pinfu", YakuIipeiko: "iipeiko",
		YakuYakuhai: "yakuhai", YakuTanyao: "tanyao", YakuSanshokuDoujun: "sanshoku doujun",
		YakuIttsu: "ittsu", YakuChanta: "chanta", YakuChiitoitsu: "chiitoitsu",
		YakuToitoi: "toitoi", YakuSanankou: "sanankou", YakuSankantsu: "sankantsu",
		YakuSanshokuDoukou: "sanshoku doukou", YakuHonroutou: "honroutou",
		YakuShousangen: "shousangen", YakuHonitsu: "honitsu", YakuJunchan: "junchan",
		YakuRyanpeiko: "ryanpeiko", YakuChinitsu: "chinitsu", YakuHaiteiTsumo: "haitei",
		YakuHouteiRon: "houtei", YakuRinshan: "rinshan kaihou", YakuChankan: "chankan",
		YakuTenho: "tenho", YakuChiho: "chiho",
		YakuKokushi: "kokushi musou", YakuKokushiJuusanmen: "kokushi musou (13-wait)",
		YakuSuuankou: "suuankou", YakuSuuankouTanki: "suuankou tanki",
		YakuDaisangen: "daisangen", YakuShousuushii: "shousuushii", YakuDaisuushii: "daisuushii",
		YakuTsuuiisou: "tsuuiisou", YakuRyuuiisou: "ryuuiisou", YakuChinroutou: "chinroutou",
		YakuSuukantsu: "suukantsu", YakuChuurenPoutou: "chuuren poutou",
		YakuJunseiChuurenPoutou: "junsei chuuren poutou",
	}
	if s, ok := names[id]; ok {
		return s
	}
	return "unknown"
}

// Hand computes every applicable yaku (or yakuman) for one
// Decomposition of the winning hand, returning the han total and the
// yakuman multiplier (0 when the hand has no yakuman). When
// YakumanMultiplier > 0, Han and dora are not added; evaluateYakuman
// has already applied rules.YakumanCompositionEnabled and
// DoubleYakumanEnabled to the multiplier, which Score turns into points.
type Hand struct {
	Yaku              []ID
	Han               int
	YakumanMultiplier int
	Pao               PaoSeat
}

// Evaluate scores one Decomposition against ctx. The hand's concealed
// status is read off d's melds (every meld concealed or an ankan);
// tsumo comes from d.Tsumo.
func Evaluate(ctx Context, d decomp.Decomposition) Hand {
	if ym, ok := evaluateYakuman(ctx, d); ok {
		return ym
	}

	var h Hand
	isMenzen := isMenzenDecomposition(d)

	switch ctx.Riichi {
	case DoubleRiichi:
		h.Yaku = append(h.Yaku, YakuDoubleRiichi)
		h.Han += 2
	case Riichi:
		h.Yaku = append(h.Yaku, YakuRiichi)
		h.Han++
	}
	if ctx.Riichi != NoRiichi && ctx.Ippatsu && ctx.Rules.IppatsuEnabled {
		h.Yaku = append(h.Yaku, YakuIppatsu)
		h.Han++
	}
	if ctx.Haitei && d.Tsumo {
		h.Yaku = append(h.Yaku, YakuHaiteiTsumo)
		h.Han++
	}
	if ctx.Houtei && !d.Tsumo {
		h.Yaku = append(h.Yaku, YakuHouteiRon)
		h.Han++
	}
	if ctx.Rinshan {
		h.Yaku = append(h.Yaku, YakuRinshan)
		h.Han++
	}
	if ctx.Chankan {
		h.Yaku = append(h.Yaku, YakuChankan)
		h.Han++
	}
	if ctx.Tenho {
		h.Yaku = append(h.Yaku, YakuTenho)
		h.Han++
	}
	if ctx.Chiho {
		h.Yaku = append(h.Yaku, YakuChiho)
		h.Han++
	}

	if d.Kind == decomp.Chiitoitsu {
		h.Yaku = append(h.Yaku, YakuChiitoitsu)
		h.Han += 2
		addStructuralSuitYaku(&h, chiitoitsuTileSet(d), true)
		addDora(&h, ctx, chiitoitsuOrdinals(d))
		return h
	}

	if d.Kind != decomp.Standard {
		return h
	}

	if isMenzen && d.Tsumo {
		h.Yaku = append(h.Yaku, YakuMenzenTsumo)
		h.Han++
	}

	yakuhaiCount := 0
	for _, m := range d.Melds {
		if m.Kind != decomp.Triplet {
			continue
		}
		t := tile.FromOrdinal(m.Ordinals[0])
		if !t.IsHonor() {
			continue
		}
		if t.Num == ctx.RoundWind {
			yakuhaiCount++
		}
		if t.Num == ctx.SeatWind {
			yakuhaiCount++
		}
		if t.Num >= tile.White && t.Num <= tile.Red {
			yakuhaiCount++
		}
	}
	if yakuhaiCount > 0 {
		h.Yaku = append(h.Yaku, YakuYakuhai)
		h.Han += yakuhaiCount
	}

	if isMenzen && d.Wait == decomp.Ryanmen && pairFu(d.Pair[0], ctx) == 0 && allSequences(d) {
		h.Yaku = append(h.Yaku, YakuPinfu)
		h.Han++
	}

	if isMenzen {
		if n := countIipeiko(d); n == 1 {
			h.Yaku = append(h.Yaku, YakuIipeiko)
			h.Han++
		} else if n == 2 {
			h.Yaku = append(h.Yaku, YakuRyanpeiko)
			h.Han += 3
		}
	}

	if allSimples(d) {
		if isMenzen || ctx.Rules.KuitanEnabled {
			h.Yaku = append(h.Yaku, YakuTanyao)
			h.Han++
		}
	}

	if hasSanshokuDoujun(d) {
		h.Han += hanFor(YakuSanshokuDoujun, isMenzen)
		h.Yaku = append(h.Yaku, YakuSanshokuDoujun)
	}
	if hasIttsu(d) {
		h.Han += hanFor(YakuIttsu, isMenzen)
		h.Yaku = append(h.Yaku, YakuIttsu)
	}
	if allYaochuuGroups(d) {
		if allTerminalNoHonor(d) {
			h.Han += hanFor(YakuJunchan, isMenzen)
			h.Yaku = append(h.Yaku, YakuJunchan)
		} else {
			h.Han += hanFor(YakuChanta, isMenzen)
			h.Yaku = append(h.Yaku, YakuChanta)
		}
	}

	if allTriplets(d) {
		h.Yaku = append(h.Yaku, YakuToitoi)
		h.Han++
	}
	if n := countAnkou(d); n == 3 {
		h.Yaku = append(h.Yaku, YakuSanankou)
		h.Han += 2
	}
	if countKan(d) == 3 {
		h.Yaku = append(h.Yaku, YakuSankantsu)
		h.Han += 2
	}
	if hasSanshokuDoukou(d) {
		h.Yaku = append(h.Yaku, YakuSanshokuDoukou)
		h.Han += 2
	}
	if allYaochuuOnly(d) {
		h.Yaku = append(h.Yaku, YakuHonroutou)
		h.Han += 2
	}
	if hasShousangen(d) {
		h.Yaku = append(h.Yaku, YakuShousangen)
		h.Han += 2
	}

	if _, mixed, ok := singleSuit(d); ok {
		if mixed {
			h.Han += hanFor(YakuHonitsu, isMenzen)
			h.Yaku = append(h.Yaku, YakuHonitsu)
		} else {
			h.Han += hanFor(YakuChinitsu, isMenzen)
			h.Yaku = append(h.Yaku, YakuChinitsu)
		}
	}

	if len(h.Yaku) == 0 {
		return Hand{} // no yaku, not a valid win
	}

	addDora(&h, ctx, standardOrdinals(d))
	return h
}

// hanFor applies the usual "closed hand scores one more han" rule for
// the sanshoku/ittsu/chanta/honitsu/chinitsu family, which are worth
// less when the hand contains a call.
func hanFor(id ID, menzen bool) int {
	base := map[ID]int{
		YakuSanshokuDoujun: 2, YakuIttsu: 2, YakuChanta: 2, YakuJunchan: 3,
		YakuHonitsu: 3, YakuChinitsu: 6,
	}[id]
	if menzen {
		return base
	}
	return base - 1
}

func isMenzenDecomposition(d decomp.Decomposition) bool {
	for _, m := range d.Melds {
		if m.Open && !m.ConcealedKan {
			return false
		}
	}
	return true
}

func allSequences(d decomp.Decomposition) bool {
	for _, m := range d.Melds {
		if m.Kind != decomp.Sequence {
			return false
		}
	}
	return true
}

func allTriplets(d decomp.Decomposition) bool {
	for _, m := range d.Melds {
		if m.Kind != decomp.Triplet {
			return false
		}
	}
	return true
}

func countAnkou(d decomp.Decomposition) int {
	n := 0
	for _, m := range d.Melds {
		if m.Kind != decomp.Triplet {
			continue
		}
		if m.Open && !m.ConcealedKan {
			continue
		}
		if m.WinningTile && d.Wait == decomp.Shanpon && !d.Tsumo {
			continue // a ron-completed shanpon triplet is treated as open for ankou counting
		}
		n++
	}
	return n
}

func countKan(d decomp.Decomposition) int {
	n := 0
	for _, m := range d.Melds {
		if m.Kan {
			n++
		}
	}
	return n
}

func countIipeiko(d decomp.Decomposition) int {
	seen := map[[3]int]int{}
	for _, m := range d.Melds {
		if m.Kind != decomp.Sequence || m.Open {
			continue
		}
		seen[m.Ordinals]++
	}
	pairs := 0
	for _, c := range seen {
		pairs += c / 2
	}
	return pairs
}

func allSimples(d decomp.Decomposition) bool {
	if tile.FromOrdinal(d.Pair[0]).IsYaochuu() {
		return false
	}
	for _, m := range d.Melds {
		for _, ord := range m.Ordinals {
			if tile.FromOrdinal(ord).IsYaochuu() {
				return false
			}
		}
	}
	return true
}

func allYaochuuGroups(d decomp.Decomposition) bool {
	if !tile.FromOrdinal(d.Pair[0]).IsYaochuu() {
		return false
	}
	for _, m := range d.Melds {
		switch m.Kind {
		case decomp.Sequence:
			if !tile.FromOrdinal(m.Ordinals[0]).IsTerminal() && !tile.FromOrdinal(m.Ordinals[2]).IsTerminal() {
				return false
			}
		case decomp.Triplet:
			if !tile.FromOrdinal(m.Ordinals[0]).IsYaochuu() {
				return false
			}
		}
	}
	return true
}

func allTerminalNoHonor(d decomp.Decomposition) bool {
	if tile.FromOrdinal(d.Pair[0]).IsHonor() {
		return false
	}
	for _, m := range d.Melds {
		for _, ord := range m.Ordinals {
			if tile.FromOrdinal(ord).IsHonor() {
				return false
			}
		}
	}
	return true
}

func allYaochuuOnly(d decomp.Decomposition) bool {
	if !allTriplets(d) {
		return false
	}
	if !tile.FromOrdinal(d.Pair[0]).IsYaochuu() {
		return false
	}
	for _, m := range d.Melds {
		if !tile.FromOrdinal(m.Ordinals[0]).IsYaochuu() {
			return false
		}
	}
	return true
}

func hasShousangen(d decomp.Decomposition) bool {
	dragonTriplets := 0
	pairIsDragon := tile.FromOrdinal(d.Pair[0]).Suit == tile.Honor && tile.FromOrdinal(d.Pair[0]).Num >= tile.White
	for _, m := range d.Melds {
		if m.Kind != decomp.Triplet {
			continue
		}
		t := tile.FromOrdinal(m.Ordinals[0])
		if t.IsHonor() && t.Num >= tile.White && t.Num <= tile.Red {
			dragonTriplets++
		}
	}
	return dragonTriplets == 2 && pairIsDragon
}

func hasSanshokuDoujun(d decomp.Decomposition) bool {
	numberSuits := map[int]uint8{}
	for _, m := range d.Melds {
		if m.Kind != decomp.Sequence {
			continue
		}
		start := tile.FromOrdinal(m.Ordinals[0])
		if !start.IsNumbered() {
			continue
		}
		numberSuits[start.NormalizedNum()] |= suitBit(start.Suit)
	}
	for _, bits := range numberSuits {
		if bits == 0b111 {
			return true
		}
	}
	return false
}

func suitBit(s tile.Suit) uint8 {
	switch s {
	case tile.Man:
		return 1
	case tile.Pin:
		return 2
	case tile.Sou:
		return 4
	default:
		return 0
	}
}

func hasSanshokuDoukou(d decomp.Decomposition) bool {
	numberSuits := map[int]uint8{}
	for _, m := range d.Melds {
		if m.Kind != decomp.Triplet {
			continue
		}
		t := tile.FromOrdinal(m.Ordinals[0])
		if !t.IsNumbered() {
			continue
		}
		numberSuits[t.NormalizedNum()] |= suitBit(t.Suit)
	}
	for _, bits := range numberSuits {
		if bits == 0b111 {
			return true
		}
	}
	return false
}

func hasIttsu(d decomp.Decomposition) bool {
	suitStarts := map[tile.Suit]uint16{}
	for _, m := range d.Melds {
		if m.Kind != decomp.Sequence {
			continue
		}
		start := tile.FromOrdinal(m.Ordinals[0])
		if !start.IsNumbered() {
			continue
		}
		suitStarts[start.Suit] |= 1 << uint(start.NormalizedNum())
	}
	need := uint16(1<<1 | 1<<4 | 1<<7)
	for _, bits := range suitStarts {
		if bits&need == need {
			return true
		}
	}
	return false
}

func singleSuit(d decomp.Decomposition) (tile.Suit, bool, bool) {
	suit := tile.Suit(0)
	hasHonor := false
	first := true
	check := func(t tile.Tile) bool {
		if t.IsHonor() {
			hasHonor = true
			return true
		}
		if first {
			suit = t.Suit
			first = false
			return true
		}
		return t.Suit == suit
	}
	if !check(tile.FromOrdinal(d.Pair[0])) {
		return 0, false, false
	}
	for _, m := range d.Melds {
		for _, ord := range m.Ordinals {
			if !check(tile.FromOrdinal(ord)) {
				return 0, false, false
			}
		}
	}
	if first {
		return 0, false, false // all-honor hand: not honitsu/chinitsu, that's tsuuiisou territory
	}
	return suit, hasHonor, true
}

// standardOrdinals lists one ordinal per physical tile in d, including
// the fourth tile of a kan meld — DecomposedMeld.Ordinals only ever
// carries three slots since a kan's wait classification never depends
// on its fourth tile, but dora counting must still see it.
func standardOrdinals(d decomp.Decomposition) []int {
	ords := []int{d.Pair[0], d.Pair[0]}
	for _, m := range d.Melds {
		ords = append(ords, m.Ordinals[0], m.Ordinals[1], m.Ordinals[2])
		if m.Kan {
			ords = append(ords, m.Ordinals[0])
		}
	}
	return ords
}

func chiitoitsuOrdinals(d decomp.Decomposition) []int {
	ords := make([]int, 0, 14)
	for _, p := range d.Pairs {
		ords = append(ords, p, p)
	}
	return ords
}

func chiitoitsuTileSet(d decomp.Decomposition) []int { return d.Pairs }

// addStructuralSuitYaku covers the suit-purity yaku that apply to
// chiitoitsu too (honitsu/chinitsu/tanyao read the same off any tile
// multiset regardless of meld shape).
func addStructuralSuitYaku(h *Hand, ordinals []int, menzen bool) {
	allSimple := true
	suit := tile.Suit(0)
	first := true
	mixed := false
	singleSuitOK := true
	for _, ord := range ordinals {
		t := tile.FromOrdinal(ord)
		if t.IsYaochuu() {
			allSimple = false
		}
		if t.IsHonor() {
			mixed = true
			continue
		}
		if first {
			suit = t.Suit
			first = false
			continue
		}
		if t.Suit != suit {
			singleSuitOK = false
		}
	}
	if allSimple {
		h.Yaku = append(h.Yaku, YakuTanyao)
		h.Han++
	}
	if singleSuitOK && !first {
		if mixed {
			h.Han += hanFor(YakuHonitsu, menzen)
			h.Yaku = append(h.Yaku, YakuHonitsu)
		} else {
			h.Han += hanFor(YakuChinitsu, menzen)
			h.Yaku = append(h.Yaku, YakuChinitsu)
		}
	}
}

func addDora(h *Hand, ctx Context, ordinals []int) {
	h.Han += doraCount(ctx.DoraIndicators, ordinals)
	if ctx.Riichi != NoRiichi && ctx.Rules.UraDoraEnabled {
		h.Han += doraCount(ctx.UraIndicators, ordinals)
	}
	h.Han += redFiveCount(ctx.Hand)
}

func doraCount(indicators []tile.Tile, ordinals []int) int {
	n := 0
	for _, ind := range indicators {
		want := tile.NextDora(ind).Ordinal()
		for _, ord := range ordinals {
			if ord == want {
				n++
			}
		}
	}
	return n
}

// redFiveCount tallies red fives still in the concealed pile
// (h.RedFive) plus any that moved into a called or kan meld — a call
// or kan removes the tile from Concealed/RedFive via removeConcealed
// but preserves the literal digit (0 for a red five) in the meld's
// own tile.Meld.Nums, so those have to be recounted from h.Melds.
func redFiveCount(h *hand.Hand) int {
	if h == nil {
		return 0
	}
	n := h.RedFive[0] + h.RedFive[1] + h.RedFive[2]
	for _, m := range h.Melds {
		for _, t := range m.Tiles() {
			if t.IsRed() {
				n++
			}
		}
	}
	return n
}
