package game

import (
	"fmt"
	"sort"
	"time"

	"mjcore/agent"
	"mjcore/decomp"
	"mjcore/discard"
	"mjcore/hand"
	"mjcore/internal/corelog"
	"mjcore/record"
	"mjcore/rules"
	"mjcore/shanten"
	"mjcore/tile"
	"mjcore/wall"
	"mjcore/yaku"
)

// Seat is one of the four players a Round drives: their hand, discard
// river, running point total, and the Agent answering on their behalf.
type Seat struct {
	Hand     *hand.Hand
	Discards *discard.Pile
	Agent    agent.Agent
	Points   int

	// Furiten is set the moment this seat passes a live ron (including
	// a chankan robbery) or, while in riichi, draws and discards
	// without declaring the tsumo it could have taken. It blocks ron
	// entirely until cleared when this seat next draws (the top of its
	// next turn), on top of the permanent block from a winning tile
	// already sitting in Discards.
	Furiten bool
}

// NewSeat returns a fresh seat with an empty hand and river.
func NewSeat(a agent.Agent, points int) *Seat {
	return &Seat{Hand: hand.New(), Discards: discard.New(), Agent: a, Points: points}
}

// Round drives one hand of four seats through the turn state machine:
// deal, alternating draws and discards, claim resolution on every
// discard, kan handling and its dora-reveal timing, and the abortive
// draws and exhaustive-draw settlement that can end it early.
type Round struct {
	Rules rules.Rules
	Wall  *wall.Wall
	Seats [4]*Seat
	Log   *corelog.Logger
	Rec   *record.RoundRecord

	State        State
	RoundWind    int
	DealerSeat   int
	Honba        int
	RiichiSticks int

	at time.Time

	hasDrawnOnce  [4]bool
	ippatsuArmed  [4]bool
	doubleRiichi  [4]bool
	firstGoAround bool
	callHappened  bool

	firstDiscard        *tile.Tile
	uniformWindDiscards int
	riichiCount         int
	kanSeats            []int

	pendingKanDoraReveal       bool
	nextRinshanImmediateReveal bool
}

// NewRound builds a Round ready to Deal and Play. at stamps every
// entry this round appends to rec, so replay stays reproducible
// without the round consulting a wall clock; rec may be nil, in which
// case no record is kept (useful for tests that only care about the
// outcome).
func NewRound(r rules.Rules, w *wall.Wall, seats [4]*Seat, roundWind, dealerSeat, honba, riichiSticks int, log *corelog.Logger, rec *record.RoundRecord, at time.Time) *Round {
	if log == nil {
		log = corelog.Discard()
	}
	return &Round{
		Rules: r, Wall: w, Seats: seats, Log: log, Rec: rec,
		RoundWind: roundWind, DealerSeat: dealerSeat, Honba: honba, RiichiSticks: riichiSticks,
		at:            at,
		firstGoAround: true,
	}
}

// turnResult is the outcome of driving one seat through Zimo: either
// the round is over (terminal, with the result to report) or play
// continues with the given seat next, rinshan marking whether that
// seat's next draw comes from the dead wall.
type turnResult struct {
	terminal bool
	result   *record.RoundResult
	next     int
	rinshan  bool
}

// Run deals and plays the round to completion, a convenience for
// callers (mainly tests) that don't need the record wired in before
// dealing.
func (rd *Round) Run() *record.RoundResult {
	rd.deal()
	return rd.play()
}

// Deal seals the wall's starting hands without advancing play, so a
// caller can snapshot the dealt hands into a record before Play runs.
func (rd *Round) Deal() { rd.deal() }

// Play runs the round to completion, assuming Deal has already run.
func (rd *Round) Play() *record.RoundResult { return rd.play() }

func (rd *Round) deal() {
	rd.State = Qipai
	order := [4]int{rd.DealerSeat, (rd.DealerSeat + 1) % 4, (rd.DealerSeat + 2) % 4, (rd.DealerSeat + 3) % 4}
	for _, seat := range order {
		for i := 0; i < 13; i++ {
			t, err := rd.Wall.Draw()
			rd.must(err)
			sealTile(rd.Seats[seat].Hand, t)
		}
	}
	rd.Log.Info("qipai: wind=%d dealer=%d honba=%d sticks=%d", rd.RoundWind, rd.DealerSeat, rd.Honba, rd.RiichiSticks)
}

func sealTile(h *hand.Hand, t tile.Tile) {
	h.Concealed[t.Ordinal()]++
	if t.IsRed() {
		h.RedFive[redIndex(t.Suit)]++
	}
}

func redIndex(s tile.Suit) int {
	switch s {
	case tile.Man:
		return 0
	case tile.Pin:
		return 1
	default:
		return 2
	}
}

func (rd *Round) play() *record.RoundResult {
	rd.recordEntry(record.Entry{Kind: record.EntryQipai, Seat: rd.DealerSeat})
	rd.broadcastQipai()
	seat := rd.DealerSeat
	rinshan := false
	for {
		res := rd.turn(seat, rinshan)
		if res.terminal {
			rd.State = Last
			return res.result
		}
		seat = res.next
		rinshan = res.rinshan
	}
}

// turn plays one seat's Zimo suspension point: draw (or rinshan draw),
// offer hule/kyuushu-kyuuhai/kan/discard options, and act on whichever
// reply comes back.
func (rd *Round) turn(seat int, rinshan bool) turnResult {
	rd.State = Zimo
	h := rd.Seats[seat].Hand
	rd.Seats[seat].Furiten = false // a pass or a missed tsumo blocks ron only until this seat's own next draw

	var drawn tile.Tile
	if rinshan {
		t, err := rd.Wall.KanDraw()
		rd.must(err)
		drawn = t
		if rd.nextRinshanImmediateReveal {
			rd.revealKanDora()
		} else {
			rd.pendingKanDoraReveal = true
		}
		rd.nextRinshanImmediateReveal = false
	} else {
		if rd.Wall.LiveCount() == 0 {
			return rd.ryuukyoku()
		}
		t, err := rd.Wall.Draw()
		rd.must(err)
		drawn = t
	}
	if h.Draw.IsMeld() {
		h.Draw = nil // the kan's pending meld marker gives way to its rinshan draw
	}
	rd.must(h.DrawTile(drawn))

	haitei := rd.Wall.LiveCount() == 0
	firstDraw := rd.Seats[seat].Discards.Len() == 0 && !rd.hasDrawnOnce[seat]
	rd.hasDrawnOnce[seat] = true

	ctx := rd.context(seat)
	ctx.Ippatsu = rd.ippatsuArmed[seat]
	rd.ippatsuArmed[seat] = false // cleared by this seat's own next draw regardless of what they do with it
	ctx.Rinshan = rinshan
	ctx.Haitei = haitei
	ctx.Tenho = seat == rd.DealerSeat && firstDraw && rd.firstGoAround && !rd.callHappened
	ctx.Chiho = seat != rd.DealerSeat && firstDraw && rd.firstGoAround && !rd.callHappened

	var opts []agent.Option
	ownWin := hasWin(ctx, h, drawn, true)
	if ownWin {
		opts = append(opts, agent.Option{Kind: agent.ReplyHule, Tile: drawn})
	}

	if rd.Rules.InterruptedDrawsEnabled && rd.firstGoAround && !rd.callHappened && firstDraw && countDistinctYaochuu(h) >= 9 {
		opts = append(opts, agent.Option{Kind: agent.ReplyDaopai})
	}

	for _, m := range h.LegalKan(nil) {
		if m.Shape == tile.AnkanShape && h.Riichi && !rd.ankanAllowedAfterRiichi(h, m) {
			continue
		}
		mm := m
		opts = append(opts, agent.Option{Kind: agent.ReplyGang, Meld: &mm})
	}

	opts = append(opts, rd.discardOptions(seat)...)

	zimoEventKind := agent.EventZimo
	zimoEntryKind := record.EntryZimo
	if rinshan {
		zimoEventKind = agent.EventGangzimo
		zimoEntryKind = record.EntryGangzimo
	}

	ev := agent.Event{
		Kind: zimoEventKind, Seat: seat, Actor: seat,
		Hand: h, OtherHands: rd.maskedViews(), Tile: drawn,
		RoundWind: rd.RoundWind, DealerSeat: rd.DealerSeat, Honba: rd.Honba, RiichiSticks: rd.RiichiSticks,
		DoraIndicators: rd.Wall.DoraIndicators(), Points: rd.pointsSnapshot(),
		Options: opts,
	}
	reply := rd.Seats[seat].Agent.Act(ev)
	if !containsOption(opts, reply) || reply.Kind == agent.ReplyEmpty {
		reply = agent.Reply{Kind: agent.ReplyDapai, Tile: drawn}
	}

	rd.recordEntry(record.Entry{Kind: zimoEntryKind, Seat: seat, Tile: drawn})

	if h.Riichi && ownWin && reply.Kind != agent.ReplyHule {
		rd.Seats[seat].Furiten = true
	}

	switch reply.Kind {
	case agent.ReplyDaopai:
		return rd.abortiveDraw("kyuushu-kyuuhai")
	case agent.ReplyHule:
		return rd.finishWin([]int{seat}, -1, true, rinshan, false, drawn)
	case agent.ReplyGang:
		return rd.declareSelfKan(seat, *reply.Meld)
	default:
		return rd.doDapai(seat, reply.Tile, reply.Riichi)
	}
}

func (rd *Round) ankanAllowedAfterRiichi(h *hand.Hand, m tile.Meld) bool {
	switch rd.Rules.AnkanAfterRiichiLevel {
	case rules.AnkanAfterRiichiForbidden:
		return false
	case rules.AnkanAfterRiichiAlways:
		return true
	default:
		return waitsPreserved(h, m)
	}
}

// waitsPreserved reports whether kanning m leaves the hand's tenpai
// waits unchanged, the condition rules.AnkanAfterRiichiSameWaitOnly
// gates a post-riichi ankan on.
func waitsPreserved(h *hand.Hand, m tile.Meld) bool {
	before := h.Clone()
	drawn := before.Draw.Tile
	before.Concealed[drawn.Ordinal()]--
	if drawn.IsRed() {
		before.RedFive[redIndex(drawn.Suit)]--
	}
	before.Draw = nil
	beforeWaits := shanten.Waits(before)

	after := h.Clone()
	if err := after.Kan(m); err != nil {
		return false
	}
	after.Draw = nil
	afterWaits := shanten.Waits(after)

	return sameTileSet(beforeWaits, afterWaits)
}

func sameTileSet(a, b []tile.Tile) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[tile.Tile]int{}
	for _, t := range a {
		seen[normalizeFive(t)]++
	}
	for _, t := range b {
		seen[normalizeFive(t)]--
	}
	for _, v := range seen {
		if v != 0 {
			return false
		}
	}
	return true
}

func normalizeFive(t tile.Tile) tile.Tile {
	if t.IsNumbered() && t.NormalizedNum() == 5 {
		return tile.Tile{Suit: t.Suit, Num: 5}
	}
	return t
}

func (rd *Round) discardOptions(seat int) []agent.Option {
	h := rd.Seats[seat].Hand
	kl := hand.KuikaeLevel(rd.Rules.KuikaeLevel)
	candidates := h.LegalDiscards(kl)
	riichiEligible := !h.Riichi && h.Menzen() && rd.Seats[seat].Points >= 1000 && rd.Wall.LiveCount() >= 4

	var opts []agent.Option
	for _, t := range candidates {
		opts = append(opts, agent.Option{Kind: agent.ReplyDapai, Tile: t})
		if riichiEligible && wouldBeTenpai(h, t) {
			opts = append(opts, agent.Option{Kind: agent.ReplyDapai, Tile: t, Riichi: true})
		}
	}
	return opts
}

func wouldBeTenpai(h *hand.Hand, t tile.Tile) bool {
	clone := h.Clone()
	if err := clone.Discard(t); err != nil {
		return false
	}
	return shanten.Best(clone) == 0
}

// doDapai applies a discard: hand mutation, riichi bookkeeping, the
// delayed kan-dora reveal (if one is pending from this seat's own
// kan), first-go-around and uniform-wind-discard tracking, then offers
// the discard to the other three seats for reaction.
func (rd *Round) doDapai(seat int, t tile.Tile, declareRiichi bool) turnResult {
	rd.State = Dapai
	h := rd.Seats[seat].Hand
	tsumogiri := h.Draw != nil && !h.Draw.IsMeld() && h.Draw.Tile.Equal(t)
	rd.must(h.Discard(t))

	if declareRiichi {
		h.Riichi = true
		if !rd.callHappened && rd.firstGoAround && rd.Seats[seat].Discards.Len() == 0 {
			rd.doubleRiichi[seat] = true
		}
		rd.Seats[seat].Points -= 1000
		rd.RiichiSticks++
		if rd.Rules.IppatsuEnabled {
			rd.ippatsuArmed[seat] = true
		}
		rd.riichiCount++
	}

	rd.Seats[seat].Discards.Discard(t, tsumogiri, declareRiichi)

	if rd.pendingKanDoraReveal {
		rd.revealKanDora()
		rd.pendingKanDoraReveal = false
	}

	if rd.firstDiscard == nil {
		clone := t
		rd.firstDiscard = &clone
		if t.IsHonor() && t.Num >= tile.East && t.Num <= tile.North {
			rd.uniformWindDiscards = 1
		}
	} else if rd.uniformWindDiscards > 0 && t.Equal(*rd.firstDiscard) {
		rd.uniformWindDiscards++
	} else {
		rd.uniformWindDiscards = 0
	}

	rd.recordEntry(record.Entry{Kind: record.EntryDapai, Seat: seat, Tile: t, Riichi: declareRiichi})

	return rd.offerReactions(seat, t)
}

// offerReactions asks the other three seats to react to t, in turn
// order starting from the discarder's shimocha, then resolves claim
// priority: ron beats kan/pon (tied by seat proximity to the
// discarder) beats chi (kamicha only) beats letting play advance.
func (rd *Round) offerReactions(discarder int, t tile.Tile) turnResult {
	rd.State = Dapai
	type claim struct {
		seat  int
		reply agent.Reply
	}
	var claims []claim
	houtei := rd.Wall.LiveCount() == 0
	liveWin := [4]bool{}

	for i := 1; i <= 3; i++ {
		s := (discarder + i) % 4
		seatHand := rd.Seats[s].Hand
		var opts []agent.Option

		if !rd.Seats[s].Discards.Contains(t) && !rd.Seats[s].Furiten {
			ctx := rd.context(s)
			ctx.Ippatsu = rd.ippatsuArmed[s]
			ctx.Houtei = houtei
			if hasWin(ctx, seatHand, t, false) {
				liveWin[s] = true
				opts = append(opts, agent.Option{Kind: agent.ReplyHule, Tile: t})
			}
		}
		for _, m := range seatHand.LegalKan(&t) {
			mm := m
			opts = append(opts, agent.Option{Kind: agent.ReplyGang, Meld: &mm})
		}
		for _, m := range seatHand.LegalPon(t) {
			mm := m
			opts = append(opts, agent.Option{Kind: agent.ReplyFulou, Meld: &mm})
		}
		if s == (discarder+1)%4 {
			for _, m := range seatHand.LegalChi(t) {
				mm := m
				opts = append(opts, agent.Option{Kind: agent.ReplyFulou, Meld: &mm})
			}
		}
		if len(opts) == 0 {
			continue
		}

		ev := agent.Event{
			Kind: agent.EventDapai, Seat: s, Actor: discarder, FromSeat: discarder, Tile: t,
			Hand: seatHand, OtherHands: rd.maskedViews(),
			RoundWind: rd.RoundWind, DealerSeat: rd.DealerSeat, Honba: rd.Honba,
			RiichiSticks: rd.RiichiSticks, DoraIndicators: rd.Wall.DoraIndicators(),
			Points: rd.pointsSnapshot(), Options: opts,
		}
		reply := rd.Seats[s].Agent.Act(ev)
		if !containsOption(opts, reply) {
			reply = agent.Reply{}
		}
		if liveWin[s] && reply.Kind != agent.ReplyHule {
			rd.Seats[s].Furiten = true
		}
		claims = append(claims, claim{s, reply})
	}

	var ronSeats []int
	kanSeat, ponSeat, chiSeat := -1, -1, -1
	var kanMeld, ponMeld, chiMeld tile.Meld
	for _, c := range claims {
		switch c.reply.Kind {
		case agent.ReplyHule:
			ronSeats = append(ronSeats, c.seat)
		case agent.ReplyGang:
			if kanSeat == -1 {
				kanSeat, kanMeld = c.seat, *c.reply.Meld
			}
		case agent.ReplyFulou:
			if c.reply.Meld.Shape == tile.PonShape && ponSeat == -1 {
				ponSeat, ponMeld = c.seat, *c.reply.Meld
			}
			if c.reply.Meld.Shape == tile.ChiShape && chiSeat == -1 {
				chiSeat, chiMeld = c.seat, *c.reply.Meld
			}
		}
	}

	if len(ronSeats) > 0 {
		if len(ronSeats) == 3 && rd.Rules.MaxSimultaneousWin < 3 {
			return rd.abortiveDraw("sanchahou")
		}
		if len(ronSeats) > rd.Rules.MaxSimultaneousWin {
			ronSeats = atamaHane(discarder, ronSeats, rd.Rules.MaxSimultaneousWin)
		} else {
			sort.Slice(ronSeats, func(i, j int) bool { return distance(discarder, ronSeats[i]) < distance(discarder, ronSeats[j]) })
		}
		return rd.finishWin(ronSeats, discarder, false, false, false, t)
	}

	if kanSeat != -1 {
		return rd.applyCall(discarder, kanSeat, kanMeld)
	}
	if ponSeat != -1 {
		return rd.applyCall(discarder, ponSeat, ponMeld)
	}
	if chiSeat != -1 {
		return rd.applyCall(discarder, chiSeat, chiMeld)
	}

	rd.turnsAfterDiscard(t)
	if res, aborted := rd.checkPostDiscardAbort(); aborted {
		return res
	}
	return turnResult{next: (discarder + 1) % 4}
}

func (rd *Round) turnsAfterDiscard(t tile.Tile) {
	// first-go-around ends on the first non-wind discard by anyone; a
	// call clears it immediately elsewhere.
	if !(t.IsHonor() && t.Num >= tile.East && t.Num <= tile.North) {
		rd.firstGoAround = false
	}
}

func atamaHane(discarder int, seats []int, max int) []int {
	sort.Slice(seats, func(i, j int) bool { return distance(discarder, seats[i]) < distance(discarder, seats[j]) })
	if max < 1 {
		max = 1
	}
	if len(seats) > max {
		seats = seats[:max]
	}
	return seats
}

func distance(discarder, seat int) int {
	return (seat - discarder + 4) % 4
}

func callDirection(discarder, caller int) tile.Direction {
	switch (caller - discarder + 4) % 4 {
	case 1:
		return tile.DirKamicha
	case 2:
		return tile.DirToimen
	default:
		return tile.DirShimocha
	}
}

// applyCall lands a pon, chi, or daiminkan: seals it into the caller's
// hand, marks the discard as taken, clears ippatsu and the
// first-go-around flag, then either sends the caller to draw a rinshan
// tile (daiminkan) or straight to their forced discard.
func (rd *Round) applyCall(discarder, caller int, m tile.Meld) turnResult {
	rd.State = Fulou
	dir := callDirection(discarder, caller)
	m.Dir = dir
	rd.must(rd.Seats[caller].Hand.Call(m))
	rd.must(rd.Seats[discarder].Discards.MarkCalled(dir))

	rd.callHappened = true
	rd.firstGoAround = false
	rd.ippatsuArmed = [4]bool{}
	rd.uniformWindDiscards = 0

	rd.recordEntry(record.Entry{Kind: record.EntryFulou, Seat: caller, FromSeat: discarder, Meld: &m})

	if m.Shape == tile.DaiminkanShape {
		rd.kanSeats = append(rd.kanSeats, caller)
		rd.nextRinshanImmediateReveal = !rd.Rules.KanDoraDelayed
		return turnResult{next: caller, rinshan: true}
	}
	return rd.postCallDiscard(caller)
}

func (rd *Round) postCallDiscard(seat int) turnResult {
	rd.State = Dapai
	opts := rd.discardOptions(seat)
	ev := agent.Event{
		Kind: agent.EventFulou, Seat: seat, Actor: seat,
		Hand: rd.Seats[seat].Hand, OtherHands: rd.maskedViews(),
		RoundWind: rd.RoundWind, DealerSeat: rd.DealerSeat, Honba: rd.Honba, RiichiSticks: rd.RiichiSticks,
		DoraIndicators: rd.Wall.DoraIndicators(), Points: rd.pointsSnapshot(), Options: opts,
	}
	reply := rd.Seats[seat].Agent.Act(ev)
	if !containsOption(opts, reply) || reply.Kind != agent.ReplyDapai {
		reply = agent.Reply{Kind: agent.ReplyDapai, Tile: fallbackDiscard(rd.Seats[seat].Hand)}
	}
	return rd.doDapai(seat, reply.Tile, false)
}

func fallbackDiscard(h *hand.Hand) tile.Tile {
	opts := h.LegalDiscards(hand.KuikaeOff)
	if len(opts) == 0 {
		panic("game: hand has no legal discard after a call — invariant violation")
	}
	return opts[0]
}

// declareSelfKan lands an ankan or kakan declared during the current
// seat's own turn: seals it into the hand, offers chankan to the other
// three on a kakan, then either the round ends there or the caller
// draws their rinshan tile.
func (rd *Round) declareSelfKan(seat int, m tile.Meld) turnResult {
	rd.State = Gang
	rd.must(rd.Seats[seat].Hand.Kan(m))
	rd.kanSeats = append(rd.kanSeats, seat)
	rd.callHappened = true
	rd.ippatsuArmed = [4]bool{}
	rd.uniformWindDiscards = 0

	rd.recordEntry(record.Entry{Kind: record.EntryGang, Seat: seat, Meld: &m})

	if m.Shape == tile.KakanShape {
		if res, robbed := rd.offerChankan(seat, m); robbed {
			return res
		}
	}

	rd.nextRinshanImmediateReveal = m.Shape == tile.AnkanShape || !rd.Rules.KanDoraDelayed
	return turnResult{next: seat, rinshan: true}
}

func (rd *Round) offerChankan(seat int, m tile.Meld) (turnResult, bool) {
	rd.State = Gang
	robTile := tile.Tile{Suit: m.Suit, Num: m.AddedNum}
	var winners []int

	for i := 1; i <= 3; i++ {
		s := (seat + i) % 4
		if rd.Seats[s].Discards.Contains(robTile) || rd.Seats[s].Furiten {
			continue
		}
		ctx := rd.context(s)
		ctx.Ippatsu = rd.ippatsuArmed[s]
		ctx.Chankan = true
		if !hasWin(ctx, rd.Seats[s].Hand, robTile, false) {
			continue
		}
		opts := []agent.Option{{Kind: agent.ReplyHule, Tile: robTile}}
		ev := agent.Event{
			Kind: agent.EventGang, Seat: s, Actor: seat, FromSeat: seat, Tile: robTile,
			Hand: rd.Seats[s].Hand, OtherHands: rd.maskedViews(),
			RoundWind: rd.RoundWind, DealerSeat: rd.DealerSeat, Honba: rd.Honba, RiichiSticks: rd.RiichiSticks,
			DoraIndicators: rd.Wall.DoraIndicators(), Points: rd.pointsSnapshot(), Options: opts,
		}
		reply := rd.Seats[s].Agent.Act(ev)
		if reply.Kind == agent.ReplyHule {
			winners = append(winners, s)
		} else {
			rd.Seats[s].Furiten = true
		}
	}
	if len(winners) == 0 {
		return turnResult{}, false
	}
	sort.Slice(winners, func(i, j int) bool { return distance(seat, winners[i]) < distance(seat, winners[j]) })
	if len(winners) > rd.Rules.MaxSimultaneousWin {
		winners = winners[:rd.Rules.MaxSimultaneousWin]
	}
	return rd.finishWin(winners, seat, false, false, true, robTile), true
}

// finishWin scores and pays one or more simultaneous winners, closing
// the wall (exposing ura-dora, if the rules allow it) before
// re-evaluating each winner's best decomposition so dora counts
// reflect the wall's final state.
func (rd *Round) finishWin(winners []int, loser int, tsumo, rinshan, chankan bool, winTile tile.Tile) turnResult {
	rd.State = Hule
	rd.must(rd.Wall.Close())
	haitei := rd.Wall.LiveCount() == 0

	before := rd.pointsSnapshot()
	var results []agent.HuleResult
	for i, seat := range winners {
		h := rd.Seats[seat].Hand
		ctx := rd.context(seat)
		ctx.Ippatsu = rd.ippatsuArmed[seat]
		ctx.Rinshan = rinshan
		ctx.Chankan = chankan
		if tsumo {
			ctx.Haitei = haitei
			firstDraw := rd.firstGoAround && !rd.callHappened && rd.Seats[seat].Discards.Len() == 0
			ctx.Tenho = seat == rd.DealerSeat && firstDraw
			ctx.Chiho = seat != rd.DealerSeat && firstDraw
		} else {
			ctx.Houtei = haitei
		}

		_, hy, fu, ok := winCheck(ctx, h, winTile, tsumo)
		if !ok {
			rd.must(fmt.Errorf("seat %d's offered win no longer scores any yaku", seat))
		}

		honba, sticks := 0, 0
		if i == 0 {
			honba, sticks = rd.Honba, rd.RiichiSticks
		}
		pts := yaku.Score(hy, fu, rd.DealerSeat, seat, loser, tsumo, honba, sticks, rd.Rules)
		rd.applyPayments(pts.Payments)
		results = append(results, agent.HuleResult{
			Seat: seat, LoserSeat: loser, Tsumo: tsumo, WinTile: winTile,
			Han: hy.Han, Fu: fu, Yaku: yakuNames(hy), Points: pts.Payments[seat],
			PaymentDelta: pts.Payments,
		})
	}

	dealerWon := containsInt(winners, rd.DealerSeat)
	nextDealer, repeated := rd.nextDealerAfterWin(dealerWon)
	after := rd.pointsSnapshot()
	var delta [4]int
	for i := 0; i < 4; i++ {
		delta[i] = after[i] - before[i]
	}

	res := &record.RoundResult{
		EndKind: "hule", Wins: results, Delta: delta, Points: after,
		NextDealer: nextDealer, DealerRepeated: repeated,
	}
	rd.recordEntry(record.Entry{Kind: record.EntryHule, Seat: winners[0], Tile: winTile, FromSeat: loser})
	rd.Log.Info("hule: winners=%v loser=%d tsumo=%v", winners, loser, tsumo)
	rd.broadcastTerminal(agent.EventHule, results, "")

	rd.RiichiSticks = 0
	rd.Honba = rd.nextHonba(repeated)
	return turnResult{terminal: true, result: res}
}

func (rd *Round) abortiveDraw(reason string) turnResult {
	rd.State = Pingju
	res := &record.RoundResult{
		EndKind: "pingju", Reason: reason, Points: rd.pointsSnapshot(),
		NextDealer: rd.DealerSeat, DealerRepeated: true,
	}
	rd.recordEntry(record.Entry{Kind: record.EntryPingju})
	rd.Log.Info("pingju: reason=%s", reason)
	rd.broadcastTerminal(agent.EventPingju, nil, reason)
	rd.Honba++
	return turnResult{terminal: true, result: res}
}

func (rd *Round) checkPostDiscardAbort() (turnResult, bool) {
	if !rd.Rules.InterruptedDrawsEnabled {
		return turnResult{}, false
	}
	if rd.uniformWindDiscards >= 4 {
		return rd.abortiveDraw("suufon-renda"), true
	}
	if rd.riichiCount >= 4 {
		return rd.abortiveDraw("suuchariichi"), true
	}
	if len(rd.kanSeats) >= 4 && !allSameSeat(rd.kanSeats) {
		return rd.abortiveDraw("suukaikan"), true
	}
	return turnResult{}, false
}

func allSameSeat(seats []int) bool {
	for _, s := range seats[1:] {
		if s != seats[0] {
			return false
		}
	}
	return true
}

// ryuukyoku settles an exhaustive draw: nagashi-mangan first (if any
// seat's river qualifies and the rules grant it), else the
// tenpai/noten point split.
func (rd *Round) ryuukyoku() turnResult {
	rd.State = Pingju
	if rd.Rules.NagashiManganEnabled {
		if res, ok := rd.nagashiMangan(); ok {
			return res
		}
	}

	before := rd.pointsSnapshot()
	var tenpai [4]bool
	count := 0
	for i := 0; i < 4; i++ {
		if shanten.Best(rd.Seats[i].Hand) <= 0 {
			tenpai[i] = true
			count++
		}
	}

	if rd.Rules.NotenPenaltyEnabled && count > 0 && count < 4 {
		pay := 3000 / (4 - count)
		receive := 3000 / count
		for i := 0; i < 4; i++ {
			if tenpai[i] {
				rd.Seats[i].Points += receive
			} else {
				rd.Seats[i].Points -= pay
			}
		}
	}
	after := rd.pointsSnapshot()
	var delta [4]int
	for i := 0; i < 4; i++ {
		delta[i] = after[i] - before[i]
	}

	repeated := rd.dealerRepeatsOnDraw(tenpai[rd.DealerSeat])
	next := rd.DealerSeat
	if !repeated {
		next = (rd.DealerSeat + 1) % 4
	}

	res := &record.RoundResult{
		EndKind: "pingju", Reason: "ryuukyoku", Delta: delta, Points: after,
		NextDealer: next, DealerRepeated: repeated,
	}
	rd.recordEntry(record.Entry{Kind: record.EntryPingju})
	rd.Log.Info("ryuukyoku: tenpai=%v", tenpai)
	rd.broadcastTerminal(agent.EventPingju, nil, "ryuukyoku")
	rd.Honba++
	return turnResult{terminal: true, result: res}
}

// nagashiMangan pays out a mangan tsumo to every seat whose river is
// entirely un-called terminals and honors, reusing yaku.Score's
// existing mangan-tier tsumo split via a synthetic 5-han hand rather
// than a bespoke payment table.
func (rd *Round) nagashiMangan() (turnResult, bool) {
	var seats []int
	for i := 0; i < 4; i++ {
		if isNagashi(rd.Seats[i].Discards) {
			seats = append(seats, i)
		}
	}
	if len(seats) == 0 {
		return turnResult{}, false
	}

	before := rd.pointsSnapshot()
	var results []agent.HuleResult
	for i, seat := range seats {
		honba, sticks := 0, 0
		if i == 0 {
			honba, sticks = rd.Honba, rd.RiichiSticks
		}
		hy := yaku.Hand{Han: 5}
		pts := yaku.Score(hy, 30, rd.DealerSeat, seat, -1, true, honba, sticks, rd.Rules)
		rd.applyPayments(pts.Payments)
		results = append(results, agent.HuleResult{
			Seat: seat, LoserSeat: -1, Tsumo: true, Han: 5, Fu: 30,
			Points: pts.Payments[seat], PaymentDelta: pts.Payments,
		})
	}

	dealerWon := containsInt(seats, rd.DealerSeat)
	nextDealer, repeated := rd.nextDealerAfterWin(dealerWon)
	after := rd.pointsSnapshot()
	var delta [4]int
	for i := 0; i < 4; i++ {
		delta[i] = after[i] - before[i]
	}

	res := &record.RoundResult{
		EndKind: "pingju", Reason: "nagashi-mangan", Wins: results, Delta: delta, Points: after,
		NextDealer: nextDealer, DealerRepeated: repeated,
	}
	rd.recordEntry(record.Entry{Kind: record.EntryPingju})
	rd.Log.Info("nagashi-mangan: seats=%v", seats)
	rd.broadcastTerminal(agent.EventPingju, results, "nagashi-mangan")

	rd.RiichiSticks = 0
	rd.Honba = rd.nextHonba(repeated)
	return turnResult{terminal: true, result: res}, true
}

func isNagashi(p *discard.Pile) bool {
	entries := p.Entries()
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if e.Called || !e.Tile.IsYaochuu() {
			return false
		}
	}
	return true
}

// context builds the scoring context for seat as of right now: the
// wall's currently visible dora (and ura-dora, nil until Close), this
// hand's riichi state, and the round's positional facts. Callers
// overlay the situational flags (ippatsu/rinshan/haitei/houtei/
// tenho/chiho/chankan) that depend on which suspension point they're
// at.
func (rd *Round) context(seat int) yaku.Context {
	riichiState := yaku.NoRiichi
	if rd.Seats[seat].Hand.Riichi {
		riichiState = yaku.Riichi
		if rd.doubleRiichi[seat] {
			riichiState = yaku.DoubleRiichi
		}
	}
	return yaku.Context{
		Hand:           rd.Seats[seat].Hand,
		Seat:           seat,
		RoundWind:      rd.RoundWind,
		SeatWind:       seatWind(rd.DealerSeat, seat),
		Riichi:         riichiState,
		DoraIndicators: rd.Wall.DoraIndicators(),
		UraIndicators:  rd.Wall.UraDoraIndicators(),
		Honba:          rd.Honba,
		RiichiSticks:   rd.RiichiSticks,
		Rules:          rd.Rules,
	}
}

func seatWind(dealerSeat, seat int) int {
	return tile.East + (seat-dealerSeat+4)%4
}

// winCheck enumerates every decomposition of h winning on winTile and
// returns whichever scores best: highest yakuman multiplier, then han,
// then fu.
func winCheck(ctx yaku.Context, h *hand.Hand, winTile tile.Tile, tsumo bool) (decomp.Decomposition, yaku.Hand, int, bool) {
	decs := decomp.Enumerate(h, winTile, tsumo)
	menzen := h.Menzen()

	var bestDec decomp.Decomposition
	var best yaku.Hand
	bestFu := 0
	found := false
	for _, d := range decs {
		hy := yaku.Evaluate(ctx, d)
		if len(hy.Yaku) == 0 && hy.YakumanMultiplier == 0 {
			continue
		}
		fu := yaku.Fu(d, ctx, menzen)
		if !found || betterWin(hy, fu, best, bestFu) {
			bestDec, best, bestFu, found = d, hy, fu, true
		}
	}
	return bestDec, best, bestFu, found
}

func betterWin(h yaku.Hand, fu int, best yaku.Hand, bestFu int) bool {
	if h.YakumanMultiplier != best.YakumanMultiplier {
		return h.YakumanMultiplier > best.YakumanMultiplier
	}
	if h.Han != best.Han {
		return h.Han > best.Han
	}
	return fu > bestFu
}

func hasWin(ctx yaku.Context, h *hand.Hand, t tile.Tile, tsumo bool) bool {
	_, _, _, ok := winCheck(ctx, h, t, tsumo)
	return ok
}

func countDistinctYaochuu(h *hand.Hand) int {
	n := 0
	for ord, c := range h.Concealed {
		if c > 0 && tile.FromOrdinal(ord).IsYaochuu() {
			n++
		}
	}
	return n
}

func containsOption(opts []agent.Option, r agent.Reply) bool {
	if r.Kind == agent.ReplyEmpty {
		return true
	}
	for _, o := range opts {
		if o.Kind != r.Kind {
			continue
		}
		switch o.Kind {
		case agent.ReplyDapai:
			if o.Tile.Equal(r.Tile) && o.Riichi == r.Riichi {
				return true
			}
		case agent.ReplyHule, agent.ReplyDaopai:
			if o.Tile.Equal(r.Tile) || o.Kind == agent.ReplyDaopai {
				return true
			}
		default: // ReplyGang, ReplyFulou
			if o.Meld != nil && r.Meld != nil && o.Meld.String() == r.Meld.String() {
				return true
			}
		}
	}
	return false
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func yakuNames(h yaku.Hand) []string {
	names := make([]string, len(h.Yaku))
	for i, id := range h.Yaku {
		names[i] = id.String()
	}
	return names
}

func (rd *Round) nextDealerAfterWin(dealerWon bool) (int, bool) {
	repeat := false
	switch int(rd.Rules.ConsecutiveMode) {
	case 0:
		repeat = false
	case 3:
		repeat = true
	default: // 1, 2: renchan only on an actual dealer win
		repeat = dealerWon
	}
	if repeat {
		return rd.DealerSeat, true
	}
	return (rd.DealerSeat + 1) % 4, false
}

func (rd *Round) dealerRepeatsOnDraw(dealerTenpai bool) bool {
	switch int(rd.Rules.ConsecutiveMode) {
	case 0, 1:
		return false
	case 3:
		return true
	default:
		return dealerTenpai
	}
}

func (rd *Round) nextHonba(repeated bool) int {
	if repeated {
		return rd.Honba + 1
	}
	return 0
}

func (rd *Round) applyPayments(p [4]int) {
	for i := 0; i < 4; i++ {
		rd.Seats[i].Points += p[i]
	}
}

func (rd *Round) pointsSnapshot() [4]int {
	var p [4]int
	for i := 0; i < 4; i++ {
		p[i] = rd.Seats[i].Points
	}
	return p
}

func (rd *Round) maskedViews() [4]*hand.Hand {
	var out [4]*hand.Hand
	for i := 0; i < 4; i++ {
		out[i] = rd.Seats[i].Hand.Mask()
	}
	return out
}

func (rd *Round) recordEntry(e record.Entry) {
	if rd.Rec == nil {
		return
	}
	rd.Rec.Append(e, rd.at)
}

// revealKanDora advances the wall's kan-dora reveal and records a
// kaigang entry, but only when a new indicator actually became
// visible (kan-dora can be disabled while kan-ura is not).
func (rd *Round) revealKanDora() {
	before := len(rd.Wall.DoraIndicators())
	rd.must(rd.Wall.RevealKanDora())
	inds := rd.Wall.DoraIndicators()
	if len(inds) > before {
		rd.recordEntry(record.Entry{Kind: record.EntryKaigang, Indicator: inds[len(inds)-1]})
	}
}

func (rd *Round) broadcastQipai() {
	for i := 0; i < 4; i++ {
		rd.Seats[i].Agent.Act(agent.Event{
			Kind: agent.EventQipai, Seat: i, Actor: rd.DealerSeat,
			Hand: rd.Seats[i].Hand, OtherHands: rd.maskedViews(),
			RoundWind: rd.RoundWind, DealerSeat: rd.DealerSeat, Honba: rd.Honba, RiichiSticks: rd.RiichiSticks,
			DoraIndicators: rd.Wall.DoraIndicators(), Points: rd.pointsSnapshot(),
		})
	}
}

func (rd *Round) broadcastTerminal(kind agent.EventKind, wins []agent.HuleResult, reason string) {
	for i := 0; i < 4; i++ {
		rd.Seats[i].Agent.Act(agent.Event{
			Kind: kind, Seat: i,
			Hand: rd.Seats[i].Hand, OtherHands: rd.maskedViews(),
			RoundWind: rd.RoundWind, DealerSeat: rd.DealerSeat, Honba: rd.Honba, RiichiSticks: rd.RiichiSticks,
			Points: rd.pointsSnapshot(), Wins: wins, Reason: reason,
		})
	}
}

// must panics on an error surfaced from a mutator this round already
// validated as legal before calling: reaching here means an internal
// invariant broke, not a bad reply, so it logs and stops rather than
// propagating a normal error.
func (rd *Round) must(err error) {
	if err != nil {
		rd.Log.Error("invariant violation: %v", err)
		panic(err)
	}
}
