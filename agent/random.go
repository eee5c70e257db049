package agent

import "mjcore/wall"

// Random is a scripted agent that always wins when offered the chance,
// otherwise declares riichi half the time when offered the chance,
// otherwise discards (uniformly among the offered discards) whenever a
// discard is offered, and otherwise takes one of its optional calls
// one time in five — used by cmd/mjreplay for deterministic batch
// replay and by tests that need a stand-in for a real player.
type Random struct {
	RNG wall.RNG
}

// NewRandom returns a Random agent drawing from rng.
func NewRandom(rng wall.RNG) *Random {
	return &Random{RNG: rng}
}

// Act implements Agent.
func (a *Random) Act(ev Event) Reply {
	if len(ev.Options) == 0 {
		return Reply{}
	}

	if opt, ok := firstOfKind(ev.Options, ReplyHule); ok {
		return replyFrom(opt)
	}

	riichiOpts := filterRiichiDapai(ev.Options)
	if len(riichiOpts) > 0 && a.RNG.Float64() < 0.5 {
		return replyFrom(riichiOpts[a.pick(len(riichiOpts))])
	}

	nonEmpty := filterNonEmpty(ev.Options)
	if len(nonEmpty) == 0 {
		return Reply{}
	}
	// Favor passing on optional calls (fulou/gang/daopai) most of the
	// time; a discard reply, when offered, is always taken since the
	// round requires one to advance.
	if dapai := onlyDapai(nonEmpty); len(dapai) > 0 {
		return replyFrom(dapai[a.pick(len(dapai))])
	}
	if a.RNG.Float64() < 0.2 {
		return replyFrom(nonEmpty[a.pick(len(nonEmpty))])
	}
	return Reply{}
}

func (a *Random) pick(n int) int {
	if n <= 1 {
		return 0
	}
	return int(a.RNG.Float64() * float64(n))
}

func firstOfKind(opts []Option, k ReplyKind) (Option, bool) {
	for _, o := range opts {
		if o.Kind == k {
			return o, true
		}
	}
	return Option{}, false
}

func filterRiichiDapai(opts []Option) []Option {
	var out []Option
	for _, o := range opts {
		if o.Kind == ReplyDapai && o.Riichi {
			out = append(out, o)
		}
	}
	return out
}

func filterNonEmpty(opts []Option) []Option {
	var out []Option
	for _, o := range opts {
		if o.Kind != ReplyEmpty {
			out = append(out, o)
		}
	}
	return out
}

func onlyDapai(opts []Option) []Option {
	var out []Option
	for _, o := range opts {
		if o.Kind == ReplyDapai {
			out = append(out, o)
		}
	}
	return out
}

func replyFrom(o Option) Reply {
	return Reply{Kind: o.Kind, Tile: o.Tile, Meld: o.Meld, Riichi: o.Riichi}
}
