package record_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mjcore/agent"
	"mjcore/hand"
	"mjcore/record"
	"mjcore/tile"
)

func mustHand(t *testing.T, s string) *hand.Hand {
	t.Helper()
	h, err := hand.FromString(s)
	require.NoError(t, err)
	return h
}

func TestStartRoundAppendsToGame(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gr := record.New("riichi-4p", at)
	require.NotEmpty(t, gr.ID.String())

	hands := [4]*hand.Hand{
		mustHand(t, "m123456789p12s34"),
		mustHand(t, "m123456789p12s34"),
		mustHand(t, "m123456789p12s34"),
		mustHand(t, "m123456789p12s34"),
	}
	rr := gr.StartRound(1, tile.East, 0, 0, 0, tile.MustParse("m1"), hands, [4]int{25000, 25000, 25000, 25000}, at)
	require.Len(t, gr.Rounds, 1)
	assert.Equal(t, rr, gr.Rounds[0])

	rr.Append(record.Entry{Kind: record.EntryDapai, Seat: 0, Tile: tile.MustParse("m5")}, at)
	require.Len(t, rr.Entries, 1)
	assert.Equal(t, record.EntryDapai, rr.Entries[0].Kind)

	rr.Complete(&record.RoundResult{
		EndKind:    "hule",
		Wins:       []agent.HuleResult{{Seat: 0, LoserSeat: -1, Tsumo: true, Han: 2, Fu: 30, Points: 2000}},
		Points:     [4]int{27000, 24000, 24000, 24000},
		NextDealer: 0,
	}, at.Add(time.Minute))
	require.NotNil(t, rr.Result)
	assert.Equal(t, "hule", rr.Result.EndKind)

	gr.Complete([]record.PlayerRanking{{Seat: 0, Points: 27000, Rank: 1}}, [4]int{27000, 24000, 24000, 24000}, at.Add(time.Minute))
	assert.Equal(t, 1, len(gr.Rankings))
}
