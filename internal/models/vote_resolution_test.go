package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVote(t *testing.T) {
	cases := []struct {
		name      string
		current   VoteDirection
		requested VoteDirection
		want      Resolution
	}{
		{
			name:      "fresh upvote inserts",
			current:   VoteNone,
			requested: VoteUp,
			want:      Resolution{UpDelta: 1, RecordOp: RecordInsert, NewState: VoteUp},
		},
		{
			name:      "fresh downvote inserts",
			current:   VoteNone,
			requested: VoteDown,
			want:      Resolution{DownDelta: 1, RecordOp: RecordInsert, NewState: VoteDown},
		},
		{
			name:      "repeated upvote retracts",
			current:   VoteUp,
			requested: VoteUp,
			want:      Resolution{UpDelta: -1, RecordOp: RecordDelete, NewState: VoteNone},
		},
		{
			name:      "repeated downvote retracts",
			current:   VoteDown,
			requested: VoteDown,
			want:      Resolution{DownDelta: -1, RecordOp: RecordDelete, NewState: VoteNone},
		},
		{
			name:      "up to down flips both counters",
			current:   VoteUp,
			requested: VoteDown,
			want:      Resolution{UpDelta: -1, DownDelta: 1, RecordOp: RecordUpdate, NewState: VoteDown},
		},
		{
			name:      "down to up flips both counters",
			current:   VoteDown,
			requested: VoteUp,
			want:      Resolution{UpDelta: 1, DownDelta: -1, RecordOp: RecordUpdate, NewState: VoteUp},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveVote(tc.current, tc.requested))
		})
	}
}

func TestResolveVoteNoneRequestedIsNoop(t *testing.T) {
	res := ResolveVote(VoteUp, VoteNone)
	assert.Equal(t, RecordNoop, res.RecordOp)
	assert.Zero(t, res.UpDelta)
	assert.Zero(t, res.DownDelta)
	assert.Equal(t, VoteUp, res.NewState)
}

func TestResolveVoteRoundTripIsNeutral(t *testing.T) {
	// Vote then retract must sum to zero for both counters.
	first := ResolveVote(VoteNone, VoteUp)
	second := ResolveVote(first.NewState, VoteUp)
	assert.Zero(t, first.UpDelta+second.UpDelta)
	assert.Zero(t, first.DownDelta+second.DownDelta)
	assert.Equal(t, VoteNone, second.NewState)
}
