package models

// VoteRecordOp is the mutation ResolveVote prescribes for the vote record.
type VoteRecordOp int

const (
	RecordNoop VoteRecordOp = iota
	RecordInsert
	RecordUpdate
	RecordDelete
)

// Resolution is the ledger mutation needed to move a voter from their
// current stance to the requested one.
type Resolution struct {
	UpDelta   int
	DownDelta int
	RecordOp  VoteRecordOp
	NewState  VoteDirection
}

// ResolveVote computes the counter deltas and vote-record operation for
// a vote action. Re-selecting the current direction retracts the vote;
// selecting the opposite direction flips it with a compensating double
// delta; voting fresh inserts.
func ResolveVote(current, requested VoteDirection) Resolution {
	switch {
	case current == VoteNone && requested == VoteUp:
		return Resolution{UpDelta: 1, RecordOp: RecordInsert, NewState: VoteUp}
	case current == VoteNone && requested == VoteDown:
		return Resolution{DownDelta: 1, RecordOp: RecordInsert, NewState: VoteDown}
	case current == VoteUp && requested == VoteUp:
		return Resolution{UpDelta: -1, RecordOp: RecordDelete, NewState: VoteNone}
	case current == VoteDown && requested == VoteDown:
		return Resolution{DownDelta: -1, RecordOp: RecordDelete, NewState: VoteNone}
	case current == VoteUp && requested == VoteDown:
		return Resolution{UpDelta: -1, DownDelta: 1, RecordOp: RecordUpdate, NewState: VoteDown}
	case current == VoteDown && requested == VoteUp:
		return Resolution{UpDelta: 1, DownDelta: -1, RecordOp: RecordUpdate, NewState: VoteUp}
	}
	return Resolution{NewState: current}
}
