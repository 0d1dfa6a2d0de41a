package domain

// UnrankedTask is a submission that hasn't been classified yet. It is
// created when a request envelope is accepted and destroyed once the
// ranker produces the RankedTask that replaces it.
type UnrankedTask struct {
	ID        string
	Payload   string
	Callback  string
	ModelID   int // 0 means "any model"
	MaxTokens int
}

// RankedTask is an UnrankedTask plus the priority assigned by the ranker
// and the arrival sequence assigned when it enters the ranked queue.
type RankedTask struct {
	ID        string
	Payload   string
	Callback  string
	ModelID   int
	MaxTokens int
	Priority  Priority
	Arrival   uint64
}

// DefaultMaxTokens is used when a submission omits max_tokens.
const DefaultMaxTokens = 256

// RankingMaxTokens bounds the classification call the ranker makes against
// the model: long enough to hold "CRITICAL"/"NORMAL" plus slack for the
// (currently unused) redaction line.
const RankingMaxTokens = 24

// ChatToolID is the fixed tool identifier carried on every Result envelope.
const ChatToolID = "__chat__"
