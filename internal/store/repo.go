package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures one LLM API call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// AttemptEventData captures one finished quiz attempt.
type AttemptEventData struct {
	AttemptID    string
	QuizID       string
	Title        string
	Score        int
	Total        int
	Answered     int
	DurationSecs int
}

// AttemptRecord is a stored attempt event.
type AttemptRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// Percent returns the score as a percentage of the total.
func (r AttemptRecord) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}

// AttemptStats aggregates attempts, optionally for one quiz.
type AttemptStats struct {
	Attempts    int
	Perfect     int
	TotalScore  int
	TotalAsked  int
	BestPercent float64
	LastAttempt time.Time
}

// Accuracy returns correct answers over questions asked across attempts.
func (s AttemptStats) Accuracy() float64 {
	if s.TotalAsked == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.TotalAsked)
}

// ExplanationEventData captures one explanation request outcome.
type ExplanationEventData struct {
	QuizID       string
	QuestionID   string
	Source       string
	Success      bool
	LatencyMs    int64
	ErrorMessage string
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendAttempt records a finished quiz attempt.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// AppendExplanation records the outcome of an explanation request.
	AppendExplanation(ctx context.Context, data ExplanationEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event by ID, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// RecentAttempts returns attempts newest first. An empty quizID
	// matches every quiz.
	RecentAttempts(ctx context.Context, quizID string, opts QueryOpts) ([]AttemptRecord, error)

	// AttemptStats aggregates attempts. An empty quizID covers every quiz.
	AttemptStats(ctx context.Context, quizID string) (AttemptStats, error)
}

// eventRepo implements EventRepo with ent's SQL builder over the store's
// connection and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	b   *entsql.DialectBuilder
}

// insert assigns the next sequence and timestamp, then inserts a row.
func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	cols := append([]string{"sequence", "timestamp"}, columns...)
	vals := append([]any{seqNum, time.Now().UTC()}, values...)

	query, args := r.b.Insert(table).Columns(cols...).Values(vals...).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// applyOpts adds the QueryOpts filters and newest-first ordering.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	sel = sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	if opts.After > 0 {
		sel = sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel = sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		sel = sel.Where(entsql.LTE("timestamp", opts.To))
	}
	return sel
}
