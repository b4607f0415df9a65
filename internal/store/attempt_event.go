package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var attemptColumns = []string{
	"id", "sequence", "timestamp",
	"attempt_id", "quiz_id", "title", "score", "total", "answered", "duration_secs",
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	if data.AttemptID == "" {
		return fmt.Errorf("append attempt: missing attempt id")
	}
	return r.insert(ctx, tableAttempts,
		attemptColumns[3:],
		[]any{
			data.AttemptID, data.QuizID, data.Title, data.Score, data.Total,
			data.Answered, data.DurationSecs,
		},
	)
}

func (r *eventRepo) RecentAttempts(ctx context.Context, quizID string, opts QueryOpts) ([]AttemptRecord, error) {
	sel := r.b.Select(attemptColumns...).From(r.b.Table(tableAttempts))
	if quizID != "" {
		sel = sel.Where(entsql.EQ("quiz_id", quizID))
	}
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		var rec AttemptRecord
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &rec.Timestamp,
			&rec.AttemptID, &rec.QuizID, &rec.Title, &rec.Score, &rec.Total,
			&rec.Answered, &rec.DurationSecs,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) AttemptStats(ctx context.Context, quizID string) (AttemptStats, error) {
	records, err := r.RecentAttempts(ctx, quizID, QueryOpts{})
	if err != nil {
		return AttemptStats{}, fmt.Errorf("attempt stats: %w", err)
	}

	var st AttemptStats
	for _, rec := range records {
		st.Attempts++
		st.TotalScore += rec.Score
		st.TotalAsked += rec.Total
		if rec.Total > 0 && rec.Score == rec.Total {
			st.Perfect++
		}
		if p := rec.Percent(); p > st.BestPercent {
			st.BestPercent = p
		}
		if rec.Timestamp.After(st.LastAttempt) {
			st.LastAttempt = rec.Timestamp
		}
	}
	return st, nil
}
