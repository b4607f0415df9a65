package cmd

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/trailhead/internal/explain"
	"github.com/abhisek/trailhead/internal/logger"
	"github.com/abhisek/trailhead/internal/quiz"
	"github.com/spf13/cobra"
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch <quiz-id>",
	Short: "Warm the explanation cache for every question of a quiz",
	Long: "Requests an explanation for each question of the quiz as if it were left unanswered, " +
		"so later requests are served from the Redis cache. Requires TRAILHEAD_REDIS_ADDR.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if !rt.cfg.CacheEnabled() {
			return fmt.Errorf("prefetch needs a cache: set TRAILHEAD_REDIS_ADDR")
		}

		ctx := cmd.Context()
		q, err := rt.client.FetchQuiz(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetch quiz: %w", err)
		}

		src, name, err := rt.explainer(ctx, rt.openStore(cmd))
		if err != nil {
			return err
		}
		rt.log.Info("prefetch started", "quiz", q.ID, "questions", q.Len(), "source", name)

		tracker := explain.NewTracker()
		if err := prefetchExplanations(ctx, q, src, tracker, concurrency, rt.log); err != nil {
			return err
		}

		failed := 0
		for i, qq := range q.Questions {
			e := tracker.Get(qq.ID)
			mark := "✓"
			if e.Status != explain.StatusSucceeded {
				mark = "✗"
				failed++
			}
			fmt.Printf("%s %2d. %s\n", mark, i+1, truncate(qq.Prompt, 70))
		}
		fmt.Printf("\n%d of %d explanations cached\n", q.Len()-failed, q.Len())
		if failed > 0 {
			fmt.Fprintf(os.Stderr, "%d requests failed; see the log for details\n", failed)
		}
		return nil
	},
}

// prefetchExplanations requests the "Not Answered" explanation of every
// question in q, at most limit at a time. Per-question outcomes land in
// tracker; only context cancellation is returned as an error.
func prefetchExplanations(ctx context.Context, q *quiz.Quiz, src explain.Source, tracker *explain.Tracker, limit int, log *logger.Logger) error {
	if limit < 1 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, qq := range q.Questions {
		if !tracker.Begin(qq.ID) {
			continue
		}
		req := explain.NewRequest(qq, -1, false)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				tracker.Resolve(qq.ID, "", err)
				return err
			}
			text, err := src.Explain(ctx, req)
			if err != nil {
				log.Warn("prefetch explanation failed", "quiz", q.ID, "question", qq.ID, "error", err)
			}
			tracker.Resolve(qq.ID, text, err)
			return nil
		})
	}
	return g.Wait()
}

func init() {
	prefetchCmd.Flags().IntP("concurrency", "c", 4, "Maximum requests in flight")
}
