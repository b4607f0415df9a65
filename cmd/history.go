package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/trailhead/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [quiz-id]",
	Short: "Show finished quiz attempts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		quizID := ""
		if len(args) == 1 {
			quizID = args[0]
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		attempts, err := repo.RecentAttempts(ctx, quizID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Println("No attempts yet. Take a quiz with `trailhead take <quiz-id>`.")
			return nil
		}

		fmt.Printf("%-19s  %-24s  %-7s  %-5s  %-8s  %s\n",
			"Finished", "Quiz", "Score", "Pct", "Answered", "Time")
		fmt.Println(strings.Repeat("─", 80))
		for _, a := range attempts {
			title := a.Title
			if title == "" {
				title = a.QuizID
			}
			fmt.Printf("%-19s  %-24s  %-7s  %4.0f%%  %-8s  %s\n",
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(title, 24),
				fmt.Sprintf("%d/%d", a.Score, a.Total),
				a.Percent(),
				fmt.Sprintf("%d/%d", a.Answered, a.Total),
				formatDuration(a.DurationSecs),
			)
		}

		st, err := repo.AttemptStats(ctx, quizID)
		if err != nil {
			return fmt.Errorf("attempt stats: %w", err)
		}
		fmt.Println(strings.Repeat("─", 80))
		fmt.Printf("%d attempts, %d perfect, best %.0f%%, overall accuracy %.0f%%\n",
			st.Attempts, st.Perfect, st.BestPercent, st.Accuracy()*100)
		return nil
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatDuration(secs int) string {
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
}
