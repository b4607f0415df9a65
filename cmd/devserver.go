package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/trailhead/internal/devserver"
	"github.com/abhisek/trailhead/internal/logger"
	"github.com/spf13/cobra"
)

var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Serve quizzes, roadmaps and explanations from a local fixture file",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		fixtures, _ := cmd.Flags().GetString("fixtures")
		token, _ := cmd.Flags().GetString("token")

		fx := devserver.Sample()
		if fixtures != "" {
			var err error
			if fx, err = devserver.LoadFixture(fixtures); err != nil {
				return err
			}
		}

		log, err := logger.New(logger.Options{
			Path:  os.Getenv("TRAILHEAD_LOG_FILE"),
			Level: os.Getenv("TRAILHEAD_LOG_LEVEL"),
		})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := devserver.New(fx, devserver.Options{Token: token}, log)
		fmt.Printf("Dev backend listening on %s (%d roadmaps, %d quizzes)\n", addr, len(fx.Roadmaps), len(fx.Quizzes))
		if token != "" {
			fmt.Println("Quiz and explanation routes require: Authorization: Bearer " + token)
		}
		return srv.Run(ctx, addr)
	},
}

func init() {
	devServerCmd.Flags().String("addr", ":8080", "Listen address")
	devServerCmd.Flags().String("fixtures", "", "YAML fixture file (defaults to the built-in sample)")
	devServerCmd.Flags().String("token", "", "Require this bearer token on quiz and explanation routes")
}
