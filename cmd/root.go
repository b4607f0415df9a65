package cmd

import (
	"fmt"

	"github.com/abhisek/trailhead/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trailhead",
	Short: "Terminal quizzes for your learning roadmaps",
	Long: "Trailhead lets you test yourself on the roadmaps you are following: " +
		"take a quiz in the terminal, review every answer and ask for an explanation of the ones you missed.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoadmaps(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TRAILHEAD_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides TRAILHEAD_API_URL)")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for the backend (overrides TRAILHEAD_TOKEN)")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(roadmapsCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(milestoneCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(prefetchCmd)
	rootCmd.AddCommand(devServerCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TRAILHEAD_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the event database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
