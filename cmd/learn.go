package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/abhisek/trailhead/internal/api"
	"github.com/abhisek/trailhead/internal/screens/projects"
	"github.com/abhisek/trailhead/internal/screens/resources"
	"github.com/spf13/cobra"
)

var milestoneCmd = &cobra.Command{
	Use:   "milestone",
	Short: "Mark roadmap milestones done or not done",
}

var milestoneCompleteCmd = &cobra.Command{
	Use:   "complete <roadmap-id> <milestone-id>",
	Short: "Mark a milestone as completed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMilestone(cmd, args[0], args[1], true)
	},
}

var milestoneUndoCmd = &cobra.Command{
	Use:   "undo <roadmap-id> <milestone-id>",
	Short: "Clear a milestone's completed mark",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setMilestone(cmd, args[0], args[1], false)
	},
}

func setMilestone(cmd *cobra.Command, roadmapID, milestoneID string, done bool) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	if done {
		err = rt.client.CompleteMilestone(ctx, roadmapID, milestoneID)
	} else {
		err = rt.client.UndoMilestone(ctx, roadmapID, milestoneID)
	}
	if err != nil {
		return fmt.Errorf("update milestone: %w", err)
	}
	rt.log.Info("milestone updated", "roadmap", roadmapID, "milestone", milestoneID, "completed", done)

	p, err := rt.client.RoadmapProgress(ctx, roadmapID)
	if err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	printProgress(os.Stdout, p)
	return nil
}

func printProgress(w io.Writer, p *api.Progress) {
	fmt.Fprintf(w, "Progress: %.0f%% (%d completed, %d remaining)\n", p.Percentage, p.Completed, p.Remaining)
}

var resourcesCmd = &cobra.Command{
	Use:   "resources <milestone-id>",
	Short: "List the learning resources of a milestone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		if !slices.Contains(resources.Types, kind) {
			return fmt.Errorf("--type must be one of %s", strings.Join(resources.Types, ", "))
		}
		if !slices.Contains(resources.Difficulties, difficulty) {
			return fmt.Errorf("--difficulty must be one of %s", strings.Join(resources.Difficulties, ", "))
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		mr, err := rt.client.Resources(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("resources: %w", err)
		}
		printResources(os.Stdout, mr, api.FilterResources(mr.Resources, kind, difficulty))
		return nil
	},
}

func printResources(w io.Writer, mr *api.MilestoneResources, shown []api.Resource) {
	fmt.Fprintf(w, "%s\n", mr.Milestone.Title)
	if len(shown) == 0 {
		fmt.Fprintln(w, "No matching resources.")
		return
	}
	fmt.Fprintf(w, "%-4s  %-36s  %-8s  %-12s  %s\n", "Step", "Title", "Type", "Difficulty", "URL")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, r := range shown {
		title := truncate(r.Title, 36)
		if r.IsOptional {
			title = truncate(r.Title, 25) + " (optional)"
		}
		fmt.Fprintf(w, "%-4d  %-36s  %-8s  %-12s  %s\n", r.Step, title, r.Type, r.Difficulty, r.URL)
	}
}

var projectsCmd = &cobra.Command{
	Use:   "projects <roadmap-title>",
	Short: "Suggest practice projects for a roadmap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetString("difficulty")
		if !slices.Contains(projects.Difficulties, difficulty) {
			return fmt.Errorf("--difficulty must be one of %s", strings.Join(projects.Difficulties, ", "))
		}
		if difficulty == projects.Mixed {
			difficulty = ""
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ps, err := rt.client.ProjectIdeas(cmd.Context(), args[0], difficulty)
		if err != nil {
			rt.log.Warn("project ideas failed", "error", err)
			return fmt.Errorf("failed to generate project ideas: %w", err)
		}
		printProjects(os.Stdout, ps)
		return nil
	},
}

func printProjects(w io.Writer, ps []api.Project) {
	if len(ps) == 0 {
		fmt.Fprintln(w, "No project ideas.")
		return
	}
	for i, p := range ps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d. %s (%s, %s)\n", i+1, p.Title, p.Difficulty, p.Duration)
		if p.Description != "" {
			fmt.Fprintf(w, "   %s\n", p.Description)
		}
		if len(p.RequiredSkills) > 0 {
			fmt.Fprintf(w, "   Skills: %s\n", strings.Join(p.RequiredSkills, ", "))
		}
		for _, f := range p.KeyFeatures {
			fmt.Fprintf(w, "   - %s\n", f)
		}
	}
}

func init() {
	milestoneCmd.AddCommand(milestoneCompleteCmd)
	milestoneCmd.AddCommand(milestoneUndoCmd)

	resourcesCmd.Flags().String("type", "all", "Resource type: "+strings.Join(resources.Types, ", "))
	resourcesCmd.Flags().String("difficulty", "all", "Resource difficulty: "+strings.Join(resources.Difficulties, ", "))

	projectsCmd.Flags().String("difficulty", projects.Mixed, "Project difficulty: "+strings.Join(projects.Difficulties, ", "))
}
