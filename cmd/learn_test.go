package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/trailhead/internal/api"
)

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	printProgress(&buf, &api.Progress{Percentage: 66.7, Completed: 2, Remaining: 1})
	assert.Equal(t, "Progress: 67% (2 completed, 1 remaining)\n", buf.String())
}

func TestPrintResources(t *testing.T) {
	mr := &api.MilestoneResources{
		Milestone: api.Milestone{Title: "Concurrency"},
		Resources: []api.Resource{
			{Step: 1, Title: "Concurrency is not parallelism", Type: "video", Difficulty: "intermediate", URL: "https://go.dev/blog/waza-talk"},
			{Step: 2, Title: "Concurrency in Go", Type: "book", Difficulty: "advanced", IsOptional: true},
		},
	}

	var buf bytes.Buffer
	printResources(&buf, mr, mr.Resources)
	out := buf.String()
	assert.Contains(t, out, "Concurrency\n")
	assert.Contains(t, out, "https://go.dev/blog/waza-talk")
	assert.Contains(t, out, "Concurrency in Go (optional)")

	buf.Reset()
	printResources(&buf, mr, api.FilterResources(mr.Resources, "course", "all"))
	assert.Equal(t, "Concurrency\nNo matching resources.\n", buf.String())
}

func TestPrintProjects(t *testing.T) {
	var buf bytes.Buffer
	printProjects(&buf, []api.Project{
		{Title: "CLI todo", Difficulty: "Beginner", Duration: "1 week", KeyFeatures: []string{"Flags"}},
		{Title: "Chat server", Difficulty: "Advanced", Duration: "6 weeks", RequiredSkills: []string{"Go", "WebSockets"}},
	})
	assert.Equal(t, "1. CLI todo (Beginner, 1 week)\n   - Flags\n\n"+
		"2. Chat server (Advanced, 6 weeks)\n   Skills: Go, WebSockets\n", buf.String())

	buf.Reset()
	printProjects(&buf, nil)
	assert.Equal(t, "No project ideas.\n", buf.String())
}
