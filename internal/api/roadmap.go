package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Roadmap is a curated learning path. Its ID doubles as the quiz id.
type Roadmap struct {
	ID             string   `json:"_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills"`
	Duration       string   `json:"duration"`
	Difficulty     string   `json:"difficulty"`
	Learners       int      `json:"learners"`
	CompletionRate int      `json:"completionRate"`
}

// Milestone states reported by the backend.
const (
	MilestoneCompleted  = "completed"
	MilestoneInProgress = "in_progress"
	MilestoneNotStarted = "not_started"
	MilestoneLocked     = "locked"
)

// Milestone is one step of a roadmap.
type Milestone struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Order       int    `json:"order"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
}

// Completed reports whether the learner has marked the milestone done.
func (m Milestone) Completed() bool { return m.Status == MilestoneCompleted }

// RoadmapDetail is a roadmap with its milestones in order.
type RoadmapDetail struct {
	Roadmap    Roadmap     `json:"roadmap"`
	Milestones []Milestone `json:"milestones"`
}

// Progress summarizes the learner's milestones on one roadmap.
type Progress struct {
	Percentage float64 `json:"progressPercentage"`
	Completed  int     `json:"completedMilestones"`
	Remaining  int     `json:"remainingMilestones"`
}

type roadmapsResponse struct {
	AllRoadmaps []Roadmap `json:"allroadmaps"`
}

// Roadmaps lists every roadmap.
func (c *Client) Roadmaps(ctx context.Context) ([]Roadmap, error) {
	var out roadmapsResponse
	if _, err := c.do(ctx, http.MethodGet, "/roadmap", nil, &out); err != nil {
		return nil, err
	}
	return out.AllRoadmaps, nil
}

// Roadmap returns one roadmap with its milestones and their states for the
// signed-in learner.
func (c *Client) Roadmap(ctx context.Context, id string) (*RoadmapDetail, error) {
	var out RoadmapDetail
	if _, err := c.do(ctx, http.MethodGet, "/roadmap/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out.Roadmap.ID == "" {
		out.Roadmap.ID = id
	}
	return &out, nil
}

// RoadmapProgress returns the learner's progress on a roadmap.
func (c *Client) RoadmapProgress(ctx context.Context, id string) (*Progress, error) {
	var out Progress
	if _, err := c.do(ctx, http.MethodGet, "/roadmap/"+url.PathEscape(id)+"/progress", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type completeRequest struct {
	MilestoneID string `json:"milestoneId" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

// The backend reads the undo body with a lower-case key.
type undoRequest struct {
	MilestoneID string `json:"milestoneid" validate:"required"`
}

// CompleteMilestone marks a milestone of roadmapID as completed.
func (c *Client) CompleteMilestone(ctx context.Context, roadmapID, milestoneID string) error {
	body := completeRequest{MilestoneID: milestoneID, Status: MilestoneCompleted}
	if err := c.validate.Struct(body); err != nil {
		return fmt.Errorf("complete milestone: %w", err)
	}
	_, err := c.do(ctx, http.MethodPut, "/roadmap/"+url.PathEscape(roadmapID), body, nil)
	return err
}

// UndoMilestone clears the completed mark of a milestone.
func (c *Client) UndoMilestone(ctx context.Context, roadmapID, milestoneID string) error {
	body := undoRequest{MilestoneID: milestoneID}
	if err := c.validate.Struct(body); err != nil {
		return fmt.Errorf("undo milestone: %w", err)
	}
	_, err := c.do(ctx, http.MethodDelete, "/roadmap/"+url.PathEscape(roadmapID), body, nil)
	return err
}
