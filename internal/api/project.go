package api

import (
	"context"
	"fmt"
	"net/http"
)

// Project difficulties accepted by ProjectIdeas. An empty difficulty asks
// for a mix.
var ProjectDifficulties = []string{"Beginner", "Intermediate", "Advanced"}

// Project is an AI-suggested practice project for a roadmap.
type Project struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"requiredSkills"`
	KeyFeatures    []string `json:"keyFeatures"`
	Difficulty     string   `json:"difficulty"`
	Duration       string   `json:"duration"`
}

type projectsRequest struct {
	RoadmapName string `json:"roadmapName" validate:"required"`
	Difficulty  string `json:"difficulty,omitempty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
}

type projectsResponse struct {
	Projects []Project `json:"projects"`
}

// ProjectIdeas asks the backend's AI endpoint for project ideas that
// practise the skills of roadmapName.
func (c *Client) ProjectIdeas(ctx context.Context, roadmapName, difficulty string) ([]Project, error) {
	body := projectsRequest{RoadmapName: roadmapName, Difficulty: difficulty}
	if err := c.validate.Struct(body); err != nil {
		return nil, fmt.Errorf("project ideas: %w", err)
	}
	var out projectsResponse
	if _, err := c.do(ctx, http.MethodPost, "/ai/projects", body, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}
