package api

import (
	"context"
	"net/http"
	"net/url"
)

// Resource is a learning material attached to a milestone.
type Resource struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"` // video, article, book or course
	Difficulty  string   `json:"difficulty"`
	Duration    string   `json:"duration"`
	URL         string   `json:"url"`
	Author      string   `json:"author"`
	Step        int      `json:"step"`
	IsOptional  bool     `json:"isOptional"`
	Tags        []string `json:"tags"`
}

// MilestoneResources is a milestone with its resources.
type MilestoneResources struct {
	Milestone Milestone  `json:"milestone"`
	Resources []Resource `json:"resources"`
}

// Resources lists the learning resources of a milestone.
func (c *Client) Resources(ctx context.Context, milestoneID string) (*MilestoneResources, error) {
	var out MilestoneResources
	if _, err := c.do(ctx, http.MethodGet, "/resource/milestone/"+url.PathEscape(milestoneID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FilterResources keeps resources matching kind and difficulty. An empty
// or "all" filter matches everything.
func FilterResources(rs []Resource, kind, difficulty string) []Resource {
	match := func(filter, v string) bool {
		return filter == "" || filter == "all" || filter == v
	}
	var out []Resource
	for _, r := range rs {
		if match(kind, r.Type) && match(difficulty, r.Difficulty) {
			out = append(out, r)
		}
	}
	return out
}
