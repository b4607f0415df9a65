package devserver

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// milestoneView is a milestone as served, with the caller's state.
type milestoneView struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Order       int    `json:"order"`
	Status      string `json:"status"`
}

// The first milestone not yet done is in progress; later ones have not
// been started.
func (s *Server) milestoneViews(user string, rm Roadmap) []milestoneView {
	views := make([]milestoneView, len(rm.Milestones))
	current := false
	for i, m := range rm.Milestones {
		status := "not_started"
		switch {
		case s.isDone(user, m.ID):
			status = "completed"
		case !current:
			status = "in_progress"
			current = true
		}
		views[i] = milestoneView{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Duration:    m.Duration,
			Order:       i + 1,
			Status:      status,
		}
	}
	return views
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": what + " not found"})
}

// GET /roadmap/:id
func (s *Server) getRoadmap(c *gin.Context) {
	rm, ok := s.fx.roadmap(c.Param("id"))
	if !ok {
		notFound(c, "roadmap")
		return
	}
	c.JSON(http.StatusOK, gin.H{"roadmap": rm, "milestones": s.milestoneViews(userID(c), rm)})
}

// GET /roadmap/:id/progress
func (s *Server) getProgress(c *gin.Context) {
	rm, ok := s.fx.roadmap(c.Param("id"))
	if !ok {
		notFound(c, "roadmap")
		return
	}
	user := userID(c)
	done := 0
	for _, m := range rm.Milestones {
		if s.isDone(user, m.ID) {
			done++
		}
	}
	pct := 0.0
	if total := len(rm.Milestones); total > 0 {
		pct = math.Round(float64(done) * 100 / float64(total))
	}
	c.JSON(http.StatusOK, gin.H{
		"progressPercentage":  pct,
		"completedMilestones": done,
		"remainingMilestones": len(rm.Milestones) - done,
	})
}

type completeRequest struct {
	MilestoneID string `json:"milestoneId" binding:"required"`
	Status      string `json:"status" binding:"required,oneof=completed"`
}

type undoRequest struct {
	MilestoneID string `json:"milestoneid" binding:"required"`
}

// milestoneOf checks that milestoneID belongs to the roadmap in the path.
func (s *Server) milestoneOf(c *gin.Context, milestoneID string) bool {
	rm, ok := s.fx.roadmap(c.Param("id"))
	if !ok {
		notFound(c, "roadmap")
		return false
	}
	for _, m := range rm.Milestones {
		if m.ID == milestoneID {
			return true
		}
	}
	notFound(c, "milestone")
	return false
}

// PUT /roadmap/:id
func (s *Server) completeMilestone(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !s.milestoneOf(c, req.MilestoneID) {
		return
	}
	s.setDone(userID(c), req.MilestoneID, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Milestone completed"})
}

// DELETE /roadmap/:id
func (s *Server) undoMilestone(c *gin.Context) {
	var req undoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !s.milestoneOf(c, req.MilestoneID) {
		return
	}
	s.setDone(userID(c), req.MilestoneID, false)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Milestone reset"})
}

// GET /resource/milestone/:id
func (s *Server) milestoneResources(c *gin.Context) {
	m, order, ok := s.fx.milestone(c.Param("id"))
	if !ok {
		notFound(c, "milestone")
		return
	}
	resources := make([]gin.H, len(m.Resources))
	for i, r := range m.Resources {
		resources[i] = gin.H{
			"title":       r.Title,
			"description": r.Description,
			"type":        r.Type,
			"difficulty":  r.Difficulty,
			"duration":    r.Duration,
			"url":         r.URL,
			"author":      r.Author,
			"isOptional":  r.Optional,
			"tags":        r.Tags,
			"step":        i + 1,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"milestone": gin.H{"_id": m.ID, "title": m.Title, "description": m.Description, "duration": m.Duration, "order": order},
		"resources": resources,
	})
}
