package devserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) listRoadmaps(c *gin.Context) {
	roadmaps := s.fx.Roadmaps
	if roadmaps == nil {
		roadmaps = []Roadmap{}
	}
	c.JSON(http.StatusOK, gin.H{"allroadmaps": roadmaps})
}

// GET /quiz/:id
// An unknown roadmap answers 200 with success=false, like the real backend.
func (s *Server) getQuiz(c *gin.Context) {
	quizzes := s.fx.quizzesFor(c.Param("id"))
	if len(quizzes) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "no quiz for this roadmap", "quizzes": []Quiz{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quizzes": quizzes})
}

type explanationRequest struct {
	Question       string `json:"question" binding:"required"`
	CorrectAnswer  string `json:"correctAnswer" binding:"required"`
	SelectedAnswer string `json:"selectedAnswer" binding:"required"`
}

// POST /ai/explanation
func (s *Server) explain(c *gin.Context) {
	var req explanationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"explanation": cannedExplanation(req)})
}

func cannedExplanation(req explanationRequest) string {
	switch req.SelectedAnswer {
	case req.CorrectAnswer:
		return fmt.Sprintf("Correct. %q is the right answer to %q.", req.CorrectAnswer, req.Question)
	case "Not Answered":
		return fmt.Sprintf("This question was skipped. The answer to %q is %q.", req.Question, req.CorrectAnswer)
	default:
		return fmt.Sprintf("%q is not right for %q. The correct answer is %q.", req.SelectedAnswer, req.Question, req.CorrectAnswer)
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	u, ok := s.findUser(req.Email)
	if !ok || u.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": s.issue(u), "message": "Login successful"})
}

// GET /profile
func (s *Server) profile(c *gin.Context) {
	u, _ := c.Get("user")
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to your profile!", "user": u})
}

type projectsRequest struct {
	RoadmapName string `json:"roadmapName" binding:"required"`
	Difficulty  string `json:"difficulty" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
}

type project struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"requiredSkills"`
	KeyFeatures    []string `json:"keyFeatures"`
	Difficulty     string   `json:"difficulty"`
	Duration       string   `json:"duration"`
}

// POST /ai/projects
// Ideas are templated from the roadmap's skills, one per difficulty.
func (s *Server) projects(c *gin.Context) {
	var req projectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	skills := []string{req.RoadmapName}
	if rm, ok := s.fx.roadmapByTitle(req.RoadmapName); ok && len(rm.Skills) > 0 {
		skills = rm.Skills
	}
	ideas := cannedProjects(req.RoadmapName, skills)
	if req.Difficulty != "" {
		var kept []project
		for _, p := range ideas {
			if p.Difficulty == req.Difficulty {
				kept = append(kept, p)
			}
		}
		ideas = kept
	}
	c.JSON(http.StatusOK, gin.H{"projects": ideas})
}

func cannedProjects(name string, skills []string) []project {
	first := skills[0]
	return []project{
		{
			Title:          first + " warm-up tool",
			Description:    fmt.Sprintf("A small command-line tool that practises the basics of %s.", name),
			RequiredSkills: skills[:1],
			KeyFeatures:    []string{"Single command", "Readable output", "Unit tests"},
			Difficulty:     "Beginner",
			Duration:       "1-2 weeks",
		},
		{
			Title:          name + " service",
			Description:    fmt.Sprintf("A service that combines %s.", strings.Join(skills, ", ")),
			RequiredSkills: skills,
			KeyFeatures:    []string{"REST API", "Persistent storage", "Configuration from the environment"},
			Difficulty:     "Intermediate",
			Duration:       "4-6 weeks",
		},
		{
			Title:          name + " platform",
			Description:    fmt.Sprintf("A production-grade system that takes %s to scale.", name),
			RequiredSkills: skills,
			KeyFeatures:    []string{"Horizontal scaling", "Observability", "Automated deployment"},
			Difficulty:     "Advanced",
			Duration:       "8-10 weeks",
		},
	}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /auth/signup
func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	u := User{ID: uuid.NewString(), Name: req.Name, Email: req.Email, Password: req.Password}
	if !s.register(u) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "email already registered"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": s.issue(u), "message": "Signup successful", "user": u})
}

// POST /auth/logout
func (s *Server) logout(c *gin.Context) {
	s.revoke(c.GetString("token"))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GET /dashboard
func (s *Server) dashboard(c *gin.Context) {
	u, _ := c.Get("user")
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Welcome to your dashboard, %s!", u.(User).Name)})
}
