// Package devserver is a local stand-in for the learning backend. It
// serves quizzes, roadmaps and canned AI answers from a YAML fixture and
// keeps accounts and milestone progress in memory.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abhisek/trailhead/internal/logger"
)

// Options configures a Server.
type Options struct {
	// Token, when set, is required as a bearer token on quiz, roadmap,
	// resource and AI routes. Tokens issued by /auth/login and
	// /auth/signup are accepted too.
	Token string
}

// Server serves the backend contract from a Fixture.
type Server struct {
	fx   *Fixture
	opts Options
	log  *logger.Logger

	mu       sync.Mutex
	issued   map[string]User
	accounts map[string]User     // signups by email
	done     map[progressKey]bool // completed milestones
}

type progressKey struct {
	user      string
	milestone string
}

// New creates a Server. A nil fixture means Sample().
func New(fx *Fixture, opts Options, log *logger.Logger) *Server {
	if fx == nil {
		fx = Sample()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		fx:       fx,
		opts:     opts,
		log:      log.With("component", "devserver"),
		issued:   make(map[string]User),
		accounts: make(map[string]User),
		done:     make(map[progressKey]bool),
	}
}

// Handler builds the gin engine.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/roadmap", s.listRoadmaps)
	r.POST("/auth/login", s.login)
	r.POST("/auth/signup", s.signup)

	guarded := r.Group("/")
	guarded.Use(s.requireToken(s.opts.Token != ""))
	guarded.GET("/quiz/:id", s.getQuiz)
	guarded.POST("/ai/explanation", s.explain)
	guarded.POST("/ai/projects", s.projects)
	guarded.GET("/roadmap/:id", s.getRoadmap)
	guarded.GET("/roadmap/:id/progress", s.getProgress)
	guarded.PUT("/roadmap/:id", s.completeMilestone)
	guarded.DELETE("/roadmap/:id", s.undoMilestone)
	guarded.GET("/resource/milestone/:id", s.milestoneResources)

	protected := r.Group("/")
	protected.Use(s.requireToken(true))
	protected.GET("/profile", s.profile)
	protected.GET("/dashboard", s.dashboard)
	protected.POST("/auth/logout", s.logout)

	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("dev server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

// requireToken rejects requests without a known bearer token when
// enforce is true. The resolved user, if any, is stored under "user" and
// its token under "token".
func (s *Server) requireToken(enforce bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c.GetHeader("Authorization"))
		user, ok := s.lookup(token)
		if !ok && enforce {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing or invalid token"})
			return
		}
		if ok {
			c.Set("user", user)
			c.Set("token", token)
		}
		c.Next()
	}
}

// userID is the caller's account id, empty for anonymous callers.
func userID(c *gin.Context) string {
	if u, ok := c.Get("user"); ok {
		return u.(User).ID
	}
	return ""
}

func bearer(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

func (s *Server) lookup(token string) (User, bool) {
	if token == "" {
		return User{}, false
	}
	if s.opts.Token != "" && token == s.opts.Token {
		return User{ID: "dev", Name: "Developer"}, true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.issued[token]
	return u, ok
}

func (s *Server) revoke(token string) {
	s.mu.Lock()
	delete(s.issued, token)
	s.mu.Unlock()
}

func (s *Server) findUser(email string) (User, bool) {
	s.mu.Lock()
	u, ok := s.accounts[strings.ToLower(email)]
	s.mu.Unlock()
	if ok {
		return u, true
	}
	return s.fx.userByEmail(email)
}

// register adds an account unless the email is taken.
func (s *Server) register(u User) bool {
	if _, ok := s.fx.userByEmail(u.Email); ok {
		return false
	}
	key := strings.ToLower(u.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[key]; ok {
		return false
	}
	s.accounts[key] = u
	return true
}

func (s *Server) setDone(user, milestone string, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := progressKey{user: user, milestone: milestone}
	if done {
		s.done[k] = true
	} else {
		delete(s.done, k)
	}
}

func (s *Server) isDone(user, milestone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done[progressKey{user: user, milestone: milestone}]
}

func (s *Server) issue(u User) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.issued[token] = u
	s.mu.Unlock()
	return token
}
