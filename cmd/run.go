package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/abhisek/trailhead/internal/api"
	"github.com/abhisek/trailhead/internal/app"
	"github.com/abhisek/trailhead/internal/config"
	"github.com/abhisek/trailhead/internal/explain"
	"github.com/abhisek/trailhead/internal/llm"
	"github.com/abhisek/trailhead/internal/logger"
	"github.com/abhisek/trailhead/internal/screen"
	"github.com/abhisek/trailhead/internal/screens/projects"
	"github.com/abhisek/trailhead/internal/screens/resources"
	"github.com/abhisek/trailhead/internal/screens/roadmap"
	"github.com/abhisek/trailhead/internal/screens/roadmaps"
	"github.com/abhisek/trailhead/internal/screens/take"
	"github.com/abhisek/trailhead/internal/store"
	"github.com/spf13/cobra"
)

// runtime bundles what every backend-facing command needs.
type runtime struct {
	cfg     config.Config
	log     *logger.Logger
	client  *api.Client
	store   *store.Store
	closers []func() error
}

// newRuntime loads configuration, applies the persistent flags and builds
// the logger and API client.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("api"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.Token = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Debug("config loaded", "api", cfg.APIURL, "explainer", cfg.Explainer, "cache", cfg.CacheEnabled())

	rt := &runtime{
		cfg: cfg,
		log: log,
		client: api.New(api.Config{
			BaseURL: cfg.APIURL,
			Token:   cfg.Token,
			Timeout: cfg.APITimeout,
		}, log),
	}
	return rt, nil
}

// openStore opens the event log. Failures are reported but not fatal:
// quizzes work without history.
func (rt *runtime) openStore(cmd *cobra.Command) store.EventRepo {
	s, err := openStore(cmd)
	if err != nil {
		rt.log.Warn("event log unavailable", "error", err)
		fmt.Fprintln(os.Stderr, "History disabled:", err)
		return nil
	}
	rt.log.Debug("store opened")
	rt.store = s
	rt.closers = append(rt.closers, s.Close)
	return s.EventRepo()
}

// explainer builds the configured explanation source, wrapped with the
// Redis cache when one is configured. The returned name labels events.
func (rt *runtime) explainer(ctx context.Context, repo store.EventRepo) (explain.Source, string, error) {
	var (
		src  explain.Source
		name string
	)
	switch rt.cfg.Explainer {
	case config.ExplainerLLM:
		lcfg, err := llm.Resolve()
		if err != nil {
			return nil, "", fmt.Errorf("configure LLM: %w", err)
		}
		provider, err := llm.NewProvider(ctx, lcfg, repo, rt.log)
		if err != nil {
			return nil, "", fmt.Errorf("create LLM provider: %w", err)
		}
		src = explain.NewLLMSource(provider, explain.DefaultLLMConfig())
		name = "llm:" + lcfg.Provider
	default:
		src = rt.client
		name = "api"
	}

	if !rt.cfg.CacheEnabled() {
		return src, name, nil
	}
	rdb, err := explain.DialRedis(ctx, rt.cfg.RedisAddr, rt.cfg.RedisPassword, rt.cfg.RedisDB)
	if err != nil {
		rt.log.Warn("explanation cache unavailable", "addr", rt.cfg.RedisAddr, "error", err)
		fmt.Fprintln(os.Stderr, "Explanation cache disabled:", err)
		return src, name, nil
	}
	rt.closers = append(rt.closers, rdb.Close)
	return explain.NewCachedSource(src, explain.NewRedisCache(rdb), rt.cfg.CacheTTL, rt.log), name, nil
}

// Close releases everything the runtime opened.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.log.Warn("close", "error", err)
		}
	}
	rt.log.Sync()
}

// status is the header label: the backend host.
func (rt *runtime) status() string {
	u, err := url.Parse(rt.cfg.APIURL)
	if err != nil || u.Host == "" {
		return rt.cfg.APIURL
	}
	return u.Host
}

// quizDeps wires the quiz screen to the backend, explainer and event log.
func (rt *runtime) quizDeps(cmd *cobra.Command) take.Deps {
	repo := rt.openStore(cmd)
	deps := take.Deps{
		Quizzes: rt.client,
		Events:  repo,
		Log:     rt.log,
		Timeout: rt.cfg.APITimeout,
	}
	src, name, err := rt.explainer(cmd.Context(), repo)
	if err != nil {
		rt.log.Warn("explanations unavailable", "error", err)
		fmt.Fprintln(os.Stderr, "Explanations unavailable:", err)
		return deps
	}
	deps.Explainer = src
	deps.ExplainerName = name
	return deps
}

// runTUI launches the app with the screen built by root.
func runTUI(cmd *cobra.Command, root func(rt *runtime, deps take.Deps) screen.Screen) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	deps := rt.quizDeps(cmd)
	return app.Run(root(rt, deps), rt.status())
}

var takeCmd = &cobra.Command{
	Use:   "take <quiz-id>",
	Short: "Take the quiz for a roadmap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, func(_ *runtime, deps take.Deps) screen.Screen {
			return take.New(args[0], deps)
		})
	},
}

var roadmapsCmd = &cobra.Command{
	Use:   "roadmaps",
	Short: "Pick a roadmap to follow",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoadmaps(cmd)
	},
}

var roadmapCmd = &cobra.Command{
	Use:   "roadmap <roadmap-id>",
	Short: "Show a roadmap's milestones and your progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, func(rt *runtime, deps take.Deps) screen.Screen {
			return rt.roadmapScreen(args[0], deps)
		})
	},
}

func runRoadmaps(cmd *cobra.Command) error {
	return runTUI(cmd, func(rt *runtime, deps take.Deps) screen.Screen {
		return roadmaps.New(rt.client, func(id string) screen.Screen {
			return rt.roadmapScreen(id, deps)
		}, rt.log)
	})
}

// roadmapScreen builds the detail screen with its quiz, resource and
// project links.
func (rt *runtime) roadmapScreen(id string, deps take.Deps) screen.Screen {
	return roadmap.New(id, roadmap.Deps{
		Client: rt.client,
		Quiz: func(id string) screen.Screen {
			return take.New(id, deps)
		},
		Resources: func(milestoneID string) screen.Screen {
			return resources.New(milestoneID, rt.client, rt.cfg.APITimeout, rt.log)
		},
		Projects: func(title string) screen.Screen {
			return projects.New(title, rt.client, rt.cfg.APITimeout, rt.log)
		},
		Log:     rt.log,
		Timeout: rt.cfg.APITimeout,
	})
}
