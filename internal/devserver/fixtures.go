package devserver

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleFixture []byte

// Fixture is the data the dev backend serves.
type Fixture struct {
	Roadmaps []Roadmap `yaml:"roadmaps"`
	Quizzes  []Quiz    `yaml:"quizzes"`
	Users    []User    `yaml:"users"`
}

type Roadmap struct {
	ID             string   `yaml:"id" json:"_id"`
	Title          string   `yaml:"title" json:"title"`
	Description    string   `yaml:"description" json:"description"`
	Skills         []string `yaml:"skills" json:"skills"`
	Duration       string   `yaml:"duration" json:"duration"`
	Difficulty     string   `yaml:"difficulty" json:"difficulty"`
	Learners       int      `yaml:"learners" json:"learners"`
	CompletionRate int      `yaml:"completion_rate" json:"completionRate"`

	Milestones []Milestone `yaml:"milestones" json:"-"`
}

// Milestone is a roadmap step. Order and status are derived when served.
type Milestone struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Duration    string     `yaml:"duration"`
	Resources   []Resource `yaml:"resources"`
}

type Resource struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type"`
	Difficulty  string   `yaml:"difficulty"`
	Duration    string   `yaml:"duration"`
	URL         string   `yaml:"url"`
	Author      string   `yaml:"author"`
	Optional    bool     `yaml:"optional"`
	Tags        []string `yaml:"tags"`
}

// Quiz belongs to the roadmap named by Roadmap. A roadmap may own several
// quizzes; the first one wins on the client.
type Quiz struct {
	Roadmap   string     `yaml:"roadmap" json:"roadmap"`
	Title     string     `yaml:"title" json:"title"`
	Questions []Question `yaml:"questions" json:"questions"`
}

type Question struct {
	ID          string   `yaml:"id" json:"_id"`
	Question    string   `yaml:"question" json:"question"`
	Options     []string `yaml:"options" json:"options"`
	Correct     int      `yaml:"correct" json:"correctIndex"`
	Explanation string   `yaml:"explanation,omitempty" json:"explanation,omitempty"`
}

type User struct {
	ID       string `yaml:"id" json:"_id"`
	Name     string `yaml:"name" json:"name"`
	Email    string `yaml:"email" json:"email"`
	Password string `yaml:"password" json:"-"`
}

// Sample returns the built-in fixture.
func Sample() *Fixture {
	fx, err := parseFixture(sampleFixture)
	if err != nil {
		panic(fmt.Sprintf("devserver: bad built-in fixture: %v", err))
	}
	return fx
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	fx, err := parseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return fx, nil
}

func parseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, err
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// validate rejects fixtures whose quizzes the client would refuse anyway,
// except empty question lists, which are served to exercise not-found
// handling.
func (fx *Fixture) validate() error {
	var errs []error
	milestones := map[string]bool{}
	for _, rm := range fx.Roadmaps {
		for _, m := range rm.Milestones {
			if m.ID == "" {
				errs = append(errs, fmt.Errorf("roadmap %q: milestone %q has no id", rm.ID, m.Title))
				continue
			}
			if milestones[m.ID] {
				errs = append(errs, fmt.Errorf("roadmap %q: duplicate milestone id %q", rm.ID, m.ID))
			}
			milestones[m.ID] = true
		}
	}
	for _, q := range fx.Quizzes {
		if q.Roadmap == "" {
			errs = append(errs, fmt.Errorf("quiz %q: missing roadmap", q.Title))
		}
		for _, qq := range q.Questions {
			if qq.Correct < 0 || qq.Correct >= len(qq.Options) {
				errs = append(errs, fmt.Errorf("question %q: correct index %d out of range", qq.ID, qq.Correct))
			}
		}
	}
	return errors.Join(errs...)
}

func (fx *Fixture) quizzesFor(roadmap string) []Quiz {
	var out []Quiz
	for _, q := range fx.Quizzes {
		if q.Roadmap == roadmap {
			out = append(out, q)
		}
	}
	return out
}

func (fx *Fixture) roadmap(id string) (Roadmap, bool) {
	for _, rm := range fx.Roadmaps {
		if rm.ID == id {
			return rm, true
		}
	}
	return Roadmap{}, false
}

func (fx *Fixture) roadmapByTitle(title string) (Roadmap, bool) {
	for _, rm := range fx.Roadmaps {
		if strings.EqualFold(rm.Title, title) {
			return rm, true
		}
	}
	return Roadmap{}, false
}

// milestone finds a milestone and its 1-based position in its roadmap.
func (fx *Fixture) milestone(id string) (Milestone, int, bool) {
	for _, rm := range fx.Roadmaps {
		for i, m := range rm.Milestones {
			if m.ID == id {
				return m, i + 1, true
			}
		}
	}
	return Milestone{}, 0, false
}

func (fx *Fixture) userByEmail(email string) (User, bool) {
	for _, u := range fx.Users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return User{}, false
}
