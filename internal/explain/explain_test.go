package explain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/trailhead/internal/llm"
	"github.com/abhisek/trailhead/internal/quiz"
)

func testQuestion() quiz.Question {
	return quiz.Question{
		ID:           "q1",
		Prompt:       "Which keyword starts a goroutine?",
		Options:      []string{"go", "async", "spawn"},
		CorrectIndex: 0,
	}
}

func TestNewRequest(t *testing.T) {
	q := testQuestion()

	got := NewRequest(q, 2, true)
	assert.Equal(t, Request{Question: q.Prompt, CorrectAnswer: "go", SelectedAnswer: "spawn"}, got)

	got = NewRequest(q, -1, false)
	assert.Equal(t, NotAnswered, got.SelectedAnswer)

	got = NewRequest(q, 7, true)
	assert.Equal(t, NotAnswered, got.SelectedAnswer)

	got = RequestFor(quiz.ResultItem{Question: q, Selected: 0, Answered: true})
	assert.Equal(t, "go", got.SelectedAnswer)
}

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, StatusIdle, tr.Get("q1").Status)

	require.True(t, tr.Begin("q1"))
	assert.Equal(t, StatusPending, tr.Get("q1").Status)
	assert.False(t, tr.Begin("q1"), "second request while pending must be refused")

	require.True(t, tr.Resolve("q1", "because", nil))
	e := tr.Get("q1")
	assert.Equal(t, StatusSucceeded, e.Status)
	assert.Equal(t, "because", e.Text)
	assert.False(t, tr.Begin("q1"), "available explanation is kept")
}

func TestTracker_FailureIsScopedAndRetryable(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.Begin("q1"))
	require.True(t, tr.Begin("q2"))

	boom := errors.New("503")
	tr.Resolve("q1", "", boom)
	tr.Resolve("q2", "fine", nil)

	e := tr.Get("q1")
	assert.Equal(t, StatusFailed, e.Status)
	assert.Equal(t, FailureMessage, e.Text)
	assert.ErrorIs(t, e.Err, boom)
	assert.Equal(t, StatusSucceeded, tr.Get("q2").Status)

	assert.True(t, tr.Begin("q1"), "failed question may be retried")
}

func TestTracker_EmptyTextFails(t *testing.T) {
	tr := NewTracker()
	tr.Begin("q1")
	tr.Resolve("q1", "", nil)
	assert.ErrorIs(t, tr.Get("q1").Err, ErrEmpty)
}

func TestTracker_ResolveWithoutBeginIsDropped(t *testing.T) {
	tr := NewTracker()
	assert.False(t, tr.Resolve("q1", "late", nil))
	assert.Equal(t, StatusIdle, tr.Get("q1").Status)
}

func TestTracker_CloseDropsLateResults(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.Begin("q1"))
	tr.Close()

	assert.False(t, tr.Resolve("q1", "late", nil))
	assert.Equal(t, StatusPending, tr.Get("q1").Status)
	assert.False(t, tr.Begin("q2"))
	assert.True(t, tr.Closed())
}

func TestTracker_ConcurrentBeginAdmitsOne(t *testing.T) {
	tr := NewTracker()
	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tr.Begin("q1") {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, admitted.Load())
	assert.Equal(t, 1, tr.Pending())
	require.True(t, tr.Resolve("q1", "done", nil))
	assert.False(t, tr.Resolve("q1", "again", nil), "second result for one request")
	assert.False(t, tr.Begin("q1"), "succeeded question is not requested again")
}

type memCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	sets   int
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = value
	m.sets++
	return nil
}

func TestCachedSource_HitSkipsInner(t *testing.T) {
	var calls int
	inner := SourceFunc(func(context.Context, Request) (string, error) {
		calls++
		return "fresh", nil
	})
	cache := &memCache{}
	src := NewCachedSource(inner, cache, time.Hour, nil)
	req := NewRequest(testQuestion(), 1, true)

	text, err := src.Explain(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, "fresh", text)

	text, err = src.Explain(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, "fresh", text)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.sets)
}

func TestCachedSource_FailuresNotCached(t *testing.T) {
	inner := SourceFunc(func(context.Context, Request) (string, error) {
		return "", errors.New("backend down")
	})
	cache := &memCache{}
	src := NewCachedSource(inner, cache, 0, nil)

	_, err := src.Explain(t.Context(), Request{Question: "q"})
	require.Error(t, err)
	assert.Equal(t, 0, cache.sets)
}

func TestCachedSource_CacheErrorFallsThrough(t *testing.T) {
	inner := SourceFunc(func(context.Context, Request) (string, error) { return "ok", nil })
	src := NewCachedSource(inner, &memCache{getErr: errors.New("conn refused")}, 0, nil)

	text, err := src.Explain(t.Context(), Request{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestCachedSource_UnreachableRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	if _, err := DialRedis(ctx, "127.0.0.1:1", "", 0); err == nil {
		t.Fatal("expected dial error for closed port")
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey(Request{Question: "ab", CorrectAnswer: "c", SelectedAnswer: "d"})
	b := CacheKey(Request{Question: "a", CorrectAnswer: "bc", SelectedAnswer: "d"})
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, keyPrefix))
	assert.Equal(t, a, CacheKey(Request{Question: "ab", CorrectAnswer: "c", SelectedAnswer: "d"}))
}

func TestLLMSource(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation": "  The go keyword starts a goroutine. "}`),
	})
	src := NewLLMSource(mock, DefaultLLMConfig())

	text, err := src.Explain(t.Context(), NewRequest(testQuestion(), 2, true))
	require.NoError(t, err)
	assert.Equal(t, "The go keyword starts a goroutine.", text)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	require.NotNil(t, req.Schema)
	assert.Equal(t, "answer-explanation", req.Schema.Name)
	assert.Contains(t, req.Messages[0].Content, "Learner's answer: spawn")
	assert.Contains(t, req.Messages[0].Content, "incorrectly")
}

func TestLLMSource_Errors(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: json.RawMessage(`{"explanation": ""}`)},
	)
	src := NewLLMSource(mock, DefaultLLMConfig())

	_, err := src.Explain(t.Context(), NewRequest(testQuestion(), 0, false))
	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)

	_, err = src.Explain(t.Context(), NewRequest(testQuestion(), 0, false))
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Contains(t, mock.Calls[1].Messages[0].Content, "skipped")
}
