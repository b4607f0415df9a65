package explain

import "sync"

// Status is the lifecycle position of one question's explanation.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Entry is the tracked state for one question.
type Entry struct {
	Status Status
	Text   string // explanation when succeeded, failure message when failed
	Err    error
}

// Tracker maps question IDs to explanation request state.
//
// A question may have at most one request in flight. Begin refuses a second
// request while one is pending, and once an explanation has arrived it is
// kept. A failed question may be requested again. After Close every
// Resolve is dropped.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]Entry
	closed  bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]Entry)}
}

// Begin marks questionID pending. It returns false when the request should
// not be issued: the tracker is closed, a request is already pending, or
// an explanation is already available.
func (t *Tracker) Begin(questionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	switch t.entries[questionID].Status {
	case StatusPending, StatusSucceeded:
		return false
	}
	t.entries[questionID] = Entry{Status: StatusPending}
	return true
}

// Resolve records the outcome of a pending request. It reports whether the
// result was applied; results for closed trackers or questions that are not
// pending are discarded.
func (t *Tracker) Resolve(questionID, text string, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.entries[questionID].Status != StatusPending {
		return false
	}
	if err == nil && text == "" {
		err = ErrEmpty
	}
	if err != nil {
		t.entries[questionID] = Entry{Status: StatusFailed, Text: FailureMessage, Err: err}
		return true
	}
	t.entries[questionID] = Entry{Status: StatusSucceeded, Text: text}
	return true
}

// Get returns the entry for questionID. Unknown questions are idle.
func (t *Tracker) Get(questionID string) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[questionID]
}

// Pending returns the number of requests in flight.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.entries {
		if e.Status == StatusPending {
			n++
		}
	}
	return n
}

// Close stops the tracker from accepting new requests or results.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

// Closed reports whether Close has been called.
func (t *Tracker) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
