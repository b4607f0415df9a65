package take

import "github.com/abhisek/trailhead/internal/quiz"

// loadedMsg carries the outcome of a quiz load. owner and epoch identify
// the screen and session that issued it.
type loadedMsg struct {
	owner int64
	epoch int
	state quiz.State
	err   error
}
