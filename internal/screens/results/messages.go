package results

import "time"

// RestartMsg asks the quiz screen identified by Owner to restart the
// session it completed at Epoch.
type RestartMsg struct {
	Owner int64
	Epoch int
}

// ClosedMsg tells the quiz screen identified by Owner that its results
// were dismissed.
type ClosedMsg struct {
	Owner int64
}

// explainedMsg carries one explanation response back to the screen that
// asked for it.
type explainedMsg struct {
	owner      int64
	questionID string
	text       string
	err        error
	latency    time.Duration
}
