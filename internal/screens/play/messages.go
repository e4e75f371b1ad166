package play

import (
	sess "github.com/klazic/trigo/internal/session"
)

// sessionReadyMsg is sent when question generation has finished.
type sessionReadyMsg struct {
	Controller *sess.Controller
}

// sessionRecordedMsg is sent once the finished session was forwarded to
// progress and streak tracking.
type sessionRecordedMsg struct {
	Err error
}

// feedback describes the answer that was just scored.
type feedback struct {
	Prompt  string
	Choices []string
	Picked  int
	Answer  int
	Correct bool
	Last    bool
}
