package chat

import "time"

// typingStartedMsg fires after the pre-typing pause; the indicator shows.
type typingStartedMsg struct {
	ID string
}

// replyReadyMsg fires when the typing indicator has run its course and the
// pending reply can be shown.
type replyReadyMsg struct {
	ID string
}

// recordTickMsg is sent every second while recording.
type recordTickMsg time.Time
