package todolist

import "time"

// AcknowledgeDelay is how long after a committed edit the success
// acknowledgment is delivered.
const AcknowledgeDelay = 2 * time.Second

// EditedMessage is the text of the acknowledgment for a committed edit.
const EditedMessage = "Task Edited successfully!"

// EditSession holds the draft state of an in-progress edit
type EditSession struct {
	TargetIndex      int
	DraftText        string
	DraftDescription string
	MissingName      bool // set by a commit rejected for a blank name
}

// DeleteConfirmation is a pending request to delete one todo
type DeleteConfirmation struct {
	TargetIndex int
}

// Acknowledgment is a notification produced by a committed edit. It is
// meant to be delivered once Delay has elapsed and carries no state back
// into the model.
type Acknowledgment struct {
	Index   int
	Message string
	Delay   time.Duration
}
