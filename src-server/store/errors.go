package store

import "fmt"

// Message returned for a create without date or title.
const MsgDateAndTitleRequired = "date and title are required"

// The request was rejected before reaching storage.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// No event with that id exists.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event %q not found", e.ID)
}

// The persistence layer could not be reached or failed mid-operation.
// No partial state change has been made when this is returned.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
