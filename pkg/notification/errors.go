package notification

import "fmt"

// ErrCenterClosed is returned when posting to a closed center.
type ErrCenterClosed struct{}

func (e ErrCenterClosed) Error() string {
	return "notification: center is closed"
}

// ErrEmptyName is returned when a notification name is empty.
type ErrEmptyName struct {
	Operation string
}

func (e ErrEmptyName) Error() string {
	return fmt.Sprintf("notification: %s requires a name", e.Operation)
}
