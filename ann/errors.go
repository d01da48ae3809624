package ann

import "fmt"

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned by training.
var (
	ErrEmptyBatch       = Error{"Training batch has no samples"}
	ErrTrainingInFlight = Error{"Background training is already running"}
)

// SizeMismatchError documents an input or target whose length does not match the size of the
// layer it is given to. It is never recovered from by padding or truncating.
type SizeMismatchError struct {
	Expected, Got int
	Name          string
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("Size of %s does not match (expected %d, got %d)", err.Name, err.Expected, err.Got)
}
