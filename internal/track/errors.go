package track

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput is returned when an operation receives an input it cannot work with
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnorderedInput is returned when fixes of a day are not ascending by time
	ErrUnorderedInput = errors.New("unordered input")
)

// OrderError reports the first fix whose timestamp is earlier than its predecessor
type OrderError struct {
	Index    int
	Previous time.Time
	Current  time.Time
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("fix %d at %s is earlier than previous fix at %s",
		e.Index, e.Current.Format(time.RFC3339), e.Previous.Format(time.RFC3339))
}

// Unwrap makes errors.Is(err, ErrUnorderedInput) work
func (e *OrderError) Unwrap() error {
	return ErrUnorderedInput
}
