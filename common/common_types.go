package common

import (
	"errors"
	"time"
)

// ErrNilArguments is a common error response to highlight that nils were
// passed in when they should not have been
var ErrNilArguments = errors.New("received nil argument(s)")

// Event is the behaviour required of anything travelling through the fill
// event queue
type Event interface {
	GetTime() time.Time
	GetSymbol() string
}
