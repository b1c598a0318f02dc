package eventholder

import "backsim/common"

// Holder is a FIFO queue of simulation events. The engine is single threaded
// so no locking is required
type Holder struct {
	Queue []common.Event
}
