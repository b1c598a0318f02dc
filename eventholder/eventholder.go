package eventholder

import "backsim/common"

// Reset drops any queued events
func (h *Holder) Reset() {
	if h == nil {
		return
	}
	h.Queue = nil
}

// AppendEvent adds an event to the back of the queue, ignoring nils
func (h *Holder) AppendEvent(e common.Event) {
	if e == nil {
		return
	}
	h.Queue = append(h.Queue, e)
}

// NextEvent pops the oldest event, or nil when the queue is empty
func (h *Holder) NextEvent() common.Event {
	if len(h.Queue) == 0 {
		return nil
	}
	e := h.Queue[0]
	h.Queue = h.Queue[1:]
	return e
}

// IsEmpty reports whether any events remain queued
func (h *Holder) IsEmpty() bool {
	return len(h.Queue) == 0
}
