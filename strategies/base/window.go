package base

// PriceWindow is a fixed capacity ring buffer of prices. Appending beyond
// capacity overwrites the oldest value so long replays stay bounded
type PriceWindow struct {
	values []float64
	start  int
	length int
}

// NewPriceWindow allocates a window holding up to capacity values
func NewPriceWindow(capacity int) *PriceWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &PriceWindow{values: make([]float64, capacity)}
}

// Append pushes a value, evicting the oldest when full
func (w *PriceWindow) Append(v float64) {
	if w.length < len(w.values) {
		w.values[(w.start+w.length)%len(w.values)] = v
		w.length++
		return
	}
	w.values[w.start] = v
	w.start = (w.start + 1) % len(w.values)
}

// Len returns how many values the window currently holds
func (w *PriceWindow) Len() int {
	return w.length
}

// Values returns the held values oldest first
func (w *PriceWindow) Values() []float64 {
	out := make([]float64, w.length)
	for i := 0; i < w.length; i++ {
		out[i] = w.values[(w.start+i)%len(w.values)]
	}
	return out
}

// Last returns the most recent n values oldest first, or everything held when
// fewer are available
func (w *PriceWindow) Last(n int) []float64 {
	if n > w.length {
		n = w.length
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = w.values[(w.start+w.length-n+i)%len(w.values)]
	}
	return out
}
