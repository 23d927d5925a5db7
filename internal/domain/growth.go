package domain

import "time"

// GrowthWindowSpan is how far back size samples are retained relative
// to the newest sample.
const GrowthWindowSpan = 60 * time.Second

// SizeSample is one (timestamp, size) observation of a session file.
type SizeSample struct {
	At        time.Time
	SizeBytes int64
}

// GrowthWindow holds the retained samples for one session in insertion
// order. Samples are only appended and pruned, never mutated.
type GrowthWindow struct {
	samples []SizeSample
}

// Observe appends a sample and prunes everything older than the window
// span relative to the new sample.
func (w *GrowthWindow) Observe(at time.Time, size int64) {
	w.samples = append(w.samples, SizeSample{At: at, SizeBytes: size})

	cutoff := at.Add(-GrowthWindowSpan)
	keep := 0
	for keep < len(w.samples)-1 && w.samples[keep].At.Before(cutoff) {
		keep++
	}
	w.samples = w.samples[keep:]
}

// Rate returns the growth rate in bytes per second computed from the
// oldest and newest retained samples. The second return is false until
// two samples spanning a positive interval exist. A shrinking file
// (reset mid-window) clamps to zero instead of reporting negative
// growth.
func (w *GrowthWindow) Rate() (float64, bool) {
	if len(w.samples) < 2 {
		return 0, false
	}

	oldest := w.samples[0]
	newest := w.samples[len(w.samples)-1]

	elapsed := newest.At.Sub(oldest.At).Seconds()
	if elapsed <= 0 {
		return 0, false
	}

	delta := newest.SizeBytes - oldest.SizeBytes
	if delta < 0 {
		return 0, true
	}

	return float64(delta) / elapsed, true
}

// GrowthTracker keys growth windows by session. State is in-memory
// only; a daemon restart re-baselines within two scans.
type GrowthTracker struct {
	windows map[SessionID]*GrowthWindow
}

func NewGrowthTracker() *GrowthTracker {
	return &GrowthTracker{windows: map[SessionID]*GrowthWindow{}}
}

func (t *GrowthTracker) Record(id SessionID, at time.Time, size int64) {
	w, ok := t.windows[id]
	if !ok {
		w = &GrowthWindow{}
		t.windows[id] = w
	}
	w.Observe(at, size)
}

func (t *GrowthTracker) Rate(id SessionID) (float64, bool) {
	w, ok := t.windows[id]
	if !ok {
		return 0, false
	}
	return w.Rate()
}
