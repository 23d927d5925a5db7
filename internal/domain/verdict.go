package domain

import "fmt"

// Layer identifies which detection rule fired, if any. Evaluation is
// strict precedence: the first matching layer wins.
type Layer int

const (
	NoTrigger Layer = iota
	Layer1Nested
	Layer2RapidGrowth
	Layer3Bloated
	Layer4Monitor
)

func (l Layer) String() string {
	switch l {
	case NoTrigger:
		return "no-trigger"
	case Layer1Nested:
		return "layer1-nested-injection"
	case Layer2RapidGrowth:
		return "layer2-rapid-growth"
	case Layer3Bloated:
		return "layer3-bloated-size"
	case Layer4Monitor:
		return "layer4-monitor"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// Intervenes reports whether the layer warrants archive-and-reset.
// Layer 4 is observation only and must never reach the executor.
func (l Layer) Intervenes() bool {
	switch l {
	case Layer1Nested, Layer2RapidGrowth, Layer3Bloated:
		return true
	default:
		return false
	}
}

// Thresholds are the tunable limits behind the four layers. All limits
// trigger on strictly-greater comparisons; the marker sub-conditions of
// layers 2 and 3 are fixed by the policy itself.
type Thresholds struct {
	// NestedLimit: layer 1 fires when the count of records holding
	// more than one confirmed marker exceeds this. The default of 0
	// means a single nested record triggers.
	NestedLimit int
	// GrowthLimitBytes: layer 2 fires when the session grew faster
	// than this many bytes per GrowthWindowSpan, with at least one
	// marker present.
	GrowthLimitBytes int64
	// SizeLimitBytes: layer 3 fires above this size when at least two
	// markers corroborate.
	SizeLimitBytes int64
	// MarkerLimit: layer 4 records sessions with more total markers
	// than this.
	MarkerLimit int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		NestedLimit:      0,
		GrowthLimitBytes: 1 << 20,
		SizeLimitBytes:   10 << 20,
		MarkerLimit:      10,
	}
}

// Verdict is the outcome of one evaluation, carrying the numeric
// evidence that produced it. Built fresh each cycle, never persisted
// directly.
type Verdict struct {
	Layer           Layer
	Reason          string
	Markers         int
	Nested          int
	SizeBytes       int64
	RateBytesPerSec float64
	RateKnown       bool
}

// Evaluate applies the four-layer policy top-down and stops at the
// first match. rateKnown is false until the growth tracker has two
// samples for the session; an unknown rate never triggers layer 2.
func Evaluate(sess Session, rate float64, rateKnown bool, th Thresholds) Verdict {
	v := Verdict{
		Layer:           NoTrigger,
		Reason:          "session is healthy",
		Markers:         sess.MarkerCount,
		Nested:          sess.NestedCount,
		SizeBytes:       sess.SizeBytes,
		RateBytesPerSec: rate,
		RateKnown:       rateKnown,
	}

	rateLimit := float64(th.GrowthLimitBytes) / GrowthWindowSpan.Seconds()

	switch {
	case sess.NestedCount > th.NestedLimit:
		v.Layer = Layer1Nested
		v.Reason = fmt.Sprintf("nested injection blocks detected (%d records) - possible feedback loop", sess.NestedCount)
	case rateKnown && rate > rateLimit && sess.MarkerCount >= 1:
		v.Layer = Layer2RapidGrowth
		v.Reason = fmt.Sprintf("rapid growth with injection markers present (%.0f B/s)", rate)
	case sess.SizeBytes > th.SizeLimitBytes && sess.MarkerCount >= 2:
		v.Layer = Layer3Bloated
		v.Reason = fmt.Sprintf("session size %d bytes exceeds limit with %d markers", sess.SizeBytes, sess.MarkerCount)
	case sess.MarkerCount > th.MarkerLimit:
		v.Layer = Layer4Monitor
		v.Reason = fmt.Sprintf("elevated injection marker count (%d)", sess.MarkerCount)
	}

	return v
}
