package transfer

import "io"

// Progress is one observation of a download in flight. Total is the
// advisory size hint from the listing or content length; it may be zero
// or wrong, in which case Percent stays within [0, 100] regardless.
type Progress struct {
	Received int64
	Total    int64
	Percent  float64
}

// ProgressFunc receives progress observations. Implementations decide how
// to render or throttle them.
type ProgressFunc func(Progress)

// Reporter projects raw byte-count deltas into clamped, monotonically
// non-decreasing percentages against an advisory total. It performs no
// I/O and is not safe for concurrent use; each download owns its own.
type Reporter struct {
	total    int64
	received int64
	percent  float64
	fn       ProgressFunc
}

func NewReporter(totalHint int64, fn ProgressFunc) *Reporter {
	return &Reporter{total: totalHint, fn: fn}
}

// Add records delta received bytes and emits an observation.
func (r *Reporter) Add(delta int64) {
	r.received += delta

	if r.total > 0 {
		percent := float64(r.received) / float64(r.total) * 100
		if percent > 100 {
			percent = 100
		}
		// The running total never shrinks, but guard against a hint that
		// changes meaning mid-stream.
		if percent > r.percent {
			r.percent = percent
		}
	}

	if r.fn != nil {
		r.fn(Progress{Received: r.received, Total: r.total, Percent: r.percent})
	}
}

// Received returns the running byte total.
func (r *Reporter) Received() int64 {
	return r.received
}

// progressReader counts bytes flowing through an io.Reader into a
// Reporter, one delta per chunk.
type progressReader struct {
	reader   io.Reader
	reporter *Reporter
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.reporter.Add(int64(n))
	}
	return n, err
}
