package yolov3

import "github.com/nvr-ai/go-yolov3/models/postprocess"

// Collector gathers candidates from every scale and image of one forward pass,
// in discovery order.
type Collector struct {
	candidates []postprocess.Candidate
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a candidate.
func (c *Collector) Add(candidate postprocess.Candidate) {
	c.candidates = append(c.candidates, candidate)
}

// Len returns the number of collected candidates.
func (c *Collector) Len() int { return len(c.candidates) }

// Candidates returns the collected candidates. The slice is owned by the
// collector until Reset.
func (c *Collector) Candidates() []postprocess.Candidate {
	return c.candidates
}

// Reset empties the collector, keeping its capacity.
func (c *Collector) Reset() {
	c.candidates = c.candidates[:0]
}
