package core

import "sync"

// Sink receives diagnostics as they are produced.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(d Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Collector is a Sink that keeps every diagnostic in memory.
// It is safe for concurrent use, so a single Collector may be shared by
// validations running on several goroutines.
type Collector struct {
	mu          sync.Mutex
	diagnostics Diagnostics
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// ReportAll appends every diagnostic in ds.
func (c *Collector) ReportAll(ds []Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, ds...)
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(Diagnostics, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diagnostics)
}

// Reset discards all collected diagnostics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = nil
}
