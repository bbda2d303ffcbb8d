package main

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// histogramBounds are the upper bounds of every bucket but the last, which
// takes everything slower.
var histogramBounds = []time.Duration{
	time.Millisecond,
	5 * time.Millisecond,
	10 * time.Millisecond,
	20 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	time.Second,
	2 * time.Second,
}

var histogramLabels = []string{"< 1ms", "5ms", "10ms", "20ms", "50ms", "100ms", "250ms", "1sec", "2sec", ">2sec"}

// Histogram of write latencies. Add is safe for concurrent use.
type Histogram struct {
	data [10]int64
}

func NewHistogram() *Histogram {
	return &Histogram{}
}

func (h *Histogram) bucket(sample time.Duration) int {
	for i, bound := range histogramBounds {
		if sample < bound {
			return i
		}
	}
	return len(histogramBounds)
}

func (h *Histogram) Add(sample time.Duration) {
	atomic.AddInt64(&h.data[h.bucket(sample)], 1)
}

// Count returns the number of samples in bucket i.
func (h *Histogram) Count(i int) int64 {
	return atomic.LoadInt64(&h.data[i])
}

func (h *Histogram) Total() int64 {
	var total int64
	for i := range h.data {
		total += atomic.LoadInt64(&h.data[i])
	}
	return total
}

func (h *Histogram) Reset() {
	for i := range h.data {
		atomic.StoreInt64(&h.data[i], 0)
	}
}

// String lines up with Headers.
func (h *Histogram) String() string {
	cols := make([]string, len(h.data))
	for i := range h.data {
		cols[i] = fmt.Sprintf("%*d", len(histogramLabels[i]), atomic.LoadInt64(&h.data[i]))
	}
	return strings.Join(cols, ", ")
}

func (h *Histogram) Headers() string {
	return strings.Join(histogramLabels, ", ")
}
