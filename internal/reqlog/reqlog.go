// Package reqlog records one entry per handled request.
//
// Recording is a pure observer: sinks never fail the request they describe.
package reqlog

import (
	"context"
	"time"
)

// Entry describes a completed request.
type Entry struct {
	Method    string
	Path      string
	Status    int
	RequestID string
	Duration  time.Duration
	Time      time.Time
}

// Recorder receives request entries. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, e Entry)

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, e Entry) { f(ctx, e) }

// Multi fans an entry out to every recorder in order.
type Multi []Recorder

// Record implements Recorder.
func (m Multi) Record(ctx context.Context, e Entry) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, e)
		}
	}
}

// Nop discards entries.
var Nop Recorder = RecorderFunc(func(context.Context, Entry) {})
