package runner

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

type jsonLine[S, Q comparable] struct {
	domain.Record[S, Q]
	Head *int `json:"head,omitempty"`
	Tape []S  `json:"tape,omitempty"`
}

// JSONSink writes one JSON object per transition (NDJSON). When built with a
// configuration it also reports the head and tape after the step.
type JSONSink[S, Q comparable] struct {
	mu  sync.Mutex
	enc *json.Encoder
	cfg *domain.Configuration[S, Q]
	err error
}

// NewJSONSink writes to w; cfg may be nil.
func NewJSONSink[S, Q comparable](w io.Writer, cfg *domain.Configuration[S, Q]) *JSONSink[S, Q] {
	return &JSONSink[S, Q]{enc: json.NewEncoder(w), cfg: cfg}
}

// Record implements ports.TraceSink.
func (j *JSONSink[S, Q]) Record(ctx context.Context, rec domain.Record[S, Q]) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return
	}

	line := jsonLine[S, Q]{Record: rec}
	if j.cfg != nil {
		head := j.cfg.Head
		line.Head = &head
		line.Tape = append([]S(nil), j.cfg.Tape...)
	}
	j.err = j.enc.Encode(line)
}

// Err returns the first encoding or write error, if any.
func (j *JSONSink[S, Q]) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}
