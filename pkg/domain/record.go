package domain

// Record is one executed transition, emitted for tracing and rendering.
type Record[S, Q comparable] struct {
	Step  int  `json:"step"`
	From  Q    `json:"state_before"`
	Read  S    `json:"symbol_read"`
	Write S    `json:"symbol_written"`
	Move  Move `json:"move"`
	To    Q    `json:"state_after"`
}

// Trace is the append-only path of a run.
type Trace[S, Q comparable] struct {
	records []Record[S, Q]
}

// Append adds a record at the end of the path.
func (t *Trace[S, Q]) Append(r Record[S, Q]) {
	t.records = append(t.records, r)
}

// Len returns the number of records.
func (t *Trace[S, Q]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the path.
func (t *Trace[S, Q]) Records() []Record[S, Q] {
	if t == nil {
		return nil
	}
	return append([]Record[S, Q](nil), t.records...)
}
