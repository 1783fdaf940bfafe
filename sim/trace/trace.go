package trace

// Log is an append-only in-memory Recorder.
type Log struct {
	Records []EventRecord
}

// NewLog creates a Log ready for recording.
func NewLog() *Log {
	return &Log{Records: make([]EventRecord, 0)}
}

// Record appends an event record.
func (l *Log) Record(r EventRecord) {
	l.Records = append(l.Records, r)
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.Records)
}

// Filter returns the records matching kind, in order.
func (l *Log) Filter(kind Kind) []EventRecord {
	out := make([]EventRecord, 0)
	for _, r := range l.Records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// ForEntity returns the records emitted by the named entity, in order.
func (l *Log) ForEntity(name string) []EventRecord {
	out := make([]EventRecord, 0)
	for _, r := range l.Records {
		if r.Entity == name {
			out = append(out, r)
		}
	}
	return out
}
