// Package trace provides structured event recording for line simulations.
// It has no dependencies on sim/ or sim/scenario/ and stores pure data types.
package trace

// Kind names what happened to an item at an entity.
type Kind string

const (
	KindArrive           Kind = "ARRIVE"
	KindQueuePut         Kind = "QUEUE_PUT"
	KindQueueGet         Kind = "QUEUE_GET"
	KindRequest          Kind = "REQUEST"
	KindStartProcessing  Kind = "START_PROCESSING"
	KindFinishProcessing Kind = "FINISH_PROCESSING"
	KindConveyorEnter    Kind = "CONVEYOR_ENTER"
	KindConveyorExit     Kind = "CONVEYOR_EXIT"
	KindComplete         Kind = "COMPLETE"
)

// EventRecord captures a single entity operation on an item.
type EventRecord struct {
	Time    float64 `json:"timestamp" yaml:"timestamp"`
	Entity  string  `json:"entity_name" yaml:"entity_name"`
	Kind    Kind    `json:"event_type" yaml:"event_type"`
	Item    string  `json:"load_name" yaml:"load_name"`
	Message string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// Recorder receives EventRecords in emission order.
type Recorder interface {
	Record(EventRecord)
}

// Nop discards every record.
type Nop struct{}

func (Nop) Record(EventRecord) {}
