package entity

// Event types accepted by the telemetry sink, one per workflow.
const (
	EventTypeCostReport         = "AwsCostReport"
	EventTypeOptimizationReport = "AwsOptimizationReport"
)

// Record types within an event family. Each workflow run emits any number
// of detail records plus exactly one summary record.
const (
	RecordTypeDetail  = "detail"
	RecordTypeSummary = "summary"
)

// EventRecord is one telemetry event ready for ingestion. Attributes hold
// only scalar values (strings, numbers, booleans) keyed by dotted names.
// Records are created once per run, never mutated, and sent once; delivery
// retries are the sink's concern.
type EventRecord struct {
	EventType  string         `json:"eventType"`
	RecordType string         `json:"recordType"`
	Attributes map[string]any `json:"-"`
}

// NewEventRecord builds a record with its type fields pre-populated in the
// attribute map, which is what the sink serializes.
func NewEventRecord(eventType, recordType string) EventRecord {
	return EventRecord{
		EventType:  eventType,
		RecordType: recordType,
		Attributes: map[string]any{
			"eventType":  eventType,
			"recordType": recordType,
		},
	}
}
