package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldRunID is the pipeline run ID.
	FieldRunID = "run_id"

	// FieldStage is the pipeline stage currently executing.
	FieldStage = "stage"

	// FieldRow is the sheet row number of the lead being worked.
	FieldRow = "row"

	// FieldComponent is the component/module name.
	FieldComponent = "component"
)

// Metric fields attached at the log site for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds.
	FieldDurationMs = "duration_ms"

	// FieldStatus is the operation status.
	FieldStatus = "status"

	// FieldCount is a generic count field.
	FieldCount = "count"
)
