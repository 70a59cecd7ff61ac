package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldSubcomponent = "subcomponent"
	FieldRunID        = "run_id"
	FieldSource       = "source"
	FieldDuration     = "duration_ms"
	FieldSuccess      = "success"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldSink         = "sink"
	FieldRecordIndex  = "record_index"
	FieldColumn       = "column"
	FieldValue        = "value"
	FieldRecord       = "record"
	FieldTargetYear   = "target_year"
	FieldRows         = "rows"
	FieldSkipped      = "skipped"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentPipeline = "pipeline"
	ComponentCatalog  = "catalog"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentSheets   = "sheets"
	ComponentSink     = "sink"
)

// Operations defines standard operation names
const (
	OpRead      = "read"
	OpAggregate = "aggregate"
	OpReport    = "report"
	OpPublish   = "publish"
	OpList      = "list"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSource adds the catalog source description
func (f LogFields) WithSource(source string) LogFields {
	f[FieldSource] = source
	return f
}

// WithRecordFailure adds the fields describing a skipped catalog record.
// index counts data records from 1, not file lines.
func (f LogFields) WithRecordFailure(index int, column, value string) LogFields {
	f[FieldRecordIndex] = index
	f[FieldColumn] = column
	f[FieldValue] = value
	return f
}

// ToSlice converts LogFields to a slice for slog, ordered by key so output
// is stable.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
