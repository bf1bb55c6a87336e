package logger

// Standard field names for consistent structured logging.
const (
	FieldRunID     = "run_id"
	FieldComponent = "component"

	FieldSection    = "section"
	FieldDefinition = "definition"
	FieldProperty   = "property"
	FieldLink       = "link"
	FieldCount      = "count"

	FieldSource     = "source"
	FieldFile       = "file"
	FieldAddress    = "address"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)
