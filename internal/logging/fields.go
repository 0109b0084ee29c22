package logging

// Field names for structured logging.
const (
	FieldError   = "error"
	FieldPath    = "path"
	FieldFiles   = "files"
	FieldJobs    = "jobs"
	FieldChanged = "changed"

	FieldDocument = "doc"
	FieldTrigger  = "trigger"
	FieldOffset   = "offset"
	FieldLine     = "line"
	FieldStyle    = "style"
	FieldEdits    = "edits"
	FieldStep     = "step"

	FieldMethod  = "method"
	FieldRequest = "id"

	FieldVersion = "version"
)
