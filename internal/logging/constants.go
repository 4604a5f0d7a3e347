package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldKind       = "source_kind"
	FieldCategory   = "category"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldCount      = "count"
	FieldRunID      = "run_id"
	FieldBackend    = "store_backend"
	FieldRevision   = "revision"
	FieldPolicy     = "policy"
	FieldOutputFile = "output_file"
	FieldDuration   = "duration_ms"
)
