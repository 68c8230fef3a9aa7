package logging

// Field names shared by all components so that log lines from different
// stages of a merge run can be filtered on the same keys.
const (
	FieldFile       = "file_path"
	FieldDirectory  = "directory"
	FieldPlatform   = "platform"
	FieldEncoding   = "encoding"
	FieldHeaderRow  = "header_row"
	FieldRow        = "row"
	FieldCategory   = "category"
	FieldPriority   = "rule_priority"
	FieldPattern    = "pattern"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldCount      = "count"
	FieldDuration   = "duration_ms"
	FieldRunID      = "run_id"
	FieldWorkers    = "workers"
	FieldOutputFile = "output_file"
	FieldFormat     = "format"
)
