package logger

// ログのフィールド名（全パッケージ共通）
const (
	FieldService   = "service"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldRequestID = "request_id"
	FieldPersonID  = "person_id"
	FieldPart      = "part"
	FieldBatchID   = "batch_id"
	FieldDay       = "day"
)
