package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldExpenseID = "id"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldChatID    = "chat_id"
	FieldQueue     = "queue"
	FieldOperation = "op"
)

// Components defines standard component names, one per binary.
const (
	ComponentBot    = "bot"
	ComponentWorker = "worker"
)
