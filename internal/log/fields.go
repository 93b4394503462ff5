package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldDataset    = "dataset"
	FieldDatasetID  = "dataset_id"
	FieldRows       = "rows"
	FieldDropped    = "rows_dropped"
	FieldFilename   = "filename"
	FieldExtension  = "extension"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentIngest  = "ingest"
	ComponentStorage = "storage"
	ComponentUpload  = "upload"
	ComponentAMQP    = "amqp"
)

// Operations defines standard operation names
const (
	OpDecode    = "decode"
	OpNormalize = "normalize"
	OpPersist   = "persist"
	OpQuery     = "query"
	OpExport    = "export"
	OpPublish   = "publish"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
