package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldClienteID     = "cliente_id"
	FieldClienteNome   = "cliente_nome"
	FieldFaturamentoID = "faturamento_id"
	FieldProdutoID     = "produto_id"
	FieldAnotacaoID    = "anotacao_id"
	FieldValor         = "valor"
	FieldStatus        = "status"
	FieldTipo          = "tipo"
	FieldMes           = "mes"
	FieldAno           = "ano"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAPI     = "api"
	ComponentUI      = "ui"
	ComponentStorage = "storage"
	ComponentService = "service"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpRead    = "read"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpList    = "list"
	OpExport  = "export"
	OpProcess = "process"
)
