package topics

const (
	// Sinais
	SignalBatches    = "signal_batches"
	SignalBatchesDLQ = "signal_batches_dlq"

	// Relatórios de alocação
	AllocationReports = "allocation_reports"
)
