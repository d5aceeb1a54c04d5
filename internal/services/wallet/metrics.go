package wallet

// MetricsCollector records ledger operation outcomes.
type MetricsCollector interface {
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
	RecordBalanceChange(userID uint, oldBalance, newBalance float64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, float64)          {}
func (n *NoopMetricsCollector) RecordError(string, string)                 {}
func (n *NoopMetricsCollector) RecordBalanceChange(uint, float64, float64) {}
