package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalytics(_ *AnalyticsSnapshot) error { return nil }
func (n *NoopRecorder) RecordAlert(_ *AlertEvent) error            { return nil }
func (n *NoopRecorder) AnalyticsHistory(_ int) ([]AnalyticsSnapshot, error) {
	return []AnalyticsSnapshot{}, nil
}
func (n *NoopRecorder) Close() error { return nil }
