package metrics

import "time"

// Summary 指标摘要，供WebSocket推送和Redis快照使用
type Summary struct {
	Timestamp         int64              `json:"timestamp"`
	RequestsTotal     float64            `json:"requests_total"`
	ErrorsTotal       float64            `json:"errors_total"`
	ActiveConnections int64              `json:"active_connections"`
	LatencyCount      uint64             `json:"latency_count"`
	AvgLatencyMs      float64            `json:"avg_latency_ms"`
	ByEndpoint        map[string]float64 `json:"by_endpoint"`
	ByStatus          map[string]float64 `json:"by_status"`
}

// Summarize 从Registry聚合出当前指标摘要
func (m *Metrics) Summarize() (*Summary, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Timestamp:         time.Now().Unix(),
		ActiveConnections: m.InFlight(),
		ByEndpoint:        make(map[string]float64),
		ByStatus:          make(map[string]float64),
	}

	for _, family := range families {
		switch family.GetName() {
		case "http_requests_total":
			for _, metric := range family.GetMetric() {
				value := metric.GetCounter().GetValue()
				summary.RequestsTotal += value
				for _, label := range metric.GetLabel() {
					switch label.GetName() {
					case "endpoint":
						summary.ByEndpoint[label.GetValue()] += value
					case "status":
						summary.ByStatus[label.GetValue()] += value
					}
				}
			}
		case "http_errors_total":
			for _, metric := range family.GetMetric() {
				summary.ErrorsTotal += metric.GetCounter().GetValue()
			}
		case "http_request_duration_seconds":
			for _, metric := range family.GetMetric() {
				summary.LatencyCount += metric.GetHistogram().GetSampleCount()
				if count := metric.GetHistogram().GetSampleCount(); count > 0 {
					summary.AvgLatencyMs = metric.GetHistogram().GetSampleSum() / float64(count) * 1000
				}
			}
		}
	}

	return summary, nil
}
