package redisclient

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// victoriaMetricsCollector implements MetricsCollector on top of
// github.com/VictoriaMetrics/metrics. Metric names carry the verb or error
// category as a label so dashboards can break exchanges down per command.
type victoriaMetricsCollector struct {
	prefix string
}

// NewVictoriaMetricsCollector returns a MetricsCollector publishing into
// the process-wide VictoriaMetrics registry under the given prefix
// (for example "redisclient").
func NewVictoriaMetricsCollector(prefix string) MetricsCollector {
	return &victoriaMetricsCollector{prefix: prefix}
}

func (c *victoriaMetricsCollector) RecordCommand(verb string, duration time.Duration) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`%s_commands_total{verb=%q}`, c.prefix, verb)).Inc()
	metrics.GetOrCreateHistogram(fmt.Sprintf(`%s_command_duration_seconds{verb=%q}`, c.prefix, verb)).Update(duration.Seconds())
}

func (c *victoriaMetricsCollector) RecordConnect() {
	metrics.GetOrCreateCounter(c.prefix + "_connects_total").Inc()
}

func (c *victoriaMetricsCollector) RecordReconnection() {
	metrics.GetOrCreateCounter(c.prefix + "_reconnects_total").Inc()
}

func (c *victoriaMetricsCollector) RecordSentinelRound() {
	metrics.GetOrCreateCounter(c.prefix + "_sentinel_rounds_total").Inc()
}

func (c *victoriaMetricsCollector) RecordError(errorType string) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`%s_errors_total{type=%q}`, c.prefix, errorType)).Inc()
}
