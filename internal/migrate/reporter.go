package migrate

import (
	"go.uber.org/zap"

	"github.com/dropDatabas3/nido/internal/audit"
	"github.com/dropDatabas3/nido/internal/metrics"
	"github.com/dropDatabas3/nido/internal/observability/logger"
)

// MetricsReporter publica divergencias y skips como métricas Prometheus.
// Solo endpoint, op y severidad: nunca payloads.
type MetricsReporter struct{}

func (MetricsReporter) Report(rep DivergenceReport) {
	inv := rep.Invocation
	metrics.DivergencesTotal.WithLabelValues(inv.Endpoint, inv.Op, string(rep.Severity)).Inc()
}

func (MetricsReporter) Skipped(inv Invocation, reason string) {
	metrics.VerifySkippedTotal.WithLabelValues(inv.Endpoint, reason).Inc()
}

// LogReporter escribe divergencias no-idénticas al log estructurado.
type LogReporter struct {
	log *zap.Logger
}

func NewLogReporter() *LogReporter {
	return &LogReporter{log: logger.Named("migrate.verify")}
}

func (r *LogReporter) Report(rep DivergenceReport) {
	if rep.Severity == SeverityIdentical {
		return
	}
	inv := rep.Invocation
	fields := []zap.Field{
		zap.String("invocation_id", inv.ID),
		zap.String("endpoint", inv.Endpoint),
		zap.String("op", inv.Op),
		zap.String("mode", inv.Mode.String()),
		zap.String("severity", string(rep.Severity)),
		zap.Duration("primary_ms", rep.Primary.Elapsed),
		zap.Duration("secondary_ms", rep.Secondary.Elapsed),
		zap.Bool("sampled", rep.Sampled),
	}
	if len(rep.Diffs) > 0 {
		paths := make([]string, 0, len(rep.Diffs))
		for _, d := range rep.Diffs {
			paths = append(paths, d.Path+":"+d.Kind)
		}
		fields = append(fields, zap.Strings("diffs", paths))
	}
	r.log.Warn("divergencia entre stores", fields...)
}

func (r *LogReporter) Skipped(inv Invocation, reason string) {
	r.log.Debug("verificación salteada",
		zap.String("endpoint", inv.Endpoint),
		zap.String("op", inv.Op),
		zap.String("reason", reason),
	)
}

// AuditReporter deja traza de auditoría de divergencias MAJOR y
// ERROR_MISMATCH, que son las que requieren reconciliación manual.
type AuditReporter struct{}

func (AuditReporter) Report(rep DivergenceReport) {
	if rep.Severity != SeverityMajor && rep.Severity != SeverityErrorMismatch {
		return
	}
	inv := rep.Invocation
	audit.Log("migration.divergence", map[string]any{
		"invocation_id": inv.ID,
		"endpoint":      inv.Endpoint,
		"op":            inv.Op,
		"mode":          inv.Mode.String(),
		"severity":      string(rep.Severity),
		"diff_count":    len(rep.Diffs),
	})
}

func (AuditReporter) Skipped(Invocation, string) {}

// MultiReporter hace fan-out a varios reporters. Un panic en un
// reporter se cuenta como ReportingFailure y no toca a los demás.
type MultiReporter []Reporter

func (m MultiReporter) Report(rep DivergenceReport) {
	for _, r := range m {
		safeReport(func() { r.Report(rep) })
	}
}

func (m MultiReporter) Skipped(inv Invocation, reason string) {
	for _, r := range m {
		safeReport(func() { r.Skipped(inv, reason) })
	}
}

func safeReport(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.ReportFailuresTotal.Inc()
		}
	}()
	fn()
}

// DefaultReporter es el fan-out estándar: métricas + log + audit.
func DefaultReporter() Reporter {
	return MultiReporter{MetricsReporter{}, NewLogReporter(), AuditReporter{}}
}
