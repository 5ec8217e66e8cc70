package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Migration-related Prometheus metrics. Paquete standalone para evitar
// ciclos de import entre migrate y los paquetes HTTP.
//
// Los labels son endpoint/op/severity/store/reason: nunca payloads ni
// routing keys (datos de usuario no salen por telemetría).

var (
	DivergencesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "migration_divergences_total",
		Help: "Divergencias detectadas entre primary y secondary, por severidad",
	}, []string{"endpoint", "op", "severity"})

	StoreCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "migration_store_call_seconds",
		Help:    "Latencia de llamadas a cada backing store",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"endpoint", "store"})

	ShadowDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "migration_shadow_dropped_total",
		Help: "Tareas shadow descartadas por cola llena",
	}, []string{"endpoint"})

	VerifySkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "migration_verify_skipped_total",
		Help: "Verificaciones salteadas (timeout, dropped, cancelled)",
	}, []string{"endpoint", "reason"})

	FlagRefreshFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "migration_flag_refresh_failures_total",
		Help: "Fallos al refrescar la config de flags desde el source",
	})

	ReportFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "migration_report_failures_total",
		Help: "Fallos de reporting a telemetría (tragados, nunca propagados)",
	})
)

// RegisterMigration registers the migration metrics on the given registry
// (or default if nil).
func RegisterMigration(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cs := []prometheus.Collector{
		DivergencesTotal,
		StoreCallDuration,
		ShadowDroppedTotal,
		VerifySkippedTotal,
		FlagRefreshFailures,
		ReportFailuresTotal,
	}
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
