// Package metrics exposes the Prometheus instrumentation for the
// translation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TranslationsTotal counts completed translations by serving engine.
	TranslationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translations_total",
		Help: "Completed translations by engine.",
	}, []string{"engine"})

	// TranslationErrorsTotal counts failed translations by engine and
	// error kind (network, empty_result, invalid_credential, other).
	TranslationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translation_errors_total",
		Help: "Failed translations by engine and error kind.",
	}, []string{"engine", "kind"})

	// CredentialFallbacksTotal counts generative requests that were
	// retried on the phrase engine after a credential rejection.
	CredentialFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credential_fallbacks_total",
		Help: "Translations retried on the phrase engine after a credential rejection.",
	})

	// HistorySize tracks the current number of records in the history log.
	HistorySize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "history_records",
		Help: "Current number of records in the translation history log.",
	})
)
