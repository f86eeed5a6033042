package authapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts API outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	TokenRejected prometheus.Counter
}

// NewMetrics registers the API metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idaas_registrations_total",
			Help: "Registration attempts by outcome",
		}, []string{"outcome"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idaas_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		TokenRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "idaas_token_rejected_total",
			Help: "Requests to authenticated routes rejected for a missing or invalid token",
		}),
	}
}

func (m *Metrics) registration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) login(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) tokenRejected() {
	if m == nil {
		return
	}
	m.TokenRejected.Inc()
}
