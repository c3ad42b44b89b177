package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements Recorder using prometheus counters.
type Prometheus struct {
	registrations  prometheus.Counter
	logins         prometheus.Counter
	logouts        prometheus.Counter
	authFailures   *prometheus.CounterVec
	walletsCreated prometheus.Counter
}

// NewPrometheus creates a Recorder registered on the given registerer.
// Pass prometheus.DefaultRegisterer in production.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)

	return &Prometheus{
		registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "vinped_registrations_total",
			Help: "Total number of successful user registrations.",
		}),
		logins: factory.NewCounter(prometheus.CounterOpts{
			Name: "vinped_logins_total",
			Help: "Total number of successful logins.",
		}),
		logouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "vinped_logouts_total",
			Help: "Total number of logouts.",
		}),
		authFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vinped_auth_failures_total",
			Help: "Total number of rejected authentications by reason.",
		}, []string{"reason"}),
		walletsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "vinped_wallets_created_total",
			Help: "Total number of wallets created.",
		}),
	}
}

func (p *Prometheus) IncRegistration() { p.registrations.Inc() }

func (p *Prometheus) IncLogin() { p.logins.Inc() }

func (p *Prometheus) IncLogout() { p.logouts.Inc() }

func (p *Prometheus) IncAuthFailure(reason string) {
	p.authFailures.WithLabelValues(reason).Inc()
}

func (p *Prometheus) IncWalletCreated() { p.walletsCreated.Inc() }
