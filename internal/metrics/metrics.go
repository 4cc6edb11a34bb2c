// Package metrics holds the Prometheus collectors for the submission flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Submissions   *prometheus.CounterVec
	Orders        *prometheus.CounterVec
	OrphanedBlobs prometheus.Counter
	OrphansSwept  prometheus.Counter
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contest_submissions_total",
			Help: "Submission attempts by terminal state.",
		}, []string{"outcome"}),
		Orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contest_orders_total",
			Help: "Payment orders requested from the gateway.",
		}, []string{"result"}),
		OrphanedBlobs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contest_orphaned_blobs_total",
			Help: "Uploaded blobs whose compensating delete failed after a persistence error.",
		}),
		OrphansSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contest_orphans_swept_total",
			Help: "Unreferenced blobs removed by the orphan sweeper.",
		}),
	}
	reg.MustRegister(m.Submissions, m.Orders, m.OrphanedBlobs, m.OrphansSwept)
	return m
}
