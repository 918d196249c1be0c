package multisig

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess        = "success"
	resultRejected       = "rejected"
	resultTransferFailed = "transfer_failed"
)

// Metrics counts the operations processed by the Engine. A nil Metrics is
// valid and records nothing.
type Metrics struct {
	created    prometheus.Counter
	votes      prometheus.Counter
	executions *prometheus.CounterVec
}

// NewMetrics creates the multisig counters and registers them with given
// registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "multisig",
			Name:      "proposals_created_total",
			Help:      "Number of proposals created.",
		}),
		votes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "multisig",
			Name:      "votes_total",
			Help:      "Number of approvals recorded.",
		}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "multisig",
			Name:      "executions_total",
			Help:      "Number of execution attempts by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{m.created, m.votes, m.executions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) proposalCreated() {
	if m != nil {
		m.created.Inc()
	}
}

func (m *Metrics) voteRecorded() {
	if m != nil {
		m.votes.Inc()
	}
}

func (m *Metrics) executed(result string) {
	if m != nil {
		m.executions.With(prometheus.Labels{"result": result}).Inc()
	}
}
