// Package metrics counts scorekeeping activity for Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kartboard"

// Recorder receives game service events
type Recorder interface {
	GameCreated()
	PlayerRegistered()
	ResultsRecorded(count int)
	RaceSubmitted()
	GameReset()
	Rejected(reason string)
}

// Metrics is a Recorder backed by Prometheus counters
type Metrics struct {
	gamesCreated      prometheus.Counter
	playersRegistered prometheus.Counter
	resultsRecorded   prometheus.Counter
	racesSubmitted    prometheus.Counter
	gamesReset        prometheus.Counter
	rejected          *prometheus.CounterVec
}

// New creates the counters and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		gamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Number of game sessions created.",
		}),
		playersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_registered_total",
			Help:      "Number of players added to a roster.",
		}),
		resultsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_recorded_total",
			Help:      "Number of race results appended to a result log.",
		}),
		racesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "races_submitted_total",
			Help:      "Number of whole races submitted.",
		}),
		gamesReset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_reset_total",
			Help:      "Number of full game resets.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_operations_total",
			Help:      "Number of rejected operations by reason.",
		}, []string{"reason"}),
	}

	collectors := []prometheus.Collector{
		m.gamesCreated,
		m.playersRegistered,
		m.resultsRecorded,
		m.racesSubmitted,
		m.gamesReset,
		m.rejected,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) GameCreated()      { m.gamesCreated.Inc() }
func (m *Metrics) PlayerRegistered() { m.playersRegistered.Inc() }
func (m *Metrics) RaceSubmitted()    { m.racesSubmitted.Inc() }
func (m *Metrics) GameReset()        { m.gamesReset.Inc() }

func (m *Metrics) ResultsRecorded(count int) {
	m.resultsRecorded.Add(float64(count))
}

func (m *Metrics) Rejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// Noop discards every event
type Noop struct{}

func (Noop) GameCreated()        {}
func (Noop) PlayerRegistered()   {}
func (Noop) ResultsRecorded(int) {}
func (Noop) RaceSubmitted()      {}
func (Noop) GameReset()          {}
func (Noop) Rejected(string)     {}
