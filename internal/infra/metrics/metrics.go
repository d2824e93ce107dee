package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Inbound Telegram updates processed, by kind.",
	}, []string{"kind"})

	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_moderation_decisions_total",
		Help: "Moderation decisions taken, by action.",
	}, []string{"action"})

	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bot_sessions_expired_total",
		Help: "Dialog sessions removed by the idle sweeper.",
	})
)
