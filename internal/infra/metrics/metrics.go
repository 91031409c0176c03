package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "join_bot_applications_submitted_total",
		Help: "Поданные заявки на вступление.",
	})
	ApplicationsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "join_bot_applications_accepted_total",
		Help: "Одобренные заявки.",
	})
	ApplicationsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "join_bot_applications_rejected_total",
		Help: "Отклонённые заявки.",
	})
)
