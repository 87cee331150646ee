package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	partiesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rsvp_parties_created_total",
		Help: "Parties created.",
	})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rsvp_submissions_total",
		Help: "RSVP submissions by outcome.",
	}, []string{"result"})

	exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rsvp_exports_total",
		Help: "CSV exports by destination.",
	}, []string{"destination"})
)
