// Package metrics exposes prometheus collectors for the room
// lifecycle and command surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "join2create",
		Name:      "rooms_created_total",
		Help:      "Total number of personal rooms created",
	})

	RoomsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "join2create",
		Name:      "rooms_deleted_total",
		Help:      "Total number of personal rooms reclaimed after emptying",
	})

	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "join2create",
		Name:      "active_rooms",
		Help:      "Current number of tracked personal rooms",
	})

	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "join2create",
		Name:      "commands_total",
		Help:      "Command invocations by command name and outcome",
	}, []string{"command", "outcome"})
)
