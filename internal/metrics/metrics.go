// Package metrics exposes prometheus counters for the auction service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignupsTotal counts successfully created accounts.
	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auction_signups_total",
			Help: "Counter for successful account signups.",
		})

	// AuctionsCreatedTotal counts successfully created listings.
	AuctionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auction_listings_created_total",
			Help: "Counter for created auction listings.",
		})

	// BidsTotal counts bid attempts by outcome (accepted, rejected).
	BidsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_bids_total",
			Help: "Counter for placed bids by outcome.",
		},
		[]string{"outcome"},
	)
)
