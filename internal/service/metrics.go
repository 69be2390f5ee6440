package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultUsed    = "used"
	resultUnused  = "unused"
	resultSuccess = "success"
	resultInvalid = "invalid"
	resultError   = "error"
)

var (
	usageChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_usage_checks_total",
		Help: "Media usage scans by outcome.",
	}, []string{"result"})

	tagSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_tag_sync_total",
		Help: "Media tag synchronisations by outcome.",
	}, []string{"result"})
)
