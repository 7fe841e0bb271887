package gacha

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GachaPullsIngestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gacha_pulls_ingested_total",
			Help: "Count of pull events upserted into the log by banner category and rarity.",
		},
		[]string{"banner_category", "rarity"},
	)

	GachaReplaysTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gacha_replays_total",
			Help: "Count of full event-log replays executed.",
		},
	)
)

func init() {
	prometheus.MustRegister(GachaPullsIngestedTotal, GachaReplaysTotal)
}
