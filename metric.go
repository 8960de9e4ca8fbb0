package greetseed

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const MetricNameSpace = "greetseed"

var (
	txSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "tx_submitted_total",
			Help:      "on-chain calls submitted",
		},
		[]string{"kind"},
	)
	txConfirmed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "tx_confirmed_total",
			Help:      "submitted calls confirmed on chain",
		},
		[]string{"kind"},
	)
	txFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "tx_failed_total",
			Help:      "submitted calls reverted or lost",
		},
		[]string{"kind"},
	)
	nftMinted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "nft_minted_total",
			Help:      "nft records created from mint events",
		},
	)
)

func init() {
	prometheus.MustRegister(
		txSubmitted,
		txConfirmed,
		txFailed,
		nftMinted,
	)
}

func metricTxSubmitted(kind string) {
	txSubmitted.WithLabelValues(kind).Inc()
}

func metricTxConfirmed(kind string) {
	txConfirmed.WithLabelValues(kind).Inc()
}

func metricTxFailed(kind string) {
	txFailed.WithLabelValues(kind).Inc()
}

func metricNftMinted() {
	nftMinted.Inc()
}

func NewMetricServer() {
	port := ":9000"
	log.Info("Starting metric server", "listen", port)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(port, nil); err != nil {
			panic(err)
		}
	}()
}
