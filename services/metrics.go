package services

import "github.com/prometheus/client_golang/prometheus"

var (
	papersIngestedCounter *prometheus.CounterVec
	authorsCreatedCounter prometheus.Counter
	ingestRunsCounter     *prometheus.CounterVec
)

func init() {
	papersIngestedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "papers_ingested_total",
			Help: "Total number of papers committed to the database.",
		},
		[]string{"source"},
	)
	authorsCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "authors_created_total",
			Help: "Total number of new authors created during ingestion.",
		},
	)
	ingestRunsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Total number of provider runs by outcome.",
		},
		[]string{"provider", "status"},
	)
	prometheus.MustRegister(papersIngestedCounter, authorsCreatedCounter, ingestRunsCounter)
}
