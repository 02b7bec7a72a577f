// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track fetch/index/query operations
var (
	// ArticlesFetchedTotal counts articles returned by a news source per topic
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_fetched_total",
			Help: "Total number of articles fetched from news sources",
		},
		[]string{"source"},
	)

	// DocumentsIndexedTotal counts documents committed to vector collections
	DocumentsIndexedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "documents_indexed_total",
			Help: "Total number of documents added to vector collections",
		},
		[]string{"backend"},
	)

	// EmptyIndexBatchesTotal counts index calls whose filtered batch was empty
	EmptyIndexBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "index_empty_batches_total",
			Help: "Total number of index operations skipped because no article had usable content",
		},
	)

	// SimilarityQueriesTotal counts similarity queries by outcome
	SimilarityQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_queries_total",
			Help: "Total number of similarity queries",
		},
		[]string{"status"},
	)

	// QueryDuration measures similarity query duration in seconds
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_query_duration_seconds",
			Help:    "Similarity query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Summary metrics track generation outcomes
var (
	// SummariesGeneratedTotal counts summaries by outcome ("generated" or "fallback")
	SummariesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_generated_total",
			Help: "Total number of summaries produced",
		},
		[]string{"outcome"},
	)

	// SummaryDuration measures summary generation duration in seconds
	SummaryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_generation_duration_seconds",
			Help:    "Summary generation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)
