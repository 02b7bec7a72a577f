package metrics

import "time"

// RecordArticlesFetched records the number of articles returned by a source.
func RecordArticlesFetched(source string, count int) {
	ArticlesFetchedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordDocumentsIndexed records documents committed to a collection.
func RecordDocumentsIndexed(backend string, count int) {
	DocumentsIndexedTotal.WithLabelValues(backend).Add(float64(count))
}

// RecordEmptyIndexBatch records an index call skipped for lack of content.
func RecordEmptyIndexBatch() {
	EmptyIndexBatchesTotal.Inc()
}

// RecordQuery records the outcome and duration of a similarity query.
// Status should be "success" or "degraded".
func RecordQuery(degraded bool, duration time.Duration) {
	status := "success"
	if degraded {
		status = "degraded"
	}
	SimilarityQueriesTotal.WithLabelValues(status).Inc()
	QueryDuration.Observe(duration.Seconds())
}

// RecordSummary records the outcome and duration of a summary generation.
func RecordSummary(generated bool, duration time.Duration) {
	outcome := "generated"
	if !generated {
		outcome = "fallback"
	}
	SummariesGeneratedTotal.WithLabelValues(outcome).Inc()
	SummaryDuration.Observe(duration.Seconds())
}
