package rag

import "time"

// Source describes one retrieved passage backing an answer. Distance is
// the index's raw dissimilarity score; RelevanceScore is the derived
// 1-distance convenience value, rounded to three decimals.
type Source struct {
	Title          string  `json:"title"`
	Distance       float64 `json:"distance"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Metadata carries per-request bookkeeping returned alongside the answer.
type Metadata struct {
	QuestionLength       int       `json:"question_length"`
	SourcesFound         int       `json:"sources_found"`
	ProcessingSuccessful bool      `json:"processing_successful"`
	RequestID            string    `json:"request_id"`
	Timestamp            time.Time `json:"timestamp"`
}

// Response is the answer to one question. Sources is always present,
// possibly empty, in the exact order the index returned the matches.
type Response struct {
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources"`
	Metadata Metadata `json:"metadata"`
}
