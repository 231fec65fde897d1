package vectorstore

import "context"

// Entry is one vector written to the index: a generated key, the passage
// embedding, and its metadata. Title is the only filterable field; the
// passage text rides along as non-filterable metadata.
type Entry struct {
	Key    string
	Vector []float32
	Title  string
	Text   string
}

// Match is one nearest-neighbour result. Distance is the index's raw
// dissimilarity score, passed through without conversion; lower is closer.
type Match struct {
	Key      string
	Distance float32
	Title    string
	Text     string
}

// Store is a managed vector index. Implementations never perform
// similarity math themselves; that stays in the external service.
type Store interface {
	// Put writes entries into the index. Entries with an existing key
	// overwrite the previous vector (upsert semantics).
	Put(ctx context.Context, entries []Entry) error

	// Query returns up to topK nearest neighbours ranked by ascending
	// distance, in the order the index returned them. An empty result
	// is a valid outcome, not an error.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}
