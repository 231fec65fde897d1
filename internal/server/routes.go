package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/calswann/folio/internal/rag"
)

// queryRequest is the body of POST /query.
type queryRequest struct {
	Question string `json:"question"`
}

// errorResponse is the body of every non-2xx reply. Upstream failures
// carry a generic message; details stay in the server log.
type errorResponse struct {
	Error string `json:"error"`
	Usage string `json:"usage,omitempty"`
}

func queryHandler(pipeline Answerer, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "invalid request body",
				Usage: `send JSON like {"question": "Who is Hamlet?"}`,
			})
			return
		}

		resp, err := pipeline.Answer(r.Context(), req.Question)
		if err != nil {
			writeQueryError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeQueryError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var verr *rag.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: verr.Reason,
			Usage: verr.Usage,
		})
		return
	}

	// Upstream details must not leak to clients.
	log.Error().Err(err).Str("stage", stageOf(err)).Msg("query failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "failed to answer question, please try again later",
	})
}

// stageOf names the pipeline stage that produced the error, for logging.
func stageOf(err error) string {
	var (
		eerr *rag.EmbeddingError
		rerr *rag.RetrievalError
		gerr *rag.GenerationError
	)
	switch {
	case errors.As(err, &eerr):
		return "embedding"
	case errors.As(err, &rerr):
		return "retrieval"
	case errors.As(err, &gerr):
		return "generation"
	default:
		return "unknown"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
