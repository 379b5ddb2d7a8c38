package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bookwise-ai/bookwise/pkg/logging"
)

// DocumentIngestor is the slice of the retrieval client used here.
type DocumentIngestor interface {
	Ingest(ctx context.Context, docs []string) error
	DocumentCount(ctx context.Context) (int, error)
}

// DocumentsHandler proxies document ingestion to the retrieval sidecar.
type DocumentsHandler struct {
	ingestor DocumentIngestor
	logger   *logging.Logger
}

// NewDocumentsHandler creates the handler. A nil ingestor means document
// features are disabled; endpoints then report 503.
func NewDocumentsHandler(ingestor DocumentIngestor, logger *logging.Logger) *DocumentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DocumentsHandler{ingestor: ingestor, logger: logger}
}

type ingestRequest struct {
	Documents []string `json:"documents"`
}

// Ingest handles POST /documents: submits extracted document text for
// indexing by the sidecar.
func (h *DocumentsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if h.ingestor == nil {
		writeError(w, http.StatusServiceUnavailable, "document retrieval not configured")
		return
	}
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	docs := req.Documents[:0]
	for _, d := range req.Documents {
		if strings.TrimSpace(d) != "" {
			docs = append(docs, d)
		}
	}
	if len(docs) == 0 {
		writeError(w, http.StatusBadRequest, "documents are required")
		return
	}
	if err := h.ingestor.Ingest(r.Context(), docs); err != nil {
		h.logger.Error("document ingest failed", "count", len(docs), "error", err)
		writeError(w, http.StatusBadGateway, "document ingestion failed")
		return
	}
	h.logger.Info("documents ingested", "count", len(docs))
	writeJSON(w, http.StatusAccepted, map[string]int{"accepted": len(docs)})
}

// Count handles GET /documents/count.
func (h *DocumentsHandler) Count(w http.ResponseWriter, r *http.Request) {
	if h.ingestor == nil {
		writeError(w, http.StatusServiceUnavailable, "document retrieval not configured")
		return
	}
	count, err := h.ingestor.DocumentCount(r.Context())
	if err != nil {
		h.logger.Error("document count failed", "error", err)
		writeError(w, http.StatusBadGateway, "document count failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
