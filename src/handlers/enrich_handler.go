// backend/src/handlers/enrich_handler.go
package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/username/tradeflow/backend/src/config"
	"github.com/username/tradeflow/backend/src/logger"
	"github.com/username/tradeflow/backend/src/metrics"
	"github.com/username/tradeflow/backend/src/pipeline"
	"github.com/username/tradeflow/backend/src/services"
	"github.com/username/tradeflow/backend/src/utils"
)

const uploadFieldName = "file"

type EnrichHandler struct {
	service services.EnrichmentService
}

func NewEnrichHandler(service services.EnrichmentService) *EnrichHandler {
	return &EnrichHandler{service: service}
}

// HandleEnrich accepts a trade record stream as either a multipart form
// ("file" field) or a raw request body and responds with the enriched
// CSV. Buffered mode spills to a temp store first and declares an exact
// Content-Length; direct mode streams lines as they are produced with
// no declared length. A failure before any output byte surfaces as a
// 500; after output has begun it can only be logged and the stream cut
// short.
func (h *EnrichHandler) HandleEnrich(w http.ResponseWriter, r *http.Request) {
	input, cleanup, err := extractInput(r)
	if err != nil {
		logger.L.Warn("Failed to extract enrichment input", "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer cleanup()

	mode := config.Cfg.OutputMode
	if override := r.URL.Query().Get("mode"); override != "" {
		if override != "buffered" && override != "direct" {
			utils.SendJSONError(w, fmt.Sprintf("unknown output mode %q", override), http.StatusBadRequest)
			return
		}
		mode = override
	}

	switch mode {
	case "direct":
		h.enrichDirect(w, input)
	default:
		h.enrichBuffered(w, input)
	}
}

// enrichBuffered runs the pipeline into a spill store, then streams the
// store back with a pre-declared Content-Length.
func (h *EnrichHandler) enrichBuffered(w http.ResponseWriter, input io.Reader) {
	sink, err := pipeline.NewSpillSink(config.Cfg.SpillDir)
	if err != nil {
		logger.L.Error("Failed to create spill store", "error", err)
		metrics.EnrichRequestsTotal.WithLabelValues("buffered", "error").Inc()
		utils.SendJSONError(w, "internal error preparing response buffer", http.StatusInternalServerError)
		return
	}
	defer sink.Close()

	stats, err := h.service.EnrichStream(input, sink, "buffered")
	if err != nil {
		metrics.EnrichRequestsTotal.WithLabelValues("buffered", "error").Inc()
		utils.SendJSONError(w, "enrichment failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Length", strconv.FormatInt(sink.Length(), 10))
	w.WriteHeader(http.StatusOK)
	if err := sink.Transfer(w); err != nil {
		// The status line is already on the wire; the truncated
		// response can only be logged server-side.
		logger.L.Error("Response transfer error", "runID", stats.RunID, "error", err)
		metrics.EnrichRequestsTotal.WithLabelValues("buffered", "transfer_error").Inc()
		return
	}
	metrics.EnrichRequestsTotal.WithLabelValues("buffered", "ok").Inc()
}

// enrichDirect streams enriched lines straight to the client without a
// known total length.
func (h *EnrichHandler) enrichDirect(w http.ResponseWriter, input io.Reader) {
	w.Header().Set("Content-Type", "text/csv")

	cw := &countingWriter{w: w}
	sink := pipeline.NewDirectSink(cw)

	stats, err := h.service.EnrichStream(input, sink, "direct")
	if err != nil {
		metrics.EnrichRequestsTotal.WithLabelValues("direct", "error").Inc()
		if cw.written == 0 {
			utils.SendJSONError(w, "enrichment failed", http.StatusInternalServerError)
			return
		}
		logger.L.Error("Stream terminated mid-response", "runID", stats.RunID, "bytesSent", cw.written, "error", err)
		return
	}
	metrics.EnrichRequestsTotal.WithLabelValues("direct", "ok").Inc()
}

// HandleRecentRuns lists retained per-request pipeline stats, most
// recent first.
func (h *EnrichHandler) HandleRecentRuns(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, h.service.RecentRuns(), http.StatusOK)
}

// extractInput picks the record stream out of the request: the "file"
// part of a multipart form, or the raw body, optionally gzip-encoded.
// The returned cleanup closes whatever was opened on top of the body.
func extractInput(r *http.Request) (io.Reader, func(), error) {
	if config.Cfg.MaxUploadSizeBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, config.Cfg.MaxUploadSizeBytes)
	}

	contentType := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if strings.HasPrefix(mediaType, "multipart/") {
		mr, err := r.MultipartReader()
		if err != nil {
			return nil, nil, fmt.Errorf("reading multipart request: %w", err)
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil, nil, fmt.Errorf("multipart request has no %q part", uploadFieldName)
			}
			if err != nil {
				return nil, nil, fmt.Errorf("reading multipart part: %w", err)
			}
			if part.FormName() == uploadFieldName {
				return part, func() { part.Close() }, nil
			}
			part.Close()
		}
	}

	if strings.EqualFold(r.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("reading gzip request body: %w", err)
		}
		return zr, func() { zr.Close() }, nil
	}

	return r.Body, func() {}, nil
}

// countingWriter tracks whether any response byte reached the client,
// which decides if an error can still surface as a clean status.
type countingWriter struct {
	w       io.Writer
	written int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += int64(n)
	return n, err
}
