package middleware

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// responseRecorder buffers plain-text error bodies so they can be
// re-encoded as JSON. Every other response passes straight through.
type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	rewrite     bool
	body        bytes.Buffer
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.statusCode = statusCode
	if statusCode >= 400 && !isJSON(r.Header().Get("Content-Type")) {
		r.rewrite = true
		return
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if r.rewrite {
		return r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// ErrorHandler turns panics and non-JSON error responses into JSON error
// bodies
func ErrorHandler(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic serving request", zap.Any("panic", err), zap.String("path", r.URL.Path))
					if rec.wroteHeader && !rec.rewrite {
						return
					}
					writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
				if rec.rewrite {
					msg := strings.TrimSpace(rec.body.String())
					if msg == "" {
						msg = http.StatusText(rec.statusCode)
					}
					writeJSONError(w, rec.statusCode, msg)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Del("Content-Length")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}
