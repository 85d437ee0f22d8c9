package server

import (
	"fmt"
	"net/http"

	"github.com/felixge/httpsnoop"
	"go.uber.org/zap"
)

// accessLog logs one line per request with the status and size actually
// written by next.
func accessLog(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", m.Code),
			zap.Int64("bytes", m.Written),
			zap.Duration("duration", m.Duration),
			zap.String("remote", r.RemoteAddr))
	})
}

// recoverPanics converts a panic in next into a 500 JSON error response.
func recoverPanics(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.Error("panic while serving request",
				zap.String("path", r.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stack"))
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error: fmt.Sprintf("internal error: %v", rec),
			})
		}()
		next.ServeHTTP(w, r)
	})
}
