package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/kleinnic74/dotto/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// withMiddleWares tags every request with an id and the frame the render
// loop was at when the request came in
func withMiddleWares(handler http.Handler, frames StatsSource) http.Handler {
	return addRequestID(logRequest(handler, frames))
}

type responseWrapper struct {
	writer http.ResponseWriter
	status int
}

func (w *responseWrapper) Header() http.Header {
	return w.writer.Header()
}

func (w *responseWrapper) Write(data []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.writer.Write(data)
}

func (w *responseWrapper) WriteHeader(status int) {
	w.status = status
	w.writer.WriteHeader(status)
}

func logRequest(f http.Handler, frames StatsSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := r.Context().Value(requestIDKey).(string)
		fields := []zap.Field{zap.String("request", rid)}
		if frames != nil {
			st := frames.Stats()
			fields = append(fields,
				zap.Uint64("frame", st.Frames),
				zap.String("loop", st.State),
				zap.Int("drawables", st.Drawables))
			w.Header().Set("X-Frame", strconv.FormatUint(st.Frames, 10))
			w.Header().Set("X-Loop-State", st.State)
		}
		log, ctx := logging.FromWithFields(r.Context(), fields...)
		wrapper := responseWrapper{writer: w}
		defer func() {
			log.Debug("HTTP Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
				zap.Int("status", wrapper.status))
		}()
		f.ServeHTTP(&wrapper, r.WithContext(ctx))
	})
}

type requestIDKeyType int

const requestIDKey = requestIDKeyType(0)

func addRequestID(f http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		f.ServeHTTP(w, r.WithContext(ctx))
	})
}
