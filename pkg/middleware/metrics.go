package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"studyhall/pkg/metrics"
)

// Metrics records request count and latency per route. Ids are folded into
// placeholders so the label set stays bounded.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			m.ObserveHTTP(r.Method, RouteLabel(r.URL.Path), wrapped.statusCode, time.Since(start))
		})
	}
}

func RouteLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		switch {
		case primitive.IsValidObjectID(s):
			segments[i] = ":id"
		case i > 0 && segments[i-1] == "user" && s != "":
			segments[i] = ":user_id"
		}
	}
	return strings.Join(segments, "/")
}
