package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"studyhall/pkg/config"
	apperrors "studyhall/pkg/errors"
)

const dateOnly = "2006-01-02"

type rangeKey struct{}

// DateRange is an optional half-open [From, To) window taken from the
// "from" and "to" query parameters.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.New("PAYLOAD_TOO_LARGE", "Request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("Request body is empty")
		default:
			return apperrors.InvalidInput("Invalid request body").WithDetails(map[string]any{"error": err.Error()})
		}
	}
	return nil
}

// ParseTime accepts RFC 3339 timestamps or plain dates (midnight UTC).
func ParseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(dateOnly, value)
}

func ParseDateRange(r *http.Request) (DateRange, error) {
	var dr DateRange
	query := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &dr.From}, {"to", &dr.To}} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := ParseTime(raw)
		if err != nil {
			return DateRange{}, apperrors.InvalidInput("invalid " + p.name + " parameter: " + raw)
		}
		*p.dst = &t
	}

	if dr.From != nil && dr.To != nil && !dr.From.Before(*dr.To) {
		return DateRange{}, apperrors.InvalidInput("from must be before to").WithDetails(map[string]any{
			"from": dr.From,
			"to":   dr.To,
		})
	}
	return dr, nil
}

// RangeFromContext returns the window parsed by WithDateRange.
func RangeFromContext(ctx context.Context) DateRange {
	dr, _ := ctx.Value(rangeKey{}).(DateRange)
	return dr
}

// WithObjectID rejects requests whose named route parameter is not a valid
// ObjectID hex string before the handler runs.
func WithObjectID(param string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ps.ByName(param)
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			_ = WriteError(w, apperrors.InvalidInput("invalid "+param+" format").WithDetails(map[string]any{
				param: id,
			}))
			return
		}
		next(w, r, ps)
	}
}

// WithDateRange parses "from" and "to" once and stores the result in the
// request context.
func WithDateRange(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		dr, err := ParseDateRange(r)
		if err != nil {
			_ = WriteError(w, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), rangeKey{}, dr)), ps)
	}
}
