// Package ledger holds the query and aggregation helpers shared by the
// financial and operation ledgers.
package ledger

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "studyhall/pkg/errors"
	"studyhall/pkg/model"
)

var periodFormats = map[string]string{
	model.BucketDay:   "%Y-%m-%d",
	model.BucketWeek:  "%G-W%V",
	model.BucketMonth: "%Y-%m",
}

// NormalizeBucket defaults an empty bucket to day and rejects unknown ones.
func NormalizeBucket(bucket string) (string, error) {
	if bucket == "" {
		return model.BucketDay, nil
	}
	if _, ok := periodFormats[bucket]; !ok {
		return "", apperrors.InvalidInput(fmt.Sprintf("Unknown bucket %q, expected day, week or month", bucket))
	}
	return bucket, nil
}

// Query matches records of the filter's type whose occurred_at falls in
// [From, To).
func Query(filter model.LedgerFilter) bson.M {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	occurred := bson.M{}
	if filter.From != nil {
		occurred["$gte"] = *filter.From
	}
	if filter.To != nil {
		occurred["$lt"] = *filter.To
	}
	if len(occurred) > 0 {
		query["occurred_at"] = occurred
	}
	return query
}

// SummaryPipeline groups the filtered records by (period, type) and sums
// count and amount. Records without an amount contribute zero.
func SummaryPipeline(filter model.LedgerFilter, bucket string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: Query(filter)}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"period": bson.M{"$dateToString": bson.M{
					"format":   periodFormats[bucket],
					"date":     "$occurred_at",
					"timezone": "UTC",
				}},
				"type": "$type",
			},
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$amount", 0}}},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":    0,
			"period": "$_id.period",
			"type":   "$_id.type",
			"count":  1,
			"amount": 1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "period", Value: 1}, {Key: "type", Value: 1}}}},
	}
}

// ValidateType rejects a filter type outside allowed.
func ValidateType(value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return apperrors.InvalidInput(fmt.Sprintf("Unknown record type %q", value))
}
