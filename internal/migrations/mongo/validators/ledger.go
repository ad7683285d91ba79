package validators

import "go.mongodb.org/mongo-driver/bson"

var FinancialRecordValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"type", "amount", "occurred_at", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"type": bson.M{
				"bsonType": "string",
				"enum":     []string{"income", "expense", "refund", "deposit"},
			},
			"category": bson.M{
				"bsonType":  "string",
				"maxLength": 50,
			},
			"amount": bson.M{
				"bsonType":         "number",
				"exclusiveMinimum": true,
				"minimum":          0,
			},
			"booking_id":  objectIDString,
			"seat_id":     objectIDString,
			"description": bson.M{"bsonType": "string", "maxLength": 500},
			"occurred_at": bson.M{"bsonType": "date"},
			"created_at":  bson.M{"bsonType": "date"},
		},
	},
}

var OperationRecordValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"type", "description", "occurred_at", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"booking_created",
					"booking_updated",
					"booking_cancelled",
					"seat_status_changed",
					"maintenance",
					"cleaning",
					"other",
				},
			},
			"description": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 500,
			},
			"booking_id":   objectIDString,
			"seat_id":      objectIDString,
			"performed_by": bson.M{"bsonType": "string", "maxLength": 64},
			"occurred_at":  bson.M{"bsonType": "date"},
			"created_at":   bson.M{"bsonType": "date"},
		},
	},
}

var objectIDString = bson.M{
	"bsonType":  "string",
	"minLength": 24,
	"maxLength": 24,
}
