package validators

import "go.mongodb.org/mongo-driver/bson"

var SeatValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"seat_number",
			"type",
			"price",
			"status",
			"version",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"seat_number": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 16,
			},

			"type": bson.M{
				"bsonType": "string",
				"enum":     []string{"regular", "premium", "group"},
			},

			"price": bson.M{
				"bsonType": "number",
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"available", "occupied", "maintenance"},
			},

			"student_id": bson.M{
				"bsonType":  "string",
				"maxLength": 64,
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"booking_start": bson.M{
				"bsonType": "date",
			},

			"booking_end": bson.M{
				"bsonType": "date",
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"version": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
