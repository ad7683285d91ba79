package validators

import "go.mongodb.org/mongo-driver/bson"

var RefreshTokenValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"token_hash", "user_id", "expires_at", "is_revoked", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"token_hash": bson.M{
				"bsonType":  "string",
				"minLength": 64,
				"maxLength": 64,
			},
			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},
			"expires_at": bson.M{"bsonType": "date"},
			"is_revoked": bson.M{"bsonType": "bool"},
			"revoked_at": bson.M{"bsonType": "date"},
			"device_id":  bson.M{"bsonType": "string", "maxLength": 128},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var LockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "owner", "expires_at"},

		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"owner":      bson.M{"bsonType": "string"},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
