package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateA3Indexes(db *mongo.Database) error {
	collection := db.Collection("a3s")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		// LOOKUPS: header.id is the document identity ("A3-<series>-<label>")
		// Used by: GetByID, GetBySeries (prefix regex), RewriteID
		{
			Keys: bson.D{
				{Key: "header.id", Value: 1},
			},
			Options: options.Index().SetName("idx_header_id").SetUnique(true),
		},

		// REFERENCE REWRITES: refs/refBy scans during versioning and delete
		// Used by: RewriteID, reference scrubbing
		{
			Keys: bson.D{
				{Key: "header.refs", Value: 1},
			},
			Options: options.Index().SetName("idx_header_refs"),
		},
		{
			Keys: bson.D{
				{Key: "header.refBy", Value: 1},
			},
			Options: options.Index().SetName("idx_header_refby"),
		},

		// ANALYTICS: published state grouping
		// Used by: GetPortfolioCounts aggregation pipeline
		{
			Keys: bson.D{
				{Key: "published", Value: 1},
			},
			Options: options.Index().SetName("idx_published"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create A3 indexes: %v", err)
	}

	fmt.Println("A3 indexes created successfully")
	return nil
}
