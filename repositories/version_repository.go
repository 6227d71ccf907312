package repository

import (
	"context"

	"a3project/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VersionRepository stores published snapshots. One document per series,
// keyed by the series number, with snapshots nested under their labels.
type VersionRepository interface {
	GetSeries(ctx context.Context, series string) (map[string]models.VersionSnapshot, error)
	PutVersion(ctx context.Context, series, label string, snapshot models.VersionSnapshot) error
	DeleteSeries(ctx context.Context, series string) error
}

type versionRepository struct {
	collection *mongo.Collection
}

func NewVersionRepository(db *mongo.Database) VersionRepository {
	return &versionRepository{
		collection: db.Collection("a3_versions"),
	}
}

type versionDocument struct {
	Series   string                            `bson:"_id"`
	Versions map[string]models.VersionSnapshot `bson:"versions"`
}

func (r *versionRepository) GetSeries(ctx context.Context, series string) (map[string]models.VersionSnapshot, error) {
	var doc versionDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": series}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return map[string]models.VersionSnapshot{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Versions == nil {
		doc.Versions = map[string]models.VersionSnapshot{}
	}
	return doc.Versions, nil
}

func (r *versionRepository) PutVersion(ctx context.Context, series, label string, snapshot models.VersionSnapshot) error {
	update := bson.M{"$set": bson.M{"versions." + label: snapshot}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": series}, update, opts)
	return err
}

func (r *versionRepository) DeleteSeries(ctx context.Context, series string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": series})
	return err
}
