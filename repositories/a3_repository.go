package repository

import (
	"context"
	"fmt"

	"a3project/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DocumentRepository is the live document store. Documents are keyed by
// their full header id ("A3-<series>-<label>"); series lookups match any
// version label.
type DocumentRepository interface {
	GetBySeries(ctx context.Context, series string) (*models.A3, error)
	GetByID(ctx context.Context, id string) (*models.A3, error)
	GetAll(ctx context.Context) ([]models.A3, error)
	Insert(ctx context.Context, a3 *models.A3) error
	ReplaceBySeries(ctx context.Context, series string, a3 *models.A3) error
	DeleteByID(ctx context.Context, id string) error
	// UpdateRefs overwrites one document's cross-reference arrays.
	UpdateRefs(ctx context.Context, id string, refs, refBy []string) error
	// RewriteID renames a document id and replaces every occurrence of the
	// old id in other documents' refs/refBy arrays (deduplicated), as one
	// transaction so reference updates are never partially applied.
	RewriteID(ctx context.Context, oldID, newID string) error
	// Analytics
	GetPortfolioCounts(ctx context.Context) ([]bson.M, error)
}

type documentRepository struct {
	collection *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) DocumentRepository {
	return &documentRepository{
		collection: db.Collection("a3s"),
	}
}

func seriesFilter(series string) bson.M {
	return bson.M{"header.id": primitive.Regex{Pattern: fmt.Sprintf("^A3-%s-", series)}}
}

func (r *documentRepository) GetBySeries(ctx context.Context, series string) (*models.A3, error) {
	var a3 models.A3
	err := r.collection.FindOne(ctx, seriesFilter(series)).Decode(&a3)
	if err != nil {
		return nil, err
	}
	return &a3, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.A3, error) {
	var a3 models.A3
	err := r.collection.FindOne(ctx, bson.M{"header.id": id}).Decode(&a3)
	if err != nil {
		return nil, err
	}
	return &a3, nil
}

func (r *documentRepository) GetAll(ctx context.Context) ([]models.A3, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var a3s []models.A3
	if err = cursor.All(ctx, &a3s); err != nil {
		return nil, err
	}

	return a3s, nil
}

func (r *documentRepository) Insert(ctx context.Context, a3 *models.A3) error {
	_, err := r.collection.InsertOne(ctx, a3)
	return err
}

func (r *documentRepository) ReplaceBySeries(ctx context.Context, series string, a3 *models.A3) error {
	result, err := r.collection.ReplaceOne(ctx, seriesFilter(series), a3)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no document found for series %s", series)
	}

	return nil
}

func (r *documentRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"header.id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("no document found with id %s", id)
	}

	return nil
}

func (r *documentRepository) UpdateRefs(ctx context.Context, id string, refs, refBy []string) error {
	update := bson.M{
		"$set": bson.M{
			"header.refs":  refs,
			"header.refBy": refBy,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"header.id": id}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no document found with id %s", id)
	}

	return nil
}

func (r *documentRepository) RewriteID(ctx context.Context, oldID, newID string) error {
	client := r.collection.Database().Client()

	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	sessionCtx := mongo.NewSessionContext(ctx, session)

	if err := session.StartTransaction(); err != nil {
		return fmt.Errorf("failed to start transaction: %v", err)
	}

	result, err := r.collection.UpdateOne(sessionCtx,
		bson.M{"header.id": oldID},
		bson.M{"$set": bson.M{"header.id": newID}})
	if err != nil {
		session.AbortTransaction(sessionCtx)
		return err
	}
	if result.MatchedCount == 0 {
		session.AbortTransaction(sessionCtx)
		return fmt.Errorf("no document found with id %s", oldID)
	}

	// Rewrite references held by every other document.
	filter := bson.M{
		"header.id": bson.M{"$ne": newID},
		"$or": []bson.M{
			{"header.refs": oldID},
			{"header.refBy": oldID},
		},
	}
	cursor, err := r.collection.Find(sessionCtx, filter)
	if err != nil {
		session.AbortTransaction(sessionCtx)
		return err
	}
	var referencing []models.A3
	if err = cursor.All(sessionCtx, &referencing); err != nil {
		session.AbortTransaction(sessionCtx)
		return err
	}

	for _, doc := range referencing {
		refs := replaceAndDedupe(doc.Header.Refs, oldID, newID)
		refBy := replaceAndDedupe(doc.Header.RefBy, oldID, newID)
		update := bson.M{"$set": bson.M{"header.refs": refs, "header.refBy": refBy}}
		if _, err := r.collection.UpdateOne(sessionCtx, bson.M{"header.id": doc.Header.ID}, update); err != nil {
			session.AbortTransaction(sessionCtx)
			return err
		}
	}

	if err := session.CommitTransaction(sessionCtx); err != nil {
		session.AbortTransaction(sessionCtx)
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (r *documentRepository) GetPortfolioCounts(ctx context.Context) ([]bson.M, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$addFields", Value: bson.M{
			"state": bson.M{
				"$cond": bson.M{
					"if":   bson.M{"$eq": []interface{}{"$published", true}},
					"then": "Published",
					"else": "Draft",
				},
			},
			"actions_count": bson.M{
				"$cond": bson.M{
					"if":   bson.M{"$isArray": "$actions"},
					"then": bson.M{"$size": "$actions"},
					"else": 0,
				},
			},
			"leads_count": bson.M{
				"$cond": bson.M{
					"if":   bson.M{"$isArray": "$metrics.leads"},
					"then": bson.M{"$size": "$metrics.leads"},
					"else": 0,
				},
			},
		}}},

		bson.D{{Key: "$group", Value: bson.M{
			"_id":         "$state",
			"count":       bson.M{"$sum": 1},
			"avg_actions": bson.M{"$avg": "$actions_count"},
			"avg_leads":   bson.M{"$avg": "$leads_count"},
		}}},

		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	return results, nil
}

func replaceAndDedupe(list []string, oldID, newID string) []string {
	if list == nil {
		return nil
	}
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, x := range list {
		if x == oldID {
			x = newID
		}
		if seen[x] {
			continue
		}
		seen[x] = true
		out = append(out, x)
	}
	return out
}
