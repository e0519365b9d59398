package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository.
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates an Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// List retrieves the full catalog, ordered by id for stable matching.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.ExerciseRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.ExerciseRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// BulkUpsert writes a batch of catalog records keyed by slug in one round
// trip. Existing slugs are updated in place (the id never changes); new
// slugs are inserted with the id the record carries.
func (r *mongoExerciseRepository) BulkUpsert(ctx context.Context, records []domain.ExerciseRecord) (repository.BulkUpsertOutcome, error) {
	if len(records) == 0 {
		return repository.BulkUpsertOutcome{}, nil
	}

	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		filter := bson.M{"slug": rec.Slug}
		update := bson.M{
			"$set": bson.M{
				"name":      rec.Name,
				"aliases":   rec.Aliases,
				"bodyPart":  rec.BodyPart,
				"equipment": rec.Equipment,
				"pattern":   rec.Pattern,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{
				"_id":       rec.ID,
				"slug":      rec.Slug,
				"createdAt": now,
			},
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(update).
			SetUpsert(true))
	}

	opts := options.BulkWrite().SetOrdered(false)
	result, err := r.collection.BulkWrite(ctx, models, opts)
	if err != nil {
		var bwe mongo.BulkWriteException
		if !errors.As(err, &bwe) {
			// Outage, not a write verdict: let the caller retry or fail.
			return repository.BulkUpsertOutcome{}, err
		}
		// Partial failure (e.g. an id collision on insert): the batch landed,
		// some records were refused. Report per-record failures as typed.
		messages := make([]string, 0, len(bwe.WriteErrors))
		for _, we := range bwe.WriteErrors {
			messages = append(messages, fmt.Sprintf("write error at batch index %d: %s", we.Index, we.Message))
		}
		err = &repository.BulkWriteError{Messages: messages}
	}

	outcome := repository.BulkUpsertOutcome{}
	if result != nil {
		outcome.Inserted = int(result.UpsertedCount)
		outcome.Updated = int(result.MatchedCount)
	}
	return outcome, err
}

// EnsureExerciseIndexes creates the unique slug index the bulk upsert keys on.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
