package mongo

import (
	"context"
	"errors"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutDayCollectionName = "workout_days"

// mongoWorkoutDayRepository implements repository.WorkoutDayRepository.
type mongoWorkoutDayRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutDayRepository creates a WorkoutDay repository backed by MongoDB.
func NewMongoWorkoutDayRepository(db *mongo.Database) repository.WorkoutDayRepository {
	return &mongoWorkoutDayRepository{
		collection: db.Collection(workoutDayCollectionName),
	}
}

// GetByUserAndDate retrieves the single row for the day key.
func (r *mongoWorkoutDayRepository) GetByUserAndDate(ctx context.Context, userID, date string) (*domain.WorkoutDay, error) {
	var day domain.WorkoutDay
	filter := bson.M{"userId": userID, "date": date}

	err := r.collection.FindOne(ctx, filter).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// GetByUserAndDateRange retrieves all rows with from <= date <= to, ordered by date.
// The "YYYY-MM-DD" encoding makes lexicographic and chronological order agree.
func (r *mongoWorkoutDayRepository) GetByUserAndDateRange(ctx context.Context, userID, from, to string) ([]domain.WorkoutDay, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var days []domain.WorkoutDay
	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// Claim upserts the day row into a non-terminal status. The filter only
// matches rows that are claimable: pending, error, or generating with an
// updatedAt older than staleBefore (a task that died without finalizing).
// When a ready or fresh generating row already exists the filter matches
// nothing, the upsert attempts an insert, and the unique (userId, date)
// index rejects it. That duplicate key error is the losing side of the race
// and maps to ErrClaimConflict.
func (r *mongoWorkoutDayRepository) Claim(ctx context.Context, userID, date string, status domain.DayStatus, staleBefore time.Time) (*domain.WorkoutDay, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"userId": userID,
		"date":   date,
		"$or": bson.A{
			bson.M{"status": bson.M{"$nin": bson.A{domain.StatusGenerating, domain.StatusReady}}},
			bson.M{"status": domain.StatusGenerating, "updatedAt": bson.M{"$lt": staleBefore}},
		},
	}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": now,
		},
		"$unset": bson.M{
			"payload":     "",
			"errorReason": "",
			"completedAt": "",
		},
		// userId and date come from the filter's equality clauses on the
		// insert path; repeating them here would be an update path conflict.
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var day domain.WorkoutDay
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&day)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrClaimConflict
		}
		return nil, err
	}
	return &day, nil
}

// Finalize moves the row into ready or error. Only the claiming writer
// calls this, so a plain filtered update is sufficient.
func (r *mongoWorkoutDayRepository) Finalize(ctx context.Context, userID, date string, status domain.DayStatus, payload *domain.WorkoutPayload, errorReason string) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":    status,
		"updatedAt": now,
	}
	unset := bson.M{}
	switch status {
	case domain.StatusReady:
		set["payload"] = payload
		set["completedAt"] = now
		unset["errorReason"] = ""
	case domain.StatusError:
		set["errorReason"] = errorReason
		unset["payload"] = ""
		unset["completedAt"] = ""
	default:
		return errors.New("finalize requires a terminal status")
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	filter := bson.M{"userId": userID, "date": date}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutDayIndexes creates the unique (userId, date) index the claim
// mechanism relies on, plus a range-read index.
func EnsureWorkoutDayIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_date_unique"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
