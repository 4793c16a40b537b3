package registrationRepo

import (
	"context"
	"fmt"
	"time"

	"vexstorm/database/repository"
	"vexstorm/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoFields maps logical predicate fields to document paths.
var mongoFields = map[string]string{
	repository.FieldLeaderEmail:   "leaderEmailKey",
	repository.FieldTeamName:      "teamKey",
	repository.FieldTransactionID: "transactionId",
	repository.FieldDeviceID:      "deviceId",
}

// MongoRegistrationRepo implements RegistrationRepository using MongoDB.
type MongoRegistrationRepo struct {
	coll *mongo.Collection
}

// NewMongoRegistrationRepo creates the repository on the "registrations" collection.
func NewMongoRegistrationRepo(db *mongo.Database) (*MongoRegistrationRepo, error) {
	repo := &MongoRegistrationRepo{coll: db.Collection("registrations")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// ensureIndexes backs the uniqueness rules so concurrent submissions cannot
// both pass the duplicate check and insert.
func (r *MongoRegistrationRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "leaderEmailKey", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "teamKey", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"teamKey": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "deviceId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"deviceId": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create registration indexes: %w", err)
	}
	return nil
}

// Insert adds a registration document.
func (r *MongoRegistrationRepo) Insert(ctx context.Context, rec *models.RegistrationRecord) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert registration %s: %w", rec.RegistrationID, err)
	}
	return nil
}

// FindDuplicates runs one $or query over the active predicates.
func (r *MongoRegistrationRepo) FindDuplicates(ctx context.Context, preds repository.Predicates) ([]models.RegistrationRecord, error) {
	filter := duplicateFilter(preds)
	if filter == nil {
		return nil, nil
	}

	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{
		"leaderEmailKey": 1,
		"leader.email":   1,
		"teamName":       1,
		"teamKey":        1,
		"transactionId":  1,
		"deviceId":       1,
	})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicates: %w", err)
	}
	defer cursor.Close(ctx)

	var recs []models.RegistrationRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode duplicates: %w", err)
	}
	return recs, nil
}

// ExistsByEmail checks the normalized leader email key.
func (r *MongoRegistrationRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"leaderEmailKey": repository.NormalizeKey(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check email %s: %w", email, err)
	}
	return n > 0, nil
}

// duplicateFilter translates the active predicates into a Mongo $or filter.
// It returns nil when nothing is active.
func duplicateFilter(preds repository.Predicates) bson.M {
	active := preds.Active()
	if len(active) == 0 {
		return nil
	}
	clauses := make(bson.A, 0, len(active))
	for _, p := range active {
		path, ok := mongoFields[p.Field]
		if !ok {
			continue
		}
		clauses = append(clauses, bson.M{path: p.Value})
	}
	if len(clauses) == 0 {
		return nil
	}
	return bson.M{"$or": clauses}
}
