package contactRepo

import (
	"context"
	"fmt"
	"time"

	"vexstorm/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContactRepo implements ContactRepository using MongoDB.
type MongoContactRepo struct {
	coll *mongo.Collection
}

func NewMongoContactRepo(db *mongo.Database) (*MongoContactRepo, error) {
	repo := &MongoContactRepo{coll: db.Collection("contact_inquiries")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: 1}}})
	if err != nil {
		return nil, fmt.Errorf("failed to create contact indexes: %w", err)
	}
	return repo, nil
}

func (r *MongoContactRepo) Insert(ctx context.Context, inquiry *models.ContactInquiry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, inquiry); err != nil {
		return fmt.Errorf("failed to insert contact inquiry: %w", err)
	}
	return nil
}

func (r *MongoContactRepo) ListSince(ctx context.Context, since time.Time) ([]models.ContactInquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, sinceFilter(since), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.ContactInquiry
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode contact inquiries: %w", err)
	}
	return out, nil
}

func sinceFilter(since time.Time) bson.M {
	return bson.M{"createdAt": bson.M{"$gte": since}}
}
