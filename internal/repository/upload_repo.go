package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/betjuliano/sefa-dashboard/internal/model"
)

// UploadRepo handles MongoDB operations for survey file uploads
type UploadRepo interface {
	Create(ctx context.Context, upload *model.UploadRecord) error
	GetByID(ctx context.Context, id string) (*model.UploadRecord, error)
	GetByFingerprint(ctx context.Context, userID, fingerprint string) (*model.UploadRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*model.UploadRecord, error)
	UpdateMetadata(ctx context.Context, upload *model.UploadRecord) error
	Delete(ctx context.Context, id string) error
}

type uploadRepo struct {
	coll *mongo.Collection
}

// NewUploadRepo creates a new upload repository
func NewUploadRepo(db *mongo.Database) UploadRepo {
	return &uploadRepo{coll: db.Collection("uploads")}
}

func (r *uploadRepo) Create(ctx context.Context, upload *model.UploadRecord) error {
	_, err := r.coll.InsertOne(ctx, upload)
	return err
}

func (r *uploadRepo) GetByID(ctx context.Context, id string) (*model.UploadRecord, error) {
	var upload model.UploadRecord
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&upload)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *uploadRepo) GetByFingerprint(ctx context.Context, userID, fingerprint string) (*model.UploadRecord, error) {
	var upload model.UploadRecord
	err := r.coll.FindOne(ctx, bson.M{"userId": userID, "fingerprint": fingerprint}).Decode(&upload)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *uploadRepo) ListByUser(ctx context.Context, userID string) ([]*model.UploadRecord, error) {
	// RawData is excluded: listings only need the audit summary
	opts := options.Find().
		SetProjection(bson.M{"rawData": 0}).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var uploads []*model.UploadRecord
	if err := cursor.All(ctx, &uploads); err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *uploadRepo) UpdateMetadata(ctx context.Context, upload *model.UploadRecord) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": upload.ID}, bson.M{"$set": bson.M{
		"lastMetadata":    upload.LastMetadata,
		"lastProcessedAt": upload.LastProcessedAt,
	}})
	return err
}

func (r *uploadRepo) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
