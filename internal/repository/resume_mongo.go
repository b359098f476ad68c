package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/coursegen/internal/database"
	"github.com/deppfellow/coursegen/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ResumeMongoRepository struct {
	coll *mongo.Collection
}

func NewMongoResumeRepository(db *mongo.Database) *ResumeMongoRepository {
	return &ResumeMongoRepository{coll: db.Collection(database.CollectionResumes)}
}

type resumeDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	UID        string             `bson:"uid"`
	ResumeData any                `bson:"resumeData"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d resumeDocument) toModel() (*model.Resume, error) {
	data, err := fromDocumentValue(d.ResumeData)
	if err != nil {
		return nil, err
	}

	return &model.Resume{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Email:      d.Email,
		UID:        d.UID,
		ResumeData: data,
		CreatedAt:  d.CreatedAt,
	}, nil
}

// CreateResume tags errors with the table prefix so a duplicate uid on
// the resumes_uid_key index is reported like the postgres constraint.
func (r *ResumeMongoRepository) CreateResume(ctx context.Context, resume *model.Resume) error {
	data, err := toDocumentValue(resume.ResumeData)
	if err != nil {
		return err
	}

	doc := resumeDocument{
		Name:       resume.Name,
		Email:      resume.Email,
		UID:        resume.UID,
		ResumeData: data,
		CreatedAt:  time.Now().UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("table:resumes: failed to insert resume for uid %s: %w", resume.UID, err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		resume.ID = id.Hex()
	}
	resume.CreatedAt = doc.CreatedAt

	return nil
}

func (r *ResumeMongoRepository) GetResumeByUID(ctx context.Context, uid string) (*model.Resume, error) {
	var doc resumeDocument
	err := r.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("table:resumes: %w", err)
		}
		return nil, fmt.Errorf("failed to find resume for uid %s: %w", uid, err)
	}

	return doc.toModel()
}
