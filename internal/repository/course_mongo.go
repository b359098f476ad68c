package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/coursegen/internal/database"
	"github.com/deppfellow/coursegen/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CourseMongoRepository stores courses in the courses collection.
type CourseMongoRepository struct {
	coll *mongo.Collection
}

func NewMongoCourseRepository(db *mongo.Database) *CourseMongoRepository {
	return &CourseMongoRepository{coll: db.Collection(database.CollectionCourses)}
}

type courseDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      string             `bson:"user"`
	Content   any                `bson:"content"`
	Type      string             `bson:"type"`
	MainTopic string             `bson:"mainTopic"`
	Photo     *string            `bson:"photo"`
	Progress  int                `bson:"progress"`
	Completed bool               `bson:"completed"`
	Date      time.Time          `bson:"date"`
	End       *time.Time         `bson:"end,omitempty"`
}

func (d courseDocument) toModel() (model.Course, error) {
	content, err := fromDocumentValue(d.Content)
	if err != nil {
		return model.Course{}, err
	}

	return model.Course{
		ID:        d.ID.Hex(),
		User:      d.User,
		Content:   content,
		Type:      d.Type,
		MainTopic: d.MainTopic,
		Photo:     d.Photo,
		Progress:  d.Progress,
		Completed: d.Completed,
		Date:      d.Date,
		End:       d.End,
	}, nil
}

func errCourseDocumentNotFound() error {
	return fmt.Errorf("table:courses: %w", mongo.ErrNoDocuments)
}

func (r *CourseMongoRepository) CreateCourse(ctx context.Context, course *model.Course) (string, error) {
	content, err := toDocumentValue(course.Content)
	if err != nil {
		return "", err
	}

	res, err := r.coll.InsertOne(ctx, courseDocument{
		User:      course.User,
		Content:   content,
		Type:      course.Type,
		MainTopic: course.MainTopic,
		Photo:     course.Photo,
		Progress:  course.Progress,
		Completed: course.Completed,
		Date:      course.Date,
	})
	if err != nil {
		return "", fmt.Errorf("failed to insert course for user %s: %w", course.User, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected course id type %T", res.InsertedID)
	}

	return id.Hex(), nil
}

// update applies set to one course. Ids that are not ObjectIDs cannot exist.
func (r *CourseMongoRepository) update(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errCourseDocumentNotFound()
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update course %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return errCourseDocumentNotFound()
	}

	return nil
}

func (r *CourseMongoRepository) UpdateContent(ctx context.Context, id string, content json.RawMessage) error {
	value, err := toDocumentValue(content)
	if err != nil {
		return err
	}
	return r.update(ctx, id, bson.M{"content": value})
}

func (r *CourseMongoRepository) FinishCourse(ctx context.Context, id string, endedAt time.Time) error {
	return r.update(ctx, id, bson.M{
		"completed": true,
		"progress":  model.MaxProgress,
		"end":       endedAt,
	})
}

func (r *CourseMongoRepository) UpdateProgress(ctx context.Context, id string, progress int, completed bool) error {
	return r.update(ctx, id, bson.M{
		"progress":  progress,
		"completed": completed,
	})
}

func (r *CourseMongoRepository) GetCoursesByUser(ctx context.Context, userID string) ([]model.Course, error) {
	return r.find(ctx, bson.M{"user": userID})
}

// GetAllCourses projects the fields the admin listing needs.
func (r *CourseMongoRepository) GetAllCourses(ctx context.Context) ([]model.Course, error) {
	projection := bson.M{
		"user":      1,
		"content":   1,
		"type":      1,
		"mainTopic": 1,
		"photo":     1,
		"date":      1,
		"end":       1,
		"completed": 1,
		"progress":  1,
	}
	return r.find(ctx, bson.M{}, options.Find().SetProjection(projection))
}

func (r *CourseMongoRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]model.Course, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}

	var docs []courseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}

	courses := make([]model.Course, 0, len(docs))
	for _, doc := range docs {
		course, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, nil
}

func (r *CourseMongoRepository) CountCourses(ctx context.Context, filter model.CourseFilter) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, courseCountFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}

func courseCountFilter(filter model.CourseFilter) bson.M {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}
	return query
}
