package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
)

// SubmissionRepo handles MongoDB operations for submissions
type SubmissionRepo interface {
	Create(ctx context.Context, submission *model.Submission) error
	ListByForm(ctx context.Context, formID string, dateRange model.DateRange) ([]*model.Submission, error)
	CountByForm(ctx context.Context, formID string) (int64, error)
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	submission.EncodeAnswers()
	_, err := r.collection.InsertOne(ctx, submission)
	return err
}

func (r *submissionRepo) ListByForm(ctx context.Context, formID string, dateRange model.DateRange) ([]*model.Submission, error) {
	filter := bson.M{"formId": formID}
	if submitted := rangeFilter(dateRange); len(submitted) > 0 {
		filter["submittedAt"] = submitted
	}

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var submissions []*model.Submission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	for _, s := range submissions {
		s.DecodeAnswers()
	}
	return submissions, nil
}

func (r *submissionRepo) CountByForm(ctx context.Context, formID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"formId": formID})
}
