package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
)

// VisitRepo handles MongoDB operations for form visits. Every write is an
// idempotent upsert keyed by visit id: lifecycle events are delivered
// at-least-once and may arrive out of order, so a progress event for a visit
// whose view insert has not landed yet still creates the document.
type VisitRepo interface {
	CreateView(ctx context.Context, visit *model.FormVisit) error
	MarkStarted(ctx context.Context, visitID string, at time.Time) error
	UpdateProgress(ctx context.Context, visitID, questionID string, at time.Time) error
	MarkCompleted(ctx context.Context, visitID string, at time.Time) error
	ListByForm(ctx context.Context, formID string, dateRange model.DateRange) ([]*model.FormVisit, error)
}

type visitRepo struct {
	collection *mongo.Collection
}

// NewVisitRepo creates a new visit repository
func NewVisitRepo(db *mongo.Database) VisitRepo {
	return &visitRepo{
		collection: db.Collection("visits"),
	}
}

func (r *visitRepo) upsert(ctx context.Context, visitID string, set bson.M) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": visitID}, bson.M{"$set": set}, opts)
	return err
}

func (r *visitRepo) CreateView(ctx context.Context, visit *model.FormVisit) error {
	return r.upsert(ctx, visit.ID, bson.M{
		"formId":            visit.FormID,
		"device":            visit.Device,
		"browser":           visit.Browser,
		"os":                visit.OS,
		"ip":                visit.IP,
		"country":           visit.Country,
		"createdAt":         visit.CreatedAt,
		"lastInteractionAt": visit.LastInteractionAt,
	})
}

func (r *visitRepo) MarkStarted(ctx context.Context, visitID string, at time.Time) error {
	return r.upsert(ctx, visitID, bson.M{
		"startedAt":         at,
		"lastInteractionAt": at,
	})
}

func (r *visitRepo) UpdateProgress(ctx context.Context, visitID, questionID string, at time.Time) error {
	return r.upsert(ctx, visitID, bson.M{
		"lastQuestionId":    questionID,
		"lastInteractionAt": at,
	})
}

func (r *visitRepo) MarkCompleted(ctx context.Context, visitID string, at time.Time) error {
	return r.upsert(ctx, visitID, bson.M{
		"completedAt":       at,
		"lastInteractionAt": at,
	})
}

func (r *visitRepo) ListByForm(ctx context.Context, formID string, dateRange model.DateRange) ([]*model.FormVisit, error) {
	filter := bson.M{"formId": formID}
	if created := rangeFilter(dateRange); len(created) > 0 {
		filter["createdAt"] = created
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var visits []*model.FormVisit
	if err := cursor.All(ctx, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// rangeFilter builds the inclusive $gte/$lte clause for a date range.
func rangeFilter(dateRange model.DateRange) bson.M {
	clause := bson.M{}
	if dateRange.From != nil {
		clause["$gte"] = *dateRange.From
	}
	if dateRange.To != nil {
		clause["$lte"] = *dateRange.To
	}
	return clause
}
