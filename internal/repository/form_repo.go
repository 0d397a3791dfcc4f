package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KennethOlivas/type-form-builder-sub000/internal/model"
)

// FormRepo handles MongoDB operations for forms
type FormRepo interface {
	Create(ctx context.Context, form *model.Form) (string, error)
	GetByID(ctx context.Context, id string) (*model.Form, error)
	List(ctx context.Context) ([]*model.Form, error)
	Update(ctx context.Context, form *model.Form) error
	Delete(ctx context.Context, id string) error
}

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a new form repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{
		collection: db.Collection("forms"),
	}
}

// Form ids are ObjectID hex strings stored as string _id, so lookups never
// need a hex round-trip and malformed ids simply miss.
func (r *formRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	if form.ID == "" {
		form.ID = primitive.NewObjectID().Hex()
	}
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, form); err != nil {
		return "", err
	}
	return form.ID, nil
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	var form model.Form
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&form)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) List(ctx context.Context) ([]*model.Form, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var forms []*model.Form
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *formRepo) Update(ctx context.Context, form *model.Form) error {
	form.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": form.ID}, form)
	return err
}

func (r *formRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
