package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ag3-team/ag3-api/internal/model"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	SNSType   string             `bson:"snsType"`
	SNSID     string             `bson:"snsId"`
	Nickname  string             `bson:"nickname"`
	Position  string             `bson:"position"`
	Stacks    []string           `bson:"stacks"`
	Sido      string             `bson:"sido"`
	Sigungu   string             `bson:"sigungu"`
	ImageURL  string             `bson:"imageURL"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDoc) toModel() model.User {
	stacks := d.Stacks
	if stacks == nil {
		stacks = []string{}
	}
	return model.User{
		ID:        d.ID.Hex(),
		SNSType:   model.SNSType(d.SNSType),
		SNSID:     d.SNSID,
		Nickname:  d.Nickname,
		Position:  d.Position,
		Stacks:    stacks,
		Sido:      d.Sido,
		Sigungu:   d.Sigungu,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type MongoUserRepository struct {
	users *mongo.Collection
}

func NewMongoUser(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{users: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		SNSType:   string(user.SNSType),
		SNSID:     user.SNSID,
		Nickname:  user.Nickname,
		Position:  user.Position,
		Stacks:    user.Stacks,
		Sido:      user.Sido,
		Sigungu:   user.Sigungu,
		ImageURL:  user.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.Stacks == nil {
		doc.Stacks = []string{}
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", translateMongoError(err))
	}
	return doc.toModel(), nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, userID string) (model.User, error) {
	oid, err := objectID(userID)
	if err != nil {
		return model.User{}, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) GetBySNS(ctx context.Context, snsType model.SNSType, snsID string) (model.User, error) {
	return r.findOne(ctx, bson.M{"snsType": string(snsType), "snsId": snsID})
}

func (r *MongoUserRepository) GetByNickname(ctx context.Context, nickname string) (model.User, error) {
	return r.findOne(ctx, bson.M{"nickname": nickname})
}

func (r *MongoUserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	oid, err := objectID(user.ID)
	if err != nil {
		return model.User{}, err
	}
	stacks := user.Stacks
	if stacks == nil {
		stacks = []string{}
	}

	update := bson.M{"$set": bson.M{
		"nickname":  user.Nickname,
		"position":  user.Position,
		"stacks":    stacks,
		"sido":      user.Sido,
		"sigungu":   user.Sigungu,
		"imageURL":  user.ImageURL,
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	if err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", translateMongoError(err))
	}
	return doc.toModel(), nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", translateMongoError(err))
	}
	return doc.toModel(), nil
}

var _ UserRepository = (*MongoUserRepository)(nil)
