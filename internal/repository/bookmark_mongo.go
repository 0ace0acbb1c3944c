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

type bookmarkDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"userId"`
	PostID    primitive.ObjectID `bson:"postId"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type MongoBookmarkRepository struct {
	posts     *MongoPostRepository
	bookmarks *mongo.Collection
}

func NewMongoBookmark(db *mongo.Database) *MongoBookmarkRepository {
	return &MongoBookmarkRepository{
		posts:     NewMongoPost(db),
		bookmarks: db.Collection(bookmarksCollection),
	}
}

// Add relies on the unique (userId, postId) index so concurrent adds of the
// same pair insert at most one document.
func (r *MongoBookmarkRepository) Add(ctx context.Context, userID, postID string) (int64, error) {
	uid, pid, err := bookmarkObjectIDs(userID, postID)
	if err != nil {
		return 0, err
	}

	n, err := r.posts.posts.CountDocuments(ctx, bson.M{"_id": pid}, options.Count().SetLimit(1))
	if err != nil {
		return 0, fmt.Errorf("failed to check post: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}

	doc := bookmarkDoc{
		ID:        primitive.NewObjectID(),
		UserID:    uid,
		PostID:    pid,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.bookmarks.InsertOne(ctx, doc); err != nil {
		return 0, fmt.Errorf("failed to add bookmark: %w", translateMongoError(err))
	}
	return r.count(ctx, pid)
}

func (r *MongoBookmarkRepository) Remove(ctx context.Context, userID, postID string) (int64, error) {
	uid, pid, err := bookmarkObjectIDs(userID, postID)
	if err != nil {
		return 0, err
	}

	result, err := r.bookmarks.DeleteOne(ctx, bson.M{"userId": uid, "postId": pid})
	if err != nil {
		return 0, fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if result.DeletedCount == 0 {
		return 0, ErrNotFound
	}
	return r.count(ctx, pid)
}

func (r *MongoBookmarkRepository) List(ctx context.Context, params model.BookmarkListParams) ([]model.Post, error) {
	uid, err := objectID(params.UserID)
	if err != nil {
		return []model.Post{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": uid}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: postsCollection},
			{Key: "localField", Value: "postId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "post"},
		}}},
		{{Key: "$unwind", Value: "$post"}},
	}
	if params.Category != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"post.category": string(params.Category)}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$skip", Value: int64(params.Page.Offset())}},
		bson.D{{Key: "$limit", Value: int64(params.Page.Limit())}},
		bson.D{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$post"}}},
		authorLookup,
	)

	posts, err := r.posts.aggregate(ctx, r.bookmarks, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return posts, nil
}

func (r *MongoBookmarkRepository) count(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	n, err := r.bookmarks.CountDocuments(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	return n, nil
}

func bookmarkObjectIDs(userID, postID string) (primitive.ObjectID, primitive.ObjectID, error) {
	uid, err := objectID(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	pid, err := objectID(postID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return uid, pid, nil
}

var _ BookmarkRepository = (*MongoBookmarkRepository)(nil)
