package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection     = "users"
	postsCollection     = "posts"
	bookmarksCollection = "bookmarks"

	usersSNSIndex      = "users_sns_unique"
	usersNicknameIndex = "users_nickname_unique"
	bookmarksPairIndex = "bookmarks_user_post_unique"
)

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, client.Database(database), nil
}

// EnsureMongoIndexes creates the unique and listing indexes the repositories
// depend on. Creating an index that already exists is a no-op.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "snsType", Value: 1}, {Key: "snsId", Value: 1}},
				Options: options.Index().SetName(usersSNSIndex).SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "nickname", Value: 1}},
				Options: options.Index().SetName(usersNicknameIndex).SetUnique(true),
			},
		},
		postsCollection: {
			{
				Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("posts_category_created_idx"),
			},
		},
		bookmarksCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "postId", Value: 1}},
				Options: options.Index().SetName(bookmarksPairIndex).SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "postId", Value: 1}},
				Options: options.Index().SetName("bookmarks_post_idx"),
			},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// translateMongoError maps driver errors onto repository sentinels. Duplicate
// key errors are told apart by the index name in the server message.
func translateMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		switch {
		case strings.Contains(msg, usersSNSIndex):
			return fmt.Errorf("%w: %s", ErrDuplicateSNS, msg)
		case strings.Contains(msg, usersNicknameIndex):
			return fmt.Errorf("%w: %s", ErrDuplicateNickname, msg)
		case strings.Contains(msg, bookmarksPairIndex):
			return fmt.Errorf("%w: %s", ErrDuplicateBookmark, msg)
		}
	}
	return err
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}
