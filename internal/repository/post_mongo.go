package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ag3-team/ag3-api/internal/model"
)

type postDoc struct {
	ID               primitive.ObjectID `bson:"_id"`
	AuthorID         primitive.ObjectID `bson:"authorId"`
	Category         string             `bson:"category"`
	Title            string             `bson:"title"`
	Content          string             `bson:"content"`
	Stacks           []string           `bson:"stacks"`
	Capacity         int                `bson:"capacity"`
	Location         *model.Location    `bson:"location,omitempty"`
	Address          string             `bson:"address"`
	Sido             string             `bson:"sido"`
	StartDate        time.Time          `bson:"startDate"`
	EndDate          time.Time          `bson:"endDate"`
	RegisterDeadline time.Time          `bson:"registerDeadline"`
	Views            int64              `bson:"views"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`

	// Author is filled by the $lookup stage and never written.
	Author []userDoc `bson:"author,omitempty"`
}

func (d postDoc) toModel() model.Post {
	stacks := d.Stacks
	if stacks == nil {
		stacks = []string{}
	}
	p := model.Post{
		ID:               d.ID.Hex(),
		Author:           model.PostAuthor{ID: d.AuthorID.Hex()},
		Category:         model.Category(d.Category),
		Title:            d.Title,
		Content:          d.Content,
		Stacks:           stacks,
		Capacity:         d.Capacity,
		Location:         d.Location,
		Address:          d.Address,
		Sido:             d.Sido,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		RegisterDeadline: d.RegisterDeadline,
		Views:            d.Views,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	if len(d.Author) > 0 {
		p.Author.Nickname = d.Author[0].Nickname
		p.Author.ImageURL = d.Author[0].ImageURL
	}
	return p
}

var authorLookup = bson.D{{Key: "$lookup", Value: bson.D{
	{Key: "from", Value: usersCollection},
	{Key: "localField", Value: "authorId"},
	{Key: "foreignField", Value: "_id"},
	{Key: "as", Value: "author"},
}}}

type MongoPostRepository struct {
	posts     *mongo.Collection
	users     *mongo.Collection
	bookmarks *mongo.Collection
}

func NewMongoPost(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		posts:     db.Collection(postsCollection),
		users:     db.Collection(usersCollection),
		bookmarks: db.Collection(bookmarksCollection),
	}
}

func (r *MongoPostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	authorID, err := objectID(post.Author.ID)
	if err != nil {
		return model.Post{}, fmt.Errorf("invalid author id: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := postDoc{
		ID:               primitive.NewObjectID(),
		AuthorID:         authorID,
		Category:         string(post.Category),
		Title:            post.Title,
		Content:          post.Content,
		Stacks:           post.Stacks,
		Capacity:         post.Capacity,
		Location:         post.Location,
		Address:          post.Address,
		Sido:             post.Sido,
		StartDate:        post.StartDate,
		EndDate:          post.EndDate,
		RegisterDeadline: post.RegisterDeadline,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if doc.Stacks == nil {
		doc.Stacks = []string{}
	}

	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", translateMongoError(err))
	}
	return r.withAuthor(ctx, doc)
}

func (r *MongoPostRepository) GetByID(ctx context.Context, postID string) (model.Post, error) {
	oid, err := objectID(postID)
	if err != nil {
		return model.Post{}, err
	}

	posts, err := r.aggregate(ctx, r.posts, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		authorLookup,
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to get post: %w", err)
	}
	if len(posts) == 0 {
		return model.Post{}, ErrNotFound
	}
	return posts[0], nil
}

func (r *MongoPostRepository) IncrementViews(ctx context.Context, postID string) (model.Post, error) {
	oid, err := objectID(postID)
	if err != nil {
		return model.Post{}, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	err = r.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&doc)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to increment post views: %w", translateMongoError(err))
	}
	return r.withAuthor(ctx, doc)
}

func (r *MongoPostRepository) Update(ctx context.Context, post model.Post) (model.Post, error) {
	oid, err := objectID(post.ID)
	if err != nil {
		return model.Post{}, err
	}
	authorID, err := objectID(post.Author.ID)
	if err != nil {
		return model.Post{}, err
	}
	stacks := post.Stacks
	if stacks == nil {
		stacks = []string{}
	}

	set := bson.M{
		"category":         string(post.Category),
		"title":            post.Title,
		"content":          post.Content,
		"stacks":           stacks,
		"capacity":         post.Capacity,
		"address":          post.Address,
		"sido":             post.Sido,
		"startDate":        post.StartDate,
		"endDate":          post.EndDate,
		"registerDeadline": post.RegisterDeadline,
		"updatedAt":        time.Now().UTC().Truncate(time.Millisecond),
	}
	update := bson.M{"$set": set}
	if post.Location != nil {
		set["location"] = post.Location
	} else {
		update["$unset"] = bson.M{"location": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	err = r.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid, "authorId": authorID}, update, opts).Decode(&doc)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to update post: %w", translateMongoError(err))
	}
	return r.withAuthor(ctx, doc)
}

// Delete removes the post and then its bookmarks. Mongo has no cascading
// foreign keys, so a crash between the two calls can leave orphaned
// bookmarks; List skips them because the $lookup finds no post.
func (r *MongoPostRepository) Delete(ctx context.Context, authorID, postID string) error {
	oid, err := objectID(postID)
	if err != nil {
		return err
	}
	author, err := objectID(authorID)
	if err != nil {
		return err
	}

	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": oid, "authorId": author})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	if _, err := r.bookmarks.DeleteMany(ctx, bson.M{"postId": oid}); err != nil {
		return fmt.Errorf("failed to delete post bookmarks: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) List(ctx context.Context, params model.PostListParams) ([]model.Post, error) {
	posts, err := r.aggregate(ctx, r.posts, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"category": string(params.Category)}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: int64(params.Page.Offset())}},
		{{Key: "$limit", Value: int64(params.Page.Limit())}},
		authorLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (r *MongoPostRepository) withAuthor(ctx context.Context, doc postDoc) (model.Post, error) {
	var author userDoc
	err := r.users.FindOne(ctx, bson.M{"_id": doc.AuthorID}).Decode(&author)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc.toModel(), nil
		}
		return model.Post{}, fmt.Errorf("failed to load post author: %w", err)
	}
	doc.Author = []userDoc{author}
	return doc.toModel(), nil
}

func (r *MongoPostRepository) aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]model.Post, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]model.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toModel())
	}
	return posts, nil
}

var _ PostRepository = (*MongoPostRepository)(nil)
