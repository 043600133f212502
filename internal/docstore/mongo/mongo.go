// Package mongo stores each docstore collection as a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/pkg/dberrors"
	"github.com/yigit/deptportal/internal/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is a docstore.Store backed by one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New wraps a connected client.
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, docstore.ErrNotFound
		}
		logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("Error getting document")
		return nil, fmt.Errorf("error getting document %s/%s: %w", collection, id, err)
	}
	doc := toDocument(raw)
	return &doc, nil
}

func (s *Store) Find(ctx context.Context, collection string, q docstore.Query) ([]docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	filter, err := buildFilter(q.Filters)
	if err != nil {
		return nil, err
	}

	opts := options.Find()
	if len(q.OrderBy) > 0 {
		sort := bson.D{}
		for _, o := range q.OrderBy {
			dir := 1
			if o.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: o.Field, Value: dir})
		}
		sort = append(sort, bson.E{Key: "_seq", Value: 1})
		opts.SetSort(sort)
	} else {
		opts.SetSort(bson.D{{Key: "_seq", Value: 1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("Error executing find")
		return nil, fmt.Errorf("error querying %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("error reading %s cursor: %w", collection, err)
	}
	docs := make([]docstore.Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, toDocument(raw))
	}
	return docs, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, data map[string]any) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.Collection(collection).InsertOne(ctx, toBSON(id, data))
	if err != nil {
		if dberrors.IsDuplicateKey(err) {
			return "", fmt.Errorf("%w: %s/%s", docstore.ErrAlreadyExists, collection, id)
		}
		logger.Error().Err(err).Str("collection", collection).Msg("Error creating document")
		return "", fmt.Errorf("error creating document: %w", err)
	}
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, toBSON(id, data), options.Replace().SetUpsert(true))
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("Error setting document")
		return fmt.Errorf("error setting document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = docstore.NormalizeValue(v)
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("Error updating document")
		return fmt.Errorf("error updating document %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("Error deleting document")
		return fmt.Errorf("error deleting document %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error counting %s: %w", collection, err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// toBSON stamps the id and an insertion sequence used as the store order.
func toBSON(id string, data map[string]any) bson.M {
	out := bson.M{"_id": id, "_seq": time.Now().UnixNano()}
	for k, v := range data {
		out[k] = docstore.NormalizeValue(v)
	}
	return out
}

func toDocument(raw bson.M) docstore.Document {
	doc := docstore.Document{Data: map[string]any{}}
	for k, v := range raw {
		switch k {
		case "_id":
			doc.ID = fmt.Sprint(v)
		case "_seq":
		default:
			doc.Data[k] = fromBSON(v)
		}
	}
	return doc
}

// fromBSON converts driver types into the docstore canonical set.
func fromBSON(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		out := make([]any, len(t))
		for i := range t {
			out[i] = fromBSON(t[i])
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = fromBSON(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = fromBSON(e.Value)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	}
	return docstore.NormalizeValue(v)
}
