// Package mongostore implements remote.Store on MongoDB. Every collection
// name maps to a Mongo collection; ids are hex ObjectIDs.
package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MohammadRezaMoez/artwall-gallery-web/internal/remote"
)

const (
	readTimeout  = 3 * time.Second
	listTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// List lists records with the query's filters, sort and limit.
func (s *Store) List(ctx context.Context, collection string, q remote.Query) ([]remote.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter, ok := buildFilter(q.Where)
	if !ok {
		return []remote.Document{}, nil
	}
	cursor, err := s.db.Collection(collection).Find(ctx, filter, findOptions(q))
	if err != nil {
		return nil, remote.Transport("list "+collection, err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, remote.Transport("list "+collection, err)
	}
	out := make([]remote.Document, 0, len(raw))
	for _, m := range raw {
		out = append(out, toDocument(m))
	}
	return out, nil
}

// Get fetches one record by id.
func (s *Store) Get(ctx context.Context, collection, id string) (remote.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, remote.NotFound(collection, id)
	}

	var m bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": objID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, remote.NotFound(collection, id)
		}
		return nil, remote.Transport("get "+collection, err)
	}
	return toDocument(m), nil
}

// Insert creates a record; the server assigns _id and created_at.
func (s *Store) Insert(ctx context.Context, collection string, fields remote.Document) (remote.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	doc := bson.M{}
	for k, v := range remote.StripReserved(fields) {
		doc[k] = v
	}
	objID := primitive.NewObjectID()
	doc["_id"] = objID
	doc[remote.FieldCreatedAt] = time.Now().UTC()

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return nil, remote.Transport("insert "+collection, err)
	}
	return toDocument(doc), nil
}

// Update applies patch with $set and returns the updated record.
func (s *Store) Update(ctx context.Context, collection, id string, patch remote.Document) (remote.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, remote.NotFound(collection, id)
	}

	set := bson.M{}
	for k, v := range remote.StripReserved(patch) {
		set[k] = v
	}
	if len(set) == 0 {
		return s.Get(ctx, collection, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m bson.M
	err = s.db.Collection(collection).
		FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).
		Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, remote.NotFound(collection, id)
		}
		return nil, remote.Transport("update "+collection, err)
	}
	return toDocument(m), nil
}

// Delete removes a record permanently.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return remote.NotFound(collection, id)
	}
	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return remote.Transport("delete "+collection, err)
	}
	if result.DeletedCount == 0 {
		return remote.NotFound(collection, id)
	}
	return nil
}

// --- helpers ---

// buildFilter translates equality filters. It reports false when an id
// filter can never match, so the caller can skip the round trip.
func buildFilter(where []remote.Filter) (bson.M, bool) {
	filter := bson.M{}
	for _, f := range where {
		if f.Field == remote.FieldID {
			hex, _ := f.Value.(string)
			objID, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, false
			}
			filter["_id"] = objID
			continue
		}
		filter[f.Field] = f.Value
	}
	return filter, true
}

func findOptions(q remote.Query) *options.FindOptions {
	order := q.Ordering()
	field := order.Field
	if field == remote.FieldID {
		field = "_id"
	}
	dir := 1
	if order.Descending {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}

// toDocument exposes _id as a hex "id" and converts BSON scalars to plain Go
// values.
func toDocument(m bson.M) remote.Document {
	doc := make(remote.Document, len(m))
	for k, v := range m {
		if k == "_id" {
			if objID, ok := v.(primitive.ObjectID); ok {
				doc[remote.FieldID] = objID.Hex()
			} else {
				doc[remote.FieldID] = v
			}
			continue
		}
		doc[k] = plain(v)
	}
	return doc
}

func plain(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	}
	return v
}
