// Package mongo implementa el adapter MongoDB.
// Los IDs son ObjectIDs expuestos en hex; "_id" se publica como "id".
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/dropDatabas3/hellojane/internal/domain/repository"
	"github.com/dropDatabas3/hellojane/internal/store"
)

const (
	driverName        = "mongo"
	defaultURI        = "mongodb://localhost:27017/PracticeDB"
	defaultDatabase   = "PracticeDB"
	defaultCollection = "users"
)

func init() {
	store.RegisterAdapter(&mongoAdapter{})
}

type mongoAdapter struct{}

func (a *mongoAdapter) Name() string { return driverName }

// Connect crea el cliente. El driver conecta en background: un servidor
// caído no falla aquí sino en Ping o en la primera operación.
func (a *mongoAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	uri := cfg.DSN
	if uri == "" {
		uri = defaultURI
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("mongo: parse URI: %w", err)
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = cs.Database
	}
	if dbName == "" {
		dbName = defaultDatabase
	}
	collName := cfg.Collection
	if collName == "" {
		collName = defaultCollection
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	coll := client.Database(dbName).Collection(collName)
	return &mongoConnection{client: client, users: &userRepo{coll: coll}}, nil
}

type mongoConnection struct {
	client *mongo.Client
	users  *userRepo
}

func (c *mongoConnection) Name() string { return driverName }

func (c *mongoConnection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *mongoConnection) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

func (c *mongoConnection) Users() repository.UserRepository { return c.users }

// ─── UserRepository ───

type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) List(ctx context.Context) ([]repository.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "list", err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, repository.WrapStoreError(driverName, "list", err)
	}

	out := make([]repository.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, toUser(d))
	}
	return out, nil
}

func (r *userRepo) Create(ctx context.Context, fields repository.UserFields) (*repository.User, error) {
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "create", err)
	}

	// se re-decodifica para devolver lo mismo que luego lee List
	stored, err := roundTrip(doc)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "create", err)
	}
	stored["_id"] = res.InsertedID
	u := toUser(stored)
	return &u, nil
}

func (r *userRepo) UpdateByID(ctx context.Context, id string, patch repository.UserPatch) (*repository.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// un ID que no es ObjectID no puede existir en la colección
		return nil, repository.ErrNotFound
	}
	filter := bson.M{"_id": oid}

	var res *mongo.SingleResult
	if len(patch) == 0 {
		// $set vacío es inválido en mongo: se devuelve el registro actual
		res = r.coll.FindOne(ctx, filter)
	} else {
		set := bson.M{}
		for k, v := range patch {
			set[k] = v
		}
		res = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After))
	}

	u, err := decodeOne(res)
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "update", err)
	}
	return u, nil
}

func (r *userRepo) DeleteByID(ctx context.Context, id string) (*repository.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	u, err := decodeOne(r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}))
	if err != nil {
		return nil, repository.WrapStoreError(driverName, "delete", err)
	}
	return u, nil
}

func decodeOne(res *mongo.SingleResult) (*repository.User, error) {
	var doc bson.M
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u := toUser(doc)
	return &u, nil
}

func roundTrip(doc bson.M) (bson.M, error) {
	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ─── Normalización BSON → JSON ───

func toUser(doc bson.M) repository.User {
	u := repository.User{Fields: make(map[string]any, len(doc))}
	for k, v := range doc {
		if k == "_id" {
			u.ID = idString(v)
			continue
		}
		u.Fields[k] = normalize(v)
	}
	return u
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// normalize convierte tipos BSON a tipos planos serializables en JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.A:
		return normalizeSlice(t)
	case []any:
		return normalizeSlice(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = normalize(v)
	}
	return out
}
