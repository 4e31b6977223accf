package store

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoCollection is the collection challenge documents live in.
const MongoCollection = "verification_challenges"

type mongoChallenge struct {
	Identifier string    `bson:"_id"`
	CodeHash   string    `bson:"code_hash"`
	IssuedAt   time.Time `bson:"issued_at"`
	Channel    int32     `bson:"channel"`
	ExpiresAt  time.Time `bson:"expires_at"`
}

// Mongo stores one document per identifier. A TTL index on expires_at lets
// the server remove stale documents.
type Mongo struct {
	coll *mongo.Collection
	ttl  time.Duration
	ins  instrument.Instrumentation
}

func NewMongo(db *mongo.Database, ttl time.Duration, ins instrument.Instrumentation) *Mongo {
	return &Mongo{coll: db.Collection(MongoCollection), ttl: ttl, ins: ins}
}

// EnsureIndexes creates the TTL index. It is safe to call on every start.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (m *Mongo) Put(ctx context.Context, c entity.Challenge) (err error) {
	ctx, span := startSpan(m.ins, ctx, "Mongo.Put")
	defer func() { endSpan(span, err) }()

	doc := mongoChallenge{
		Identifier: c.Identifier,
		CodeHash:   c.CodeHash,
		IssuedAt:   c.IssuedAt,
		Channel:    int32(c.Channel),
		ExpiresAt:  c.IssuedAt.Add(m.ttl),
	}

	_, err = m.coll.ReplaceOne(ctx, bson.M{"_id": c.Identifier}, doc, options.Replace().SetUpsert(true))
	return err
}

func (m *Mongo) Take(ctx context.Context, identifier string) (_ *entity.Challenge, err error) {
	ctx, span := startSpan(m.ins, ctx, "Mongo.Take")
	defer func() { endSpan(span, err) }()

	var doc mongoChallenge
	err = m.coll.FindOneAndDelete(ctx, bson.M{"_id": identifier}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entity.Challenge{
		Identifier: doc.Identifier,
		CodeHash:   doc.CodeHash,
		IssuedAt:   doc.IssuedAt,
		Channel:    entity.Channel(doc.Channel),
	}, nil
}
