package repository

import (
	"context"
	"fmt"
	"regexp"

	"dailymillions/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// drawDateField holds the primary draw timestamps as RFC 3339 strings.
const drawDateField = "standard.drawDates"

// MongoSource reads draw records from a MongoDB collection.
type MongoSource struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo dials uri, pings the server and returns a source bound to
// database.collection.
func ConnectMongo(ctx context.Context, uri, database, collection string) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoSource{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects the underlying client.
func (m *MongoSource) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// FindByDatePrefix implements DrawSource.
func (m *MongoSource) FindByDatePrefix(ctx context.Context, prefix string) ([]models.DrawRecord, error) {
	return m.find(ctx, datePrefixFilter(prefix))
}

// FindAllSorted implements DrawSource.
func (m *MongoSource) FindAllSorted(ctx context.Context) ([]models.DrawRecord, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoSource) find(ctx context.Context, filter bson.M) ([]models.DrawRecord, error) {
	cursor, err := m.coll.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("find draw records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.DrawRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode draw records: %w", err)
	}
	return records, nil
}

// datePrefixFilter matches records whose primary draw date starts with
// prefix. Regex metacharacters in prefix are matched literally.
func datePrefixFilter(prefix string) bson.M {
	return bson.M{drawDateField: bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: drawDateField, Value: -1}})
}
