package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var Users *mongo.Collection
var Matches *mongo.Collection
var Conversations *mongo.Collection
var Messages *mongo.Collection
var PushSubs *mongo.Collection

func ConnectMongo() error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Println("MONGODB_URI not set, using default localhost")
		uri = "mongodb://127.0.0.1:27017"
	}

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "date"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	if err := Client.Ping(ctx, nil); err != nil {
		return err
	}

	db := Client.Database(dbName)
	Users = db.Collection("users")
	Matches = db.Collection("matches")
	Conversations = db.Collection("conversations")
	Messages = db.Collection("messages")
	PushSubs = db.Collection("push_subscriptions")

	if err := ensureIndexes(ctx); err != nil {
		return err
	}

	log.Println("Connected to MongoDB successfully")
	return nil
}

// UserIndexes returns the index set for the users collection. The unique
// e-mail index backs the duplicate-registration check; without it two
// concurrent registrations can both pass the read-then-insert check.
func UserIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

// MatchIndexes returns the index set for the matches collection. Match
// creation is an upsert keyed by pair_key; Mongo only guarantees a single
// document for two racing upserts when the filter field carries a unique
// index.
func MatchIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

// MessageIndexes returns the index set for the messages collection,
// matching the newest-first page sort.
func MessageIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "match_id", Value: 1}, {Key: "sent_at", Value: -1}, {Key: "_id", Value: -1}},
		},
	}
}

func ensureIndexes(ctx context.Context) error {
	if _, err := Users.Indexes().CreateMany(ctx, UserIndexes()); err != nil {
		return err
	}
	if _, err := Matches.Indexes().CreateMany(ctx, MatchIndexes()); err != nil {
		return err
	}
	if _, err := Messages.Indexes().CreateMany(ctx, MessageIndexes()); err != nil {
		return err
	}
	return nil
}

func DisconnectMongo() error {
	if Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
