package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joeys1992/Date/models"
)

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{coll: coll}
}

func (s *MongoUserStore) Insert(ctx context.Context, u *models.User) error {
	_, err := s.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"verification_token": token})
}

func (s *MongoUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) FindCandidates(ctx context.Context) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{
		"is_verified":      true,
		"photos":           bson.M{"$exists": true, "$not": bson.M{"$size": 0}},
		"question_answers": bson.M{"$exists": true, "$not": bson.M{"$size": 0}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) AddPhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	return s.updateByID(ctx, id, bson.M{"$push": bson.M{"photos": url}})
}

func (s *MongoUserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, bio, location *string, answers []models.QuestionAnswer) error {
	set := bson.M{}
	if bio != nil {
		set["bio"] = *bio
	}
	if location != nil {
		set["location"] = *location
	}
	if answers != nil {
		set["question_answers"] = answers
	}
	if len(set) == 0 {
		return nil
	}
	return s.updateByID(ctx, id, bson.M{"$set": set})
}

func (s *MongoUserStore) SetLocation(ctx context.Context, id primitive.ObjectID, lat, lon float64, label string) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{
		"latitude":  lat,
		"longitude": lon,
		"location":  label,
	}})
}

func (s *MongoUserStore) SetSearchRadius(ctx context.Context, id primitive.ObjectID, radius int) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{"search_radius": radius}})
}

func (s *MongoUserStore) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	return s.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"is_verified": true},
		"$unset": bson.M{"verification_token": ""},
	})
}

func (s *MongoUserStore) SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{"verification_token": token}})
}

func (s *MongoUserStore) SetLastActive(ctx context.Context, id primitive.ObjectID, at int64) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{"last_active": at}})
}

func (s *MongoUserStore) AddProfileView(ctx context.Context, target, viewer primitive.ObjectID) error {
	return s.updateByID(ctx, target, bson.M{"$addToSet": bson.M{"profile_views": viewer}})
}

func (s *MongoUserStore) AddLike(ctx context.Context, from, to primitive.ObjectID) error {
	if err := s.updateByID(ctx, from, bson.M{"$addToSet": bson.M{"likes_given": to}}); err != nil {
		return err
	}
	return s.updateByID(ctx, to, bson.M{"$addToSet": bson.M{"likes_received": from}})
}

func (s *MongoUserStore) AddMatchRefs(ctx context.Context, a, b primitive.ObjectID) error {
	if err := s.updateByID(ctx, a, bson.M{"$addToSet": bson.M{"matches": b}}); err != nil {
		return err
	}
	return s.updateByID(ctx, b, bson.M{"$addToSet": bson.M{"matches": a}})
}

func (s *MongoUserStore) AddBlock(ctx context.Context, blocker, target primitive.ObjectID) error {
	return s.updateByID(ctx, blocker, bson.M{"$addToSet": bson.M{"blocked": target}})
}

type MongoMatchStore struct {
	coll *mongo.Collection
}

func NewMongoMatchStore(coll *mongo.Collection) *MongoMatchStore {
	return &MongoMatchStore{coll: coll}
}

func (s *MongoMatchStore) Upsert(ctx context.Context, a, b primitive.ObjectID, at int64) (*models.Match, bool, error) {
	key := models.PairKey(a, b)
	ua, ub := a, b
	if ua.Hex() > ub.Hex() {
		ua, ub = ub, ua
	}

	newID := primitive.NewObjectID()
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var m models.Match
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"pair_key": key},
		bson.M{"$setOnInsert": bson.M{
			"_id":                  newID,
			"pair_key":             key,
			"user_a":               ua,
			"user_b":               ub,
			"matched_at":           at,
			"conversation_started": false,
		}},
		opts,
	).Decode(&m)
	if mongo.IsDuplicateKeyError(err) {
		// The losing side of two concurrent upserts trips the unique
		// pair_key index; the match already exists, fetch it.
		if err := s.coll.FindOne(ctx, bson.M{"pair_key": key}).Decode(&m); err != nil {
			return nil, false, err
		}
		return &m, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &m, m.ID == newID, nil
}

func (s *MongoMatchStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error) {
	var m models.Match
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MongoMatchStore) SetConversationStarted(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"conversation_started": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoConversationStore struct {
	coll *mongo.Collection
}

func NewMongoConversationStore(coll *mongo.Collection) *MongoConversationStore {
	return &MongoConversationStore{coll: coll}
}

func (s *MongoConversationStore) Get(ctx context.Context, matchID primitive.ObjectID) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.coll.FindOne(ctx, bson.M{"match_id": matchID}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *MongoConversationStore) RecordMessage(ctx context.Context, matchID primitive.ObjectID, participants []primitive.ObjectID, lastMessage string, at int64) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"match_id": matchID},
		bson.M{
			"$set": bson.M{
				"started":         true,
				"last_message":    lastMessage,
				"last_message_at": at,
			},
			"$setOnInsert": bson.M{
				"match_id":     matchID,
				"participants": participants,
				"created_at":   at,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoConversationStore) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []models.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

type MongoMessageStore struct {
	coll *mongo.Collection
}

func NewMongoMessageStore(coll *mongo.Collection) *MongoMessageStore {
	return &MongoMessageStore{coll: coll}
}

func (s *MongoMessageStore) Insert(ctx context.Context, m *models.Message) error {
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

func (s *MongoMessageStore) PageDesc(ctx context.Context, matchID primitive.ObjectID, limit, skip int) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.M{"match_id": matchID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *MongoMessageStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var m models.Message
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MongoMessageStore) MarkRead(ctx context.Context, id primitive.ObjectID, at int64) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "read_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"read_at": at}},
	)
	if err != nil {
		return err
	}
	// Already-read messages match nothing; that is fine, read_at keeps its
	// first value.
	_ = res
	return nil
}
