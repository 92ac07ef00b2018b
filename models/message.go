package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Message struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MatchID            primitive.ObjectID `bson:"match_id" json:"match_id"`
	SenderID           primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	Content            string             `bson:"content" json:"content"`
	ResponseToQuestion *int               `bson:"response_to_question,omitempty" json:"response_to_question,omitempty"`
	SentAt             int64              `bson:"sent_at" json:"sent_at"`
	ReadAt             *int64             `bson:"read_at,omitempty" json:"read_at,omitempty"`
}
