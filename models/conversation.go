package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Conversation tracks per-match thread state. It is created lazily on the
// first accepted message; Started flips to true exactly once and never
// regresses.
type Conversation struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	MatchID       primitive.ObjectID   `bson:"match_id" json:"match_id"`
	Participants  []primitive.ObjectID `bson:"participants" json:"participants"`
	Started       bool                 `bson:"started" json:"started"`
	LastMessage   string               `bson:"last_message" json:"last_message"`
	LastMessageAt int64                `bson:"last_message_at" json:"last_message_at"`
	CreatedAt     int64                `bson:"created_at" json:"created_at"`
}
