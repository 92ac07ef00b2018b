package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match is created once per unordered user pair. PairKey is the canonical
// "min:max" hex form of the two ids; upserting on it keeps creation
// idempotent when both users like each other at the same instant.
type Match struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PairKey             string             `bson:"pair_key" json:"-"`
	UserA               primitive.ObjectID `bson:"user_a" json:"user_a"`
	UserB               primitive.ObjectID `bson:"user_b" json:"user_b"`
	MatchedAt           int64              `bson:"matched_at" json:"matched_at"`
	ConversationStarted bool               `bson:"conversation_started" json:"conversation_started"`
}

// PairKey returns the canonical key for an unordered user pair.
func PairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah > bh {
		ah, bh = bh, ah
	}
	return ah + ":" + bh
}

// HasParticipant reports whether id is one of the two matched users.
func (m *Match) HasParticipant(id primitive.ObjectID) bool {
	return m.UserA == id || m.UserB == id
}

// OtherParticipant returns the counterpart of id in the match.
func (m *Match) OtherParticipant(id primitive.ObjectID) primitive.ObjectID {
	if m.UserA == id {
		return m.UserB
	}
	return m.UserA
}
