package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	GenderMale   = "male"
	GenderFemale = "female"

	PrefMale   = "male"
	PrefFemale = "female"
	PrefBoth   = "both"
)

const (
	MinAge = 18
	MaxAge = 100

	MinSearchRadius     = 1
	MaxSearchRadius     = 100
	DefaultSearchRadius = 25

	MaxPhotos = 10

	// Answers and first messages share the same minimum length.
	MinAnswerWords = 20
)

type QuestionAnswer struct {
	QuestionIndex int    `bson:"question_index" json:"question_index"`
	Answer        string `bson:"answer" json:"answer"`
}

type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email             string               `bson:"email" json:"email"`
	PasswordHash      string               `bson:"password_hash" json:"-"`
	FirstName         string               `bson:"first_name" json:"first_name"`
	Age               int                  `bson:"age" json:"age"`
	Gender            string               `bson:"gender" json:"gender"`
	GenderPreference  string               `bson:"gender_preference" json:"gender_preference"`
	Bio               string               `bson:"bio" json:"bio"`
	Photos            []string             `bson:"photos" json:"photos"`
	QuestionAnswers   []QuestionAnswer     `bson:"question_answers" json:"question_answers"`
	Latitude          *float64             `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude         *float64             `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Location          string               `bson:"location" json:"location"`
	SearchRadius      int                  `bson:"search_radius" json:"search_radius"`
	LikesGiven        []primitive.ObjectID `bson:"likes_given" json:"-"`
	LikesReceived     []primitive.ObjectID `bson:"likes_received" json:"-"`
	Matches           []primitive.ObjectID `bson:"matches" json:"-"`
	ProfileViews      []primitive.ObjectID `bson:"profile_views" json:"-"`
	Blocked           []primitive.ObjectID `bson:"blocked" json:"-"`
	IsVerified        bool                 `bson:"is_verified" json:"is_verified"`
	VerificationToken string               `bson:"verification_token,omitempty" json:"-"`
	CreatedAt         int64                `bson:"created_at" json:"created_at"`
	LastActive        int64                `bson:"last_active" json:"last_active"`
}

// HasCoordinates reports whether the user shared a location. Absence is
// carried by the nil pointers; (0, 0) is a real coordinate.
func (u *User) HasCoordinates() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// ProfileComplete reports discovery eligibility: at least one photo and
// one answered question.
func (u *User) ProfileComplete() bool {
	return len(u.Photos) > 0 && len(u.QuestionAnswers) > 0
}

// HasAnswered reports whether the user answered the given question index.
func (u *User) HasAnswered(index int) bool {
	for _, qa := range u.QuestionAnswers {
		if qa.QuestionIndex == index {
			return true
		}
	}
	return false
}

// HasLiked reports whether target is in the user's outgoing likes.
func (u *User) HasLiked(target primitive.ObjectID) bool {
	return containsID(u.LikesGiven, target)
}

// HasViewedBy reports whether viewer recorded a view of this profile.
func (u *User) HasViewedBy(viewer primitive.ObjectID) bool {
	return containsID(u.ProfileViews, viewer)
}

// HasBlocked reports whether target is in the user's outgoing block set.
func (u *User) HasBlocked(target primitive.ObjectID) bool {
	return containsID(u.Blocked, target)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
