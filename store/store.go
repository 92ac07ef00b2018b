package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joeys1992/Date/models"
)

// ErrNotFound is returned by lookups when no document matches.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when an insert trips a unique index. The
// pre-insert existence check in the registration flow is advisory; this
// error closes the check-then-insert race.
var ErrDuplicate = errors.New("store: duplicate key")

// UserStore owns user documents, including the relationship sets recorded
// on them. All set-valued updates are idempotent ($addToSet semantics).
type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)

	// FindCandidates returns verified users with at least one photo and one
	// answered question. Finer-grained discovery filtering happens in the
	// discovery engine.
	FindCandidates(ctx context.Context) ([]models.User, error)

	AddPhoto(ctx context.Context, id primitive.ObjectID, url string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, bio, location *string, answers []models.QuestionAnswer) error
	SetLocation(ctx context.Context, id primitive.ObjectID, lat, lon float64, label string) error
	SetSearchRadius(ctx context.Context, id primitive.ObjectID, radius int) error
	SetVerified(ctx context.Context, id primitive.ObjectID) error
	SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string) error
	SetLastActive(ctx context.Context, id primitive.ObjectID, at int64) error

	AddProfileView(ctx context.Context, target, viewer primitive.ObjectID) error
	AddLike(ctx context.Context, from, to primitive.ObjectID) error
	AddMatchRefs(ctx context.Context, a, b primitive.ObjectID) error
	AddBlock(ctx context.Context, blocker, target primitive.ObjectID) error
}

// MatchStore owns match documents. Upsert is keyed by the canonical pair
// key so a duplicate attempt from the simultaneous-like race is a no-op.
type MatchStore interface {
	// Upsert creates the match for the pair unless it already exists, and
	// reports whether this call created it.
	Upsert(ctx context.Context, a, b primitive.ObjectID, at int64) (*models.Match, bool, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error)
	SetConversationStarted(ctx context.Context, id primitive.ObjectID) error
}

// ConversationStore owns per-match thread state.
type ConversationStore interface {
	Get(ctx context.Context, matchID primitive.ObjectID) (*models.Conversation, error)
	// RecordMessage upserts the conversation for the match and refreshes the
	// last-message snapshot. Started is monotonic: any accepted message
	// implies the thread is started.
	RecordMessage(ctx context.Context, matchID primitive.ObjectID, participants []primitive.ObjectID, lastMessage string, at int64) error
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)
}

// MessageStore owns message documents.
type MessageStore interface {
	Insert(ctx context.Context, m *models.Message) error
	// PageDesc returns messages for a match newest-first; callers reverse
	// the page to present chronological order.
	PageDesc(ctx context.Context, matchID primitive.ObjectID, limit, skip int) ([]models.Message, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, at int64) error
}
