package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joeys1992/Date/models"
	"github.com/joeys1992/Date/store"
)

// words builds a string with exactly n words.
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func answered(indexes ...int) []models.QuestionAnswer {
	out := make([]models.QuestionAnswer, len(indexes))
	for i, idx := range indexes {
		out[i] = models.QuestionAnswer{QuestionIndex: idx, Answer: words(models.MinAnswerWords)}
	}
	return out
}

type userOpt func(*models.User)

func withGender(gender, pref string) userOpt {
	return func(u *models.User) {
		u.Gender = gender
		u.GenderPreference = pref
	}
}

func withCoords(lat, lon float64) userOpt {
	return func(u *models.User) {
		u.Latitude = &lat
		u.Longitude = &lon
	}
}

func withRadius(r int) userOpt {
	return func(u *models.User) { u.SearchRadius = r }
}

func incomplete() userOpt {
	return func(u *models.User) {
		u.Photos = nil
		u.QuestionAnswers = nil
	}
}

// seedUser inserts a verified, discovery-complete user. Defaults: male
// seeking female, one photo, question 0 answered, no coordinates.
func seedUser(t *testing.T, mem *store.Memory, name string, opts ...userOpt) *models.User {
	t.Helper()
	u := &models.User{
		ID:               primitive.NewObjectID(),
		Email:            strings.ToLower(name) + "@example.com",
		FirstName:        name,
		Age:              30,
		Gender:           models.GenderMale,
		GenderPreference: models.PrefFemale,
		Photos:           []string{"photo-1"},
		QuestionAnswers:  answered(0),
		SearchRadius:     models.DefaultSearchRadius,
		IsVerified:       true,
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, mem.Users.Insert(context.Background(), u))
	return u
}

// mutualViewAndLike walks both users through view+like and returns b's
// like result (the reciprocal one).
func mutualViewAndLike(t *testing.T, dir *Directory, lm *LikeMatch, a, b *models.User) *LikeResult {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, dir.RecordView(ctx, a.ID, b.ID))
	require.NoError(t, dir.RecordView(ctx, b.ID, a.ID))

	res, err := lm.Like(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.False(t, res.Matched)

	res, err = lm.Like(ctx, b.ID, a.ID)
	require.NoError(t, err)
	return res
}

type nopMailer struct{}

func (nopMailer) SendVerification(email, token string) {}

// recordingNotifier captures events for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	matches  []string
	messages []string
}

func (n *recordingNotifier) MatchCreated(user, other *models.User, match *models.Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.matches = append(n.matches, user.ID.Hex())
}

func (n *recordingNotifier) MessageSent(recipient, sender *models.User, msg *models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, recipient.ID.Hex())
}

func newFixture(t *testing.T) (*store.Memory, *Directory, *LikeMatch, *ConversationGate, *recordingNotifier) {
	t.Helper()
	mem := store.NewMemory()
	notifier := &recordingNotifier{}
	dir := NewDirectory(mem.Users, nopMailer{})
	lm := NewLikeMatch(dir, mem.Users, mem.Matches, notifier)
	gate := NewConversationGate(mem.Users, mem.Matches, mem.Conversations, mem.Messages, notifier)
	return mem, dir, lm, gate, notifier
}
