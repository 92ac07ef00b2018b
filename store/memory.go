package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joeys1992/Date/models"
)

// Memory holds an in-process copy of every collection. The typed views
// (Users, Matches, Conversations, Messages) implement the store interfaces
// over the shared state; tests and local development use them in place of
// Mongo. Semantics mirror the document store: per-document atomic updates,
// idempotent set-adds, match upsert keyed by the canonical pair.
type Memory struct {
	mu            sync.Mutex
	users         map[primitive.ObjectID]*models.User
	matches       map[string]*models.Match
	conversations map[primitive.ObjectID]*models.Conversation
	messages      []*models.Message

	Users         *MemoryUserStore
	Matches       *MemoryMatchStore
	Conversations *MemoryConversationStore
	Messages      *MemoryMessageStore
}

func NewMemory() *Memory {
	m := &Memory{
		users:         make(map[primitive.ObjectID]*models.User),
		matches:       make(map[string]*models.Match),
		conversations: make(map[primitive.ObjectID]*models.Conversation),
	}
	m.Users = &MemoryUserStore{m}
	m.Matches = &MemoryMatchStore{m}
	m.Conversations = &MemoryConversationStore{m}
	m.Messages = &MemoryMessageStore{m}
	return m
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Photos = append([]string(nil), u.Photos...)
	c.QuestionAnswers = append([]models.QuestionAnswer(nil), u.QuestionAnswers...)
	c.LikesGiven = append([]primitive.ObjectID(nil), u.LikesGiven...)
	c.LikesReceived = append([]primitive.ObjectID(nil), u.LikesReceived...)
	c.Matches = append([]primitive.ObjectID(nil), u.Matches...)
	c.ProfileViews = append([]primitive.ObjectID(nil), u.ProfileViews...)
	c.Blocked = append([]primitive.ObjectID(nil), u.Blocked...)
	return &c
}

func addToSet(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

type MemoryUserStore struct{ m *Memory }

func (s *MemoryUserStore) Insert(ctx context.Context, u *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	// Mirror the unique e-mail index.
	for _, existing := range s.m.users {
		if existing.Email == u.Email && existing.ID != u.ID {
			return ErrDuplicate
		}
	}
	s.m.users[u.ID] = copyUser(u)
	return nil
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if token == "" {
		return nil, ErrNotFound
	}
	for _, u := range s.m.users {
		if u.VerificationToken == token {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := s.m.users[id]; ok {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

func (s *MemoryUserStore) FindCandidates(ctx context.Context) ([]models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.User
	for _, u := range s.m.users {
		if u.IsVerified && u.ProfileComplete() {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

func (s *MemoryUserStore) mutate(id primitive.ObjectID, fn func(u *models.User)) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(u)
	return nil
}

func (s *MemoryUserStore) AddPhoto(ctx context.Context, id primitive.ObjectID, url string) error {
	return s.mutate(id, func(u *models.User) {
		u.Photos = append(u.Photos, url)
	})
}

func (s *MemoryUserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, bio, location *string, answers []models.QuestionAnswer) error {
	return s.mutate(id, func(u *models.User) {
		if bio != nil {
			u.Bio = *bio
		}
		if location != nil {
			u.Location = *location
		}
		if answers != nil {
			u.QuestionAnswers = append([]models.QuestionAnswer(nil), answers...)
		}
	})
}

func (s *MemoryUserStore) SetLocation(ctx context.Context, id primitive.ObjectID, lat, lon float64, label string) error {
	return s.mutate(id, func(u *models.User) {
		u.Latitude = &lat
		u.Longitude = &lon
		u.Location = label
	})
}

func (s *MemoryUserStore) SetSearchRadius(ctx context.Context, id primitive.ObjectID, radius int) error {
	return s.mutate(id, func(u *models.User) {
		u.SearchRadius = radius
	})
}

func (s *MemoryUserStore) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	return s.mutate(id, func(u *models.User) {
		u.IsVerified = true
		u.VerificationToken = ""
	})
}

func (s *MemoryUserStore) SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return s.mutate(id, func(u *models.User) {
		u.VerificationToken = token
	})
}

func (s *MemoryUserStore) SetLastActive(ctx context.Context, id primitive.ObjectID, at int64) error {
	return s.mutate(id, func(u *models.User) {
		u.LastActive = at
	})
}

func (s *MemoryUserStore) AddProfileView(ctx context.Context, target, viewer primitive.ObjectID) error {
	return s.mutate(target, func(u *models.User) {
		u.ProfileViews = addToSet(u.ProfileViews, viewer)
	})
}

func (s *MemoryUserStore) AddLike(ctx context.Context, from, to primitive.ObjectID) error {
	if err := s.mutate(from, func(u *models.User) {
		u.LikesGiven = addToSet(u.LikesGiven, to)
	}); err != nil {
		return err
	}
	return s.mutate(to, func(u *models.User) {
		u.LikesReceived = addToSet(u.LikesReceived, from)
	})
}

func (s *MemoryUserStore) AddMatchRefs(ctx context.Context, a, b primitive.ObjectID) error {
	if err := s.mutate(a, func(u *models.User) {
		u.Matches = addToSet(u.Matches, b)
	}); err != nil {
		return err
	}
	return s.mutate(b, func(u *models.User) {
		u.Matches = addToSet(u.Matches, a)
	})
}

func (s *MemoryUserStore) AddBlock(ctx context.Context, blocker, target primitive.ObjectID) error {
	return s.mutate(blocker, func(u *models.User) {
		u.Blocked = addToSet(u.Blocked, target)
	})
}

type MemoryMatchStore struct{ m *Memory }

func (s *MemoryMatchStore) Upsert(ctx context.Context, a, b primitive.ObjectID, at int64) (*models.Match, bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	key := models.PairKey(a, b)
	if existing, ok := s.m.matches[key]; ok {
		c := *existing
		return &c, false, nil
	}

	ua, ub := a, b
	if ua.Hex() > ub.Hex() {
		ua, ub = ub, ua
	}
	match := &models.Match{
		ID:        primitive.NewObjectID(),
		PairKey:   key,
		UserA:     ua,
		UserB:     ub,
		MatchedAt: at,
	}
	s.m.matches[key] = match
	c := *match
	return &c, true, nil
}

func (s *MemoryMatchStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, match := range s.m.matches {
		if match.ID == id {
			c := *match
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryMatchStore) SetConversationStarted(ctx context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, match := range s.m.matches {
		if match.ID == id {
			match.ConversationStarted = true
			return nil
		}
	}
	return ErrNotFound
}

type MemoryConversationStore struct{ m *Memory }

func (s *MemoryConversationStore) Get(ctx context.Context, matchID primitive.ObjectID) (*models.Conversation, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	conv, ok := s.m.conversations[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *conv
	c.Participants = append([]primitive.ObjectID(nil), conv.Participants...)
	return &c, nil
}

func (s *MemoryConversationStore) RecordMessage(ctx context.Context, matchID primitive.ObjectID, participants []primitive.ObjectID, lastMessage string, at int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	conv, ok := s.m.conversations[matchID]
	if !ok {
		conv = &models.Conversation{
			ID:           primitive.NewObjectID(),
			MatchID:      matchID,
			Participants: append([]primitive.ObjectID(nil), participants...),
			CreatedAt:    at,
		}
		s.m.conversations[matchID] = conv
	}
	conv.Started = true
	conv.LastMessage = lastMessage
	conv.LastMessageAt = at
	return nil
}

func (s *MemoryConversationStore) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.Conversation
	for _, conv := range s.m.conversations {
		for _, p := range conv.Participants {
			if p == userID {
				out = append(out, *conv)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt > out[j].LastMessageAt
	})
	return out, nil
}

type MemoryMessageStore struct{ m *Memory }

func (s *MemoryMessageStore) Insert(ctx context.Context, msg *models.Message) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	c := *msg
	s.m.messages = append(s.m.messages, &c)
	return nil
}

func (s *MemoryMessageStore) PageDesc(ctx context.Context, matchID primitive.ObjectID, limit, skip int) ([]models.Message, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	type indexed struct {
		msg *models.Message
		pos int
	}
	var all []indexed
	for i, msg := range s.m.messages {
		if msg.MatchID == matchID {
			all = append(all, indexed{msg, i})
		}
	}
	// Newest first. Insertion order breaks sent_at ties the way Mongo's
	// _id tiebreak does.
	sort.Slice(all, func(i, j int) bool {
		if all[i].msg.SentAt != all[j].msg.SentAt {
			return all[i].msg.SentAt > all[j].msg.SentAt
		}
		return all[i].pos > all[j].pos
	})

	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	out := make([]models.Message, len(all))
	for i, it := range all {
		out[i] = *it.msg
	}
	return out, nil
}

func (s *MemoryMessageStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, msg := range s.m.messages {
		if msg.ID == id {
			c := *msg
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryMessageStore) MarkRead(ctx context.Context, id primitive.ObjectID, at int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, msg := range s.m.messages {
		if msg.ID == id {
			if msg.ReadAt == nil {
				msg.ReadAt = &at
			}
			return nil
		}
	}
	return ErrNotFound
}
