package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joeys1992/Date/models"
	"github.com/joeys1992/Date/store"
)

const DefaultMessageLimit = 50

// ConversationGate enforces the first-message rule for each match: until
// the conversation is started, a message must cite one of the recipient's
// answered questions and run at least 20 words. Once started, any
// non-empty content is accepted and the gate never re-engages.
type ConversationGate struct {
	users    store.UserStore
	matches  store.MatchStore
	convs    store.ConversationStore
	msgs     store.MessageStore
	notifier Notifier
}

func NewConversationGate(users store.UserStore, matches store.MatchStore, convs store.ConversationStore, msgs store.MessageStore, notifier Notifier) *ConversationGate {
	return &ConversationGate{users: users, matches: matches, convs: convs, msgs: msgs, notifier: notifier}
}

func (g *ConversationGate) match(ctx context.Context, matchID primitive.ObjectID, requester primitive.ObjectID) (*models.Match, error) {
	match, err := g.matches.FindByID(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !match.HasParticipant(requester) {
		return nil, ErrForbidden
	}
	return match, nil
}

func (g *ConversationGate) SendMessage(ctx context.Context, matchID, sender primitive.ObjectID, content string, responseTo *int) (*models.Message, error) {
	match, err := g.match(ctx, matchID, sender)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := g.convs.Get(ctx, matchID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	started := conv != nil && conv.Started

	recipientID := match.OtherParticipant(sender)
	recipient, err := g.users.FindByID(ctx, recipientID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !started {
		if responseTo == nil {
			return nil, ErrFirstMessageQuestion
		}
		if !models.ValidQuestionIndex(*responseTo) || !recipient.HasAnswered(*responseTo) {
			return nil, ErrFirstMessageQuestion
		}
		if CountWords(content) < models.MinAnswerWords {
			return nil, ErrMessageTooShort
		}
	} else {
		// Question references are only meaningful on the opener.
		responseTo = nil
	}

	now := time.Now().Unix()
	msg := &models.Message{
		ID:                 primitive.NewObjectID(),
		MatchID:            matchID,
		SenderID:           sender,
		Content:            content,
		ResponseToQuestion: responseTo,
		SentAt:             now,
	}
	if err := g.msgs.Insert(ctx, msg); err != nil {
		return nil, err
	}
	if err := g.convs.RecordMessage(ctx, matchID, []primitive.ObjectID{match.UserA, match.UserB}, content, now); err != nil {
		return nil, err
	}
	if !match.ConversationStarted {
		if err := g.matches.SetConversationStarted(ctx, matchID); err != nil {
			return nil, err
		}
	}

	senderUser, err := g.users.FindByID(ctx, sender)
	if err == nil {
		g.notifier.MessageSent(recipient, senderUser, msg)
	}

	return msg, nil
}

// GetMessages returns one page in chronological order. The store pages
// newest-first; the page is reversed before it leaves this method.
func (g *ConversationGate) GetMessages(ctx context.Context, matchID, requester primitive.ObjectID, limit, skip int) ([]models.Message, error) {
	if _, err := g.match(ctx, matchID, requester); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	if skip < 0 {
		skip = 0
	}

	page, err := g.msgs.PageDesc(ctx, matchID, limit, skip)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}

type ConversationStatus struct {
	MatchID       string `json:"match_id"`
	Started       bool   `json:"conversation_started"`
	LastMessage   string `json:"last_message,omitempty"`
	LastMessageAt int64  `json:"last_message_at,omitempty"`
}

func (g *ConversationGate) Status(ctx context.Context, matchID, requester primitive.ObjectID) (*ConversationStatus, error) {
	if _, err := g.match(ctx, matchID, requester); err != nil {
		return nil, err
	}

	status := &ConversationStatus{MatchID: matchID.Hex()}
	conv, err := g.convs.Get(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		return status, nil
	}
	if err != nil {
		return nil, err
	}
	status.Started = conv.Started
	status.LastMessage = conv.LastMessage
	status.LastMessageAt = conv.LastMessageAt
	return status, nil
}

type RespondableQuestion struct {
	Index    int    `json:"question_index"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// RespondableQuestions lists the other participant's answered questions;
// clients build a valid first message from them.
func (g *ConversationGate) RespondableQuestions(ctx context.Context, matchID, requester primitive.ObjectID) ([]RespondableQuestion, error) {
	match, err := g.match(ctx, matchID, requester)
	if err != nil {
		return nil, err
	}
	other, err := g.users.FindByID(ctx, match.OtherParticipant(requester))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	out := make([]RespondableQuestion, 0, len(other.QuestionAnswers))
	for _, qa := range other.QuestionAnswers {
		if !models.ValidQuestionIndex(qa.QuestionIndex) {
			continue
		}
		out = append(out, RespondableQuestion{
			Index:    qa.QuestionIndex,
			Question: models.ProfileQuestions[qa.QuestionIndex],
			Answer:   qa.Answer,
		})
	}
	return out, nil
}

type ConversationSummary struct {
	MatchID       string `json:"match_id"`
	Started       bool   `json:"conversation_started"`
	LastMessage   string `json:"last_message"`
	LastMessageAt int64  `json:"last_message_at"`
	Partner       struct {
		ID        string `json:"id"`
		FirstName string `json:"first_name"`
		Photo     string `json:"photo,omitempty"`
	} `json:"partner"`
}

func (g *ConversationGate) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]ConversationSummary, error) {
	convs, err := g.convs.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary := ConversationSummary{
			MatchID:       conv.MatchID.Hex(),
			Started:       conv.Started,
			LastMessage:   conv.LastMessage,
			LastMessageAt: conv.LastMessageAt,
		}
		for _, p := range conv.Participants {
			if p == userID {
				continue
			}
			if partner, err := g.users.FindByID(ctx, p); err == nil {
				summary.Partner.ID = partner.ID.Hex()
				summary.Partner.FirstName = partner.FirstName
				if len(partner.Photos) > 0 {
					summary.Partner.Photo = partner.Photos[0]
				}
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

// MarkRead stamps read_at on a message received (not sent) by requester.
func (g *ConversationGate) MarkRead(ctx context.Context, matchID, messageID, requester primitive.ObjectID) error {
	if _, err := g.match(ctx, matchID, requester); err != nil {
		return err
	}
	msg, err := g.msgs.FindByID(ctx, messageID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if msg.MatchID != matchID {
		return ErrNotFound
	}
	if msg.SenderID == requester {
		return ErrForbidden
	}
	return g.msgs.MarkRead(ctx, messageID, time.Now().Unix())
}
