package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joeys1992/Date/store"
)

// LikeMatch records likes and turns reciprocal ones into matches. Match
// creation is an upsert keyed by the unordered pair, so the two-sided
// simultaneous-like race collapses to a single match document.
type LikeMatch struct {
	directory *Directory
	users     store.UserStore
	matches   store.MatchStore
	notifier  Notifier
}

func NewLikeMatch(directory *Directory, users store.UserStore, matches store.MatchStore, notifier Notifier) *LikeMatch {
	return &LikeMatch{directory: directory, users: users, matches: matches, notifier: notifier}
}

type LikeResult struct {
	Matched bool
	MatchID string
}

func (lm *LikeMatch) Like(ctx context.Context, from, to primitive.ObjectID) (*LikeResult, error) {
	if from == to {
		return nil, ErrSelfTarget
	}

	liker, err := lm.users.FindByID(ctx, from)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	target, err := lm.users.FindByID(ctx, to)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Incompatible pairs are rejected before the like is recorded.
	if !MutuallyCompatible(liker, target) {
		return nil, ErrIncompatible
	}

	if err := lm.directory.AddLike(ctx, from, to); err != nil {
		return nil, err
	}

	// Reciprocity: the target already liked us before this call.
	if !target.HasLiked(from) {
		return &LikeResult{Matched: false}, nil
	}

	match, created, err := lm.matches.Upsert(ctx, from, to, time.Now().Unix())
	if err != nil {
		return nil, err
	}
	// Matched-set updates are idempotent, so repeating them on the losing
	// side of the race is harmless.
	if err := lm.users.AddMatchRefs(ctx, from, to); err != nil {
		return nil, err
	}

	if created {
		lm.notifier.MatchCreated(liker, target, match)
		lm.notifier.MatchCreated(target, liker, match)
	}

	return &LikeResult{Matched: true, MatchID: match.ID.Hex()}, nil
}
