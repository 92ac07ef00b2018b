package services

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joeys1992/Date/geo"
	"github.com/joeys1992/Date/models"
	"github.com/joeys1992/Date/store"
)

const DefaultDiscoverLimit = 10

// Candidate is the redacted discovery view of a profile: no credentials,
// no relationship sets, distance attached for sorting when known.
type Candidate struct {
	ID              string                  `json:"id"`
	FirstName       string                  `json:"first_name"`
	Age             int                     `json:"age"`
	Gender          string                  `json:"gender"`
	Bio             string                  `json:"bio"`
	Photos          []string                `json:"photos"`
	QuestionAnswers []models.QuestionAnswer `json:"question_answers"`
	Location        string                  `json:"location"`
	DistanceMiles   *float64                `json:"distance_miles,omitempty"`
}

// Discovery produces the candidate feed: verified, complete profiles that
// pass the exclusion sets, the compatibility rule and the geo filter.
type Discovery struct {
	users store.UserStore
}

func NewDiscovery(users store.UserStore) *Discovery {
	return &Discovery{users: users}
}

func (d *Discovery) Discover(ctx context.Context, viewerID primitive.ObjectID, limit int) ([]Candidate, error) {
	viewer, err := d.users.FindByID(ctx, viewerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultDiscoverLimit
	}

	pool, err := d.users.FindCandidates(ctx)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for i := range pool {
		cand := &pool[i]
		if cand.ID == viewer.ID {
			continue
		}
		if viewer.HasLiked(cand.ID) {
			continue
		}
		// Block excludes in both directions even though the edge is stored
		// one-directionally.
		if viewer.HasBlocked(cand.ID) || cand.HasBlocked(viewer.ID) {
			continue
		}
		if !MutuallyCompatible(viewer, cand) {
			continue
		}
		ok, dist := geo.WithinRadius(viewer, cand)
		if !ok {
			continue
		}
		out = append(out, redact(cand, dist))
	}

	if viewer.HasCoordinates() {
		sort.SliceStable(out, func(i, j int) bool {
			di, dj := out[i].DistanceMiles, out[j].DistanceMiles
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func redact(u *models.User, dist *float64) Candidate {
	return Candidate{
		ID:              u.ID.Hex(),
		FirstName:       u.FirstName,
		Age:             u.Age,
		Gender:          u.Gender,
		Bio:             u.Bio,
		Photos:          u.Photos,
		QuestionAnswers: u.QuestionAnswers,
		Location:        u.Location,
		DistanceMiles:   dist,
	}
}
