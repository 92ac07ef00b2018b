package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joeys1992/Date/models"
)

func candidateIDs(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}

func TestDiscoverExclusions(t *testing.T) {
	ctx := context.Background()
	mem, dir, _, _, _ := newFixture(t)
	disc := NewDiscovery(mem.Users)

	viewer := seedUser(t, mem, "Viewer", withGender(models.GenderFemale, models.PrefMale))
	visible := seedUser(t, mem, "Visible")
	liked := seedUser(t, mem, "Liked")
	blockedByViewer := seedUser(t, mem, "BlockedOut")
	blocksViewer := seedUser(t, mem, "BlockedIn")
	incompatible := seedUser(t, mem, "Wrong", withGender(models.GenderFemale, models.PrefFemale))
	notComplete := seedUser(t, mem, "Empty", incomplete())

	require.NoError(t, dir.RecordView(ctx, viewer.ID, liked.ID))
	require.NoError(t, dir.AddLike(ctx, viewer.ID, liked.ID))
	require.NoError(t, dir.Block(ctx, viewer.ID, blockedByViewer.ID))
	require.NoError(t, dir.Block(ctx, blocksViewer.ID, viewer.ID))

	cands, err := disc.Discover(ctx, viewer.ID, 50)
	require.NoError(t, err)

	ids := candidateIDs(cands)
	assert.Contains(t, ids, visible.ID.Hex())
	assert.NotContains(t, ids, viewer.ID.Hex(), "self excluded")
	assert.NotContains(t, ids, liked.ID.Hex(), "already liked excluded")
	assert.NotContains(t, ids, blockedByViewer.ID.Hex(), "outgoing block excluded")
	assert.NotContains(t, ids, blocksViewer.ID.Hex(), "incoming block excluded")
	assert.NotContains(t, ids, incompatible.ID.Hex(), "incompatible excluded")
	assert.NotContains(t, ids, notComplete.ID.Hex(), "incomplete profile excluded")
}

func TestDiscoverRedaction(t *testing.T) {
	ctx := context.Background()
	mem, _, _, _, _ := newFixture(t)
	disc := NewDiscovery(mem.Users)

	viewer := seedUser(t, mem, "Viewer", withGender(models.GenderFemale, models.PrefMale))
	seedUser(t, mem, "Bob")

	cands, err := disc.Discover(ctx, viewer.ID, 10)
	require.NoError(t, err)
	require.Len(t, cands, 1)

	c := cands[0]
	assert.Equal(t, "Bob", c.FirstName)
	assert.NotEmpty(t, c.Photos)
	assert.NotEmpty(t, c.QuestionAnswers)
}

func TestDiscoverRadiusFiltering(t *testing.T) {
	ctx := context.Background()
	mem, dir, _, _, _ := newFixture(t)
	disc := NewDiscovery(mem.Users)

	// Viewer in NYC; one candidate ~5 miles out, one ~80 miles out
	// (Philadelphia), one with no location at all.
	viewer := seedUser(t, mem, "Viewer",
		withGender(models.GenderFemale, models.PrefMale),
		withCoords(40.7128, -74.0060))
	near := seedUser(t, mem, "Near", withCoords(40.6413, -74.0060))
	far := seedUser(t, mem, "Far", withCoords(39.9526, -75.1652))
	nowhere := seedUser(t, mem, "Nowhere")

	t.Run("radius 10 hides the far candidate", func(t *testing.T) {
		require.NoError(t, dir.SetSearchRadius(ctx, viewer.ID, 10))
		cands, err := disc.Discover(ctx, viewer.ID, 50)
		require.NoError(t, err)

		ids := candidateIDs(cands)
		assert.Contains(t, ids, near.ID.Hex())
		assert.NotContains(t, ids, far.ID.Hex())
		assert.NotContains(t, ids, nowhere.ID.Hex(), "located viewer excludes unlocated candidates")
	})

	t.Run("radius 100 shows both sorted nearest first", func(t *testing.T) {
		require.NoError(t, dir.SetSearchRadius(ctx, viewer.ID, 100))
		cands, err := disc.Discover(ctx, viewer.ID, 50)
		require.NoError(t, err)

		require.Equal(t, []string{near.ID.Hex(), far.ID.Hex()}, candidateIDs(cands))
		require.NotNil(t, cands[0].DistanceMiles)
		require.NotNil(t, cands[1].DistanceMiles)
		assert.Less(t, *cands[0].DistanceMiles, *cands[1].DistanceMiles)
	})

	t.Run("unlocated viewer sees everyone with unknown distance", func(t *testing.T) {
		blind := seedUser(t, mem, "Blind", withGender(models.GenderFemale, models.PrefMale))
		cands, err := disc.Discover(ctx, blind.ID, 50)
		require.NoError(t, err)

		ids := candidateIDs(cands)
		assert.Contains(t, ids, near.ID.Hex())
		assert.Contains(t, ids, far.ID.Hex())
		assert.Contains(t, ids, nowhere.ID.Hex())
		for _, c := range cands {
			assert.Nil(t, c.DistanceMiles)
		}
	})
}

func TestDiscoverLimit(t *testing.T) {
	ctx := context.Background()
	mem, _, _, _, _ := newFixture(t)
	disc := NewDiscovery(mem.Users)

	viewer := seedUser(t, mem, "Viewer", withGender(models.GenderFemale, models.PrefMale))
	for i := 0; i < 15; i++ {
		seedUser(t, mem, "Bob"+string(rune('A'+i)))
	}

	cands, err := disc.Discover(ctx, viewer.ID, 5)
	require.NoError(t, err)
	assert.Len(t, cands, 5)

	// Zero limit falls back to the default.
	cands, err = disc.Discover(ctx, viewer.ID, 0)
	require.NoError(t, err)
	assert.Len(t, cands, DefaultDiscoverLimit)
}

func TestDiscoverUnknownViewer(t *testing.T) {
	mem, _, _, _, _ := newFixture(t)
	disc := NewDiscovery(mem.Users)
	_, err := disc.Discover(context.Background(), seedUser(t, mem, "X").ID, 10)
	require.NoError(t, err)

	_, err = disc.Discover(context.Background(), primitive.NewObjectID(), 10)
	assert.ErrorIs(t, err, ErrNotFound)
}
