package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewLikeMatchOverHTTP(t *testing.T) {
	ts, _ := newTestServer(t)
	alice := seedUser(t, ts.mem, "Alice")
	bob := seedUser(t, ts.mem, "Bob")
	aliceToken := tokenFor(t, alice)
	bobToken := tokenFor(t, bob)

	// Like without a prior view is a precondition failure
	w := doJSON(t, ts.router, http.MethodPost, "/api/profile/"+bob.ID.Hex()+"/like", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, ts.router, http.MethodPost, "/api/profile/"+bob.ID.Hex()+"/view", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, ts.router, http.MethodPost, "/api/profile/"+bob.ID.Hex()+"/like", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, false, body["match"])

	// Reciprocal like creates the match
	w = doJSON(t, ts.router, http.MethodPost, "/api/profile/"+alice.ID.Hex()+"/view", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, ts.router, http.MethodPost, "/api/profile/"+alice.ID.Hex()+"/like", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["match"])
	assert.NotEmpty(t, body["match_id"])

	// Both sides see each other in their match list
	for _, token := range []string{aliceToken, bobToken} {
		w = doJSON(t, ts.router, http.MethodGet, "/api/matches", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		matches := decodeBody(t, w)["matches"].([]interface{})
		assert.Len(t, matches, 1)
	}

	t.Run("self like rejected", func(t *testing.T) {
		w := doJSON(t, ts.router, http.MethodPost, "/api/profile/"+alice.ID.Hex()+"/like", aliceToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown target", func(t *testing.T) {
		w := doJSON(t, ts.router, http.MethodPost, "/api/profile/000000000000000000000001/view", aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBlockRemovesFromDiscovery(t *testing.T) {
	ts, _ := newTestServer(t)
	alice := seedUser(t, ts.mem, "Alice")
	bob := seedUser(t, ts.mem, "Bob")
	aliceToken := tokenFor(t, alice)

	w := doJSON(t, ts.router, http.MethodGet, "/api/discover", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profiles := decodeBody(t, w)["profiles"].([]interface{})
	require.Len(t, profiles, 1)

	w = doJSON(t, ts.router, http.MethodPost, "/api/profile/"+bob.ID.Hex()+"/block", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, ts.router, http.MethodGet, "/api/discover", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profiles = decodeBody(t, w)["profiles"].([]interface{})
	assert.Empty(t, profiles)

	// The block also hides the blocker from the blocked user
	w = doJSON(t, ts.router, http.MethodGet, "/api/discover", tokenFor(t, bob), nil)
	require.Equal(t, http.StatusOK, w.Code)
	profiles = decodeBody(t, w)["profiles"].([]interface{})
	assert.Empty(t, profiles)
}

func TestDiscoverRedactsContactInfo(t *testing.T) {
	ts, _ := newTestServer(t)
	alice := seedUser(t, ts.mem, "Alice")
	seedUser(t, ts.mem, "Bob")

	w := doJSON(t, ts.router, http.MethodGet, "/api/discover", tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	profiles := decodeBody(t, w)["profiles"].([]interface{})
	require.Len(t, profiles, 1)

	profile := profiles[0].(map[string]interface{})
	assert.NotContains(t, profile, "email")
	assert.NotContains(t, profile, "likes_given")
	assert.NotEmpty(t, profile["first_name"])
}
