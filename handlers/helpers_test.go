package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/joeys1992/Date/middleware"
	"github.com/joeys1992/Date/models"
	"github.com/joeys1992/Date/services"
	"github.com/joeys1992/Date/store"
)

type testServer struct {
	router    *gin.Engine
	mem       *store.Memory
	directory *services.Directory
	likeMatch *services.LikeMatch
	gate      *services.ConversationGate
}

type testMailer struct {
	tokens map[string]string
}

func (m *testMailer) SendVerification(email, token string) {
	m.tokens[email] = token
}

func newTestServer(t *testing.T) (*testServer, *testMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	mailer := &testMailer{tokens: make(map[string]string)}

	directory := services.NewDirectory(mem.Users, mailer)
	discovery := services.NewDiscovery(mem.Users)
	likeMatch := services.NewLikeMatch(directory, mem.Users, mem.Matches, services.NopNotifier{})
	gate := services.NewConversationGate(mem.Users, mem.Matches, mem.Conversations, mem.Messages, services.NopNotifier{})

	auth := NewAuthHandler(directory)
	profile := NewProfileHandler(directory)
	social := NewSocialHandler(directory, likeMatch)
	discover := NewDiscoverHandler(discovery)
	conversation := NewConversationHandler(gate)

	router := gin.New()
	router.POST("/api/register", auth.Register)
	router.POST("/api/login", auth.Login)
	router.GET("/api/verify-email", auth.VerifyEmail)
	router.POST("/api/resend-verification", auth.ResendVerification)
	router.GET("/api/profile/questions", profile.Questions)

	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(mem.Users))
	protected.GET("/profile/me", profile.Me)
	protected.PUT("/profile", profile.UpdateProfile)
	protected.POST("/profile/upload-photo", profile.UploadPhoto)
	protected.POST("/profile/location", profile.SetLocation)
	protected.PUT("/profile/search-preferences", profile.SetSearchPreferences)
	protected.GET("/discover", discover.Discover)
	protected.POST("/profile/:id/view", social.ViewProfile)
	protected.POST("/profile/:id/like", social.Like)
	protected.POST("/profile/:id/block", social.Block)
	protected.GET("/matches", social.Matches)
	protected.GET("/conversations", conversation.ListConversations)
	protected.POST("/conversations/:matchId/messages", conversation.SendMessage)
	protected.GET("/conversations/:matchId/messages", conversation.GetMessages)
	protected.GET("/conversations/:matchId/questions", conversation.Questions)
	protected.GET("/conversations/:matchId/status", conversation.Status)
	protected.PUT("/conversations/:matchId/messages/:messageId/read", conversation.MarkRead)

	return &testServer{
		router:    router,
		mem:       mem,
		directory: directory,
		likeMatch: likeMatch,
		gate:      gate,
	}, mailer
}

func words(n int) string {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "word%d", i)
	}
	return buf.String()
}

var userSeq int

// seedUser inserts a verified user with a complete profile directly into
// the store, bypassing the registration flow.
func seedUser(t *testing.T, mem *store.Memory, name string) *models.User {
	t.Helper()
	userSeq++
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	require.NoError(t, err)

	lat, lon := 40.7128, -74.0060
	user := &models.User{
		ID:               primitive.NewObjectID(),
		Email:            fmt.Sprintf("%s%d@example.com", name, userSeq),
		PasswordHash:     string(hash),
		FirstName:        name,
		Age:              30,
		Gender:           models.GenderMale,
		GenderPreference: models.PrefBoth,
		Photos:           []string{"data:image/jpeg;base64,AAAA"},
		QuestionAnswers: []models.QuestionAnswer{
			{QuestionIndex: 0, Answer: words(models.MinAnswerWords)},
			{QuestionIndex: 1, Answer: words(models.MinAnswerWords)},
			{QuestionIndex: 2, Answer: words(models.MinAnswerWords)},
		},
		Latitude:     &lat,
		Longitude:    &lon,
		SearchRadius: models.DefaultSearchRadius,
		IsVerified:   true,
	}
	require.NoError(t, mem.Users.Insert(context.Background(), user))
	return user
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(user.ID.Hex())
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func uploadPhoto(t *testing.T, router *gin.Engine, token string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", "photo.jpg")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/upload-photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// jpegBytes builds a payload that sniffs as image/jpeg.
func jpegBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return data
}
