package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joeys1992/Date/services"
)

// SocialHandler covers the view, like, block and match listing endpoints.
type SocialHandler struct {
	directory *services.Directory
	likeMatch *services.LikeMatch
}

func NewSocialHandler(directory *services.Directory, likeMatch *services.LikeMatch) *SocialHandler {
	return &SocialHandler{directory: directory, likeMatch: likeMatch}
}

func (h *SocialHandler) ViewProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.directory.RecordView(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile view recorded"})
}

func (h *SocialHandler) Like(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.likeMatch.Like(c.Request.Context(), userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"message": "Like recorded",
		"match":   result.Matched,
	}
	if result.Matched {
		resp["message"] = "It's a match!"
		resp["match_id"] = result.MatchID
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SocialHandler) Block(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.directory.Block(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

func (h *SocialHandler) Matches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profiles, err := h.directory.MatchedProfiles(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	matches := make([]gin.H, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		matches = append(matches, gin.H{
			"id":               p.ID.Hex(),
			"first_name":       p.FirstName,
			"age":              p.Age,
			"gender":           p.Gender,
			"bio":              p.Bio,
			"photos":           p.Photos,
			"question_answers": p.QuestionAnswers,
			"location":         p.Location,
		})
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
