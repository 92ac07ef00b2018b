package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"github.com/joeys1992/Date/models"
	"github.com/joeys1992/Date/services"
)

const maxPhotoBytes = 5 * 1024 * 1024

type ProfileHandler struct {
	directory *services.Directory
	cld       *cloudinary.Cloudinary
}

func NewProfileHandler(directory *services.Directory) *ProfileHandler {
	h := &ProfileHandler{directory: directory}
	if url := os.Getenv("CLOUDINARY_URL"); url != "" {
		cld, err := cloudinary.NewFromURL(url)
		if err != nil {
			log.Printf("❌ Cloudinary configuration error: %v", err)
		} else {
			h.cld = cld
		}
	}
	return h
}

// Questions returns the fixed question catalog clients answer from.
func (h *ProfileHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": models.ProfileQuestions})
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.directory.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":             user,
		"profile_complete": user.ProfileComplete(),
	})
}

type UpdateProfileRequest struct {
	Bio             *string                 `json:"bio"`
	Location        *string                 `json:"location"`
	QuestionAnswers []models.QuestionAnswer `json:"question_answers"`
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.directory.UpdateProfile(c.Request.Context(), userID, req.Bio, req.Location, req.QuestionAnswers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

type LocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Location  string  `json:"location"`
}

func (h *ProfileHandler) SetLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.directory.SetLocation(c.Request.Context(), userID, req.Latitude, req.Longitude, req.Location)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated successfully"})
}

type SearchPreferencesRequest struct {
	SearchRadius int `json:"search_radius" binding:"required"`
}

func (h *ProfileHandler) SetSearchPreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SearchPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.directory.SetSearchRadius(c.Request.Context(), userID, req.SearchRadius)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Search preferences updated"})
}

func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	photoFile, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photo file provided"})
		return
	}
	defer photoFile.Close()

	if header.Size > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo must be under 5MB"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(photoFile, maxPhotoBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is empty"})
		return
	}
	if len(data) > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo must be under 5MB"})
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be an image"})
		return
	}

	url, err := h.storePhoto(c, userID.Hex(), data, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photo"})
		return
	}

	count, err := h.directory.AddPhoto(c.Request.Context(), userID, url)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Photo uploaded successfully",
		"url":         url,
		"photo_count": count,
	})
}

// storePhoto uploads to Cloudinary when configured and falls back to an
// inline data URI for local development.
func (h *ProfileHandler) storePhoto(c *gin.Context, userID string, data []byte, contentType string) (string, error) {
	if h.cld == nil {
		return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
	}

	result, err := h.cld.Upload.Upload(c.Request.Context(), bytes.NewReader(data), uploader.UploadParams{
		Folder:         "date/photos",
		PublicID:       userID + "_" + time.Now().Format("20060102150405"),
		Transformation: "c_limit,w_800,h_800,q_auto",
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
