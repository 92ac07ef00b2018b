package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joeys1992/Date/services"
)

// currentUserID reads the authenticated user set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

// pathID parses an ObjectID path parameter.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondError maps service errors onto HTTP statuses. Validation and
// precondition failures are 400s; everything unexpected is a 500 so
// clients never retry on our bugs.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrAlreadyVerified):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidAge),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidGender),
		errors.Is(err, services.ErrInvalidPreference),
		errors.Is(err, services.ErrInvalidCoordinate),
		errors.Is(err, services.ErrInvalidRadius),
		errors.Is(err, services.ErrInvalidAnswer),
		errors.Is(err, services.ErrTooManyPhotos),
		errors.Is(err, services.ErrSelfTarget),
		errors.Is(err, services.ErrNotViewed),
		errors.Is(err, services.ErrIncompatible),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrFirstMessageQuestion),
		errors.Is(err, services.ErrMessageTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
