package services

import "github.com/joeys1992/Date/models"

// Notifier is the best-effort delivery hook for match and message events.
// Implementations must never block the request or return errors upward;
// the stored documents remain the authoritative record.
type Notifier interface {
	MatchCreated(user, other *models.User, match *models.Match)
	MessageSent(recipient, sender *models.User, msg *models.Message)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) MatchCreated(user, other *models.User, match *models.Match) {}

func (NopNotifier) MessageSent(recipient, sender *models.User, msg *models.Message) {}
