package email

import (
	"fmt"
	"log"
	"os"
)

// LogMailer writes verification links to the application log instead of
// sending real email. The link points at the frontend, which calls the
// verification endpoint with the token.
type LogMailer struct {
	baseURL string
}

func NewLogMailer() *LogMailer {
	base := os.Getenv("FRONTEND_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	return &LogMailer{baseURL: base}
}

func (m *LogMailer) SendVerification(email, token string) {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.baseURL, token)
	log.Printf("📧 Verification email for %s: %s", email, link)
}
