package services

import (
	"fmt"
	"html"
	"log"
	"os"

	"github.com/PraiseNight/models"
	"github.com/resend/resend-go/v2"
)

// emailSender is the part of the resend client the service uses.
type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	sender    emailSender
	from      string
	directors []string
}

var emailService *EmailService

// InitEmailService initializes the email service with Resend API
func InitEmailService() {
	apiKey := os.Getenv("RESEND_API_KEY")

	if apiKey == "" {
		log.Println("WARNING: RESEND_API_KEY not set. Email service will not be available.")
		return
	}

	director := os.Getenv("CHOIR_DIRECTOR_EMAIL")
	if director == "" {
		log.Println("WARNING: CHOIR_DIRECTOR_EMAIL not set. Comment emails will not be sent.")
		return
	}

	client := resend.NewClient(apiKey)
	emailService = &EmailService{
		sender:    client.Emails,
		from:      os.Getenv("EMAIL_FROM"),
		directors: []string{director},
	}

	log.Println("Email service initialized successfully with Resend")
}

// GetEmailService returns the singleton email service instance, nil when disabled.
func GetEmailService() *EmailService {
	return emailService
}

// SendCommentNotification tells the choir director about a new pastor comment.
func (s *EmailService) SendCommentNotification(songTitle string, comment models.Comment) error {
	if s == nil || s.sender == nil {
		return fmt.Errorf("email service not initialized")
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; color: #333;">
    <h2>New comment on "%s"</h2>
    <p><strong>%s</strong> wrote on %s:</p>
    <blockquote style="border-left: 3px solid #9CA3AF; padding-left: 12px;">%s</blockquote>
    <p>Open the song in the praise night app to review it before rehearsal.</p>
</body>
</html>
`, html.EscapeString(songTitle), html.EscapeString(comment.Author), comment.Date.Format("Jan 2, 2006 3:04 PM"), html.EscapeString(comment.Text))

	textBody := fmt.Sprintf(`New comment on "%s"

%s wrote on %s:

%s
`, songTitle, comment.Author, comment.Date.Format("Jan 2, 2006 3:04 PM"), comment.Text)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      s.directors,
		Subject: fmt.Sprintf("%s commented on \"%s\"", comment.Author, songTitle),
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.sender.Send(params)
	if err != nil {
		log.Printf("Failed to send comment email for song %q: %v", songTitle, err)
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Printf("Successfully sent comment email for song %q. Email ID: %s", songTitle, sent.Id)
	return nil
}
