package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Html is optional; Text is recommended as fallback.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// WelcomeJob builds the email sent after a successful registration.
func WelcomeJob(to, username string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Welcome to Bookworm",
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour account is ready. Start sharing your book recommendations!\n",
			username,
		),
	}
}
