package models

// EmailMessage is a rendered transactional email.
type EmailMessage struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
	// Kind tags the message for logs and queue metrics (otp, confirmation, digest).
	Kind string `json:"kind"`
}
