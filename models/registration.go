package models

import "time"

// Registration lifecycle statuses. Only PENDING_VERIFICATION is written by this
// service; staff promote records out of band.
const (
	StatusPendingVerification = "PENDING_VERIFICATION"
	StatusConfirmed           = "CONFIRMED"
	StatusRejected            = "REJECTED"
)

// Sentinel values carried over from the registration form.
const (
	SoloTeamName  = "solo"
	PostGradYear  = "POST GRAD"
	NotApplicable = "N/A"
)

// RegistrationRequest is the raw /manual-register body.
type RegistrationRequest struct {
	FormData      map[string]any `json:"formData"`
	TransactionID string         `json:"transactionId"`
	DeviceID      string         `json:"deviceId"`
	Honeypot      string         `json:"honeypot"`
	// Duration is the client-reported time to submit in milliseconds. It is
	// left untyped because clients send numbers and numeric strings.
	Duration any `json:"duration"`
}

// ParticipantForm is one person block inside formData.
type ParticipantForm struct {
	Name      string `mapstructure:"name"`
	Email     string `mapstructure:"email"`
	Phone     string `mapstructure:"phone"`
	College   string `mapstructure:"college"`
	Year      string `mapstructure:"year"`
	ShirtSize string `mapstructure:"shirtSize"`
}

// RegistrationForm is the decoded, sanitized formData object.
type RegistrationForm struct {
	Type     string `mapstructure:"type"`
	TeamName string `mapstructure:"teamName"`
	Track    string `mapstructure:"track"`
	TeamSize int    `mapstructure:"teamSize"`

	Leader  ParticipantForm `mapstructure:"leader"`
	Member1 ParticipantForm `mapstructure:"member1"`
	Member2 ParticipantForm `mapstructure:"member2"`

	ProjectIdea    string `mapstructure:"projectIdea"`
	WhyParticipate string `mapstructure:"whyParticipate"`
	DriveLink      string `mapstructure:"driveLink"`
}

// Participant is one contact bundle on a registration.
type Participant struct {
	Name        string `bson:"name" json:"name"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
	Institution string `bson:"institution,omitempty" json:"institution,omitempty"`
	Year        string `bson:"year,omitempty" json:"year,omitempty"`
	ShirtSize   string `bson:"shirtSize,omitempty" json:"shirtSize,omitempty"`
}

// RegistrationRecord is one persisted team or individual registration.
// Records are insert-only.
type RegistrationRecord struct {
	RegistrationID string        `bson:"registrationId" json:"registrationId"`
	Type           string        `bson:"type,omitempty" json:"type,omitempty"`
	TeamName       string        `bson:"teamName" json:"teamName"`
	Track          string        `bson:"track" json:"track"`
	TeamSize       int           `bson:"teamSize" json:"teamSize"`
	Leader         Participant   `bson:"leader" json:"leader"`
	Members        []Participant `bson:"members,omitempty" json:"members,omitempty"`
	ProjectPitch   string        `bson:"projectPitch,omitempty" json:"projectPitch,omitempty"`
	Motivation     string        `bson:"motivation,omitempty" json:"motivation,omitempty"`
	DriveLink      string        `bson:"driveLink,omitempty" json:"driveLink,omitempty"`
	TransactionID  string        `bson:"transactionId" json:"transactionId"`
	PaymentMethod  string        `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaymentMode    string        `bson:"paymentMode,omitempty" json:"paymentMode,omitempty"`
	Amount         float64       `bson:"amount" json:"amount"`
	DeviceID       string        `bson:"deviceId,omitempty" json:"deviceId,omitempty"`
	Status         string        `bson:"status" json:"status"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`

	// Normalized lookup keys backing the uniqueness rules. TeamKey is left
	// empty for the solo sentinel so the partial unique index skips it.
	LeaderEmailKey string `bson:"leaderEmailKey" json:"-"`
	TeamKey        string `bson:"teamKey,omitempty" json:"-"`
}

// RegistrationResult is returned to the client on acceptance.
type RegistrationResult struct {
	RegistrationID string `json:"registrationId"`
}
