package models

import "time"

// ContactRequest is the /contact body.
type ContactRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	Message      string `json:"message"`
	ProjectStage string `json:"projectStage"`
	Budget       string `json:"budget"`
	AIUsage      string `json:"aiUsage"`
	Location     string `json:"location"`
	Employees    string `json:"employees"`
	Experience   string `json:"experience"`
}

// ContactInquiry is one stored contact-form submission. Repeats are allowed.
type ContactInquiry struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone" json:"phone"`
	Company      string    `bson:"company,omitempty" json:"company,omitempty"`
	Location     string    `bson:"location,omitempty" json:"location,omitempty"`
	ProjectStage string    `bson:"projectStage,omitempty" json:"projectStage,omitempty"`
	Budget       string    `bson:"budget,omitempty" json:"budget,omitempty"`
	AIUsage      string    `bson:"aiUsage,omitempty" json:"aiUsage,omitempty"`
	Employees    string    `bson:"employees,omitempty" json:"employees,omitempty"`
	Experience   string    `bson:"experience,omitempty" json:"experience,omitempty"`
	Message      string    `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
