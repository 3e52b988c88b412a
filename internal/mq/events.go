package mq

import "time"

// ChannelContactReceived carries one event per stored contact message.
const ChannelContactReceived = "contact.received"

// ContactReceived is the JSON payload published on ChannelContactReceived.
type ContactReceived struct {
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}
