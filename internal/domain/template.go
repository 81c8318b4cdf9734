package domain

import "time"

type MessageTemplate struct {
	ID        string
	AccountID string
	Name      string
	Channel   Channel
	Subject   string
	Body      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)
