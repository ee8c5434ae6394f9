// Package model holds the wire representations of the API's resources for
// consumers of the service.
package model

import "time"

// Contact is a contact as returned by the API.
type Contact struct {
	Id           string     `json:"id"`
	OwnerId      string     `json:"owner_id"`
	PhoneNumber  string     `json:"phone_number"`
	CustomName   string     `json:"custom_name"`
	WhatsappName *string    `json:"whatsapp_name,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Company      *string    `json:"company,omitempty"`
	Position     *string    `json:"position,omitempty"`
	Address      *string    `json:"address,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GroupMember is one row of a group member listing. UserId is the member's
// phone number.
type GroupMember struct {
	MemberId     string  `json:"member_id"`
	UserId       string  `json:"user_id"`
	CustomName   string  `json:"custom_name"`
	WhatsappName *string `json:"whatsapp_name"`
	UnreadCount  int     `json:"unread_count"`
}

// ContactRequest is the request body for creating or updating a contact.
// PhoneNumber is ignored by the update endpoint because it is immutable.
type ContactRequest struct {
	PhoneNumber  string   `json:"phoneNumber,omitempty"`
	CustomName   string   `json:"customName"`
	WhatsappName string   `json:"whatsappName,omitempty"`
	Email        string   `json:"email,omitempty"`
	Company      string   `json:"company,omitempty"`
	Position     string   `json:"position,omitempty"`
	Address      string   `json:"address,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}
