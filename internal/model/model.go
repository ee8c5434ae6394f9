package model

import "time"

// Contact is the data structure for an address book entry of a chat account.
// Every contact belongs to exactly one owning account, and an owner can have
// at most one contact per phone number. The phone number is the contact's
// stable identity in the chat network and never changes after creation.
type Contact struct {
	Id           string     `json:"id"                       db:"id"`
	OwnerId      string     `json:"owner_id"                 db:"owner_id"`
	PhoneNumber  string     `json:"phone_number"             db:"phone_number"`
	CustomName   string     `json:"custom_name"              db:"custom_name"`
	WhatsappName *string    `json:"whatsapp_name,omitempty"  db:"whatsapp_name"`
	Email        *string    `json:"email,omitempty"          db:"email"`
	Company      *string    `json:"company,omitempty"        db:"company"`
	Position     *string    `json:"position,omitempty"       db:"position"`
	Address      *string    `json:"address,omitempty"        db:"address"`
	Notes        *string    `json:"notes,omitempty"          db:"notes"`
	Tags         Tags       `json:"tags,omitempty"           db:"tags"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty" db:"last_active_at"`
	CreatedAt    time.Time  `json:"created_at"               db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"               db:"updated_at"`
}

// Group is a chat group as far as this module needs to know it. Groups are
// created and managed elsewhere; we only check ownership and link contacts
// to them.
type Group struct {
	Id          string    `json:"id"                    db:"id"`
	OwnerId     string    `json:"owner_id"              db:"owner_id"`
	Name        string    `json:"name"                  db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at"            db:"created_at"`
}

// GroupMember is one row of a group member listing. UserId carries the
// contact's phone number, which is how the chat network addresses the
// member. UnreadCount is always zero here because the message store lives
// outside this module.
type GroupMember struct {
	MemberId     string  `json:"member_id"     db:"member_id"`
	UserId       string  `json:"user_id"       db:"user_id"`
	CustomName   string  `json:"custom_name"   db:"custom_name"`
	WhatsappName *string `json:"whatsapp_name" db:"whatsapp_name"`
	UnreadCount  int     `json:"unread_count"  db:"unread_count"`
}
