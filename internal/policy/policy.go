// Package policy is the explicit rendition of the row-level access rules:
// a contact or group row is visible and mutable only to the account that
// owns it. The store layer embeds the same predicates in its SQL; the two
// layers are intentionally redundant so that neither a handler bug nor a
// query bug alone can leak another account's rows.
package policy

import "gitlab.com/chatstack/contacts-service/internal/model"

// CanAccessContact reports whether the caller may see or mutate the contact.
func CanAccessContact(callerID string, contact *model.Contact) bool {
	return callerID != "" && contact != nil && contact.OwnerId == callerID
}

// OwnsGroup reports whether the caller owns the group. Group membership may
// only be listed or changed by the group's owner.
func OwnsGroup(callerID string, group *model.Group) bool {
	return callerID != "" && group != nil && group.OwnerId == callerID
}
