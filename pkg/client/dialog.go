package client

import (
	"errors"
	"sort"
	"strings"

	"gitlab.com/chatstack/contacts-service/pkg/model"
)

// DirectoryAPI is the slice of the contacts service the group dialog needs.
// *Client implements it.
type DirectoryAPI interface {
	ListContacts() ([]model.Contact, error)
	ListGroupMembers(groupID string) ([]model.GroupMember, error)
	AddGroupMembers(groupID string, memberIDs []string) (int64, error)
	RemoveGroupMember(groupID string, memberID string) error
}

// CreateGroupFunc creates a group with the given name and full member list
// and returns the new group's id. Group creation lives outside this module,
// so the dialog takes it as a function.
type CreateGroupFunc func(name string, memberIDs []string) (string, error)

// ErrSaveInFlight is returned when Save is called while a previous save has
// not finished. The UI disables its save trigger for the same reason.
var ErrSaveInFlight = errors.New("save already in progress")

// GroupDialog drives the group management dialog. It has two modes: create
// (no group id) and edit (group id given). It loads the account's contact
// list on open, lets callers toggle a selection of contact ids filtered by
// an incremental search, and on save issues either one creation request with
// the full member list or, in edit mode, only the add/remove delta between
// the membership at open time and the current selection.
//
// The dialog is driven by a single UI goroutine and is not safe for
// concurrent use.
type GroupDialog struct {
	api         DirectoryAPI
	createGroup CreateGroupFunc

	groupID string // empty in create mode
	name    string
	filter  string

	contacts []model.Contact
	initial  map[string]bool // membership when the dialog was opened
	selected map[string]bool

	saving  bool
	lastErr string
}

// NewGroupDialog returns a dialog in create mode.
func NewGroupDialog(api DirectoryAPI, createGroup CreateGroupFunc) *GroupDialog {
	return &GroupDialog{
		api:         api,
		createGroup: createGroup,
		initial:     map[string]bool{},
		selected:    map[string]bool{},
	}
}

// NewGroupEditDialog returns a dialog in edit mode for an existing group.
func NewGroupEditDialog(api DirectoryAPI, groupID string, name string) *GroupDialog {
	return &GroupDialog{
		api:      api,
		groupID:  groupID,
		name:     name,
		initial:  map[string]bool{},
		selected: map[string]bool{},
	}
}

// Editing reports whether the dialog operates on an existing group.
func (d *GroupDialog) Editing() bool {
	return d.groupID != ""
}

// Open loads the account's full contact list and, in edit mode, the current
// membership of the group. The current members start out selected.
func (d *GroupDialog) Open() error {
	contacts, err := d.api.ListContacts()
	if err != nil {
		return d.fail(err)
	}
	d.contacts = contacts
	if d.Editing() {
		members, err := d.api.ListGroupMembers(d.groupID)
		if err != nil {
			return d.fail(err)
		}
		for _, member := range members {
			d.initial[member.MemberId] = true
			d.selected[member.MemberId] = true
		}
	}
	return nil
}

// SetName sets the group name field.
func (d *GroupDialog) SetName(name string) {
	d.name = name
}

// SetFilter sets the incremental search text.
func (d *GroupDialog) SetFilter(filter string) {
	d.filter = filter
}

// Visible returns the contacts matching the current filter, in list order.
// The filter matches case-insensitively as a substring of the custom name,
// whatsapp name, phone number, email, or company.
func (d *GroupDialog) Visible() []model.Contact {
	if strings.TrimSpace(d.filter) == "" {
		return d.contacts
	}
	needle := strings.ToLower(strings.TrimSpace(d.filter))
	var visible []model.Contact
	for _, contact := range d.contacts {
		if matchesFilter(contact, needle) {
			visible = append(visible, contact)
		}
	}
	return visible
}

// matchesFilter reports whether the contact matches the lowercased needle.
func matchesFilter(contact model.Contact, needle string) bool {
	fields := []string{contact.CustomName, contact.PhoneNumber}
	if contact.WhatsappName != nil {
		fields = append(fields, *contact.WhatsappName)
	}
	if contact.Email != nil {
		fields = append(fields, *contact.Email)
	}
	if contact.Company != nil {
		fields = append(fields, *contact.Company)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Toggle flips the selection state of a contact.
func (d *GroupDialog) Toggle(contactID string) {
	if d.selected[contactID] {
		delete(d.selected, contactID)
	} else {
		d.selected[contactID] = true
	}
}

// Selected reports whether the contact is currently selected.
func (d *GroupDialog) Selected(contactID string) bool {
	return d.selected[contactID]
}

// SelectionCount returns the number of selected contacts.
func (d *GroupDialog) SelectionCount() int {
	return len(d.selected)
}

// Saving reports whether a save is in flight. Callers should disable their
// save trigger while this is true.
func (d *GroupDialog) Saving() bool {
	return d.saving
}

// Error returns the message of the last failed operation, or the empty
// string. The message stays until dismissed.
func (d *GroupDialog) Error() string {
	return d.lastErr
}

// DismissError clears the error message.
func (d *GroupDialog) DismissError() {
	d.lastErr = ""
}

// Save validates the dialog and persists it. In create mode it issues a
// single creation request carrying the full member list. In edit mode it
// computes the symmetric difference between the membership at open time and
// the current selection, and issues separate remove and add operations only
// for the delta. The first encountered error aborts the save; the steps are
// not atomic, so an aborted edit save can leave part of the delta applied.
func (d *GroupDialog) Save() error {
	if d.saving {
		return ErrSaveInFlight
	}
	if strings.TrimSpace(d.name) == "" {
		return d.fail(errors.New("group name is required"))
	}
	if len(d.selected) == 0 {
		return d.fail(errors.New("select at least one member"))
	}
	d.saving = true
	defer func() { d.saving = false }()

	if !d.Editing() {
		groupID, err := d.createGroup(strings.TrimSpace(d.name), d.selection())
		if err != nil {
			return d.fail(err)
		}
		d.groupID = groupID
		return nil
	}

	added, removed := diffSelection(d.initial, d.selected)
	for _, contactID := range removed {
		if err := d.api.RemoveGroupMember(d.groupID, contactID); err != nil {
			return d.fail(err)
		}
		delete(d.initial, contactID)
	}
	if len(added) > 0 {
		if _, err := d.api.AddGroupMembers(d.groupID, added); err != nil {
			return d.fail(err)
		}
		for _, contactID := range added {
			d.initial[contactID] = true
		}
	}
	return nil
}

// selection returns the selected contact ids in a stable order.
func (d *GroupDialog) selection() []string {
	ids := make([]string, 0, len(d.selected))
	for id := range d.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// fail records the error message for the dialog and passes the error on.
func (d *GroupDialog) fail(err error) error {
	d.lastErr = err.Error()
	return err
}

// diffSelection computes the delta between the previous and the current
// selection. Contacts in both sets are never touched.
func diffSelection(initial map[string]bool, selected map[string]bool) (added []string, removed []string) {
	for id := range selected {
		if !initial[id] {
			added = append(added, id)
		}
	}
	for id := range initial {
		if !selected[id] {
			removed = append(removed, id)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}
