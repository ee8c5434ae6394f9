package store

import (
	"log"

	"github.com/jmoiron/sqlx"
	"gitlab.com/chatstack/contacts-service/internal/model"
)

// MembershipStore gives access to the contact_groups junction table and the
// ownership data of chat groups. A membership row may only be touched by a
// caller who owns both the group and the contact, which the SQL below
// enforces with join predicates in addition to the handler-level checks.
type MembershipStore struct {
	db *sqlx.DB

	selectGroup  *sqlx.Stmt
	insertMember *sqlx.Stmt
	deleteMember *sqlx.Stmt
}

// NewMembershipStore prepares the membership statements.
func NewMembershipStore(db *sqlx.DB) *MembershipStore {
	s := &MembershipStore{db: db}
	var err error
	s.selectGroup, err = db.Preparex(`
		SELECT * FROM chat_groups WHERE id = ? AND owner_id = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	// INSERT IGNORE lets the unique (contact_id, group_id) key swallow
	// duplicate additions instead of erroring per member. The subselect
	// restricts the insert to contacts the caller owns.
	s.insertMember, err = db.Preparex(`
		INSERT IGNORE INTO contact_groups (contact_id, group_id, added_by)
		SELECT c.id, ?, ? FROM contacts c WHERE c.id = ? AND c.owner_id = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	s.deleteMember, err = db.Preparex(`
		DELETE cg FROM contact_groups cg
		JOIN contacts c ON c.id = cg.contact_id
		WHERE cg.group_id = ? AND cg.contact_id = ? AND c.owner_id = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	return s
}

// GetGroupByIdAndOwner returns the group if the caller owns it, otherwise
// ErrNotFound.
func (s *MembershipStore) GetGroupByIdAndOwner(groupID string, ownerID string) (*model.Group, error) {
	var groups []model.Group
	if err := s.selectGroup.Select(&groups, groupID, ownerID); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, ErrNotFound
	}
	return &groups[0], nil
}

// ListMembers returns the members of the group with the contact fields the
// chat UI renders. The unread count is reported as zero because messages
// are stored outside this module.
func (s *MembershipStore) ListMembers(groupID string, ownerID string) ([]model.GroupMember, error) {
	var members []model.GroupMember
	err := s.db.Select(&members, `
		SELECT c.id AS member_id,
			c.phone_number AS user_id,
			c.custom_name AS custom_name,
			c.whatsapp_name AS whatsapp_name,
			0 AS unread_count
		FROM contact_groups cg
		JOIN contacts c ON c.id = cg.contact_id
		WHERE cg.group_id = ? AND c.owner_id = ?
		ORDER BY c.custom_name ASC`, groupID, ownerID)
	return members, err
}

// AddMembers inserts one membership row per contact id and returns how many
// rows were actually created. Contacts already in the group, and ids the
// caller does not own, count as zero without failing the whole request.
func (s *MembershipStore) AddMembers(groupID string, ownerID string, contactIDs []string) (int64, error) {
	var added int64
	for _, contactID := range contactIDs {
		result, err := s.insertMember.Exec(groupID, ownerID, contactID, ownerID)
		if err != nil {
			return added, err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return added, err
		}
		added += rowsAffected
	}
	return added, nil
}

// RemoveMember deletes a single membership row. Returns ErrNotFound when the
// contact is not a member of the group.
func (s *MembershipStore) RemoveMember(groupID string, contactID string, ownerID string) error {
	result, err := s.deleteMember.Exec(groupID, contactID, ownerID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
