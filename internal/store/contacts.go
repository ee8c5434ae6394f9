package store

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"gitlab.com/chatstack/contacts-service/internal/model"
)

// ContactStore gives access to the contacts table. All reads and writes are
// scoped to the owner passed in by the caller.
type ContactStore struct {
	db *sqlx.DB

	// Prepared statements offer a significant speed increase if executed
	// many times.
	insert        *sqlx.NamedStmt
	selectWhereId *sqlx.Stmt
	deleteWhereId *sqlx.Stmt
}

// NewContactStore prepares all single-row statements against the given
// database wrapper. The database can be a real one for production use or a
// mock database within unit tests.
func NewContactStore(db *sqlx.DB) *ContactStore {
	s := &ContactStore{db: db}
	var err error
	s.insert, err = db.PrepareNamed(`
		INSERT INTO contacts
			(id, owner_id, phone_number, custom_name, whatsapp_name, email,
			 company, position, address, notes, tags, last_active_at)
		VALUES
			(:id, :owner_id, :phone_number, :custom_name, :whatsapp_name, :email,
			 :company, :position, :address, :notes, :tags, :last_active_at)
	`)
	if err != nil {
		log.Fatal(err)
	}
	s.selectWhereId, err = db.Preparex(`
		SELECT * FROM contacts WHERE id = ? AND owner_id = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	s.deleteWhereId, err = db.Preparex(`
		DELETE FROM contacts WHERE id = ? AND owner_id = ?
	`)
	if err != nil {
		log.Fatal(err)
	}
	return s
}

// ListByOwner returns all contacts of the given owner, sorted by custom
// name ascending.
func (s *ContactStore) ListByOwner(ownerID string) ([]model.Contact, error) {
	var contacts []model.Contact
	err := s.db.Select(&contacts, `
		SELECT *
		FROM contacts
		WHERE owner_id = ?
		ORDER BY custom_name ASC`, ownerID)
	return contacts, err
}

// GetByIdAndOwner returns the contact with the given id if the owner has it.
// It returns ErrNotFound both for missing rows and rows of other owners.
func (s *ContactStore) GetByIdAndOwner(id string, ownerID string) (*model.Contact, error) {
	var contacts []model.Contact
	if err := s.selectWhereId.Select(&contacts, id, ownerID); err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, ErrNotFound
	}
	return &contacts[0], nil
}

// Insert creates the contact and reads the row back so that the timestamps
// assigned by the database are filled in. The contact's OwnerId must already
// be set to the caller's account id; a request body can never override it.
// Returns ErrDuplicate when the owner already has a contact with this phone
// number.
func (s *ContactStore) Insert(contact *model.Contact) error {
	if _, err := s.insert.Exec(contact); err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	created, err := s.GetByIdAndOwner(contact.Id, contact.OwnerId)
	if err != nil {
		return err
	}
	*contact = *created
	return nil
}

// UpdateByIdAndOwner replaces all mutable fields of the contact and returns
// the row after the update. Phone number and owner are immutable and not
// part of the statement. The updated timestamp is refreshed by the database.
func (s *ContactStore) UpdateByIdAndOwner(id string, ownerID string, changes *model.Contact) (*model.Contact, error) {
	// The select doubles as the existence check, so a miss is reported as
	// ErrNotFound instead of a zero-rows-affected update.
	if _, err := s.GetByIdAndOwner(id, ownerID); err != nil {
		return nil, err
	}
	_, err := s.db.Exec(`
		UPDATE contacts
		SET custom_name = ?, whatsapp_name = ?, email = ?, company = ?,
			position = ?, address = ?, notes = ?, tags = ?
		WHERE id = ? AND owner_id = ?`,
		changes.CustomName, changes.WhatsappName, changes.Email, changes.Company,
		changes.Position, changes.Address, changes.Notes, changes.Tags,
		id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.GetByIdAndOwner(id, ownerID)
}

// DeleteByIdAndOwner removes the contact. The database cascade releases all
// membership rows of the contact. Returns ErrNotFound when nothing was
// deleted.
func (s *ContactStore) DeleteByIdAndOwner(id string, ownerID string) error {
	result, err := s.deleteWhereId.Exec(id, ownerID)
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

// SearchByOwner returns the owner's contacts matching a free-text query
// and/or a single tag. The query matches case-insensitively as a substring
// of the custom name, whatsapp name, phone number, email, or company. The
// tag must be contained exactly in the contact's tag set. Both filters are
// ANDed when both are present; with neither present the result equals
// ListByOwner.
func (s *ContactStore) SearchByOwner(ownerID string, query string, tag string) ([]model.Contact, error) {
	sql := `
		SELECT *
		FROM contacts
		WHERE owner_id = ?`
	args := []interface{}{ownerID}
	if query != "" {
		sql += `
			AND (LOWER(custom_name) LIKE ?
				OR LOWER(whatsapp_name) LIKE ?
				OR LOWER(phone_number) LIKE ?
				OR LOWER(email) LIKE ?
				OR LOWER(company) LIKE ?)`
		pattern := "%" + strings.ToLower(query) + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}
	if tag != "" {
		sql += `
			AND JSON_CONTAINS(tags, JSON_QUOTE(?))`
		args = append(args, tag)
	}
	sql += `
		ORDER BY custom_name ASC`
	var contacts []model.Contact
	err := s.db.Select(&contacts, sql, args...)
	return contacts, err
}
