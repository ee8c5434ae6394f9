package service

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gitlab.com/chatstack/contacts-service/internal/auth"
	"gitlab.com/chatstack/contacts-service/internal/model"
	"gitlab.com/chatstack/contacts-service/internal/policy"
	"gitlab.com/chatstack/contacts-service/internal/store"
)

// contactRequest is the request body shape shared by the create and update
// endpoints. On update the phone number is ignored because it is immutable.
type contactRequest struct {
	PhoneNumber  string   `json:"phoneNumber"`
	CustomName   string   `json:"customName"`
	WhatsappName string   `json:"whatsappName"`
	Email        string   `json:"email"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Address      string   `json:"address"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
}

// optional trims the string and normalizes an empty result to absent.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// tags converts the submitted tag list, keeping absence distinct from an
// empty list.
func (r contactRequest) tags() model.Tags {
	if r.Tags == nil {
		return nil
	}
	return model.Tags(r.Tags)
}

// listContacts responds with all contacts of the authenticated caller,
// sorted by custom name.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts --header "Authorization: Bearer $TOKEN"
func listContacts(c *gin.Context) {
	result, err := contacts.ListByOwner(auth.CallerID(c))
	if err != nil {
		abortInternal(c, err)
		return
	}
	if result == nil {
		result = []model.Contact{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"contacts": result,
		"count":    len(result),
	})
}

// createContact inserts the contact specified in the request's JSON for the
// authenticated caller. Phone number and custom name are required; all other
// fields are optional and empty strings are stored as absent. The caller's
// account becomes the owner regardless of the request body. Responds with
// 409 when the caller already has a contact with this phone number.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts --request "POST" --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"phoneNumber": "15551234567", "customName": "Alice", "tags": ["vip"]}'
func createContact(c *gin.Context) {
	var req contactRequest
	if err := c.BindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid JSON")
		return
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	name := strings.TrimSpace(req.CustomName)
	if phone == "" || name == "" {
		abortWithError(c, http.StatusBadRequest, "phoneNumber and customName are required")
		return
	}
	now := time.Now().UTC()
	contact := model.Contact{
		Id:           uuid.NewString(),
		OwnerId:      auth.CallerID(c),
		PhoneNumber:  phone,
		CustomName:   name,
		WhatsappName: optional(req.WhatsappName),
		Email:        optional(req.Email),
		Company:      optional(req.Company),
		Position:     optional(req.Position),
		Address:      optional(req.Address),
		Notes:        optional(req.Notes),
		Tags:         req.tags(),
		LastActiveAt: &now,
	}
	if err := contacts.Insert(&contact); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			abortWithError(c, http.StatusConflict, "a contact with this phone number already exists")
			return
		}
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"contact": contact,
	})
}

// getContactByID locates the contact whose ID value matches the id parameter
// of the request URL. A contact of another owner is answered with the same
// NOT FOUND as a missing one.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/0c20b0a1-... --header "Authorization: Bearer $TOKEN"
func getContactByID(c *gin.Context) {
	callerID := auth.CallerID(c)
	contact, err := contacts.GetByIdAndOwner(c.Param("id"), callerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "contact not found")
			return
		}
		abortInternal(c, err)
		return
	}
	if !policy.CanAccessContact(callerID, contact) {
		abortWithError(c, http.StatusNotFound, "contact not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"contact": contact,
	})
}

// updateContactByID replaces the mutable fields of the contact with the
// values from the request's JSON and responds with the new version of the
// contact. Phone number and owner are immutable after creation; values for
// them in the body are ignored.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/0c20b0a1-... --request "PUT" --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"customName": "Alice Maier", "company": "ACME"}'
func updateContactByID(c *gin.Context) {
	var req contactRequest
	if err := c.BindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid JSON")
		return
	}
	name := strings.TrimSpace(req.CustomName)
	if name == "" {
		abortWithError(c, http.StatusBadRequest, "customName is required")
		return
	}
	changes := model.Contact{
		CustomName:   name,
		WhatsappName: optional(req.WhatsappName),
		Email:        optional(req.Email),
		Company:      optional(req.Company),
		Position:     optional(req.Position),
		Address:      optional(req.Address),
		Notes:        optional(req.Notes),
		Tags:         req.tags(),
	}
	updated, err := contacts.UpdateByIdAndOwner(c.Param("id"), auth.CallerID(c), &changes)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "contact not found")
			return
		}
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"contact": updated,
		"message": "contact updated",
	})
}

// deleteContactByID deletes the contact whose ID value matches the id
// parameter of the request URL. The database cascade removes the contact's
// group memberships along with it.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/contacts/0c20b0a1-... --request "DELETE" --header "Authorization: Bearer $TOKEN"
func deleteContactByID(c *gin.Context) {
	err := contacts.DeleteByIdAndOwner(c.Param("id"), auth.CallerID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "contact not found")
			return
		}
		abortInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "contact deleted",
	})
}

// searchContacts responds with the caller's contacts matching the free-text
// URL parameter 'q' and/or the exact tag in the URL parameter 'tag'. With
// neither parameter the full list is returned.
//
// Example REST API calls:
//
//	> curl "http://localhost:8080/api/contacts/search?q=john" --header "Authorization: Bearer $TOKEN"
//	> curl "http://localhost:8080/api/contacts/search?tag=vip" --header "Authorization: Bearer $TOKEN"
//	> curl "http://localhost:8080/api/contacts/search?q=acme&tag=vip" --header "Authorization: Bearer $TOKEN"
func searchContacts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	tag := strings.TrimSpace(c.Query("tag"))
	result, err := contacts.SearchByOwner(auth.CallerID(c), query, tag)
	if err != nil {
		abortInternal(c, err)
		return
	}
	if result == nil {
		result = []model.Contact{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"contacts": result,
		"count":    len(result),
		"query":    query,
		"tag":      tag,
	})
}
