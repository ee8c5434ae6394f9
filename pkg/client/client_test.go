package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/chatstack/contacts-service/pkg/model"
)

// TestCreateContactRequest expects the client to send the bearer token, the
// JSON body, and to decode the contact from the response envelope.
func TestCreateContactRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/contacts", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		assert.NoError(t, json.Unmarshal(raw, &req))
		assert.Equal(t, "15551234567", req["phoneNumber"])
		assert.Equal(t, "Alice Maier", req["customName"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"success": true,
			"contact": {
				"id": "c-1",
				"owner_id": "acct-1",
				"phone_number": "15551234567",
				"custom_name": "Alice Maier",
				"tags": ["vip"]
			}
		}`)
	}))
	defer server.Close()

	api := New(server.URL, "test-token")
	contact, err := api.CreateContact(model.ContactRequest{
		PhoneNumber: "15551234567",
		CustomName:  "Alice Maier",
		Tags:        []string{"vip"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "c-1", contact.Id)
	assert.Equal(t, "Alice Maier", contact.CustomName)
	assert.Equal(t, []string{"vip"}, contact.Tags)
}

// TestSearchContactsParams expects the query and tag to be passed as URL
// parameters.
func TestSearchContactsParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contacts/search", r.URL.Path)
		assert.Equal(t, "john", r.URL.Query().Get("q"))
		assert.Equal(t, "vip", r.URL.Query().Get("tag"))
		io.WriteString(w, `{"success": true, "contacts": [], "count": 0, "query": "john", "tag": "vip"}`)
	}))
	defer server.Close()

	api := New(server.URL, "test-token")
	contacts, err := api.SearchContacts("john", "vip")
	assert.NoError(t, err)
	assert.Empty(t, contacts)
}

// TestRemoveGroupMemberParams expects the member id to be passed as the
// userId URL parameter.
func TestRemoveGroupMemberParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/groups/g-1/members", r.URL.Path)
		assert.Equal(t, "c-1", r.URL.Query().Get("userId"))
		io.WriteString(w, `{"success": true, "message": "member removed"}`)
	}))
	defer server.Close()

	api := New(server.URL, "test-token")
	assert.NoError(t, api.RemoveGroupMember("g-1", "c-1"))
}

// TestAPIErrorDecoding expects a non-2xx answer to come back as *APIError
// with the status code and the message from the error shape.
func TestAPIErrorDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error": "a contact with this phone number already exists"}`)
	}))
	defer server.Close()

	api := New(server.URL, "test-token")
	_, err := api.CreateContact(model.ContactRequest{PhoneNumber: "1", CustomName: "x"})
	assert.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "a contact with this phone number already exists", apiErr.Message)
}

// TestAPIErrorWithoutBody expects a sensible message when the error body is
// not the JSON error shape.
func TestAPIErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	api := New(server.URL, "test-token")
	_, err := api.ListContacts()

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
