// Package client is a typed HTTP client for the contacts service plus the
// group management dialog flow built on top of it.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"gitlab.com/chatstack/contacts-service/pkg/model"
)

// APIError is a non-2xx answer from the service, carrying the status code
// and the message from the JSON error shape.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client calls the contacts service. The token is sent as a bearer token on
// every request.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New returns a client for the service at baseURL, e.g.
// "http://localhost:8080", authenticating with the given bearer token.
func New(baseURL string, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: http.DefaultClient,
	}
}

// envelope types mirroring the service's response shapes
type contactsEnvelope struct {
	Success  bool            `json:"success"`
	Contacts []model.Contact `json:"contacts"`
	Count    int             `json:"count"`
}

type contactEnvelope struct {
	Success bool          `json:"success"`
	Contact model.Contact `json:"contact"`
	Message string        `json:"message"`
}

type membersEnvelope struct {
	Success bool                `json:"success"`
	Members []model.GroupMember `json:"members"`
}

type addedEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Added   int64  `json:"added"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListContacts returns all contacts of the authenticated account.
func (c *Client) ListContacts() ([]model.Contact, error) {
	var env contactsEnvelope
	if err := c.do(http.MethodGet, "/api/contacts", nil, &env); err != nil {
		return nil, err
	}
	return env.Contacts, nil
}

// CreateContact creates a contact and returns it with its assigned id.
func (c *Client) CreateContact(req model.ContactRequest) (*model.Contact, error) {
	var env contactEnvelope
	if err := c.do(http.MethodPost, "/api/contacts", req, &env); err != nil {
		return nil, err
	}
	return &env.Contact, nil
}

// GetContact returns a single contact by id.
func (c *Client) GetContact(id string) (*model.Contact, error) {
	var env contactEnvelope
	if err := c.do(http.MethodGet, "/api/contacts/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}
	return &env.Contact, nil
}

// UpdateContact replaces the mutable fields of a contact and returns the new
// version.
func (c *Client) UpdateContact(id string, req model.ContactRequest) (*model.Contact, error) {
	var env contactEnvelope
	if err := c.do(http.MethodPut, "/api/contacts/"+url.PathEscape(id), req, &env); err != nil {
		return nil, err
	}
	return &env.Contact, nil
}

// DeleteContact deletes a contact by id.
func (c *Client) DeleteContact(id string) error {
	var env messageEnvelope
	return c.do(http.MethodDelete, "/api/contacts/"+url.PathEscape(id), nil, &env)
}

// SearchContacts returns the contacts matching the free-text query and/or
// the exact tag.
func (c *Client) SearchContacts(query string, tag string) ([]model.Contact, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if tag != "" {
		params.Set("tag", tag)
	}
	path := "/api/contacts/search"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var env contactsEnvelope
	if err := c.do(http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Contacts, nil
}

// ListGroupMembers returns the members of a group owned by the account.
func (c *Client) ListGroupMembers(groupID string) ([]model.GroupMember, error) {
	var env membersEnvelope
	if err := c.do(http.MethodGet, "/api/groups/"+url.PathEscape(groupID)+"/members", nil, &env); err != nil {
		return nil, err
	}
	return env.Members, nil
}

// AddGroupMembers adds the contacts to the group and returns how many
// membership rows were actually created.
func (c *Client) AddGroupMembers(groupID string, memberIDs []string) (int64, error) {
	body := map[string][]string{"userIds": memberIDs}
	var env addedEnvelope
	if err := c.do(http.MethodPost, "/api/groups/"+url.PathEscape(groupID)+"/members", body, &env); err != nil {
		return 0, err
	}
	return env.Added, nil
}

// RemoveGroupMember removes a single contact from the group.
func (c *Client) RemoveGroupMember(groupID string, memberID string) error {
	params := url.Values{}
	params.Set("userId", memberID)
	path := "/api/groups/" + url.PathEscape(groupID) + "/members?" + params.Encode()
	var env messageEnvelope
	return c.do(http.MethodDelete, path, nil, &env)
}

// do executes one request against the service and decodes the JSON answer
// into out. Non-2xx answers are returned as *APIError.
func (c *Client) do(method string, path string, body interface{}, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(encoded)
	}
	request, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Authorization", "Bearer "+c.Token)
	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := &APIError{Status: response.StatusCode}
		var shape struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if err := json.Unmarshal(raw, &shape); err == nil {
			apiErr.Message = shape.Error
			apiErr.Details = shape.Details
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(response.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
