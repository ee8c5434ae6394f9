package integrationtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"gitlab.com/chatstack/contacts-service/internal/auth"
	"gitlab.com/chatstack/contacts-service/internal/config"
	"gitlab.com/chatstack/contacts-service/internal/service"
)

// setupService connects to the real database from the environment and
// returns the router, a database handle for test fixtures, and the JWT
// secret. The tests are skipped when no database is configured.
func setupService(t *testing.T) (*gin.Engine, *sqlx.DB, string) {
	if os.Getenv("DBHOST") == "" {
		t.Skip("set DBHOST, DBUSER and DBPWD to run the integration tests against a real database")
	}
	if os.Getenv("PORT") == "" {
		os.Setenv("PORT", "8080")
	}
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "integration-secret")
	}
	cfg := config.Load()
	sqlDB := service.CreateDatabase(cfg)
	service.SetupDatabaseWrapper(sqlDB)
	gin.SetMode(gin.ReleaseMode)
	return service.SetupHttpRouter(cfg.JWTSecret), sqlx.NewDb(sqlDB, "mysql"), cfg.JWTSecret
}

// run executes one request against the router as the given account.
func run(t *testing.T, router *gin.Engine, secret string, account string, method string, url string, body string) *httptest.ResponseRecorder {
	token, err := auth.NewToken(secret, account, time.Hour)
	assert.NoError(t, err)
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	request.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, request)
	return recorder
}

// decode unmarshals the response body into a generic map.
func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// uniquePhone builds a phone number that is unique per test run so that
// repeated runs do not collide with the uniqueness constraint.
func uniquePhone() string {
	return fmt.Sprintf("1555%010d", time.Now().UnixNano()%10000000000)
}

// TestContactHappyPath tests a POST, GET, PUT, search and DELETE with valid
// data against a real database.
func TestContactHappyPath(t *testing.T) {
	router, _, secret := setupService(t)
	account := "it-" + uuid.NewString()
	phone := uniquePhone()

	// test the endpoint for creating a contact
	postRecorder := run(t, router, secret, account, "POST", "/api/contacts", `
		{
			"phoneNumber": "`+phone+`",
			"customName": "Erika Mustermann",
			"email": "erika@example.com",
			"tags": ["vip"]
		}
	`)
	assert.Equal(t, http.StatusOK, postRecorder.Code)
	postBody := decode(t, postRecorder)
	contact := postBody["contact"].(map[string]interface{})
	id := contact["id"].(string)
	assert.Equal(t, phone, contact["phone_number"])
	assert.Equal(t, "Erika Mustermann", contact["custom_name"])
	assert.Equal(t, account, contact["owner_id"])

	// test the endpoint for finding the contact
	getRecorder := run(t, router, secret, account, "GET", "/api/contacts/"+id, "")
	assert.Equal(t, http.StatusOK, getRecorder.Code)
	getBody := decode(t, getRecorder)
	assert.Equal(t, id, getBody["contact"].(map[string]interface{})["id"])

	// test the endpoint for updating the contact; the submitted phone
	// number must be ignored
	putRecorder := run(t, router, secret, account, "PUT", "/api/contacts/"+id, `
		{
			"phoneNumber": "99990000000",
			"customName": "Erika Winter",
			"company": "ACME"
		}
	`)
	assert.Equal(t, http.StatusOK, putRecorder.Code)
	putBody := decode(t, putRecorder)
	updated := putBody["contact"].(map[string]interface{})
	assert.Equal(t, "Erika Winter", updated["custom_name"])
	assert.Equal(t, phone, updated["phone_number"])
	assert.Equal(t, "ACME", updated["company"])
	assert.Equal(t, nil, updated["email"]) // replaced by the full update

	// test the search endpoint with a free-text query
	searchRecorder := run(t, router, secret, account, "GET", "/api/contacts/search?q=winter", "")
	assert.Equal(t, http.StatusOK, searchRecorder.Code)
	searchBody := decode(t, searchRecorder)
	assert.Equal(t, 1.0, searchBody["count"])

	// the tags were replaced by the update, so the tag search finds nothing
	tagRecorder := run(t, router, secret, account, "GET", "/api/contacts/search?tag=vip", "")
	assert.Equal(t, http.StatusOK, tagRecorder.Code)
	tagBody := decode(t, tagRecorder)
	assert.Equal(t, 0.0, tagBody["count"])

	// test the endpoint for deleting the contact
	deleteRecorder := run(t, router, secret, account, "DELETE", "/api/contacts/"+id, "")
	assert.Equal(t, http.StatusOK, deleteRecorder.Code)

	// test if a final lookup of the contact will correctly not find it
	finalRecorder := run(t, router, secret, account, "GET", "/api/contacts/"+id, "")
	assert.Equal(t, http.StatusNotFound, finalRecorder.Code)
}

// TestDuplicatePhone tests that the same owner cannot create two contacts
// with the same phone number, while a second owner can reuse the number.
func TestDuplicatePhone(t *testing.T) {
	router, _, secret := setupService(t)
	owner1 := "it-" + uuid.NewString()
	owner2 := "it-" + uuid.NewString()
	phone := uniquePhone()
	body := `{"phoneNumber": "` + phone + `", "customName": "Alice"}`

	first := run(t, router, secret, owner1, "POST", "/api/contacts", body)
	assert.Equal(t, http.StatusOK, first.Code)
	firstID := decode(t, first)["contact"].(map[string]interface{})["id"].(string)

	second := run(t, router, secret, owner1, "POST", "/api/contacts", body)
	assert.Equal(t, http.StatusConflict, second.Code)

	other := run(t, router, secret, owner2, "POST", "/api/contacts", body)
	assert.Equal(t, http.StatusOK, other.Code)
	otherID := decode(t, other)["contact"].(map[string]interface{})["id"].(string)

	run(t, router, secret, owner1, "DELETE", "/api/contacts/"+firstID, "")
	run(t, router, secret, owner2, "DELETE", "/api/contacts/"+otherID, "")
}

// TestOwnerIsolation tests that a contact of one owner is invisible to
// another owner in get and list.
func TestOwnerIsolation(t *testing.T) {
	router, _, secret := setupService(t)
	owner1 := "it-" + uuid.NewString()
	owner2 := "it-" + uuid.NewString()

	created := run(t, router, secret, owner1, "POST", "/api/contacts",
		`{"phoneNumber": "`+uniquePhone()+`", "customName": "Alice"}`)
	assert.Equal(t, http.StatusOK, created.Code)
	id := decode(t, created)["contact"].(map[string]interface{})["id"].(string)

	foreignGet := run(t, router, secret, owner2, "GET", "/api/contacts/"+id, "")
	assert.Equal(t, http.StatusNotFound, foreignGet.Code)

	foreignList := run(t, router, secret, owner2, "GET", "/api/contacts", "")
	assert.Equal(t, http.StatusOK, foreignList.Code)
	assert.Equal(t, 0.0, decode(t, foreignList)["count"])

	run(t, router, secret, owner1, "DELETE", "/api/contacts/"+id, "")
}

// TestGroupMembershipFlow tests adding, listing and removing group members,
// the silent skip of duplicate additions, and the cascade that releases
// membership rows when a contact is deleted.
func TestGroupMembershipFlow(t *testing.T) {
	router, db, secret := setupService(t)
	account := "it-" + uuid.NewString()

	// the group service is external, so the test plants the group row
	groupID := uuid.NewString()
	db.MustExec(`INSERT INTO chat_groups (id, owner_id, name) VALUES (?, ?, ?)`,
		groupID, account, "Integration Team")
	defer db.MustExec(`DELETE FROM chat_groups WHERE id = ?`, groupID)

	makeContact := func(name string) string {
		recorder := run(t, router, secret, account, "POST", "/api/contacts",
			`{"phoneNumber": "`+uniquePhone()+`", "customName": "`+name+`"}`)
		assert.Equal(t, http.StatusOK, recorder.Code)
		return decode(t, recorder)["contact"].(map[string]interface{})["id"].(string)
	}
	contactA := makeContact("Aaron")
	contactB := makeContact("Berta")
	defer run(t, router, secret, account, "DELETE", "/api/contacts/"+contactA, "")

	// add both contacts to the group
	added := run(t, router, secret, account, "POST", "/api/groups/"+groupID+"/members",
		`{"userIds": ["`+contactA+`", "`+contactB+`"]}`)
	assert.Equal(t, http.StatusOK, added.Code)
	assert.Equal(t, 2.0, decode(t, added)["added"])

	// adding one of them again is silently skipped
	again := run(t, router, secret, account, "POST", "/api/groups/"+groupID+"/members",
		`{"userIds": ["`+contactA+`"]}`)
	assert.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, 0.0, decode(t, again)["added"])

	// both members are listed
	listed := run(t, router, secret, account, "GET", "/api/groups/"+groupID+"/members", "")
	assert.Equal(t, http.StatusOK, listed.Code)
	assert.Equal(t, 2, len(decode(t, listed)["members"].([]interface{})))

	// removing one member leaves the other untouched
	removed := run(t, router, secret, account, "DELETE",
		"/api/groups/"+groupID+"/members?userId="+contactA, "")
	assert.Equal(t, http.StatusOK, removed.Code)

	// deleting the remaining contact cascades its membership row away
	deleted := run(t, router, secret, account, "DELETE", "/api/contacts/"+contactB, "")
	assert.Equal(t, http.StatusOK, deleted.Code)

	final := run(t, router, secret, account, "GET", "/api/groups/"+groupID+"/members", "")
	assert.Equal(t, http.StatusOK, final.Code)
	assert.Equal(t, 0, len(decode(t, final)["members"].([]interface{})))
}
