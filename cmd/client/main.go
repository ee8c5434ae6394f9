package main

import (
	"fmt"
	"os"
	"time"

	"gitlab.com/chatstack/contacts-service/internal/auth"
	"gitlab.com/chatstack/contacts-service/pkg/client"
	"gitlab.com/chatstack/contacts-service/pkg/model"
)

// Demo client that walks through the whole API surface: contact CRUD,
// search, and - when GROUP is set to the id of an existing group owned by
// the account - the group dialog's delta save.
//
// Usage example on the command line:
// > JWT_SECRET=changeme ACCOUNT=demo-account go run main.go
// > JWT_SECRET=changeme ACCOUNT=demo-account GROUP=7f3ae0... go run main.go
func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Println("JWT_SECRET must be set")
		os.Exit(1)
	}
	account := os.Getenv("ACCOUNT")
	if account == "" {
		account = "demo-account"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	token, err := auth.NewToken(secret, account, time.Hour)
	if err != nil {
		panic(err)
	}
	api := client.New(baseURL, token)

	alice, err := api.CreateContact(model.ContactRequest{
		PhoneNumber: "15551234567",
		CustomName:  "Alice Maier",
		Email:       "alice@example.com",
		Company:     "ACME",
		Tags:        []string{"vip"},
	})
	if err != nil {
		panic(err)
	}
	fmt.Println("created contact", alice.Id, alice.CustomName)

	bob, err := api.CreateContact(model.ContactRequest{
		PhoneNumber: "15559876543",
		CustomName:  "Bob Novak",
	})
	if err != nil {
		panic(err)
	}
	fmt.Println("created contact", bob.Id, bob.CustomName)

	all, err := api.ListContacts()
	if err != nil {
		panic(err)
	}
	fmt.Println("account has", len(all), "contacts")

	byName, err := api.SearchContacts("ali", "")
	if err != nil {
		panic(err)
	}
	fmt.Println("search 'ali' matched", len(byName), "contacts")

	byTag, err := api.SearchContacts("", "vip")
	if err != nil {
		panic(err)
	}
	fmt.Println("tag 'vip' matched", len(byTag), "contacts")

	updated, err := api.UpdateContact(alice.Id, model.ContactRequest{
		CustomName: "Alice Maier",
		Email:      "alice@example.com",
		Company:    "ACME Holdings",
		Tags:       []string{"vip", "customer"},
	})
	if err != nil {
		panic(err)
	}
	fmt.Println("updated contact, company is now", *updated.Company)

	if groupID := os.Getenv("GROUP"); groupID != "" {
		runDialogDemo(api, groupID, alice.Id, bob.Id)
	}

	for _, id := range []string{alice.Id, bob.Id} {
		if err := api.DeleteContact(id); err != nil {
			panic(err)
		}
		fmt.Println("deleted contact", id)
	}
}

// runDialogDemo drives the group dialog in edit mode: it selects both demo
// contacts, saves, then deselects one and saves again so that only the
// delta is sent.
func runDialogDemo(api *client.Client, groupID string, aliceID string, bobID string) {
	dialog := client.NewGroupEditDialog(api, groupID, "demo group")
	if err := dialog.Open(); err != nil {
		panic(err)
	}
	if !dialog.Selected(aliceID) {
		dialog.Toggle(aliceID)
	}
	if !dialog.Selected(bobID) {
		dialog.Toggle(bobID)
	}
	if err := dialog.Save(); err != nil {
		panic(err)
	}
	fmt.Println("group now has", dialog.SelectionCount(), "selected members")

	dialog.Toggle(bobID)
	if err := dialog.Save(); err != nil {
		panic(err)
	}
	members, err := api.ListGroupMembers(groupID)
	if err != nil {
		panic(err)
	}
	fmt.Println("group has", len(members), "members after the delta save")
}
