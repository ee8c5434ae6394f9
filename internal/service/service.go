package service

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/chatstack/contacts-service/internal/auth"
	"gitlab.com/chatstack/contacts-service/internal/config"
	"gitlab.com/chatstack/contacts-service/internal/store"
)

// db is a handle to the database.
var db *sqlx.DB

// contacts is the data access layer for the contacts table.
var contacts *store.ContactStore

// memberships is the data access layer for group membership.
var memberships *store.MembershipStore

// CreateDatabase initializes and returns a database connection with the
// given configuration.
func CreateDatabase(cfg config.Config) *sql.DB {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	return sqlDB
}

// SetupDatabaseWrapper initializes the sqlx database wrapper with the
// specified sql database and builds the stores on top of it. The database
// argument can be a real database for production use or a mock database
// within unit tests.
func SetupDatabaseWrapper(sqlDB *sql.DB) {
	db = sqlx.NewDb(sqlDB, "mysql")
	contacts = store.NewContactStore(db)
	memberships = store.NewMembershipStore(db)
}

// SetupHttpRouter initializes the REST API router and registers all
// endpoints. Everything under /api except the health probe sits behind the
// bearer token middleware.
func SetupHttpRouter(jwtSecret string) *gin.Engine {
	var router *gin.Engine
	if strings.EqualFold(os.Getenv("GIN_LOGGING"), "off") {
		fmt.Println("Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	} else {
		router = gin.Default()
	}
	router.GET("/api/health", health)

	api := router.Group("/api", auth.Middleware(jwtSecret))
	api.GET("/contacts", listContacts)
	api.POST("/contacts", createContact)
	api.GET("/contacts/search", searchContacts)
	api.GET("/contacts/:id", getContactByID)
	api.PUT("/contacts/:id", updateContactByID)
	api.DELETE("/contacts/:id", deleteContactByID)
	api.GET("/groups/:id/members", listGroupMembers)
	api.POST("/groups/:id/members", addGroupMembers)
	api.DELETE("/groups/:id/members", removeGroupMember)
	return router
}

// health answers liveness probes. It is the only unauthenticated endpoint.
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// abortWithError answers the request with the single JSON error shape used
// by all endpoints.
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// abortInternal logs the detail server-side and answers with a generic
// message, so database internals never reach the client.
func abortInternal(c *gin.Context, err error) {
	log.Println("unexpected error:", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
