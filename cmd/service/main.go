package main

import (
	"gitlab.com/chatstack/contacts-service/internal/config"
	"gitlab.com/chatstack/contacts-service/internal/service"
)

// Usage example on the command line:
// > PORT=8080 DBUSER=chat DBPWD=secret DBHOST=localhost JWT_SECRET=changeme GIN_MODE=release go run main.go
func main() {
	cfg := config.Load()
	sqlDB := service.CreateDatabase(cfg)
	service.SetupDatabaseWrapper(sqlDB)
	router := service.SetupHttpRouter(cfg.JWTSecret)
	router.Run(":" + cfg.Port)
}
