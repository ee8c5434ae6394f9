package main

import (
	"bufio"
	"flag"
	"io"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/chatstack/contacts-service/internal/config"
	"gitlab.com/chatstack/contacts-service/internal/service"
)

// Usage example on the command line:
// > DBUSER=chat DBPWD=secret DBHOST=localhost PORT=8080 JWT_SECRET=changeme go run main.go -file=../../scripts/database.sql
func main() {
	cfg := config.Load()
	sqlDB := service.CreateDatabase(cfg)
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		panic(err)
	}
	defer readFile.Close()

	for _, sql := range statements(readFile) {
		db.MustExec(sql)
	}
}

// statements splits the SQL script into one executable chunk per
// semicolon-terminated statement. Comment lines are dropped: the lines of a
// statement are joined into a single line, where a leading "--" would
// otherwise comment out everything that follows it.
func statements(reader io.Reader) []string {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	var result []string
	builder := strings.Builder{}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			result = append(result, builder.String())
			builder = strings.Builder{}
		}
	}
	return result
}
