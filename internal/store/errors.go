// Package store contains the data access layer. Every operation takes the
// authenticated caller's account id and restricts its SQL to rows owned by
// that account, so a handler bug cannot widen visibility. Handlers translate
// the sentinel errors defined here into HTTP status codes.
package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row does not exist or is not owned by the
// caller. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// such as a second contact with the same phone number for the same owner.
var ErrDuplicate = errors.New("duplicate")

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique constraint violation.
func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
