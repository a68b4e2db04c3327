package repo

import (
	"errors"
	"strings"

	"github.com/uptrace/bun/driver/pgdriver"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err was raised by a unique or primary key constraint.
func IsUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

// IsForeignKeyViolation reports whether err was raised by a foreign key constraint.
func IsForeignKeyViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgForeignKeyViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
			strings.Contains(liteErr.Error(), "FOREIGN KEY constraint failed")
	}
	return false
}

// constraintName returns the violated constraint name where the driver reports
// one. SQLite only reports the column list, e.g. "rules.a, rules.b".
func constraintName(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('n')
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return sqliteConstraintColumns(liteErr.Error())
	}
	return ""
}

// sqliteConstraintColumns extracts the column list from a modernc message such as
// "constraint failed: UNIQUE constraint failed: rules.a, rules.b (2067)".
func sqliteConstraintColumns(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	name := strings.TrimSpace(msg[i+len(marker):])
	if j := strings.LastIndex(name, " ("); j >= 0 && strings.HasSuffix(name, ")") {
		name = name[:j]
	}
	return name
}

// TranslateWriteError maps store constraint violations raised by a write into
// typed errors. A unique violation becomes a DuplicateEntity naming the
// constraint, a foreign key violation becomes a ReferentialConflict. Other
// errors pass through untouched.
func TranslateWriteError(err error, entity string) error {
	return TranslateWriteErrorAs(err, entity, nil)
}

// TranslateWriteErrorAs is TranslateWriteError with aliases mapping driver
// reported constraint names to the names clients see.
func TranslateWriteErrorAs(err error, entity string, aliases map[string]string) error {
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		// driver names never reach clients; unknown constraints report the entity
		name, ok := aliases[constraintName(err)]
		if !ok {
			name = entity
		}
		return dderr.NewDuplicate(name, "%s violates a uniqueness constraint", entity)
	case IsForeignKeyViolation(err):
		return dderr.ErrReferentialConflict.Msg("%s is referenced by, or references, another entity", entity)
	default:
		return err
	}
}
