package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "modernc.org/sqlite"

	"github.com/koralov/sqldict/internal/errs"
)

// Primary SQLite result codes (read-relevant only).
// Full list: https://sqlite.org/rescode.html
const (
	codeError    = 1  // SQL error or missing database object
	codePerm     = 3  // access permission denied
	codeBusy     = 5  // database file locked
	codeCantOpen = 14 // unable to open the database file
	codeAuth     = 23 // authorization denied
)

// mapError translates modernc.org/sqlite errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		kind := errs.ErrKindQueryFailed
		switch sqliteErr.Code() & 0xff {
		case codePerm, codeAuth:
			kind = errs.ErrKindPermissionDenied
		case codeBusy, codeCantOpen:
			kind = errs.ErrKindConnectionFailed
		case codeError:
			kind = errs.ErrKindQueryFailed
		}
		return errs.Wrap(kind, fmt.Sprintf("%s: %v", msg, sqliteErr), err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
