package dbutil

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// gendry renders MySQL style "LIMIT offset,count"; postgres wants "LIMIT count OFFSET offset".
var mysqlLimit = regexp.MustCompile(`(?i)LIMIT\s+\?\s*,\s*\?`)

// Finalize converts a gendry query with "?" placeholders into a postgres query.
func Finalize(query string, args []interface{}) (string, []interface{}) {
	if loc := mysqlLimit.FindStringIndex(query); loc != nil {
		idx := strings.Count(query[:loc[0]], "?")
		if idx+1 < len(args) {
			args[idx], args[idx+1] = args[idx+1], args[idx]
			query = mysqlLimit.ReplaceAllString(query, "LIMIT ? OFFSET ?")
		}
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

func IsConflict(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// Offset turns a 1-based page into a row offset.
func Offset(page, perPage int) uint {
	if page < 1 || perPage < 1 {
		return 0
	}
	return uint((page - 1) * perPage)
}
