package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a unique constraint
// breach; repositories map it to the matching domain sentinel.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
