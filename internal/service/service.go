// Package service implements the business rules for accounts, mood and
// journal entries and the meditation catalog. Persistence is delegated to
// repository interfaces; every record-scoped operation resolves the record
// first and then applies the ownership check.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atinyakov/zenly/internal/auth"
	"github.com/atinyakov/zenly/internal/models"
	"github.com/google/uuid"
)

// TextSanitizer strips markup from user supplied text.
type TextSanitizer interface {
	Text(s string) string
}

var (
	nowFunc = func() time.Time { return time.Now().UTC() }
	newID   = uuid.NewString
)

// canonicalID parses id as a UUID. Anything else cannot name a stored
// record, so it is reported as not found.
func canonicalID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", models.ErrNotFound
	}
	return parsed.String(), nil
}

// loadOwned fetches the record named by id and admits it only if p owns it.
// A missing record is ErrNotFound even when the caller would not own it.
func loadOwned[T models.Owned](ctx context.Context, p auth.Principal, id string, get func(context.Context, string) (T, error)) (T, error) {
	var zero T
	cid, err := canonicalID(id)
	if err != nil {
		return zero, err
	}
	rec, err := get(ctx, cid)
	if err != nil {
		return zero, err
	}
	if err := auth.CheckOwnership(p, rec.Owner()); err != nil {
		return zero, err
	}
	return rec, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrValidation}, args...)...)
}

// checkLen validates the rune length of s against [min, max].
func checkLen(field, s string, min, max int) error {
	n := utf8.RuneCountInString(s)
	if n < min {
		if min == 1 {
			return invalid("%s is required", field)
		}
		return invalid("%s must be at least %d characters", field, min)
	}
	if n > max {
		return invalid("%s must be at most %d characters", field, max)
	}
	return nil
}
