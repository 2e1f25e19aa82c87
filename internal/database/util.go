package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"placement-portal-backend/internal/placement"
	"placement-portal-backend/internal/utilities"
)

// Postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError converts gorm and driver errors into the placement storage sentinels
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return placement.ErrRecordNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", placement.ErrDuplicateRecord, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			// the referenced row is gone
			return fmt.Errorf("%w: %s", placement.ErrRecordNotFound, pgErr.ConstraintName)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", placement.ErrDuplicateRecord, err)
	}
	return err
}

// IsDuplicate reports whether err is a uniqueness violation
func IsDuplicate(err error) bool {
	return errors.Is(translateError(err), placement.ErrDuplicateRecord)
}

// Paginate limits a query to one page
func Paginate(p utilities.Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// NormalizeEmail lower-cases and trims an email for storage and lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
