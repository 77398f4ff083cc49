package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrConflict       = errors.New("record already exists")
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

type Store struct {
	DB *gorm.DB
	// TxOptions is applied to every transaction opened by WithTx. Nil keeps
	// the driver default.
	TxOptions *sql.TxOptions
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// WithTx runs fn inside one database transaction. fn receives a Store bound
// to the transaction; returning an error rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	txFn := func(tx *gorm.DB) error {
		return fn(&Store{DB: tx, TxOptions: s.TxOptions})
	}
	if s.TxOptions != nil {
		return s.DB.WithContext(ctx).Transaction(txFn, s.TxOptions)
	}
	return s.DB.WithContext(ctx).Transaction(txFn)
}

// InTransaction reports whether the store is bound to an open transaction.
func (s *Store) InTransaction() bool {
	if s == nil || s.DB == nil || s.DB.Statement == nil || s.DB.Error != nil {
		return false
	}
	_, ok := s.DB.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}
