// Package audit records every persisted mutation as per-attribute Change
// rows written in the same transaction as the mutation itself.
package audit

import "errors"

var (
	// ErrMissingAuditCall means the audit call id was empty or unknown.
	ErrMissingAuditCall = errors.New("audit call is missing")
	// ErrAuditUserDoesNotExist means the acting user of an audit call is
	// gone or soft-deleted.
	ErrAuditUserDoesNotExist = errors.New("audit user does not exist")
	// ErrTransactionRequired means tracking was attempted outside an open
	// transaction.
	ErrTransactionRequired = errors.New("audit tracking requires an open transaction")
	// ErrInvalidEntity means a value could not be snapshotted as a model.
	ErrInvalidEntity = errors.New("invalid audit entity")
)
