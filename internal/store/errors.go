package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNotFound is the parent of every "row does not exist" error below.
	ErrNotFound = errors.New("not found")

	// ErrSyncRecordNotFound is returned when no sync record matches the
	// requested local or remote id.
	ErrSyncRecordNotFound = childError(ErrNotFound, "sync record was not found")

	// ErrEntityNotFound is returned when no entity matches the requested id.
	ErrEntityNotFound = childError(ErrNotFound, "entity was not found")

	// ErrUploadNotFound is returned when no pending upload matches the id.
	ErrUploadNotFound = childError(ErrNotFound, "pending upload was not found")

	// ErrAlreadyExists is returned when an insert hits a unique constraint
	// (for example, a second record claiming the same remote id).
	ErrAlreadyExists = errors.New("row already exists")

	// ErrUpdateNotSaved is returned when an INSERT into the update log
	// completes without error but affects no rows.
	ErrUpdateNotSaved = errors.New("document update was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied. All of them are storage failures from the engine's point of
// view; [ErrStorage] lets callers match the whole group.
var (
	// ErrStorage is the parent of every SQL-level failure.
	ErrStorage = errors.New("local storage failure")

	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = childError(ErrStorage, "error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = childError(ErrStorage, "error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = childError(ErrStorage, "failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = childError(ErrStorage, "failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = childError(ErrStorage, "failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = childError(ErrStorage, "failed to scan row")
)

// childErr is a sentinel that also matches its parent group with errors.Is.
type childErr struct {
	parent error
	msg    string
}

func childError(parent error, msg string) error {
	return &childErr{parent: parent, msg: msg}
}

func (e *childErr) Error() string { return e.msg }

func (e *childErr) Unwrap() error { return e.parent }
