package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInvalidTxID indicates a transaction id is not 64 hex characters
	// (or 32 bytes).
	ErrInvalidTxID = errors.New("tx: transaction id must be 64 hex characters")

	// ErrUnresolvedReference indicates the referenced transaction has no id.
	ErrUnresolvedReference = errors.New("tx: referenced transaction has no id")

	// ErrReferenceOnly indicates the transaction was built from an id and
	// carries no inputs or outputs.
	ErrReferenceOnly = errors.New("tx: reference-only transaction")

	// ErrKeyCountMismatch indicates the number of keys differs from the
	// number of inputs.
	ErrKeyCountMismatch = errors.New("tx: key count does not match input count")

	// ErrNotFullySigned indicates serialization was requested while an input
	// is still unsigned.
	ErrNotFullySigned = errors.New("tx: transaction is not fully signed")

	// ErrRender indicates an input's template could not render a script.
	ErrRender = errors.New("tx: cannot render unlocking script")

	// ErrInputIndex indicates an input index is out of range.
	ErrInputIndex = errors.New("tx: input index out of range")

	// ErrAmountOverflow indicates the output total does not fit in 64 bits.
	ErrAmountOverflow = errors.New("tx: output total overflows")
)
