package tx

// TxOutput is an immutable (amount, locking script) pair.
type TxOutput struct {
	amount        uint64
	lockingScript []byte
}

// NewTxOutput creates an output paying amount satoshis to lockingScript.
// The script is copied.
func NewTxOutput(lockingScript []byte, amount uint64) *TxOutput {
	return &TxOutput{
		amount:        amount,
		lockingScript: append([]byte(nil), lockingScript...),
	}
}

// Amount returns the output value in satoshis.
func (o *TxOutput) Amount() uint64 {
	return o.amount
}

// LockingScript returns a copy of the locking script.
func (o *TxOutput) LockingScript() []byte {
	return append([]byte(nil), o.lockingScript...)
}
