// Package tx builds and signs legacy Bitcoin transactions.
//
// A Transaction keeps its inputs and outputs alongside a canonical
// wire.MsgTx (version 1, lock time 0) that always reflects the current
// unlocking script of every input. Signing walks the inputs in order:
//
//  1. render the input's sign-target script and commit it
//  2. compute the legacy SIGHASH_ALL digest
//  3. sign it (RFC 6979, low-R grinding), normalize to low-S, DER-encode
//  4. store the signature and commit the final unlocking script
//
// Witness data is never produced.
package tx

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	// TxVersion is the version of every transaction built here.
	TxVersion = 1

	// LockTime is the lock time of every transaction built here.
	LockTime = 0

	// TxIDHexLen is the length of a hex transaction id.
	TxIDHexLen = chainhash.MaxHashStringSize
)

// Transaction is either a reference to a previous transaction (id only) or a
// transaction under construction.
type Transaction struct {
	// hash is set only for reference transactions.
	hash *chainhash.Hash

	msgTx   *wire.MsgTx
	inputs  []TxInput
	outputs []TxOutput
}

// FromID returns a reference transaction for a 64-character hex id in
// display (big-endian) order. The hash is stored reversed, in natural order.
func FromID(id string) (*Transaction, error) {
	if len(id) != TxIDHexLen {
		return nil, fmt.Errorf("%w: got %d characters", ErrInvalidTxID, len(id))
	}
	hash, err := chainhash.NewHashFromStr(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTxID, err)
	}
	return &Transaction{hash: hash}, nil
}

// FromHash returns a reference transaction for a 32-byte hash in natural
// byte order.
func FromHash(hash []byte) (*Transaction, error) {
	h, err := chainhash.NewHash(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTxID, err)
	}
	return &Transaction{hash: h}, nil
}

// New assembles a transaction from inputs and outputs. Their order is the
// serialization order and the signing order; Sign expects one key per input
// in the same order. Inputs and outputs are copied.
func New(inputs []*TxInput, outputs []*TxOutput) (*Transaction, error) {
	t := &Transaction{
		msgTx:   wire.NewMsgTx(TxVersion),
		inputs:  make([]TxInput, 0, len(inputs)),
		outputs: make([]TxOutput, 0, len(outputs)),
	}
	t.msgTx.LockTime = LockTime
	t.msgTx.TxIn = make([]*wire.TxIn, 0, len(inputs))
	t.msgTx.TxOut = make([]*wire.TxOut, 0, len(outputs))

	for i, in := range inputs {
		if in == nil {
			return nil, fmt.Errorf("%w: input %d", ErrNilParam, i)
		}
		t.addInput(in)
	}
	for i, out := range outputs {
		if out == nil {
			return nil, fmt.Errorf("%w: output %d", ErrNilParam, i)
		}
		t.addOutput(out)
	}

	log.Debugf("Assembled transaction with %d inputs and %d outputs",
		len(t.inputs), len(t.outputs))

	return t, nil
}

func (t *Transaction) addInput(in *TxInput) {
	// A signature commits to one transaction only, so every input joins
	// unsigned with an empty unlocking script.
	c := in.clone()
	c.signature = nil
	t.inputs = append(t.inputs, c)

	txIn := wire.NewTxIn(wire.NewOutPoint(&c.prevHash, c.vout), nil, nil)
	txIn.Sequence = c.sequence
	t.msgTx.AddTxIn(txIn)
}

func (t *Transaction) addOutput(out *TxOutput) {
	t.outputs = append(t.outputs, TxOutput{
		amount:        out.amount,
		lockingScript: out.LockingScript(),
	})
	t.msgTx.AddTxOut(wire.NewTxOut(int64(out.amount), out.LockingScript()))
}

// IsReference reports whether t was built from an id only.
func (t *Transaction) IsReference() bool {
	return t.msgTx == nil
}

// Hash returns the transaction id in natural byte order. Reference
// transactions always have one; a transaction under construction has one
// once every input is signed.
func (t *Transaction) Hash() (chainhash.Hash, error) {
	if t.hash != nil {
		return *t.hash, nil
	}
	if t.IsReference() || !t.fullySigned() {
		return chainhash.Hash{}, ErrUnresolvedReference
	}
	return t.msgTx.TxHash(), nil
}

// Inputs returns copies of the inputs, in order. Use it to inspect signing
// state after Sign.
func (t *Transaction) Inputs() []TxInput {
	out := make([]TxInput, len(t.inputs))
	for i := range t.inputs {
		out[i] = t.inputs[i].clone()
	}
	return out
}

// Input returns a copy of input i.
func (t *Transaction) Input(i int) (TxInput, error) {
	if i < 0 || i >= len(t.inputs) {
		return TxInput{}, fmt.Errorf("%w: %d of %d", ErrInputIndex, i, len(t.inputs))
	}
	return t.inputs[i].clone(), nil
}

// Outputs returns copies of the outputs, in order.
func (t *Transaction) Outputs() []TxOutput {
	out := make([]TxOutput, len(t.outputs))
	for i := range t.outputs {
		out[i] = TxOutput{
			amount:        t.outputs[i].amount,
			lockingScript: t.outputs[i].LockingScript(),
		}
	}
	return out
}

// TotalOut returns the sum of all output amounts.
func (t *Transaction) TotalOut() (uint64, error) {
	if t.IsReference() {
		return 0, ErrReferenceOnly
	}
	var total uint64
	for i := range t.outputs {
		if total > math.MaxUint64-t.outputs[i].amount {
			return 0, ErrAmountOverflow
		}
		total += t.outputs[i].amount
	}
	return total, nil
}

// Size returns the serialized size in bytes of the canonical form, with
// whatever unlocking scripts it currently holds.
func (t *Transaction) Size() (int, error) {
	if t.IsReference() {
		return 0, ErrReferenceOnly
	}
	return t.msgTx.SerializeSize(), nil
}

// Bytes serializes the fully signed transaction.
func (t *Transaction) Bytes() ([]byte, error) {
	if t.IsReference() {
		return nil, ErrReferenceOnly
	}
	for i := range t.inputs {
		if !t.inputs[i].Signed() {
			return nil, fmt.Errorf("%w: input %d", ErrNotFullySigned, i)
		}
	}

	var buf bytes.Buffer
	buf.Grow(t.msgTx.SerializeSize())

	// Serialize uses the witness encoding, which falls back to the legacy
	// layout when no input has witness data.
	if err := t.msgTx.Serialize(&buf); err != nil {
		panic(fmt.Sprintf("tx: serialize canonical transaction: %v", err))
	}
	return buf.Bytes(), nil
}

// Hex returns the hex encoding of Bytes.
func (t *Transaction) Hex() (string, error) {
	raw, err := t.Bytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// String implements fmt.Stringer for logs.
func (t *Transaction) String() string {
	if t.IsReference() {
		return "tx(ref " + t.hash.String() + ")"
	}
	total, _ := t.TotalOut()
	return fmt.Sprintf("tx(%d in, %d out, %v)", len(t.inputs), len(t.outputs),
		btcutil.Amount(total))
}

func (t *Transaction) fullySigned() bool {
	for i := range t.inputs {
		if !t.inputs[i].Signed() {
			return false
		}
	}
	return true
}

// setInputScript commits script as input i's unlocking script in the
// canonical form.
func (t *Transaction) setInputScript(i int, script []byte) {
	t.msgTx.TxIn[i].SignatureScript = append([]byte(nil), script...)
}
