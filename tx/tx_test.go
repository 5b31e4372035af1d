package tx

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libtxsign-go/signer"
	"github.com/bitfsorg/libtxsign-go/template"
	"github.com/bitfsorg/libtxsign-go/wallet"
)

const testTxID = "0000000000000000000000000000000000000000000000000000000000000001"

// testKey derives deterministic key material from a label.
func testKey(t *testing.T, label string) *wallet.KeyMaterial {
	t.Helper()
	seed := sha512.Sum512([]byte(label))
	km, err := wallet.NewKeyMaterial(seed[:], nil)
	require.NoError(t, err)
	return km
}

func testRef(t *testing.T, id string) *Transaction {
	t.Helper()
	ref, err := FromID(id)
	require.NoError(t, err)
	return ref
}

// spend describes one P2PKH input and the output it spends.
type spend struct {
	key      *wallet.KeyMaterial
	pkScript []byte
	amount   int64
	input    *TxInput
}

func newP2PKHSpend(t *testing.T, label string, vout uint32) spend {
	t.Helper()
	km := testKey(t, label)
	tmpl, err := template.NewP2PKH(km.PublicKey())
	require.NoError(t, err)

	idHash := sha512.Sum512_256([]byte("prev " + label))
	ref, err := FromHash(idHash[:])
	require.NoError(t, err)

	in, err := NewTxInput(ref, vout, tmpl)
	require.NoError(t, err)

	return spend{
		key:      km,
		pkScript: tmpl.LockingScript(),
		amount:   100000,
		input:    in,
	}
}

func testOutput(t *testing.T, label string, amount uint64) *TxOutput {
	t.Helper()
	lock, err := template.LockP2PKHFromPubKey(testKey(t, label).PublicKey())
	require.NoError(t, err)
	return NewTxOutput(lock, amount)
}

func buildTx(t *testing.T, spends []spend, outputs ...*TxOutput) *Transaction {
	t.Helper()
	inputs := make([]*TxInput, len(spends))
	for i, s := range spends {
		inputs[i] = s.input
	}
	txn, err := New(inputs, outputs)
	require.NoError(t, err)
	return txn
}

func keysOf(spends []spend) []Key {
	keys := make([]Key, len(spends))
	for i, s := range spends {
		keys[i] = s.key
	}
	return keys
}

// verifyInputs executes every input's unlocking script against the spent
// locking script with standard policy flags.
func verifyInputs(t *testing.T, txn *Transaction, spends []spend) {
	t.Helper()
	for i, s := range spends {
		fetcher := txscript.NewCannedPrevOutputFetcher(s.pkScript, s.amount)
		vm, err := txscript.NewEngine(s.pkScript, txn.msgTx, i,
			txscript.StandardVerifyFlags, nil, nil, s.amount, fetcher)
		require.NoError(t, err, "input %d", i)
		require.NoError(t, vm.Execute(), "input %d", i)
	}
}

// --- Transaction id tests ---

func TestFromID(t *testing.T) {
	ref, err := FromID(testTxID)
	require.NoError(t, err)
	assert.True(t, ref.IsReference())

	hash, err := ref.Hash()
	require.NoError(t, err)
	// Display order is reversed from natural order.
	assert.Equal(t, byte(0x01), hash[0])
	assert.Equal(t, testTxID, hash.String())
}

func TestFromID_Invalid(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"63 chars", testTxID[1:]},
		{"65 chars", testTxID + "0"},
		{"empty", ""},
		{"non-hex", strings.Repeat("zz", 32)},
		{"raw tx hex", "0100000001" + testTxID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromID(tc.id)
			assert.ErrorIs(t, err, ErrInvalidTxID)

			// Deterministic: same input, same outcome.
			_, err2 := FromID(tc.id)
			assert.ErrorIs(t, err2, ErrInvalidTxID)
		})
	}
}

func TestFromHash(t *testing.T) {
	raw := bytes.Repeat([]byte{0xab}, 32)
	ref, err := FromHash(raw)
	require.NoError(t, err)

	hash, err := ref.Hash()
	require.NoError(t, err)
	assert.Equal(t, raw, hash[:])

	_, err = FromHash(raw[:31])
	assert.ErrorIs(t, err, ErrInvalidTxID)
}

func TestReferenceOnly(t *testing.T) {
	ref := testRef(t, testTxID)

	_, err := ref.Hex()
	assert.ErrorIs(t, err, ErrReferenceOnly)
	_, err = ref.VirtualSize()
	assert.ErrorIs(t, err, ErrReferenceOnly)
	_, err = ref.TotalOut()
	assert.ErrorIs(t, err, ErrReferenceOnly)
	_, err = ref.Size()
	assert.ErrorIs(t, err, ErrReferenceOnly)
	_, err = ref.SignatureHash(0)
	assert.ErrorIs(t, err, ErrReferenceOnly)
	assert.ErrorIs(t, ref.Sign(nil), ErrReferenceOnly)
	assert.Contains(t, ref.String(), testTxID)
}

// --- TxOutput / TxInput tests ---

func TestNewTxOutput_CopiesScript(t *testing.T) {
	script := []byte{0x51, 0x52}
	out := NewTxOutput(script, 1234)
	script[0] = 0x00

	assert.Equal(t, uint64(1234), out.Amount())
	assert.Equal(t, []byte{0x51, 0x52}, out.LockingScript())
}

func TestNewTxInput(t *testing.T) {
	s := newP2PKHSpend(t, "input", 3)
	in := s.input

	assert.Equal(t, uint32(3), in.Vout())
	assert.Equal(t, uint32(0xffffffff), in.Sequence())
	assert.False(t, in.Signed())
	assert.Nil(t, in.Signature())
	assert.Nil(t, in.Witness())
	assert.NotNil(t, in.Template())
}

func TestNewTxInput_Errors(t *testing.T) {
	s := newP2PKHSpend(t, "errors", 0)

	_, err := NewTxInput(nil, 0, s.input.Template())
	assert.ErrorIs(t, err, ErrUnresolvedReference)

	_, err = NewTxInput(testRef(t, testTxID), 0, nil)
	assert.ErrorIs(t, err, ErrNilParam)

	// An unsigned transaction has no id yet.
	unsigned := buildTx(t, []spend{s}, testOutput(t, "dest", 1000))
	_, err = NewTxInput(unsigned, 0, s.input.Template())
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}

// --- Assembly tests ---

func TestNew_Layout(t *testing.T) {
	spends := []spend{
		newP2PKHSpend(t, "a", 0),
		newP2PKHSpend(t, "b", 1),
		newP2PKHSpend(t, "c", 2),
	}
	outputs := []*TxOutput{
		testOutput(t, "x", 1000),
		testOutput(t, "y", 2000),
	}
	txn := buildTx(t, spends, outputs...)

	require.NotNil(t, txn.msgTx)
	assert.Equal(t, int32(TxVersion), txn.msgTx.Version)
	assert.Equal(t, uint32(LockTime), txn.msgTx.LockTime)
	require.Len(t, txn.msgTx.TxIn, len(spends))
	require.Len(t, txn.msgTx.TxOut, len(outputs))

	for i, s := range spends {
		txIn := txn.msgTx.TxIn[i]
		assert.Equal(t, s.input.PreviousHash(), txIn.PreviousOutPoint.Hash)
		assert.Equal(t, s.input.Vout(), txIn.PreviousOutPoint.Index)
		assert.Equal(t, wire.MaxTxInSequenceNum, txIn.Sequence)
		assert.Empty(t, txIn.SignatureScript)
		assert.Empty(t, txIn.Witness)
	}
	for i, out := range outputs {
		assert.Equal(t, int64(out.Amount()), txn.msgTx.TxOut[i].Value)
		assert.Equal(t, out.LockingScript(), txn.msgTx.TxOut[i].PkScript)
	}

	total, err := txn.TotalOut()
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), total)
	assert.Len(t, txn.Inputs(), 3)
	assert.Len(t, txn.Outputs(), 2)
}

func TestNew_NilElements(t *testing.T) {
	_, err := New([]*TxInput{nil}, nil)
	assert.ErrorIs(t, err, ErrNilParam)

	_, err = New(nil, []*TxOutput{nil})
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestTotalOut_Overflow(t *testing.T) {
	txn, err := New(nil, []*TxOutput{
		NewTxOutput(nil, ^uint64(0)),
		NewTxOutput(nil, 1),
	})
	require.NoError(t, err)

	_, err = txn.TotalOut()
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

// --- Signing tests ---

func TestSign_SingleInputScenario(t *testing.T) {
	s := newP2PKHSpend(t, "scenario", 0)
	s.input = mustInput(t, testRef(t, testTxID), 0, s.input.Template())

	txn := buildTx(t, []spend{s}, testOutput(t, "dest", 50000))

	_, err := txn.Hex()
	assert.ErrorIs(t, err, ErrNotFullySigned)

	require.NoError(t, txn.Sign(keysOf([]spend{s})))

	hexTx, err := txn.Hex()
	require.NoError(t, err)
	assert.NotEmpty(t, hexTx)
	assert.True(t, strings.HasPrefix(hexTx, "01000000"+"01"), "version 1 and no witness marker")
	assert.True(t, strings.HasSuffix(hexTx, "00000000"), "lock time 0")

	in, err := txn.Input(0)
	require.NoError(t, err)
	assert.True(t, in.Signed())

	verifyInputs(t, txn, []spend{s})
}

func mustInput(t *testing.T, ref *Transaction, vout uint32, tmpl template.Template) *TxInput {
	t.Helper()
	in, err := NewTxInput(ref, vout, tmpl)
	require.NoError(t, err)
	return in
}

func TestSign_MultipleInputs(t *testing.T) {
	spends := []spend{
		newP2PKHSpend(t, "m1", 0),
		newP2PKHSpend(t, "m2", 5),
		newP2PKHSpend(t, "m3", 1),
	}
	txn := buildTx(t, spends, testOutput(t, "d1", 70000), testOutput(t, "d2", 20000))

	for _, in := range txn.Inputs() {
		assert.False(t, in.Signed())
	}

	require.NoError(t, txn.Sign(keysOf(spends)))

	for i, in := range txn.Inputs() {
		assert.True(t, in.Signed(), "input %d", i)

		sig, err := signer.ParseDER(in.Signature())
		require.NoError(t, err, "input %d", i)
		assert.True(t, sig.IsLowS(), "input %d", i)
		assert.True(t, sig.IsLowR(), "input %d", i)
	}

	verifyInputs(t, txn, spends)

	raw, err := txn.Bytes()
	require.NoError(t, err)

	var decoded wire.MsgTx
	require.NoError(t, decoded.Deserialize(bytes.NewReader(raw)))
	require.Len(t, decoded.TxIn, 3)
	require.Len(t, decoded.TxOut, 2)
	for i, s := range spends {
		assert.Equal(t, s.input.PreviousHash(), decoded.TxIn[i].PreviousOutPoint.Hash)
		assert.Equal(t, s.input.Vout(), decoded.TxIn[i].PreviousOutPoint.Index)
	}
	assert.Equal(t, int64(70000), decoded.TxOut[0].Value)
	assert.Equal(t, int64(20000), decoded.TxOut[1].Value)
}

func TestSign_KeyCountMismatch(t *testing.T) {
	spends := []spend{
		newP2PKHSpend(t, "k1", 0),
		newP2PKHSpend(t, "k2", 0),
	}
	txn := buildTx(t, spends, testOutput(t, "d", 1000))

	for _, keys := range [][]Key{nil, {spends[0].key}, {spends[0].key, spends[1].key, spends[0].key}} {
		err := txn.Sign(keys)
		assert.ErrorIs(t, err, ErrKeyCountMismatch)

		for i, in := range txn.Inputs() {
			assert.False(t, in.Signed(), "input %d", i)
			assert.Empty(t, txn.msgTx.TxIn[i].SignatureScript, "input %d", i)
		}
	}

	_, err := txn.Hex()
	assert.ErrorIs(t, err, ErrNotFullySigned)
}

func TestSign_Deterministic(t *testing.T) {
	build := func() *Transaction {
		spends := []spend{newP2PKHSpend(t, "det1", 0), newP2PKHSpend(t, "det2", 1)}
		txn := buildTx(t, spends, testOutput(t, "d", 5000))
		require.NoError(t, txn.Sign(keysOf(spends)))
		return txn
	}

	a, err := build().Hex()
	require.NoError(t, err)
	b, err := build().Hex()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSign_WithoutGrinding(t *testing.T) {
	spends := []spend{newP2PKHSpend(t, "nogrind", 0)}
	txn := buildTx(t, spends, testOutput(t, "d", 5000))

	require.NoError(t, txn.Sign(keysOf(spends), WithGrindR(false)))
	verifyInputs(t, txn, spends)
}

func TestSign_InputsAreCopied(t *testing.T) {
	spends := []spend{newP2PKHSpend(t, "copy", 0)}
	txn := buildTx(t, spends, testOutput(t, "d", 5000))

	require.NoError(t, txn.Sign(keysOf(spends)))

	assert.False(t, spends[0].input.Signed(), "caller's input is not aliased")
	assert.True(t, txn.Inputs()[0].Signed())

	// Mutating a returned copy does not reach the transaction.
	copies := txn.Inputs()
	copies[0].signature = nil
	assert.True(t, txn.Inputs()[0].Signed())
}

func TestSign_Resign(t *testing.T) {
	spends := []spend{newP2PKHSpend(t, "resign", 0)}
	txn := buildTx(t, spends, testOutput(t, "d", 5000))

	require.NoError(t, txn.Sign(keysOf(spends)))
	first, err := txn.Hex()
	require.NoError(t, err)

	require.NoError(t, txn.Sign(keysOf(spends)))
	second, err := txn.Hex()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	verifyInputs(t, txn, spends)
}

func TestSign_SignatureHashMatches(t *testing.T) {
	spends := []spend{newP2PKHSpend(t, "sh1", 0), newP2PKHSpend(t, "sh2", 0)}
	txn := buildTx(t, spends, testOutput(t, "d", 5000))

	digests := make([][signer.DigestLen]byte, len(spends))
	for i := range spends {
		d, err := txn.SignatureHash(i)
		require.NoError(t, err)
		digests[i] = d
	}

	require.NoError(t, txn.Sign(keysOf(spends)))

	for i, s := range spends {
		in, err := txn.Input(i)
		require.NoError(t, err)
		assert.True(t, signer.Verify(s.key.PublicKey(), digests[i], in.Signature()), "input %d", i)
	}

	_, err := txn.SignatureHash(len(spends))
	assert.ErrorIs(t, err, ErrInputIndex)
}

type zeroKey struct{}

func (zeroKey) RawPrivateKey() [signer.PrivateKeyLen]byte {
	return [signer.PrivateKeyLen]byte{}
}

func TestSign_InvalidKeyPanics(t *testing.T) {
	spends := []spend{newP2PKHSpend(t, "badkey", 0)}
	txn := buildTx(t, spends, testOutput(t, "d", 5000))

	assert.Panics(t, func() {
		_ = txn.Sign([]Key{zeroKey{}})
	})
}

type brokenTemplate struct{}

func (brokenTemplate) Render(template.Phase, []byte) ([]byte, error) {
	return nil, assert.AnError
}

func TestSign_RenderFailureLeavesTxUntouched(t *testing.T) {
	good := newP2PKHSpend(t, "good", 0)
	bad := mustInput(t, testRef(t, testTxID), 1, brokenTemplate{})

	txn, err := New([]*TxInput{good.input, bad}, []*TxOutput{testOutput(t, "d", 5000)})
	require.NoError(t, err)

	err = txn.Sign([]Key{good.key, good.key})
	assert.ErrorIs(t, err, ErrRender)
	for i, in := range txn.Inputs() {
		assert.False(t, in.Signed(), "input %d", i)
		assert.Empty(t, txn.msgTx.TxIn[i].SignatureScript, "input %d", i)
	}

	_, err = txn.VirtualSize()
	assert.ErrorIs(t, err, ErrRender)
	assert.Empty(t, txn.msgTx.TxIn[0].SignatureScript)
}

func TestSign_P2PKInput(t *testing.T) {
	km := testKey(t, "p2pk")
	tmpl, err := template.NewP2PK(km.PublicKey())
	require.NoError(t, err)
	pkScript, err := template.LockP2PK(km.PublicKey())
	require.NoError(t, err)

	s := spend{
		key:      km,
		pkScript: pkScript,
		amount:   42000,
		input:    mustInput(t, testRef(t, testTxID), 0, tmpl),
	}
	txn := buildTx(t, []spend{s}, testOutput(t, "d", 41000))

	require.NoError(t, txn.Sign(keysOf([]spend{s})))
	verifyInputs(t, txn, []spend{s})
}

func TestSign_ChainedReference(t *testing.T) {
	parentSpend := newP2PKHSpend(t, "parent", 0)
	childKey := testKey(t, "child")
	childLock, err := template.LockP2PKHFromPubKey(childKey.PublicKey())
	require.NoError(t, err)

	parent := buildTx(t, []spend{parentSpend}, NewTxOutput(childLock, 90000))
	require.NoError(t, parent.Sign(keysOf([]spend{parentSpend})))

	parentHash, err := parent.Hash()
	require.NoError(t, err)
	assert.Equal(t, parent.msgTx.TxHash(), parentHash)

	childTmpl, err := template.NewP2PKH(childKey.PublicKey())
	require.NoError(t, err)
	child := spend{
		key:      childKey,
		pkScript: childLock,
		amount:   90000,
		input:    mustInput(t, parent, 0, childTmpl),
	}
	childTx := buildTx(t, []spend{child}, testOutput(t, "d", 89000))
	require.NoError(t, childTx.Sign(keysOf([]spend{child})))
	verifyInputs(t, childTx, []spend{child})
}

// --- Virtual size tests ---

func TestVirtualSize_WorstCase(t *testing.T) {
	spends := []spend{newP2PKHSpend(t, "vs", 0)}
	txn := buildTx(t, spends, testOutput(t, "d", 50000))

	vsize, err := txn.VirtualSize()
	require.NoError(t, err)
	// 4 version + 1 + (36 outpoint + 1 + 108 script + 4 sequence)
	// + 1 + (8 + 1 + 25) + 4 lock time
	assert.Equal(t, int64(193), vsize)

	// The estimate leaves worst-case scripts behind; they are not signatures.
	assert.False(t, txn.Inputs()[0].Signed())
	_, err = txn.Hex()
	assert.ErrorIs(t, err, ErrNotFullySigned)
}

func TestVirtualSize_UpperBound(t *testing.T) {
	for n := 1; n <= 4; n++ {
		spends := make([]spend, n)
		for i := range spends {
			spends[i] = newP2PKHSpend(t, "ub"+string(rune('a'+i)), uint32(i))
		}
		txn := buildTx(t, spends, testOutput(t, "d", 1000), testOutput(t, "e", 2000))

		worst, err := txn.VirtualSize()
		require.NoError(t, err)

		require.NoError(t, txn.Sign(keysOf(spends)))
		verifyInputs(t, txn, spends)

		signed, err := txn.VirtualSize()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, worst, signed, "%d inputs", n)

		// Fully signed, legacy only: vsize equals the serialized size.
		raw, err := txn.Bytes()
		require.NoError(t, err)
		assert.Equal(t, int64(len(raw)), signed)

		size, err := txn.Size()
		require.NoError(t, err)
		assert.Equal(t, len(raw), size)
	}
}

func TestHex_MatchesBytes(t *testing.T) {
	spends := []spend{newP2PKHSpend(t, "hex", 0)}
	txn := buildTx(t, spends, testOutput(t, "d", 5000))
	require.NoError(t, txn.Sign(keysOf(spends)))

	raw, err := txn.Bytes()
	require.NoError(t, err)
	hexTx, err := txn.Hex()
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(raw), hexTx)
}
