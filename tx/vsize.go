package tx

import (
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"

	"github.com/bitfsorg/libtxsign-go/template"
)

// VirtualSize estimates the final virtual size (vbytes) of the transaction
// for fee budgeting.
//
// Every input that is not yet signed has its worst-case unlocking script
// committed into the canonical form before the size is measured. This
// overwrites those inputs' placeholder scripts; Sign re-renders them, so the
// estimate is safe to take at any point before signing.
func (t *Transaction) VirtualSize() (int64, error) {
	if t.IsReference() {
		return 0, ErrReferenceOnly
	}

	// Render everything first so a failing template leaves the canonical
	// form untouched.
	worst := make(map[int][]byte)
	for i := range t.inputs {
		if t.inputs[i].Signed() {
			continue
		}
		script, err := t.inputs[i].render(template.WorstCase)
		if err != nil {
			return 0, err
		}
		worst[i] = script
	}
	for i, script := range worst {
		t.setInputScript(i, script)
	}

	weight := blockchain.GetTransactionWeight(btcutil.NewTx(t.msgTx))
	vsize := (weight + blockchain.WitnessScaleFactor - 1) / blockchain.WitnessScaleFactor

	log.Debugf("Estimated %d vbytes (%d weight units, %d worst-case inputs)",
		vsize, weight, len(worst))

	return vsize, nil
}
