package tx

import (
	"fmt"

	"github.com/altuslabsxyz/near-client/pkg/borsh"
	"github.com/altuslabsxyz/near-client/pkg/key"
	"github.com/altuslabsxyz/near-client/pkg/types"
)

// The encoders below mirror nearcore's Borsh layout exactly. Field
// order, integer widths, and enum discriminants are part of the wire
// contract: the chain hashes and verifies the signature over these
// precise bytes.

func encodePublicKey(w *borsh.Writer, pk key.PublicKey) {
	w.U8(key.CurveTagED25519)
	w.FixedBytes(pk[:])
}

func encodeBalance(w *borsh.Writer, b types.Balance) error {
	le, err := b.LittleEndian16()
	if err != nil {
		return err
	}
	w.U128(le)
	return nil
}

func encodeAccessKey(w *borsh.Writer, ak types.AccessKey) error {
	w.U64(ak.Nonce)
	if fc := ak.Permission.FunctionCall(); fc != nil {
		w.U8(0)
		w.Option(fc.Allowance != nil)
		if fc.Allowance != nil {
			if err := encodeBalance(w, *fc.Allowance); err != nil {
				return err
			}
		}
		w.String(fc.ReceiverID)
		w.VecLen(len(fc.MethodNames))
		for _, m := range fc.MethodNames {
			w.String(m)
		}
		return nil
	}
	w.U8(1)
	return nil
}

func encodeAction(w *borsh.Writer, a Action) error {
	w.U8(a.actionTag())
	switch act := a.(type) {
	case CreateAccount:
	case DeployContract:
		w.VarBytes(act.Code)
	case FunctionCall:
		w.String(act.MethodName)
		w.VarBytes(act.Args)
		w.U64(act.Gas)
		return encodeBalance(w, act.Deposit)
	case Transfer:
		return encodeBalance(w, act.Deposit)
	case Stake:
		if err := encodeBalance(w, act.Stake); err != nil {
			return err
		}
		encodePublicKey(w, act.PublicKey)
	case AddKey:
		encodePublicKey(w, act.PublicKey)
		return encodeAccessKey(w, act.AccessKey)
	case DeleteKey:
		encodePublicKey(w, act.PublicKey)
	case DeleteAccount:
		w.String(string(act.BeneficiaryID))
	default:
		return fmt.Errorf("unknown action type %T", a)
	}
	return nil
}

func encodeTransaction(w *borsh.Writer, t *Transaction) error {
	w.String(string(t.SignerID))
	encodePublicKey(w, t.PublicKey)
	w.U64(t.Nonce)
	w.String(string(t.ReceiverID))
	w.FixedBytes(t.BlockHash[:])
	w.VecLen(len(t.Actions))
	for _, a := range t.Actions {
		if err := encodeAction(w, a); err != nil {
			return err
		}
	}
	return w.Err()
}
