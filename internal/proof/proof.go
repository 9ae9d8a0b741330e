package proof

import (
	"bytes"

	"github.com/filecoin-project/go-state-types/abi"
	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
)

// ConfirmationProof is the externally supplied evidence that a
// withdrawal transaction was finalized. The finalization oracle
// produces it; the withdraw registry stores its CBOR encoding in the
// confirm column and never interprets it beyond identity.
type ConfirmationProof struct {
	TxID      cid.Cid         // finalized transaction reference
	Height    abi.ChainEpoch  // height at which finality was observed
	ExitCode  int64           // execution result, zero on success
	Amount    abi.TokenAmount // settled amount
	Signature []byte          // oracle attestation over the receipt
}

// Encode returns the canonical CBOR encoding of the proof.
func (p *ConfirmationProof) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.MarshalCBOR(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a proof from its CBOR encoding.
func Decode(data []byte) (*ConfirmationProof, error) {
	var p ConfirmationProof
	if err := p.UnmarshalCBOR(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return &p, nil
}

// Cid returns the content identifier of the encoded proof. Two proofs
// are the same event exactly when their CIDs match, which is what the
// confirm idempotency check compares.
func (p *ConfirmationProof) Cid() (cid.Cid, error) {
	data, err := p.Encode()
	if err != nil {
		return cid.Undef, err
	}
	return abi.CidBuilder.Sum(data)
}

// ToStorageBlock wraps the encoded proof in a block addressed by its
// CID, for handing off to content-addressed audit storage.
func (p *ConfirmationProof) ToStorageBlock() (blocks.Block, error) {
	data, err := p.Encode()
	if err != nil {
		return nil, err
	}
	c, err := abi.CidBuilder.Sum(data)
	if err != nil {
		return nil, err
	}
	return blocks.NewBlockWithCid(data, c)
}
