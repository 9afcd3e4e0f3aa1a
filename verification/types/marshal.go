package types

import (
	"encoding/binary"
	"fmt"

	"github.com/google/go-tpm/tpm2"
)

// QuoteBuilder assembles the TPMS_ATTEST payload of a quote. ParseQuote is
// its inverse. It exists for the fixture generator and tests; production
// quotes come from a TPM.
type QuoteBuilder struct {
	QualifiedSigner []byte
	ExtraData       []byte
	ClockInfo       [17]byte
	FirmwareVersion [8]byte
	Selection       PCRSelection
	Digest          []byte
}

// Marshal serializes the quote to its big-endian wire representation.
func (b QuoteBuilder) Marshal() []byte {
	out := make([]byte, 0, 64+len(b.QualifiedSigner)+len(b.ExtraData)+len(b.Digest))
	out = binary.BigEndian.AppendUint32(out, uint32(tpm2.TPMGeneratedValue))
	out = binary.BigEndian.AppendUint16(out, uint16(tpm2.TPMSTAttestQuote))
	out = appendSized16(out, b.QualifiedSigner)
	out = appendSized16(out, b.ExtraData)
	out = append(out, b.ClockInfo[:]...)
	out = append(out, b.FirmwareVersion[:]...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(b.Selection.Selections)))
	for _, entry := range b.Selection.Selections {
		out = binary.BigEndian.AppendUint16(out, uint16(entry.Hash))
		out = append(out, byte(len(entry.Bitmap)))
		out = append(out, entry.Bitmap...)
	}
	out = appendSized16(out, b.Digest)
	return out
}

// Marshal serializes the signature to the TPMT_SIGNATURE wire format
// ParseSignature reads.
func (s Signature) Marshal() ([]byte, error) {
	out := make([]byte, 0, 8)
	out = binary.BigEndian.AppendUint16(out, uint16(s.SigAlg))
	switch s.SigAlg {
	case tpm2.TPMAlgRSASSA:
		if s.RSASSA == nil {
			return nil, fmt.Errorf("RSASSA signature carries no RSASSA parameters")
		}
		out = binary.BigEndian.AppendUint16(out, uint16(s.RSASSA.HashAlg))
		out = appendSized16(out, s.RSASSA.Signature)
	case tpm2.TPMAlgECDSA:
		if s.ECDSA == nil {
			return nil, fmt.Errorf("ECDSA signature carries no ECDSA parameters")
		}
		out = binary.BigEndian.AppendUint16(out, uint16(s.ECDSA.HashAlg))
		out = appendSized16(out, s.ECDSA.R)
		out = appendSized16(out, s.ECDSA.S)
	default:
		return nil, fmt.Errorf("%w: signature scheme 0x%04x", ErrUnsupportedAlgorithm, uint16(s.SigAlg))
	}
	return out, nil
}

// MarshalPCRs serializes a selection and its bank values to the PCR file
// layout ParsePCRs reads.
func MarshalPCRs(selection PCRSelection, values PCRValues) []byte {
	out := make([]byte, 0, 256)
	out = binary.BigEndian.AppendUint32(out, uint32(len(selection.Selections)))
	for _, entry := range selection.Selections {
		out = binary.BigEndian.AppendUint16(out, uint16(entry.Hash))
		out = append(out, byte(len(entry.Bitmap)))
		out = append(out, entry.Bitmap...)
	}
	out = binary.BigEndian.AppendUint32(out, uint32(len(values)))
	for _, bank := range values {
		out = binary.BigEndian.AppendUint32(out, uint32(len(bank.Digests)))
		for _, digest := range bank.Digests {
			out = appendSized16(out, digest)
		}
	}
	return out
}

func appendSized16(out, b []byte) []byte {
	out = binary.BigEndian.AppendUint16(out, uint16(len(b)))
	return append(out, b...)
}
