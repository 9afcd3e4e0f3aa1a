package types

import (
	"errors"
	"fmt"

	"github.com/google/go-tpm/tpm2"
)

// ErrUnsupportedAlgorithm is returned when an algorithm identifier does not
// resolve to an implementation this library carries.
var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

// SignatureRSASSA holds the scheme-specific parameters of an RSASSA
// (RSA PKCS#1 v1.5) signature.
type SignatureRSASSA struct {
	HashAlg   tpm2.TPMAlgID
	Signature []byte
}

// SignatureECDSA holds the scheme-specific parameters of an ECDSA signature.
type SignatureECDSA struct {
	HashAlg tpm2.TPMAlgID
	R       []byte
	S       []byte
}

// Signature is a TPMT_SIGNATURE over the closed set of schemes this library
// understands. Exactly one of the scheme branches matching SigAlg is set;
// consumers switch on SigAlg and must handle every branch so that a new
// scheme cannot slip through half-supported.
type Signature struct {
	SigAlg tpm2.TPMAlgID
	RSASSA *SignatureRSASSA
	ECDSA  *SignatureECDSA
}

// NewRSASSASignature wraps raw RSASSA signature bytes, covering inputs that
// carry no TPMT_SIGNATURE framing ("plain" format signature files).
func NewRSASSASignature(hashAlg tpm2.TPMAlgID, sig []byte) Signature {
	return Signature{
		SigAlg: tpm2.TPMAlgRSASSA,
		RSASSA: &SignatureRSASSA{HashAlg: hashAlg, Signature: sig},
	}
}

// ParseSignature parses a TPMT_SIGNATURE in its big-endian wire format:
// a 2-byte scheme identifier followed by scheme-specific details. Schemes
// outside the supported set fail the parse.
func ParseSignature(raw []byte) (Signature, error) {
	c := newCursor(raw)

	sigAlg, err := c.readUint16("TPMT_SIGNATURE sigAlg")
	if err != nil {
		return Signature{}, err
	}

	switch tpm2.TPMAlgID(sigAlg) {
	case tpm2.TPMAlgRSASSA:
		hashAlg, err := c.readUint16("TPMS_SIGNATURE_RSA hash")
		if err != nil {
			return Signature{}, err
		}
		sig, err := c.readSized16("TPM2B_PUBLIC_KEY_RSA sig")
		if err != nil {
			return Signature{}, err
		}
		return Signature{
			SigAlg: tpm2.TPMAlgRSASSA,
			RSASSA: &SignatureRSASSA{HashAlg: tpm2.TPMAlgID(hashAlg), Signature: sig},
		}, nil

	case tpm2.TPMAlgECDSA:
		hashAlg, err := c.readUint16("TPMS_SIGNATURE_ECC hash")
		if err != nil {
			return Signature{}, err
		}
		r, err := c.readSized16("TPM2B_ECC_PARAMETER signatureR")
		if err != nil {
			return Signature{}, err
		}
		s, err := c.readSized16("TPM2B_ECC_PARAMETER signatureS")
		if err != nil {
			return Signature{}, err
		}
		return Signature{
			SigAlg: tpm2.TPMAlgECDSA,
			ECDSA:  &SignatureECDSA{HashAlg: tpm2.TPMAlgID(hashAlg), R: r, S: s},
		}, nil

	default:
		return Signature{}, fmt.Errorf("%w: signature scheme 0x%04x", ErrUnsupportedAlgorithm, sigAlg)
	}
}

// HashAlg returns the hash algorithm the signature declares.
func (s Signature) HashAlg() (tpm2.TPMAlgID, error) {
	switch s.SigAlg {
	case tpm2.TPMAlgRSASSA:
		if s.RSASSA == nil {
			return 0, errors.New("RSASSA signature carries no RSASSA parameters")
		}
		return s.RSASSA.HashAlg, nil
	case tpm2.TPMAlgECDSA:
		if s.ECDSA == nil {
			return 0, errors.New("ECDSA signature carries no ECDSA parameters")
		}
		return s.ECDSA.HashAlg, nil
	default:
		return 0, fmt.Errorf("%w: signature scheme 0x%04x", ErrUnsupportedAlgorithm, uint16(s.SigAlg))
	}
}
