// Package verification implements verification of TPM 2.0 quotes.
//
// Verification of a quote proceeds in the following steps:
//
//  1. Parse the raw TPMS_ATTEST structure
//  2. Check the signature scheme is one we accept (RSASSA)
//  3. Verify the signature over the raw attestation bytes
//  4. If a nonce was supplied, compare it to the quote's extraData
//  5. If PCR values were supplied, recompute the composite digest and
//     compare it to the attested digest
//
// The first failing step terminates verification.
package verification

import (
	stdcrypto "crypto"
	"errors"
	"fmt"

	"github.com/google/go-tpm/tpm2"

	qvlcrypto "github.com/edgelesssys/go-tpm-qvl/verification/crypto"
	"github.com/edgelesssys/go-tpm-qvl/verification/types"
)

var (
	// ErrMalformedQuote is returned when the raw quote cannot be decoded.
	ErrMalformedQuote = errors.New("malformed quote")
	// ErrUnsupportedScheme is returned when the signature uses a scheme
	// other than RSASSA.
	ErrUnsupportedScheme = errors.New("unsupported signature scheme")
	// ErrSignature is returned when the signature does not verify under
	// the supplied public key.
	ErrSignature = errors.New("signature verification failed")
	// ErrNonceMismatch is returned when the quote's extraData does not
	// equal the expected nonce.
	ErrNonceMismatch = errors.New("nonce mismatch")
	// ErrPCRMismatch is returned when the recomputed composite PCR digest
	// does not equal the attested digest.
	ErrPCRMismatch = errors.New("PCR digest mismatch")
)

// PCRCheck names the PCR values a quote is expected to attest to.
type PCRCheck struct {
	Selection types.PCRSelection
	Values    types.PCRValues
}

// Options holds the optional checks Verify performs after the signature
// has been verified. A nil Nonce skips the nonce comparison, a nil PCRs
// skips the composite digest comparison.
type Options struct {
	Nonce []byte
	PCRs  *PCRCheck
}

// TPMVerifier verifies TPM 2.0 quotes.
type TPMVerifier struct {
	compareDigests func(a, b []byte) bool
}

// New returns a TPMVerifier.
func New() *TPMVerifier {
	return &TPMVerifier{
		compareDigests: VerifyDigests,
	}
}

// Verify checks that rawQuote carries a valid signature under publicKey
// and performs the optional checks opts names.
func (v *TPMVerifier) Verify(rawQuote []byte, signature types.Signature, publicKey stdcrypto.PublicKey, opts Options) error {
	quote, err := types.ParseQuote(rawQuote)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedQuote, err)
	}

	switch signature.SigAlg {
	case tpm2.TPMAlgRSASSA:
		if signature.RSASSA == nil {
			return fmt.Errorf("%w: RSASSA signature carries no payload", ErrUnsupportedScheme)
		}
	case tpm2.TPMAlgECDSA:
		return fmt.Errorf("%w: ECDSA (0x%04x)", ErrUnsupportedScheme, uint16(signature.SigAlg))
	default:
		return fmt.Errorf("%w: 0x%04x", ErrUnsupportedScheme, uint16(signature.SigAlg))
	}

	// The signature covers the raw attestation blob, not the parsed fields.
	msgHash, err := qvlcrypto.ComputeHash(signature.RSASSA.HashAlg, rawQuote)
	if err != nil {
		return fmt.Errorf("computing message digest: %w", err)
	}
	if err := qvlcrypto.VerifyRSASignature(publicKey, signature.RSASSA.HashAlg, msgHash, signature.RSASSA.Signature); err != nil {
		return fmt.Errorf("%w: %w", ErrSignature, err)
	}

	if opts.Nonce != nil {
		if len(opts.Nonce) != len(quote.ExtraData) {
			return fmt.Errorf("%w: expected %d bytes of extraData, quote carries %d", ErrNonceMismatch, len(opts.Nonce), len(quote.ExtraData))
		}
		if !v.compareDigests(opts.Nonce, quote.ExtraData) {
			return ErrNonceMismatch
		}
	}

	if opts.PCRs != nil {
		computed, err := HashPCRBanks(signature.RSASSA.HashAlg, opts.PCRs.Selection, opts.PCRs.Values)
		if err != nil {
			return fmt.Errorf("recomputing PCR digest: %w", err)
		}
		if !v.compareDigests(computed, quote.AttestedDigest) {
			return ErrPCRMismatch
		}
	}

	return nil
}

// VerifyDigests reports whether two digests are equal. Digests of
// different sizes never compare equal.
func VerifyDigests(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
