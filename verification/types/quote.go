package types

import (
	"errors"
	"fmt"

	"github.com/google/go-tpm/tpm2"
)

// ErrBadMagic is returned when the attestation structure does not start
// with the TPM_GENERATED magic value, i.e. it was not produced by a TPM.
var ErrBadMagic = errors.New("attestation magic does not match TPM_GENERATED_VALUE")

// ErrWrongType is returned when the attestation structure is TPM-generated
// but is not a quote (wrong TPMI_ST_ATTEST tag).
var ErrWrongType = errors.New("attestation structure is not a quote")

// QuoteData holds the two fields of a quote a verifier needs beyond the raw
// bytes themselves: the composite digest the TPM computed over the selected
// PCRs, and the caller-supplied qualifying data (anti-replay nonce).
//
// A QuoteData is only ever produced by a fully successful parse. Its slices
// alias the buffer passed to ParseQuote.
type QuoteData struct {
	AttestedDigest []byte
	ExtraData      []byte
}

// ParseQuote parses the TPMS_ATTEST payload of a quote. The expected input
// is the attestationData of a TPM2B_ATTEST without the outer size prefix,
// exactly as returned by TPM2_Quote.
//
// The structure is walked field by field with every read checked against
// the remaining buffer; any violation aborts the parse with a terminal
// error. Fields the verifier does not need (qualified signer name, clock
// info, firmware version, the PCR selection list) are length-checked and
// skipped.
func ParseQuote(rawQuote []byte) (QuoteData, error) {
	// magic + type must at least be there for a rejection to name a reason
	if len(rawQuote) < 6 {
		return QuoteData{}, &TruncatedError{Field: "TPMS_ATTEST header", Need: 6, Left: len(rawQuote)}
	}
	c := newCursor(rawQuote)

	magic, err := c.readUint32("TPM2_GENERATED magic")
	if err != nil {
		return QuoteData{}, err
	}
	if magic != uint32(tpm2.TPMGeneratedValue) {
		return QuoteData{}, fmt.Errorf("%w (expected: 0x%08x, got: 0x%08x)", ErrBadMagic, uint32(tpm2.TPMGeneratedValue), magic)
	}

	attestType, err := c.readUint16("TPMI_ST_ATTEST type")
	if err != nil {
		return QuoteData{}, err
	}
	if tpm2.TPMST(attestType) != tpm2.TPMSTAttestQuote {
		return QuoteData{}, fmt.Errorf("%w (expected: 0x%04x, got: 0x%04x)", ErrWrongType, uint16(tpm2.TPMSTAttestQuote), attestType)
	}

	// Qualified signer name (skip)
	if _, err := c.readSized16("TPM2B_NAME qualifiedSigner"); err != nil {
		return QuoteData{}, err
	}

	// Extra data (nonce)
	extraData, err := c.readSized16("TPM2B_DATA extraData")
	if err != nil {
		return QuoteData{}, err
	}

	// Clock info (skip)
	if err := c.skip(17, "TPMS_CLOCK_INFO clockInfo"); err != nil {
		return QuoteData{}, err
	}

	// Firmware version (skip)
	if err := c.skip(8, "firmwareVersion"); err != nil {
		return QuoteData{}, err
	}

	// PCR selection list (skip entry by entry; every entry consumes at
	// least 3 bytes, so a hostile count runs out of buffer, not memory)
	pcrSelCount, err := c.readUint32("TPML_PCR_SELECTION count")
	if err != nil {
		return QuoteData{}, err
	}
	for i := uint32(0); i < pcrSelCount; i++ {
		if _, err := c.readUint16("TPMS_PCR_SELECTION hash"); err != nil {
			return QuoteData{}, err
		}
		sizeOfSelect, err := c.readUint8("TPMS_PCR_SELECTION sizeofSelect")
		if err != nil {
			return QuoteData{}, err
		}
		if err := c.skip(int(sizeOfSelect), "TPMS_PCR_SELECTION pcrSelect"); err != nil {
			return QuoteData{}, err
		}
	}

	// Attested digest
	digest, err := c.readSized16("TPM2B_DIGEST pcrDigest")
	if err != nil {
		return QuoteData{}, err
	}

	return QuoteData{
		AttestedDigest: digest,
		ExtraData:      extraData,
	}, nil
}
