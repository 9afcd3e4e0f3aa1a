/*
# TPM 2.0 Attestation Data Types

This package contains data types and parsing functions used for TPM 2.0 quote
attestation.

## Quote format

	A quote produced by TPM2_Quote is the payload of a TPM2B_ATTEST: a
	TPMS_ATTEST structure, marshaled big-endian, with every variable-length
	field carrying a 16-bit size prefix. To give a *rough* understanding of
	how it is formed see the graphic below:

	           TPMS_ATTEST                          TPMT_SIGNATURE
	            ParseQuote                          ParseSignature
	┌─────────────────────────────────┐     ┌─────────────────────────────┐
	│       TPM2_GENERATED magic      │     │           sigAlg            │
	│       (4 bytes, ff544347)       │     │          (2 bytes)          │
	├─────────────────────────────────┤     ├─────────────────────────────┤
	│       TPMI_ST_ATTEST type       │     │   scheme-specific details   │
	│         (2 bytes, 8018)         │     │ ┌─────────────────────────┐ │
	├─────────────────────────────────┤     │ │ RSASSA:                 │ │
	│   TPM2B_NAME qualifiedSigner    │     │ │   hash      (2 bytes)   │ │
	│   (2-byte size + that many)     │     │ │   sig  (TPM2B, 2+n)     │ │
	├─────────────────────────────────┤     │ ├─────────────────────────┤ │
	│      TPM2B_DATA extraData       │     │ │ ECDSA:                  │ │
	│  (2-byte size + nonce bytes)    │     │ │   hash      (2 bytes)   │ │
	├─────────────────────────────────┤     │ │   r    (TPM2B, 2+n)     │ │
	│      TPMS_CLOCK_INFO clock      │     │ │   s    (TPM2B, 2+n)     │ │
	│           (17 bytes)            │     │ └─────────────────────────┘ │
	├─────────────────────────────────┤     └─────────────────────────────┘
	│        firmwareVersion          │
	│           (8 bytes)             │
	├─────────────────────────────────┤
	│   TPML_PCR_SELECTION pcrSelect  │
	│  (4-byte count, then per bank:  │
	│   hash (2), sizeofSelect (1),   │
	│   that many bitmap bytes)       │
	├─────────────────────────────────┤
	│     TPM2B_DIGEST pcrDigest      │
	│  (2-byte size + digest bytes)   │
	└─────────────────────────────────┘

The quote signature covers the raw TPMS_ATTEST bytes, not the pcrDigest
carried inside them; pcrDigest itself commits to the selected PCR values
(see HashPCRBanks in the verification package).

All parsers in this package treat their input as untrusted: every read is
bounds-checked, decoding either fully succeeds or fails with no partial
output, and no parser allocates memory proportional to attacker-controlled
sizes beyond the 16-bit bounded fields it retains.
*/
package types

const (
	// maxPCRs is the number of PCRs a TPM implements (TPM2_MAX_PCRS).
	maxPCRs = 24
	// maxPCRBanks is the number of PCR banks a selection list can name
	// (TPM2_NUM_PCR_BANKS).
	maxPCRBanks = 16
	// maxDigestSize is the size of the largest supported PCR digest (SHA-512).
	maxDigestSize = 64
)
