package types

import (
	"testing"

	"github.com/google/go-tpm/tpm2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuote() QuoteBuilder {
	return QuoteBuilder{
		QualifiedSigner: []byte("attestation key name"),
		ExtraData:       []byte("caller nonce"),
		ClockInfo:       [17]byte{0x01},
		FirmwareVersion: [8]byte{0x20, 0x26},
		Selection: PCRSelection{
			Selections: []PCRSelectionEntry{
				{Hash: tpm2.TPMAlgSHA256, Bitmap: []byte{0b10000011, 0x00, 0x00}},
				{Hash: tpm2.TPMAlgSHA1, Bitmap: []byte{0x00, 0x01, 0x00}},
			},
		},
		Digest: []byte("0123456789abcdef0123456789abcdef"),
	}
}

func TestParseQuote(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	builder := testQuote()
	quote, err := ParseQuote(builder.Marshal())
	require.NoError(err)

	assert.Equal(builder.ExtraData, quote.ExtraData)
	assert.Equal(builder.Digest, quote.AttestedDigest)
}

func TestParseQuoteEmptyExtraData(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	builder := testQuote()
	builder.ExtraData = nil
	quote, err := ParseQuote(builder.Marshal())
	require.NoError(err)

	assert.Empty(quote.ExtraData)
	assert.Equal(builder.Digest, quote.AttestedDigest)
}

func TestParseQuoteTrailingBytes(t *testing.T) {
	// trailing bytes after the digest are not an error
	assert := assert.New(t)
	require := require.New(t)

	raw := append(testQuote().Marshal(), 0xde, 0xad)
	quote, err := ParseQuote(raw)
	require.NoError(err)
	assert.Equal(testQuote().Digest, quote.AttestedDigest)
}

func TestParseQuoteBadMagic(t *testing.T) {
	assert := assert.New(t)

	raw := testQuote().Marshal()
	raw[0] = 0x00
	_, err := ParseQuote(raw)
	assert.ErrorIs(err, ErrBadMagic)
}

func TestParseQuoteWrongType(t *testing.T) {
	assert := assert.New(t)

	raw := testQuote().Marshal()
	// TPM_ST_ATTEST_CERTIFY instead of TPM_ST_ATTEST_QUOTE
	raw[4], raw[5] = 0x80, 0x17
	_, err := ParseQuote(raw)
	assert.ErrorIs(err, ErrWrongType)
}

func TestParseQuoteRawLayout(t *testing.T) {
	// a quote assembled byte by byte, independent of QuoteBuilder
	assert := assert.New(t)
	require := require.New(t)

	raw := []byte{0xff, 0x54, 0x43, 0x47} // TPM_GENERATED magic
	raw = append(raw, 0x80, 0x18)         // TPM_ST_ATTEST_QUOTE
	raw = append(raw, 0x00, 0x00)         // empty qualifiedSigner
	raw = append(raw, 0x00, 0x04, 0xde, 0xad, 0xbe, 0xef) // extraData
	raw = append(raw, make([]byte, 17)...)                // clockInfo
	raw = append(raw, make([]byte, 8)...)                 // firmwareVersion
	raw = append(raw, 0x00, 0x00, 0x00, 0x00)             // no PCR selections
	raw = append(raw, 0x00, 0x20)                         // digest size
	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = 0xaa
	}
	raw = append(raw, digest...)

	quote, err := ParseQuote(raw)
	require.NoError(err)
	assert.Equal([]byte{0xde, 0xad, 0xbe, 0xef}, quote.ExtraData)
	assert.Equal(digest, quote.AttestedDigest)
}

func TestParseQuoteTruncated(t *testing.T) {
	// every proper prefix of a valid quote must fail to parse
	raw := testQuote().Marshal()
	for size := 0; size < len(raw); size++ {
		// exact-capacity copy, a read past the end would be out of bounds
		prefix := make([]byte, size)
		copy(prefix, raw)

		quote, err := ParseQuote(prefix)
		assert.Errorf(t, err, "prefix of %d bytes parsed successfully", size)
		assert.Empty(t, quote)
	}
}

func TestParseQuoteHostileSelectionCount(t *testing.T) {
	assert := assert.New(t)

	builder := testQuote()
	builder.Selection = PCRSelection{}
	builder.Digest = nil
	raw := builder.Marshal()

	// rewrite the selection count to an absurd value; the parse must fail
	// on the buffer end, it must not try to allocate
	off := len(raw) - 2 - 4 // digest prefix and count
	raw[off], raw[off+1], raw[off+2], raw[off+3] = 0xff, 0xff, 0xff, 0xff

	_, err := ParseQuote(raw)
	var truncErr *TruncatedError
	assert.ErrorAs(err, &truncErr)
}

func FuzzParseQuote(f *testing.F) {
	f.Add(testQuote().Marshal())
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, a []byte) {
		// no panics on arbitrary input
		_, _ = ParseQuote(a)
	})
}
