package types

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-tpm/tpm2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCRSelectionEntryBitmap(t *testing.T) {
	assert := assert.New(t)

	entry := PCRSelectionEntry{
		Hash:   tpm2.TPMAlgSHA256,
		Bitmap: []byte{0b10000011, 0x00, 0b00000001},
	}

	assert.True(entry.IsSelected(0))
	assert.True(entry.IsSelected(1))
	assert.False(entry.IsSelected(2))
	assert.True(entry.IsSelected(7))
	assert.True(entry.IsSelected(16))
	assert.False(entry.IsSelected(23))
	assert.False(entry.IsSelected(-1))
	assert.False(entry.IsSelected(24)) // out of bitmap range
	assert.Equal(4, entry.CountSelected())

	assert.Equal(0, PCRSelectionEntry{}.CountSelected())
}

func testPCRFile() (PCRSelection, PCRValues) {
	selection := PCRSelection{
		Selections: []PCRSelectionEntry{
			{Hash: tpm2.TPMAlgSHA256, Bitmap: []byte{0b00000101, 0x00, 0x00}},
			{Hash: tpm2.TPMAlgSHA1, Bitmap: []byte{0x00, 0b00000001, 0x00}},
		},
	}
	values := PCRValues{
		{Digests: [][]byte{bytes.Repeat([]byte{0xaa}, 32), bytes.Repeat([]byte{0xbb}, 32)}},
		{Digests: [][]byte{bytes.Repeat([]byte{0xcc}, 20)}},
	}
	return selection, values
}

func TestParsePCRs(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	selection, values := testPCRFile()
	raw := MarshalPCRs(selection, values)

	gotSelection, gotValues, err := ParsePCRs(raw)
	require.NoError(err)
	assert.Equal(selection, gotSelection)
	assert.Equal(values, gotValues)
}

func TestParsePCRsRejects(t *testing.T) {
	selection, values := testPCRFile()

	testCases := map[string]func() []byte{
		"bank count over limit": func() []byte {
			raw := MarshalPCRs(selection, values)
			binary.BigEndian.PutUint32(raw, maxPCRBanks+1)
			return raw
		},
		"bank count does not match selection": func() []byte {
			short := values[:1]
			raw := MarshalPCRs(selection, short)
			return raw
		},
		"digest count over limit": func() []byte {
			bank := PCRBank{Digests: make([][]byte, maxPCRs+1)}
			for i := range bank.Digests {
				bank.Digests[i] = []byte{0x01}
			}
			sel := PCRSelection{Selections: []PCRSelectionEntry{{Hash: tpm2.TPMAlgSHA256, Bitmap: []byte{0xff}}}}
			return MarshalPCRs(sel, PCRValues{bank})
		},
		"digest over size limit": func() []byte {
			sel := PCRSelection{Selections: []PCRSelectionEntry{{Hash: tpm2.TPMAlgSHA256, Bitmap: []byte{0x01}}}}
			bank := PCRBank{Digests: [][]byte{make([]byte, maxDigestSize+1)}}
			return MarshalPCRs(sel, PCRValues{bank})
		},
		"empty input": func() []byte {
			return nil
		},
	}

	for name, build := range testCases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParsePCRs(build())
			assert.Error(t, err)
		})
	}
}

func TestParsePCRsTruncated(t *testing.T) {
	selection, values := testPCRFile()
	raw := MarshalPCRs(selection, values)

	for size := 0; size < len(raw); size++ {
		_, _, err := ParsePCRs(raw[:size])
		assert.Errorf(t, err, "prefix of %d bytes parsed successfully", size)
	}
}

func FuzzParsePCRs(f *testing.F) {
	selection, values := testPCRFile()
	f.Add(MarshalPCRs(selection, values))
	f.Fuzz(func(t *testing.T, a []byte) {
		_, _, _ = ParsePCRs(a)
	})
}
