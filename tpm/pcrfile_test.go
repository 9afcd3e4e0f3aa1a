package tpm

import (
	"bytes"
	"testing"

	"github.com/google/go-tpm/tpm2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgelesssys/go-tpm-qvl/verification/types"
)

func TestMarshalPCRs(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	values := map[uint][]byte{
		7: bytes.Repeat([]byte{0x77}, 32),
		0: bytes.Repeat([]byte{0x00}, 32),
		4: bytes.Repeat([]byte{0x44}, 32),
	}

	selection, banks, err := types.ParsePCRs(MarshalPCRs(tpm2.TPMAlgSHA256, values))
	require.NoError(err)

	require.Len(selection.Selections, 1)
	entry := selection.Selections[0]
	assert.Equal(tpm2.TPMAlgSHA256, entry.Hash)
	assert.True(entry.IsSelected(0))
	assert.True(entry.IsSelected(4))
	assert.True(entry.IsSelected(7))
	assert.Equal(3, entry.CountSelected())

	// digests come back in ascending register order
	require.Len(banks, 1)
	require.Len(banks[0].Digests, 3)
	assert.Equal(values[0], banks[0].Digests[0])
	assert.Equal(values[4], banks[0].Digests[1])
	assert.Equal(values[7], banks[0].Digests[2])
}
