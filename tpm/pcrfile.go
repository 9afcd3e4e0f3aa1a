package tpm

import (
	"sort"

	"github.com/google/go-tpm/tpm2"

	"github.com/edgelesssys/go-tpm-qvl/verification/types"
)

// MarshalPCRs serializes values read from a single PCR bank (as returned
// by ReadPCRs) into the file layout types.ParsePCRs reads.
func MarshalPCRs(hashAlg tpm2.TPMAlgID, values map[uint][]byte) []byte {
	pcrs := make([]uint, 0, len(values))
	for pcr := range values {
		pcrs = append(pcrs, pcr)
	}
	sort.Slice(pcrs, func(i, j int) bool { return pcrs[i] < pcrs[j] })

	bank := types.PCRBank{Digests: make([][]byte, 0, len(pcrs))}
	for _, pcr := range pcrs {
		bank.Digests = append(bank.Digests, values[pcr])
	}

	selection := types.PCRSelection{
		Selections: []types.PCRSelectionEntry{
			{Hash: hashAlg, Bitmap: tpm2.PCClientCompatible.PCRs(pcrs...)},
		},
	}
	return types.MarshalPCRs(selection, types.PCRValues{bank})
}
