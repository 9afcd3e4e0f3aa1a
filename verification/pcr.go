package verification

import (
	"errors"
	"fmt"

	"github.com/google/go-tpm/tpm2"

	"github.com/edgelesssys/go-tpm-qvl/verification/crypto"
	"github.com/edgelesssys/go-tpm-qvl/verification/types"
)

// maxPCRConcat bounds the concatenation buffer for composite digest
// computation: 24 PCRs of at most 64 bytes each.
const maxPCRConcat = 24 * 64

// ErrBufferOverflow is returned when the selected PCR values exceed the
// concatenation buffer for the composite digest.
var ErrBufferOverflow = errors.New("selected PCR values exceed concatenation buffer")

// HashPCRBanks recomputes the composite PCR digest a quote attests to:
// the hash of the concatenation of all selected PCR values, in selection
// order and ascending PCR index within each selection.
func HashPCRBanks(hashAlg tpm2.TPMAlgID, selection types.PCRSelection, values types.PCRValues) ([]byte, error) {
	if len(values) != len(selection.Selections) {
		return nil, fmt.Errorf("PCR value bank count %d does not match selection count %d", len(values), len(selection.Selections))
	}

	concat := make([]byte, 0, maxPCRConcat)
	for i, entry := range selection.Selections {
		bank := values[i]
		selected := entry.CountSelected()
		if len(bank.Digests) != selected {
			return nil, fmt.Errorf("PCR bank %d holds %d digests, selection names %d", i, len(bank.Digests), selected)
		}

		next := 0
		for pcr := 0; pcr < len(entry.Bitmap)*8; pcr++ {
			if !entry.IsSelected(pcr) {
				continue
			}
			digest := bank.Digests[next]
			next++
			if len(concat)+len(digest) > maxPCRConcat {
				return nil, fmt.Errorf("%w: PCR %d of bank %d does not fit", ErrBufferOverflow, pcr, i)
			}
			concat = append(concat, digest...)
		}
	}

	return crypto.ComputeHash(hashAlg, concat)
}
