package types

import (
	"fmt"

	"github.com/google/go-tpm/tpm2"
)

// PCRSelectionEntry names one PCR bank (by its hash algorithm) and the
// registers selected from it as a little bitmap: bit n of byte n/8 selects
// register n.
type PCRSelectionEntry struct {
	Hash   tpm2.TPMAlgID
	Bitmap []byte
}

// IsSelected reports whether register pcr is set in the entry's bitmap.
func (e PCRSelectionEntry) IsSelected(pcr int) bool {
	if pcr < 0 || pcr/8 >= len(e.Bitmap) {
		return false
	}
	return e.Bitmap[pcr/8]&(1<<(pcr%8)) != 0
}

// CountSelected returns the number of registers the entry selects.
func (e PCRSelectionEntry) CountSelected() int {
	count := 0
	for pcr := 0; pcr < len(e.Bitmap)*8; pcr++ {
		if e.IsSelected(pcr) {
			count++
		}
	}
	return count
}

// PCRSelection is an ordered list of bank selections (TPML_PCR_SELECTION).
// Order is significant: it fixes the order in which bank values are
// concatenated when the composite digest is recomputed.
type PCRSelection struct {
	Selections []PCRSelectionEntry
}

// PCRBank holds the values read back from one selected bank, one digest per
// selected register in ascending register order.
type PCRBank struct {
	Digests [][]byte
}

// PCRValues holds the bank values matching a PCRSelection, one PCRBank per
// selection entry in selection order.
type PCRValues []PCRBank

// ParsePCRs parses a PCR values file: a selection list in the quote's own
// TPML_PCR_SELECTION shape, then a 4-byte bank count and per bank a 4-byte
// digest count followed by that many size-prefixed digests. All integers
// are big-endian. The bank list must line up with the selection list.
func ParsePCRs(raw []byte) (PCRSelection, PCRValues, error) {
	c := newCursor(raw)

	selCount, err := c.readUint32("TPML_PCR_SELECTION count")
	if err != nil {
		return PCRSelection{}, nil, err
	}
	if selCount > maxPCRBanks {
		return PCRSelection{}, nil, fmt.Errorf("malformed PCR selection, bank count cannot be greater than %d, got: %d", maxPCRBanks, selCount)
	}

	selection := PCRSelection{Selections: make([]PCRSelectionEntry, 0, selCount)}
	for i := uint32(0); i < selCount; i++ {
		hashAlg, err := c.readUint16("TPMS_PCR_SELECTION hash")
		if err != nil {
			return PCRSelection{}, nil, err
		}
		sizeOfSelect, err := c.readUint8("TPMS_PCR_SELECTION sizeofSelect")
		if err != nil {
			return PCRSelection{}, nil, err
		}
		bitmap, err := c.readBytes(int(sizeOfSelect), "TPMS_PCR_SELECTION pcrSelect")
		if err != nil {
			return PCRSelection{}, nil, err
		}
		selection.Selections = append(selection.Selections, PCRSelectionEntry{
			Hash:   tpm2.TPMAlgID(hashAlg),
			Bitmap: bitmap,
		})
	}

	bankCount, err := c.readUint32("PCR bank count")
	if err != nil {
		return PCRSelection{}, nil, err
	}
	if bankCount != selCount {
		return PCRSelection{}, nil, fmt.Errorf("malformed PCR values, bank count does not match selection (selected banks: %d, got: %d)", selCount, bankCount)
	}

	values := make(PCRValues, 0, bankCount)
	for i := uint32(0); i < bankCount; i++ {
		digestCount, err := c.readUint32("PCR bank digest count")
		if err != nil {
			return PCRSelection{}, nil, err
		}
		if digestCount > maxPCRs {
			return PCRSelection{}, nil, fmt.Errorf("malformed PCR values, digest count cannot be greater than %d, got: %d", maxPCRs, digestCount)
		}
		bank := PCRBank{Digests: make([][]byte, 0, digestCount)}
		for j := uint32(0); j < digestCount; j++ {
			digest, err := c.readSized16("TPM2B_DIGEST pcrValue")
			if err != nil {
				return PCRSelection{}, nil, err
			}
			if len(digest) > maxDigestSize {
				return PCRSelection{}, nil, fmt.Errorf("malformed PCR value, digest cannot be larger than %d bytes, got: %d", maxDigestSize, len(digest))
			}
			bank.Digests = append(bank.Digests, digest)
		}
		values = append(values, bank)
	}

	return selection, values, nil
}
