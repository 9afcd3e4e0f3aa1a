// generate writes a self-consistent set of quote test blobs: an RSA
// attestation key, a signed quote message, its signature, and the PCR
// values the quote attests to.
package main

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"log"
	"os"

	"github.com/google/go-tpm/tpm2"

	qvlcrypto "github.com/edgelesssys/go-tpm-qvl/verification/crypto"
	"github.com/edgelesssys/go-tpm-qvl/verification/types"
)

func main() {
	if err := generateBlobs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func generateBlobs() error {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return err
	}

	nonce := []byte("quote generation test nonce")

	selection := types.PCRSelection{
		Selections: []types.PCRSelectionEntry{
			{
				Hash:   tpm2.TPMAlgSHA256,
				Bitmap: []byte{0b00000111, 0x00, 0x00}, // PCRs 0, 1, 2
			},
		},
	}
	values := types.PCRValues{
		{
			Digests: [][]byte{
				fakePCR(0),
				fakePCR(1),
				fakePCR(2),
			},
		},
	}

	concat := append(append(append([]byte{}, fakePCR(0)...), fakePCR(1)...), fakePCR(2)...)
	pcrDigest := sha256.Sum256(concat)

	builder := types.QuoteBuilder{
		QualifiedSigner: []byte("generated attestation key"),
		ExtraData:       nonce,
		Selection:       selection,
		Digest:          pcrDigest[:],
	}
	rawQuote := builder.Marshal()

	msgHash := sha256.Sum256(rawQuote)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, msgHash[:])
	if err != nil {
		return err
	}
	rawSignature, err := types.NewRSASSASignature(tpm2.TPMAlgSHA256, sig).Marshal()
	if err != nil {
		return err
	}

	pubkeyPEM, err := qvlcrypto.MarshalPEMPublicKey(&key.PublicKey)
	if err != nil {
		return err
	}

	blobs := map[string][]byte{
		"quote":      rawQuote,
		"signature":  rawSignature,
		"pcrs":       types.MarshalPCRs(selection, values),
		"pubkey.pem": pubkeyPEM,
	}
	for name, data := range blobs {
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return err
		}
	}
	log.Printf("wrote quote, signature, pcrs and pubkey.pem (nonce: %x)", nonce)

	return nil
}

func fakePCR(index byte) []byte {
	pcr := make([]byte, sha256.Size)
	for i := range pcr {
		pcr[i] = index
	}
	return pcr
}
