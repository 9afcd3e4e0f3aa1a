// checkquote verifies a TPM 2.0 quote against a public key, an expected
// nonce, and optionally a set of PCR values.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-tpm/tpm2"

	"github.com/edgelesssys/go-tpm-qvl/verification"
	"github.com/edgelesssys/go-tpm-qvl/verification/crypto"
	"github.com/edgelesssys/go-tpm-qvl/verification/types"
)

func main() {
	if err := checkQuote(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func checkQuote() error {
	pubkeyPath := flag.String("u", "", "path to the PEM encoded public part of the attestation key")
	messagePath := flag.String("m", "", "path to the raw quote (TPMS_ATTEST) message")
	signaturePath := flag.String("s", "", "path to the signature over the quote message")
	hashAlgName := flag.String("g", "sha256", "hash algorithm for plain format signatures (sha1|sha256|sha384|sha512)")
	nonceHex := flag.String("q", "", "hex encoded nonce expected in the quote's extraData")
	pcrPath := flag.String("f", "", "path to a marshaled PCR selection and values file")
	sigFormat := flag.String("F", "tss", "signature file format: tss (marshaled TPMT_SIGNATURE) or plain (raw RSASSA signature)")
	hexdump := flag.Bool("V", false, "print a hexdump of the quote message")
	flag.Parse()

	if *pubkeyPath == "" || *messagePath == "" || *signaturePath == "" {
		return fmt.Errorf("flags -u, -m and -s are required")
	}

	pubkeyPEM, err := os.ReadFile(*pubkeyPath)
	if err != nil {
		return err
	}
	publicKey, err := crypto.ParsePEMPublicKey(pubkeyPEM)
	if err != nil {
		return err
	}

	rawQuote, err := os.ReadFile(*messagePath)
	if err != nil {
		return err
	}
	if *hexdump {
		fmt.Print(hex.Dump(rawQuote))
	}

	rawSignature, err := os.ReadFile(*signaturePath)
	if err != nil {
		return err
	}

	var signature types.Signature
	switch *sigFormat {
	case "tss":
		signature, err = types.ParseSignature(rawSignature)
		if err != nil {
			return fmt.Errorf("parsing signature: %w", err)
		}
	case "plain":
		hashAlg, err := hashAlgByName(*hashAlgName)
		if err != nil {
			return err
		}
		signature = types.NewRSASSASignature(hashAlg, rawSignature)
	default:
		return fmt.Errorf("unknown signature format %q", *sigFormat)
	}

	var opts verification.Options
	if *nonceHex != "" {
		nonce, err := hex.DecodeString(*nonceHex)
		if err != nil {
			return fmt.Errorf("decoding nonce: %w", err)
		}
		opts.Nonce = nonce
	}
	if *pcrPath != "" {
		rawPCRs, err := os.ReadFile(*pcrPath)
		if err != nil {
			return err
		}
		selection, values, err := types.ParsePCRs(rawPCRs)
		if err != nil {
			return fmt.Errorf("parsing PCR file: %w", err)
		}
		opts.PCRs = &verification.PCRCheck{Selection: selection, Values: values}
	}

	if err := verification.New().Verify(rawQuote, signature, publicKey, opts); err != nil {
		return err
	}

	fmt.Println("quote verified successfully")
	return nil
}

func hashAlgByName(name string) (tpm2.TPMAlgID, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return tpm2.TPMAlgSHA1, nil
	case "sha256":
		return tpm2.TPMAlgSHA256, nil
	case "sha384":
		return tpm2.TPMAlgSHA384, nil
	case "sha512":
		return tpm2.TPMAlgSHA512, nil
	default:
		return 0, fmt.Errorf("unknown hash algorithm %q", name)
	}
}
