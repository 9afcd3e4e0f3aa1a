// Package crypto implements the hash and signature primitives used to
// verify TPM 2.0 quotes.
package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	// digest implementations for HashForAlg
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"

	"github.com/google/go-tpm/tpm2"

	"github.com/edgelesssys/go-tpm-qvl/verification/types"
)

// HashForAlg resolves a TPM hash algorithm identifier to its Go
// implementation.
func HashForAlg(alg tpm2.TPMAlgID) (crypto.Hash, error) {
	switch alg {
	case tpm2.TPMAlgSHA1:
		return crypto.SHA1, nil
	case tpm2.TPMAlgSHA256:
		return crypto.SHA256, nil
	case tpm2.TPMAlgSHA384:
		return crypto.SHA384, nil
	case tpm2.TPMAlgSHA512:
		return crypto.SHA512, nil
	default:
		return 0, fmt.Errorf("%w: hash algorithm 0x%04x", types.ErrUnsupportedAlgorithm, uint16(alg))
	}
}

// ComputeHash hashes data with the digest function alg names.
func ComputeHash(alg tpm2.TPMAlgID, data []byte) ([]byte, error) {
	hash, err := HashForAlg(alg)
	if err != nil {
		return nil, err
	}
	h := hash.New()
	h.Write(data)
	return h.Sum(nil), nil
}

// VerifyRSASignature verifies an RSASSA (RSA PKCS#1 v1.5) signature over a
// precomputed message digest.
func VerifyRSASignature(publicKey crypto.PublicKey, hashAlg tpm2.TPMAlgID, digest, signature []byte) error {
	rsaKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("public key is not an RSA key, got: %T", publicKey)
	}
	hash, err := HashForAlg(hashAlg)
	if err != nil {
		return err
	}
	if err := rsa.VerifyPKCS1v15(rsaKey, hash, digest, signature); err != nil {
		return fmt.Errorf("RSASSA signature verification failed: %w", err)
	}
	return nil
}

// ParsePEMPublicKey parses an RSA or ECDSA public key from a PEM-encoded
// byte slice. Both PKIX ("PUBLIC KEY") and PKCS#1 ("RSA PUBLIC KEY") blocks
// are accepted.
func ParsePEMPublicKey(keyPEM []byte) (crypto.PublicKey, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, errors.New("no PEM block found in public key data")
	}

	switch block.Type {
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing PKCS#1 public key: %w", err)
		}
		return key, nil
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing PKIX public key: %w", err)
		}
		switch key := key.(type) {
		case *rsa.PublicKey, *ecdsa.PublicKey:
			return key, nil
		default:
			return nil, fmt.Errorf("unsupported public key type: %T", key)
		}
	default:
		return nil, fmt.Errorf("unexpected PEM block type %q", block.Type)
	}
}

// MarshalPEMPublicKey encodes a public key as a PEM PKIX block, the format
// ParsePEMPublicKey reads back.
func MarshalPEMPublicKey(publicKey crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("marshaling public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}
