//go:build !linux
// +build !linux

package tpm

import (
	"errors"
	"io"

	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpm2/transport"
)

// Device is an open handle to a TPM 2.0 character device.
type Device struct {
	rwc io.ReadWriteCloser
}

// Open opens the TPM, preferring the kernel resource manager and falling
// back to the raw device when no resource manager is present.
func Open() (*Device, error) {
	return nil, errors.New("opening the TPM device is only supported on linux")
}

// Transport returns the device as a TPM command transport.
func (d *Device) Transport() transport.TPM {
	return transport.FromReadWriter(d.rwc)
}

// Close closes the underlying device handle.
func (d *Device) Close() error {
	return d.rwc.Close()
}

// ReadPCRs reads the named PCRs from the given bank.
func ReadPCRs(_ transport.TPM, _ tpm2.TPMAlgID, _ []uint) (map[uint][]byte, error) {
	return nil, errors.New("reading PCRs is only supported on linux")
}

// GenerateQuote requests a quote over the named PCRs, signed by the
// attestation key ak with an RSASSA scheme.
func GenerateQuote(_ transport.TPM, _ tpm2.AuthHandle, _ tpm2.TPMAlgID, _ []uint, _ []byte) (quote, signature []byte, err error) {
	return nil, nil, errors.New("generating quote is only supported on linux")
}
