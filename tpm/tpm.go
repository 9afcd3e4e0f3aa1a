//go:build linux
// +build linux

// Package tpm provides functionality to interact with a TPM 2.0 device and
// request quotes from it.
package tpm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpm2/transport"
	"golang.org/x/sys/unix"
	"k8s.io/utils/clock"
)

const (
	// ResourceManagerDevice is the path to the in-kernel TPM resource manager.
	ResourceManagerDevice = "/dev/tpmrm0"
	// RawDevice is the path to the raw TPM character device.
	RawDevice = "/dev/tpm0"

	// The raw device admits a single client. Another process may hold it
	// briefly, so retry on EBUSY before giving up.
	openRetries    = 5
	openRetryDelay = 100 * time.Millisecond

	// a TPM2_PCR_Read response carries at most 8 digests
	pcrReadChunk = 8
)

// Device is an open handle to a TPM 2.0 character device.
type Device struct {
	rwc io.ReadWriteCloser
}

// Open opens the TPM, preferring the kernel resource manager and falling
// back to the raw device when no resource manager is present.
func Open() (*Device, error) {
	return open(clock.RealClock{}, sysOpen)
}

func open(clk clock.Clock, openDev func(path string) (io.ReadWriteCloser, error)) (*Device, error) {
	path := ResourceManagerDevice
	for attempt := 0; ; attempt++ {
		rwc, err := openDev(path)
		if err == nil {
			return &Device{rwc: rwc}, nil
		}
		if errors.Is(err, os.ErrNotExist) && path == ResourceManagerDevice {
			path = RawDevice
			continue
		}
		if errors.Is(err, unix.EBUSY) && attempt < openRetries {
			<-clk.After(openRetryDelay)
			continue
		}
		return nil, fmt.Errorf("opening TPM device %s: %w", path, err)
	}
}

func sysOpen(path string) (io.ReadWriteCloser, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}

// Transport returns the device as a TPM command transport.
func (d *Device) Transport() transport.TPM {
	return transport.FromReadWriter(d.rwc)
}

// Close closes the underlying device handle.
func (d *Device) Close() error {
	return d.rwc.Close()
}

// ReadPCRs reads the named PCRs from the given bank. The TPM returns at
// most eight digests per TPM2_PCR_Read call, so larger selections are
// split across multiple commands.
func ReadPCRs(t transport.TPM, hashAlg tpm2.TPMAlgID, pcrs []uint) (map[uint][]byte, error) {
	sorted := make([]uint, len(pcrs))
	copy(sorted, pcrs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	values := make(map[uint][]byte, len(sorted))
	for len(sorted) > 0 {
		chunk := sorted
		if len(chunk) > pcrReadChunk {
			chunk = chunk[:pcrReadChunk]
		}
		sorted = sorted[len(chunk):]

		resp, err := tpm2.PCRRead{
			PCRSelectionIn: tpm2.TPMLPCRSelection{
				PCRSelections: []tpm2.TPMSPCRSelection{
					{
						Hash:      tpm2.TPMIAlgHash(hashAlg),
						PCRSelect: tpm2.PCClientCompatible.PCRs(chunk...),
					},
				},
			},
		}.Execute(t)
		if err != nil {
			return nil, fmt.Errorf("reading PCRs %v: %w", chunk, err)
		}
		if got := len(resp.PCRValues.Digests); got != len(chunk) {
			return nil, fmt.Errorf("requested %d PCR values, TPM returned %d", len(chunk), got)
		}
		for i, pcr := range chunk {
			values[pcr] = resp.PCRValues.Digests[i].Buffer
		}
	}
	return values, nil
}

// GenerateQuote requests a quote over the named PCRs, signed by the
// attestation key ak with an RSASSA scheme. It returns the raw TPMS_ATTEST
// bytes and the marshaled TPMT_SIGNATURE.
func GenerateQuote(t transport.TPM, ak tpm2.AuthHandle, hashAlg tpm2.TPMAlgID, pcrs []uint, nonce []byte) (quote, signature []byte, err error) {
	resp, err := tpm2.Quote{
		SignHandle:     ak,
		QualifyingData: tpm2.TPM2BData{Buffer: nonce},
		InScheme: tpm2.TPMTSigScheme{
			Scheme: tpm2.TPMAlgRSASSA,
			Details: tpm2.NewTPMUSigScheme(tpm2.TPMAlgRSASSA, &tpm2.TPMSSchemeHash{
				HashAlg: tpm2.TPMIAlgHash(hashAlg),
			}),
		},
		PCRSelect: tpm2.TPMLPCRSelection{
			PCRSelections: []tpm2.TPMSPCRSelection{
				{
					Hash:      tpm2.TPMIAlgHash(hashAlg),
					PCRSelect: tpm2.PCClientCompatible.PCRs(pcrs...),
				},
			},
		},
	}.Execute(t)
	if err != nil {
		return nil, nil, fmt.Errorf("requesting quote: %w", err)
	}

	return resp.Quoted.Bytes(), tpm2.Marshal(resp.Signature), nil
}
