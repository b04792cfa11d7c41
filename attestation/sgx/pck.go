package sgx

import (
	"bytes"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/multierr"
)

// sgxExtensionOID is the base OID for the SGX-specific certificate
// extension (1.2.840.113741.1.13.1), which carries the PPID, FMSPC, and TCB
// component SVNs used for TCB level evaluation.
var sgxExtensionOID = asn1.ObjectIdentifier{1, 2, 840, 113741, 1, 13, 1}

// fmspcSubOID is the DER encoding of sub-OID 1.2.840.113741.1.13.1.4 (FMSPC),
// without its tag/length prefix.
var fmspcSubOID = []byte{0x2a, 0x86, 0x48, 0x86, 0xf8, 0x4d, 0x01, 0x0d, 0x01, 0x04}

// ParsePckChain splits a PEM-concatenated certificate chain into individual
// *x509.Certificate values, leaf first.
func ParsePckChain(pemChain []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	rest := pemChain
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidChain, err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: no certificates found in PEM chain", ErrInvalidChain)
	}
	return certs, nil
}

// VerifyPckChain validates certs (leaf first) against anchors: each
// certificate's signature must verify against the next certificate's public
// key, the final certificate must chain to a configured root, every
// certificate must be within its validity window at now, and no
// certificate's serial may appear in a cached CRL. Every violation found is
// reported together (via multierr), not just the first.
func VerifyPckChain(certs []*x509.Certificate, anchors TrustAnchors, now time.Time) error {
	if len(certs) == 0 {
		return fmt.Errorf("%w: empty chain", ErrInvalidChain)
	}

	var errs error
	for i, cert := range certs {
		if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
			errs = multierr.Append(errs, fmt.Errorf("%w: certificate %d (%s)", ErrExpired, i, cert.Subject))
		}
		if isRevokedSerial(cert.SerialNumber, anchors.Crls) {
			errs = multierr.Append(errs, fmt.Errorf("%w: certificate %d (%s) serial %s", ErrRevoked, i, cert.Subject, cert.SerialNumber))
		}

		var issuer *x509.Certificate
		if i+1 < len(certs) {
			issuer = certs[i+1]
		} else {
			issuer = findIssuer(cert, anchors.RootCA, anchors.Intermediates)
			if issuer == nil {
				errs = multierr.Append(errs, fmt.Errorf("%w: no path to a configured root CA from %s", ErrInvalidChain, cert.Subject))
				continue
			}
		}

		if err := cert.CheckSignatureFrom(issuer); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: signature check failed for %s: %v", ErrInvalidChain, cert.Subject, err))
		}
	}

	return errs
}

func findIssuer(cert *x509.Certificate, root *x509.Certificate, intermediates []*x509.Certificate) *x509.Certificate {
	candidates := append([]*x509.Certificate{}, intermediates...)
	if root != nil {
		candidates = append(candidates, root)
	}
	for _, candidate := range candidates {
		if bytes.Equal(candidate.RawSubject, cert.RawIssuer) {
			return candidate
		}
	}
	return nil
}

func isRevokedSerial(serial *big.Int, crls []*x509.RevocationList) bool {
	for _, crl := range crls {
		for _, entry := range crl.RevokedCertificateEntries {
			if entry.SerialNumber.Cmp(serial) == 0 {
				return true
			}
		}
	}
	return false
}

// Fmspc is a 6-byte platform identifier extracted from the SGX certificate
// extension.
type Fmspc [6]byte

// ExtractFmspc reads the FMSPC sub-extension out of a PCK leaf certificate's
// SGX extension (OID 1.2.840.113741.1.13.1.4, per Intel's published PCK
// certificate extension layout).
func ExtractFmspc(leaf *x509.Certificate) (Fmspc, error) {
	for _, ext := range leaf.Extensions {
		if !oidHasPrefix(ext.Id, sgxExtensionOID) {
			continue
		}
		if fmspc, ok := findFmspcInSGXExtension(ext.Value); ok {
			return fmspc, nil
		}
	}
	return Fmspc{}, fmt.Errorf("%w: no SGX FMSPC extension found on leaf certificate", ErrInvalidChain)
}

func oidHasPrefix(id asn1.ObjectIdentifier, prefix asn1.ObjectIdentifier) bool {
	if len(id) < len(prefix) {
		return false
	}
	for i, v := range prefix {
		if id[i] != v {
			return false
		}
	}
	return true
}

// findFmspcInSGXExtension performs a best-effort scan of the SGX extension's
// DER-encoded SEQUENCE for the 6-byte FMSPC OCTET STRING. The SGX extension
// is itself a SEQUENCE of (OID, value) pairs; rather than a full ASN.1
// grammar for it, this looks for the FMSPC sub-OID's bytes and reads the
// octet string that immediately follows it.
func findFmspcInSGXExtension(der []byte) (Fmspc, bool) {
	idx := bytes.Index(der, fmspcSubOID)
	if idx < 0 {
		return Fmspc{}, false
	}
	for i := idx + len(fmspcSubOID); i < len(der)-1; i++ {
		if der[i] == 0x04 && int(der[i+1]) == 6 && i+2+6 <= len(der) {
			var out Fmspc
			copy(out[:], der[i+2:i+2+6])
			return out, true
		}
	}
	return Fmspc{}, false
}
