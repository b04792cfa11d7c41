package fixtures

import "encoding/binary"

// SGX quote v3 layout constants, duplicated from attestation/sgx rather than
// imported, so a change to the adapter's parser is caught by a fixture that
// was built independently against the same byte offsets spec.md specifies.
const (
	sgxHeaderSize     = 48
	sgxReportBodySize = 432

	sgxAttributesOffset = 112
	sgxMrEnclaveOffset  = 176
	sgxMrSignerOffset   = 240
	sgxIsvProdIDOffset  = 368
	sgxIsvSVNOffset     = 370
	sgxReportDataOffset = sgxReportBodySize - 64

	sgxDebugAttributeBit = 1 << 1

	sgxEcdsaSigLen = 64
	sgxEcdsaPubLen = 64
)

// QuoteOpts configures a synthetic quote built by BuildQuote.
type QuoteOpts struct {
	Version      uint16 // defaults to 3 if zero
	Debug        bool
	MrEnclave    [32]byte
	MrSigner     [32]byte
	IsvProdID    uint16
	IsvSVN       uint16
	UserData     [20]byte
	QuoteSig     [sgxEcdsaSigLen]byte
	AttestionKey [sgxEcdsaPubLen]byte
	QeAuthData   []byte
	PckChainPEM  []byte
}

// BuildQuote serializes a little-endian SGX ECDSA Quote v3 matching the
// adapter's parser, for boundary and round-trip tests.
func BuildQuote(opts QuoteOpts) []byte {
	version := opts.Version
	if version == 0 {
		version = 3
	}

	header := make([]byte, sgxHeaderSize)
	binary.LittleEndian.PutUint16(header[0:2], version)
	binary.LittleEndian.PutUint16(header[2:4], 2)   // attestation_key_type: ECDSA-P256
	binary.LittleEndian.PutUint16(header[8:10], 1)  // qe_svn
	binary.LittleEndian.PutUint16(header[10:12], 1) // pce_svn
	copy(header[28:48], opts.UserData[:])

	body := make([]byte, sgxReportBodySize)
	attrs := uint64(0)
	if opts.Debug {
		attrs |= sgxDebugAttributeBit
	}
	binary.LittleEndian.PutUint64(body[sgxAttributesOffset:sgxAttributesOffset+8], attrs)
	copy(body[sgxMrEnclaveOffset:sgxMrEnclaveOffset+32], opts.MrEnclave[:])
	copy(body[sgxMrSignerOffset:sgxMrSignerOffset+32], opts.MrSigner[:])
	binary.LittleEndian.PutUint16(body[sgxIsvProdIDOffset:sgxIsvProdIDOffset+2], opts.IsvProdID)
	binary.LittleEndian.PutUint16(body[sgxIsvSVNOffset:sgxIsvSVNOffset+2], opts.IsvSVN)

	sigData := buildSignatureData(opts)

	out := make([]byte, 0, sgxHeaderSize+sgxReportBodySize+4+len(sigData))
	out = append(out, header...)
	out = append(out, body...)

	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(sigData)))
	out = append(out, lenBuf...)
	out = append(out, sigData...)

	return out
}

func buildSignatureData(opts QuoteOpts) []byte {
	var out []byte
	out = append(out, opts.QuoteSig[:]...)
	out = append(out, opts.AttestionKey[:]...)

	qeReport := make([]byte, sgxReportBodySize)
	copy(qeReport[sgxMrEnclaveOffset:sgxMrEnclaveOffset+32], opts.MrEnclave[:])
	out = append(out, qeReport...)

	qeReportSig := make([]byte, sgxEcdsaSigLen)
	out = append(out, qeReportSig...)

	authLenBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(authLenBuf, uint16(len(opts.QeAuthData)))
	out = append(out, authLenBuf...)
	out = append(out, opts.QeAuthData...)

	certTypeBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(certTypeBuf, 5) // CertificationDataTypePCKChain
	out = append(out, certTypeBuf...)

	certLenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(certLenBuf, uint32(len(opts.PckChainPEM)))
	out = append(out, certLenBuf...)
	out = append(out, opts.PckChainPEM...)

	return out
}
