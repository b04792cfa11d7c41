package sgx

import (
	"encoding/binary"
)

const (
	// HeaderSize is the fixed length of the quote header.
	HeaderSize = 48

	// ReportBodySize is the fixed length of an SGX report body, used both
	// for the quote's own ISV enclave report and for the QE report nested
	// inside the signature-and-auth-data block.
	ReportBodySize = 432

	attributesOffset = 112 // u64, LE
	mrEnclaveOffset  = 176 // 32 bytes
	mrEnclaveLen     = 32
	mrSignerOffset   = 240 // 32 bytes
	mrSignerLen      = 32
	isvProdIDOffset  = 368                 // u16, LE
	isvSVNOffset     = 370                 // u16, LE
	reportDataOffset = ReportBodySize - 64 // 368
	reportDataLen    = 64

	// debugAttributeBit is bit 1 of the attributes flags field.
	debugAttributeBit = 1 << 1

	ecdsaSigLen   = 64
	ecdsaPubLen   = 64
	qeAuthDataMin = 626 // sig(64) + pubkey(64) + qe report(432) + qe sig(64) + authlen(2)

	// CertificationDataTypePCKChain is the certification_data tag value
	// that marks the blob as a PEM PCK certificate chain.
	CertificationDataTypePCKChain uint16 = 5
)

// QuoteHeader is the 48-byte preamble to an SGX ECDSA Quote v3.
type QuoteHeader struct {
	Version            uint16
	AttestationKeyType uint16
	QeSvn              uint16
	PceSvn             uint16
	QeVendorID         [16]byte
	UserData           [20]byte
}

// ReportBody is the report the quote (or the nested QE report) commits to.
type ReportBody struct {
	Attributes uint64
	MrEnclave  [mrEnclaveLen]byte
	MrSigner   [mrSignerLen]byte
	IsvProdID  uint16
	IsvSVN     uint16
	ReportData [reportDataLen]byte
}

// DebugMode reports whether the report's enclave was built in debug mode.
func (r ReportBody) DebugMode() bool {
	return r.Attributes&debugAttributeBit != 0
}

// SignatureData is the signature-and-auth-data block following the quote's
// report body: the ECDSA quote signature, the attestation public key, the
// Quoting Enclave's own report and its signature, QE authentication data,
// and the certification data (ordinarily the PEM PCK certificate chain).
type SignatureData struct {
	QuoteSignature    [ecdsaSigLen]byte
	AttestationPubKey [ecdsaPubLen]byte
	QeReport          ReportBody
	QeReportSignature [ecdsaSigLen]byte
	QeAuthData        []byte

	CertificationDataType uint16
	CertificationData     []byte
}

// Quote is a fully parsed SGX ECDSA Quote v3.
type Quote struct {
	Header        QuoteHeader
	ReportBody    ReportBody
	SignatureData SignatureData
	SignedPortion []byte // header || report body, the bytes QuoteSignature covers
	Raw           []byte
}

// ParseQuote parses an SGX ECDSA Quote v3 from raw, little-endian bytes.
func ParseQuote(raw []byte) (Quote, error) {
	if len(raw) < HeaderSize {
		return Quote{}, &InvalidLengthError{Expected: HeaderSize, Actual: len(raw)}
	}

	header := parseHeader(raw[:HeaderSize])
	if header.Version != 3 {
		return Quote{}, &UnsupportedVersionError{Version: header.Version}
	}

	if len(raw) < HeaderSize+ReportBodySize+4 {
		return Quote{}, &InvalidLengthError{Expected: HeaderSize + ReportBodySize + 4, Actual: len(raw)}
	}

	reportStart := HeaderSize
	report := parseReportBody(raw[reportStart : reportStart+ReportBodySize])

	sigLenOffset := reportStart + ReportBodySize
	sigLen := binary.LittleEndian.Uint32(raw[sigLenOffset : sigLenOffset+4])

	sigDataStart := sigLenOffset + 4
	sigDataEnd := sigDataStart + int(sigLen)
	if len(raw) < sigDataEnd {
		return Quote{}, &InvalidLengthError{Expected: sigDataEnd, Actual: len(raw)}
	}

	sigData, err := parseSignatureData(raw[sigDataStart:sigDataEnd])
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Header:        header,
		ReportBody:    report,
		SignatureData: sigData,
		SignedPortion: raw[:reportStart+ReportBodySize],
		Raw:           raw,
	}, nil
}

func parseHeader(b []byte) QuoteHeader {
	var h QuoteHeader
	h.Version = binary.LittleEndian.Uint16(b[0:2])
	h.AttestationKeyType = binary.LittleEndian.Uint16(b[2:4])
	// bytes [4:8] are reserved/TEE-type in the wire format; not surfaced.
	h.QeSvn = binary.LittleEndian.Uint16(b[8:10])
	h.PceSvn = binary.LittleEndian.Uint16(b[10:12])
	copy(h.QeVendorID[:], b[12:28])
	copy(h.UserData[:], b[28:48])
	return h
}

// parseReportBody reads a ReportBody from a 432-byte buffer. isv_prod_id and
// isv_svn alias the first four bytes of report_data in this format — both
// fields start at the same body offset, per the structure this adapter was
// built against — so report_data is read in full and isv_prod_id/isv_svn
// are read from its leading bytes rather than a separate region.
func parseReportBody(b []byte) ReportBody {
	var r ReportBody
	r.Attributes = binary.LittleEndian.Uint64(b[attributesOffset : attributesOffset+8])
	copy(r.MrEnclave[:], b[mrEnclaveOffset:mrEnclaveOffset+mrEnclaveLen])
	copy(r.MrSigner[:], b[mrSignerOffset:mrSignerOffset+mrSignerLen])
	r.IsvProdID = binary.LittleEndian.Uint16(b[isvProdIDOffset : isvProdIDOffset+2])
	r.IsvSVN = binary.LittleEndian.Uint16(b[isvSVNOffset : isvSVNOffset+2])
	copy(r.ReportData[:], b[reportDataOffset:reportDataOffset+reportDataLen])
	return r
}

func parseSignatureData(b []byte) (SignatureData, error) {
	if len(b) < qeAuthDataMin {
		return SignatureData{}, &InvalidLengthError{Expected: qeAuthDataMin, Actual: len(b)}
	}

	var sd SignatureData
	off := 0
	copy(sd.QuoteSignature[:], b[off:off+ecdsaSigLen])
	off += ecdsaSigLen
	copy(sd.AttestationPubKey[:], b[off:off+ecdsaPubLen])
	off += ecdsaPubLen
	sd.QeReport = parseReportBody(b[off : off+ReportBodySize])
	off += ReportBodySize
	copy(sd.QeReportSignature[:], b[off:off+ecdsaSigLen])
	off += ecdsaSigLen

	authLen := int(binary.LittleEndian.Uint16(b[off : off+2]))
	off += 2
	if len(b) < off+authLen+6 {
		return SignatureData{}, &InvalidLengthError{Expected: off + authLen + 6, Actual: len(b)}
	}
	sd.QeAuthData = append([]byte(nil), b[off:off+authLen]...)
	off += authLen

	sd.CertificationDataType = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	certLen := int(binary.LittleEndian.Uint32(b[off : off+4]))
	off += 4
	if len(b) < off+certLen {
		return SignatureData{}, &InvalidLengthError{Expected: off + certLen, Actual: len(b)}
	}
	sd.CertificationData = append([]byte(nil), b[off:off+certLen]...)

	return sd, nil
}
