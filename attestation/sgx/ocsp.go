package sgx

import (
	"bytes"
	"context"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/crypto/ocsp"

	"github.com/ironclad-robotics/attestcore/attestation"
)

// CheckOCSP sends an OCSP request for cert (issued by issuer) to the
// responder named in cert's Authority Information Access extension, using
// httpClient (http.DefaultClient if nil). Network failures return
// RevocationUnknown alongside a wrapped attestation.NetworkError, never a
// silent Ok. As for PCS requests, a ctx without a deadline is given
// DefaultRequestTimeout.
func CheckOCSP(ctx context.Context, httpClient *http.Client, cert, issuer *x509.Certificate) (attestation.RevocationVerdict, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}
	if len(cert.OCSPServer) == 0 {
		return attestation.RevocationUnknown, fmt.Errorf("%w: certificate %s carries no OCSP responder", attestation.ErrConfig, cert.Subject)
	}

	reqBytes, err := ocsp.CreateRequest(cert, issuer, nil)
	if err != nil {
		return attestation.RevocationUnknown, fmt.Errorf("sgx: building OCSP request: %w", err)
	}

	responderURL := cert.OCSPServer[0]
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, responderURL, bytes.NewReader(reqBytes))
	if err != nil {
		return attestation.RevocationUnknown, fmt.Errorf("sgx: building OCSP HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/ocsp-request")

	httpResp, err := httpClient.Do(httpReq)
	if err != nil {
		return attestation.RevocationUnknown, &attestation.NetworkError{Op: "ocsp:" + responderURL, Cause: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return attestation.RevocationUnknown, &attestation.NetworkError{Op: "ocsp:" + responderURL, Cause: err}
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return attestation.RevocationUnknown, &PcsApiError{Endpoint: responderURL, Status: httpResp.StatusCode}
	}

	resp, err := ocsp.ParseResponseForCert(body, cert, issuer)
	if err != nil {
		return attestation.RevocationUnknown, fmt.Errorf("sgx: parsing OCSP response: %w", err)
	}

	switch resp.Status {
	case ocsp.Good:
		return attestation.RevocationOk, nil
	case ocsp.Revoked:
		return attestation.RevocationRevoked, nil
	default:
		return attestation.RevocationUnknown, nil
	}
}

// CombineRevocationVerdicts applies the precedence rule for a CRL result
// alongside a supplementary OCSP result: either source reporting Revoked
// wins; otherwise CRL's verdict is used, falling back to OCSP only when CRL
// itself is Unknown.
func CombineRevocationVerdicts(crl, ocspVerdict attestation.RevocationVerdict) attestation.RevocationVerdict {
	if crl == attestation.RevocationRevoked || ocspVerdict == attestation.RevocationRevoked {
		return attestation.RevocationRevoked
	}
	if crl == attestation.RevocationOk {
		return attestation.RevocationOk
	}
	return ocspVerdict
}
