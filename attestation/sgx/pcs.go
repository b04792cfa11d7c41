package sgx

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ironclad-robotics/attestcore/attestation"
)

// DefaultPCSBaseURL is Intel's public PCS v4 endpoint.
const DefaultPCSBaseURL = "https://api.trustedservices.intel.com/sgx/certification/v4"

// DefaultRequestTimeout applies to a PCS request when the caller's context
// carries no deadline of its own.
const DefaultRequestTimeout = 5 * time.Second

// TCBInfo is the subset of Intel's TCB info JSON response this adapter acts
// on: the FMSPC it describes and the TCB levels it enumerates.
type TCBInfo struct {
	Fmspc     string     `json:"fmspc"`
	TCBLevels []TCBLevel `json:"tcbLevels"`
}

// TCBLevel is a single entry in a TCBInfo's tcbLevels array.
type TCBLevel struct {
	Status string `json:"tcbStatus"`
}

// PCSClient fetches PCK certificates, CRLs, and TCB info from an Intel
// Provisioning Certification Service (or a compatible, e.g. self-hosted,
// PCS-protocol endpoint).
type PCSClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger

	refreshGroup singleflight.Group
}

// NewPCSClient returns a client against baseURL (DefaultPCSBaseURL if empty)
// using httpClient (http.DefaultClient if nil).
func NewPCSClient(baseURL string, httpClient *http.Client, log *zap.Logger) *PCSClient {
	if baseURL == "" {
		baseURL = DefaultPCSBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PCSClient{baseURL: baseURL, httpClient: httpClient, log: log}
}

func (c *PCSClient) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	// requestID has no cryptographic role; it only lets a PCS-side operator
	// correlate a logged request with ours.
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", attestation.ErrNetwork, endpoint, err)
	}
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("pcs request failed", zap.String("endpoint", endpoint), zap.String("request_id", requestID), zap.Error(err))
		return nil, &attestation.NetworkError{Op: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &attestation.NetworkError{Op: endpoint, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("pcs request rejected", zap.String("endpoint", endpoint), zap.String("request_id", requestID), zap.Int("status", resp.StatusCode))
		return nil, &PcsApiError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	return body, nil
}

// FetchPckCert retrieves the PEM-encoded PCK certificate chain for the given
// FMSPC/PCE ID pair.
func (c *PCSClient) FetchPckCert(ctx context.Context, fmspc, pceID string) ([]byte, error) {
	c.log.Debug("fetching pck cert", zap.String("fmspc", fmspc), zap.String("pceid", pceID))
	return c.get(ctx, "/pckcert", url.Values{"fmspc": {fmspc}, "pceid": {pceID}})
}

// FetchPckCrl retrieves the DER-encoded CRL for the given CA type
// ("processor" or "platform").
func (c *PCSClient) FetchPckCrl(ctx context.Context, ca string) (*x509.RevocationList, error) {
	c.log.Debug("fetching pck crl", zap.String("ca", ca))
	der, err := c.get(ctx, "/pckcrl", url.Values{"ca": {ca}, "encoding": {"der"}})
	if err != nil {
		return nil, err
	}
	crl, err := x509.ParseRevocationList(der)
	if err != nil {
		return nil, fmt.Errorf("sgx: parsing pck crl: %w", err)
	}
	return crl, nil
}

// FetchTCBInfo retrieves TCB info for the given FMSPC.
func (c *PCSClient) FetchTCBInfo(ctx context.Context, fmspc string) (TCBInfo, error) {
	c.log.Debug("fetching tcb info", zap.String("fmspc", fmspc))
	body, err := c.get(ctx, "/tcb", url.Values{"fmspc": {fmspc}})
	if err != nil {
		return TCBInfo{}, err
	}
	var info TCBInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return TCBInfo{}, fmt.Errorf("sgx: decoding tcb info: %w", err)
	}
	return info, nil
}

// RefreshTrustAnchors fetches a PCK cert, both CRL variants, and TCB info
// concurrently, and returns a brand new TrustAnchors snapshot only if every
// fetch succeeds. Concurrent callers racing on the same fmspc/pceID collapse
// into a single in-flight fetch.
func (c *PCSClient) RefreshTrustAnchors(ctx context.Context, fmspc, pceID string) (TrustAnchors, error) {
	key := fmspc + "/" + pceID
	result, err, _ := c.refreshGroup.Do(key, func() (interface{}, error) {
		return c.doRefresh(ctx, fmspc, pceID)
	})
	if err != nil {
		return TrustAnchors{}, err
	}
	return result.(TrustAnchors), nil
}

func (c *PCSClient) doRefresh(ctx context.Context, fmspc, pceID string) (TrustAnchors, error) {
	var (
		pckChainPEM  []byte
		processorCRL *x509.RevocationList
		platformCRL  *x509.RevocationList
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pem, err := c.FetchPckCert(gctx, fmspc, pceID)
		if err != nil {
			return err
		}
		pckChainPEM = pem
		return nil
	})
	g.Go(func() error {
		crl, err := c.FetchPckCrl(gctx, "processor")
		if err != nil {
			return err
		}
		processorCRL = crl
		return nil
	})
	g.Go(func() error {
		crl, err := c.FetchPckCrl(gctx, "platform")
		if err != nil {
			return err
		}
		platformCRL = crl
		return nil
	})
	// TCB info is fetched for its own sake (future TCB-level policy checks);
	// a failure here still fails the whole refresh, matching the
	// all-or-nothing contract.
	g.Go(func() error {
		_, err := c.FetchTCBInfo(gctx, fmspc)
		return err
	})

	if err := g.Wait(); err != nil {
		c.log.Warn("trust anchor refresh failed", zap.Error(err))
		return TrustAnchors{}, err
	}

	certs, err := ParsePckChain(pckChainPEM)
	if err != nil {
		return TrustAnchors{}, err
	}

	root := certs[len(certs)-1]
	var intermediates []*x509.Certificate
	if len(certs) > 2 {
		intermediates = certs[1 : len(certs)-1]
	}

	return TrustAnchors{
		RootCA:        root,
		Intermediates: intermediates,
		Crls:          []*x509.RevocationList{processorCRL, platformCRL},
		FetchedAt:     time.Now(),
	}, nil
}
