// Package client is a typed Go client for the Tenderly HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tenderly/internal/domain/models"
	"tenderly/internal/domain/services"
)

// DefaultTimeout covers the slowest AI endpoint
const DefaultTimeout = 90 * time.Second

// APIError is a non-2xx response
type APIError struct {
	Status  int
	Message string
	// TxID is set on a 409 from submitProposal
	TxID string
	// Version is the stored version on a 409 from saveDraft
	Version int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ConflictingVersion reports the version another save stored when a
// version-checked save was rejected
func (e *APIError) ConflictingVersion() (int, bool) {
	return e.Version, e.Status == http.StatusConflict && e.Version > 0
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client calls the Tenderly API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8080)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends in (when non-nil) as JSON and decodes the response into out (when non-nil)
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error   string `json:"error"`
		TxID    string `json:"txId"`
		Version int    `json:"version"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.TxID = body.TxID
		apiErr.Version = body.Version
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}

// ListTenders returns every tender
func (c *Client) ListTenders(ctx context.Context) ([]models.Tender, error) {
	var tenders []models.Tender
	if err := c.do(ctx, http.MethodGet, "/api/tenders", nil, &tenders); err != nil {
		return nil, err
	}
	return tenders, nil
}

// GetTender returns one tender
func (c *Client) GetTender(ctx context.Context, id string) (*models.Tender, error) {
	var tender models.Tender
	if err := c.do(ctx, http.MethodGet, "/api/tenders/"+url.PathEscape(id), nil, &tender); err != nil {
		return nil, err
	}
	return &tender, nil
}

// Summarize returns the tender summary
func (c *Client) Summarize(ctx context.Context, tenderID string) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/summarize", services.TenderRequest{TenderID: tenderID}, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// CheckEligibility returns the eligibility checklist for the tender
func (c *Client) CheckEligibility(ctx context.Context, tenderID string) ([]models.EligibilityItem, error) {
	var resp struct {
		Eligibility []models.EligibilityItem `json:"eligibility"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/checkEligibility", services.TenderRequest{TenderID: tenderID}, &resp); err != nil {
		return nil, err
	}
	return resp.Eligibility, nil
}

// VoiceSummary returns the audio reference for the tender summary
func (c *Client) VoiceSummary(ctx context.Context, tenderID string) (*models.VoiceSummary, error) {
	var voice models.VoiceSummary
	if err := c.do(ctx, http.MethodPost, "/api/voiceSummary", services.TenderRequest{TenderID: tenderID}, &voice); err != nil {
		return nil, err
	}
	return &voice, nil
}

type proposalIDResponse struct {
	ProposalID string `json:"proposalId"`
}

// GenerateProposal drafts a proposal with the AI assistant and returns its id
func (c *Client) GenerateProposal(ctx context.Context, tenderID string) (string, error) {
	var resp proposalIDResponse
	if err := c.do(ctx, http.MethodPost, "/api/generateProposal", services.TenderRequest{TenderID: tenderID}, &resp); err != nil {
		return "", err
	}
	return resp.ProposalID, nil
}

// CreateProposal starts a draft with the given content and returns its id
func (c *Client) CreateProposal(ctx context.Context, tenderID, content string) (string, error) {
	var resp proposalIDResponse
	req := services.CreateProposalRequest{TenderID: tenderID, Content: content}
	if err := c.do(ctx, http.MethodPost, "/api/proposals", req, &resp); err != nil {
		return "", err
	}
	return resp.ProposalID, nil
}

// GetProposal returns a proposal
func (c *Client) GetProposal(ctx context.Context, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := c.do(ctx, http.MethodGet, "/api/proposals/"+url.PathEscape(id), nil, &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// SaveDraft replaces the draft content and returns the resulting version.
// A non-nil baseVersion makes the save fail with 409 if another save landed first.
func (c *Client) SaveDraft(ctx context.Context, proposalID, content string, baseVersion *int) (int, error) {
	var resp struct {
		Success bool `json:"success"`
		Version int  `json:"version"`
	}
	req := services.SaveDraftRequest{
		ProposalID:  proposalID,
		Content:     &content,
		BaseVersion: baseVersion,
	}
	if err := c.do(ctx, http.MethodPost, "/api/saveDraft", req, &resp); err != nil {
		return 0, err
	}
	return resp.Version, nil
}

// ListVersions returns the proposal's snapshots, oldest first
func (c *Client) ListVersions(ctx context.Context, proposalID string) ([]models.VersionSnapshot, error) {
	var versions []models.VersionSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/versions/"+url.PathEscape(proposalID), nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// Submit submits the proposal. Re-submission fails with an APIError
// (status 409) carrying the original TxID.
func (c *Client) Submit(ctx context.Context, proposalID string) (*services.SubmitResult, error) {
	var result services.SubmitResult
	if err := c.do(ctx, http.MethodPost, "/api/submitProposal", services.SubmitRequest{ProposalID: proposalID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAttestations returns the attestation ledger, newest first
func (c *Client) ListAttestations(ctx context.Context) ([]models.Attestation, error) {
	var attestations []models.Attestation
	if err := c.do(ctx, http.MethodGet, "/api/attestations", nil, &attestations); err != nil {
		return nil, err
	}
	return attestations, nil
}

// GetCompany returns the company profile
func (c *Client) GetCompany(ctx context.Context) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	if err := c.do(ctx, http.MethodGet, "/api/company", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateCompany sends a partial update; nil fields are left unchanged
func (c *Client) UpdateCompany(ctx context.Context, req *models.UpdateCompanyRequest) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	if err := c.do(ctx, http.MethodPut, "/api/company", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
