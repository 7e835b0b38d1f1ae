package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
	logger   *zap.Logger
}

func NewClient(baseURL, apiToken string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// ListLeads: GET /leads, server-side filtered by status and assignee only.
func (c *Client) ListLeads(ctx context.Context, filters entity.ServerFilters) ([]entity.Lead, error) {
	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.AssignedTo != "" {
		query.Set("assignedTo", filters.AssignedTo)
	}

	endpoint := c.baseURL + "/leads"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var leads []entity.Lead
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &leads); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return leads, nil
}

func (c *Client) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	var lead entity.Lead
	if err := c.do(ctx, http.MethodGet, c.leadURL(id, ""), nil, &lead); err != nil {
		return nil, fmt.Errorf("get lead %s: %w", id, err)
	}
	return &lead, nil
}

func (c *Client) UpdateLeadStatus(ctx context.Context, id string, status entity.Status) (*entity.Lead, error) {
	var lead entity.Lead
	body := updateStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, c.leadURL(id, "status"), body, &lead); err != nil {
		return nil, fmt.Errorf("update lead %s status: %w", id, err)
	}
	return &lead, nil
}

func (c *Client) AddFollowUp(ctx context.Context, id, conclusion string) (*entity.Lead, error) {
	var lead entity.Lead
	body := followUpRequest{Conclusion: conclusion}
	if err := c.do(ctx, http.MethodPost, c.leadURL(id, "follow-ups"), body, &lead); err != nil {
		return nil, fmt.Errorf("add follow-up to lead %s: %w", id, err)
	}
	return &lead, nil
}

func (c *Client) CreateLead(ctx context.Context, input entity.LeadInput) (*entity.Lead, error) {
	var lead entity.Lead
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/leads", input, &lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return &lead, nil
}

func (c *Client) UpdateLead(ctx context.Context, id string, input entity.LeadInput) (*entity.Lead, error) {
	var lead entity.Lead
	if err := c.do(ctx, http.MethodPut, c.leadURL(id, ""), input, &lead); err != nil {
		return nil, fmt.Errorf("update lead %s: %w", id, err)
	}
	return &lead, nil
}

// BaseURL is reported by the health endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) leadURL(id, action string) string {
	u := c.baseURL + "/leads/" + url.PathEscape(id)
	if action != "" {
		u += "/" + action
	}
	return u
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	c.setHeaders(req, payload != nil)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request crm: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read crm response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("crm rejected request",
			zap.String("method", method),
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("message", env.Message))
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode crm response: %w", decodeErr)
	}
	if env.Success != nil && !*env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode crm data: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	if c.apiToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "LeadPipeline/1.0")
}
