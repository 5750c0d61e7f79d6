package upstream

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

	"storefront-checkout/internal/infrastructure/metrics"
	"storefront-checkout/internal/shared"
)

// Client là HTTP client dùng chung cho storefront REST API (/v1/...).
// Bearer token của user được lấy từ context và forward trên mọi request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	pageSize   int
	metrics    *metrics.Metrics
}

// NewClient tạo client. timeout = 0 nghĩa là không timeout, chỉ phụ thuộc context.
func NewClient(baseURL string, timeout time.Duration, pageSize int, m *metrics.Metrics) *Client {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		pageSize: pageSize,
		metrics:  m,
	}
}

// PageSize trả về page size dùng cho chế độ "isAll"
func (c *Client) PageSize() int {
	return c.pageSize
}

// Call mô tả một request tới upstream
type Call struct {
	Name    string // nhãn endpoint cho metrics, vd "orders.create"
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// APIError - upstream trả status >= 400
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream %d [%s]: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream %d: %s", e.Status, e.Message)
}

// IsNotFound kiểm tra lỗi 404 từ upstream
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Do gửi request và decode response (đã bóc envelope {data: ...}) vào out.
// out = nil thì bỏ qua body.
func (c *Client) Do(ctx context.Context, call Call, out interface{}) error {
	start := time.Now()
	status, err := c.do(ctx, call, out)
	c.metrics.ObserveUpstream(call.Name, status, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, call Call, out interface{}) (int, error) {
	target := c.baseURL + call.Path
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		payload, err := json.Marshal(call.Body)
		if err != nil {
			return 0, fmt.Errorf("marshal %s body: %w", call.Name, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return 0, fmt.Errorf("build %s request: %w", call.Name, err)
	}

	req.Header.Set("Accept", "application/json")
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := shared.AccessTokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if ip := shared.ClientIPFrom(ctx); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	if rid := shared.RequestIDFrom(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}
	for k, v := range call.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", call.Method, call.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s response: %w", call.Name, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, parseAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}

	if err := json.Unmarshal(unwrapEnvelope(raw), out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s response: %w", call.Name, err)
	}
	return resp.StatusCode, nil
}

// unwrapEnvelope trả về phần "data" nếu response có dạng {data: ...}, ngược lại trả nguyên body
func unwrapEnvelope(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return trimmed
	}
	if data, ok := env["data"]; ok && len(data) > 0 {
		return data
	}
	return trimmed
}

func parseAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}

	var body struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		if msg := strings.TrimSpace(string(raw)); msg != "" && len(msg) < 512 {
			apiErr.Message = msg
		}
		return apiErr
	}

	if body.Code != "" {
		apiErr.Code = body.Code
	}
	if body.Message != "" {
		apiErr.Message = body.Message
	}

	// {error: {code, message}} hoặc {error: "..."}
	if len(body.Error) > 0 {
		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		var plain string
		switch {
		case json.Unmarshal(body.Error, &nested) == nil:
			if nested.Code != "" {
				apiErr.Code = nested.Code
			}
			if nested.Message != "" {
				apiErr.Message = nested.Message
			}
		case json.Unmarshal(body.Error, &plain) == nil && plain != "":
			apiErr.Message = plain
		}
	}
	return apiErr
}
