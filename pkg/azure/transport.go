package azure

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultTimeout bounds every remote call. On expiry the call fails with a
// transport error; nothing in this package retries.
const DefaultTimeout = 30 * time.Second

// RawResponse is what the transport hands to the normalizer: status, body
// and the headers that carry the continuation cursor.
type RawResponse struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// ContinuationToken returns the pagination cursor, or "" when the list is
// complete.
func (r *RawResponse) ContinuationToken() string {
	if r == nil {
		return ""
	}
	return r.Header.Get("X-MS-ContinuationToken")
}

// Transport issues one HTTP call per Send invocation. It holds no per-call
// state; credentials are threaded in explicitly on every call.
type Transport struct {
	httpClient *http.Client
	logger     *log.Logger
}

// NewTransport builds a transport with the default bounded timeout.
func NewTransport(logger *log.Logger) *Transport {
	return NewTransportWithClient(&http.Client{Timeout: DefaultTimeout}, logger)
}

// NewTransportWithClient is the injection point for tests and callers that
// need their own client. The client should carry a timeout; a zero timeout
// means calls are bounded only by the caller's context.
func NewTransportWithClient(httpClient *http.Client, logger *log.Logger) *Transport {
	if logger == nil {
		logger = log.Default()
	}
	return &Transport{httpClient: httpClient, logger: logger}
}

// Send executes the request with the given credentials. The PAT travels only
// in the Authorization header. Connection failures, timeouts and context
// cancellation classify as transport errors; any HTTP response, whatever the
// status, is returned to the normalizer untouched.
func (t *Transport) Send(ctx context.Context, req OperationRequest, creds Credentials) (*RawResponse, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, validationError("marshaling request body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL(creds.BaseURL), bodyReader)
	if err != nil {
		return nil, validationError("building request: %v", err)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+basicAuth(creds.Token))

	requestID := uuid.NewString()
	t.logger.Debug("sending request", "id", requestID, "method", req.Method, "path", req.Path)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, transportError(err, "%s %s canceled", req.Method, req.Path)
		}
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, transportError(err, "%s %s timed out", req.Method, req.Path)
		}
		return nil, transportError(err, "%s %s failed", req.Method, req.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err, "reading response for %s %s", req.Method, req.Path)
	}

	t.logger.Debug("received response", "id", requestID, "status", resp.StatusCode, "bytes", len(body))

	return &RawResponse{StatusCode: resp.StatusCode, Body: body, Header: resp.Header}, nil
}

// basicAuth encodes the PAT the way Azure DevOps expects: empty username,
// token as password.
func basicAuth(token string) string {
	return base64.StdEncoding.EncodeToString([]byte(":" + token))
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
