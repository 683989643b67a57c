// Package azure is a direct REST client for Azure DevOps. Every operation
// builds its own request, issues exactly one call per step through a shared
// transport, and decodes the response once at this boundary into typed
// results. No state survives between calls and nothing here retries.
package azure

import (
	"context"

	"github.com/charmbracelet/log"
)

// Client composes credentials and a transport into the set of named remote
// operations. It is safe for concurrent use: every method owns its request
// and response and touches no shared mutable state.
type Client struct {
	creds     Credentials
	transport *Transport
}

// NewClient builds a client for one organization. Credentials come from the
// caller, resolved once from configuration; the client never reads ambient
// state mid-call.
func NewClient(creds Credentials, transport *Transport) (*Client, error) {
	if creds.BaseURL == "" || creds.Organization == "" {
		return nil, configurationError("organization URL is not configured")
	}
	if creds.Token == "" {
		return nil, configurationError("personal access token is not configured")
	}
	if transport == nil {
		transport = NewTransport(log.Default())
	}
	return &Client{creds: creds, transport: transport}, nil
}

// Organization returns the organization this client talks to.
func (c *Client) Organization() string {
	return c.creds.Organization
}

// do issues a request and normalizes the response into out (which may be nil
// for operations whose body is irrelevant).
func (c *Client) do(ctx context.Context, req OperationRequest, out any) error {
	resp, err := c.transport.Send(ctx, req, c.creds)
	if err != nil {
		return err
	}
	return normalize(resp, out)
}

// doList issues a request expecting a count/value envelope. It returns the
// continuation token for the next page, "" when the listing is complete.
func (c *Client) doList(ctx context.Context, req OperationRequest, out any) (string, error) {
	resp, err := c.transport.Send(ctx, req, c.creds)
	if err != nil {
		return "", err
	}
	if _, err := normalizeList(resp, out); err != nil {
		return "", err
	}
	return resp.ContinuationToken(), nil
}

// authenticatedIdentity resolves the identity behind the PAT via the
// connection data endpoint. Used by voting, which must address the reviewer
// record by identity ID.
func (c *Client) authenticatedIdentity(ctx context.Context) (IdentityRef, error) {
	var data connectionData
	req := newRequest("GET", "_apis/connectionData", nil, nil)
	if err := c.do(ctx, req, &data); err != nil {
		return IdentityRef{}, err
	}
	return data.AuthenticatedUser, nil
}
