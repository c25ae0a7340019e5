package invitesdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the invites service. Public calls hang off the client;
// authenticated ones off a Session.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client with a 10 second request timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSession returns a Session that authenticates with tokens from src.
func (c *SDKClient) NewSession(src TokenSource) *Session {
	return &Session{client: c, tokens: src}
}
