// Package auth implements the credential strategies used by vendor
// connectors. Each strategy knows how to stamp one outgoing HTTP request;
// the transport layer applies it before every call.
package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/yass1337/hrflow-connectors/pkg/config"
	"github.com/yass1337/hrflow-connectors/pkg/errors"
)

// Credentials stamps authentication onto an outgoing request.
type Credentials interface {
	Apply(req *http.Request) error
}

// APIKey sends a static token in a vendor-specific header, such as
// X-SmartToken or X-taleez-api-secret.
type APIKey struct {
	Header string
	Value  string
}

// Apply implements Credentials.
func (a *APIKey) Apply(req *http.Request) error {
	if a.Value == "" {
		return errors.New(errors.ErrorTypeAuthentication, "api key is empty")
	}
	req.Header.Set(a.Header, a.Value)
	return nil
}

// Basic sends RFC 7617 basic authentication.
type Basic struct {
	Username string
	Password string
}

// Apply implements Credentials.
func (b *Basic) Apply(req *http.Request) error {
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

// Session signs in with email and password against a vendor sign-in endpoint
// and applies the returned access token as the Authorization header. The
// token is fetched once and cached for the lifetime of the strategy.
type Session struct {
	SignInURL string
	Email     string
	Password  string

	// Client performs the sign-in call. Defaults to a 30s-timeout client.
	Client *http.Client

	mu    sync.Mutex
	token string
}

// Apply implements Credentials.
func (s *Session) Apply(req *http.Request) error {
	token, err := s.accessToken(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", token)
	return nil
}

func (s *Session) accessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return s.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"email":    s.Email,
		"password": s.Password,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeAuthentication, "failed to encode sign-in payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.SignInURL, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeAuthentication, "failed to build sign-in request")
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeAuthentication, "sign-in request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.New(errors.ErrorTypeAuthentication, "sign-in rejected").
			WithDetail("http_status", resp.StatusCode).
			WithDetail("body", string(raw))
	}

	var signIn struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signIn); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeAuthentication, "failed to decode sign-in response")
	}
	if signIn.AccessToken == "" {
		return "", errors.New(errors.ErrorTypeAuthentication, "sign-in response carried no access token")
	}

	s.token = signIn.AccessToken
	return s.token, nil
}

// OAuth2 obtains tokens through the OAuth2 client-credentials flow and sends
// them as bearer tokens. Token refresh is handled by the underlying source.
type OAuth2 struct {
	cfg clientcredentials.Config
}

// NewOAuth2 builds a client-credentials strategy.
func NewOAuth2(tokenURL, clientID, clientSecret string, scopes []string) *OAuth2 {
	return &OAuth2{
		cfg: clientcredentials.Config{
			TokenURL:     tokenURL,
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       scopes,
		},
	}
}

// Apply implements Credentials.
func (o *OAuth2) Apply(req *http.Request) error {
	token, err := o.cfg.TokenSource(req.Context()).Token()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeAuthentication, "failed to obtain oauth2 token")
	}
	token.SetAuthHeader(req)
	return nil
}

// None performs no authentication. Used by test stubs.
type None struct{}

// Apply implements Credentials.
func (None) Apply(*http.Request) error { return nil }

// FromConfig builds the credential strategy described by a security section.
// Vendor connectors call this with their header and sign-in conventions.
func FromConfig(sec config.SecurityConfig, apiKeyHeader, signInURL string) (Credentials, error) {
	switch sec.AuthType {
	case "", "api_key":
		return &APIKey{Header: apiKeyHeader, Value: sec.Credentials["api_key"]}, nil
	case "session":
		return &Session{
			SignInURL: signInURL,
			Email:     sec.Credentials["email"],
			Password:  sec.Credentials["password"],
		}, nil
	case "basic":
		return &Basic{
			Username: sec.Credentials["username"],
			Password: sec.Credentials["password"],
		}, nil
	case "oauth2":
		return NewOAuth2(
			sec.Credentials["token_url"],
			sec.Credentials["client_id"],
			sec.Credentials["client_secret"],
			nil,
		), nil
	case "none":
		return None{}, nil
	default:
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("unknown auth_type %q", sec.AuthType))
	}
}
