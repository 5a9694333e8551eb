package gofile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gofile/gofile_sdk_go/internal/gofileapi"
	"github.com/gofile/gofile_sdk_go/internal/httpx"
)

// DefaultBaseURL is the public GoFile API endpoint.
const DefaultBaseURL = "https://api.gofile.io"

// DefaultZone is the upload-server zone GetServer prefers.
const DefaultZone = "eu"

type clientConfig struct {
	baseURL  string
	zone     string
	httpOpts []httpx.Option
}

// Option configures a Client.
type Option func(*clientConfig)

// WithBaseURL points the client at a different API endpoint, e.g. a local
// sandbox.
func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) {
		if strings.TrimSpace(baseURL) != "" {
			cfg.baseURL = baseURL
		}
	}
}

// WithZone overrides the preferred upload-server zone used by GetServer.
func WithZone(zone string) Option {
	return func(cfg *clientConfig) {
		if zone != "" {
			cfg.zone = zone
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(cfg *clientConfig) {
		cfg.httpOpts = append(cfg.httpOpts, httpx.WithHTTPClient(h))
	}
}

// WithLogger enables debug logging of every API request.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *clientConfig) {
		cfg.httpOpts = append(cfg.httpOpts, httpx.WithLogger(l))
	}
}

// Client talks to the GoFile API without credentials. It can list upload
// servers, resolve a ServerClient for guest uploads, and be upgraded with
// Authorize.
type Client struct {
	api *httpx.Client
	cfg clientConfig
}

// New constructs a Client for the public API endpoint.
func New(opts ...Option) (*Client, error) {
	cfg := clientConfig{
		baseURL: DefaultBaseURL,
		zone:    DefaultZone,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	api, err := httpx.NewClient(cfg.baseURL, cfg.httpOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{api: api, cfg: cfg}, nil
}

// Authorize attaches an account token to the client.
func (c *Client) Authorize(token string) *Authorized {
	return &Authorized{Client: c, token: token}
}

// BaseURL reports the API endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.api.BaseURL()
}

// GetServers returns every upload server the API advertises.
func (c *Client) GetServers(ctx context.Context) ([]Server, error) {
	var data struct {
		Servers []Server `json:"servers"`
	}
	if err := c.do(ctx, http.MethodGet, "servers", nil, nil, &data); err != nil {
		return nil, err
	}
	return data.Servers, nil
}

// GetServer resolves a ServerClient for the first upload server in the
// preferred zone. ErrEmptyServerList is returned when the zone has none.
func (c *Client) GetServer(ctx context.Context) (*ServerClient, error) {
	return c.getServer(ctx, "")
}

func (c *Client) getServer(ctx context.Context, token string) (*ServerClient, error) {
	servers, err := c.GetServers(ctx)
	if err != nil {
		return nil, err
	}
	for _, server := range servers {
		if server.Zone != c.cfg.zone {
			continue
		}
		return c.newServerClient(server, token)
	}
	return nil, fmt.Errorf("%w: no server in zone %q", ErrEmptyServerList, c.cfg.zone)
}

// newServerClient builds a client bound to one upload server, reusing the
// transport options of the API client. A custom base URL (sandbox, tests)
// keeps uploads on the same host instead of {name}.gofile.io.
func (c *Client) newServerClient(server Server, token string) (*ServerClient, error) {
	root := server.Root()
	if c.cfg.baseURL != DefaultBaseURL {
		root = c.cfg.baseURL
	}
	api, err := httpx.NewClient(root, c.cfg.httpOpts...)
	if err != nil {
		return nil, err
	}
	return &ServerClient{server: server, api: api, token: token}, nil
}

// Authorized is a Client carrying an account token.
type Authorized struct {
	*Client
	token string
}

// Token reports the account token in use.
func (a *Authorized) Token() string {
	return a.token
}

// GetServer resolves a ServerClient that uploads into the account.
func (a *Authorized) GetServer(ctx context.Context) (*ServerClient, error) {
	return a.getServer(ctx, a.token)
}

// GetAccountDetails fetches the account owning the token.
func (a *Authorized) GetAccountDetails(ctx context.Context) (*AccountDetails, error) {
	query := url.Values{"token": {a.token}}
	var details AccountDetails
	if err := a.do(ctx, http.MethodGet, "getAccountDetails", query, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// GetContent fetches a content tree by id or by share code.
func (a *Authorized) GetContent(ctx context.Context, idOrCode string) (*Content, error) {
	query := url.Values{
		"contentId": {idOrCode},
		"token":     {a.token},
	}
	var content Content
	if err := a.do(ctx, http.MethodGet, "getContent", query, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// GetContentByURL fetches a content tree from a https://gofile.io/d/{code}
// share link.
func (a *Authorized) GetContentByURL(ctx context.Context, rawURL string) (*Content, error) {
	code, err := ContentCodeFromURL(rawURL)
	if err != nil {
		return nil, err
	}
	return a.GetContent(ctx, code)
}

// CreateFolder creates a folder under the given parent and returns it.
func (a *Authorized) CreateFolder(ctx context.Context, parentID uuid.UUID, name string) (*Content, error) {
	payload := createFolderPayload{
		Token:          a.token,
		ParentFolderID: parentID,
		FolderName:     name,
	}
	var content Content
	if err := a.do(ctx, http.MethodPut, "createFolder", nil, payload, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// SetOption updates one attribute of a content.
func (a *Authorized) SetOption(ctx context.Context, contentID uuid.UUID, opt ContentOption) error {
	payload := updateContentPayload{
		Token:  a.token,
		Option: opt.name,
		Value:  opt.value,
	}
	return a.do(ctx, http.MethodPut, updatePath(contentID), nil, payload, nil)
}

// SetPublic toggles public visibility of a folder.
func (a *Authorized) SetPublic(ctx context.Context, contentID uuid.UUID, public bool) error {
	return a.SetOption(ctx, contentID, PublicOption(public))
}

// SetPassword protects a content with a password.
func (a *Authorized) SetPassword(ctx context.Context, contentID uuid.UUID, password string) error {
	return a.SetOption(ctx, contentID, PasswordOption(password))
}

// SetDescription sets the content description.
func (a *Authorized) SetDescription(ctx context.Context, contentID uuid.UUID, description string) error {
	return a.SetOption(ctx, contentID, DescriptionOption(description))
}

// SetExpire sets the expiry timestamp of a content.
func (a *Authorized) SetExpire(ctx context.Context, contentID uuid.UUID, expire time.Time) error {
	return a.SetOption(ctx, contentID, ExpireOption(expire))
}

// SetTags replaces the tags of a content.
func (a *Authorized) SetTags(ctx context.Context, contentID uuid.UUID, tags []string) error {
	return a.SetOption(ctx, contentID, TagsOption(tags))
}

// GetDirectLink enables the direct download link of a file and returns it.
func (a *Authorized) GetDirectLink(ctx context.Context, contentID uuid.UUID) (string, error) {
	payload := updateContentPayload{
		Token:  a.token,
		Option: "directLink",
		Value:  "true",
	}
	var link string
	if err := a.do(ctx, http.MethodPut, updatePath(contentID), nil, payload, &link); err != nil {
		return "", err
	}
	return link, nil
}

// DisableDirectLink turns the direct download link of a file off.
func (a *Authorized) DisableDirectLink(ctx context.Context, contentID uuid.UUID) error {
	return a.SetOption(ctx, contentID, DirectLinkOption(false))
}

// CopyContent copies contents into the destination folder.
func (a *Authorized) CopyContent(ctx context.Context, contentIDs []uuid.UUID, destFolderID uuid.UUID) error {
	payload := copyContentPayload{
		Token:        a.token,
		ContentsID:   contentIDs,
		FolderIDDest: destFolderID,
	}
	return a.do(ctx, http.MethodPut, "contents/copy", nil, payload, nil)
}

// DeleteContent removes contents from the account.
func (a *Authorized) DeleteContent(ctx context.Context, contentIDs ...uuid.UUID) error {
	payload := deleteContentPayload{
		Token:      a.token,
		ContentsID: contentIDs,
	}
	return a.do(ctx, http.MethodDelete, "contents", nil, payload, nil)
}

func updatePath(contentID uuid.UUID) string {
	return fmt.Sprintf("contents/%s/update", contentID)
}

// do sends one API request and decodes the response envelope into out,
// translating failures into the package error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	req := &httpx.Request{
		Method: method,
		Path:   path,
		Query:  query,
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("gofile: encode payload: %w", err)
		}
		req.Body = bytes.NewReader(body)
		req.Header = http.Header{"Content-Type": {"application/json"}}
	}

	resp, err := c.api.Do(ctx, req)
	if err != nil {
		return translateError(err)
	}
	body, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return fmt.Errorf("gofile: read response: %w", err)
	}
	return translateError(gofileapi.Decode(body, out))
}

// translateError maps transport and envelope errors onto the public taxonomy.
// An error body that still carries a readable envelope wins over the bare
// HTTP status, matching how the API reports refusals with 4xx/5xx codes.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var statusErr *gofileapi.StatusError
	if errors.As(err, &statusErr) {
		return &APIError{Status: statusErr.Status}
	}

	var httpErr *httpx.HTTPError
	if errors.As(err, &httpErr) {
		if status, ok := gofileapi.StatusFromBody(httpErr.Body); ok && status != gofileapi.StatusOK {
			return &APIError{Status: status}
		}
		return &HTTPError{
			StatusCode: httpErr.StatusCode,
			Body:       httpErr.Body,
			Header:     httpErr.Header,
		}
	}

	return err
}
