package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/pageprops/internal/client/models"
	"github.com/dmitrijs2005/pageprops/internal/common"
	"github.com/dmitrijs2005/pageprops/internal/netx"
)

const (
	acceptNoMetadata = "application/json;odata=nometadata"
	acceptVerbose    = "application/json;odata=verbose"

	defaultTimeout = 15 * time.Second
)

// RESTClient talks to the host's REST API over HTTP.
type RESTClient struct {
	siteURL     string
	accessToken string
	timeout     time.Duration
	http        *http.Client
}

// Option configures a RESTClient.
type Option func(*RESTClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *RESTClient) { r.http = c }
}

// WithAccessToken sends the token as a bearer Authorization header.
func WithAccessToken(token string) Option {
	return func(r *RESTClient) { r.accessToken = token }
}

// WithTimeout bounds every request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *RESTClient) { r.timeout = d }
}

// NewRESTClient returns a client for the site rooted at siteURL.
func NewRESTClient(siteURL string, opts ...Option) (*RESTClient, error) {
	u, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil {
		return nil, fmt.Errorf("invalid site url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid site url %q: want http(s)://host/path", siteURL)
	}

	c := &RESTClient{
		siteURL: strings.TrimRight(u.String(), "/"),
		timeout: defaultTimeout,
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Close releases idle connections.
func (c *RESTClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *RESTClient) endpoint(path string) string {
	return c.siteURL + "/_api/" + path
}

// listByTitle renders an OData list selector for a list title.
func listByTitle(title string) string {
	return "web/lists/getByTitle('" + url.PathEscape(strings.ReplaceAll(title, "'", "''")) + "')"
}

func listByID(id string) string {
	return "web/lists('" + url.PathEscape(id) + "')"
}

func (c *RESTClient) do(ctx context.Context, method, path string, headers http.Header, body any) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		payload = b
	}

	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	if h.Get("Accept") == "" {
		h.Set("Accept", acceptNoMetadata)
	}
	if payload != nil && h.Get("Content-Type") == "" {
		h.Set("Content-Type", acceptNoMetadata)
	}
	if c.accessToken != "" {
		h.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := netx.Do(ctx, c.http, method, c.endpoint(path), h, payload)
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

// Ping checks that the site answers.
func (c *RESTClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "web?$select=Title", nil, nil)
	return err
}

// ListID resolves the identifier of the list with the given title.
func (c *RESTClient) ListID(ctx context.Context, listTitle string) (string, error) {
	b, err := c.do(ctx, http.MethodGet, listByTitle(listTitle)+"?$select=Id", nil, nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"Id"`
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return "", fmt.Errorf("decoding list: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("list %q: %w", listTitle, common.ErrorNotFound)
	}
	return resp.ID, nil
}

// Fields reads the schema of a list.
func (c *RESTClient) Fields(ctx context.Context, listTitle string) ([]models.FieldInfo, error) {
	b, err := c.do(ctx, http.MethodGet, listByTitle(listTitle)+"/fields", nil, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Value []models.FieldInfo `json:"value"`
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	return resp.Value, nil
}

// itemViewXML selects a single item by ID.
func itemViewXML(itemID int) string {
	return "<View><Query><Where><Eq><FieldRef Name='ID' /><Value Type='Number'>" +
		strconv.Itoa(itemID) +
		"</Value></Eq></Where></Query><RowLimit>1</RowLimit></View>"
}

// CurrentValues reads the raw values of one item.
func (c *RESTClient) CurrentValues(ctx context.Context, listTitle string, itemID int) (Row, error) {
	body := map[string]any{
		"parameters": map[string]any{
			"RenderOptions": 2,
			"ViewXml":       itemViewXML(itemID),
		},
	}
	b, err := c.do(ctx, http.MethodPost, listByTitle(listTitle)+"/RenderListDataAsStream", nil, body)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Row     []Row `json:"Row"`
		LastRow int   `json:"LastRow"`
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding item values: %w", err)
	}
	if resp.LastRow <= 0 || len(resp.Row) == 0 {
		return Row{}, nil
	}
	return resp.Row[0], nil
}

// ValidateUpdate submits form values through the validate-update endpoint.
// Field-level failures reported by the host are returned as a
// *ValidationError alongside the full result list.
func (c *RESTClient) ValidateUpdate(ctx context.Context, listID string, itemID int, req UpdateRequest) ([]UpdateResult, error) {
	h := http.Header{}
	h.Set("Accept", acceptVerbose)
	h.Set("Content-Type", "application/json")

	path := listByID(listID) + "/items(" + strconv.Itoa(itemID) + ")/validateupdatelistitem"
	b, err := c.do(ctx, http.MethodPost, path, h, req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		D *struct {
			ValidateUpdateListItem struct {
				Results []UpdateResult `json:"results"`
			} `json:"ValidateUpdateListItem"`
		} `json:"d"`
		Value []UpdateResult `json:"value"`
	}
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil, fmt.Errorf("decoding update results: %w", err)
	}

	results := resp.Value
	if resp.D != nil {
		results = resp.D.ValidateUpdateListItem.Results
	}
	for _, r := range results {
		if r.HasException {
			return results, &ValidationError{Results: results}
		}
	}
	return results, nil
}

// UpdateItem merges natively typed values into the item.
func (c *RESTClient) UpdateItem(ctx context.Context, listID string, itemID int, values map[string]json.RawMessage) error {
	h := http.Header{}
	h.Set("X-HTTP-Method", "MERGE")
	h.Set("IF-MATCH", "*")

	path := listByID(listID) + "/items(" + strconv.Itoa(itemID) + ")"
	_, err := c.do(ctx, http.MethodPost, path, h, values)
	return err
}

// mapError translates transport failures into the package sentinels.
func (c *RESTClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if errors.As(err, &se) {
		remote := remoteError(se)
		switch {
		case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrUnauthorized, remote)
		case se.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %w", common.ErrorNotFound, remote)
		case se.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", ErrUnavailable, remote)
		default:
			return remote
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return fmt.Errorf("request error: %w", err)
}

type odataError struct {
	Code    string `json:"code"`
	Message struct {
		Value string `json:"value"`
	} `json:"message"`
}

func remoteError(se *netx.StatusError) *RemoteError {
	re := &RemoteError{StatusCode: se.StatusCode, Body: string(se.Body)}

	var payload struct {
		Error      *odataError `json:"error"`
		OdataError *odataError `json:"odata.error"`
	}
	if err := json.Unmarshal(se.Body, &payload); err == nil {
		e := payload.Error
		if e == nil {
			e = payload.OdataError
		}
		if e != nil {
			re.Code = e.Code
			re.Message = e.Message.Value
		}
	}
	if re.Message == "" {
		re.Message = se.Status
	}
	return re
}
