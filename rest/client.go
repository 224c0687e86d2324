package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/evergreen-ci/breakout/anomaly"
	"github.com/evergreen-ci/gimlet"
	"github.com/evergreen-ci/utility"
	"github.com/pkg/errors"
)

const (
	defaultClientPort int = 3000
	maxClientPort         = 65535
)

// Client provides an interface for interacting with a remote breakout
// Service.
type Client struct {
	host   string
	prefix string
	port   int
	client *http.Client
	pooled bool
}

// NewClient takes host, port, and URI prefix information and constructs a
// new Client backed by the shared HTTP client pool. Callers should release
// the client with Close when finished.
func NewClient(host string, port int, prefix string) (*Client, error) {
	c := &Client{client: utility.GetHTTPClient(), pooled: true}

	return c.initClient(host, port, prefix)
}

// NewClientFromExisting takes an existing http.Client object and produces a
// new Client object.
func NewClientFromExisting(client *http.Client, host string, port int, prefix string) (*Client, error) {
	if client == nil {
		return nil, errors.New("must use a non-nil existing client")
	}

	c := &Client{client: client}

	return c.initClient(host, port, prefix)
}

// Close returns a pooled underlying http.Client to the pool. The Client is
// not usable afterwards.
func (c *Client) Close() {
	if c.pooled && c.client != nil {
		utility.PutHTTPClient(c.client)
	}
	c.client = nil
}

func (c *Client) initClient(host string, port int, prefix string) (*Client, error) {
	var err error

	err = c.SetHost(host)
	if err != nil {
		return nil, err
	}

	err = c.SetPort(port)
	if err != nil {
		return nil, err
	}

	err = c.SetPrefix(prefix)
	if err != nil {
		return nil, err
	}

	return c, nil
}

////////////////////////////////////////////////////////////////////////
//
// Configuration Interface
//
////////////////////////////////////////////////////////////////////////

// Client returns a pointer to embedded http.Client object.
func (c *Client) Client() *http.Client {
	return c.client
}

// SetHost allows callers to change the hostname (including leading
// "http(s)") for the Client. Returns an error if the specified host
// does not start with "http".
func (c *Client) SetHost(h string) error {
	if !strings.HasPrefix(h, "http") {
		return errors.Errorf("host '%s' is malformed. must start with 'http'", h)
	}

	if strings.HasSuffix(h, "/") {
		h = h[:len(h)-1]
	}

	c.host = h

	return nil
}

// Host returns the current host.
func (c *Client) Host() string {
	return c.host
}

// SetPort allows callers to change the port used for the client. If the
// port is invalid, returns an error and sets the port to the default
// value. (3000)
func (c *Client) SetPort(p int) error {
	if p <= 0 || p >= maxClientPort {
		c.port = defaultClientPort
		return errors.Errorf("cannot set the port to %d, using %d instead", p, defaultClientPort)
	}

	c.port = p
	return nil
}

// Port returns the current port value for the Client.
func (c *Client) Port() int {
	return c.port
}

// SetPrefix allows callers to modify the prefix, for this client,
func (c *Client) SetPrefix(p string) error {
	c.prefix = strings.Trim(p, "/")
	return nil
}

// Prefix accesses the prefix for the client, The prefix is the part of the
// URI between the end-point and the hostname, of the API.
func (c *Client) Prefix() string {
	return c.prefix
}

func (c *Client) getURL(endpoint string) string {
	var url []string

	if c.port == 80 || c.port == 0 {
		url = append(url, c.host)
	} else {
		url = append(url, fmt.Sprintf("%s:%d", c.host, c.port))
	}

	if c.prefix != "" {
		url = append(url, c.prefix)
	}

	if endpoint = strings.Trim(endpoint, "/"); endpoint != "" {
		url = append(url, endpoint)
	}

	return strings.Join(url, "/")
}

func (c *Client) doPost(ctx context.Context, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "problem marshaling request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.getURL(endpoint), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "problem building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "problem sending request to '%s'", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		srvErr := gimlet.ErrorResponse{}
		if err = gimlet.GetJSON(resp.Body, &srvErr); err != nil {
			return errors.Errorf("request to '%s' returned status %d", endpoint, resp.StatusCode)
		}
		return errors.WithStack(srvErr)
	}

	return errors.Wrapf(gimlet.GetJSON(resp.Body, out), "problem reading response from '%s'", endpoint)
}

////////////////////////////////////////////////////////////////////////
//
// Public Operations that Interact with the Service
//
////////////////////////////////////////////////////////////////////////

// GetStatus returns the liveness document of the remote service.
func (c *Client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	out := &StatusResponse{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.getURL("/v1/status"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "problem building request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "problem getting status")
	}
	defer resp.Body.Close()

	if err = gimlet.GetJSON(resp.Body, out); err != nil {
		return nil, errors.Wrap(err, "problem reading status result")
	}

	return out, nil
}

// BreakoutMulti runs the multi search on the remote service.
func (c *Client) BreakoutMulti(ctx context.Context, req BreakoutSeriesRequest) ([]int, error) {
	out := &BreakoutIndicesResponse{}
	if err := c.doPost(ctx, "/v1/breakout/multi", req, out); err != nil {
		return nil, err
	}
	return out.Indices, nil
}

// BreakoutPercent runs the percent search on the remote service.
func (c *Client) BreakoutPercent(ctx context.Context, req BreakoutSeriesRequest) ([]int, error) {
	out := &BreakoutIndicesResponse{}
	if err := c.doPost(ctx, "/v1/breakout/percent", req, out); err != nil {
		return nil, err
	}
	return out.Indices, nil
}

// BreakoutTail runs the tail search on the remote service.
func (c *Client) BreakoutTail(ctx context.Context, req BreakoutTailRequest) (*BreakoutSplitResponse, error) {
	out := &BreakoutSplitResponse{}
	if err := c.doPost(ctx, "/v1/breakout/tail", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// BreakoutSingle runs the single search on the remote service.
func (c *Client) BreakoutSingle(ctx context.Context, req BreakoutTailRequest) (*BreakoutSplitResponse, error) {
	out := &BreakoutSplitResponse{}
	if err := c.doPost(ctx, "/v1/breakout/single", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DetectAnomalies runs anomaly detection on the remote service.
func (c *Client) DetectAnomalies(ctx context.Context, series []float64, opts anomaly.Options) ([]anomaly.Anomaly, error) {
	out := &AnomalyDetectResponse{}
	req := AnomalyDetectRequest{Series: series, Options: opts}
	if err := c.doPost(ctx, "/v1/anomaly/detect", req, out); err != nil {
		return nil, err
	}
	return out.Anomalies, nil
}
