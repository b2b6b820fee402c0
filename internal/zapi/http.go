package zapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/alexisbeaulieu97/cdotctl/internal/logger"
)

const (
	servletPath       = "/servlet/netapp.servlets.admin.XMLrequest_filer"
	defaultAPIVersion = "1.21"
	apiNamespace      = "http://www.netapp.com/filer/admin"
	doctype           = `<!DOCTYPE netapp SYSTEM "file:/etc/netapp_filer.dtd">`
	maxResponseBytes  = 8 << 20
)

// Options configures an HTTPClient.
type Options struct {
	Hostname      string
	Port          int
	Username      string
	Password      string
	HTTPS         bool
	ValidateCerts bool
	APIVersion    string
	Timeout       time.Duration
	// Vserver is the scope for tunneled calls.
	Vserver string
	// Transport overrides the HTTP transport; tests use it.
	Transport http.RoundTripper
	Logger    *logger.Logger
}

// HTTPClient sends requests to the management servlet over HTTP(S). Every
// call is a single round trip: there is no retry.
type HTTPClient struct {
	endpoint string
	opts     Options
	http     *http.Client
	log      *logger.Logger
}

// NewHTTPClient validates opts and builds a client.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	if opts.Hostname == "" {
		return nil, fmt.Errorf("hostname is required")
	}
	if opts.APIVersion == "" {
		opts.APIVersion = defaultAPIVersion
	}

	scheme := "http"
	port := opts.Port
	if opts.HTTPS {
		scheme = "https"
		if port == 0 {
			port = 443
		}
	} else if port == 0 {
		port = 80
	}

	transport := opts.Transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if opts.HTTPS && !opts.ValidateCerts {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via validate_certs=false
		}
		transport = t
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &HTTPClient{
		endpoint: fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(opts.Hostname, strconv.Itoa(port)), servletPath),
		opts:     opts,
		http:     &http.Client{Transport: transport, Timeout: opts.Timeout},
		log:      log,
	}, nil
}

// Endpoint returns the servlet URL requests are posted to.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Query implements Client.
func (c *HTTPClient) Query(ctx context.Context, q Query) ([]*Element, error) {
	results, err := c.send(ctx, QueryElement(q), q.Routing)
	if err != nil {
		return nil, err
	}
	return QueryRecords(q.Kind, results)
}

// Invoke implements Client.
func (c *HTTPClient) Invoke(ctx context.Context, op string, params Params, routing Routing) error {
	_, err := c.send(ctx, NewElementWithChildren(op, params), routing)
	return err
}

func (c *HTTPClient) send(ctx context.Context, api *Element, routing Routing) (*Element, error) {
	vfiler := ""
	if routing == Tunneled {
		if c.opts.Vserver == "" {
			return nil, fmt.Errorf("%s: tunneled call requires a vserver", api.Name)
		}
		vfiler = c.opts.Vserver
	}

	body, err := EncodeRequest(c.opts.APIVersion, vfiler, api)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	if c.opts.Username != "" {
		req.SetBasicAuth(c.opts.Username, c.opts.Password)
	}

	c.log.ForCall(api.Name, routing.String()).Debug("sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", api.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected HTTP status %d", api.Name, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", api.Name, err)
	}
	return DecodeResponse(api.Name, data)
}

// EncodeRequest wraps api in the netapp envelope. A non-empty vfiler tunnels
// the call into that vserver.
func EncodeRequest(version, vfiler string, api *Element) ([]byte, error) {
	envelope := NewElement("netapp").AddChild(api)
	envelope.SetAttr("version", version)
	envelope.SetAttr("xmlns", apiNamespace)
	if vfiler != "" {
		envelope.SetAttr("vfiler", vfiler)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(doctype)
	if err := xml.NewEncoder(&buf).Encode(envelope); err != nil {
		return nil, fmt.Errorf("encode %s: %w", api.Name, err)
	}
	return buf.Bytes(), nil
}

// DecodeResponse parses the envelope and returns its <results> element, or an
// *APIError when the control plane reported a failure.
func DecodeResponse(op string, data []byte) (*Element, error) {
	var envelope Element
	if err := xml.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}

	results := envelope.Child("results")
	if results == nil {
		return nil, fmt.Errorf("%s: response has no results element", op)
	}

	switch results.Attr("status") {
	case "passed":
		return results, nil
	case "failed":
		return nil, &APIError{Operation: op, Errno: results.Attr("errno"), Reason: results.Attr("reason")}
	default:
		return nil, fmt.Errorf("%s: unexpected results status %q", op, results.Attr("status"))
	}
}
