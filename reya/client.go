package reya

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http_tls "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/pkg/errors"

	"github.com/WhereIsMyMindDL/ReyaOGClaimer/config"
)

// ErrNetwork wraps connection failures and timeouts.
var ErrNetwork = errors.New("network error")

// HTTPError is returned for non 2xx responses.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// DecodeError is returned when a response body is not the expected JSON.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error parsing response: %v, response: %s", e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Client talks to the Reya API through one browser-profiled connection pool,
// optionally behind a forward proxy. Retries are left to callers.
type Client struct {
	http    tls_client.HttpClient
	baseURL string
	cfg     config.APIConfig
}

// NormalizeProxy prepends http:// to proxies given as user:pass@host:port.
func NormalizeProxy(proxy string) string {
	proxy = strings.TrimSpace(proxy)
	if proxy == "" || strings.Contains(proxy, "://") {
		return proxy
	}
	return "http://" + proxy
}

func NewClient(cfg config.APIConfig, proxy string) (*Client, error) {
	profile, ok := profiles.MappedTLSClients[cfg.ClientProfile]
	if !ok {
		profile = profiles.Chrome_120
	}

	timeout := int(cfg.Timeout / time.Second)
	if timeout < 1 {
		timeout = 30
	}

	jar := tls_client.NewCookieJar()
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(timeout),
		tls_client.WithClientProfile(profile),
		tls_client.WithNotFollowRedirects(),
		tls_client.WithCookieJar(jar),
	}
	if proxy = NormalizeProxy(proxy); proxy != "" {
		options = append(options, tls_client.WithProxyUrl(proxy))
	}

	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, errors.Wrap(err, "error creating tls client")
	}

	return &Client{
		http:    client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		cfg:     cfg,
	}, nil
}

// Do sends body as JSON to path and decodes the response into out.
// A nil out only checks the status.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed on encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http_tls.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	c.setHeaders(req, body != nil)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(ErrNetwork, "%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	bodyText, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(ErrNetwork, "read %s %s: %v", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, Body: string(bodyText)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyText, out); err != nil {
		return &DecodeError{Body: string(bodyText), Err: err}
	}
	return nil
}

func (c *Client) setHeaders(req *http_tls.Request, hasBody bool) {
	req.Header.Set("accept", "application/json, text/plain, */*")
	req.Header.Set("accept-language", "en-US,en;q=0.9,ru;q=0.8")
	if hasBody {
		req.Header.Set("content-type", "application/json")
	}
	req.Header.Set("origin", c.cfg.Origin)
	req.Header.Set("referer", c.cfg.Referer)
	req.Header.Set("sec-ch-ua", `"Not/A)Brand";v="8", "Chromium";v="126", "Google Chrome";v="126"`)
	req.Header.Set("sec-ch-ua-mobile", "?0")
	req.Header.Set("sec-ch-ua-platform", `"Windows"`)
	req.Header.Set("sec-fetch-dest", "empty")
	req.Header.Set("sec-fetch-mode", "cors")
	req.Header.Set("sec-fetch-site", "cross-site")
	req.Header.Set("user-agent", c.cfg.UserAgent)

	req.Header[http_tls.HeaderOrderKey] = []string{
		"accept",
		"accept-language",
		"content-type",
		"origin",
		"referer",
		"sec-ch-ua",
		"sec-ch-ua-mobile",
		"sec-ch-ua-platform",
		"sec-fetch-dest",
		"sec-fetch-mode",
		"sec-fetch-site",
		"user-agent",
	}
}
