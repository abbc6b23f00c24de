package providers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"paper-search/apperr"
)

// CustomTransport fügt jeder Anfrage einen User-Agent-Header hinzu.
type CustomTransport struct {
	Transport http.RoundTripper
	UserAgent string
}

func (t *CustomTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.UserAgent)
	return t.Transport.RoundTrip(req)
}

// NewHTTPClient erstellt den HTTP-Client für alle Provider-Abrufe.
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &CustomTransport{
			Transport: http.DefaultTransport,
			UserAgent: userAgent,
		},
	}
}

// Get führt einen einzelnen GET auf baseURL mit params aus. Netzwerkfehler
// und Statuscodes außerhalb 2xx werden als FetchError gemeldet.
func Get(ctx context.Context, client *http.Client, op, baseURL string, params url.Values) ([]byte, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, apperr.Fetch(op, 0, err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, apperr.Fetch(op, 0, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, apperr.Fetch(op, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Fetch(op, resp.StatusCode, nil)
	}
	if err != nil {
		return nil, apperr.Fetch(op, 0, err)
	}
	return body, nil
}
