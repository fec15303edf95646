package utils

import (
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

type RestyClient struct {
	client *resty.Client
}

// NewRestyClient builds a client for static assets (covers, inline images)
// that are fetched outside of the browser.
func NewRestyClient(userAgent string) *RestyClient {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", userAgent)
	client.SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests
		})
	client.SetLogger(disableLogger{})
	return &RestyClient{client: client}
}

func (c *RestyClient) R() *resty.Request {
	return c.client.R()
}

// SetTransport replaces the underlying round tripper, mostly for tests.
func (c *RestyClient) SetTransport(transport http.RoundTripper) {
	c.client.SetTransport(transport)
}

type disableLogger struct{}

func (d disableLogger) Errorf(string, ...interface{}) {}
func (d disableLogger) Warnf(string, ...interface{})  {}
func (d disableLogger) Debugf(string, ...interface{}) {}
