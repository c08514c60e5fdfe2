package netbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gopkg.in/resty.v1"

	"github.com/cimnine/netbox-sync/metrics"
	"github.com/cimnine/netbox-sync/netbox/models"
)

type Resolver interface {
	Resolve() string
}

type Client struct {
	Config *NetboxConfig
	rest   *resty.Client
}

func NewClient(config *NetboxConfig) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rest := resty.New().
		SetHostURL(apiRoot(config.API.URL)).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Token %s", config.API.Token.Value()))

	return &Client{Config: config, rest: rest}
}

// BaseURL returns the configured NetBox address with a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.Config.API.URL, "/") + "/"
}

// GetPage fetches one page of the collection behind r.
func (c *Client) GetPage(ctx context.Context, r Resolver, limit, offset int) (*models.Page, error) {
	response, err := c.request(ctx, map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	}).Get(r.Resolve())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(http.MethodGet, "error").Inc()
		return nil, fmt.Errorf("GET %s: %w", r.Resolve(), err)
	}
	if !response.IsSuccess() {
		metrics.RequestsTotal.WithLabelValues(http.MethodGet, "error").Inc()
		return nil, &APIError{StatusCode: response.StatusCode(), Body: response.String()}
	}
	metrics.RequestsTotal.WithLabelValues(http.MethodGet, "ok").Inc()

	var page models.Page
	if err := json.Unmarshal(response.Body(), &page); err != nil {
		return nil, fmt.Errorf("decode page of %s: %w", r.Resolve(), err)
	}

	return &page, nil
}

// GetObject fetches a single object by its API URL. Both absolute URLs and
// paths starting with /api/ are accepted.
func (c *Client) GetObject(ctx context.Context, ref string) (models.Object, error) {
	response, err := c.request(ctx, nil).Get(c.referencePath(ref))
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(http.MethodGet, "error").Inc()
		return nil, fmt.Errorf("GET %s: %w", ref, err)
	}
	if !response.IsSuccess() {
		metrics.RequestsTotal.WithLabelValues(http.MethodGet, "error").Inc()
		return nil, &APIError{StatusCode: response.StatusCode(), Body: response.String()}
	}
	metrics.RequestsTotal.WithLabelValues(http.MethodGet, "ok").Inc()

	obj, err := models.DecodeObject(response.Body())
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return obj, nil
}

// Create POSTs obj to the collection behind r. NetBox answers 201, some
// proxies 200; everything else is returned as *APIError.
func (c *Client) Create(ctx context.Context, r Resolver, obj models.Object) (int, error) {
	response, err := c.request(ctx, nil).
		SetBody(obj).
		Post(r.Resolve())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(http.MethodPost, "error").Inc()
		return 0, fmt.Errorf("POST %s: %w", r.Resolve(), err)
	}

	status := response.StatusCode()
	if status != http.StatusOK && status != http.StatusCreated {
		metrics.RequestsTotal.WithLabelValues(http.MethodPost, "error").Inc()
		return status, &APIError{StatusCode: status, Body: response.String()}
	}
	metrics.RequestsTotal.WithLabelValues(http.MethodPost, "ok").Inc()

	return status, nil
}

// Status returns the NetBox version reported by /api/status/.
func (c *Client) Status(ctx context.Context) (string, error) {
	obj, err := c.GetObject(ctx, "status/")
	if err != nil {
		return "", err
	}

	version, _ := obj["netbox-version"].AsString()
	return version, nil
}

func (c *Client) request(ctx context.Context, params map[string]string) *resty.Request {
	r := c.rest.R().SetContext(ctx)
	if len(params) > 0 {
		r.SetQueryParams(params)
	}
	return r
}

func (c *Client) referencePath(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimPrefix(strings.TrimPrefix(ref, "/"), "api/")
}

func apiRoot(url string) string {
	return strings.TrimRight(url, "/") + "/api"
}
