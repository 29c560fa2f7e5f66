package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/swipecatalog/internal/client/models"
	"github.com/dmitrijs2005/swipecatalog/internal/netx"
	jsoniter "github.com/json-iterator/go"
)

const (
	listPath = "/api/public/get"
	addPath  = "/api/public/add"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL. A nil
// httpClient means http.DefaultClient.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *HTTPClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+listPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list products: %s: %w", resp.Status, ErrUnexpectedResponse)
	}

	var products []models.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %v: %w", err, ErrUnexpectedResponse)
	}

	models.AssignIDs(products)
	return products, nil
}

type addProductResponse struct {
	Message *string `json:"message"`
}

func (c *HTTPClient) AddProduct(ctx context.Context, in AddProductRequest) (string, error) {
	fields := []netx.FormField{
		{Name: "product_name", Value: in.Name},
		{Name: "product_type", Value: in.Type},
		{Name: "price", Value: in.Price.String()},
		{Name: "tax", Value: in.Tax.String()},
	}

	var files []netx.FormFile
	if len(in.Image) > 0 {
		files = append(files, netx.FormFile{Field: "files[]", FileName: "image.jpg", ContentType: "image/jpeg", Data: in.Image})
	}

	body, contentType, err := netx.MultipartBody(fields, files)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+addPath, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("add product: %s: %w", resp.Status, ErrUnexpectedResponse)
	}

	var out addProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Message == nil {
		return "", fmt.Errorf("add product: no message in response: %w", ErrUnexpectedResponse)
	}

	return *out.Message, nil
}

func (c *HTTPClient) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: %s: %w", resp.Status, ErrUnexpectedResponse)
	}

	return io.ReadAll(resp.Body)
}

// Ping succeeds when the API host answers at all; any HTTP status counts.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+listPath, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapError(err)
	}
	_ = resp.Body.Close()

	return nil
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
