package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/efojunior25/Notrya-Catalogo/internal/apiclient"
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/efojunior25/Notrya-Catalogo/internal/metrics"
	"github.com/efojunior25/Notrya-Catalogo/internal/patterns"
	"golang.org/x/sync/singleflight"
)

var ErrProductNotFound = errors.New("product not found")

// Query selects one catalog page. Filters left empty are not sent.
type Query struct {
	Search string
	Page   int
	Size   int

	Category string
	Gender   string
	Color    string
	SizeTag  string
	Brand    string
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	v.Set("search", q.Search)
	for key, value := range map[string]string{
		"category": q.Category,
		"gender":   q.Gender,
		"color":    q.Color,
		"sizeTag":  q.SizeTag,
		"brand":    q.Brand,
	} {
		if value != "" {
			v.Set(key, value)
		}
	}
	return v
}

// Client reads the product catalog. Identical concurrent page requests
// share one backend call.
type Client struct {
	api             *apiclient.Client
	pageBreaker     *patterns.CircuitBreaker[domain.ProductPage]
	productBreaker  *patterns.CircuitBreaker[domain.Product]
	group           singleflight.Group
	defaultPageSize int
	maxPageSize     int
}

func NewClient(api *apiclient.Client, defaultPageSize, maxPageSize int) *Client {
	return &Client{
		api:             api,
		pageBreaker:     patterns.NewCircuitBreaker[domain.ProductPage]("catalog-pages", clientErrorsSucceed),
		productBreaker:  patterns.NewCircuitBreaker[domain.Product]("catalog-products", clientErrorsSucceed),
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// FetchPage returns one page of products. Page below zero is treated as 0;
// Size is clamped to [1, maxPageSize] with 0 meaning the default size.
func (c *Client) FetchPage(ctx context.Context, q Query) (domain.ProductPage, error) {
	q = c.normalize(q)
	key := q.values().Encode()
	start := time.Now()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		page, err := c.pageBreaker.Execute(func() (domain.ProductPage, error) {
			var page domain.ProductPage
			resp, err := c.api.R(ctx).
				SetQueryParamsFromValues(q.values()).
				SetResult(&page).
				Get("/products")
			if err != nil {
				return domain.ProductPage{}, fmt.Errorf("failed to fetch products: %w", err)
			}
			if err := apiclient.CheckResponse(resp); err != nil {
				return domain.ProductPage{}, err
			}
			if page.Content == nil {
				page.Content = []domain.Product{}
			}
			return page, nil
		})
		return page, err
	})

	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.CatalogFetchDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

	if err != nil {
		return domain.ProductPage{}, err
	}
	return v.(domain.ProductPage), nil
}

// GetProduct resolves one product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	product, err := c.productBreaker.Execute(func() (domain.Product, error) {
		var p domain.Product
		resp, err := c.api.R(ctx).
			SetResult(&p).
			Get("/products/" + strconv.FormatInt(id, 10))
		if err != nil {
			return domain.Product{}, fmt.Errorf("failed to fetch product %d: %w", id, err)
		}
		if err := apiclient.CheckResponse(resp); err != nil {
			return domain.Product{}, err
		}
		return p, nil
	})
	if apiclient.StatusCode(err) == http.StatusNotFound {
		return domain.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return product, err
}

func (c *Client) normalize(q Query) Query {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = c.defaultPageSize
	}
	if c.maxPageSize > 0 && q.Size > c.maxPageSize {
		q.Size = c.maxPageSize
	}
	return q
}

func clientErrorsSucceed(err error) bool {
	return err == nil || apiclient.IsClientError(err)
}
