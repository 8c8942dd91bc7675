package admin

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/efojunior25/Notrya-Catalogo/internal/apiclient"
	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// ProductForm is the payload for creating or editing a product.
type ProductForm struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price" validate:"gte=0.01"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,product_category"`
	Size        string          `json:"size" validate:"required,product_size"`
	Color       string          `json:"color" validate:"required,product_color"`
	Brand       string          `json:"brand" validate:"max=80"`
	Material    string          `json:"material" validate:"max=100"`
	Gender      string          `json:"gender" validate:"required,product_gender"`
	ImageURL    string          `json:"imageUrl" validate:"max=500"`
}

type ImageUploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Error    string `json:"error,omitempty"`
}

// Client manages the catalog on behalf of an administrator. The backend
// authorizes every call with the session token.
type Client struct {
	api      *apiclient.Client
	validate *validator.Validate
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api, validate: newValidator()}
}

// Validate checks form without sending it.
func (c *Client) Validate(form ProductForm) error {
	if err := c.validate.Struct(form); err != nil {
		return validationError(err)
	}
	return nil
}

func (c *Client) CreateProduct(ctx context.Context, form ProductForm) (domain.Product, error) {
	if err := c.Validate(form); err != nil {
		return domain.Product{}, err
	}

	var product domain.Product
	resp, err := c.api.R(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(form).
		SetResult(&product).
		Post("/admin/products")
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	if err := apiclient.CheckResponse(resp); err != nil {
		return domain.Product{}, err
	}

	log.WithFields(log.Fields{"product_id": product.ID, "name": product.Name}).Info("product created")
	return product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, form ProductForm) (domain.Product, error) {
	if err := c.Validate(form); err != nil {
		return domain.Product{}, err
	}

	var product domain.Product
	resp, err := c.api.R(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(form).
		SetResult(&product).
		Put("/admin/products/" + strconv.FormatInt(id, 10))
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	if err := apiclient.CheckResponse(resp); err != nil {
		return domain.Product{}, err
	}

	log.WithField("product_id", id).Info("product updated")
	return product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	resp, err := c.api.R(ctx).Delete("/admin/products/" + strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if err := apiclient.CheckResponse(resp); err != nil {
		return err
	}

	log.WithField("product_id", id).Info("product deleted")
	return nil
}

// UploadImage sends one image as multipart field "file".
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, size int64, r io.Reader) (ImageUploadResponse, error) {
	if err := ValidateImage(contentType, size); err != nil {
		return ImageUploadResponse{}, err
	}

	var out ImageUploadResponse
	resp, err := c.api.R(ctx).
		SetMultipartField("file", filename, contentType, r).
		SetResult(&out).
		Post("/upload/image")
	if err != nil {
		return ImageUploadResponse{}, fmt.Errorf("failed to upload image: %w", err)
	}
	if err := apiclient.CheckResponse(resp); err != nil {
		return ImageUploadResponse{}, err
	}
	return out, nil
}

func (c *Client) DeleteImage(ctx context.Context, filename string) error {
	resp, err := c.api.R(ctx).Delete("/upload/image/" + url.PathEscape(filename))
	if err != nil {
		return fmt.Errorf("failed to delete image %q: %w", filename, err)
	}
	return apiclient.CheckResponse(resp)
}
