package admin

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/efojunior25/Notrya-Catalogo/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const MaxImageSize = 5 * 1024 * 1024

var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var ErrInvalidImage = errors.New("invalid image")

// ValidationError maps form fields (by JSON name) to the failed rule.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, rule))
	}
	return "invalid product: " + strings.Join(parts, ", ")
}

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// prices are compared as float; two decimal places are well inside
	// float64 precision
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	for tag, allowed := range map[string][]string{
		"product_category": domain.ProductCategories,
		"product_size":     domain.ProductSizes,
		"product_color":    domain.ProductColors,
		"product_gender":   domain.ProductGenders,
	} {
		allowed := allowed
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return contains(allowed, fl.Field().String())
		})
	}
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Field()] = rule
	}
	return &ValidationError{Fields: fields}
}

// ValidateImage checks an upload before it is sent.
func ValidateImage(contentType string, size int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	if size > MaxImageSize {
		return fmt.Errorf("%w: file larger than 5MB", ErrInvalidImage)
	}
	if !contains(AllowedImageTypes, strings.ToLower(contentType)) {
		return fmt.Errorf("%w: unsupported type %q", ErrInvalidImage, contentType)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
