// Package core provides the business logic of the inventory-and-sales
// backend: product catalog operations and the sales import pipeline.
package core

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"vendas-backend/internal/logging"
)

// Service implements the catalog and import operations on top of the
// store contracts. The store handles are passed in explicitly; there is
// no ambient global connection.
type Service struct {
	products ProductStore
	sales    SaleStore
	users    UserStore
	validate *validator.Validate
}

// NewService creates a Service over the given stores.
func NewService(products ProductStore, sales SaleStore, users UserStore) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field names as they appear on the wire
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		products: products,
		sales:    sales,
		users:    users,
		validate: v,
	}
}

// CreateProduct validates the input in a single pass and inserts the
// product. On validation failure nothing is written.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, asValidationError(err)
	}

	p := &Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Stock:       in.Stock,
	}

	id, err := s.products.Insert(ctx, p)
	if err != nil {
		return nil, &StorageError{Op: "insert product", Err: err}
	}

	logging.FromContext(ctx).Info("product created", "product_id", id, "name", p.Name)
	return p, nil
}

// GetProduct returns one product by id. A malformed id is ErrInvalidID,
// a well-formed but unknown id is ErrNotFound.
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.products.FindByID(ctx, id)
}

// ListProducts returns the whole catalog.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.products.List(ctx)
}

// UpdateProduct applies a partial patch: only supplied fields change.
// An empty patch is a validation failure, and unknown ids are not
// created implicitly.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	if patch.IsEmpty() {
		return nil, &ValidationError{Fields: []FieldError{
			{Field: "body", Message: "no fields to update"},
		}}
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, asValidationError(err)
	}

	p, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("product updated", "product_id", id)
	return p, nil
}

// DeleteProduct removes a product, reporting ErrNotFound when nothing
// was deleted. There is no soft delete.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("product deleted", "product_id", id)
	return nil
}

// VerifyCredentials checks a username/password pair against the user
// store. The comparison is plain equality, as the stored records are.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if err == ErrNotFound {
			return ErrInvalidCredentials
		}
		return &StorageError{Op: "find user", Err: err}
	}

	if user.Password != password {
		return ErrInvalidCredentials
	}
	return nil
}

// asValidationError converts a validator result into the service's
// field-level error type.
func asValidationError(err error) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

// fieldMessage renders one validator tag as a human-readable message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
