package service

import (
	"context"
	"time"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/repository"
	"github.com/dom/tienda-api/internal/storage"
	"github.com/dom/tienda-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// imageDir is where product images live inside the file store.
const imageDir = "productos"

type ProductService struct {
	productRepo repository.ProductRepository
	files       storage.FileStore
}

func NewProductService(productRepo repository.ProductRepository, files storage.FileStore) *ProductService {
	return &ProductService{productRepo: productRepo, files: files}
}

func productSchema() validation.Schema {
	return validation.Schema{
		"nombre":      {validation.Required, validation.String, validation.Max(100)},
		"descripcion": {validation.String},
		"precio":      {validation.Required, validation.Numeric},
		"stock":       {validation.Required, validation.Integer},
		"imagen": {validation.Image, validation.Mimes("jpeg", "png", "jpg", "gif"),
			validation.MaxSize(2048)},
	}
}

// List returns every product, or only those whose nombre or descripcion
// contains the search term, case-insensitively.
func (s *ProductService) List(ctx context.Context, buscar string) ([]*domain.Product, error) {
	if buscar == "" {
		return s.productRepo.List(ctx)
	}
	return s.productRepo.SearchByContains(ctx, buscar)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in *validation.Input) (*domain.Product, error) {
	fieldErrs, err := validation.Validate(ctx, in, productSchema())
	if err != nil {
		return nil, err
	}
	if fieldErrs != nil {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Nombre:      in.String("nombre"),
		Descripcion: in.String("descripcion"),
		Precio:      in.Float("precio"),
		Stock:       in.Int("stock"),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if fh, ok := in.File("imagen"); ok {
		path, err := s.files.Save(ctx, imageDir, fh)
		if err != nil {
			return nil, err
		}
		product.ImagePath = path
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update re-validates the full schema and, when a replacement image is
// uploaded, stores the new file before deleting the old one. A crash
// between the two steps leaks a file rather than leaving the record
// pointing at nothing; a failed delete is logged and does not fail the
// request.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in *validation.Input) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fieldErrs, err := validation.Validate(ctx, in, productSchema())
	if err != nil {
		return nil, err
	}
	if fieldErrs != nil {
		return nil, &domain.ValidationError{Fields: fieldErrs}
	}

	product.Nombre = in.String("nombre")
	product.Precio = in.Float("precio")
	product.Stock = in.Int("stock")
	if in.Has("descripcion") {
		product.Descripcion = in.String("descripcion")
	}

	if fh, ok := in.File("imagen"); ok {
		path, err := s.files.Save(ctx, imageDir, fh)
		if err != nil {
			return nil, err
		}
		old := product.ImagePath
		product.ImagePath = path
		if old != "" {
			if err := s.files.Delete(ctx, old); err != nil {
				log.Warn().Err(err).Str("path", old).Msg("failed to delete replaced product image")
			}
		}
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the product and its stored image.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if product.ImagePath != "" {
		if err := s.files.Delete(ctx, product.ImagePath); err != nil {
			log.Warn().Err(err).Str("path", product.ImagePath).Msg("failed to delete product image")
		}
	}
	return nil
}
