package handlers

import (
	"net/http"
	"time"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/dom/tienda-api/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
	publicURL      string
}

func NewProductHandler(productService *service.ProductService, publicURL string) *ProductHandler {
	return &ProductHandler{productService: productService, publicURL: publicURL}
}

// productResponse exposes the stored image as a retrievable URL; the raw
// storage path never leaves the API.
type productResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	Precio      float64   `json:"precio"`
	Stock       int       `json:"stock"`
	Imagen      *string   `json:"imagen"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (h *ProductHandler) toResponse(p *domain.Product) productResponse {
	resp := productResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ImagePath != "" {
		url := h.publicURL + "/storage/" + p.ImagePath
		resp.Imagen = &url
	}
	return resp
}

func (h *ProductHandler) Index(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context(), r.URL.Query().Get("buscar"))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, h.toResponse(p))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *ProductHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.toResponse(product))
}

func (h *ProductHandler) Store(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product, err := h.productService.Create(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.toResponse(product))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return
	}

	in, err := decodeInput(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product, err := h.productService.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.toResponse(product))
}

func (h *ProductHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
