package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product keeps the Spanish field names of the public API it serves
// (nombre, descripcion, precio, stock, imagen).
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Nombre      string    `json:"nombre" gorm:"size:100;not null"`
	Descripcion string    `json:"descripcion"`
	Precio      float64   `json:"precio" gorm:"not null"`
	Stock       int       `json:"stock" gorm:"not null"`
	// ImagePath is the store-relative path of the uploaded image, empty when
	// the product has none. Handlers expose it as a public URL, never raw.
	ImagePath string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
