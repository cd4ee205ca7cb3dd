package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/dom/tienda-api/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ValidPassword satisfies every registration rule (length plus all four
// character classes).
const ValidPassword = "Abcd123!"

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	name     string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		name:     "Test User",
		email:    fmt.Sprintf("test_%s@example.com", suffix),
		password: ValidPassword,
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:            uuid.New(),
		Username:      b.username,
		Name:          b.name,
		Email:         b.email,
		PasswordHash:  string(hashedPassword),
		AcceptedTerms: true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// RegisterPayload returns the builder's fields as a valid register request body
func (b *UserBuilder) RegisterPayload() map[string]any {
	return map[string]any{
		"username":              b.username,
		"name":                  b.name,
		"email":                 b.email,
		"password":              b.password,
		"password_confirmation": b.password,
		"terms":                 true,
	}
}

// AuthResponse matches the API register response
type AuthResponse struct {
	Message     string      `json:"message"`
	User        domain.User `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
}

// BuildAndAuthenticate registers the user via the API and returns the user
// and a live bearer token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	body, _ := json.Marshal(b.RegisterPayload())
	resp, err := http.Post(ts.URL("/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status code %d: %s", resp.StatusCode, payload)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return &authResp.User, authResp.AccessToken
}

// ProductBuilder creates test products
type ProductBuilder struct {
	nombre      string
	descripcion string
	precio      float64
	stock       int
	imagePath   string
}

// NewProductBuilder creates a new ProductBuilder with default values
func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		nombre:      fmt.Sprintf("Producto %s", uuid.New().String()[:8]),
		descripcion: "descripcion de prueba",
		precio:      9.99,
		stock:       5,
	}
}

// WithNombre sets the product name
func (b *ProductBuilder) WithNombre(nombre string) *ProductBuilder {
	b.nombre = nombre
	return b
}

// WithDescripcion sets the description
func (b *ProductBuilder) WithDescripcion(descripcion string) *ProductBuilder {
	b.descripcion = descripcion
	return b
}

// WithPrecio sets the price
func (b *ProductBuilder) WithPrecio(precio float64) *ProductBuilder {
	b.precio = precio
	return b
}

// WithStock sets the stock count
func (b *ProductBuilder) WithStock(stock int) *ProductBuilder {
	b.stock = stock
	return b
}

// WithImagePath sets the stored image path
func (b *ProductBuilder) WithImagePath(path string) *ProductBuilder {
	b.imagePath = path
	return b
}

// Build creates the product in the database
func (b *ProductBuilder) Build(t *testing.T, db *gorm.DB) *domain.Product {
	t.Helper()

	product := &domain.Product{
		ID:          uuid.New(),
		Nombre:      b.nombre,
		Descripcion: b.descripcion,
		Precio:      b.precio,
		Stock:       b.stock,
		ImagePath:   b.imagePath,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	return product
}

// FileHeader fabricates an upload the way a parsed multipart request would
// deliver it, so services and rules can be exercised without HTTP
func FileHeader(t *testing.T, fileName, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="imagen"; filename="%s"`, fileName))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create file part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write file content: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to finalize multipart body: %v", err)
	}

	reader := multipart.NewReader(&buf, mw.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	fhs := form.File["imagen"]
	if len(fhs) != 1 {
		t.Fatalf("expected one file header, got %d", len(fhs))
	}
	return fhs[0]
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// CreateMultipartRequest builds a multipart request from form fields plus an
// optional file part named "imagen"
func CreateMultipartRequest(t *testing.T, method, url string, fields map[string]string, fileName, fileContentType string, fileContent []byte, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for field, value := range fields {
		if err := mw.WriteField(field, value); err != nil {
			t.Fatalf("failed to write field %s: %v", field, err)
		}
	}

	if fileName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="imagen"; filename="%s"`, fileName))
		header.Set("Content-Type", fileContentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("failed to write file content: %v", err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatalf("failed to finalize multipart body: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
