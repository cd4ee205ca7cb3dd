package handlers_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dom/tienda-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productJSON struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion string  `json:"descripcion"`
	Precio      float64 `json:"precio"`
	Stock       int     `json:"stock"`
	Imagen      *string `json:"imagen"`
}

func storedPath(t *testing.T, ts *testutil.TestServer, imagen *string) string {
	t.Helper()
	require.NotNil(t, imagen)
	prefix := ts.Config.PublicURL + "/storage/"
	require.True(t, strings.HasPrefix(*imagen, prefix), "imagen %q is not a public URL", *imagen)
	return strings.TrimPrefix(*imagen, prefix)
}

func TestProductHandler_StoreWithImage(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	fields := map[string]string{
		"nombre":      "Camiseta",
		"descripcion": "algodon",
		"precio":      "19.90",
		"stock":       "3",
	}
	req := testutil.CreateMultipartRequest(t, http.MethodPost, ts.URL("/productos"),
		fields, "foto.png", "image/png", []byte("png bytes"), token)
	resp := doRequest(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var product productJSON
	testutil.AssertJSONResponse(t, resp, &product)
	assert.Equal(t, "Camiseta", product.Nombre)
	assert.Equal(t, 19.90, product.Precio)
	assert.Equal(t, 3, product.Stock)

	// Clients get a retrievable URL, and the file is really there.
	path := storedPath(t, ts, product.Imagen)
	_, err := os.Stat(filepath.Join(ts.StorageDir, filepath.FromSlash(path)))
	assert.NoError(t, err)
}

func TestProductHandler_StoreWithoutImage(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	payload := map[string]any{"nombre": "Gorra", "precio": 9.5, "stock": 12}
	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.URL("/productos"), payload, token)
	resp := doRequest(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var product productJSON
	testutil.AssertJSONResponse(t, resp, &product)
	assert.Nil(t, product.Imagen)
}

func TestProductHandler_StoreValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name       string
		payload    map[string]any
		wantFields []string
	}{
		{
			name:       "missing everything",
			payload:    map[string]any{},
			wantFields: []string{"nombre", "precio", "stock"},
		},
		{
			name:       "precio not numeric",
			payload:    map[string]any{"nombre": "X", "precio": "mucho", "stock": 1},
			wantFields: []string{"precio"},
		},
		{
			name:       "fractional stock",
			payload:    map[string]any{"nombre": "X", "precio": 1.5, "stock": 1.5},
			wantFields: []string{"stock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.URL("/productos"), tt.payload, token)
			resp := doRequest(t, req)
			testutil.AssertValidationError(t, resp, tt.wantFields...)
		})
	}

	t.Run("rejected upload", func(t *testing.T) {
		fields := map[string]string{"nombre": "X", "precio": "1", "stock": "1"}
		req := testutil.CreateMultipartRequest(t, http.MethodPost, ts.URL("/productos"),
			fields, "doc.pdf", "application/pdf", []byte("pdf"), token)
		resp := doRequest(t, req)
		testutil.AssertValidationError(t, resp, "imagen")
	})
}

func TestProductHandler_IndexWithBuscar(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	testutil.NewProductBuilder().WithNombre("Polera abc roja").Build(t, ts.DB.DB)
	testutil.NewProductBuilder().WithNombre("Gorra").WithDescripcion("serie ABC edicion limitada").Build(t, ts.DB.DB)
	testutil.NewProductBuilder().WithNombre("Zapatilla").WithDescripcion("urbana").Build(t, ts.DB.DB)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.URL("/productos?buscar=abc"), nil, token)
	resp := doRequest(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var filtered []productJSON
	testutil.AssertJSONResponse(t, resp, &filtered)
	names := make([]string, 0, len(filtered))
	for _, p := range filtered {
		names = append(names, p.Nombre)
	}
	assert.ElementsMatch(t, []string{"Polera abc roja", "Gorra"}, names)

	// No filter returns everything.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.URL("/productos"), nil, token)
	resp = doRequest(t, req)
	var all []productJSON
	testutil.AssertJSONResponse(t, resp, &all)
	assert.Len(t, all, 3)
}

func TestProductHandler_UpdateReplacesImage(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	create := testutil.CreateMultipartRequest(t, http.MethodPost, ts.URL("/productos"),
		map[string]string{"nombre": "Taza", "precio": "5", "stock": "20"},
		"original.png", "image/png", []byte("old image"), token)
	resp := doRequest(t, create)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created productJSON
	testutil.AssertJSONResponse(t, resp, &created)
	oldPath := storedPath(t, ts, created.Imagen)

	update := testutil.CreateMultipartRequest(t, http.MethodPut, ts.URL("/productos/"+created.ID),
		map[string]string{"nombre": "Taza grande", "precio": "6", "stock": "20"},
		"nueva.jpg", "image/jpeg", []byte("new image"), token)
	resp = doRequest(t, update)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var updated productJSON
	testutil.AssertJSONResponse(t, resp, &updated)
	newPath := storedPath(t, ts, updated.Imagen)

	assert.NotEqual(t, oldPath, newPath)
	_, err := os.Stat(filepath.Join(ts.StorageDir, filepath.FromSlash(newPath)))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(ts.StorageDir, filepath.FromSlash(oldPath)))
	assert.True(t, os.IsNotExist(err), "replaced image should be deleted")
}

func TestProductHandler_ShowAndDestroy(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	product := testutil.NewProductBuilder().WithNombre("Llavero").Build(t, ts.DB.DB)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.URL("/productos/"+product.ID.String()), nil, token)
	resp := doRequest(t, req)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var got productJSON
	testutil.AssertJSONResponse(t, resp, &got)
	assert.Equal(t, "Llavero", got.Nombre)

	req = testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.URL("/productos/"+product.ID.String()), nil, token)
	testutil.AssertStatusCode(t, doRequest(t, req), http.StatusOK)

	req = testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.URL("/productos/"+product.ID.String()), nil, token)
	testutil.AssertStatusCode(t, doRequest(t, req), http.StatusNotFound)

	req = testutil.CreateAuthenticatedRequest(t, http.MethodDelete, ts.URL("/productos/"+product.ID.String()), nil, token)
	testutil.AssertStatusCode(t, doRequest(t, req), http.StatusNotFound)
}
