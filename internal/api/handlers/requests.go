package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dom/tienda-api/internal/validation"
)

// maxUploadBytes bounds multipart parsing memory; the 2MB image limit is
// enforced by the validation schema, not here.
const maxUploadBytes = 8 << 20

// decodeInput turns a JSON or multipart body into a validation input.
// Multipart carries product uploads; everything else is JSON.
func decodeInput(r *http.Request) (*validation.Input, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, err
		}
		values := map[string]any{}
		for field, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				values[field] = v[0]
			}
		}
		in := validation.NewInput(values)
		for field, fhs := range r.MultipartForm.File {
			if len(fhs) > 0 {
				in.SetFile(field, fhs[0])
			}
		}
		return in, nil
	}

	values := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return validation.NewInput(values), nil
}
