package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// ValidationErrors is the body shape of a 422 response
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

// AssertValidationError verifies a 422 response that flags the given fields
func AssertValidationError(t *testing.T, resp *http.Response, fields ...string) {
	t.Helper()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "unexpected status code")

	var body ValidationErrors
	AssertJSONResponse(t, resp, &body)
	for _, field := range fields {
		assert.Contains(t, body.Errors, field, "field %s not flagged", field)
	}
}
