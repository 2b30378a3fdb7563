//go:build unit

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}

	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		err := json.Unmarshal(w.Body.Bytes(), targetStruct)
		assert.NoError(t, err, fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String()))
	}
}

func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d", expectedStatus, w.Code))

	var errorResponse struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))

	if expectedErrorMsg != "" {
		assert.Contains(t, errorResponse.Error.Message, expectedErrorMsg)
	}
}

// AssertEqualAsJSON compares want and got through their JSON forms, so DTOs
// and raw maps can be checked against each other.
func AssertEqualAsJSON(t *testing.T, want, got any) {
	t.Helper()

	wantJSON, err := json.Marshal(want)
	assert.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	assert.NoError(t, err)

	var wantAny, gotAny any
	assert.NoError(t, json.Unmarshal(wantJSON, &wantAny))
	assert.NoError(t, json.Unmarshal(gotJSON, &gotAny))

	if diff := cmp.Diff(wantAny, gotAny); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}
