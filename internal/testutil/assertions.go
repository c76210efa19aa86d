package testutil

import (
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

// ReadBody reads and returns the whole response body
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	return string(body)
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")
	// Error responses are plain text
	assert.Contains(t, ReadBody(t, resp), expectedMessage, "error message mismatch")
}

// AssertRedirect verifies a 303 to location
func AssertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "unexpected status code")
	assert.Equal(t, location, resp.Header.Get("Location"), "unexpected redirect target")
}

// AssertNoSessionCookie verifies resp did not set the session cookie
func AssertNoSessionCookie(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Nil(t, SessionCookie(resp), "unexpected session cookie")
}
