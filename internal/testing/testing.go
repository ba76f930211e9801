// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/stride/internal/models"
)

// MockExchanger is a test double for [services.Exchanger]
type MockExchanger struct {
	Token models.AccessToken
	Err   error
	Calls int
}

func (m *MockExchanger) Exchange(ctx context.Context, creds models.Credentials) (models.AccessToken, error) {
	m.Calls++
	return m.Token, m.Err
}

// MockActivityClient is a test double for [services.ActivityClient]
type MockActivityClient struct {
	Runs      []models.ActivitySummaryRef
	ListErr   error
	Detail    *models.ActivityDetail
	DetailErr error

	ListCalls   int
	DetailCalls int
	LastToken   models.AccessToken
	LastID      string
}

func (m *MockActivityClient) ListRecent(ctx context.Context, token models.AccessToken, limit int) ([]models.ActivitySummaryRef, error) {
	m.ListCalls++
	m.LastToken = token
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	runs := m.Runs
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MockActivityClient) GetDetail(ctx context.Context, activityID string, token models.AccessToken) (*models.ActivityDetail, error) {
	m.DetailCalls++
	m.LastToken = token
	m.LastID = activityID
	return m.Detail, m.DetailErr
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Ptr returns a pointer to v, for building fixtures with optional fields.
func Ptr[T any](v T) *T {
	return &v
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
