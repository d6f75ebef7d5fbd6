package sanitizer

import "github.com/stretchr/testify/mock"

// MockSanitizer is a testify mock of HTMLStripperer for use in other packages' tests.
type MockSanitizer struct {
	mock.Mock
}

func (m *MockSanitizer) StripHTML(s string) string {
	args := m.Called(s)
	return args.String(0)
}

// NoopStripper passes text through unchanged, for tests that don't assert on
// sanitization itself.
type NoopStripper struct{}

func (NoopStripper) StripHTML(s string) string { return s }
