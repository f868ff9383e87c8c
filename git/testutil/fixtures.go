package testutil

// Test user information used across all test helpers.
const (
	// TestAuthor is the default author name for test commits.
	TestAuthor = "Test User"

	// TestEmail is the default email for test commits.
	TestEmail = "test@example.com"
)

// Test content.
const (
	// TestIndexContent is a sample site index page.
	TestIndexContent = "<html><body>index</body></html>\n"

	// TestPomContent is a sample deployed artifact descriptor.
	TestPomContent = "<project><modelVersion>4.0.0</modelVersion></project>\n"
)
