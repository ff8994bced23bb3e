package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omriShneor/calendrix/internal/agent"
	"github.com/omriShneor/calendrix/internal/assistant"
	"github.com/omriShneor/calendrix/internal/database"
	"github.com/omriShneor/calendrix/internal/gcal"
	"github.com/omriShneor/calendrix/internal/server"
)

// TestServer wraps a server for E2E testing
type TestServer struct {
	Server     *server.Server
	Assistant  *assistant.Service
	DB         *database.DB
	HTTPServer *httptest.Server
	t          *testing.T

	Oracle   agent.Oracle
	Calendar *MockCalendar
}

// TestServerOption configures a test server
type TestServerOption func(*TestServer)

// WithOracle replaces the deterministic demo policy
func WithOracle(oracle agent.Oracle) TestServerOption {
	return func(ts *TestServer) {
		ts.Oracle = oracle
	}
}

// NewTestServer creates a fully wired server on an in-memory database.
// Dialogue runs on the demo policy at Friday and events go to a MockCalendar.
func NewTestServer(t *testing.T, opts ...TestServerOption) *TestServer {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err, "failed to create test database")

	ts := &TestServer{
		DB:       db,
		Oracle:   agent.NewPolicy(FridayClock()),
		Calendar: NewMockCalendar(),
		t:        t,
	}

	// Apply options before creating server
	for _, opt := range opts {
		opt(ts)
	}

	ts.Assistant = assistant.NewService(assistant.Options{
		Oracle:        ts.Oracle,
		Conversations: database.NewConversationStore(db),
		Materializer:  gcal.NewMaterializer(ts.Calendar, "UTC"),
		Bookings:      db,
		Clock:         FridayClock(),
		Logger:        zap.NewNop(),
	})

	ts.Server = server.New(server.Config{
		DB:         db,
		Assistant:  ts.Assistant,
		CalendarID: "primary",
		Port:       0, // Will use httptest server
	})

	ts.HTTPServer = httptest.NewServer(ts.Server.Handler())

	t.Cleanup(func() {
		ts.HTTPServer.Close()
		db.Close()
	})

	return ts
}

// BaseURL returns the test server base URL
func (ts *TestServer) BaseURL() string {
	return ts.HTTPServer.URL
}

// Client returns an HTTP client that keeps the conversation cookie between requests
func (ts *TestServer) Client() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(ts.t, err)

	client := *ts.HTTPServer.Client()
	client.Jar = jar
	return &client
}
