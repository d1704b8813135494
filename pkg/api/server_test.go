package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stride-app/stride/pkg/auth"
	"github.com/stride-app/stride/pkg/events"
	"github.com/stride-app/stride/pkg/manager"
	"github.com/stride-app/stride/pkg/storage"
)

// testServer bundles the collaborators handler tests poke at directly.
type testServer struct {
	server   *Server
	registry *events.Registry
	auth     *auth.Authenticator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	registry := events.NewRegistry()
	authn := auth.NewAuthenticator("test-secret", time.Hour)

	server := NewServer(Config{
		Manager:           manager.NewManager(store, events.NewDispatcher(registry)),
		Registry:          registry,
		Authenticator:     authn,
		HeartbeatInterval: 50 * time.Millisecond,
	})

	return &testServer{server: server, registry: registry, auth: authn}
}

func (ts *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := ts.auth.Issue(userID)
	require.NoError(t, err)
	return token
}
