package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/mdr/duck-rewards-website/internal/testutil"
	"github.com/mdr/duck-rewards-website/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHandler_RequiresToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/ws"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// waitForSessionState reads SESSION_STATE frames until one matches the
// predicate. The bootstrapper pushes a frame per state transition, so tests
// wait for the state they care about rather than counting frames.
func waitForSessionState(t *testing.T, client *testutil.WSClient, match func(*websocket.SessionStatePayload) bool) *websocket.SessionStatePayload {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		payload := client.ExpectSessionState(time.Until(deadline))
		if match(payload) {
			return payload
		}
	}
	t.Fatal("never received the expected session state")
	return nil
}

func TestWebSocketHandler_SessionLifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().
		WithEmail("tab@example.com").
		WithProfile("Pat", "Lee", "5551234567", "62701").
		BuildAndAuthenticate(t, ts)

	client := testutil.NewWSClient(t, ts.WebSocketURL(token))

	// Connecting resolves the session and pushes it down.
	state := waitForSessionState(t, client, func(p *websocket.SessionStatePayload) bool {
		return !p.Session.Loading && p.Session.Profile != nil
	})
	require.NotNil(t, state.Session.Identity)
	assert.Equal(t, user.ID, state.Session.Identity.ID)
	assert.True(t, state.ProfileComplete)

	// An explicit sync returns the same settled state.
	client.SyncSession()
	state = waitForSessionState(t, client, func(p *websocket.SessionStatePayload) bool {
		return !p.Session.Loading && p.Session.Identity != nil
	})
	assert.Equal(t, user.ID, state.Session.Identity.ID)

	// Signing out empties the session for this tab.
	client.SignOut()
	state = waitForSessionState(t, client, func(p *websocket.SessionStatePayload) bool {
		return p.Session.Identity == nil
	})
	assert.Nil(t, state.Session.Profile)
}

func TestWebSocketHandler_SuspensionSignsTabsOut(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().
		WithEmail("suspendme@example.com").
		BuildAndAuthenticate(t, ts)
	admin, _ := testutil.NewUserBuilder().
		WithEmail("ops@example.com").
		Build(t, ts.DB.DB)

	client := testutil.NewWSClient(t, ts.WebSocketURL(token))
	waitForSessionState(t, client, func(p *websocket.SessionStatePayload) bool {
		return !p.Session.Loading && p.Session.Identity != nil
	})

	// Suspension fans a sign-out through the hub to every connected tab.
	err := ts.Services.Admin.SuspendUser(context.Background(), user.ID, "terms violation", admin.ID)
	require.NoError(t, err)

	state := waitForSessionState(t, client, func(p *websocket.SessionStatePayload) bool {
		return p.Session.Identity == nil
	})
	assert.Nil(t, state.Session.Profile)
}
