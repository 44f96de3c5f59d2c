package hamalert_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/hamal/pkg/hamalert"
	"github.com/macropower/hamal/pkg/trigger"
)

func newTestClient(t *testing.T, handler http.Handler) *hamalert.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := hamalert.NewClient("n0call", "hunter2", hamalert.WithBaseURL(srv.URL))
	require.NoError(t, err)

	return c
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	var gotUser, gotPass string

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		require.NoError(t, r.ParseForm())

		gotUser = r.PostFormValue("username")
		gotPass = r.PostFormValue("password")

		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123"})
	}))

	require.NoError(t, c.Login(t.Context()))
	assert.Equal(t, "n0call", gotUser)
	assert.Equal(t, "hunter2", gotPass)
}

func TestClient_Login_Rejected(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	err := c.Login(t.Context())
	require.ErrorIs(t, err, hamalert.ErrLogin)

	var se *hamalert.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	var sawSession bool

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123"})
	})
	mux.HandleFunc("/ajax/triggers", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		sawSession = err == nil && cookie.Value == "abc123"

		_, _ = w.Write([]byte(`[
			{
				"_id": "t1",
				"user_id": "u42",
				"conditions": {"callsign": "W1ABC"},
				"actions": ["app"],
				"comment": "Home",
				"matchCount": 7
			}
		]`))
	})

	c := newTestClient(t, mux)

	require.NoError(t, c.Login(t.Context()))

	got, err := c.Fetch(t.Context())
	require.NoError(t, err)
	require.Len(t, got, 1)

	// The session cookie from login must ride along on the fetch.
	assert.True(t, sawSession)

	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "Home", got[0].Comment)
	assert.Equal(t, uint64(7), got[0].MatchCount)

	callsign, ok := got[0].Conditions.StringField("callsign")
	require.True(t, ok)
	assert.Equal(t, "W1ABC", callsign)
}

func TestClient_Fetch_RemoteError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Fetch(t.Context())

	var se *hamalert.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestClient_Create(t *testing.T) {
	t.Parallel()

	var body map[string]json.RawMessage

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ajax/trigger_update", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, _ = w.Write([]byte(`{"_id": "new1"}`))
	}))

	id, err := c.Create(t.Context(), trigger.Trigger{
		Conditions: trigger.MustNewDocument(map[string]any{"callsign": "W1ABC"}),
		Actions:    []string{"app"},
		Comment:    "Home",
	})
	require.NoError(t, err)
	assert.Equal(t, "new1", id)

	// A create must not carry an _id, and absent options become {}.
	assert.NotContains(t, body, "_id")
	assert.JSONEq(t, `{}`, string(body["options"]))
	assert.JSONEq(t, `{"callsign":"W1ABC"}`, string(body["conditions"]))
}

func TestClient_Create_EmptyResponseBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	id, err := c.Create(t.Context(), trigger.Trigger{
		Conditions: trigger.MustNewDocument(map[string]any{"callsign": "W1ABC"}),
	})
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestClient_Update(t *testing.T) {
	t.Parallel()

	var body map[string]json.RawMessage

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ajax/trigger_update", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	}))

	r := trigger.Remote{
		ID: "t9",
		Trigger: trigger.Trigger{
			Conditions: trigger.MustNewDocument(map[string]any{"callsign": "K2DEF"}),
			Comment:    "Updated",
		},
	}

	require.NoError(t, c.Update(t.Context(), r))
	assert.JSONEq(t, `"t9"`, string(body["_id"]))
}

func TestClient_Delete(t *testing.T) {
	t.Parallel()

	var gotID string

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ajax/trigger_delete", r.URL.Path)
		require.NoError(t, r.ParseForm())

		gotID = r.PostFormValue("id")
	}))

	require.NoError(t, c.Delete(t.Context(), "t3"))
	assert.Equal(t, "t3", gotID)
}

func TestClient_Delete_RemoteError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.Delete(t.Context(), "t3")

	var se *hamalert.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "delete trigger", se.Op)
}
