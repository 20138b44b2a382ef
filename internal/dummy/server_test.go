package dummy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	srv := httptest.NewServer(Handler(ServerConfig{FailureRate: 0}))
	defer srv.Close()

	t.Run("metrics endpoint responds", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("votes tally into results", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			resp, err := http.Post(srv.URL+"/votes", "application/json",
				strings.NewReader(`{"vote_id":"VOTE-0-0","candidate_id":"CAND-1"}`))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}

		resp, err := http.Get(srv.URL + "/results")
		require.NoError(t, err)
		defer resp.Body.Close()

		var counts map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&counts))
		assert.Equal(t, 3, counts["CAND-1"])
	})

	t.Run("vote rejects non-POST", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/votes")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("always failing rate rejects every vote", func(t *testing.T) {
		failing := httptest.NewServer(Handler(ServerConfig{FailureRate: 1.0}))
		defer failing.Close()

		resp, err := http.Post(failing.URL+"/votes", "application/json",
			strings.NewReader(`{"vote_id":"VOTE-0-0","candidate_id":"CAND-1"}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
