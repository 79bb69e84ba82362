package ports_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/madevisual/chessdash/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainSuffixes(t *testing.T) {
	t.Parallel()

	t.Run("rejects malformed suffixes", func(t *testing.T) {
		t.Parallel()
		_, err := ports.NewDomainSuffixes(".example.com")
		require.Error(t, err)
		_, err = ports.NewDomainSuffixes("https://example.com")
		require.Error(t, err)
	})

	t.Run("matching", func(t *testing.T) {
		t.Parallel()
		suffixes, err := ports.NewDomainSuffixes("example.com")
		require.NoError(t, err)

		assert.True(t, suffixes.AnyMatch("https://example.com"))
		assert.True(t, suffixes.AnyMatch("https://app.example.com"))
		assert.False(t, suffixes.AnyMatch("http://example.com"), "plain http is not allowed")
		assert.False(t, suffixes.AnyMatch("https://example.com.evil.com"))
		assert.False(t, suffixes.AnyMatch(""))
	})
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	suffixes, err := ports.NewDomainSuffixes("example.com")
	require.NoError(t, err)

	handler := ports.BuildCORSMiddleware(suffixes)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed origin gets the header", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		handler(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight from allowed origin short-circuits", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("OPTIONS", "/", nil)
		r.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()
		handler(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET,POST", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("disallowed origin gets no header", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Origin", "https://evil.com")
		w := httptest.NewRecorder()
		handler(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
