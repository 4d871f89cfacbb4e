package specialbilling_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heliogen/internal/config"
	"heliogen/internal/domain"
	"heliogen/internal/registry/specialbilling"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *specialbilling.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return specialbilling.NewClient(&config.RegistryConfig{SpecialBillingBaseURL: srv.URL})
}

func TestExportedKWh(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/exports/PL-B/2024/3", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"exported_kwh":200.5}}`))
	})

	exported, err := c.ExportedKWh(context.Background(), "PL-B", 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 200.5, exported)
}

func TestExportedKWh_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.ExportedKWh(context.Background(), "PL-B", 2024, 3)
	assert.ErrorIs(t, err, domain.ErrExportDataUnavailable)
}

func TestExportedKWh_UnsuccessfulEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false}`))
	})

	_, err := c.ExportedKWh(context.Background(), "PL-B", 2024, 3)
	assert.ErrorIs(t, err, domain.ErrExportDataUnavailable)
}
