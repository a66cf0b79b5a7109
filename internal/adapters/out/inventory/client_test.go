package inventory

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"fulfillment/internal/core/domain/model/kernel"
)

func Test_HTTPStockClient_ReserveHitsReservationResource(t *testing.T) {
	orderID := kernel.NewUUID()
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewHTTPStockClient(server.URL)
	err := client.Reserve(t.Context(), orderID)

	assert.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/v1/reservations/"+orderID.String(), gotPath)
}

func Test_HTTPStockClient_ReleaseUsesDelete(t *testing.T) {
	var gotMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPStockClient(server.URL)
	err := client.Release(t.Context(), kernel.NewUUID())

	assert.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func Test_HTTPStockClient_RejectionIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewHTTPStockClient(server.URL)
	err := client.Reserve(t.Context(), kernel.NewUUID())

	assert.ErrorContains(t, err, "status 409")
}
