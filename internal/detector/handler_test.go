package detector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/snapsightai/snapsight/internal/predictions"
)

func newTestServer(t *testing.T, runner Runner, summaries SummaryStore) (*echo.Echo, func(key string)) {
	t.Helper()
	svc, provider := newTestService(t, runner, summaries)
	e := echo.New()
	NewHandler(nil, svc).Register(e)
	put := func(key string) { putTestImage(t, provider, key) }
	return e, put
}

func TestPredictHandlerSuccess(t *testing.T) {
	t.Parallel()

	e, put := newTestServer(t, &fakeRunner{labels: "0 0.5 0.5 0.2 0.3\n"}, &fakeSummaries{})
	put("tg-photos/cat.jpg")

	req := httptest.NewRequest(http.MethodPost, "/predict?imgName=tg-photos%2Fcat.jpg", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "test-prediction", resp.PredictionID)
	require.Len(t, resp.Labels, 1)
	require.Equal(t, "person", resp.Labels[0].Class)
}

func TestPredictHandlerNoDetectionsIs404(t *testing.T) {
	t.Parallel()

	e, put := newTestServer(t, &fakeRunner{noLabels: true}, &fakeSummaries{})
	put("tg-photos/cat.jpg")

	req := httptest.NewRequest(http.MethodPost, "/predict?imgName=tg-photos%2Fcat.jpg", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPredictHandlerRequiresImgName(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t, &fakeRunner{}, &fakeSummaries{})
	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPredictionHandler(t *testing.T) {
	t.Parallel()

	summaries := &fakeSummaries{}
	summaries.inserted = append(summaries.inserted, predictions.Summary{
		ID:          "abc",
		OriginalKey: "tg-photos/cat.jpg",
		Labels:      []predictions.Label{{Class: "cat"}},
		CreatedAt:   time.Unix(1700000000, 0).UTC(),
	})
	e, _ := newTestServer(t, &fakeRunner{}, summaries)

	req := httptest.NewRequest(http.MethodGet, "/predictions/abc", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got predictions.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "abc", got.ID)
	require.Len(t, got.Labels, 1)

	req = httptest.NewRequest(http.MethodGet, "/predictions/missing", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClientPredict(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "tg-photos/cat.jpg", r.URL.Query().Get("imgName"))
			_ = json.NewEncoder(w).Encode(Response{
				PredictionID: "abc",
				Labels:       []predictions.Label{{Class: "person"}, {Class: "person"}},
			})
		}))
		defer srv.Close()

		client := NewClient(nil, srv.URL, time.Second)
		resp, err := client.Predict(context.Background(), "tg-photos/cat.jpg")
		require.NoError(t, err)
		require.Equal(t, "abc", resp.PredictionID)
		require.Len(t, resp.Labels, 2)
	})

	t.Run("non-2xx downgrades to no detections", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(nil, srv.URL, time.Second)
		_, err := client.Predict(context.Background(), "tg-photos/cat.jpg")
		require.ErrorIs(t, err, ErrNoDetections)
	})

	t.Run("transport failure propagates", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // immediately, so the call fails at the transport level

		client := NewClient(nil, srv.URL, time.Second)
		_, err := client.Predict(context.Background(), "tg-photos/cat.jpg")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNoDetections)
	})
}
