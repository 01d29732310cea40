package webui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Izenberk/analytics-dashboard/actions"
	"github.com/Izenberk/analytics-dashboard/dataservice"
	"github.com/Izenberk/analytics-dashboard/store"
)

// newAPIFixture builds a DashboardAPI over a near-zero-latency data service
// with failures disabled, seeded with the default widgets.
func newAPIFixture(t *testing.T) (*DashboardAPI, *http.ServeMux) {
	t.Helper()

	svc := dataservice.NewService(dataservice.Config{
		FailureRate:    0,
		MetricDelayMin: time.Millisecond,
		MetricDelayMax: 2 * time.Millisecond,
		ChartDelayMin:  time.Millisecond,
		ChartDelayMax:  2 * time.Millisecond,
		Seed:           1,
	}, nil)

	refresh := func(ctx context.Context, w store.WidgetRecord) error {
		switch w.Kind {
		case store.KindChart:
			_, err := svc.FetchChart(ctx, w.DatasetID)
			return err
		default:
			_, err := svc.FetchMetric(ctx, w.DatasetID)
			return err
		}
	}

	widgets := store.NewStore(refresh, nil)
	if err := widgets.InitializeDashboard(store.DefaultWidgets()); err != nil {
		t.Fatalf("InitializeDashboard() error = %v", err)
	}

	api := NewDashboardAPI(widgets, svc, actions.NewRegistry(nil), nil,
		DashboardAPIConfig{RequestTimeout: 5 * time.Second}, nil)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return api, mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestHandleDashboard(t *testing.T) {
	_, mux := newAPIFixture(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp DashboardResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Widgets) != 3 {
		t.Errorf("widgets = %d, want 3", len(resp.Widgets))
	}
	if resp.Layout.Columns != store.DefaultLayout.Columns {
		t.Errorf("layout columns = %d, want %d", resp.Layout.Columns, store.DefaultLayout.Columns)
	}
	if resp.HasErrors || resp.HasLoading {
		t.Error("fresh dashboard reports errors or loading")
	}
	if resp.UI.Theme != store.ThemeSystem {
		t.Errorf("ui theme = %q, want %q", resp.UI.Theme, store.ThemeSystem)
	}
	if !resp.Dashboard.Initialized {
		t.Error("dashboard not reported as initialized")
	}
	if resp.Dashboard.LastSync.IsZero() {
		t.Error("dashboard LastSync not stamped")
	}
}

func TestUpdateUI(t *testing.T) {
	api, mux := newAPIFixture(t)

	rec := doRequest(t, mux, http.MethodPatch, "/api/ui", `{"sidebarOpen":false,"theme":"dark"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var ui store.UIState
	decodeJSON(t, rec, &ui)
	if ui.SidebarOpen {
		t.Error("SidebarOpen = true, want false")
	}
	if ui.Theme != store.ThemeDark {
		t.Errorf("Theme = %q, want %q", ui.Theme, store.ThemeDark)
	}

	rec = doRequest(t, mux, http.MethodPatch, "/api/ui", `{"theme":"neon"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d for unknown theme, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := api.widgets.UIState().Theme; got != store.ThemeDark {
		t.Errorf("Theme = %q after rejected patch, want %q", got, store.ThemeDark)
	}
}

func TestDismissNotification(t *testing.T) {
	api, mux := newAPIFixture(t)
	id := api.widgets.AddNotification(store.NotifyInfo, "hello")

	rec := doRequest(t, mux, http.MethodDelete, "/api/notifications/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := len(api.widgets.UIState().Notifications); got != 0 {
		t.Errorf("notifications = %d after dismiss, want 0", got)
	}

	rec = doRequest(t, mux, http.MethodDelete, "/api/notifications/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d for repeated dismiss, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListWidgetsFilters(t *testing.T) {
	_, mux := newAPIFixture(t)

	t.Run("all", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/widgets", "")
		var widgets []store.WidgetRecord
		decodeJSON(t, rec, &widgets)
		if len(widgets) != 3 {
			t.Errorf("widgets = %d, want 3", len(widgets))
		}
	})

	t.Run("by kind", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/widgets?kind=chart", "")
		var widgets []store.WidgetRecord
		decodeJSON(t, rec, &widgets)
		if len(widgets) != 1 || widgets[0].Kind != store.KindChart {
			t.Errorf("chart filter returned %+v", widgets)
		}
	})
}

func TestCreateGetDeleteWidget(t *testing.T) {
	_, mux := newAPIFixture(t)

	body := `{"id":"orders-metric","kind":"metric","title":"Orders","datasetId":"orders-today","visible":true}`
	rec := doRequest(t, mux, http.MethodPost, "/api/widgets", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d\nbody: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created store.WidgetRecord
	decodeJSON(t, rec, &created)
	if created.ID != "orders-metric" {
		t.Errorf("created id = %q, want %q", created.ID, "orders-metric")
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/widgets/orders-metric", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, mux, http.MethodDelete, "/api/widgets/orders-metric", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = doRequest(t, mux, http.MethodGet, "/api/widgets/orders-metric", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestCreateWidgetRejectsInvalid(t *testing.T) {
	_, mux := newAPIFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "bad json", body: `{"id":`},
		{name: "bad kind", body: `{"id":"x","kind":"gauge"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodPost, "/api/widgets", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestUpdateWidget(t *testing.T) {
	_, mux := newAPIFixture(t)

	rec := doRequest(t, mux, http.MethodPatch, "/api/widgets/revenue-metric", `{"title":"Revenue (EUR)","visible":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var updated store.WidgetRecord
	decodeJSON(t, rec, &updated)
	if updated.Title != "Revenue (EUR)" {
		t.Errorf("Title = %q, want %q", updated.Title, "Revenue (EUR)")
	}
	if updated.Visible {
		t.Error("Visible = true, want false")
	}

	rec = doRequest(t, mux, http.MethodPatch, "/api/widgets/ghost", `{"title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown widget status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRefreshWidget(t *testing.T) {
	_, mux := newAPIFixture(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/widgets/revenue-metric/refresh", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var record store.WidgetRecord
	decodeJSON(t, rec, &record)
	if record.LastUpdated.IsZero() {
		t.Error("LastUpdated not stamped by refresh")
	}
	if record.Err != "" {
		t.Errorf("Err = %q, want empty", record.Err)
	}

	rec = doRequest(t, mux, http.MethodPost, "/api/widgets/ghost/refresh", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown widget status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRefreshAll(t *testing.T) {
	_, mux := newAPIFixture(t)

	rec := doRequest(t, mux, http.MethodPost, "/api/refresh-all", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var summary store.RefreshSummary
	decodeJSON(t, rec, &summary)
	if summary.Total() != 3 {
		t.Errorf("Total() = %d, want 3", summary.Total())
	}
	if summary.Failed != 0 {
		t.Errorf("Failed = %d with failures disabled, want 0", summary.Failed)
	}
}

func TestWidgetActions(t *testing.T) {
	api, mux := newAPIFixture(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/widgets/trends-chart/actions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var result struct {
		Actions []actions.ProcessedAction `json:"Actions"`
	}
	decodeJSON(t, rec, &result)
	if len(result.Actions) == 0 {
		t.Fatal("no actions resolved for chart widget")
	}
	for i := 1; i < len(result.Actions); i++ {
		if result.Actions[i-1].Priority > result.Actions[i].Priority {
			t.Error("actions not sorted by priority")
		}
	}

	t.Run("unknown widget does not auto-register", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/widgets/ghost/actions", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
		if _, ok := api.widgets.Widget("ghost"); ok {
			t.Error("actions endpoint registered an unknown widget")
		}
	})
}

func TestWidgetData(t *testing.T) {
	_, mux := newAPIFixture(t)

	t.Run("metric", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/widgets/revenue-metric/data", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp dataservice.Response[dataservice.MetricPayload]
		decodeJSON(t, rec, &resp)
		if resp.Data.Value != 125000 {
			t.Errorf("Value = %v, want 125000", resp.Data.Value)
		}
	})

	t.Run("chart", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/widgets/trends-chart/data", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp dataservice.Response[dataservice.ChartPayload]
		decodeJSON(t, rec, &resp)
		if len(resp.Data.Data) == 0 {
			t.Error("chart payload has no points")
		}
	})

	t.Run("unknown widget", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/widgets/ghost/data", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestWidgetExport(t *testing.T) {
	_, mux := newAPIFixture(t)

	t.Run("csv", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/widgets/revenue-metric/export?format=csv", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("Content-Type = %q, want text/csv", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "revenue-metric.csv") {
			t.Errorf("Content-Disposition = %q, want attachment filename", cd)
		}
	})

	t.Run("default json", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/widgets/revenue-metric/export", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var payload dataservice.MetricPayload
		decodeJSON(t, rec, &payload)
		if payload.Title == "" {
			t.Error("exported payload empty")
		}
	})

	t.Run("bad format", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/widgets/revenue-metric/export?format=xml", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}

func TestPrefsEndpointsWithoutStore(t *testing.T) {
	_, mux := newAPIFixture(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/widgets/revenue-metric/prefs"},
		{http.MethodPut, "/api/widgets/revenue-metric/prefs"},
		{http.MethodDelete, "/api/widgets/revenue-metric/prefs"},
	} {
		body := ""
		if tc.method == http.MethodPut {
			body = `{"refreshInterval":60,"visible":true}`
		}
		rec := doRequest(t, mux, tc.method, tc.path, body)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s status = %d, want %d", tc.method, tc.path, rec.Code, http.StatusServiceUnavailable)
		}
	}
}
