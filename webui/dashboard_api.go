package webui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Izenberk/analytics-dashboard/actions"
	"github.com/Izenberk/analytics-dashboard/dataservice"
	"github.com/Izenberk/analytics-dashboard/lifecycle"
	"github.com/Izenberk/analytics-dashboard/prefs"
	"github.com/Izenberk/analytics-dashboard/store"
)

// DashboardAPI provides the REST handlers for the dashboard.
//
// Endpoints:
//   - GET    /api/dashboard            - Full dashboard snapshot
//   - GET    /api/widgets              - List widgets (kind, visible filters)
//   - POST   /api/widgets              - Create a widget
//   - GET    /api/widgets/{id}         - One widget
//   - PATCH  /api/widgets/{id}         - Partial update
//   - DELETE /api/widgets/{id}         - Remove a widget
//   - POST   /api/widgets/{id}/refresh - Refresh one widget
//   - POST   /api/refresh-all          - Refresh every widget
//   - PATCH  /api/ui                   - Update sidebar and theme
//   - DELETE /api/notifications/{id}   - Dismiss a notification
//   - GET    /api/widgets/{id}/actions - Resolved actions for the caller
//   - GET    /api/widgets/{id}/data    - Fetched metric or chart payload
//   - GET    /api/widgets/{id}/export  - Export payload as csv or json
//   - GET    /api/widgets/{id}/prefs   - Stored preferences
//   - PUT    /api/widgets/{id}/prefs   - Store preferences
//   - DELETE /api/widgets/{id}/prefs   - Reset preferences to defaults
type DashboardAPI struct {
	widgets  *store.Store
	svc      *dataservice.Service
	registry *actions.Registry
	prefs    *prefs.Store
	logger   *zap.Logger

	// requestTimeout bounds data fetches triggered by API calls.
	requestTimeout time.Duration
}

// DashboardAPIConfig configures the DashboardAPI.
type DashboardAPIConfig struct {
	// RequestTimeout bounds data fetches triggered by API calls
	// (default: 15s, enough for the worst simulated latency plus retries).
	RequestTimeout time.Duration
}

// DefaultDashboardAPIConfig returns a default configuration.
func DefaultDashboardAPIConfig() DashboardAPIConfig {
	return DashboardAPIConfig{
		RequestTimeout: 15 * time.Second,
	}
}

// NewDashboardAPI creates the API over the given components. prefsStore may
// be nil, which disables the preference endpoints with 503 responses.
func NewDashboardAPI(widgets *store.Store, svc *dataservice.Service, registry *actions.Registry, prefsStore *prefs.Store, config DashboardAPIConfig, logger *zap.Logger) *DashboardAPI {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 15 * time.Second
	}
	return &DashboardAPI{
		widgets:        widgets,
		svc:            svc,
		registry:       registry,
		prefs:          prefsStore,
		logger:         logger.Named("api"),
		requestTimeout: config.RequestTimeout,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (api *DashboardAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", api.HandleDashboard)
	mux.HandleFunc("GET /api/widgets", api.HandleListWidgets)
	mux.HandleFunc("POST /api/widgets", api.HandleCreateWidget)
	mux.HandleFunc("GET /api/widgets/{id}", api.HandleGetWidget)
	mux.HandleFunc("PATCH /api/widgets/{id}", api.HandleUpdateWidget)
	mux.HandleFunc("DELETE /api/widgets/{id}", api.HandleDeleteWidget)
	mux.HandleFunc("POST /api/widgets/{id}/refresh", api.HandleRefreshWidget)
	mux.HandleFunc("POST /api/refresh-all", api.HandleRefreshAll)
	mux.HandleFunc("GET /api/widgets/{id}/actions", api.HandleWidgetActions)
	mux.HandleFunc("GET /api/widgets/{id}/data", api.HandleWidgetData)
	mux.HandleFunc("GET /api/widgets/{id}/export", api.HandleWidgetExport)
	mux.HandleFunc("PATCH /api/ui", api.HandleUpdateUI)
	mux.HandleFunc("DELETE /api/notifications/{id}", api.HandleDismissNotification)
	mux.HandleFunc("GET /api/widgets/{id}/prefs", api.HandleGetPrefs)
	mux.HandleFunc("PUT /api/widgets/{id}/prefs", api.HandleSetPrefs)
	mux.HandleFunc("DELETE /api/widgets/{id}/prefs", api.HandleResetPrefs)
}

// DashboardResponse is the JSON response for /api/dashboard.
type DashboardResponse struct {
	Widgets    []store.WidgetRecord `json:"widgets"`
	Layout     store.LayoutConfig   `json:"layout"`
	UI         store.UIState        `json:"ui"`
	Dashboard  store.DashboardState `json:"dashboard"`
	HasErrors  bool                 `json:"hasErrors"`
	HasLoading bool                 `json:"hasLoading"`
}

// HandleDashboard handles GET /api/dashboard.
func (api *DashboardAPI) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, http.StatusOK, DashboardResponse{
		Widgets:    api.widgets.Widgets(),
		Layout:     api.widgets.Layout(),
		UI:         api.widgets.UIState(),
		Dashboard:  api.widgets.Dashboard(),
		HasErrors:  api.widgets.HasErrors(),
		HasLoading: api.widgets.HasLoadingWidgets(),
	})
}

// uiPatch is the request body for PATCH /api/ui.
type uiPatch struct {
	SidebarOpen *bool   `json:"sidebarOpen"`
	Theme       *string `json:"theme"`
}

// HandleUpdateUI handles PATCH /api/ui.
func (api *DashboardAPI) HandleUpdateUI(w http.ResponseWriter, r *http.Request) {
	var patch uiPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.writeError(w, http.StatusBadRequest, "invalid UI JSON: "+err.Error())
		return
	}

	if patch.SidebarOpen != nil {
		api.widgets.SetSidebarOpen(*patch.SidebarOpen)
	}
	if patch.Theme != nil {
		if err := api.widgets.SetTheme(*patch.Theme); err != nil {
			api.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	api.writeJSON(w, http.StatusOK, api.widgets.UIState())
}

// HandleDismissNotification handles DELETE /api/notifications/{id}.
func (api *DashboardAPI) HandleDismissNotification(w http.ResponseWriter, r *http.Request) {
	if err := api.widgets.DismissNotification(r.PathValue("id")); err != nil {
		api.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListWidgets handles GET /api/widgets with optional kind and visible
// filters.
func (api *DashboardAPI) HandleListWidgets(w http.ResponseWriter, r *http.Request) {
	var widgets []store.WidgetRecord
	switch {
	case r.URL.Query().Get("kind") != "":
		widgets = api.widgets.WidgetsByKind(store.WidgetKind(r.URL.Query().Get("kind")))
	case r.URL.Query().Get("visible") == "true":
		widgets = api.widgets.VisibleWidgets()
	default:
		widgets = api.widgets.Widgets()
	}
	api.writeJSON(w, http.StatusOK, widgets)
}

// HandleCreateWidget handles POST /api/widgets.
func (api *DashboardAPI) HandleCreateWidget(w http.ResponseWriter, r *http.Request) {
	var record store.WidgetRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		api.writeError(w, http.StatusBadRequest, "invalid widget JSON: "+err.Error())
		return
	}

	id, err := api.widgets.AddWidget(record)
	if err != nil {
		api.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, _ := api.widgets.Widget(id)
	api.writeJSON(w, http.StatusCreated, created)
}

// HandleGetWidget handles GET /api/widgets/{id}.
func (api *DashboardAPI) HandleGetWidget(w http.ResponseWriter, r *http.Request) {
	record, ok := api.widgets.Widget(r.PathValue("id"))
	if !ok {
		api.writeError(w, http.StatusNotFound, "widget not found")
		return
	}
	api.writeJSON(w, http.StatusOK, record)
}

// widgetPatch is the request body for PATCH /api/widgets/{id}.
type widgetPatch struct {
	Title     *string               `json:"title"`
	DatasetID *string               `json:"datasetId"`
	Position  *store.WidgetPosition `json:"position"`
	Size      *store.WidgetSize     `json:"size"`
	Visible   *bool                 `json:"visible"`
}

// HandleUpdateWidget handles PATCH /api/widgets/{id}.
func (api *DashboardAPI) HandleUpdateWidget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch widgetPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.writeError(w, http.StatusBadRequest, "invalid patch JSON: "+err.Error())
		return
	}

	update := store.WidgetUpdate{
		Title:     patch.Title,
		DatasetID: patch.DatasetID,
		Position:  patch.Position,
		Size:      patch.Size,
		Visible:   patch.Visible,
	}
	if err := api.widgets.UpdateWidget(id, update); err != nil {
		api.writeStoreError(w, err)
		return
	}

	record, _ := api.widgets.Widget(id)
	api.writeJSON(w, http.StatusOK, record)
}

// HandleDeleteWidget handles DELETE /api/widgets/{id}.
func (api *DashboardAPI) HandleDeleteWidget(w http.ResponseWriter, r *http.Request) {
	if err := api.widgets.RemoveWidget(r.PathValue("id")); err != nil {
		api.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRefreshWidget handles POST /api/widgets/{id}/refresh. The response
// reflects the widget's state after the refresh settles; a failed data fetch
// is a 200 with the error recorded on the widget.
func (api *DashboardAPI) HandleRefreshWidget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), api.requestTimeout)
	defer cancel()

	if err := api.widgets.RefreshWidget(ctx, id); err != nil {
		api.writeStoreError(w, err)
		return
	}

	record, ok := api.widgets.Widget(id)
	if !ok {
		api.writeError(w, http.StatusNotFound, "widget not found")
		return
	}
	api.writeJSON(w, http.StatusOK, record)
}

// HandleRefreshAll handles POST /api/refresh-all.
func (api *DashboardAPI) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), api.requestTimeout)
	defer cancel()

	summary := api.widgets.RefreshAllWidgets(ctx)
	if summary.Failed > 0 {
		api.widgets.AddNotification(store.NotifyError,
			fmt.Sprintf("%d of %d widgets failed to refresh", summary.Failed, summary.Total()))
	}
	api.writeJSON(w, http.StatusOK, summary)
}

// HandleWidgetActions handles GET /api/widgets/{id}/actions. Permissions come
// from the comma-separated permissions query parameter.
func (api *DashboardAPI) HandleWidgetActions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := api.widgets.Widget(id); !ok {
		api.writeError(w, http.StatusNotFound, "widget not found")
		return
	}

	handle, err := lifecycle.NewHandle(api.widgets, api.registry, id, lifecycle.Options{}, api.logger)
	if err != nil {
		api.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var permissions []string
	if raw := r.URL.Query().Get("permissions"); raw != "" {
		permissions = strings.Split(raw, ",")
	}

	result, err := handle.Actions(permissions)
	if err != nil {
		api.writeStoreError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, result)
}

// HandleWidgetData handles GET /api/widgets/{id}/data, fetching the widget's
// payload from the data service with bounded retry.
func (api *DashboardAPI) HandleWidgetData(w http.ResponseWriter, r *http.Request) {
	record, ok := api.widgets.Widget(r.PathValue("id"))
	if !ok {
		api.writeError(w, http.StatusNotFound, "widget not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), api.requestTimeout)
	defer cancel()

	switch record.Kind {
	case store.KindChart:
		resp, err := dataservice.RetryRequest(ctx, api.logger,
			dataservice.DefaultMaxRetries, dataservice.DefaultBaseDelay,
			func(ctx context.Context) (*dataservice.Response[dataservice.ChartPayload], error) {
				return api.svc.FetchChart(ctx, record.DatasetID)
			})
		if err != nil {
			api.writeFetchError(w, err)
			return
		}
		api.writeJSON(w, http.StatusOK, resp)
	default:
		resp, err := dataservice.RetryRequest(ctx, api.logger,
			dataservice.DefaultMaxRetries, dataservice.DefaultBaseDelay,
			func(ctx context.Context) (*dataservice.Response[dataservice.MetricPayload], error) {
				return api.svc.FetchMetric(ctx, record.DatasetID)
			})
		if err != nil {
			api.writeFetchError(w, err)
			return
		}
		api.writeJSON(w, http.StatusOK, resp)
	}
}

// HandleWidgetExport handles GET /api/widgets/{id}/export?format=csv|json.
func (api *DashboardAPI) HandleWidgetExport(w http.ResponseWriter, r *http.Request) {
	record, ok := api.widgets.Widget(r.PathValue("id"))
	if !ok {
		api.writeError(w, http.StatusNotFound, "widget not found")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = dataservice.ExportJSON
	}
	if format != dataservice.ExportCSV && format != dataservice.ExportJSON {
		api.writeError(w, http.StatusBadRequest, "unsupported export format: "+format)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), api.requestTimeout)
	defer cancel()

	var (
		data []byte
		err  error
	)
	switch record.Kind {
	case store.KindChart:
		var resp *dataservice.Response[dataservice.ChartPayload]
		resp, err = api.svc.FetchChart(ctx, record.DatasetID)
		if err == nil {
			data, err = dataservice.ExportChart(format, resp.Data)
		}
	default:
		var resp *dataservice.Response[dataservice.MetricPayload]
		resp, err = api.svc.FetchMetric(ctx, record.DatasetID)
		if err == nil {
			data, err = dataservice.ExportMetric(format, resp.Data)
		}
	}
	if err != nil {
		api.writeFetchError(w, err)
		return
	}

	filename := fmt.Sprintf("%s.%s", record.ID, format)
	if format == dataservice.ExportCSV {
		w.Header().Set("Content-Type", "text/csv")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleGetPrefs handles GET /api/widgets/{id}/prefs.
func (api *DashboardAPI) HandleGetPrefs(w http.ResponseWriter, r *http.Request) {
	if api.prefs == nil {
		api.writeError(w, http.StatusServiceUnavailable, "preferences are not configured")
		return
	}

	cfg, err := api.prefs.GetConfig(r.Context(), r.PathValue("id"))
	if err != nil {
		api.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.writeJSON(w, http.StatusOK, cfg)
}

// HandleSetPrefs handles PUT /api/widgets/{id}/prefs.
func (api *DashboardAPI) HandleSetPrefs(w http.ResponseWriter, r *http.Request) {
	if api.prefs == nil {
		api.writeError(w, http.StatusServiceUnavailable, "preferences are not configured")
		return
	}

	var cfg prefs.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		api.writeError(w, http.StatusBadRequest, "invalid preferences JSON: "+err.Error())
		return
	}
	cfg.WidgetID = r.PathValue("id")

	if err := api.prefs.SetConfig(r.Context(), cfg); err != nil {
		api.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := api.prefs.GetConfig(r.Context(), cfg.WidgetID)
	if err != nil {
		api.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	api.writeJSON(w, http.StatusOK, stored)
}

// HandleResetPrefs handles DELETE /api/widgets/{id}/prefs.
func (api *DashboardAPI) HandleResetPrefs(w http.ResponseWriter, r *http.Request) {
	if api.prefs == nil {
		api.writeError(w, http.StatusServiceUnavailable, "preferences are not configured")
		return
	}

	if err := api.prefs.ResetConfig(r.Context(), r.PathValue("id")); err != nil {
		api.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ErrorResponse is the JSON body for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (api *DashboardAPI) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		api.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (api *DashboardAPI) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeStoreError maps store sentinel errors to HTTP statuses.
func (api *DashboardAPI) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrWidgetNotFound):
		api.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidWidget):
		api.writeError(w, http.StatusBadRequest, err.Error())
	default:
		api.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeFetchError maps data service errors to HTTP statuses, preserving the
// service error code in the body.
func (api *DashboardAPI) writeFetchError(w http.ResponseWriter, err error) {
	if svcErr, ok := dataservice.IsServiceError(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(ErrorResponse{Error: svcErr.Message, Code: svcErr.Code})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		api.writeError(w, http.StatusGatewayTimeout, "data fetch timed out")
		return
	}
	api.writeError(w, http.StatusInternalServerError, err.Error())
}
