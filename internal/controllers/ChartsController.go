package controllers

import (
	"bytes"
	"net/http"

	"olga/internal/providers"
	"olga/internal/services"
)

// ChartsController renders the operator pages.
type ChartsController struct {
	logger   providers.Logger
	service  services.InstallationStatisticsServiceInterface
	renderer providers.RendererInterface
}

func NewChartsController(logger providers.Logger, service services.InstallationStatisticsServiceInterface, renderer providers.RendererInterface) *ChartsController {
	return &ChartsController{
		logger:   logger,
		service:  service,
		renderer: renderer,
	}
}

func (cc *ChartsController) GraphsView(w http.ResponseWriter, r *http.Request) {
	data, err := buildGraphsData(r.Context(), cc.service)
	if err != nil {
		cc.fail(w, "graphs data", err)
		return
	}
	pageContext, err := newGraphsContext(data)
	if err != nil {
		cc.fail(w, "graphs context", err)
		return
	}
	cc.render(w, GraphsTemplate, pageContext)
}

func (cc *ChartsController) MapView(w http.ResponseWriter, r *http.Request) {
	data, err := buildMapData(r.Context(), cc.service)
	if err != nil {
		cc.fail(w, "map data", err)
		return
	}
	pageContext, err := newMapContext(data)
	if err != nil {
		cc.fail(w, "map context", err)
		return
	}
	cc.render(w, WorldMapTemplate, pageContext)
}

// render buffers the page so a template error never leaves half a page behind.
func (cc *ChartsController) render(w http.ResponseWriter, name string, pageContext any) {
	var buf bytes.Buffer
	if err := cc.renderer.Render(&buf, name, pageContext); err != nil {
		cc.fail(w, "render "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (cc *ChartsController) fail(w http.ResponseWriter, what string, err error) {
	cc.logger.Errorf(providers.TypeGet, "%s: %s", what, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
