package internal

import (
	"net/http"

	"olga/internal/controllers"
	"olga/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, chartsController *controllers.ChartsController, formsChecker *controllers.FormsChecker) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/{$}", http.HandlerFunc(chartsController.GraphsView))
	routers.Get("/map/{$}", http.HandlerFunc(chartsController.MapView))
	routers.Get("/api/graphs/{$}", http.HandlerFunc(apiController.GetGraphsData))
	routers.Get("/api/map/{$}", http.HandlerFunc(apiController.GetMapData))
	routers.Post("/api/installation/statistics/{$}", formsChecker.Check(http.HandlerFunc(apiController.ReceiveInstallationStatistics)))
	return routers
}
