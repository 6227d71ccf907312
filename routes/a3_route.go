package routes

import (
	"net/http"

	"a3project/handlers"
	"a3project/middlewares"
)

func SetupA3Routes(a3Handler *handlers.A3Handler, analyticsHandler *handlers.AnalyticsHandler, jwtSecret string) *http.ServeMux {
	mux := http.NewServeMux()

	// Apply JWT middleware to all A3 routes
	jwtMiddleware := middlewares.JWTMiddleware(jwtSecret)

	// A3 document routes with JWT protection
	mux.Handle("POST /api/a3", jwtMiddleware(http.HandlerFunc(a3Handler.CreateA3)))
	mux.Handle("GET /api/a3", jwtMiddleware(http.HandlerFunc(a3Handler.GetAllA3s)))
	mux.Handle("GET /api/a3/{series}", jwtMiddleware(http.HandlerFunc(a3Handler.GetA3BySeries)))
	mux.Handle("PUT /api/a3/{series}", jwtMiddleware(http.HandlerFunc(a3Handler.SaveA3)))
	mux.Handle("DELETE /api/a3/{id}", jwtMiddleware(http.HandlerFunc(a3Handler.DeleteA3)))
	// Version routes
	mux.Handle("GET /api/a3/{series}/versions", jwtMiddleware(http.HandlerFunc(a3Handler.GetVersions)))
	mux.Handle("POST /api/a3/{series}/versions", jwtMiddleware(http.HandlerFunc(a3Handler.CreateVersion)))
	mux.Handle("GET /api/a3/{series}/versions/{label}", jwtMiddleware(http.HandlerFunc(a3Handler.GetVersion)))
	// Analytics routes
	mux.Handle("GET /api/a3/{series}/comparison", jwtMiddleware(http.HandlerFunc(analyticsHandler.GetLagLeadComparison)))
	mux.Handle("GET /api/a3/analytics/portfolio", jwtMiddleware(http.HandlerFunc(analyticsHandler.GetPortfolioStats)))

	return mux
}
