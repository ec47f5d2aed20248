package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/travel-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/travel-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Routes that do not require an existing session: register, login and
	// the two refresh variants.  Each handler is responsible for
	// generating or exchanging tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access only issues a new
	// access token and leaves the refresh token untouched.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a JSON body containing a `refresh_token` or a Bearer
	// access token and invalidates the matching session(s).  It does not
	// require the JWT middleware so expired sessions can still log out.
	g.POST("/logout", a.Logout)

	// Protected endpoints under /v1.  All handlers registered on this
	// group execute the JWTAuth middleware before being invoked.  Both
	// roles are accepted here; finer-grained role checks live on the
	// customer and admin groups.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
	auth.PATCH("/me", a.UpdateMe)

	// Also map POST /v1/logout outside the protected group so clients can
	// terminate a session with only a refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}
