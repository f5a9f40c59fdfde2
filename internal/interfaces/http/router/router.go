// Package router wires handlers into the versioned API surface.
package router

import "github.com/gin-gonic/gin"

// RouteRegistrar is implemented by handlers that attach their own routes.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects middleware and registrars, then mounts them under one
// versioned API group. Middleware added with Use applies to that group only,
// so engine-level middleware such as recovery and CORS stays in front of
// everything else.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

type RouterOption func(*Router)

// WithAPIVersion overrides the version prefix, "v1" by default.
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use queues middleware for the API group. Calls after Setup have no effect.
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register queues a registrar to be mounted by Setup.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts the queued middleware and registrars under /api/<version>.
func (r *Router) Setup() {
	api := r.engine.Group("/api/"+r.apiVersion, r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// APIVersion returns the configured version prefix.
func (r *Router) APIVersion() string {
	return r.apiVersion
}
