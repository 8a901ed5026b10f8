package router

import (
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar mounts a set of routes on a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts domain groups under /api/<version>
type Router struct {
	engine         *gin.Engine
	apiVersion     string
	requestTimeout time.Duration
	groups         []*DomainGroup
	registrars     []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the prefix, e.g. "v2"
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithRequestTimeout bounds every route not marked LongRunning
func WithRequestTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		r.requestTimeout = d
	}
}

// NewRouter creates a Router for the engine. The default version is v1.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a registrar for Setup. Domain groups inherit the router's
// request timeout.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	if dg, ok := registrar.(*DomainGroup); ok {
		dg.setTimeout(r.requestTimeout)
		r.groups = append(r.groups, dg)
	}
	r.registrars = append(r.registrars, registrar)
	return r
}

// Prefix is the path every registered group is mounted under
func (r *Router) Prefix() string {
	return "/api/" + r.apiVersion
}

// Setup mounts all queued registrars
func (r *Router) Setup() {
	api := r.engine.Group(r.Prefix())
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Routes lists the endpoints of the registered domain groups with their
// full paths
func (r *Router) Routes() []Route {
	var routes []Route
	for _, dg := range r.groups {
		routes = append(routes, dg.collect(r.Prefix(), false)...)
	}
	return routes
}

// Route describes one endpoint of a DomainGroup
type Route struct {
	Method string
	Path   string
	Group  string
	// LongRunning routes are exempt from the router's request timeout
	LongRunning bool
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// DomainGroup collects the routes of one area of the API. Groups nest; a
// nested group shares its parent's middleware.
type DomainGroup struct {
	name        string
	prefix      string
	longRunning bool
	timeout     time.Duration
	middleware  []gin.HandlerFunc
	routes      []routeDefinition
	subgroups   []*DomainGroup
}

// NewDomainGroup creates a group mounted at prefix
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Name returns the group name
func (dg *DomainGroup) Name() string { return dg.name }

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string { return dg.prefix }

// Use appends middleware run before every route of the group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// LongRunning exempts the group and its subgroups from the request
// timeout. Their handlers set their own deadline.
func (dg *DomainGroup) LongRunning() *DomainGroup {
	dg.longRunning = true
	return dg
}

func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPatch, path, handlers)
}

func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// Group creates a nested group
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	sub := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, sub)
	return sub
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	dg.register(rg, false)
}

func (dg *DomainGroup) register(rg *gin.RouterGroup, parentLongRunning bool) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	longRunning := parentLongRunning || dg.longRunning
	for _, route := range dg.routes {
		handlers := route.handlers
		if dg.timeout > 0 && !longRunning {
			handlers = append([]gin.HandlerFunc{middleware.Timeout(dg.timeout)}, handlers...)
		}
		group.Handle(route.method, route.path, handlers...)
	}

	for _, sub := range dg.subgroups {
		sub.register(group, longRunning)
	}
}

func (dg *DomainGroup) setTimeout(d time.Duration) {
	dg.timeout = d
	for _, sub := range dg.subgroups {
		sub.setTimeout(d)
	}
}

func (dg *DomainGroup) collect(base string, parentLongRunning bool) []Route {
	prefix := joinPath(base, dg.prefix)
	longRunning := parentLongRunning || dg.longRunning

	routes := make([]Route, 0, len(dg.routes))
	for _, route := range dg.routes {
		routes = append(routes, Route{
			Method:      route.method,
			Path:        joinPath(prefix, route.path),
			Group:       dg.name,
			LongRunning: longRunning,
		})
	}
	for _, sub := range dg.subgroups {
		routes = append(routes, sub.collect(prefix, longRunning)...)
	}
	return routes
}

// joinPath joins like gin does: a trailing slash on rel is kept
func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	joined := path.Join(base, rel)
	if rel[len(rel)-1] == '/' && joined[len(joined)-1] != '/' {
		return joined + "/"
	}
	return joined
}
