package httpserver

import (
	"net/http"

	"github.com/devwithfarshi/ai-playground/internal/httpserver/protocol"
)

type healthEndpoint struct {
	server *Server
}

func newHealthEndpoint(server *Server) protocol.Endpoint {
	return &healthEndpoint{server: server}
}

func (e *healthEndpoint) Name() string { return "health" }

func (e *healthEndpoint) Routes() []protocol.EndpointRoute {
	return []protocol.EndpointRoute{
		{Method: http.MethodGet, Path: "/health", Handler: http.HandlerFunc(e.server.HandleHealth)},
	}
}

type rootEndpoint struct {
	server *Server
}

func newRootEndpoint(server *Server) protocol.Endpoint {
	return &rootEndpoint{server: server}
}

func (e *rootEndpoint) Name() string { return "root" }

func (e *rootEndpoint) Routes() []protocol.EndpointRoute {
	return []protocol.EndpointRoute{
		{Method: http.MethodGet, Path: "/", Handler: http.HandlerFunc(e.server.HandleRoot)},
	}
}

type metricsEndpoint struct {
	server *Server
}

// newMetricsEndpoint returns nil when metrics are disabled, which skips
// registration.
func newMetricsEndpoint(server *Server) protocol.Endpoint {
	if server.metrics == nil {
		return nil
	}
	return &metricsEndpoint{server: server}
}

func (e *metricsEndpoint) Name() string { return "metrics" }

func (e *metricsEndpoint) Routes() []protocol.EndpointRoute {
	return []protocol.EndpointRoute{
		{Method: http.MethodGet, Path: "/metrics", Handler: e.server.metrics.Handler()},
	}
}
