package httpserver

import (
	"net/http"

	"github.com/devwithfarshi/ai-playground/internal/httpserver/protocol"
)

type generateEndpoint struct {
	server *Server
}

func newGenerateEndpoint(server *Server) protocol.Endpoint {
	return &generateEndpoint{server: server}
}

func (e *generateEndpoint) Name() string { return "generate" }

func (e *generateEndpoint) Routes() []protocol.EndpointRoute {
	return []protocol.EndpointRoute{
		{Method: http.MethodPost, Path: "/api/generate", Handler: http.HandlerFunc(e.server.HandleGenerate)},
		{Method: http.MethodGet, Path: "/api/models", Handler: http.HandlerFunc(e.server.HandleModels)},
	}
}
