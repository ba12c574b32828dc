package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/portal-group-access/appconfig"
	"github.com/jrsteele09/portal-group-access/identity"
	"github.com/jrsteele09/portal-group-access/internal/config"
	"github.com/jrsteele09/portal-group-access/membership"
	"github.com/jrsteele09/portal-group-access/portal"
	"github.com/jrsteele09/portal-group-access/provisioning"
	"github.com/rs/zerolog/log"
)

type Server struct {
	mux          *http.ServeMux
	routes       []string
	config       config.Config
	orchestrator *Orchestrator
}

// New wires every component against the configured portal.
func New(c config.Config) *Server {
	client := portal.New(c.Portal.URL, c.Portal.CallbackURL, c.Portal.UpstreamTimeout)

	s := &Server{
		mux:    http.NewServeMux(),
		config: c,
		orchestrator: NewOrchestrator(
			identity.NewAcquirer(client, c.Portal),
			identity.NewClassifier(client),
			appconfig.NewResolver(client, c.Portal.ConfigLayerID),
			provisioning.New(client),
			membership.NewReconciler(client),
		),
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if !s.config.IsDev() {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
