package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-kit/log"

	"go-transfer-route/broker"
	"go-transfer-route/domain"
	"go-transfer-route/transfer"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Service      transfer.Service
	Institutions []broker.Definition
	router       chi.Router
	logger       log.Logger
}

func NewServer(s transfer.Service, institutions []broker.Definition, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	server := &Server{
		Service:      s,
		Institutions: institutions,
		logger:       logger,
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health())
	r.Route("/api", func(r chi.Router) {
		r.Post("/route", s.route())
		r.Post("/routes", s.routesBatch(s.Service.ProcessAll))
		r.Post("/routes/compare", s.routesBatch(s.Service.Compare))
		r.Get("/institutions", s.institutions())
	})
	s.router = r
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(rw, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger.Log(
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", middleware.GetReqID(r.Context()),
				"took", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

// errorResponse body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func writeError(rw http.ResponseWriter, status int, msg string) {
	writeJSON(rw, status, errorResponse{Error: msg})
}

// statusOf maps processing failures: upstream quote and fee lookups are
// 502, anything else is a problem with the submitted route.
func statusOf(err error) int {
	var rateErr *domain.RateUnavailableError
	var feeErr *domain.FeeUnavailableError
	if errors.As(err, &rateErr) || errors.As(err, &feeErr) {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}

// route produces HTTP handler evaluating a single route
func (s *Server) route() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var request transfer.Request
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			writeError(rw, http.StatusBadRequest, "invalid json")
			return
		}

		result, err := s.Service.Process(r.Context(), request)
		if err != nil {
			writeError(rw, statusOf(err), err.Error())
			return
		}
		writeJSON(rw, http.StatusOK, result)
	}
}

// routesBatch produces HTTP handler evaluating a list of independent routes with process
func (s *Server) routesBatch(process func(context.Context, []transfer.Request) ([]transfer.Result, error)) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var requests []transfer.Request
		if err := json.NewDecoder(r.Body).Decode(&requests); err != nil {
			writeError(rw, http.StatusBadRequest, "invalid json")
			return
		}
		if len(requests) == 0 {
			writeError(rw, http.StatusBadRequest, "no routes")
			return
		}

		results, err := process(r.Context(), requests)
		if err != nil {
			writeError(rw, statusOf(err), err.Error())
			return
		}
		writeJSON(rw, http.StatusOK, results)
	}
}

// institutions produces HTTP handler listing the known institutions
func (s *Server) institutions() http.HandlerFunc {

	// institution for marshalling one catalogue entry
	type institution struct {
		ID          broker.ID                   `json:"id"`
		Variant     string                      `json:"variant"`
		Pairs       []string                    `json:"pairs,omitempty"`
		Commission  float64                     `json:"commission"`
		FixedFees   map[domain.Currency]float64 `json:"fixed_fees,omitempty"`
		NetworkFees bool                        `json:"network_fees"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		list := make([]institution, 0, len(s.Institutions))
		for _, d := range s.Institutions {
			i := institution{
				ID:          d.ID,
				Variant:     "wallet",
				Commission:  d.Commission,
				FixedFees:   d.FixedFees,
				NetworkFees: d.NetworkFees,
			}
			if d.Convertible {
				i.Variant = "exchange"
			}
			for _, p := range d.Pairs {
				i.Pairs = append(i.Pairs, p.String())
			}
			list = append(list, i)
		}
		writeJSON(rw, http.StatusOK, list)
	}
}

func (s *Server) health() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, map[string]string{"status": "ok"})
	}
}
