package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"zoo-assistant/server/handlers"
)

type VenueHandler interface {
	GetVenuesNearby(w http.ResponseWriter, r *http.Request)
}

type QueryHandler interface {
	Query(w http.ResponseWriter, r *http.Request)
}

type LineWebhookHandler interface {
	Callback(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	venueHandler VenueHandler
	queryHandler QueryHandler
	lineHandler  LineWebhookHandler
	router       *mux.Router
}

// NewRouter creates a router with the app's routes. lineHandler may be nil
// when no LINE channel is configured.
func NewRouter(
	venueHandler VenueHandler,
	queryHandler QueryHandler,
	lineHandler LineWebhookHandler,
	router *mux.Router) *Router {
	return &Router{
		venueHandler: venueHandler,
		queryHandler: queryHandler,
		lineHandler:  lineHandler,
		router:       router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(handlers.WithRequestID)

	if r.lineHandler != nil {
		r.router.HandleFunc("/callback", r.lineHandler.Callback).Methods("POST")
	}

	// expects {"message": string, "user_id": string}
	r.router.HandleFunc("/v1/query", r.queryHandler.Query).Methods("POST")

	// expects ?venue={name} or ?lat={latitude(float)}&lon={longitude(float)}[&radius={km(float)}]
	r.router.HandleFunc("/v1/venues/nearby", r.venueHandler.GetVenuesNearby).Methods("GET")

	r.router.HandleFunc("/ping", handlers.Ping).Methods("GET")
}
