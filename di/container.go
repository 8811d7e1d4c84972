package di

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"zoo-assistant/api"
	"zoo-assistant/api/openai"
	"zoo-assistant/config"
	"zoo-assistant/dao/redis"
	"zoo-assistant/db"
	"zoo-assistant/server"
	"zoo-assistant/server/handlers"
	services "zoo-assistant/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                    *config.AppConfig
	Vocabulary                *config.Vocabulary
	RedisClient               db.RedisClient
	RedisVenueDao             *redis.RedisVenueDAO
	RedisInterestDao          *redis.RedisInterestDAO
	CompletionAPI             openai.CompletionAPI
	ReferenceStore            *services.ReferenceStore
	ReferenceLoader           *services.ReferenceLoader
	ReferenceRefresherService *services.ReferenceRefresherService
	QueryRouterService        *services.QueryRouterService
	VenueService              *services.VenueService
	QueryHandler              *handlers.QueryHandler
	VenueHandler              *handlers.VenueHandler
	LineWebhookHandler        *handlers.LineWebhookHandler
	MuxRouter                 *mux.Router
	Router                    *server.Router
	ZooAssistantHttpServer    *server.ZooAssistantHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.AppConfig) (*Container, error) {
	log.Printf("[Container] Initializing container - env: %s", cfg.Environment)
	vocab := config.DefaultVocabulary()

	redisClient, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var (
		redisVenueDao    *redis.RedisVenueDAO
		redisInterestDao *redis.RedisInterestDAO
		venueIndex       services.VenueIndex
		venueLookup      services.VenueLookup
		interestRecorder handlers.InterestRecorder
	)
	if redisClient != nil {
		redisVenueDao = redis.NewRedisVenueDAO(redisClient)
		redisInterestDao = redis.NewRedisInterestDAO(redisClient, cfg.Redis.InterestHistoryLimit)
		venueIndex, venueLookup, interestRecorder = redisVenueDao, redisVenueDao, redisInterestDao
	}

	var completion openai.CompletionAPI
	if cfg.OpenAI.APIKey != "" {
		timeout := time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second
		completion = openai.NewOpenAIClient(api.NewHTTPClient(cfg.OpenAI.BaseURL, timeout), openai.OpenAIClientOptions{
			APIKey:            cfg.OpenAI.APIKey,
			Model:             cfg.OpenAI.Model,
			MaxTokens:         cfg.OpenAI.MaxTokens,
			Temperature:       cfg.OpenAI.Temperature,
			RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
		})
		log.Printf("[Container] Using OpenAI model %s", cfg.OpenAI.Model)
	} else {
		log.Printf("[Container] OPENAI_API_KEY not set, smart replies disabled")
	}

	store := services.NewReferenceStore(nil)
	loader := services.NewReferenceLoader(cfg.Data, vocab)
	refresher := services.NewReferenceRefresherService(loader, store, venueIndex)
	queryRouter := services.NewQueryRouterService(store, completion, vocab, cfg.Courses, cfg.Reply)
	venueService := services.NewVenueService(store, venueLookup, cfg.Reply.NearbyTopN)

	// a route may wait on the completion service; leave room for the HTTP round trip
	routeTimeout := time.Duration(cfg.OpenAI.TimeoutSeconds+5) * time.Second
	queryHandler := handlers.NewQueryHandler(queryRouter, interestRecorder, routeTimeout)
	venueHandler := handlers.NewVenueHandler(venueService)

	var lineHandler *handlers.LineWebhookHandler
	var routerLineHandler server.LineWebhookHandler
	if cfg.Line.ChannelSecret != "" && cfg.Line.ChannelToken != "" {
		replier, err := handlers.NewLineReplier(cfg.Line.ChannelToken)
		if err != nil {
			return nil, err
		}
		lineHandler = handlers.NewLineWebhookHandler(cfg.Line.ChannelSecret, replier, queryRouter, interestRecorder, routeTimeout)
		routerLineHandler = lineHandler
	} else {
		log.Printf("[Container] LINE channel not configured, /callback disabled")
	}

	muxRouter := mux.NewRouter()
	router := server.NewRouter(venueHandler, queryHandler, routerLineHandler, muxRouter)
	httpServer := server.NewZooAssistantHttpServer(router, muxRouter, cfg.Server.Port)

	return &Container{
		Config:                    cfg,
		Vocabulary:                vocab,
		RedisClient:               redisClient,
		RedisVenueDao:             redisVenueDao,
		RedisInterestDao:          redisInterestDao,
		CompletionAPI:             completion,
		ReferenceStore:            store,
		ReferenceLoader:           loader,
		ReferenceRefresherService: refresher,
		QueryRouterService:        queryRouter,
		VenueService:              venueService,
		QueryHandler:              queryHandler,
		VenueHandler:              venueHandler,
		LineWebhookHandler:        lineHandler,
		MuxRouter:                 muxRouter,
		Router:                    router,
		ZooAssistantHttpServer:    httpServer,
	}, nil
}

// newRedisClient connects to Redis when enabled. Outside prod an in-memory
// client stands in so the geo index and interest log still work.
func newRedisClient(ctx context.Context, cfg *config.AppConfig) (db.RedisClient, error) {
	if cfg.Redis.Enabled {
		client, err := db.NewGeoRedisClient(ctx, goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return client, nil
	}
	if cfg.Environment != "prod" {
		log.Printf("[Container] Redis disabled, using in-memory client")
		return db.NewMockRedisClient(), nil
	}
	log.Printf("[Container] Redis disabled")
	return nil, nil
}
