package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parwinderau/DataspaceConnector/internal/config"
	"github.com/parwinderau/DataspaceConnector/internal/domain"
	"github.com/parwinderau/DataspaceConnector/internal/infra/db"
	"github.com/parwinderau/DataspaceConnector/internal/infra/messaging"
	"github.com/parwinderau/DataspaceConnector/internal/infra/policyopa"
	"github.com/parwinderau/DataspaceConnector/internal/infra/ratelimit"
	"github.com/parwinderau/DataspaceConnector/internal/usecase"
)

type Server struct {
	cfg    config.Config
	store  *db.Store
	r      *gin.Engine
	logger *zap.Logger

	registry  *messaging.Registry
	responses usecase.ResponseMapper

	artifacts ArtifactStore
	offers    OfferStore

	adminAPIKey string

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool
}

func NewServer(cfg config.Config, store *db.Store, logger *zap.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r, logger: logger}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.initDeps()
	s.routes()
	return s
}

type ServerDeps struct {
	Registry    *messaging.Registry
	Responses   usecase.ResponseMapper
	Artifacts   ArtifactStore
	Offers      OfferStore
	AdminAPIKey string
	RateLimiter domain.RateLimiter
	Logger      *zap.Logger
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:         cfg,
		r:           r,
		logger:      deps.Logger,
		registry:    deps.Registry,
		responses:   deps.Responses,
		artifacts:   deps.Artifacts,
		offers:      deps.Offers,
		adminAPIKey: deps.AdminAPIKey,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

func (s *Server) initDeps() {
	s.adminAPIKey = s.cfg.AdminAPIKey

	var offerRepo *db.OfferRepository
	if s.store != nil {
		offerRepo = db.NewOfferRepository(s.store.DB)
		s.offers = offerRepo
		s.artifacts = db.NewArtifactRepository(s.store.DB)
	}

	clock := func() time.Time { return time.Now().UTC() }

	var comparer usecase.RuleComparer = &usecase.CanonicalRuleComparer{}
	if s.cfg.PolicyBundlePath != "" {
		if engine, err := policyopa.NewEngineFromBundlePath(context.Background(), s.cfg.PolicyBundlePath); err == nil {
			comparer = engine
		} else {
			s.logger.Warn("policy bundle load failed, falling back to canonical comparison",
				zap.String("bundlePath", s.cfg.PolicyBundlePath),
				zap.Error(err))
		}
	}

	responses := &usecase.RejectionMapper{Connector: s.cfg.ConnectorID, Clock: clock}
	headers := &messaging.HeaderBuilder{Connector: s.cfg.ConnectorID, Clock: clock}
	handler := &usecase.ContractRequestHandler{
		Codec:      messaging.Codec{},
		Offers:     offerRepo,
		Matcher:    &usecase.RuleMatcher{Offers: offerRepo, Comparer: comparer},
		Agreements: &usecase.ContractAgreementBuilder{Provider: s.cfg.ConnectorID, Clock: clock},
		Responses:  responses,
		Headers:    headers,
		Logger:     s.logger,
	}

	registry := messaging.NewRegistry(responses)
	registry.Register(domain.MessageTypeContractRequest, handler)

	s.registry = registry
	s.responses = responses

	s.initRateLimit(nil)
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	if s.cfg.RateLimitWindowSeconds > 0 {
		s.rateLimitWindow = time.Duration(s.cfg.RateLimitWindowSeconds) * time.Second
	}
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": dbMode})
	})

	s.r.POST("/api/ids/data", s.handleProtocolMessage)

	v1 := s.r.Group("/v1")
	{
		v1.POST("/artifacts", s.handleAdminCreateArtifact)
		v1.POST("/offers", s.handleAdminCreateOffer)
		v1.GET("/offers", s.handleAdminListOffers)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.r
}
