package http

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/parwinderau/DataspaceConnector/internal/domain"
	"github.com/parwinderau/DataspaceConnector/internal/infra/db"
	"github.com/parwinderau/DataspaceConnector/internal/infra/messaging"
	"github.com/parwinderau/DataspaceConnector/internal/usecase"
)

type ArtifactStore interface {
	Create(ctx context.Context, artifact db.Artifact) error
}

type OfferStore interface {
	Create(ctx context.Context, offer domain.ContractOffer) (domain.ContractOffer, error)
	OffersByArtifact(ctx context.Context, target string) ([]domain.ContractOffer, error)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createArtifactRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type createOfferRequest struct {
	Artifact string        `json:"artifact"`
	Consumer string        `json:"consumer,omitempty"`
	Rules    []domain.Rule `json:"rules"`
}

type offerResponse struct {
	ID       string        `json:"id"`
	Artifact string        `json:"artifact"`
	Consumer string        `json:"consumer,omitempty"`
	Rules    []domain.Rule `json:"rules"`
}

// handleProtocolMessage is the multipart inbound protocol endpoint. Every
// outcome, rejections included, rides an HTTP 200 with a multipart body so
// that the protocol layer stays independent of transport status codes.
func (s *Server) handleProtocolMessage(c *gin.Context) {
	if !s.enforceRateLimit(c) {
		return
	}

	headerPart := c.Request.FormValue(messaging.PartHeader)
	payloadPart := []byte(c.Request.FormValue(messaging.PartPayload))

	var resp domain.ProtocolResponse
	switch {
	case strings.TrimSpace(headerPart) == "":
		resp = s.responses.Map(usecase.Failure{
			Kind: usecase.FailureEmptyMessage,
			Err:  domain.ErrMessageEmpty,
		})
	default:
		var header domain.Message
		if err := json.Unmarshal([]byte(headerPart), &header); err != nil {
			resp = s.responses.Map(usecase.Failure{
				Kind: usecase.FailureMalformedHeader,
				Err:  err,
			})
		} else {
			resp = s.registry.Dispatch(c.Request.Context(), header, payloadPart)
		}
	}

	s.writeProtocolResponse(c, resp)
}

func (s *Server) writeProtocolResponse(c *gin.Context, resp domain.ProtocolResponse) {
	headerJSON, err := json.Marshal(resp.Header)
	if err != nil {
		s.logger.Error("protocol response header not serializable", zap.Error(err))
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "response could not be constructed")
		return
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	headerField, err := writer.CreateFormField(messaging.PartHeader)
	if err == nil {
		_, err = headerField.Write(headerJSON)
	}
	if err == nil {
		var payloadField io.Writer
		payloadField, err = writer.CreateFormField(messaging.PartPayload)
		if err == nil {
			_, err = payloadField.Write(resp.Payload)
		}
	}
	if err == nil {
		err = writer.Close()
	}
	if err != nil {
		s.logger.Error("protocol response framing failed", zap.Error(err))
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "response could not be constructed")
		return
	}

	c.Data(http.StatusOK, writer.FormDataContentType(), buf.Bytes())
}

func (s *Server) handleAdminCreateArtifact(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.artifacts == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "NO_STORE", "artifact store not configured")
		return
	}
	var req createArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if req.ID == "" {
		writeErrorCode(c, http.StatusBadRequest, "MISSING_ID", "artifact id is required")
		return
	}
	artifact := db.Artifact{ID: req.ID, Title: req.Title, CreatedAt: time.Now().UTC()}
	if err := s.artifacts.Create(c.Request.Context(), artifact); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": artifact.ID})
}

func (s *Server) handleAdminCreateOffer(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.offers == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "NO_STORE", "offer store not configured")
		return
	}
	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if req.Artifact == "" {
		writeErrorCode(c, http.StatusBadRequest, "MISSING_ARTIFACT", "artifact is required")
		return
	}
	if len(req.Rules) == 0 {
		writeErrorCode(c, http.StatusBadRequest, "MISSING_RULES", "at least one rule is required")
		return
	}
	offer := domain.ContractOffer{
		Artifact: req.Artifact,
		Consumer: req.Consumer,
		Rules:    req.Rules,
	}
	created, err := s.offers.Create(c.Request.Context(), offer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offerFromDomain(created))
}

func (s *Server) handleAdminListOffers(c *gin.Context) {
	if !s.requireAdmin(c) {
		return
	}
	if s.offers == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "NO_STORE", "offer store not configured")
		return
	}
	artifact := c.Query("artifact")
	if artifact == "" {
		writeErrorCode(c, http.StatusBadRequest, "MISSING_ARTIFACT", "artifact query parameter is required")
		return
	}
	offers, err := s.offers.OffersByArtifact(c.Request.Context(), artifact)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]offerResponse, 0, len(offers))
	for _, offer := range offers {
		out = append(out, offerFromDomain(offer))
	}
	c.JSON(http.StatusOK, gin.H{"offers": out})
}

func offerFromDomain(offer domain.ContractOffer) offerResponse {
	return offerResponse{
		ID:       offer.ID,
		Artifact: offer.Artifact,
		Consumer: offer.Consumer,
		Rules:    offer.Rules,
	}
}

func (s *Server) requireAdmin(c *gin.Context) bool {
	if s.adminAPIKey == "" {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "admin key required")
		return false
	}
	key := c.GetHeader("X-Admin-Key")
	if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.adminAPIKey)) != 1 {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid admin key")
		return false
	}
	return true
}

func (s *Server) enforceRateLimit(c *gin.Context) bool {
	if s.rateLimiter == nil || s.rateLimitRequests <= 0 {
		return true
	}
	key := "client:" + c.ClientIP()
	decision, err := s.rateLimiter.Allow(c.Request.Context(), key, s.rateLimitRequests, s.rateLimitWindow)
	if err != nil {
		if s.rateLimitFailClosed {
			writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMIT_UNAVAILABLE", "rate limiter unavailable")
			return false
		}
		return true
	}
	writeRateLimitHeaders(c, decision)
	if !decision.Allowed {
		writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
		return false
	}
	return true
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		resetUnix := decision.ResetAt.Unix()
		c.Header("RateLimit-Reset", strconv.FormatInt(resetUnix, 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrResourceNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidResource):
		status, code = http.StatusBadRequest, "INVALID_RESOURCE"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	}
	writeErrorCode(c, status, code, err.Error())
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
