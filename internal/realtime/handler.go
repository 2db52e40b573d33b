package realtime

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eleven-am/maskwatch/internal/shared"
	"github.com/labstack/echo/v4"
	"github.com/pion/webrtc/v4"
)

type Handler struct {
	manager *Manager
	log     *slog.Logger
}

func NewHandler(mgr *Manager, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		manager: mgr,
		log:     log.With("component", "realtime-handler"),
	}
}

type OfferRequest struct {
	SDP  string `json:"sdp"`
	Type string `json:"type"`
}

type OfferResponse struct {
	SDP  string `json:"sdp"`
	Type string `json:"type"`
}

// RegisterRoutes mounts the signalling routes. mw applies to POST /offer only.
func (h *Handler) RegisterRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.POST("/offer", h.HandleOffer, mw...)
	e.GET("/sessions", h.ListSessions)
	e.DELETE("/sessions/:id", h.CloseSession)
}

// @Summary      Negotiate a peer session
// @Description  Accepts a browser SDP offer and returns the answer once ICE gathering completes. With legacy encoding enabled the answer object is returned as a JSON string.
// @Tags         realtime
// @Accept       json
// @Produce      json
// @Param        request  body      OfferRequest  true  "SDP offer"
// @Success      200      {object}  OfferResponse
// @Failure      400      {object}  shared.APIError
// @Failure      500      {object}  shared.APIError
// @Router       /offer [post]
func (h *Handler) HandleOffer(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, h.manager.Config().maxSDPSize()+1))
	if err != nil {
		return shared.BadRequest("invalid_body", "failed to read request body")
	}
	if int64(len(body)) > h.manager.Config().maxSDPSize() {
		return shared.RequestTooLarge("offer_too_large", "offer exceeds maximum size")
	}

	req, err := parseOffer(body)
	if err != nil {
		return shared.BadRequest("invalid_offer", err.Error())
	}

	session, answer, err := h.manager.Negotiate(c.Request().Context(), webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  req.SDP,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidOffer) {
			h.log.Warn("offer rejected", "error", err)
			return shared.BadRequest("invalid_offer", "failed to process offer")
		}
		h.log.Error("negotiation failed", "error", err)
		return shared.InternalError("negotiation_failed", "failed to create answer")
	}

	resp := OfferResponse{SDP: answer.SDP, Type: answer.Type.String()}
	c.Response().Header().Set("X-Session-Id", session.ID)

	if !h.manager.Config().LegacyOfferEncoding {
		return c.JSON(http.StatusOK, resp)
	}

	encoded, err := json.Marshal(resp)
	if err != nil {
		return shared.InternalError("encode_failed", "failed to encode answer")
	}
	return c.JSON(http.StatusOK, string(encoded))
}

func parseOffer(body []byte) (OfferRequest, error) {
	var req OfferRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return req, errors.New("invalid JSON body")
	}
	if strings.TrimSpace(req.SDP) == "" {
		return req, errors.New("missing sdp")
	}
	if req.Type != "offer" {
		return req, errors.New("type must be \"offer\"")
	}
	return req, nil
}

// @Summary      List live sessions
// @Tags         realtime
// @Produce      json
// @Success      200  {array}  SessionInfo
// @Router       /sessions [get]
func (h *Handler) ListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.manager.List())
}

// @Summary      Close a session
// @Tags         realtime
// @Param        id   path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id} [delete]
func (h *Handler) CloseSession(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return shared.BadRequest("missing_id", "missing session id")
	}

	if err := h.manager.RemoveSession(id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return shared.NotFound("session_not_found", "session not found")
		}
		h.log.Error("failed to close session", "session_id", id, "error", err)
		return shared.InternalError("close_failed", "failed to close session")
	}
	return c.NoContent(http.StatusNoContent)
}
