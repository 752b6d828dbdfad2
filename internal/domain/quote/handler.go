package quote

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/pkg/response"
)

type Handler struct {
	service  *Service
	upgrader *websocket.Upgrader
}

// NewHandler serves quote sessions. allowOrigin decides which browser
// origins may open the live websocket.
func NewHandler(service *Service, allowOrigin func(origin string) bool) *Handler {
	return &Handler{service: service, upgrader: newUpgrader(allowOrigin)}
}

type OpenRequest struct {
	Company string `json:"company" binding:"required"`
}

type ValueRequest struct {
	Value string `json:"value"`
}

type MealCountRequest struct {
	Count CountInput `json:"count"`
}

// Open starts a quote session.
// @Summary Open quote session
// @Tags Quotes
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /api/v1/quotes [post]
func (h *Handler) Open(c *gin.Context) {
	var req OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Company) == "" {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "company is required")
		return
	}

	view, err := h.service.Open(c.Request.Context(), strings.TrimSpace(req.Company))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) Close(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.service.Close(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Quote session closed"})
}

func (h *Handler) SetHall(c *gin.Context) { h.applyValue(c, OpSetHall) }
func (h *Handler) SetDate(c *gin.Context) { h.applyValue(c, OpSetDate) }
func (h *Handler) SetTier(c *gin.Context) { h.applyValue(c, OpSetTier) }

func (h *Handler) applyValue(c *gin.Context, op Op) {
	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid request body")
		return
	}
	h.apply(c, Command{Op: op, Value: req.Value})
}

// SetMealCount accepts {"count": 120} or {"count": "120"}.
func (h *Handler) SetMealCount(c *gin.Context) {
	mealID, err := strconv.ParseInt(c.Param("mealId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid meal ID")
		return
	}
	var req MealCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid request body")
		return
	}
	h.apply(c, Command{Op: OpSetMealCount, MealID: mealID, Count: req.Count})
}

func (h *Handler) ToggleOption(c *gin.Context) {
	optionID, err := strconv.ParseInt(c.Param("optionId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid option ID")
		return
	}
	h.apply(c, Command{Op: OpToggleOption, OptionID: optionID})
}

// ApplyCommand runs a raw command, the same shape the live socket accepts.
func (h *Handler) ApplyCommand(c *gin.Context) {
	var cmd Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid command")
		return
	}
	h.apply(c, cmd)
}

func (h *Handler) apply(c *gin.Context, cmd Command) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.service.Apply(c.Request.Context(), id, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Calculate prices a full quote in one call without a session.
// @Summary Calculate quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/quotes/calculate [post]
func (h *Handler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "company is required")
		return
	}
	view, err := h.service.Calculate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Live upgrades to a websocket that streams quote views and accepts commands.
//
// Endpoint: GET /api/v1/quotes/:id/live
func (h *Handler) Live(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if _, err := h.service.Get(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("quote live upgrade failed id=%s err=%v", id, err)
		return
	}
	if err := h.service.Subscribe(c.Request.Context(), id, conn); err != nil {
		conn.Close()
	}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Quote session not found")
	case errors.Is(err, catalog.ErrCompanyNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Company not found")
	case errors.Is(err, ErrUnknownOp):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, err.Error())
	default:
		log.Printf("quote handler error path=%s err=%v", c.Request.URL.Path, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
	}
}
