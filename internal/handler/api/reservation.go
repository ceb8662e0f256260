package api

import (
	"errors"
	"net/http"

	reqdto "suitcase-timer/internal/handler/dto/request"
	resdto "suitcase-timer/internal/handler/dto/response"
	"suitcase-timer/internal/handler/httperr"
	"suitcase-timer/internal/usecase/commands"
	"suitcase-timer/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(
	reservationCommands commands.ReservationCommands,
	reservationQueries queries.ReservationQueries,
) *ReservationHandler {
	return &ReservationHandler{
		commands: reservationCommands,
		queries:  reservationQueries,
	}
}

// Open checks out the suitcase for the fixed hold duration.
func (h *ReservationHandler) Open(c *gin.Context) {
	var req reqdto.OpenReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	params := commands.OpenParams{
		UserID:    req.UserID,
		UserName:  req.UserName,
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
	}

	res, err := h.commands.Open(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrAlreadyActive):
			httperr.AbortWithError(c, http.StatusConflict, err, "A reservation is already active", nil)
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid reservation parameters", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservation(res, res.CreatedAt()))
}

// Status reports the remaining hold time, or availability when no live
// reservation exists.
func (h *ReservationHandler) Status(c *gin.Context) {
	view, err := h.queries.Status(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromStatusView(view))
}

// Cancel releases the suitcase early. Only the owner may cancel.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	var req reqdto.CancelReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	// Any interaction makes the caller a notification recipient, like the
	// original bot registering every button press.
	_ = h.commands.Register(c.Request.Context(), req.UserID)

	if err := h.commands.Cancel(c.Request.Context(), req.UserID); err != nil {
		switch {
		case errors.Is(err, commands.ErrNoActiveReservation):
			httperr.AbortWithError(c, http.StatusNotFound, err, "No active reservation", nil)
		case errors.Is(err, commands.ErrNotOwner):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Only the user who opened the suitcase may cancel", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "cancelled",
	})
}

// Register adds the caller to the notification recipient set.
func (h *ReservationHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRecipientRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	if err := h.commands.Register(c.Request.Context(), req.UserID); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "registered",
	})
}
