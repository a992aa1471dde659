package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reminderHandler exposes a manual trigger for due-payment reminders. The
// periodic runner covers the scheduled case.
type reminderHandler struct {
	reminderService portssvc.ReminderSvc
	defaultDays     int
}

func newReminderHandler(rs portssvc.ReminderSvc, defaultDays int) *reminderHandler {
	return &reminderHandler{
		reminderService: rs,
		defaultDays:     defaultDays,
	}
}

// registerReminderRoutes registers the reminder trigger route.
func registerReminderRoutes(rg *gin.RouterGroup, reminderService portssvc.ReminderSvc, defaultDays int) {
	h := newReminderHandler(reminderService, defaultDays)

	rg.POST("/reminders/run", h.runReminders)
}

// runReminders godoc
// @Summary Send due-payment reminders now
// @Description Notifies borrowers of loans due within the given window. Uses the configured window when 'days' is omitted.
// @Tags reminders
// @Produce  json
// @Param   days query int false "Days ahead to look for due loans"
// @Success 200 {object} map[string]int "Count of reminders sent"
// @Failure 400 {object} map[string]string "Invalid days value"
// @Failure 500 {object} map[string]string "Failed to send reminders"
// @Router /reminders/run [post]
func (h *reminderHandler) runReminders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	days := h.defaultDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days: must be a non-negative integer"})
			return
		}
		days = parsed
	}

	sent, err := h.reminderService.SendDueReminders(c.Request.Context(), days)
	if err != nil {
		logger.Error("Failed to send due reminders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reminders"})
		return
	}

	logger.Info("Due reminders sent", slog.Int("count", sent), slog.Int("within_days", days))
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
