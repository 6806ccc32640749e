package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pruebavolte/salvadorex-queue/internal/middlewares"
	"github.com/pruebavolte/salvadorex-queue/internal/models"
	"github.com/pruebavolte/salvadorex-queue/internal/queue"
)

type HandlerQueue struct {
	logger   *zerolog.Logger
	service  *queue.Service
	validate *validator.Validate
}

// joinRequest is the public enqueue body. UserId is the legacy tenant key
// kept for walk-in kiosks; TenantId wins when both are present.
type joinRequest struct {
	UserId        string `json:"userId"        validate:"omitempty"`
	TenantId      string `json:"tenantId"      validate:"omitempty"`
	CustomerName  string `json:"customerName"  validate:"omitempty,max=200"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone string `json:"customerPhone" validate:"omitempty,max=32"`
}

type joinResponse struct {
	Success              bool              `json:"success"`
	Entry                models.QueueEntry `json:"entry"`
	Position             int               `json:"position"`
	EstimatedWaitMinutes int               `json:"estimatedWaitMinutes"`
	QueueNumber          int               `json:"queueNumber"`
}

type listResponse struct {
	Entries []models.QueueEntry `json:"entries"`
	Stats   models.QueueStats   `json:"stats"`
}

type actionRequest struct {
	Action  string `json:"action"  validate:"required"`
	EntryId string `json:"entryId" validate:"omitempty"`
}

type callNextResponse struct {
	Success          bool              `json:"success"`
	Called           models.QueueEntry `json:"called"`
	RemainingInQueue int               `json:"remainingInQueue"`
}

type actionResponse struct {
	Success bool `json:"success"`
}

// NewQueueHandler - constructor for HandlerQueue.
func NewQueueHandler(service *queue.Service, l *zerolog.Logger) *HandlerQueue {
	return &HandlerQueue{
		logger:   l,
		service:  service,
		validate: validator.New(),
	}
}

// GetQueue handles `GET /api/queue?status=...` for an authenticated tenant.
// The stats block keeps the historical totalServedToday field, which holds
// the all-time served counter.
func (qh *HandlerQueue) GetQueue(response http.ResponseWriter, req *http.Request) {
	//nolint:forcetypeassert
	tenantID := req.Context().Value(middlewares.TenantIDKey).(string)

	filter := req.URL.Query().Get("status")

	entries, err := qh.service.ListQueue(req.Context(), tenantID, filter)
	if err != nil {
		qh.writeError(response, req, err, "error listing queue")

		return
	}

	stats, err := qh.service.Stats(req.Context(), tenantID)
	if err != nil {
		qh.writeError(response, req, err, "error reading queue stats")

		return
	}

	if entries == nil {
		entries = []models.QueueEntry{}
	}

	qh.writeJSON(response, http.StatusOK, listResponse{
		Entries: entries,
		Stats:   stats,
	})
}

// JoinQueue handles `POST /api/queue`. Public: walk-in customers enqueue
// themselves against the tenant key in the body.
func (qh *HandlerQueue) JoinQueue(response http.ResponseWriter, req *http.Request) {
	var body joinRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(response, "Invalid request", http.StatusBadRequest)

		return
	}

	if err := qh.validate.Struct(body); err != nil {
		http.Error(response, "Invalid input: "+err.Error(), http.StatusBadRequest)

		return
	}

	tenantID := body.TenantId
	if tenantID == "" {
		tenantID = body.UserId
	}

	result, err := qh.service.Enqueue(req.Context(), tenantID, models.CustomerInfo{
		Name:  body.CustomerName,
		Email: body.CustomerEmail,
		Phone: body.CustomerPhone,
	})
	if err != nil {
		qh.writeError(response, req, err, "error joining queue")

		return
	}

	qh.logger.Info().
		Str("tenantID", tenantID).
		Int("ticket", result.TicketNumber).
		Int("position", result.Position).
		Msg("Customer joined queue")

	qh.writeJSON(response, http.StatusOK, joinResponse{
		Success:              true,
		Entry:                result.Entry,
		Position:             result.Position,
		EstimatedWaitMinutes: result.EstimatedWaitMinutes,
		QueueNumber:          result.TicketNumber,
	})
}

// UpdateQueue handles `PATCH /api/queue` with `{action, entryId}` for an
// authenticated tenant terminal.
func (qh *HandlerQueue) UpdateQueue(response http.ResponseWriter, req *http.Request) {
	//nolint:forcetypeassert
	tenantID := req.Context().Value(middlewares.TenantIDKey).(string)

	var body actionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(response, "Invalid request", http.StatusBadRequest)

		return
	}

	if err := qh.validate.Struct(body); err != nil {
		http.Error(response, "Invalid input: "+err.Error(), http.StatusBadRequest)

		return
	}

	switch body.Action {
	case "next":
		result, err := qh.service.CallNext(req.Context(), tenantID)
		if err != nil {
			qh.writeError(response, req, err, "error calling next entry")

			return
		}

		qh.writeJSON(response, http.StatusOK, callNextResponse{
			Success:          true,
			Called:           result.Called,
			RemainingInQueue: result.Remaining,
		})
	case "complete":
		if _, err := qh.service.Complete(req.Context(), tenantID, body.EntryId); err != nil {
			qh.writeError(response, req, err, "error completing entry")

			return
		}

		qh.writeJSON(response, http.StatusOK, actionResponse{Success: true})
	case "cancel":
		if _, err := qh.service.Cancel(req.Context(), tenantID, body.EntryId); err != nil {
			qh.writeError(response, req, err, "error cancelling entry")

			return
		}

		qh.writeJSON(response, http.StatusOK, actionResponse{Success: true})
	default:
		http.Error(response, "Unknown action", http.StatusBadRequest)
	}
}

func (qh *HandlerQueue) writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	responseData, err := json.Marshal(payload)
	if err != nil {
		qh.logger.Error().Err(err).Msg("failed to marshal response")
		http.Error(response, "internal server error", http.StatusInternalServerError)

		return
	}

	response.WriteHeader(status)
	_, _ = response.Write(responseData)
}

// writeError maps service errors to status codes. Internal faults get a
// generic message; detail stays in the server log only.
func (qh *HandlerQueue) writeError(response http.ResponseWriter, req *http.Request, err error, logMessage string) {
	status, message := mapError(err)

	if status == http.StatusInternalServerError {
		qh.logger.Error().Err(err).Str("url", req.URL.String()).Msg(logMessage)
	} else {
		qh.logger.Info().Err(err).Str("url", req.URL.String()).Msg(logMessage)
	}

	http.Error(response, message, status)
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, queue.ErrTenantRequired):
		return http.StatusBadRequest, "tenant id is required"
	case errors.Is(err, queue.ErrQueueEmpty):
		return http.StatusNotFound, "no waiting entries"
	case errors.Is(err, queue.ErrEntryNotFound):
		return http.StatusNotFound, "queue entry not found"
	case errors.Is(err, queue.ErrInvalidTransition):
		return http.StatusConflict, "entry is not in a state that allows this action"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
