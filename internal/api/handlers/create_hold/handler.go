package create_hold

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createHold "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_hold"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgShopNotFound       = "салон не найден"
	msgStylistNotFound    = "мастер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна"
	msgComboNotAllowed    = "услуги нельзя объединить в комбо-запись"
	msgSlotConflict       = "слот уже занят"
	msgOutsideHours       = "слот вне рабочих часов мастера"
	msgStartTimeInPast    = "время начала уже прошло"
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/hold
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/hold - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/hold - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings/hold - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrShopNotFound):
			h.logger.Warn("POST /bookings/hold - Shop not found: shop_id=%d", req.ShopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, createHold.ErrStylistNotFound):
			h.logger.Warn("POST /bookings/hold - Stylist not found: shop_id=%d, stylist_id=%d", req.ShopID, req.StylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, createHold.ErrServiceNotFound):
			h.logger.Warn("POST /bookings/hold - Service not found: shop_id=%d, service_id=%d", req.ShopID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createHold.ErrServiceInactive):
			h.logger.Warn("POST /bookings/hold - Service inactive: shop_id=%d, service_id=%d", req.ShopID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createHold.ErrComboNotAllowed):
			h.logger.Warn("POST /bookings/hold - Combo not allowed: shop_id=%d, service_id=%d", req.ShopID, req.ServiceID)
			handlers.RespondBadRequest(w, msgComboNotAllowed)

		case errors.Is(err, createHold.ErrSlotConflict):
			h.logger.Warn("POST /bookings/hold - Slot conflict: shop_id=%d, stylist_id=%d, start=%s",
				req.ShopID, req.StylistID, req.StartTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createHold.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings/hold - Outside working hours: shop_id=%d, stylist_id=%d, start=%s",
				req.ShopID, req.StylistID, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, createHold.ErrStartTimeInPast):
			h.logger.Warn("POST /bookings/hold - Start time in past: start=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgStartTimeInPast)

		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /bookings/hold - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/hold - Failed to create hold: shop_id=%d, stylist_id=%d, error=%v",
				req.ShopID, req.StylistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/hold - Hold created: booking_id=%d, reference=%s", result.BookingID, result.Reference)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
