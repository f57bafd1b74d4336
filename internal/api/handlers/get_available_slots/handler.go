package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidShopID    = "некорректный ID салона"
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidStylistID = "некорректный ID мастера"
	msgMissingServiceID = "ID услуги обязателен"
	msgMissingDate      = "дата обязательна"
	msgInvalidParams    = "некорректные параметры запроса"
	msgShopNotFound     = "салон не найден"
	msgStylistNotFound  = "мастер не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgServiceInactive  = "услуга недоступна"
	msgComboNotAllowed  = "услуги нельзя объединить в комбо-запись"
	msgDateInPast       = "дата уже прошла"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD),
// secondaryServiceId, stylistId, utcOffsetMinutes (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем shopId из URL
	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	query := r.URL.Query()

	// Извлекаем serviceId из query параметров
	serviceIDStr := query.Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /shops/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Вторая услуга для комбо (опционально)
	var secondaryServiceID *int64
	if s := query.Get("secondaryServiceId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/available-slots - Invalid secondary service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		secondaryServiceID = &id
	}

	// Фильтр по мастеру (опционально)
	var stylistID *int64
	if s := query.Get("stylistId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/available-slots - Invalid stylist ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStylistID)
			return
		}
		stylistID = &id
	}

	// Извлекаем date из query параметров
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /shops/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Формируем запрос к use case
	useCaseReq, err := ToUseCaseRequest(shopID, serviceID, dateStr, secondaryServiceID, stylistID, query.Get("utcOffsetMinutes"))
	if err != nil {
		h.logger.Warn("GET /shops/{id}/available-slots - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/available-slots - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, getAvailableSlots.ErrStylistNotFound):
			h.logger.Warn("GET /shops/{id}/available-slots - Stylist not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /shops/{id}/available-slots - Service not found: shop_id=%d, service_id=%d", shopID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /shops/{id}/available-slots - Service inactive: shop_id=%d, service_id=%d", shopID, serviceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrComboNotAllowed):
			h.logger.Warn("GET /shops/{id}/available-slots - Combo not allowed: shop_id=%d, service_id=%d", shopID, serviceID)
			handlers.RespondBadRequest(w, msgComboNotAllowed)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /shops/{id}/available-slots - Date in the past: shop_id=%d, date=%s", shopID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /shops/{id}/available-slots - Failed to get slots: shop_id=%d, service_id=%d, error=%v",
				shopID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /shops/{id}/available-slots - Slots retrieved: shop_id=%d, service_id=%d, slots_count=%d",
		shopID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
