package create_hold

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	if req.StylistID <= 0 {
		return fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.SecondaryServiceID != nil {
		if *req.SecondaryServiceID <= 0 {
			return fmt.Errorf("%w: secondaryServiceID must be positive", ErrInvalidInput)
		}
		if *req.SecondaryServiceID == req.ServiceID {
			return fmt.Errorf("%w: combo requires two distinct services", ErrInvalidInput)
		}
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.CustomerUserID <= 0 {
		return fmt.Errorf("%w: customerUserID must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName exceeds %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.PromoID != nil && *req.PromoID <= 0 {
		return fmt.Errorf("%w: promoID must be positive", ErrInvalidInput)
	}

	return nil
}
