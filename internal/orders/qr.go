package orders

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"tablebay/internal/errs"
	"tablebay/internal/models"
)

// qrSize is the pixel width of generated collection codes.
const qrSize = 256

// PickupQR renders the PNG collection code staff scan when a pickup
// order is handed over.
func (s *Service) PickupQR(number string) ([]byte, error) {
	order, err := s.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if order.FulfillmentType != models.FulfillmentPickup {
		return nil, errs.Validation("fulfillment_type", "collection codes exist only for pickup orders")
	}

	data := fmt.Sprintf("tablebay://orders/%s", order.OrderNumber)
	png, err := qrcode.Encode(data, qrcode.Medium, qrSize)
	if err != nil {
		return nil, errs.Transient("encode pickup qr", err)
	}
	return png, nil
}
