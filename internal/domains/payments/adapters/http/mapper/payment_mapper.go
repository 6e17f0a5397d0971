package mapper

import (
	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

// PayResponse sends the payer to the provider's approval page.
type PayResponse struct {
	RedirectURL string `json:"redirect_url" example:"https://www.sandbox.paypal.com/checkoutnow?token=EC-123"`
	PaymentID   string `json:"payment_id" example:"PAYID-123"`
	OrderID     int64  `json:"order_id" example:"42"`
}

// Payment describes a confirmed payment.
type Payment struct {
	PaymentID     string `json:"payment_id" example:"PAYID-123"`
	OrderID       int64  `json:"order_id" example:"42"`
	State         string `json:"state" example:"approved"`
	TransactionID string `json:"transaction_id,omitempty" example:"SALE-1"`
	OrderStatus   string `json:"order_status" example:"PAID"`
	AlreadyPaid   bool   `json:"already_paid"`
}

// SuccessResponse is returned by GET /payment/success.
type SuccessResponse struct {
	Message string  `json:"message" example:"Payment successful"`
	Payment Payment `json:"payment"`
}

// MessageResponse carries a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"Payment cancelled"`
}

// FromInitiateResult converts the initiation result to the transport shape.
func FromInitiateResult(result *paymentsports.InitiateResult) PayResponse {
	if result == nil {
		return PayResponse{}
	}
	return PayResponse{RedirectURL: result.RedirectURL, PaymentID: result.IntentID, OrderID: result.OrderID}
}

// FromConfirmResult converts a settled payment to the success payload.
func FromConfirmResult(result *paymentsports.ConfirmResult) SuccessResponse {
	if result == nil {
		return SuccessResponse{Message: "Payment successful"}
	}
	return SuccessResponse{
		Message: "Payment successful",
		Payment: Payment{
			PaymentID:     result.IntentID,
			OrderID:       result.OrderID,
			State:         result.State,
			TransactionID: result.TransactionID,
			OrderStatus:   result.OrderStatus,
			AlreadyPaid:   result.AlreadyPaid,
		},
	}
}
