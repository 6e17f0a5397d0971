package paypal

import (
	paypalclient "github.com/Apurer/go-gin-shop-api/internal/clients/http/paypal"
	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/domain"
)

func toPaymentRequest(req domain.IntentRequest) paypalclient.PaymentRequest {
	return paypalclient.PaymentRequest{
		Intent: "sale",
		Payer:  paypalclient.Payer{PaymentMethod: "paypal"},
		Transactions: []paypalclient.Transaction{{
			Amount: paypalclient.Amount{
				Total:    req.Amount.StringFixed(2),
				Currency: req.Currency,
			},
			Description:   req.Description,
			InvoiceNumber: req.Reference,
		}},
		RedirectURLs: paypalclient.RedirectURLs{
			ReturnURL: req.ReturnURL,
			CancelURL: req.CancelURL,
		},
	}
}

func toCapture(payment *paypalclient.Payment) *domain.Capture {
	return &domain.Capture{
		IntentID:      payment.ID,
		State:         payment.State,
		Reference:     payment.InvoiceNumber(),
		TransactionID: payment.SaleID(),
		PayerID:       payment.PayerID(),
	}
}
