package shopserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	paymenthttpmapper "github.com/Apurer/go-gin-shop-api/internal/domains/payments/adapters/http/mapper"
	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

// PaymentAPI wires HTTP transport with payment reconciliation.
type PaymentAPI struct {
	service       paymentsports.Service
	confirmations paymentsports.ConfirmationOrchestrator
}

// NewPaymentAPI creates a PaymentAPI. confirmations may be nil to confirm inline.
func NewPaymentAPI(service paymentsports.Service, confirmations paymentsports.ConfirmationOrchestrator) PaymentAPI {
	return PaymentAPI{service: service, confirmations: confirmations}
}

// Post /payment/pay/:orderId
// Start a payment for an order and return the approval link
//
// @Summary      Initiate payment
// @Tags         payments
// @Produce      json
// @Param        orderId  path      int  true  "Order id"
// @Success      200      {object}  paymenthttpmapper.PayResponse
// @Failure      400      {object}  apierrors.ProblemDetail
// @Failure      404      {object}  apierrors.ProblemDetail
// @Failure      409      {object}  apierrors.ProblemDetail
// @Failure      500      {object}  apierrors.ProblemDetail
// @Router       /payment/pay/{orderId} [post]
func (api *PaymentAPI) Pay(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	result, err := api.service.InitiatePayment(c.Request.Context(), id)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromInitiateResult(result))
}

// Get /payment/success
// Provider callback after the payer approved the payment
//
// @Summary      Complete payment
// @Tags         payments
// @Produce      json
// @Param        paymentId  query     string  true  "Provider payment id"
// @Param        PayerID    query     string  true  "Provider payer id"
// @Success      200        {object}  paymenthttpmapper.SuccessResponse
// @Failure      400        {object}  apierrors.ProblemDetail
// @Failure      409        {object}  apierrors.ProblemDetail
// @Failure      500        {object}  apierrors.ProblemDetail
// @Router       /payment/success [get]
func (api *PaymentAPI) Success(c *gin.Context) {
	input := paymentsports.ConfirmInput{
		IntentID:   strings.TrimSpace(c.Query("paymentId")),
		PayerToken: strings.TrimSpace(c.Query("PayerID")),
	}
	if input.IntentID == "" || input.PayerToken == "" {
		respondError(c, http.StatusBadRequest, errors.New("paymentId and PayerID are required"))
		return
	}
	result, err := api.confirm(c.Request.Context(), input)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromConfirmResult(result))
}

func (api *PaymentAPI) confirm(ctx context.Context, input paymentsports.ConfirmInput) (*paymentsports.ConfirmResult, error) {
	if api.confirmations != nil {
		return api.confirmations.Confirm(ctx, input)
	}
	return api.service.ConfirmPayment(ctx, input)
}

// Get /payment/cancel
// Provider callback after the payer abandoned approval
//
// @Summary      Cancel payment
// @Tags         payments
// @Produce      json
// @Success      200  {object}  paymenthttpmapper.MessageResponse
// @Router       /payment/cancel [get]
func (api *PaymentAPI) Cancel(c *gin.Context) {
	result := api.service.CancelPayment(c.Request.Context())
	c.JSON(http.StatusOK, paymenthttpmapper.MessageResponse{Message: result.Message})
}
