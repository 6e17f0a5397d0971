package shopserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	ordersapp "github.com/Apurer/go-gin-shop-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	paymentsapp "github.com/Apurer/go-gin-shop-api/internal/domains/payments/application"
	paymentsdomain "github.com/Apurer/go-gin-shop-api/internal/domains/payments/domain"
	paymentsports "github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
	apierrors "github.com/Apurer/go-gin-shop-api/internal/shared/errors"
)

// accessDeniedDetail is shared by missing and foreign orders so callers cannot probe ids.
const accessDeniedDetail = "Access denied or order not found"

var (
	orderProblems   = apierrors.NewChainedResponder("", orderProblem)
	paymentProblems = apierrors.NewChainedResponder("", paymentProblem)
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError answers with the problem template for status.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	respondProblem(c, apierrors.FromStatus(status).WithDetail(err.Error()))
}

// respondBindError reports payload binding failures, listing invalid fields when known.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		apierrors.DefaultResponder.ValidationFailed(c, fields)
		return
	}
	respondError(c, http.StatusBadRequest, err)
}

func respondOrderError(c *gin.Context, err error) {
	orderProblems.RespondError(c, err)
}

func respondPaymentError(c *gin.Context, err error) {
	paymentProblems.RespondError(c, err)
}

func orderProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersapp.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrAccessDenied), errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrForbidden.WithDetail(accessDeniedDetail), true
	case errors.Is(err, ordersdomain.ErrInvalidTransition):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func paymentProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, paymentsapp.ErrInvalidInput),
		errors.Is(err, paymentsdomain.ErrInvalidAmount),
		errors.Is(err, paymentsapp.ErrPaymentNotApproved):
		return apierrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, paymentsapp.ErrOrderNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, paymentsapp.ErrOrderNotPayable),
		errors.Is(err, paymentsports.ErrCaptureConflict),
		errors.Is(err, ordersdomain.ErrInvalidTransition):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, paymentsdomain.ErrGateway), errors.Is(err, paymentsdomain.ErrInvalidReference):
		return apierrors.ErrPaymentGateway.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
