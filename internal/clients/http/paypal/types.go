package paypal

import "fmt"

// Amount is a PayPal money value. Total is a decimal string with two fraction digits.
type Amount struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

// Transaction is one purchase unit of a payment.
type Transaction struct {
	Amount           Amount            `json:"amount"`
	Description      string            `json:"description,omitempty"`
	InvoiceNumber    string            `json:"invoice_number,omitempty"`
	RelatedResources []RelatedResource `json:"related_resources,omitempty"`
}

// RelatedResource carries the sale created when a payment is executed.
type RelatedResource struct {
	Sale *Sale `json:"sale,omitempty"`
}

// Sale is the captured transaction.
type Sale struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// Payer selects the funding method. PayerInfo is only present on responses.
type Payer struct {
	PaymentMethod string     `json:"payment_method"`
	PayerInfo     *PayerInfo `json:"payer_info,omitempty"`
}

// PayerInfo identifies the account that approved the payment.
type PayerInfo struct {
	PayerID string `json:"payer_id"`
}

// RedirectURLs tell PayPal where to send the payer after approval or cancellation.
type RedirectURLs struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

// Link is a HATEOAS link returned by the API.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// PaymentRequest is the body of a create payment call.
type PaymentRequest struct {
	Intent       string        `json:"intent"`
	Payer        Payer         `json:"payer"`
	Transactions []Transaction `json:"transactions"`
	RedirectURLs RedirectURLs  `json:"redirect_urls"`
}

// Payment is the resource returned by create, execute and show.
type Payment struct {
	ID           string        `json:"id"`
	Intent       string        `json:"intent,omitempty"`
	State        string        `json:"state"`
	Payer        *Payer        `json:"payer,omitempty"`
	Transactions []Transaction `json:"transactions,omitempty"`
	Links        []Link        `json:"links,omitempty"`
}

// PayerID returns the approving payer, if PayPal reported one.
func (p *Payment) PayerID() string {
	if p == nil || p.Payer == nil || p.Payer.PayerInfo == nil {
		return ""
	}
	return p.Payer.PayerInfo.PayerID
}

// ApprovalURL returns the link the payer must visit, if present.
func (p *Payment) ApprovalURL() string {
	if p == nil {
		return ""
	}
	for _, link := range p.Links {
		if link.Rel == "approval_url" {
			return link.Href
		}
	}
	return ""
}

// InvoiceNumber returns the invoice number of the first transaction.
func (p *Payment) InvoiceNumber() string {
	if p == nil || len(p.Transactions) == 0 {
		return ""
	}
	return p.Transactions[0].InvoiceNumber
}

// SaleID returns the id of the first captured sale.
func (p *Payment) SaleID() string {
	if p == nil {
		return ""
	}
	for _, tx := range p.Transactions {
		for _, res := range tx.RelatedResources {
			if res.Sale != nil && res.Sale.ID != "" {
				return res.Sale.ID
			}
		}
	}
	return ""
}

type executeRequest struct {
	PayerID string `json:"payer_id"`
}

// APIError is the error body PayPal returns on non-2xx responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	DebugID    string `json:"debug_id"`
}

// ErrorPaymentAlreadyDone is the error name PayPal uses when a payment is executed twice.
const ErrorPaymentAlreadyDone = "PAYMENT_ALREADY_DONE"

// AlreadyExecuted reports whether the call failed because the payment was executed before.
func (e *APIError) AlreadyExecuted() bool {
	return e != nil && e.Name == ErrorPaymentAlreadyDone
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Name
	}
	if msg == "" {
		msg = "unexpected response"
	}
	return fmt.Sprintf("paypal API %d: %s", e.StatusCode, msg)
}
