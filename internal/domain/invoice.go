package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	IssueDate     time.Time     `json:"issue_date"`
	DueDate       time.Time     `json:"due_date"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	Amount        float64       `json:"amount"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Status        InvoiceStatus `json:"status"`
	Items         []LineItem    `json:"items"`
	PaymentMethod string        `json:"payment_method,omitempty"`
}

func (i Invoice) EntityID() string { return i.ID }

// EffectiveStatus resolves the display status. "overdue" is never stored by
// the server; it is derived from a pending invoice whose due date is
// strictly in the past. An invoice due exactly now is still pending.
func (i Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if i.Status == InvoiceStatusPending && now.After(i.DueDate) {
		return InvoiceStatusOverdue
	}
	return i.Status
}

type InvoiceStats struct {
	TotalInvoices int     `json:"total_invoices"`
	OpenAmount    float64 `json:"open_amount"`
	PaidAmount    float64 `json:"paid_amount"`
}
