package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  InvoiceStatus
		dueDate time.Time
		want    InvoiceStatus
	}{
		{
			name:    "pending past due becomes overdue",
			status:  InvoiceStatusPending,
			dueDate: now.Add(-time.Second),
			want:    InvoiceStatusOverdue,
		},
		{
			name:    "pending due exactly now stays pending",
			status:  InvoiceStatusPending,
			dueDate: now,
			want:    InvoiceStatusPending,
		},
		{
			name:    "pending due in the future stays pending",
			status:  InvoiceStatusPending,
			dueDate: now.Add(24 * time.Hour),
			want:    InvoiceStatusPending,
		},
		{
			name:    "paid never turns overdue",
			status:  InvoiceStatusPaid,
			dueDate: now.Add(-30 * 24 * time.Hour),
			want:    InvoiceStatusPaid,
		},
		{
			name:    "cancelled never turns overdue",
			status:  InvoiceStatusCancelled,
			dueDate: now.Add(-time.Hour),
			want:    InvoiceStatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invoice{Status: tt.status, DueDate: tt.dueDate}
			assert.Equal(t, tt.want, inv.EffectiveStatus(now))
		})
	}
}
