package domain

// Denormalized counter adjustments applied after a confirmed mutation.
// Each adjusts by exactly one and floors at zero; the server remains the
// authority and corrects any drift on the next full fetch.

func floorDec(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}

func (s *InboxStats) MessageRead() {
	s.UnreadMessages = floorDec(s.UnreadMessages)
}

func (s *InboxStats) MessageRemoved() {
	s.TotalMessages = floorDec(s.TotalMessages)
}

func (s *DocumentStats) DocumentRemoved() {
	s.TotalDocuments = floorDec(s.TotalDocuments)
}

func (s *DocumentStats) DocumentSigned() {
	s.PendingSignature = floorDec(s.PendingSignature)
}

// InvoicePaid moves the invoice total from the open to the paid bucket,
// flooring the open amount at zero.
func (s *InvoiceStats) InvoicePaid(total float64) {
	s.OpenAmount -= total
	if s.OpenAmount < 0 {
		s.OpenAmount = 0
	}
	s.PaidAmount += total
}
