package domain

// Filters never touch the stored collection; they only parameterize the
// next fetch. Zero-valued fields are omitted from the query string.

type DocumentFilter struct {
	Type   DocumentType   `json:"type,omitempty"`
	Status DocumentStatus `json:"status,omitempty"`
	Search string         `json:"search,omitempty"`
}

type InboxFilter struct {
	MessageType MessageType `json:"message_type,omitempty"`
	SenderRole  SenderRole  `json:"sender_role,omitempty"`
	IsRead      *bool       `json:"is_read,omitempty"`
	Search      string      `json:"search,omitempty"`
}
