package domain

import "time"

type DocumentType string

const (
	DocumentTypeContract    DocumentType = "contract"
	DocumentTypeInvoice     DocumentType = "invoice"
	DocumentTypeAgreement   DocumentType = "agreement"
	DocumentTypeCertificate DocumentType = "certificate"
	DocumentTypeOther       DocumentType = "other"
)

type DocumentStatus string

const (
	DocumentStatusActive   DocumentStatus = "active"
	DocumentStatusExpired  DocumentStatus = "expired"
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusArchived DocumentStatus = "archived"
)

type Document struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       DocumentType   `json:"type"`
	FileURL    string         `json:"file_url"`
	FileSize   int64          `json:"file_size"`
	UploadedAt time.Time      `json:"uploaded_at"`
	UploadedBy string         `json:"uploaded_by"`
	IsSigned   bool           `json:"is_signed"`
	SignedAt   *time.Time     `json:"signed_at,omitempty"`
	ExpiryDate *time.Time     `json:"expiry_date,omitempty"`
	Status     DocumentStatus `json:"status"`
}

func (d Document) EntityID() string { return d.ID }

// DocumentStats is the denormalized block returned alongside the document
// list. The server owns these numbers; the client only adjusts them after
// confirmed mutations.
type DocumentStats struct {
	TotalDocuments   int `json:"total_documents"`
	PendingSignature int `json:"pending_signature"`
	ExpiringSoon     int `json:"expiring_soon"`
}

type SenderRole string

const (
	SenderRoleAdmin  SenderRole = "admin"
	SenderRoleState  SenderRole = "state"
	SenderRoleClub   SenderRole = "club"
	SenderRolePlayer SenderRole = "player"
)

type MessageType string

const (
	MessageTypeAnnouncement MessageType = "Announcement"
	MessageTypeDirect       MessageType = "Direct"
	MessageTypeSystem       MessageType = "System"
	MessageTypeTournament   MessageType = "Tournament"
)

type Sender struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Role     SenderRole `json:"role"`
}

type Attachment struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

type Message struct {
	ID          string       `json:"id"`
	Sender      Sender       `json:"sender"`
	Subject     string       `json:"subject"`
	Content     string       `json:"content"`
	Type        MessageType  `json:"type"`
	SentAt      time.Time    `json:"sent_at"`
	IsRead      bool         `json:"is_read"`
	ReadAt      *time.Time   `json:"read_at,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

func (m Message) EntityID() string { return m.ID }

type InboxStats struct {
	TotalMessages  int `json:"total_messages"`
	UnreadMessages int `json:"unread_messages"`
}

type MicrositeType string

const (
	MicrositeTypeClub    MicrositeType = "club"
	MicrositeTypePartner MicrositeType = "partner"
	MicrositeTypeState   MicrositeType = "state"
)

type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// MicrositeProfile is the editable public profile of a club, partner or
// state committee. Completion and visitor counts are server-computed and
// read-only here.
type MicrositeProfile struct {
	ID             string        `json:"id"`
	Type           MicrositeType `json:"type"`
	Name           string        `json:"name"`
	ContactPerson  string        `json:"contact_person"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	Description    string        `json:"description"`
	LogoURL        string        `json:"logo_url"`
	BannerURL      string        `json:"banner_url"`
	PrimaryColor   string        `json:"primary_color"`
	SecondaryColor string        `json:"secondary_color"`
	Website        string        `json:"website"`
	Social         SocialLinks   `json:"social"`
	IsPublished    bool          `json:"is_published"`
	PublishedAt    *time.Time    `json:"published_at,omitempty"`
	CompletionPct  int           `json:"completion_pct"`
	VisitorsTotal  int           `json:"visitors_total"`
	VisitorsMonth  int           `json:"visitors_month"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (p MicrositeProfile) EntityID() string { return p.ID }

// Affiliation is the partner's read-only membership record.
type Affiliation struct {
	ID          string     `json:"id"`
	PartnerID   string     `json:"partner_id"`
	StateName   string     `json:"state_name"`
	MemberSince time.Time  `json:"member_since"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
	Status      string     `json:"status"`
}

type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorName  string    `json:"author_name"`
	PublishedAt time.Time `json:"published_at"`
	IsFeatured  bool      `json:"is_featured"`
	ImageURL    string    `json:"image_url,omitempty"`
}

func (n NewsArticle) EntityID() string { return n.ID }
