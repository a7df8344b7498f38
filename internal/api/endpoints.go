package api

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"microsite-console/internal/domain"

	"github.com/valyala/fasthttp"
)

// List responses carry the collection plus the server's denormalized
// stats block.

type DocumentList struct {
	Documents []domain.Document    `json:"documents"`
	Stats     domain.DocumentStats `json:"stats"`
}

type InvoiceList struct {
	Invoices []domain.Invoice    `json:"invoices"`
	Stats    domain.InvoiceStats `json:"stats"`
}

type InboxPage struct {
	Messages []domain.Message  `json:"messages"`
	Stats    domain.InboxStats `json:"stats"`
}

type NewsList struct {
	Articles []domain.NewsArticle `json:"articles"`
}

// club microsite

func (c *Client) GetClubMicrosite(ctx context.Context) (*domain.MicrositeProfile, error) {
	return doJSON[domain.MicrositeProfile](ctx, c, fasthttp.MethodGet, "/api/club/microsite", nil)
}

func (c *Client) UpdateClubMicrosite(ctx context.Context, profile domain.MicrositeProfile) (*domain.MicrositeProfile, error) {
	return doJSON[domain.MicrositeProfile](ctx, c, fasthttp.MethodPut, "/api/club/microsite", profile)
}

func (c *Client) UploadClubLogo(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	return c.uploadMultipart(ctx, "/api/club/microsite/logo", fileName, data)
}

func (c *Client) PublishClubMicrosite(ctx context.Context) (*domain.MicrositeProfile, error) {
	return doJSON[domain.MicrositeProfile](ctx, c, fasthttp.MethodPost, "/api/club/microsite/publish", nil)
}

// partner profile

func (c *Client) GetPartnerProfile(ctx context.Context) (*domain.MicrositeProfile, error) {
	return doJSON[domain.MicrositeProfile](ctx, c, fasthttp.MethodGet, "/api/partner/profile", nil)
}

func (c *Client) UpdatePartnerProfile(ctx context.Context, profile domain.MicrositeProfile) (*domain.MicrositeProfile, error) {
	return doJSON[domain.MicrositeProfile](ctx, c, fasthttp.MethodPut, "/api/partner/profile", profile)
}

func (c *Client) GetPartnerAffiliation(ctx context.Context) (*domain.Affiliation, error) {
	return doJSON[domain.Affiliation](ctx, c, fasthttp.MethodGet, "/api/partner/affiliation", nil)
}

// documents

func (c *Client) ListDocuments(ctx context.Context, filter domain.DocumentFilter) (*DocumentList, error) {
	q := url.Values{}
	if filter.Type != "" {
		q.Set("type", string(filter.Type))
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	return doJSON[DocumentList](ctx, c, fasthttp.MethodGet, withQuery("/api/partner/documents", q), nil)
}

// CreateDocumentRequest is phase two of a document upload: the file is
// already stored and referenced by its URL.
type CreateDocumentRequest struct {
	Name     string              `json:"name"`
	Type     domain.DocumentType `json:"type"`
	FileURL  string              `json:"file_url"`
	FileSize int64               `json:"file_size"`
}

func (c *Client) CreateDocument(ctx context.Context, req CreateDocumentRequest) (*domain.Document, error) {
	return doJSON[domain.Document](ctx, c, fasthttp.MethodPost, "/api/partner/documents/upload", req)
}

func (c *Client) SignDocument(ctx context.Context, id string) (*domain.Document, error) {
	return doJSON[domain.Document](ctx, c, fasthttp.MethodPost, "/api/partner/documents/"+id+"/sign", nil)
}

func (c *Client) DownloadDocument(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, fasthttp.MethodGet, "/api/partner/documents/"+id+"/download", "", nil)
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.do(ctx, fasthttp.MethodDelete, "/api/partner/documents/"+id, "", nil)
	return err
}

// invoices

func (c *Client) ListInvoices(ctx context.Context) (*InvoiceList, error) {
	return doJSON[InvoiceList](ctx, c, fasthttp.MethodGet, "/api/partner/invoices", nil)
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return doJSON[domain.Invoice](ctx, c, fasthttp.MethodGet, "/api/partner/invoices/"+id, nil)
}

func (c *Client) DownloadInvoice(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, fasthttp.MethodGet, "/api/partner/invoices/"+id+"/download", "", nil)
}

type payInvoiceRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (c *Client) PayInvoice(ctx context.Context, id, paymentMethod string) (*domain.Invoice, error) {
	return doJSON[domain.Invoice](ctx, c, fasthttp.MethodPost, "/api/partner/invoices/"+id+"/pay", payInvoiceRequest{PaymentMethod: paymentMethod})
}

// inbox

func (c *Client) ListInbox(ctx context.Context, filter domain.InboxFilter) (*InboxPage, error) {
	q := url.Values{}
	if filter.MessageType != "" {
		q.Set("message_type", string(filter.MessageType))
	}
	if filter.SenderRole != "" {
		q.Set("sender_role", string(filter.SenderRole))
	}
	if filter.IsRead != nil {
		q.Set("is_read", strconv.FormatBool(*filter.IsRead))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	return doJSON[InboxPage](ctx, c, fasthttp.MethodGet, withQuery("/api/partner/inbox", q), nil)
}

func (c *Client) MarkMessageRead(ctx context.Context, id string) (*domain.Message, error) {
	return doJSON[domain.Message](ctx, c, fasthttp.MethodPut, "/api/partner/messages/"+id+"/read", nil)
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	_, err := c.do(ctx, fasthttp.MethodDelete, "/api/partner/messages/"+id, "", nil)
	return err
}

// statistics

func (c *Client) GetStatistics(ctx context.Context, r domain.DateRange) (*domain.StatisticsSnapshot, error) {
	return doJSON[domain.StatisticsSnapshot](ctx, c, fasthttp.MethodGet, withQuery("/api/partner/statistics", rangeQuery(r)), nil)
}

// ExportStatistics returns the opaque export blob; the caller decides
// where to save it.
func (c *Client) ExportStatistics(ctx context.Context, r domain.DateRange, format domain.ExportFormat) ([]byte, error) {
	q := rangeQuery(r)
	q.Set("format", string(format))
	return c.do(ctx, fasthttp.MethodGet, withQuery("/api/partner/statistics/export", q), "", nil)
}

// state microsite

func stateMicrositePath(stateID string) string {
	if stateID == "" {
		return "/api/state/microsite"
	}
	return "/api/state/microsite/" + stateID
}

func (c *Client) GetStateMicrosite(ctx context.Context, stateID string) (*domain.MicrositeProfile, error) {
	return doJSON[domain.MicrositeProfile](ctx, c, fasthttp.MethodGet, stateMicrositePath(stateID), nil)
}

func (c *Client) UpdateStateMicrosite(ctx context.Context, stateID string, profile domain.MicrositeProfile) (*domain.MicrositeProfile, error) {
	return doJSON[domain.MicrositeProfile](ctx, c, fasthttp.MethodPut, stateMicrositePath(stateID), profile)
}

// state news

type NewsRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	IsFeatured bool   `json:"is_featured"`
	ImageURL   string `json:"image_url,omitempty"`
}

func (c *Client) ListNews(ctx context.Context) (*NewsList, error) {
	return doJSON[NewsList](ctx, c, fasthttp.MethodGet, "/api/state/microsite/news", nil)
}

func (c *Client) CreateNews(ctx context.Context, req NewsRequest) (*domain.NewsArticle, error) {
	return doJSON[domain.NewsArticle](ctx, c, fasthttp.MethodPost, "/api/state/microsite/news", req)
}

func (c *Client) UpdateNews(ctx context.Context, id string, req NewsRequest) (*domain.NewsArticle, error) {
	return doJSON[domain.NewsArticle](ctx, c, fasthttp.MethodPut, "/api/state/microsite/news/"+id, req)
}

func (c *Client) DeleteNews(ctx context.Context, id string) error {
	_, err := c.do(ctx, fasthttp.MethodDelete, "/api/state/microsite/news/"+id, "", nil)
	return err
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func rangeQuery(r domain.DateRange) url.Values {
	q := url.Values{}
	if !r.StartDate.IsZero() {
		q.Set("startDate", r.StartDate.Format(time.DateOnly))
	}
	if !r.EndDate.IsZero() {
		q.Set("endDate", r.EndDate.Format(time.DateOnly))
	}
	return q
}
