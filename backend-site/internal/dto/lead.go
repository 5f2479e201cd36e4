package dto

import (
	"math"
	"strings"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

// Shared form messages
const (
	MsgName     = "Nome deve ter pelo menos 2 caracteres"
	MsgEmail    = "Email inválido"
	MsgPhone    = "Telefone deve ter pelo menos 10 dígitos"
	MsgMessage  = "Mensagem deve ter pelo menos 10 caracteres"
	MsgProduct  = "Selecione o tipo de produto"
	MsgInterest = "Selecione um interesse"
)

// QuoteRequest is the quote form. Model and Year are the HTML form's vehicle fields.
type QuoteRequest struct {
	Type    string            `json:"type" form:"type" binding:"required,oneof=auto residencial vida saude consorcio"`
	Name    string            `json:"name" form:"name" binding:"min=2"`
	Email   string            `json:"email" form:"email" binding:"required,email"`
	Phone   string            `json:"phone" form:"phone" binding:"min=10"`
	CPF     string            `json:"cpf,omitempty" form:"cpf"`
	Details map[string]string `json:"details,omitempty" form:"-"`
	Model   string            `json:"-" form:"model"`
	Year    string            `json:"-" form:"year"`
}

var quoteMessages = map[string]FieldMessage{
	"Type":  {JSON: "type", Message: MsgProduct},
	"Name":  {JSON: "name", Message: MsgName},
	"Email": {JSON: "email", Message: MsgEmail},
	"Phone": {JSON: "phone", Message: MsgPhone},
}

// Normalize trims input and folds the vehicle form fields into Details
func (r *QuoteRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.CPF = strings.TrimSpace(r.CPF)

	if r.Model != "" || r.Year != "" {
		if r.Details == nil {
			r.Details = map[string]string{}
		}
		if r.Model != "" {
			r.Details["model"] = strings.TrimSpace(r.Model)
		}
		if r.Year != "" {
			r.Details["year"] = strings.TrimSpace(r.Year)
		}
	}
}

// Validate returns per-field messages, nil when valid
func (r *QuoteRequest) Validate() FieldErrors {
	r.Normalize()
	return validate(r, quoteMessages).OrNil()
}

func (r *QuoteRequest) Product() domain.Product {
	return domain.Product(r.Type)
}

// ContactRequest is the contact form
type ContactRequest struct {
	Name     string `json:"name" form:"name" binding:"min=2"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Phone    string `json:"phone" form:"phone" binding:"min=10"`
	Interest string `json:"interest" form:"interest" binding:"required,oneof=seguros saude consorcio outros"`
	Message  string `json:"message" form:"message" binding:"min=10"`
}

var contactMessages = map[string]FieldMessage{
	"Name":     {JSON: "name", Message: MsgName},
	"Email":    {JSON: "email", Message: MsgEmail},
	"Phone":    {JSON: "phone", Message: MsgPhone},
	"Interest": {JSON: "interest", Message: MsgInterest},
	"Message":  {JSON: "message", Message: MsgMessage},
}

func (r *ContactRequest) Validate() FieldErrors {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Message = strings.TrimSpace(r.Message)
	return validate(r, contactMessages).OrNil()
}

// LeadCapturedResponse is returned after a form submission
type LeadCapturedResponse struct {
	Lead        *domain.Lead `json:"lead"`
	WhatsAppURL string       `json:"whatsapp_url"`
	Title       string       `json:"title"`
	Message     string       `json:"message"`
}

// UpdateLeadStatusRequest moves a lead along the pipeline
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=NEW CONTACTED QUALIFIED CONVERTED LOST"`
	Note   string `json:"note" binding:"max=500"`
}

var updateLeadStatusMessages = map[string]FieldMessage{
	"Status": {JSON: "status", Message: "Status inválido"},
	"Note":   {JSON: "note", Message: "Observação deve ter no máximo 500 caracteres"},
}

func (r *UpdateLeadStatusRequest) Validate() FieldErrors {
	return validate(r, updateLeadStatusMessages).OrNil()
}

// LeadDetailResponse is a lead with its status history
type LeadDetailResponse struct {
	Lead         *domain.Lead             `json:"lead"`
	Transitions  []*domain.LeadTransition `json:"transitions"`
	NextStatuses []domain.LeadStatus      `json:"next_statuses"`
}

// ListLeadsQuery is the lead listing filter
type ListLeadsQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=NEW CONTACTED QUALIFIED CONVERTED LOST"`
	Kind   string `form:"kind" binding:"omitempty,oneof=quote contact"`
}

// SetDefaults sets default values for query parameters
func (q *ListLeadsQuery) SetDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
}

// Offset is the index of the first lead of the page. Pages too far out to address clamp to math.MaxInt.
func (q *ListLeadsQuery) Offset() int {
	return PageOffset(q.Page, q.Limit)
}

// PageOffset returns (page-1)*limit without overflowing
func PageOffset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
