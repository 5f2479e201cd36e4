package domain

import (
	"errors"
	"time"
)

// LeadKind distinguishes the two landing page forms
type LeadKind string

const (
	LeadKindQuote   LeadKind = "quote"
	LeadKindContact LeadKind = "contact"
)

// Product is the quote form's product type
type Product string

const (
	ProductAuto        Product = "auto"
	ProductResidencial Product = "residencial"
	ProductVida        Product = "vida"
	ProductSaude       Product = "saude"
	ProductConsorcio   Product = "consorcio"
)

// Products lists the quote products in form order
var Products = []Product{ProductAuto, ProductResidencial, ProductVida, ProductSaude, ProductConsorcio}

// Label is the display name used in the WhatsApp message
func (p Product) Label() string {
	switch p {
	case ProductAuto:
		return "Seguro Auto"
	case ProductResidencial:
		return "Seguro Residencial"
	case ProductVida:
		return "Seguro de Vida"
	case ProductSaude:
		return "Plano de Saúde"
	case ProductConsorcio:
		return "Consórcio"
	}
	return string(p)
}

func (p Product) IsValid() bool {
	for _, v := range Products {
		if p == v {
			return true
		}
	}
	return false
}

// Interest is the contact form's subject
type Interest string

const (
	InterestSeguros   Interest = "seguros"
	InterestSaude     Interest = "saude"
	InterestConsorcio Interest = "consorcio"
	InterestOutros    Interest = "outros"
)

var Interests = []Interest{InterestSeguros, InterestSaude, InterestConsorcio, InterestOutros}

// Label is the display name used in the contact form select
func (i Interest) Label() string {
	switch i {
	case InterestSeguros:
		return "Seguros"
	case InterestSaude:
		return "Planos de Saúde"
	case InterestConsorcio:
		return "Consórcios"
	case InterestOutros:
		return "Outros"
	}
	return string(i)
}

func (i Interest) IsValid() bool {
	for _, v := range Interests {
		if i == v {
			return true
		}
	}
	return false
}

// LeadStatus is the position of a lead in the sales pipeline
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusLost      LeadStatus = "LOST"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid lead status transition")
	ErrLeadNotFound            = errors.New("lead not found")
)

// validTransitions maps the current status to the statuses it may move to
var validTransitions = map[LeadStatus][]LeadStatus{
	LeadStatusNew:       {LeadStatusContacted, LeadStatusLost},
	LeadStatusContacted: {LeadStatusQualified, LeadStatusLost},
	LeadStatusQualified: {LeadStatusConverted, LeadStatusLost},
	LeadStatusConverted: {},
	LeadStatusLost:      {},
}

// IsTerminal returns true for CONVERTED and LOST
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusConverted || s == LeadStatusLost
}

func (s LeadStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if moving to target is allowed
func (s LeadStatus) CanTransitionTo(target LeadStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s
func (s LeadStatus) NextStatuses() []LeadStatus {
	next := validTransitions[s]
	out := make([]LeadStatus, len(next))
	copy(out, next)
	return out
}

// Lead is a captured quote or contact request
type Lead struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenant_id"`
	Kind        LeadKind          `json:"kind"`
	Product     Product           `json:"product,omitempty"`
	Interest    Interest          `json:"interest,omitempty"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	CPF         string            `json:"cpf,omitempty"`
	Message     string            `json:"message,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
	Status      LeadStatus        `json:"status"`
	WhatsAppURL string            `json:"whatsapp_url"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// LeadTransition records one status change
type LeadTransition struct {
	ID        string     `json:"id"`
	LeadID    string     `json:"lead_id"`
	From      LeadStatus `json:"from"`
	To        LeadStatus `json:"to"`
	ChangedBy string     `json:"changed_by,omitempty"`
	Note      string     `json:"note,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
