// Package handoff builds the WhatsApp deep links leads are sent to.
package handoff

import (
	"fmt"
	"strings"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

const (
	baseURL     = "https://wa.me/"
	countryCode = "55"
	notInformed = "Não informado"
)

// Fixed landing page messages
const (
	HeroMessage        = "Olá! Gostaria de fazer uma cotação."
	AllServicesMessage = "Olá! Gostaria de conhecer todos os serviços disponíveis."
	FAQMessage         = "Olá! Tenho uma dúvida que não encontrei nas perguntas frequentes."
	SpecialistMessage  = "Olá! Gostaria de falar diretamente com um especialista."
)

// Digits keeps only the ASCII digits of phone
func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// URL returns https://wa.me/55<digits>?text=<message>
func URL(phone, message string) string {
	return baseURL + countryCode + Digits(phone) + "?text=" + EncodeURIComponent(message)
}

// EncodeURIComponent percent-encodes s like the browser function of the same name:
// everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is escaped as UTF-8 bytes.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// ContactSectionMessage is used by the landing page contact section
func ContactSectionMessage(tenantName string) string {
	return fmt.Sprintf("Olá! Vim do site da %s e gostaria de falar com um especialista.", tenantName)
}

// FloatingButtonMessage is used by the floating WhatsApp button
func FloatingButtonMessage(tenantName string) string {
	return fmt.Sprintf("Olá! Vim do site da %s e gostaria de mais informações.", tenantName)
}

// ServiceMessage asks about one service card
func ServiceMessage(serviceTitle string) string {
	return fmt.Sprintf("Olá! Tenho interesse em %s. Gostaria de mais informações.", serviceTitle)
}

// QuoteRequest is the data behind a quote message
type QuoteRequest struct {
	Product domain.Product
	Name    string
	Email   string
	Phone   string
	Details map[string]string
}

// QuoteMessage renders the quote handoff text
func QuoteMessage(q QuoteRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá! Gostaria de solicitar uma cotação de %s.\n\n", q.Product.Label())
	fmt.Fprintf(&b, "Meus dados:\n- Nome: %s\n- Email: %s\n- Telefone: %s", q.Name, q.Email, q.Phone)

	if q.Product == domain.ProductAuto && q.Details != nil {
		fmt.Fprintf(&b, "\n\nDetalhes do veículo:\n- Modelo: %s\n- Ano: %s",
			orNotInformed(q.Details["model"]), orNotInformed(q.Details["year"]))
	}

	b.WriteString("\n\nAguardo o contato!")
	return b.String()
}

// ContactRequest is the data behind a contact message
type ContactRequest struct {
	Name     string
	Email    string
	Phone    string
	Interest domain.Interest
	Message  string
}

// ContactMessage renders the contact handoff text
func ContactMessage(c ContactRequest) string {
	return fmt.Sprintf(
		"Olá! Meu nome é %s e tenho interesse em %s.\n\nDetalhes:\n%s\n\nContatos:\n- Email: %s\n- Telefone: %s",
		c.Name, c.Interest, c.Message, c.Email, c.Phone,
	)
}

func orNotInformed(v string) string {
	if strings.TrimSpace(v) == "" {
		return notInformed
	}
	return v
}
