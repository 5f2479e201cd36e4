package dto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteRequest_Validate(t *testing.T) {
	valid := QuoteRequest{Type: "auto", Name: "Maria", Email: "maria@exemplo.com", Phone: "(11) 98888-7777", Model: " Onix ", Year: "2020"}
	assert.Nil(t, valid.Validate())
	assert.Equal(t, map[string]string{"model": "Onix", "year": "2020"}, valid.Details)

	empty := QuoteRequest{}
	assert.Equal(t, FieldErrors{
		"type":  MsgProduct,
		"name":  MsgName,
		"email": MsgEmail,
		"phone": MsgPhone,
	}, empty.Validate())

	badType := QuoteRequest{Type: "pet", Name: "Maria", Email: "maria@exemplo.com", Phone: "11988887777"}
	assert.Equal(t, FieldErrors{"type": MsgProduct}, badType.Validate())

	shortName := QuoteRequest{Type: "vida", Name: " M ", Email: "not-an-email", Phone: "1198888"}
	errs := shortName.Validate()
	assert.Equal(t, MsgName, errs["name"])
	assert.Equal(t, MsgEmail, errs["email"])
	assert.Equal(t, MsgPhone, errs["phone"])
}

func TestContactRequest_Validate(t *testing.T) {
	valid := ContactRequest{Name: "Ana", Email: "ana@x.com", Phone: "11977776666", Interest: "saude", Message: "Quero um plano familiar"}
	assert.Nil(t, valid.Validate())

	invalid := ContactRequest{Name: "Ana", Email: "ana@x.com", Phone: "11977776666", Interest: "pets", Message: "curta"}
	assert.Equal(t, FieldErrors{"interest": MsgInterest, "message": MsgMessage}, invalid.Validate())
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{FullName: "Maria Silva", Email: "Maria@Demo.com", Password: "Segura123", ConfirmPassword: "Segura123", OrganizationID: "1"}
	assert.Nil(t, valid.Validate())
	assert.Equal(t, "maria@demo.com", valid.Email)

	tests := []struct {
		name     string
		password string
		confirm  string
		field    string
		want     string
	}{
		{name: "too short", password: "Ab1", confirm: "Ab1", field: "password", want: MsgPasswordMin},
		{name: "no upper", password: "segura123", confirm: "segura123", field: "password", want: MsgPasswordUpper},
		{name: "no lower", password: "SEGURA123", confirm: "SEGURA123", field: "password", want: MsgPasswordLower},
		{name: "no digit", password: "SeguraSenha", confirm: "SeguraSenha", field: "password", want: MsgPasswordDigit},
		{name: "mismatch", password: "Segura123", confirm: "Segura124", field: "confirm_password", want: MsgPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RegisterRequest{FullName: "Maria", Email: "m@x.com", Password: tt.password, ConfirmPassword: tt.confirm, OrganizationID: "1"}
			errs := r.Validate()
			assert.Equal(t, tt.want, errs[tt.field])
		})
	}

	noOrg := RegisterRequest{FullName: "Maria", Email: "m@x.com", Password: "Segura123", ConfirmPassword: "Segura123"}
	assert.Equal(t, FieldErrors{"organization_id": MsgOrganization}, noOrg.Validate())
}

func TestLoginAndForgotPassword(t *testing.T) {
	login := LoginRequest{Email: " ADMIN@demo.com ", Password: "x"}
	assert.Nil(t, login.Validate())
	assert.Equal(t, "admin@demo.com", login.Email)

	missing := LoginRequest{Email: "admin@demo.com"}
	assert.Equal(t, FieldErrors{"password": MsgPasswordRequired}, missing.Validate())

	forgot := ForgotPasswordRequest{Email: "nope"}
	assert.Equal(t, FieldErrors{"email": MsgEmail}, forgot.Validate())
}

func TestUpdateLeadStatusRequest_Validate(t *testing.T) {
	ok := UpdateLeadStatusRequest{Status: "CONTACTED"}
	assert.Nil(t, ok.Validate())

	bad := UpdateLeadStatusRequest{Status: "contacted"}
	assert.Contains(t, bad.Validate(), "status")
}

func TestSwitchRoleAndChat(t *testing.T) {
	assert.Nil(t, (&SwitchRoleRequest{Role: "corretor"}).Validate())
	assert.Contains(t, (&SwitchRoleRequest{Role: "root"}).Validate(), "role")

	chat := ChatRequest{Message: "   "}
	assert.Contains(t, chat.Validate(), "message")
}

func TestQueryDefaults(t *testing.T) {
	q := ListLeadsQuery{}
	q.SetDefaults()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 0, q.Offset())

	q.Page = 3
	assert.Equal(t, 40, q.Offset())

	tq := ListTenantsQuery{Limit: 5}
	tq.SetDefaults()
	assert.Equal(t, 1, tq.Page)
	assert.Equal(t, 5, tq.Limit)
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        int
	}{
		{name: "first page", page: 1, limit: 20, want: 0},
		{name: "zero page", page: 0, limit: 20, want: 0},
		{name: "third page", page: 3, limit: 20, want: 40},
		{name: "zero limit", page: 4, limit: 0, want: 0},
		{name: "exact boundary", page: math.MaxInt/100 + 1, limit: 100, want: math.MaxInt / 100 * 100},
		{name: "past the addressable range", page: 92233720368547760, limit: 100, want: math.MaxInt},
		{name: "max page", page: math.MaxInt, limit: 2, want: math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageOffset(tt.page, tt.limit))
		})
	}
}
