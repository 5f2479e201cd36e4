// Package dashboard assembles the placeholder home view for each role.
package dashboard

import (
	"strings"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

type Stat struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Change      string `json:"change"`
	Trend       Trend  `json:"trend"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type Activity struct {
	Action string `json:"action"`
	User   string `json:"user"`
	Time   string `json:"time"`
	Type   string `json:"type"`
}

type QuoteSummary struct {
	Client  string `json:"client"`
	Product string `json:"product"`
	Value   string `json:"value"`
	Status  string `json:"status"`
	Date    string `json:"date"`
}

type LeadSummary struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Interest string `json:"interest"`
	Source   string `json:"source"`
	Priority string `json:"priority"`
	Time     string `json:"time"`
	Phone    string `json:"phone"`
}

// Goal is the broker's monthly target progress
type Goal struct {
	Current string `json:"current"`
	Target  string `json:"target"`
	Percent int    `json:"percent"`
}

// Home is the dashboard landing view
type Home struct {
	Role          domain.Role    `json:"role"`
	Greeting      string         `json:"greeting"`
	Subtitle      string         `json:"subtitle"`
	PrimaryAction string         `json:"primary_action"`
	Stats         []Stat         `json:"stats"`
	Activities    []Activity     `json:"activities,omitempty"`
	RecentQuotes  []QuoteSummary `json:"recent_quotes,omitempty"`
	RecentLeads   []LeadSummary  `json:"recent_leads,omitempty"`
	Goal          *Goal          `json:"goal,omitempty"`
	QuickActions  []string       `json:"quick_actions"`
}

// FirstName returns the first word of a full name
func FirstName(fullName string) string {
	if f := strings.Fields(fullName); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Build returns the home view for the user's role
func Build(user *domain.User, organizationName string, f *Formatter) *Home {
	switch user.Role {
	case domain.RoleAdmin:
		return adminHome(user, organizationName, f)
	case domain.RoleCorretor:
		return brokerHome(user, f)
	default:
		return supportHome(user, f)
	}
}

func adminHome(user *domain.User, organizationName string, f *Formatter) *Home {
	return &Home{
		Role:          domain.RoleAdmin,
		Greeting:      "Bem-vindo, " + FirstName(user.FullName) + "!",
		Subtitle:      "Visão geral da " + organizationName,
		PrimaryAction: "Configurações",
		Stats: []Stat{
			{Title: "Usuários Ativos", Value: f.Count(24), Change: f.Change(12), Trend: TrendUp, Icon: "Users", Description: "Últimos 30 dias"},
			{Title: "Receita Mensal", Value: f.Money(45280), Change: f.Change(8.2), Trend: TrendUp, Icon: "DollarSign", Description: "Comparado ao mês anterior"},
			{Title: "Cotações Ativas", Value: f.Count(156), Change: f.Change(18), Trend: TrendUp, Icon: "TrendingUp", Description: "Em andamento"},
			{Title: "Taxa Conversão", Value: f.Percent(68), Change: f.Change(5), Trend: TrendUp, Icon: "Activity", Description: "Leads para clientes"},
		},
		Activities: []Activity{
			{Action: "Nova cotação criada", User: "João Corretor", Time: "5 min atrás", Type: "success"},
			{Action: "Cliente cadastrado", User: "Ana Suporte", Time: "12 min atrás", Type: "info"},
			{Action: "Apólice renovada", User: "Carlos Corretor", Time: "1h atrás", Type: "success"},
			{Action: "Lead qualificado", User: "Paula Suporte", Time: "2h atrás", Type: "warning"},
		},
		QuickActions: []string{"Gerenciar Usuários", "Configurações da Org", "Relatórios Detalhados", "Logs do Sistema"},
	}
}

func brokerHome(user *domain.User, f *Formatter) *Home {
	current, target := 15600, 20000
	goal := &Goal{
		Current: f.Money(current),
		Target:  f.Money(target),
		Percent: current * 100 / target,
	}

	return &Home{
		Role:          domain.RoleCorretor,
		Greeting:      "Olá, " + FirstName(user.FullName) + "!",
		Subtitle:      "Suas atividades e performance como corretor",
		PrimaryAction: "Nova Cotação",
		Stats: []Stat{
			{Title: "Clientes Ativos", Value: f.Count(87), Change: f.Change(6), Trend: TrendUp, Icon: "Users", Description: "Este mês"},
			{Title: "Comissões Pendentes", Value: f.Money(12450), Change: f.Change(15), Trend: TrendUp, Icon: "DollarSign", Description: "A receber"},
			{Title: "Cotações Ativas", Value: f.Count(23), Change: f.Change(8), Trend: TrendUp, Icon: "FileText", Description: "Em andamento"},
			{Title: "Meta Mensal", Value: f.Percent(goal.Percent), Change: f.Change(12), Trend: TrendUp, Icon: "Target", Description: goal.Current + " / " + goal.Target},
		},
		RecentQuotes: []QuoteSummary{
			{Client: "Maria Santos", Product: "Seguro Auto", Value: f.MoneyCents(2450), Status: "Em análise", Date: "Hoje"},
			{Client: "João Silva", Product: "Seguro Vida", Value: f.MoneyCents(890), Status: "Aprovado", Date: "Ontem"},
			{Client: "Ana Costa", Product: "Seguro Residencial", Value: f.MoneyCents(1200), Status: "Aguardando docs", Date: "2 dias"},
		},
		Goal:         goal,
		QuickActions: []string{"Nova Cotação", "Buscar Cliente", "Agendar Follow-up", "Ver Comissões"},
	}
}

// PlaceholderLeads is shown on the support dashboard until real leads arrive
var PlaceholderLeads = []LeadSummary{
	{Name: "Carlos Mendes", Interest: "Seguro Auto", Source: "Site", Priority: "Alta", Time: "5 min atrás", Phone: "(11) 99999-0001"},
	{Name: "Fernanda Lima", Interest: "Seguro Vida", Source: "WhatsApp", Priority: "Média", Time: "15 min atrás", Phone: "(11) 99999-0002"},
	{Name: "Roberto Souza", Interest: "Consórcio", Source: "Instagram", Priority: "Alta", Time: "1h atrás", Phone: "(11) 99999-0003"},
	{Name: "Juliana Santos", Interest: "Seguro Residencial", Source: "Facebook", Priority: "Baixa", Time: "2h atrás", Phone: "(11) 99999-0004"},
}

func supportHome(user *domain.User, f *Formatter) *Home {
	leads := make([]LeadSummary, len(PlaceholderLeads))
	copy(leads, PlaceholderLeads)

	return &Home{
		Role:          domain.RoleSuporte,
		Greeting:      "Bem-vindo, " + FirstName(user.FullName) + "!",
		Subtitle:      "Central de atendimento e gestão de leads",
		PrimaryAction: "Novo Ticket",
		Stats: []Stat{
			{Title: "Leads Novos", Value: f.Count(42), Change: f.Change(23), Trend: TrendUp, Icon: "UserPlus", Description: "Últimas 24h"},
			{Title: "Tickets Abertos", Value: f.Count(18), Change: f.Change(-12), Trend: TrendDown, Icon: "MessageSquare", Description: "Pendentes"},
			{Title: "Tempo Médio Resposta", Value: "2.5h", Change: f.Change(-15), Trend: TrendDown, Icon: "Clock", Description: "Melhorou"},
			{Title: "Taxa Resolução", Value: f.Percent(94), Change: f.Change(3), Trend: TrendUp, Icon: "CheckCircle", Description: "Este mês"},
		},
		RecentLeads:  leads,
		QuickActions: []string{"Novo Ticket", "Ver Leads", "Base de Conhecimento", "Notificações"},
	}
}

// WithLeads replaces the placeholder recent leads with captured ones, keeping at most four
func (h *Home) WithLeads(leads []*domain.Lead) *Home {
	if len(leads) == 0 || h.Role != domain.RoleSuporte {
		return h
	}

	out := make([]LeadSummary, 0, min(len(leads), 4))
	for _, l := range leads {
		if len(out) == 4 {
			break
		}
		out = append(out, LeadSummary{
			ID:       l.ID,
			Name:     l.Name,
			Interest: leadInterest(l),
			Source:   "Site",
			Priority: priorityFor(l.Status),
			Time:     l.CreatedAt.Format("02/01 15:04"),
			Phone:    l.Phone,
		})
	}
	h.RecentLeads = out
	return h
}

func leadInterest(l *domain.Lead) string {
	if l.Kind == domain.LeadKindQuote {
		return l.Product.Label()
	}
	return l.Interest.Label()
}

func priorityFor(s domain.LeadStatus) string {
	switch s {
	case domain.LeadStatusNew:
		return "Alta"
	case domain.LeadStatusContacted, domain.LeadStatusQualified:
		return "Média"
	default:
		return "Baixa"
	}
}
