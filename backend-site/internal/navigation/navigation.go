// Package navigation defines the dashboard sidebar for each role.
package navigation

import (
	"strings"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

// Item is one sidebar entry. Badge is empty when absent.
type Item struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Icon  string `json:"icon"`
	Badge string `json:"badge,omitempty"`
}

var menus = map[domain.Role][]Item{
	domain.RoleAdmin: {
		{Label: "Dashboard", Href: "/admin", Icon: "LayoutDashboard"},
		{Label: "Usuários", Href: "/admin/users", Icon: "Users", Badge: "Novo"},
		{Label: "Organização", Href: "/admin/organization", Icon: "Building"},
		{Label: "Segurança", Href: "/admin/security", Icon: "Shield"},
		{Label: "Relatórios", Href: "/admin/reports", Icon: "BarChart"},
		{Label: "Analytics", Href: "/admin/analytics", Icon: "Activity"},
		{Label: "Configurações", Href: "/admin/settings", Icon: "Settings"},
	},
	domain.RoleCorretor: {
		{Label: "Dashboard", Href: "/broker", Icon: "LayoutDashboard"},
		{Label: "Clientes", Href: "/broker/clients", Icon: "Users"},
		{Label: "Cotações", Href: "/broker/quotes", Icon: "FileText", Badge: "5"},
		{Label: "Apólices", Href: "/broker/policies", Icon: "Briefcase"},
		{Label: "Comissões", Href: "/broker/commissions", Icon: "DollarSign"},
		{Label: "Performance", Href: "/broker/performance", Icon: "BarChart"},
	},
	domain.RoleSuporte: {
		{Label: "Dashboard", Href: "/support", Icon: "LayoutDashboard"},
		{Label: "Leads", Href: "/support/leads", Icon: "UserPlus", Badge: "12"},
		{Label: "Tickets", Href: "/support/tickets", Icon: "MessageSquare", Badge: "3"},
		{Label: "Clientes", Href: "/support/clients", Icon: "Users"},
		{Label: "Base Conhecimento", Href: "/support/knowledge", Icon: "HelpCircle"},
		{Label: "Notificações", Href: "/support/notifications", Icon: "Bell"},
	},
}

// For returns a copy of the role's menu, nil for unknown roles
func For(role domain.Role) []Item {
	m, ok := menus[role]
	if !ok {
		return nil
	}
	out := make([]Item, len(m))
	copy(out, m)
	return out
}

// Find returns the menu item whose href equals path
func Find(role domain.Role, path string) (Item, bool) {
	path = strings.TrimSuffix(path, "/")
	for _, it := range menus[role] {
		if it.Href == path {
			return it, true
		}
	}
	return Item{}, false
}

// IsActive reports whether item is the current page. The dashboard root only matches exactly.
func IsActive(item Item, path string) bool {
	path = strings.TrimSuffix(path, "/")
	if item.Href == path {
		return true
	}
	if strings.Count(item.Href, "/") == 1 {
		return false
	}
	return strings.HasPrefix(path, item.Href+"/")
}

// Sections returns the sub-page slugs under a role's dashboard, e.g. "users" for /admin/users
func Sections(role domain.Role) []string {
	home := role.HomePath()
	var out []string
	for _, it := range menus[role] {
		if slug, ok := strings.CutPrefix(it.Href, home+"/"); ok && slug != "" {
			out = append(out, slug)
		}
	}
	return out
}
