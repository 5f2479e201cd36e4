// Package permission holds the closed capability set granted to each role.
package permission

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/pkg/middleware"
	"github.com/OttoDev-System/intellicor-saas/pkg/response"
)

type Resource string

const (
	ResourceUsers        Resource = "users"
	ResourceOrganization Resource = "organization"
	ResourceSecurity     Resource = "security"
	ResourceReports      Resource = "reports"
	ResourceAnalytics    Resource = "analytics"
	ResourceSettings     Resource = "settings"
	ResourceClients      Resource = "clients"
	ResourceQuotes       Resource = "quotes"
	ResourcePolicies     Resource = "policies"
	ResourceCommissions  Resource = "commissions"
	ResourceLeads        Resource = "leads"
	ResourceTickets      Resource = "tickets"
	ResourceKnowledge    Resource = "knowledge"
)

var Resources = []Resource{
	ResourceUsers, ResourceOrganization, ResourceSecurity, ResourceReports, ResourceAnalytics,
	ResourceSettings, ResourceClients, ResourceQuotes, ResourcePolicies, ResourceCommissions,
	ResourceLeads, ResourceTickets, ResourceKnowledge,
}

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var Actions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// Capability is a single (resource, action) grant
type Capability struct {
	Resource Resource `json:"resource"`
	Action   Action   `json:"action"`
}

func (c Capability) String() string {
	return string(c.Resource) + ":" + string(c.Action)
}

type capabilitySet map[Capability]struct{}

func grant(resource Resource, actions ...Action) []Capability {
	out := make([]Capability, len(actions))
	for i, a := range actions {
		out[i] = Capability{Resource: resource, Action: a}
	}
	return out
}

func setOf(groups ...[]Capability) capabilitySet {
	s := make(capabilitySet)
	for _, g := range groups {
		for _, c := range g {
			s[c] = struct{}{}
		}
	}
	return s
}

func everything() capabilitySet {
	groups := make([][]Capability, 0, len(Resources))
	for _, r := range Resources {
		groups = append(groups, grant(r, Actions...))
	}
	return setOf(groups...)
}

var matrix = map[domain.Role]capabilitySet{
	domain.RoleAdmin: everything(),
	domain.RoleCorretor: setOf(
		grant(ResourceClients, ActionCreate, ActionRead, ActionUpdate),
		grant(ResourceQuotes, ActionCreate, ActionRead, ActionUpdate),
		grant(ResourcePolicies, ActionRead),
		grant(ResourceCommissions, ActionRead),
	),
	domain.RoleSuporte: setOf(
		grant(ResourceLeads, ActionRead, ActionUpdate),
		grant(ResourceTickets, ActionCreate, ActionRead, ActionUpdate),
		grant(ResourceClients, ActionRead),
		grant(ResourceKnowledge, ActionRead),
	),
}

// Can reports whether role holds the (resource, action) capability
func Can(role domain.Role, resource Resource, action Action) bool {
	caps, ok := matrix[role]
	if !ok {
		return false
	}
	_, ok = caps[Capability{Resource: resource, Action: action}]
	return ok
}

// Capabilities lists the role's grants sorted by resource then action
func Capabilities(role domain.Role) []Capability {
	caps := matrix[role]
	out := make([]Capability, 0, len(caps))
	for c := range caps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}
		return actionOrder(out[i].Action) < actionOrder(out[j].Action)
	})
	return out
}

func actionOrder(a Action) int {
	for i, x := range Actions {
		if x == a {
			return i
		}
	}
	return len(Actions)
}

// RequirePermission aborts with 403 unless the authenticated role holds the capability.
// It must run after the JWT middleware.
func RequirePermission(resource Resource, action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := middleware.GetRole(c)
		if !ok || r == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Sessão expirada. Faça login novamente."))
			return
		}
		if !Can(domain.Role(r), resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden("Você não tem permissão para acessar este recurso."))
			return
		}
		c.Next()
	}
}
