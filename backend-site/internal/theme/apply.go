package theme

import (
	"strings"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
)

// Style variable names written for a tenant
const (
	VarPrimary             = "--primary"
	VarPrimaryForeground   = "--primary-foreground"
	VarSecondary           = "--secondary"
	VarSecondaryForeground = "--secondary-foreground"
	VarAccent              = "--accent"
	VarAccentForeground    = "--accent-foreground"
	VarGradientPrimary     = "--gradient-primary"
	VarBackground          = "--background"
	VarForeground          = "--foreground"
)

// Fixed foregrounds paired with the brand colors
const (
	LightForeground = "210 40% 98%"
	DarkForeground  = "222.2 84% 4.9%"
)

// Base is the site palette every tenant theme is applied over
var Base = PropertySet{
	{Name: VarBackground, Value: "0 0% 100%"},
	{Name: VarForeground, Value: "222 47% 11%"},
}

// Property is one CSS custom property
type Property struct {
	Name  string
	Value string
}

// PropertySet is an ordered list of custom properties
type PropertySet []Property

// Get returns the value of name
func (ps PropertySet) Get(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Names returns the property names in order
func (ps PropertySet) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// Apply computes the property set for colors. It has no side effects.
func Apply(colors domain.ThemeColors) PropertySet {
	primary := HexToHSL(colors.Primary)
	secondary := HexToHSL(colors.Secondary)

	ps := PropertySet{
		{Name: VarPrimary, Value: primary},
		{Name: VarPrimaryForeground, Value: LightForeground},
		{Name: VarSecondary, Value: secondary},
		{Name: VarSecondaryForeground, Value: DarkForeground},
	}

	if colors.Accent != "" {
		ps = append(ps,
			Property{Name: VarAccent, Value: HexToHSL(colors.Accent)},
			Property{Name: VarAccentForeground, Value: LightForeground},
		)
	}

	ps = append(ps, Property{
		Name:  VarGradientPrimary,
		Value: "linear-gradient(135deg, hsl(" + primary + "), hsl(" + secondary + "))",
	})

	return ps
}

// Revert returns exactly the slot names that must be removed to undo applied
func Revert(applied PropertySet) []string {
	return applied.Names()
}

// Context is the per-request theme handed to the rendering layer. The tenant's
// properties are written through an Applicator into a Store seeded with Base.
type Context struct {
	Colors     domain.ThemeColors
	Properties PropertySet

	store      *Store
	applicator *Applicator
}

// NewContext derives the theme context for a tenant's colors
func NewContext(colors domain.ThemeColors) *Context {
	store := NewStore()
	for _, p := range Base {
		store.Set(p.Name, p.Value)
	}
	a := NewApplicator(store)
	return &Context{
		Colors:     colors,
		Properties: a.Apply(colors),
		store:      store,
		applicator: a,
	}
}

// Var returns the effective value of a custom property, empty when unset
func (c *Context) Var(name string) string {
	v, _ := c.store.Get(name)
	return v
}

// Release reverts the tenant properties, leaving only Base in the store
func (c *Context) Release() {
	c.applicator.Revert()
}

// CSS renders the effective properties as a :root block, Base slots first
func (c *Context) CSS() string {
	vars := c.store.Snapshot()

	var b strings.Builder
	b.WriteString(":root{")
	for _, ps := range []PropertySet{Base, c.applicator.Applied()} {
		for _, p := range ps {
			v, ok := vars[p.Name]
			if !ok {
				continue
			}
			delete(vars, p.Name)
			b.WriteString(p.Name)
			b.WriteString(":")
			b.WriteString(v)
			b.WriteString(";")
		}
	}
	b.WriteString("}")
	return b.String()
}
