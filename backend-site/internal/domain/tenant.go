package domain

// ServiceCategory groups landing page service cards
type ServiceCategory string

const (
	CategorySeguros   ServiceCategory = "seguros"
	CategorySaude     ServiceCategory = "saude"
	CategoryConsorcio ServiceCategory = "consorcio"
)

// Tenant is a brokerage served under its own subdomain. Tenants are loaded once and never mutated.
type Tenant struct {
	ID          string         `json:"id" yaml:"id"`
	Subdomain   string         `json:"subdomain" yaml:"subdomain"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description"`
	Logo        string         `json:"logo,omitempty" yaml:"logo"`
	Theme       ThemeColors    `json:"theme" yaml:"theme"`
	Settings    TenantSettings `json:"settings" yaml:"settings"`
	Content     TenantContent  `json:"content" yaml:"content"`
}

// ThemeColors holds the brand colors as hex strings
type ThemeColors struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
	Accent    string `json:"accent,omitempty" yaml:"accent"`
}

// TenantSettings holds feature switches and contact data
type TenantSettings struct {
	ChatbotEnabled    bool        `json:"chatbot_enabled" yaml:"chatbot_enabled"`
	ContactInfo       ContactInfo `json:"contact_info" yaml:"contact_info"`
	SocialMedia       SocialMedia `json:"social_media" yaml:"social_media"`
	AllowRegistration bool        `json:"allow_registration" yaml:"allow_registration"`
	Features          []string    `json:"features,omitempty" yaml:"features"`
}

// ContactInfo is shown on the landing page and used for the WhatsApp handoff
type ContactInfo struct {
	Phone   string `json:"phone" yaml:"phone"`
	Email   string `json:"email" yaml:"email"`
	Address string `json:"address,omitempty" yaml:"address"`
}

type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty" yaml:"facebook"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin"`
}

// HasAny reports whether at least one profile is set
func (s SocialMedia) HasAny() bool {
	return s.Facebook != "" || s.Instagram != "" || s.LinkedIn != ""
}

// TenantContent is the landing page copy
type TenantContent struct {
	HeroTitle    string        `json:"hero_title" yaml:"hero_title"`
	HeroSubtitle string        `json:"hero_subtitle" yaml:"hero_subtitle"`
	HeroImage    string        `json:"hero_image,omitempty" yaml:"hero_image"`
	Services     []ServiceCard `json:"services" yaml:"services"`
	Testimonials []Testimonial `json:"testimonials" yaml:"testimonials"`
	FAQs         []FAQ         `json:"faqs" yaml:"faqs"`
}

type ServiceCard struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Icon        string          `json:"icon" yaml:"icon"`
	Category    ServiceCategory `json:"category" yaml:"category"`
}

// Testimonial rating is 1..5
type Testimonial struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Role    string `json:"role,omitempty" yaml:"role"`
	Content string `json:"content" yaml:"content"`
	Avatar  string `json:"avatar,omitempty" yaml:"avatar"`
	Rating  int    `json:"rating" yaml:"rating"`
}

type FAQ struct {
	ID       string `json:"id" yaml:"id"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Category string `json:"category" yaml:"category"`
}

// Organization returns the auth-side view of the tenant
func (t *Tenant) Organization() *Organization {
	return &Organization{
		ID:        t.ID,
		Name:      t.Name,
		Subdomain: t.Subdomain,
		Logo:      t.Logo,
		Theme: OrganizationTheme{
			Primary:   t.Theme.Primary,
			Secondary: t.Theme.Secondary,
		},
		Features:          t.Settings.Features,
		AllowRegistration: t.Settings.AllowRegistration,
	}
}
