// Package catalog holds the firm's static service catalog. The website
// renders it and the contact form validator treats the category slugs as the
// closed service-type enumeration.
package catalog

// ServiceCategory is one practice area offered by the firm.
type ServiceCategory struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SubServices []string `json:"sub_services"`
}

var services = []ServiceCategory{
	{
		Slug:        "consultation",
		Title:       "Legal Consultation",
		Description: "One-on-one consultation with an advocate on civil, property and family matters.",
		SubServices: []string{"Phone consultation", "Office appointment", "Case strategy review"},
	},
	{
		Slug:        "documentation",
		Title:       "Legal Documentation",
		Description: "Drafting and vetting of agreements, deeds, wills and affidavits.",
		SubServices: []string{"Sale agreement", "Rental agreement", "Will drafting", "Affidavits"},
	},
	{
		Slug:        "notice",
		Title:       "Legal Notices",
		Description: "Drafting and dispatch of legal notices and replies.",
		SubServices: []string{"Demand notice", "Eviction notice", "Notice reply"},
	},
	{
		Slug:        "litigation",
		Title:       "Litigation",
		Description: "Representation before civil courts, tribunals and appellate forums.",
		SubServices: []string{"Civil suits", "Consumer disputes", "Appeals"},
	},
	{
		Slug:        "research",
		Title:       "Legal Research",
		Description: "Case-law research and written legal opinions.",
		SubServices: []string{"Case-law research", "Legal opinion"},
	},
	{
		Slug:        "title-search",
		Title:       "Property Title Search",
		Description: "Encumbrance and title verification reports for property transactions.",
		SubServices: []string{"Encumbrance certificate", "Title verification report"},
	},
	{
		Slug:        "document-registration",
		Title:       "Document Registration",
		Description: "End-to-end assistance with sub-registrar document registration.",
		SubServices: []string{"Sale deed registration", "Gift deed registration", "Power of attorney"},
	},
}

var serviceSlugs = func() map[string]struct{} {
	m := make(map[string]struct{}, len(services))
	for _, s := range services {
		m[s.Slug] = struct{}{}
	}
	return m
}()

// Services returns the full catalog.
func Services() []ServiceCategory {
	out := make([]ServiceCategory, len(services))
	copy(out, services)
	return out
}

// IsValidServiceType reports whether slug is a known service category.
func IsValidServiceType(slug string) bool {
	_, ok := serviceSlugs[slug]
	return ok
}

// ServiceSlugs returns the category slugs in catalog order.
func ServiceSlugs() []string {
	out := make([]string, 0, len(services))
	for _, s := range services {
		out = append(out, s.Slug)
	}
	return out
}
