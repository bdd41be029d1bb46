package registry

import "github.com/GriffinCanCode/pagebuilder/internal/shared/types"

var defaultBlocks = []types.Block{
	{
		ID:        "hero-simple",
		Name:      "Simple Hero",
		Category:  types.CategoryBlock,
		Component: "HeroSimple",
		Tags:      []string{"hero", "header"},
		Markup:    `<section><h1>Build something people love</h1><p>Ship a polished landing page in minutes.</p><a href="#">Get started</a></section>`,
	},
	{
		ID:        "feature-grid",
		Name:      "Feature Grid",
		Category:  types.CategoryBlock,
		Component: "FeatureGrid",
		Tags:      []string{"features"},
		Markup:    `<section><h2>Everything you need</h2><div><h3>Fast</h3><p>Pages load instantly.</p></div><div><h3>Flexible</h3><p>Rearrange blocks freely.</p></div></section>`,
	},
	{
		ID:        "pricing-table",
		Name:      "Pricing Table",
		Category:  types.CategoryBlock,
		Component: "PricingTable",
		Tags:      []string{"pricing"},
		Markup:    `<section><h2>Simple pricing</h2><div><h3>Starter</h3><p>$9 / month</p></div><div><h3>Pro</h3><p>$29 / month</p></div></section>`,
	},
	{
		ID:        "testimonial-quote",
		Name:      "Testimonial",
		Category:  types.CategoryBlock,
		Component: "TestimonialQuote",
		Tags:      []string{"social-proof"},
		Markup:    `<figure><blockquote>It changed how our team ships.</blockquote><figcaption>Jordan, Acme</figcaption></figure>`,
	},
	{
		ID:        "cta-banner",
		Name:      "Call to Action",
		Category:  types.CategoryBlock,
		Component: "CtaBanner",
		Tags:      []string{"cta"},
		Markup:    `<section><h2>Ready to launch?</h2><a href="#">Start free</a></section>`,
	},
	{
		ID:        "footer-basic",
		Name:      "Basic Footer",
		Category:  types.CategoryBlock,
		Component: "FooterBasic",
		Tags:      []string{"footer"},
		Markup:    `<footer><p>© Your Company</p></footer>`,
	},
	{
		ID:        "navbar",
		Name:      "Navigation Bar",
		Category:  types.CategoryChrome,
		Component: "Navbar",
	},
	{
		ID:        "button-primary",
		Name:      "Primary Button",
		Category:  types.CategoryElement,
		Component: "ButtonPrimary",
	},
	{
		ID:        "grid-12",
		Name:      "12 Column Grid",
		Category:  types.CategoryLayout,
		Component: "Grid12",
	},
}

// NewDefaultManager returns a manager holding only the built-in catalog.
func NewDefaultManager() *Manager {
	m := NewManager()
	for i := range defaultBlocks {
		// Built-in entries are well-formed
		_ = m.Register(&defaultBlocks[i])
	}
	return m
}
