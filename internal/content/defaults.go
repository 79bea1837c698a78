package content

import "time"

// Hard-coded section defaults. These render whenever a content table is
// empty or unreachable so no page section ever comes up blank.

var DefaultServices = []Service{
	{Title: "Web Development", Description: "Fast, accessible sites and web apps built to last."},
	{Title: "Digital Marketing", Description: "Campaigns that reach the right audience at the right time."},
	{Title: "Brand & Design", Description: "Identity systems, design languages and collateral."},
	{Title: "SEO & Content", Description: "Technical SEO audits and content that ranks."},
}

var DefaultTestimonials = []Testimonial{
	{Author: "Jordan Meyer", Quote: "They rebuilt our storefront in six weeks and conversions doubled.", Rating: 5},
	{Author: "Priya Natarajan", Quote: "The only agency we've worked with that actually hits deadlines.", Rating: 5},
}

var DefaultFAQs = []FAQ{
	{Question: "How long does a typical project take?", Answer: "Most site builds land between four and ten weeks depending on scope."},
	{Question: "Do you work with early-stage companies?", Answer: "Yes, about half our clients are pre-launch or recently launched."},
	{Question: "What does an engagement cost?", Answer: "Fixed-price quotes after a free scoping call; no hourly billing surprises."},
}

var DefaultPosts = []BlogPost{
	{
		Slug:      "welcome",
		Title:     "Welcome to our studio blog",
		Excerpt:   "Notes on design, engineering and growth from the team.",
		Body:      "We write about the work: what shipped, what broke, what we learned.",
		Status:    "published",
		CreatedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	},
}

var DefaultProjects = []Project{
	{
		Slug:      "sample-launch",
		Title:     "Product launch site",
		Summary:   "A launch site with a week of runway and a hard deadline.",
		CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	},
}
