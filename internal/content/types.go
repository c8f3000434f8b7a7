package content

import (
	"sort"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/availability"
)

// Defaults applied when an editor leaves a field blank.
const (
	DefaultCompanyName        = "McKenna's Cleaning Services"
	DefaultHeroTitle          = "MCKENNA'S CLEANING SERVICES"
	DefaultHeroCTAText        = "CONTACT"
	DefaultHeroCTALink        = "#contact"
	DefaultHeroImageAlt       = "Hero image"
	DefaultCarouselInterval   = 3
	DefaultAboutInterval      = 4
	DefaultAboutTitle         = "ABOUT US."
	DefaultWhatWeDoTitle      = "What We Do?"
	DefaultOurServicesTitle   = "Our Services?"
	DefaultContactTitle       = "Contact Us"
	DefaultContactDescription = "Ready to schedule your cleaning service? Fill out the form below and we'll get back to you within 24 hours."
	DefaultFormHeading        = "Request a Quote"
	DefaultAvailabilityNotice = "Please note: We are unavailable on the dates highlighted below. We'll work with you to find the best time for your service."
	DefaultDisplayOrder       = 100
)

// Image is a resolved CMS image asset.
type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

type SiteSettings struct {
	ID            string `json:"id"`
	CompanyName   string `json:"companyName"`
	Logo          *Image `json:"logo"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	BusinessHours string `json:"businessHours"`
}

type NavItem struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Href       string `json:"href"`
	IsExternal bool   `json:"isExternal"`
	Disabled   bool   `json:"disabled"`
}

type Navigation struct {
	ID      string    `json:"id"`
	MainNav []NavItem `json:"mainNav"`
}

// Enabled returns the items a visitor can follow.
func (n Navigation) Enabled() []NavItem {
	out := make([]NavItem, 0, len(n.MainNav))
	for _, item := range n.MainNav {
		if !item.Disabled {
			out = append(out, item)
		}
	}
	return out
}

type Hero struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	CTAText          string  `json:"ctaText"`
	CTALink          string  `json:"ctaLink"`
	CarouselImages   []Image `json:"carouselImages"`
	CarouselInterval int     `json:"carouselInterval"`
}

type SocialLinks struct {
	ID             string `json:"id"`
	Facebook       string `json:"facebook"`
	Instagram      string `json:"instagram"`
	Twitter        string `json:"twitter"`
	LinkedIn       string `json:"linkedin"`
	DisplaySocials bool   `json:"displaySocials"`
}

// ServiceKind selects one of the service pages.
type ServiceKind string

const (
	ResidentialService   ServiceKind = "residentialService"
	ElectrostaticService ServiceKind = "electrostaticService"
)

// Valid reports whether k names a known service page.
func (k ServiceKind) Valid() bool {
	return k == ResidentialService || k == ElectrostaticService
}

type ServicePage struct {
	ID               string      `json:"id"`
	Kind             ServiceKind `json:"kind"`
	PageTitle        string      `json:"pageTitle"`
	Description      string      `json:"description"`
	Gallery          []Image     `json:"gallery"`
	CarouselInterval int         `json:"carouselInterval"`
}

type Testimonial struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customerName"`
	ReviewText    string `json:"reviewText"`
	Rating        int    `json:"rating"`
	ReviewDate    string `json:"reviewDate"`
	CustomerPhoto *Image `json:"customerPhoto,omitempty"`
	Role          string `json:"role,omitempty"`
	DisplayOrder  int    `json:"displayOrder"`
	Disabled      bool   `json:"-"`
}

// VisibleTestimonials drops disabled entries and orders the rest by
// displayOrder, then newest review first.
func VisibleTestimonials(in []Testimonial) []Testimonial {
	out := make([]Testimonial, 0, len(in))
	for _, t := range in {
		if !t.Disabled {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ReviewDate > out[j].ReviewDate
	})
	return out
}

type AboutUs struct {
	ID                  string  `json:"id"`
	PageTitle           string  `json:"pageTitle"`
	HeroImage           *Image  `json:"heroImage"`
	CompanyStatement    string  `json:"companyStatement"`
	ExperienceStatement string  `json:"experienceStatement"`
	WhatWeDoTitle       string  `json:"whatWeDoTitle"`
	WhatWeDoContent     string  `json:"whatWeDoContent"`
	OurServicesTitle    string  `json:"ourServicesTitle"`
	OurServicesContent  string  `json:"ourServicesContent"`
	Gallery             []Image `json:"gallery"`
	CarouselInterval    int     `json:"carouselInterval"`
}

type ContactPage struct {
	ID                 string                          `json:"id"`
	PageTitle          string                          `json:"pageTitle"`
	Description        string                          `json:"description"`
	FormHeading        string                          `json:"formHeading"`
	AvailabilityNotice string                          `json:"availabilityNotice"`
	BlockedDates       []availability.BlockedDateRange `json:"blockedDates"`
}
