package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/availability"
)

// Document names served by the content API.
const (
	DocSiteSettings         = "siteSettings"
	DocNavigation           = "navigation"
	DocHero                 = "hero"
	DocSocialLinks          = "socialLinks"
	DocResidentialService   = string(ResidentialService)
	DocElectrostaticService = string(ElectrostaticService)
	DocTestimonials         = "testimonials"
	DocAboutUs              = "aboutUs"
	DocContactPage          = "contactPage"
)

const imageProjection = `asset->{ _id, url, metadata { dimensions { width, height } } }, alt, caption`

// query pairs a GROQ query with the function that turns its raw result into
// the API shape. reformat receives nil when the document does not exist.
type query struct {
	groq     string
	reformat func(raw json.RawMessage) (any, error)
}

var queries = map[string]query{
	DocSiteSettings: {
		groq: `*[_type == "siteSettings"][0] { _id, companyName, logo { ` + imageProjection + ` }, phone, email, businessHours }`,
		reformat: decodeInto(func(r rawSiteSettings) any {
			return SiteSettings{
				ID:            r.ID,
				CompanyName:   or(r.CompanyName, DefaultCompanyName),
				Logo:          r.Logo.image(or(r.CompanyName, DefaultCompanyName)),
				Phone:         r.Phone,
				Email:         r.Email,
				BusinessHours: r.BusinessHours,
			}
		}),
	},
	DocNavigation: {
		groq: `*[_type == "navigation"][0] { _id, mainNav[] { _key, label, href, isExternal, disabled } }`,
		reformat: decodeInto(func(r rawNavigation) any {
			nav := Navigation{ID: r.ID, MainNav: make([]NavItem, 0, len(r.MainNav))}
			for _, item := range r.MainNav {
				nav.MainNav = append(nav.MainNav, NavItem{
					Key:        item.Key,
					Label:      item.Label,
					Href:       item.Href,
					IsExternal: item.IsExternal,
					Disabled:   item.Disabled,
				})
			}
			return nav
		}),
	},
	DocHero: {
		groq: `*[_type == "hero"][0] { _id, title, description, ctaText, ctaLink, carouselImages[] { ` + imageProjection + ` }, carouselInterval }`,
		reformat: decodeInto(func(r rawHero) any {
			return Hero{
				ID:               r.ID,
				Title:            or(r.Title, DefaultHeroTitle),
				Description:      r.Description,
				CTAText:          or(r.CTAText, DefaultHeroCTAText),
				CTALink:          or(r.CTALink, DefaultHeroCTALink),
				CarouselImages:   images(r.CarouselImages, DefaultHeroImageAlt),
				CarouselInterval: interval(r.CarouselInterval, DefaultCarouselInterval),
			}
		}),
	},
	DocSocialLinks: {
		groq: `*[_type == "socialLinks"][0] { _id, facebook, instagram, twitter, linkedin, displaySocials }`,
		reformat: decodeInto(func(r rawSocialLinks) any {
			display := true
			if r.DisplaySocials != nil {
				display = *r.DisplaySocials
			}
			return SocialLinks{
				ID:             r.ID,
				Facebook:       r.Facebook,
				Instagram:      r.Instagram,
				Twitter:        r.Twitter,
				LinkedIn:       r.LinkedIn,
				DisplaySocials: display,
			}
		}),
	},
	DocResidentialService:   servicePageQuery(ResidentialService),
	DocElectrostaticService: servicePageQuery(ElectrostaticService),
	DocTestimonials: {
		groq: `*[_type == "testimonial"] { _id, customerName, reviewText, rating, reviewDate, customerPhoto { ` + imageProjection + ` }, role, displayOrder, disabled }`,
		reformat: func(raw json.RawMessage) (any, error) {
			var rows []rawTestimonial
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &rows); err != nil {
					return nil, fmt.Errorf("content: decode testimonials: %w", err)
				}
			}
			all := make([]Testimonial, 0, len(rows))
			for _, r := range rows {
				order := DefaultDisplayOrder
				if r.DisplayOrder != nil {
					order = *r.DisplayOrder
				}
				all = append(all, Testimonial{
					ID:            r.ID,
					CustomerName:  r.CustomerName,
					ReviewText:    r.ReviewText,
					Rating:        r.Rating,
					ReviewDate:    r.ReviewDate,
					CustomerPhoto: r.CustomerPhoto.image(r.CustomerName),
					Role:          r.Role,
					DisplayOrder:  order,
					Disabled:      r.Disabled,
				})
			}
			return VisibleTestimonials(all), nil
		},
	},
	DocAboutUs: {
		groq: `*[_type == "aboutUs"][0] { _id, pageTitle, heroImage { ` + imageProjection + ` }, companyStatement, experienceStatement, whatWeDoTitle, whatWeDoContent, ourServicesTitle, ourServicesContent, gallery[] { ` + imageProjection + ` }, carouselInterval }`,
		reformat: decodeInto(func(r rawAboutUs) any {
			return AboutUs{
				ID:                  r.ID,
				PageTitle:           or(r.PageTitle, DefaultAboutTitle),
				HeroImage:           r.HeroImage.image(DefaultCompanyName),
				CompanyStatement:    r.CompanyStatement,
				ExperienceStatement: r.ExperienceStatement,
				WhatWeDoTitle:       or(r.WhatWeDoTitle, DefaultWhatWeDoTitle),
				WhatWeDoContent:     r.WhatWeDoContent,
				OurServicesTitle:    or(r.OurServicesTitle, DefaultOurServicesTitle),
				OurServicesContent:  r.OurServicesContent,
				Gallery:             images(r.Gallery, DefaultCompanyName),
				CarouselInterval:    interval(r.CarouselInterval, DefaultAboutInterval),
			}
		}),
	},
	DocContactPage: {
		groq: `*[_type == "contactPage"][0] { _id, pageTitle, description, formHeading, availabilityNotice, blockedDates[] { startDate, endDate, reason } }`,
		reformat: decodeInto(func(r rawContactPage) any {
			page := ContactPage{
				ID:                 r.ID,
				PageTitle:          or(r.PageTitle, DefaultContactTitle),
				Description:        or(r.Description, DefaultContactDescription),
				FormHeading:        or(r.FormHeading, DefaultFormHeading),
				AvailabilityNotice: or(r.AvailabilityNotice, DefaultAvailabilityNotice),
				BlockedDates:       make([]availability.BlockedDateRange, 0, len(r.BlockedDates)),
			}
			for _, b := range r.BlockedDates {
				if rng, ok := b.blockedRange(); ok {
					page.BlockedDates = append(page.BlockedDates, rng)
				}
			}
			return page
		}),
	},
}

// Documents lists every document the provider can serve.
func Documents() []string {
	return []string{
		DocSiteSettings,
		DocNavigation,
		DocHero,
		DocSocialLinks,
		DocResidentialService,
		DocElectrostaticService,
		DocTestimonials,
		DocAboutUs,
		DocContactPage,
	}
}

func servicePageQuery(kind ServiceKind) query {
	return query{
		groq: `*[_type == "` + string(kind) + `"][0] { _id, pageTitle, description, gallery[] { ` + imageProjection + ` }, carouselInterval }`,
		reformat: decodeInto(func(r rawServicePage) any {
			return ServicePage{
				ID:               r.ID,
				Kind:             kind,
				PageTitle:        r.PageTitle,
				Description:      r.Description,
				Gallery:          images(r.Gallery, r.PageTitle),
				CarouselInterval: interval(r.CarouselInterval, DefaultCarouselInterval),
			}
		}),
	}
}

// decodeInto handles the singleton case: a null result means the editor has
// not created the document yet.
func decodeInto[T any](build func(T) any) func(json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		if isNull(raw) {
			return nil, ErrNotFound
		}
		var r T
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("content: decode document: %w", err)
		}
		return build(r), nil
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

func or(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func interval(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

type rawImage struct {
	Asset *struct {
		ID       string `json:"_id"`
		URL      string `json:"url"`
		Metadata struct {
			Dimensions struct {
				Width  int `json:"width"`
				Height int `json:"height"`
			} `json:"dimensions"`
		} `json:"metadata"`
	} `json:"asset"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

func (r *rawImage) image(defaultAlt string) *Image {
	if r == nil || r.Asset == nil {
		return nil
	}
	return &Image{
		URL:     r.Asset.URL,
		Alt:     or(r.Alt, defaultAlt),
		Caption: r.Caption,
		Width:   r.Asset.Metadata.Dimensions.Width,
		Height:  r.Asset.Metadata.Dimensions.Height,
	}
}

func images(in []*rawImage, defaultAlt string) []Image {
	out := make([]Image, 0, len(in))
	for _, r := range in {
		if img := r.image(defaultAlt); img != nil {
			out = append(out, *img)
		}
	}
	return out
}

type rawSiteSettings struct {
	ID            string    `json:"_id"`
	CompanyName   string    `json:"companyName"`
	Logo          *rawImage `json:"logo"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	BusinessHours string    `json:"businessHours"`
}

type rawNavigation struct {
	ID      string `json:"_id"`
	MainNav []struct {
		Key        string `json:"_key"`
		Label      string `json:"label"`
		Href       string `json:"href"`
		IsExternal bool   `json:"isExternal"`
		Disabled   bool   `json:"disabled"`
	} `json:"mainNav"`
}

type rawHero struct {
	ID               string      `json:"_id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	CTAText          string      `json:"ctaText"`
	CTALink          string      `json:"ctaLink"`
	CarouselImages   []*rawImage `json:"carouselImages"`
	CarouselInterval int         `json:"carouselInterval"`
}

type rawSocialLinks struct {
	ID             string `json:"_id"`
	Facebook       string `json:"facebook"`
	Instagram      string `json:"instagram"`
	Twitter        string `json:"twitter"`
	LinkedIn       string `json:"linkedin"`
	DisplaySocials *bool  `json:"displaySocials"`
}

type rawServicePage struct {
	ID               string      `json:"_id"`
	PageTitle        string      `json:"pageTitle"`
	Description      string      `json:"description"`
	Gallery          []*rawImage `json:"gallery"`
	CarouselInterval int         `json:"carouselInterval"`
}

type rawTestimonial struct {
	ID            string    `json:"_id"`
	CustomerName  string    `json:"customerName"`
	ReviewText    string    `json:"reviewText"`
	Rating        int       `json:"rating"`
	ReviewDate    string    `json:"reviewDate"`
	CustomerPhoto *rawImage `json:"customerPhoto"`
	Role          string    `json:"role"`
	DisplayOrder  *int      `json:"displayOrder"`
	Disabled      bool      `json:"disabled"`
}

type rawAboutUs struct {
	ID                  string      `json:"_id"`
	PageTitle           string      `json:"pageTitle"`
	HeroImage           *rawImage   `json:"heroImage"`
	CompanyStatement    string      `json:"companyStatement"`
	ExperienceStatement string      `json:"experienceStatement"`
	WhatWeDoTitle       string      `json:"whatWeDoTitle"`
	WhatWeDoContent     string      `json:"whatWeDoContent"`
	OurServicesTitle    string      `json:"ourServicesTitle"`
	OurServicesContent  string      `json:"ourServicesContent"`
	Gallery             []*rawImage `json:"gallery"`
	CarouselInterval    int         `json:"carouselInterval"`
}

type rawContactPage struct {
	ID                 string           `json:"_id"`
	PageTitle          string           `json:"pageTitle"`
	Description        string           `json:"description"`
	FormHeading        string           `json:"formHeading"`
	AvailabilityNotice string           `json:"availabilityNotice"`
	BlockedDates       []rawBlockedDate `json:"blockedDates"`
}

type rawBlockedDate struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// blockedRange drops entries with unparseable dates. Inverted ranges are kept
// as authored; they match no day.
func (r rawBlockedDate) blockedRange() (availability.BlockedDateRange, bool) {
	start, err := availability.ParseDate(r.StartDate)
	if err != nil {
		return availability.BlockedDateRange{}, false
	}
	end, err := availability.ParseDate(r.EndDate)
	if err != nil {
		return availability.BlockedDateRange{}, false
	}
	return availability.BlockedDateRange{Start: start, End: end, Reason: strings.TrimSpace(r.Reason)}, true
}
