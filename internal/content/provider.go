// Package content serves the site's editable copy from the headless CMS.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/availability"
)

var (
	// ErrNotFound is returned when a singleton document has not been created.
	ErrNotFound = errors.New("content: document not found")

	// ErrUnknownDocument is returned for a document name the API does not serve.
	ErrUnknownDocument = errors.New("content: unknown document")
)

// Source returns a document, already reformatted, as JSON.
type Source interface {
	Document(ctx context.Context, name string) (json.RawMessage, error)
}

// Provider is the typed read surface used by the rest of the site.
type Provider interface {
	SiteSettings(ctx context.Context) (SiteSettings, error)
	Navigation(ctx context.Context) (Navigation, error)
	Hero(ctx context.Context) (Hero, error)
	SocialLinks(ctx context.Context) (SocialLinks, error)
	ServicePage(ctx context.Context, kind ServiceKind) (ServicePage, error)
	Testimonials(ctx context.Context) ([]Testimonial, error)
	AboutUs(ctx context.Context) (AboutUs, error)
	ContactPage(ctx context.Context) (ContactPage, error)
}

// Service decodes documents from a Source into typed values.
type Service struct {
	source Source
}

// NewService wraps a source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

func fetch[T any](ctx context.Context, source Source, name string) (T, error) {
	var out T
	raw, err := source.Document(ctx, name)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("content: decode %s: %w", name, err)
	}
	return out, nil
}

func (s *Service) SiteSettings(ctx context.Context) (SiteSettings, error) {
	return fetch[SiteSettings](ctx, s.source, DocSiteSettings)
}

func (s *Service) Navigation(ctx context.Context) (Navigation, error) {
	return fetch[Navigation](ctx, s.source, DocNavigation)
}

func (s *Service) Hero(ctx context.Context) (Hero, error) {
	return fetch[Hero](ctx, s.source, DocHero)
}

func (s *Service) SocialLinks(ctx context.Context) (SocialLinks, error) {
	return fetch[SocialLinks](ctx, s.source, DocSocialLinks)
}

func (s *Service) ServicePage(ctx context.Context, kind ServiceKind) (ServicePage, error) {
	if !kind.Valid() {
		return ServicePage{}, fmt.Errorf("%w: %q", ErrUnknownDocument, kind)
	}
	return fetch[ServicePage](ctx, s.source, string(kind))
}

func (s *Service) Testimonials(ctx context.Context) ([]Testimonial, error) {
	return fetch[[]Testimonial](ctx, s.source, DocTestimonials)
}

func (s *Service) AboutUs(ctx context.Context) (AboutUs, error) {
	return fetch[AboutUs](ctx, s.source, DocAboutUs)
}

func (s *Service) ContactPage(ctx context.Context) (ContactPage, error) {
	return fetch[ContactPage](ctx, s.source, DocContactPage)
}

// BlockedDates feeds the availability calendar. A contact page that has not
// been published yet means nothing is blocked.
func (s *Service) BlockedDates(ctx context.Context) ([]availability.BlockedDateRange, error) {
	page, err := s.ContactPage(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return page.BlockedDates, nil
}

var (
	_ Provider            = (*Service)(nil)
	_ availability.Source = (*Service)(nil)
	_ Source              = (*SanityClient)(nil)
)
