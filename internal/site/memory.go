// internal/site/memory.go
//
// In-memory Repository backed by plain slices.  Tests build one directly;
// `database.fixtures` loads one from YAML so a demo deployment can run
// without MySQL.
package site

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// MemoryRepository satisfies Repository and StepBatcher.  Slices are
// treated as insertion order.  Fail injects an error per operation name
// (e.g. "connections", "website") for degradation tests.
type MemoryRepository struct {
	Domains     []CustomDomain `yaml:"custom_domains"`
	Links       []Connection   `yaml:"domain_connections"`
	Stores      []Store        `yaml:"stores"`
	Websites    []Website      `yaml:"websites"`
	Pages       []Page         `yaml:"website_pages"`
	Funnels     []Funnel       `yaml:"funnels"`
	Steps       []Step         `yaml:"funnel_steps"`
	CourseAreas []CourseArea   `yaml:"course_areas"`

	Fail map[string]error `yaml:"-"`

	// StepChecks counts PublishedStepExists calls, batched or not.
	StepChecks atomic.Int64 `yaml:"-"`
}

var (
	_ Repository  = (*MemoryRepository)(nil)
	_ StepBatcher = (*MemoryRepository)(nil)
)

// LoadFixtures parses a YAML fixture file into a MemoryRepository.
func LoadFixtures(path string) (*MemoryRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	var m MemoryRepository
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return &m, nil
}

func (m *MemoryRepository) fail(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	if err, ok := m.Fail[op]; ok && err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return nil
}

func (m *MemoryRepository) VerifiedDomain(ctx context.Context, hosts []string) (*CustomDomain, error) {
	if err := m.fail(ctx, "verified domain"); err != nil {
		return nil, err
	}
	for _, h := range hosts {
		for i := range m.Domains {
			if m.Domains[i].Domain == h && m.Domains[i].Eligible() {
				d := m.Domains[i]
				return &d, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) StoreBySubdomain(ctx context.Context, subdomain string) (*Store, error) {
	if err := m.fail(ctx, "store by subdomain"); err != nil {
		return nil, err
	}
	for i := range m.Stores {
		if m.Stores[i].Subdomain != "" && m.Stores[i].Subdomain == subdomain {
			s := m.Stores[i]
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) Connections(ctx context.Context, domainID uint64) ([]Connection, error) {
	if err := m.fail(ctx, "connections"); err != nil {
		return nil, err
	}
	var out []Connection
	for _, c := range m.Links {
		if c.DomainID == domainID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemoryRepository) StoreConnections(ctx context.Context, storeID uint64) ([]Connection, error) {
	if err := m.fail(ctx, "store connections"); err != nil {
		return nil, err
	}
	var out []Connection
	for _, w := range m.Websites {
		if w.StoreID == storeID {
			out = append(out, Connection{ContentType: TypeWebsite, ContentID: w.ID})
			break
		}
	}
	for _, f := range m.Funnels {
		if f.StoreID == storeID {
			out = append(out, Connection{ContentType: TypeFunnel, ContentID: f.ID})
		}
	}
	for _, a := range m.CourseAreas {
		if a.StoreID == storeID {
			out = append(out, Connection{ContentType: TypeCourseArea, ContentID: a.ID})
			break
		}
	}
	return out, nil
}

func (m *MemoryRepository) PublishedStepExists(ctx context.Context, funnelID uint64, slug string) (bool, error) {
	m.StepChecks.Add(1)
	if err := m.fail(ctx, "published step exists"); err != nil {
		return false, err
	}
	for _, s := range m.Steps {
		if s.FunnelID == funnelID && s.Slug == slug && s.IsPublished {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepository) FunnelsWithPublishedStep(ctx context.Context, funnelIDs []uint64, slug string) (map[uint64]bool, error) {
	m.StepChecks.Add(1)
	if err := m.fail(ctx, "funnels with published step"); err != nil {
		return nil, err
	}
	want := make(map[uint64]bool, len(funnelIDs))
	for _, id := range funnelIDs {
		want[id] = true
	}
	out := make(map[uint64]bool)
	for _, s := range m.Steps {
		if want[s.FunnelID] && s.Slug == slug && s.IsPublished {
			out[s.FunnelID] = true
		}
	}
	return out, nil
}

func (m *MemoryRepository) Store(ctx context.Context, id uint64) (*Store, error) {
	if err := m.fail(ctx, "store"); err != nil {
		return nil, err
	}
	for i := range m.Stores {
		if m.Stores[i].ID == id {
			s := m.Stores[i]
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) Website(ctx context.Context, id uint64) (*Website, error) {
	if err := m.fail(ctx, "website"); err != nil {
		return nil, err
	}
	for i := range m.Websites {
		if m.Websites[i].ID == id {
			w := m.Websites[i]
			return &w, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) Funnel(ctx context.Context, id uint64) (*Funnel, error) {
	if err := m.fail(ctx, "funnel"); err != nil {
		return nil, err
	}
	for i := range m.Funnels {
		if m.Funnels[i].ID == id {
			f := m.Funnels[i]
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) CourseArea(ctx context.Context, id uint64) (*CourseArea, error) {
	if err := m.fail(ctx, "course area"); err != nil {
		return nil, err
	}
	for i := range m.CourseAreas {
		if m.CourseAreas[i].ID == id {
			a := m.CourseAreas[i]
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) WebsitePage(ctx context.Context, websiteID uint64, slug string) (*Page, error) {
	if err := m.fail(ctx, "website page"); err != nil {
		return nil, err
	}
	for i := range m.Pages {
		p := m.Pages[i]
		if p.WebsiteID != websiteID || !p.IsPublished {
			continue
		}
		if (slug == "" && p.IsHomepage) || (slug != "" && p.Slug == slug) {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) FunnelStep(ctx context.Context, funnelID uint64, slug string) (*Step, error) {
	if err := m.fail(ctx, "funnel step"); err != nil {
		return nil, err
	}
	steps, _ := m.PublishedSteps(ctx, funnelID)
	for i := range steps {
		if slug == "" || steps[i].Slug == slug {
			s := steps[i]
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) PublishedPages(ctx context.Context, websiteID uint64) ([]Page, error) {
	if err := m.fail(ctx, "published pages"); err != nil {
		return nil, err
	}
	var out []Page
	for _, p := range m.Pages {
		if p.WebsiteID == websiteID && p.IsPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryRepository) PublishedSteps(ctx context.Context, funnelID uint64) ([]Step, error) {
	if err := m.fail(ctx, "published steps"); err != nil {
		return nil, err
	}
	var out []Step
	for _, s := range m.Steps {
		if s.FunnelID == funnelID && s.IsPublished {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StepOrder < out[j].StepOrder })
	return out, nil
}
