// internal/site/sql.go
//
// sqlx implementation of Repository.
//
// Workflow
// --------
//  1. Each helper executes exactly one parameterised SELECT.
//  2. `sql.ErrNoRows` maps to ErrNotFound; every other driver error,
//     including context deadlines, is wrapped with ErrUnavailable.
//  3. IN clauses are expanded with sqlx.In and rebound for the driver.
//
// Notes
// -----
//   - Column lists match the struct tags in model.go; update both together.
//   - Single-row queries carry `LIMIT 1`.
package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLRepository reads from the control-plane database.
type SQLRepository struct {
	db *sqlx.DB
}

var (
	_ Repository  = (*SQLRepository)(nil)
	_ StepBatcher = (*SQLRepository)(nil)
)

// NewSQLRepository wraps an open pool.
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

const seoColumns = `
               COALESCE(seo_title, '')       AS seo_title,
               COALESCE(seo_description, '') AS seo_description,
               COALESCE(og_image, '')        AS og_image,
               COALESCE(seo_keywords, '')    AS seo_keywords,
               COALESCE(meta_robots, '')     AS meta_robots,
               COALESCE(canonical_url, '')   AS canonical_url`

// VerifiedDomain implements Repository.
func (r *SQLRepository) VerifiedDomain(ctx context.Context, hosts []string) (*CustomDomain, error) {
	if len(hosts) == 0 {
		return nil, ErrNotFound
	}
	q, args, err := sqlx.In(`
        SELECT id, domain, store_id, is_verified, dns_configured
        FROM   custom_domains
        WHERE  domain IN (?)
          AND  is_verified    = TRUE
          AND  dns_configured = TRUE`, hosts)
	if err != nil {
		return nil, err
	}

	var rows []CustomDomain
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, wrap("verified domain", err)
	}

	// Prefer the variant the caller listed first (exact host over apex).
	for _, h := range hosts {
		for i := range rows {
			if rows[i].Domain == h {
				return &rows[i], nil
			}
		}
	}
	return nil, ErrNotFound
}

// StoreBySubdomain implements Repository.
func (r *SQLRepository) StoreBySubdomain(ctx context.Context, subdomain string) (*Store, error) {
	const q = `
        SELECT id, name,
               COALESCE(description, '') AS description,
               COALESCE(favicon_url, '') AS favicon_url,
               COALESCE(subdomain, '')   AS subdomain,
               COALESCE(locale, '')      AS locale
        FROM   stores
        WHERE  subdomain = ?
        LIMIT  1`
	var s Store
	if err := r.db.GetContext(ctx, &s, q, subdomain); err != nil {
		return nil, wrap("store by subdomain", err)
	}
	return &s, nil
}

// Connections implements Repository.
func (r *SQLRepository) Connections(ctx context.Context, domainID uint64) ([]Connection, error) {
	const q = `
        SELECT id, domain_id, content_type, content_id,
               COALESCE(path, '') AS path, is_homepage
        FROM   domain_connections
        WHERE  domain_id = ?
        ORDER  BY id`
	var rows []Connection
	if err := r.db.SelectContext(ctx, &rows, q, domainID); err != nil {
		return nil, wrap("connections", err)
	}
	return rows, nil
}

// StoreConnections implements Repository.
func (r *SQLRepository) StoreConnections(ctx context.Context, storeID uint64) ([]Connection, error) {
	const q = `
        (SELECT 'website' AS content_type, id AS content_id, 0 AS ord
         FROM   websites WHERE store_id = ? ORDER BY id LIMIT 1)
        UNION ALL
        (SELECT 'funnel', id, 1 FROM funnels WHERE store_id = ?)
        UNION ALL
        (SELECT 'course_area', id, 2 FROM course_areas WHERE store_id = ?)
        ORDER  BY ord, content_id`
	var rows []struct {
		ContentType ContentType `db:"content_type"`
		ContentID   uint64      `db:"content_id"`
		Ord         int         `db:"ord"`
	}
	if err := r.db.SelectContext(ctx, &rows, q, storeID, storeID, storeID); err != nil {
		return nil, wrap("store connections", err)
	}

	out := make([]Connection, 0, len(rows))
	seenCourse := false
	for _, row := range rows {
		if row.ContentType == TypeCourseArea {
			if seenCourse {
				continue
			}
			seenCourse = true
		}
		out = append(out, Connection{ContentType: row.ContentType, ContentID: row.ContentID})
	}
	return out, nil
}

// PublishedStepExists implements Repository.
func (r *SQLRepository) PublishedStepExists(ctx context.Context, funnelID uint64, slug string) (bool, error) {
	const q = `
        SELECT 1
        FROM   funnel_steps
        WHERE  funnel_id    = ?
          AND  slug         = ?
          AND  is_published = TRUE
        LIMIT  1`
	var one int
	err := r.db.QueryRowContext(ctx, q, funnelID, slug).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, wrap("published step exists", err)
	}
	return true, nil
}

// FunnelsWithPublishedStep implements StepBatcher with one IN query.
func (r *SQLRepository) FunnelsWithPublishedStep(ctx context.Context, funnelIDs []uint64, slug string) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(funnelIDs))
	if len(funnelIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
        SELECT DISTINCT funnel_id
        FROM   funnel_steps
        WHERE  funnel_id IN (?)
          AND  slug         = ?
          AND  is_published = TRUE`, funnelIDs, slug)
	if err != nil {
		return nil, err
	}
	var ids []uint64
	if err := r.db.SelectContext(ctx, &ids, r.db.Rebind(q), args...); err != nil {
		return nil, wrap("funnels with published step", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// Store implements Repository.
func (r *SQLRepository) Store(ctx context.Context, id uint64) (*Store, error) {
	const q = `
        SELECT id, name,
               COALESCE(description, '') AS description,
               COALESCE(favicon_url, '') AS favicon_url,
               COALESCE(subdomain, '')   AS subdomain,
               COALESCE(locale, '')      AS locale
        FROM   stores
        WHERE  id = ?
        LIMIT  1`
	var s Store
	if err := r.db.GetContext(ctx, &s, q, id); err != nil {
		return nil, wrap("store", err)
	}
	return &s, nil
}

// Website implements Repository.
func (r *SQLRepository) Website(ctx context.Context, id uint64) (*Website, error) {
	q := `
        SELECT id, store_id, name,
               COALESCE(description, '') AS description,
               COALESCE(settings, '')    AS settings,` + seoColumns + `
        FROM   websites
        WHERE  id = ?
        LIMIT  1`
	var w Website
	if err := r.db.GetContext(ctx, &w, q, id); err != nil {
		return nil, wrap("website", err)
	}
	return &w, nil
}

// Funnel implements Repository.
func (r *SQLRepository) Funnel(ctx context.Context, id uint64) (*Funnel, error) {
	q := `
        SELECT id, store_id, name,
               COALESCE(description, '') AS description,
               COALESCE(settings, '')    AS settings,` + seoColumns + `
        FROM   funnels
        WHERE  id = ?
        LIMIT  1`
	var f Funnel
	if err := r.db.GetContext(ctx, &f, q, id); err != nil {
		return nil, wrap("funnel", err)
	}
	return &f, nil
}

// CourseArea implements Repository.
func (r *SQLRepository) CourseArea(ctx context.Context, id uint64) (*CourseArea, error) {
	const q = `
        SELECT id, store_id, COALESCE(title, '') AS title
        FROM   course_areas
        WHERE  id = ?
        LIMIT  1`
	var a CourseArea
	if err := r.db.GetContext(ctx, &a, q, id); err != nil {
		return nil, wrap("course area", err)
	}
	return &a, nil
}

const pageColumns = `
        SELECT id, website_id, slug, is_homepage, is_published,
               COALESCE(title, '')   AS title,
               COALESCE(content, '') AS content,` + seoColumns + `
        FROM   website_pages`

// WebsitePage implements Repository.
func (r *SQLRepository) WebsitePage(ctx context.Context, websiteID uint64, slug string) (*Page, error) {
	var (
		p    Page
		err  error
		tail = `
        WHERE  website_id = ? AND is_published = TRUE AND `
	)
	if slug == "" {
		err = r.db.GetContext(ctx, &p, pageColumns+tail+`is_homepage = TRUE
        ORDER  BY id
        LIMIT  1`, websiteID)
	} else {
		err = r.db.GetContext(ctx, &p, pageColumns+tail+`slug = ?
        LIMIT  1`, websiteID, slug)
	}
	if err != nil {
		return nil, wrap("website page", err)
	}
	return &p, nil
}

const stepColumns = `
        SELECT id, funnel_id, slug, step_order, is_published,
               COALESCE(title, '')   AS title,
               COALESCE(content, '') AS content,` + seoColumns + `
        FROM   funnel_steps`

// FunnelStep implements Repository.
func (r *SQLRepository) FunnelStep(ctx context.Context, funnelID uint64, slug string) (*Step, error) {
	var (
		s   Step
		err error
	)
	if slug == "" {
		err = r.db.GetContext(ctx, &s, stepColumns+`
        WHERE  funnel_id = ? AND is_published = TRUE
        ORDER  BY step_order, id
        LIMIT  1`, funnelID)
	} else {
		err = r.db.GetContext(ctx, &s, stepColumns+`
        WHERE  funnel_id = ? AND is_published = TRUE AND slug = ?
        LIMIT  1`, funnelID, slug)
	}
	if err != nil {
		return nil, wrap("funnel step", err)
	}
	return &s, nil
}

// PublishedPages implements Repository.
func (r *SQLRepository) PublishedPages(ctx context.Context, websiteID uint64) ([]Page, error) {
	var rows []Page
	err := r.db.SelectContext(ctx, &rows, pageColumns+`
        WHERE  website_id = ? AND is_published = TRUE
        ORDER  BY id`, websiteID)
	if err != nil {
		return nil, wrap("published pages", err)
	}
	return rows, nil
}

// PublishedSteps implements Repository.
func (r *SQLRepository) PublishedSteps(ctx context.Context, funnelID uint64) ([]Step, error) {
	var rows []Step
	err := r.db.SelectContext(ctx, &rows, stepColumns+`
        WHERE  funnel_id = ? AND is_published = TRUE
        ORDER  BY step_order, id`, funnelID)
	if err != nil {
		return nil, wrap("published steps", err)
	}
	return rows, nil
}

// wrap maps driver errors onto the package taxonomy.
func wrap(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
