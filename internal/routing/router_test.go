// internal/routing/router_test.go
//
// Rule-chain tests against site.MemoryRepository.  `sequential` hides the
// StepBatcher so both funnel_step code paths are exercised.

package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/yanizio/sitegate/internal/site"
)

// sequential exposes only site.Repository, hiding StepBatcher.
type sequential struct{ site.Repository }

func conn(id uint64, t site.ContentType, contentID uint64) site.Connection {
	return site.Connection{ID: id, DomainID: 1, ContentType: t, ContentID: contentID}
}

func stepRepo() *site.MemoryRepository {
	return &site.MemoryRepository{
		Steps: []site.Step{
			{ID: 1, FunnelID: 101, Slug: "intro", IsPublished: true},
			{ID: 2, FunnelID: 101, Slug: "offer-a", IsPublished: false},
			{ID: 3, FunnelID: 102, Slug: "offer-a", IsPublished: true},
			{ID: 4, FunnelID: 103, Slug: "offer-a", IsPublished: true},
		},
	}
}

func TestSelect_RootPrefersHomepageRegardlessOfOrder(t *testing.T) {
	home := site.Connection{ID: 9, ContentType: site.TypeFunnel, ContentID: 7, IsHomepage: true}
	orders := [][]site.Connection{
		{conn(1, site.TypeWebsite, 5), conn(2, site.TypeCourseArea, 6), home},
		{home, conn(1, site.TypeWebsite, 5)},
		{conn(2, site.TypeCourseArea, 6), home, conn(1, site.TypeWebsite, 5)},
	}
	r := New(&site.MemoryRepository{}, Rules{}, 0)
	for i, conns := range orders {
		got, err := r.Select(context.Background(), conns, "/")
		if err != nil {
			t.Fatalf("order %d: Select error: %v", i, err)
		}
		if got.ID != 7 || got.Type != site.TypeFunnel || got.Rule != "root" {
			t.Fatalf("order %d: target = %+v, want homepage funnel 7", i, got)
		}
	}
}

func TestSelect_RootTypePriority(t *testing.T) {
	r := New(&site.MemoryRepository{}, Rules{}, 0)
	cases := []struct {
		conns []site.Connection
		want  site.ContentType
	}{
		{[]site.Connection{conn(1, site.TypeFunnel, 1), conn(2, site.TypeWebsite, 2)}, site.TypeWebsite},
		{[]site.Connection{conn(1, site.TypeFunnel, 1), conn(2, site.TypeCourseArea, 2)}, site.TypeCourseArea},
		{[]site.Connection{conn(1, site.TypeFunnel, 1)}, site.TypeFunnel},
	}
	for _, c := range cases {
		got, err := r.Select(context.Background(), c.conns, "")
		if err != nil {
			t.Fatalf("Select error: %v", err)
		}
		if got.Type != c.want {
			t.Errorf("Type = %q, want %q", got.Type, c.want)
		}
	}
}

func TestSelect_NoConnectionsIsNoContent(t *testing.T) {
	r := New(&site.MemoryRepository{}, Rules{}, 0)
	for _, p := range []string{"/", "/anything"} {
		if _, err := r.Select(context.Background(), nil, p); !errors.Is(err, ErrNoContent) {
			t.Fatalf("Select(%q) err = %v, want ErrNoContent", p, err)
		}
	}
}

func TestSelect_CoursePrefix(t *testing.T) {
	r := New(&site.MemoryRepository{}, Rules{}, 0)
	conns := []site.Connection{conn(1, site.TypeWebsite, 5), conn(2, site.TypeCourseArea, 6)}
	got, err := r.Select(context.Background(), conns, "/members/lesson-1")
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if got.Type != site.TypeCourseArea || got.Rule != "course_prefix" {
		t.Fatalf("target = %+v, want course_prefix", got)
	}

	// Without a course area the prefix rule yields nothing.
	got, _ = r.Select(context.Background(), conns[:1], "/members/lesson-1")
	if got.Type != site.TypeWebsite || got.Rule != "website_fallback" {
		t.Fatalf("target = %+v, want website_fallback", got)
	}
}

func TestSelect_WebsiteSystemRouteBeatsFunnel(t *testing.T) {
	repo := stepRepo()
	repo.Steps = append(repo.Steps, site.Step{ID: 9, FunnelID: 101, Slug: "checkout", IsPublished: true})
	r := New(repo, Rules{}, 0)
	conns := []site.Connection{conn(1, site.TypeFunnel, 101), conn(2, site.TypeWebsite, 5)}

	got, err := r.Select(context.Background(), conns, "/checkout")
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if got.Type != site.TypeWebsite || got.ID != 5 || got.Rule != "website_system" {
		t.Fatalf("target = %+v, want website 5 via website_system", got)
	}
	if n := repo.StepChecks.Load(); n != 0 {
		t.Fatalf("step checks = %d, want 0", n)
	}
}

func TestSelect_GeneralSystemPrefersFunnel(t *testing.T) {
	r := New(&site.MemoryRepository{}, Rules{}, 0)
	conns := []site.Connection{conn(1, site.TypeWebsite, 5), conn(2, site.TypeFunnel, 101)}

	got, _ := r.Select(context.Background(), conns, "/thank-you")
	if got.Type != site.TypeFunnel || got.Rule != "general_system" {
		t.Fatalf("target = %+v, want funnel via general_system", got)
	}
	got, _ = r.Select(context.Background(), conns[:1], "/thank-you")
	if got.Type != site.TypeWebsite || got.Rule != "general_system" {
		t.Fatalf("target = %+v, want website via general_system", got)
	}
}

func TestSelect_ConfiguredListsReplaceDefaults(t *testing.T) {
	r := New(&site.MemoryRepository{}, Rules{WebsiteSystem: []string{"Basket"}}, 0)
	conns := []site.Connection{conn(1, site.TypeFunnel, 101), conn(2, site.TypeWebsite, 5)}

	got, _ := r.Select(context.Background(), conns, "/basket")
	if got.Rule != "website_system" {
		t.Fatalf("Rule = %q, want website_system", got.Rule)
	}
	got, _ = r.Select(context.Background(), conns, "/checkout")
	if got.Rule == "website_system" {
		t.Fatal("default list still active after override")
	}
}

func TestSelect_FunnelStepFirstMatchInOrder(t *testing.T) {
	conns := []site.Connection{
		conn(1, site.TypeWebsite, 5),
		conn(2, site.TypeFunnel, 101),
		conn(3, site.TypeFunnel, 102),
		conn(4, site.TypeFunnel, 103),
	}
	for name, wrap := range map[string]func(*site.MemoryRepository) site.Repository{
		"batched":    func(m *site.MemoryRepository) site.Repository { return m },
		"sequential": func(m *site.MemoryRepository) site.Repository { return sequential{m} },
	} {
		t.Run(name, func(t *testing.T) {
			repo := stepRepo()
			r := New(wrap(repo), Rules{}, 0)
			got, err := r.Select(context.Background(), conns, "/offer-a")
			if err != nil {
				t.Fatalf("Select error: %v", err)
			}
			if got.ID != 102 || got.Rule != "funnel_step" || got.Slug != "offer-a" {
				t.Fatalf("target = %+v, want funnel 102", got)
			}
			want := int64(1)
			if name == "sequential" {
				want = 2 // 101 miss, 102 hit, 103 never checked
			}
			if n := repo.StepChecks.Load(); n != want {
				t.Fatalf("step checks = %d, want %d", n, want)
			}
		})
	}
}

func TestSelect_UnrelatedStepsDoNotChangeOutcome(t *testing.T) {
	conns := []site.Connection{conn(2, site.TypeFunnel, 101), conn(3, site.TypeFunnel, 102)}
	repo := stepRepo()
	r := New(repo, Rules{}, 0)
	before, _ := r.Select(context.Background(), conns, "/offer-a")

	repo.Steps = append(repo.Steps,
		site.Step{ID: 20, FunnelID: 101, Slug: "upsell", IsPublished: true},
		site.Step{ID: 21, FunnelID: 101, Slug: "downsell", IsPublished: false})
	after, _ := r.Select(context.Background(), conns, "/offer-a")

	if before != after {
		t.Fatalf("target changed: %+v → %+v", before, after)
	}
}

func TestSelect_FunnelStepMissFallsBackToWebsite(t *testing.T) {
	conns := []site.Connection{conn(2, site.TypeFunnel, 101), conn(1, site.TypeWebsite, 5)}
	r := New(stepRepo(), Rules{}, 0)
	got, err := r.Select(context.Background(), conns, "/blog/hello-world")
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if got.Type != site.TypeWebsite || got.Rule != "website_fallback" || got.Slug != "hello-world" {
		t.Fatalf("target = %+v", got)
	}
}

func TestSelect_BatchFailureFallsBackToSequential(t *testing.T) {
	repo := stepRepo()
	repo.Fail = map[string]error{"funnels with published step": errors.New("boom")}
	r := New(repo, Rules{}, 0)
	conns := []site.Connection{conn(2, site.TypeFunnel, 101), conn(3, site.TypeFunnel, 102)}

	got, err := r.Select(context.Background(), conns, "/offer-a")
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if got.ID != 102 {
		t.Fatalf("ID = %d, want 102", got.ID)
	}
}

func TestSelect_CheckFailureIsMiss(t *testing.T) {
	repo := stepRepo()
	repo.Fail = map[string]error{"published step exists": errors.New("timeout")}
	r := New(sequential{repo}, Rules{}, 0)
	conns := []site.Connection{conn(2, site.TypeFunnel, 102), conn(1, site.TypeWebsite, 5)}

	got, err := r.Select(context.Background(), conns, "/offer-a")
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if got.Type != site.TypeWebsite {
		t.Fatalf("Type = %q, want website", got.Type)
	}
}

func TestSelect_ExactPath(t *testing.T) {
	r := New(stepRepo(), Rules{}, 0)
	pathed := conn(3, site.TypeFunnel, 103)
	pathed.Path = "/promo/"
	conns := []site.Connection{conn(1, site.TypeWebsite, 5), pathed}

	got, _ := r.Select(context.Background(), conns, "promo")
	if got.ID != 103 || got.Rule != "exact_path" || got.Slug != "" {
		t.Fatalf("target = %+v, want exact_path funnel 103", got)
	}
}

func TestPathHelpers(t *testing.T) {
	if got := Clean("//a//b/"); got != "a/b" {
		t.Errorf("Clean = %q, want a/b", got)
	}
	if got := LastSegment("/blog/post/"); got != "post" {
		t.Errorf("LastSegment = %q, want post", got)
	}
	if got := FirstSegment("/courses/x"); got != "courses" {
		t.Errorf("FirstSegment = %q, want courses", got)
	}
	if got := BuildPath("", ""); got != "/" {
		t.Errorf("BuildPath = %q, want /", got)
	}
	if got := BuildPath("/blog/", "/post"); got != "/blog/post" {
		t.Errorf("BuildPath = %q, want /blog/post", got)
	}
}
