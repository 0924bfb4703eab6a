package site

// Entity is the closed set of content a request can resolve to.  The
// unexported marker keeps the set closed to this package, so adding a
// variant means touching every type switch over Entity.
type Entity interface {
	Type() ContentType
	entity()
}

// WebsiteContent is a website with the page matched for the request.
// Page is nil when the website itself is the most specific source.
type WebsiteContent struct {
	Website *Website
	Page    *Page
}

// FunnelContent is a funnel with the step matched for the request.
type FunnelContent struct {
	Funnel *Funnel
	Step   *Step
}

// CourseContent is a course area.  Its metadata always comes from the Store.
type CourseContent struct {
	Area *CourseArea
}

func (WebsiteContent) Type() ContentType { return TypeWebsite }
func (FunnelContent) Type() ContentType  { return TypeFunnel }
func (CourseContent) Type() ContentType  { return TypeCourseArea }

func (WebsiteContent) entity() {}
func (FunnelContent) entity()  {}
func (CourseContent) entity()  {}
