// Package content holds the resolved description of what tiny-serve serves and
// the routing and response-building logic applied to every request.
package content

// Wildcard is the route value that matches any request path not matched by an
// earlier route. The request path itself locates the file to read.
const Wildcard = "."

// DefaultFileType is the content type of every successfully served file unless
// its route declares one. There is no extension-based detection.
const DefaultFileType = "text/html"

// Kind identifies the variant of a Spec.
type Kind int

const (
	// KindRaw serves a fixed string for every request.
	KindRaw Kind = iota
	// KindHTML serves fixed markup with a text/html content type.
	KindHTML
	// KindRouted matches the request path against an ordered list of routes.
	KindRouted
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindHTML:
		return "html"
	case KindRouted:
		return "routed"
	default:
		return "unknown"
	}
}

// RouteKind identifies the variant of a Route.
type RouteKind int

const (
	// FileRoute serves the bytes of a file.
	FileRoute RouteKind = iota
	// RawRoute serves literal content.
	RawRoute
)

// Route is one entry of a routed Spec.
// Empty strings and a zero Status mean "not declared".
type Route struct {
	Kind        RouteKind
	Route       string
	Path        string // FileRoute only
	Content     string // RawRoute only
	ContentType string
	Status      int // RawRoute only
}

// IsWildcard reports whether the route matches every request path.
func (r Route) IsWildcard() bool {
	return r.Route == Wildcard
}

// Spec is the immutable description of what the server serves.
// It is built once at startup and shared read-only by all requests.
type Spec struct {
	kind   Kind
	text   string
	routes []Route
}

// Raw returns a Spec that serves text verbatim for every request.
func Raw(text string) Spec {
	return Spec{kind: KindRaw, text: text}
}

// HTML returns a Spec that serves markup as text/html for every request.
func HTML(markup string) Spec {
	return Spec{kind: KindHTML, text: markup}
}

// Routed returns a Spec that matches routes in the given order.
// The slice is copied so later changes by the caller are not observed.
func Routed(routes ...Route) Spec {
	owned := make([]Route, len(routes))
	copy(owned, routes)
	return Spec{kind: KindRouted, routes: owned}
}

// File returns a file route.
func File(route, path, contentType string) Route {
	return Route{Kind: FileRoute, Route: route, Path: path, ContentType: contentType}
}

// Literal returns a raw route. A zero status means 200.
func Literal(route, content, contentType string, status int) Route {
	return Route{Kind: RawRoute, Route: route, Content: content, ContentType: contentType, Status: status}
}

// Kind returns the variant of the spec.
func (s Spec) Kind() Kind {
	return s.kind
}

// Text returns the content of a Raw or HTML spec.
func (s Spec) Text() string {
	return s.text
}

// Routes returns a copy of the routes of a Routed spec.
func (s Spec) Routes() []Route {
	out := make([]Route, len(s.routes))
	copy(out, s.routes)
	return out
}

// Len returns the number of routes.
func (s Spec) Len() int {
	return len(s.routes)
}
