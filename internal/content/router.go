package content

import (
	"path"
	"strings"
)

// MatchKind identifies the outcome of routing a request.
type MatchKind int

const (
	// NoMatch means no route matched the request path.
	NoMatch MatchKind = iota
	// RawMatch carries the text of a Raw spec.
	RawMatch
	// HTMLMatch carries the markup of an HTML spec.
	HTMLMatch
	// FileMatch carries the filesystem path to read.
	FileMatch
	// ExplicitRaw carries the content of a raw route.
	ExplicitRaw
)

func (k MatchKind) String() string {
	switch k {
	case RawMatch:
		return "raw"
	case HTMLMatch:
		return "html"
	case FileMatch:
		return "file"
	case ExplicitRaw:
		return "explicit-raw"
	default:
		return "no-match"
	}
}

// MatchResult is what the router decided for one request.
type MatchResult struct {
	Kind        MatchKind
	Text        string // RawMatch, HTMLMatch, ExplicitRaw
	Path        string // FileMatch
	ContentType string // FileMatch, ExplicitRaw
	Status      int    // ExplicitRaw
	Route       string // the route that matched, empty for NoMatch
}

// Match routes requestPath against spec.
// Raw and HTML specs match every path. Routed specs are scanned in order and
// the first route equal to requestPath, or the wildcard, wins.
func Match(spec Spec, requestPath string) MatchResult {
	switch spec.kind {
	case KindRaw:
		return MatchResult{Kind: RawMatch, Text: spec.text}
	case KindHTML:
		return MatchResult{Kind: HTMLMatch, Text: spec.text}
	case KindRouted:
		for _, r := range spec.routes {
			if r.Route != requestPath && !r.IsWildcard() {
				continue
			}
			return matchRoute(r, requestPath)
		}
	}
	return MatchResult{Kind: NoMatch}
}

func matchRoute(r Route, requestPath string) MatchResult {
	if r.Kind == RawRoute {
		return MatchResult{
			Kind:        ExplicitRaw,
			Text:        r.Content,
			ContentType: r.ContentType,
			Status:      r.Status,
			Route:       r.Route,
		}
	}

	filePath := r.Path
	if r.IsWildcard() {
		filePath = RequestFilePath(requestPath)
	}
	return MatchResult{
		Kind:        FileMatch,
		Path:        filePath,
		ContentType: r.ContentType,
		Route:       r.Route,
	}
}

// RequestFilePath turns a request path into a path relative to the working
// directory: cleaned, then stripped of its leading slash. "/" yields "".
// Cleaning against a rooted path drops any ".." that would climb above it.
func RequestFilePath(requestPath string) string {
	return strings.TrimPrefix(path.Clean("/"+requestPath), "/")
}
