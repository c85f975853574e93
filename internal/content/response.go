package content

import (
	"net/http"
	"os"
)

// Response is the concrete answer to one request.
// An empty ContentType means none was declared.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Builder converts match results into responses.
// The zero value reads files with os.ReadFile.
type Builder struct {
	// ReadFile reads the file behind a FileMatch. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)

	// OnReadError, if set, observes file reads that were turned into a 404.
	OnReadError func(path string, err error)
}

// Build turns m into a Response. The only I/O it performs is the single file
// read of a FileMatch.
func (b Builder) Build(m MatchResult) Response {
	switch m.Kind {
	case RawMatch:
		return Response{Status: http.StatusOK, Body: []byte(m.Text)}
	case HTMLMatch:
		return Response{Status: http.StatusOK, ContentType: DefaultFileType, Body: []byte(m.Text)}
	case FileMatch:
		return b.buildFile(m)
	case ExplicitRaw:
		status := m.Status
		if status == 0 {
			status = http.StatusOK
		}
		return Response{Status: status, ContentType: m.ContentType, Body: []byte(m.Text)}
	default:
		return notFound()
	}
}

func (b Builder) buildFile(m MatchResult) Response {
	read := b.ReadFile
	if read == nil {
		read = os.ReadFile
	}

	data, err := read(m.Path)
	if err != nil {
		if b.OnReadError != nil {
			b.OnReadError(m.Path, err)
		}
		return notFound()
	}

	contentType := m.ContentType
	if contentType == "" {
		contentType = DefaultFileType
	}
	return Response{Status: http.StatusOK, ContentType: contentType, Body: data}
}

func notFound() Response {
	return Response{Status: http.StatusNotFound, ContentType: DefaultFileType, Body: []byte{}}
}

// Serve routes requestPath against spec and builds the response.
func (b Builder) Serve(spec Spec, requestPath string) Response {
	return b.Build(Match(spec, requestPath))
}
