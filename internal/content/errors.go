package content

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-success response from the content repository. It is
// distinct from a transport failure, which is returned as a plain wrapped
// error.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// IsNotFound reports whether err is a 404 from the content repository.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Resource names the index or document a LoadError refers to.
type Resource string

const (
	ResourceSections  Resource = "sections"
	ResourceTutorials Resource = "tutorials"
	ResourceChapters  Resource = "chapters"
	ResourceArticles  Resource = "articles"
	ResourceDocument  Resource = "document"
)

// LoadError reports a failed index or document load. Key holds whatever part
// of the navigation key was known when the load was issued.
type LoadError struct {
	Key      Key
	Resource Resource
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s for %s: %v", e.Resource, e.Key, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
