package domain

import "fmt"

// Document is a stored similarity-search payload. The vector is optional;
// documents without one are only reachable through lexical search.
type Document struct {
	ID      string
	Content string
	Tags    map[string]string
	Vector  []float32
}

// Validate checks the document for storability.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidDocument)
	}
	if d.Content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidDocument)
	}
	return nil
}
