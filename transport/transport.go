// Package transport defines the HTTP transport capability that the
// signing/credentials/client packages treat as an external collaborator:
// anything satisfying HTTPDoer, most notably *http.Client itself.
package transport

import "net/http"

// HTTPDoer is the minimal capability the executor and credentials
// provider need from an HTTP transport. *http.Client satisfies it
// directly. Implementations must be safe for concurrent use.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a plain function to HTTPDoer.
type DoerFunc func(*http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
