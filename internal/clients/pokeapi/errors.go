package pokeapi

import "fmt"

// NotFoundError is returned when PokeAPI answers 404 for a resource
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// StatusError is returned when PokeAPI answers with an unexpected status
// after all retries are exhausted
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}
