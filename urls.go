package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSuchRoute is returned by Reverse for unregistered route names.
var ErrNoSuchRoute = errors.New("route does not exist")

// routes maps route names to path patterns. Each {} takes one argument.
var routes = map[string]string{
	"index":         "/catalog/",
	"books":         "/catalog/books/",
	"book-detail":   "/catalog/book/{}",
	"authors":       "/catalog/authors/",
	"author-detail": "/catalog/author/{}",
}

// Reverse builds the path for a named route.
func Reverse(name string, args ...any) (string, error) {
	pattern, ok := routes[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoSuchRoute, name)
	}

	if n := strings.Count(pattern, "{}"); n != len(args) {
		return "", fmt.Errorf("route %s takes %d arguments, got %d", name, n, len(args))
	}

	for _, arg := range args {
		pattern = strings.Replace(pattern, "{}", fmt.Sprint(arg), 1)
	}

	return pattern, nil
}

func MustReverse(name string, args ...any) string {
	path, err := Reverse(name, args...)
	if err != nil {
		panic(err)
	}
	return path
}
