package posts

import (
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// Filter keeps the posts whose title or body contains query, ignoring case.
// An empty query returns items untouched.
func Filter(items []model.Post, query string) []model.Post {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	out := make([]model.Post, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Body), q) {
			out = append(out, p)
		}
	}
	return out
}
