package model

import "strings"

// Item is the domain model for a todo entry.
type Item struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Status selects which todo entries a listing shows.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ParseStatus accepts the listing filters used on the command line.
// Unknown values fall back to StatusAll.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "pending", "todo":
		return StatusActive
	case "completed", "done":
		return StatusCompleted
	default:
		return StatusAll
	}
}

// Match reports whether it belongs in a listing filtered by s.
func (s Status) Match(it Item) bool {
	switch s {
	case StatusActive:
		return !it.Done
	case StatusCompleted:
		return it.Done
	default:
		return true
	}
}

// Stats counts done and pending entries.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
