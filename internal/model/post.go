package model

// Post is one record of the remote posts collection.
// Posts are never mutated after decoding; a new fetch replaces them wholesale.
type Post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}
