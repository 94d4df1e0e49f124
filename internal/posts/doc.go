// Package posts fetches pages of a remote posts collection and keeps the
// state of the paginated, searchable view built on top of it.
//
// The pieces are deliberately small:
//
//   - Client issues one GET per page and reads the X-Total-Count header.
//   - Filter narrows the loaded page by a case-insensitive substring.
//   - View owns the loading/error/ready state and the pagination rules.
//
// View never performs I/O. Callers ask it for a Request, run the fetch
// however they like (a Bubble Tea command, a plain call) and hand the
// result back through Apply.
package posts
