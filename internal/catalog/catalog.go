package catalog

import (
	"fmt"
	"math"
)

// Catalog is an ordered, in-memory collection of books with monotonically
// assigned ids. It is not safe for concurrent use.
type Catalog struct {
	books   []Book
	nextID  int
	matcher Matcher
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		books:   make([]Book, 0),
		matcher: Matcher{MaxEdits: DefaultMaxEdits},
	}
}

// Add appends a new book and assigns it the next id. A zero status means
// StatusAvailable.
func (c *Catalog) Add(title, author string, year int, status Status) Book {
	if status == "" {
		status = StatusAvailable
	}
	b := Book{
		ID:     c.nextID,
		Title:  title,
		Author: author,
		Year:   year,
		Status: status,
	}
	c.books = append(c.books, b)
	c.nextID++
	return b
}

// DeleteByID removes the book with the given id and reports whether it existed.
func (c *Catalog) DeleteByID(id int) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.books = append(c.books[:i], c.books[i+1:]...)
	return true
}

// ExistsByID reports whether a book with the given id is present.
func (c *Catalog) ExistsByID(id int) bool {
	return c.indexOf(id) >= 0
}

// HasAny reports whether the catalog holds at least one book.
func (c *Catalog) HasAny() bool {
	return len(c.books) > 0
}

func (c *Catalog) Len() int {
	return len(c.books)
}

// NextID returns the id the next Add will assign.
func (c *Catalog) NextID() int {
	return c.nextID
}

// Get returns a copy of the book with the given id.
func (c *Catalog) Get(id int) (Book, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return Book{}, false
	}
	return c.books[i], true
}

// ChangeStatus overwrites the status of the book with the given id. It
// reports false and changes nothing when no such book exists.
func (c *Catalog) ChangeStatus(id int, status Status) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.books[i].Status = status
	return true
}

// FindByText returns every book whose title or author approximately matches
// pattern, in catalog order.
func (c *Catalog) FindByText(pattern string) []Book {
	found := make([]Book, 0)
	for _, b := range c.books {
		if c.matcher.Match(pattern, b.Title) || c.matcher.Match(pattern, b.Author) {
			found = append(found, b)
		}
	}
	return found
}

// FindByYear returns every book published in year, in catalog order.
func (c *Catalog) FindByYear(year int) []Book {
	found := make([]Book, 0)
	for _, b := range c.books {
		if b.Year == year {
			found = append(found, b)
		}
	}
	return found
}

// All returns a copy of every book in catalog order.
func (c *Catalog) All() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

// Replace swaps the whole collection for books, keeping their ids. The id
// counter continues after the largest loaded id. The catalog is left
// untouched if books violate the id invariants.
func (c *Catalog) Replace(books []Book) error {
	seen := make(map[int]struct{}, len(books))
	next := 0
	for i, b := range books {
		if b.ID < 0 {
			return fmt.Errorf("%w: record %d has negative id %d", ErrMalformedData, i, b.ID)
		}
		if b.ID == math.MaxInt {
			return fmt.Errorf("%w: record %d leaves no id after %d", ErrMalformedData, i, b.ID)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrMalformedData, b.ID)
		}
		if !b.Status.Valid() {
			return fmt.Errorf("%w: record %d has unknown status %q", ErrMalformedData, i, b.Status)
		}
		seen[b.ID] = struct{}{}
		if b.ID >= next {
			next = b.ID + 1
		}
	}

	c.books = make([]Book, len(books))
	copy(c.books, books)
	c.nextID = next
	return nil
}

func (c *Catalog) indexOf(id int) int {
	for i, b := range c.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}
