package catalog

import (
	"bytes"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// record mirrors Book on disk. Pointer fields let decoding tell a missing
// field apart from a zero value.
type record struct {
	ID     *int    `json:"id"`
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Year   *int    `json:"year"`
	Status *string `json:"status"`
}

// Encode renders books as an indented JSON array.
func Encode(books []Book) ([]byte, error) {
	if books == nil {
		books = []Book{}
	}
	data, err := json.MarshalIndent(books, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a JSON array of book records. Every field must be present.
func Decode(data []byte) ([]Book, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedData)
	}

	var records *[]record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: payload is null", ErrMalformedData)
	}

	books := make([]Book, 0, len(*records))
	for i, r := range *records {
		if r.ID == nil || r.Title == nil || r.Author == nil || r.Year == nil || r.Status == nil {
			return nil, fmt.Errorf("%w: record %d is missing required fields", ErrMalformedData, i)
		}
		status, err := ParseStatus(*r.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedData, i, err)
		}
		books = append(books, Book{
			ID:     *r.ID,
			Title:  *r.Title,
			Author: *r.Author,
			Year:   *r.Year,
			Status: status,
		})
	}
	return books, nil
}

// Serialize writes the whole catalog to w.
func (c *Catalog) Serialize(w io.Writer) error {
	data, err := Encode(c.books)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: write catalog: %v", ErrUnknown, err)
	}
	return nil
}

// Deserialize reads a full payload from r and replaces the catalog with it.
// Nothing changes unless the payload parses and validates completely.
func (c *Catalog) Deserialize(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: read catalog: %v", ErrUnknown, err)
	}
	books, err := Decode(data)
	if err != nil {
		return err
	}
	return c.Replace(books)
}
