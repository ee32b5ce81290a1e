package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"bookkeeper/internal/catalog"
)

// Options holds the settings the menu passes through to the catalog.
type Options struct {
	DataFile string
	MaxYear  int
}

// Menu runs the interactive loop against a catalog service.
type Menu struct {
	service catalog.Service
	view    *View
	prompt  *Prompter
	opts    Options
	logger  *slog.Logger
}

func NewMenu(service catalog.Service, in io.Reader, out io.Writer, opts Options, logger *slog.Logger) *Menu {
	if logger == nil {
		logger = slog.Default()
	}
	view := NewView(out)
	return &Menu{
		service: service,
		view:    view,
		prompt:  NewPrompter(in, view),
		opts:    opts,
		logger:  logger,
	}
}

// Run shows the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	m.view.Welcome()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.view.Menu()
		line, err := m.prompt.Line(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		cmd, ok := ParseCommand(line)
		if !ok {
			m.view.Warn("Invalid command!")
			continue
		}
		if cmd == CommandExit {
			return nil
		}

		m.logger.DebugContext(ctx, "menu command", "command", cmd.String())
		if err := m.Handle(ctx, cmd); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Handle executes a single command. Catalog failures are reported to the
// user; only input errors are returned.
func (m *Menu) Handle(ctx context.Context, cmd Command) error {
	switch cmd {
	case CommandAdd:
		return m.handleAdd(ctx)
	case CommandDelete:
		return m.handleDelete(ctx)
	case CommandSearch:
		return m.handleSearch(ctx)
	case CommandList:
		return m.handleList(ctx)
	case CommandChangeStatus:
		return m.handleChangeStatus(ctx)
	case CommandLoad:
		return m.handleLoad(ctx)
	case CommandSave:
		return m.handleSave(ctx)
	case CommandExit:
		return nil
	default:
		m.view.Warn("Invalid command!")
		return nil
	}
}

func (m *Menu) handleAdd(ctx context.Context) error {
	title, err := m.prompt.Ask(ctx, "Enter the book title:")
	if err != nil {
		return err
	}
	author, err := m.prompt.Ask(ctx, "Enter the book author:")
	if err != nil {
		return err
	}
	year, err := m.prompt.IntWhere(
		ctx,
		"Enter the publication year:",
		"Invalid year! Enter a valid publication year:",
		func(y int) bool { return y <= m.opts.MaxYear },
	)
	if err != nil {
		return err
	}

	book, err := m.service.AddBook(ctx, title, author, year, catalog.StatusAvailable)
	if err != nil {
		m.report(err)
		return nil
	}
	m.view.Success(fmt.Sprintf("Book added with ID = %d", book.ID))
	return nil
}

func (m *Menu) handleDelete(ctx context.Context) error {
	if !m.requireBooks(ctx) {
		return nil
	}
	id, err := m.prompt.Int(ctx, "Enter the ID of the book to delete:", "Invalid ID! Enter the ID of the book to delete:")
	if err != nil {
		return err
	}

	if err := m.service.RemoveBook(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			m.view.Warn("No book with this ID exists")
			return nil
		}
		m.report(err)
		return nil
	}
	m.view.Success(fmt.Sprintf("Book with ID = %d deleted", id))
	return nil
}

func (m *Menu) handleSearch(ctx context.Context) error {
	if !m.requireBooks(ctx) {
		return nil
	}
	query, err := m.prompt.Ask(ctx, "Enter a title, author or year to search for:")
	if err != nil {
		return err
	}

	books, err := m.service.Search(ctx, query)
	if err != nil {
		m.report(err)
		return nil
	}
	if len(books) == 0 {
		m.view.Warn("No matches found!")
		return nil
	}
	m.view.Books(books)
	return nil
}

func (m *Menu) handleList(ctx context.Context) error {
	books, err := m.service.List(ctx)
	if err != nil {
		m.report(err)
		return nil
	}
	if len(books) == 0 {
		m.view.Warn("No books in the catalog!")
		return nil
	}
	m.view.Books(books)
	return nil
}

func (m *Menu) handleChangeStatus(ctx context.Context) error {
	if !m.requireBooks(ctx) {
		return nil
	}
	id, err := m.prompt.Int(ctx, "Enter the ID of the book to update:", "Invalid ID! Enter the ID of the book to update:")
	if err != nil {
		return err
	}
	if !m.service.BookExists(ctx, id) {
		m.view.Warn("No book with this ID exists!")
		return nil
	}

	choice, err := m.prompt.IntWhere(
		ctx,
		fmt.Sprintf("Choose a status: 1 - %s, 2 - %s", catalog.StatusAvailable, catalog.StatusCheckedOut),
		"Invalid choice! Enter 1 or 2:",
		func(n int) bool { return n == 1 || n == 2 },
	)
	if err != nil {
		return err
	}
	status := catalog.StatusAvailable
	if choice == 2 {
		status = catalog.StatusCheckedOut
	}

	if err := m.service.ChangeStatus(ctx, id, status); err != nil {
		m.report(err)
		return nil
	}
	m.view.Success(fmt.Sprintf("Status of book %d set to %q", id, status))
	return nil
}

func (m *Menu) handleLoad(ctx context.Context) error {
	n, err := m.service.Load(ctx, m.opts.DataFile)
	if err != nil {
		m.report(err)
		return nil
	}
	m.view.Success(fmt.Sprintf("Loaded %d books from %s", n, m.opts.DataFile))
	return nil
}

func (m *Menu) handleSave(ctx context.Context) error {
	if err := m.service.Save(ctx, m.opts.DataFile); err != nil {
		m.report(err)
		return nil
	}
	m.view.Success(fmt.Sprintf("Books saved to %s", m.opts.DataFile))
	return nil
}

func (m *Menu) requireBooks(ctx context.Context) bool {
	if m.service.HasBooks(ctx) {
		return true
	}
	m.view.Warn("No books in the catalog!")
	return false
}

// report explains a catalog error in user terms.
func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, catalog.ErrFileMissing):
		m.view.Warn(fmt.Sprintf("Check that %q exists and is accessible", m.opts.DataFile))
	case errors.Is(err, catalog.ErrMalformedData):
		m.view.Warn("The file is empty or does not contain valid catalog data")
	case errors.Is(err, catalog.ErrNotFound):
		m.view.Warn("No book with this ID exists!")
	default:
		m.view.Warn(err.Error())
	}
}
