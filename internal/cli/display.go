package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"bookkeeper/internal/catalog"
)

// View renders menu text and book records.
type View struct {
	out    io.Writer
	header lipgloss.Style
	label  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
}

func NewView(out io.Writer) *View {
	r := lipgloss.NewRenderer(out)
	return &View{
		out:    out,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:  r.NewStyle().Bold(true),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (v *View) Welcome() {
	fmt.Fprintln(v.out, v.header.Render("### Welcome to the book catalog! ###"))
}

// Menu prints the list of commands with their keys.
func (v *View) Menu() {
	fmt.Fprintln(v.out, v.header.Render("### Choose an action: ###"))
	for _, c := range Commands {
		fmt.Fprintf(v.out, "%s. %s\n", c.Key(), c)
	}
}

// Book prints a single record followed by a blank line.
func (v *View) Book(b catalog.Book) {
	fmt.Fprintf(v.out, "%s %d\n", v.label.Render("ID ="), b.ID)
	fmt.Fprintf(v.out, "%s %s\n", v.label.Render("Title:"), b.Title)
	fmt.Fprintf(v.out, "%s %s\n", v.label.Render("Author:"), b.Author)
	fmt.Fprintf(v.out, "%s %s\n", v.label.Render("Year:"), strconv.Itoa(b.Year))
	fmt.Fprintf(v.out, "%s %s\n\n", v.label.Render("Status:"), b.Status)
}

func (v *View) Books(books []catalog.Book) {
	for _, b := range books {
		v.Book(b)
	}
}

func (v *View) Prompt(msg string) {
	fmt.Fprintln(v.out, msg)
}

func (v *View) Success(msg string) {
	fmt.Fprintln(v.out, v.ok.Render(msg))
}

func (v *View) Warn(msg string) {
	fmt.Fprintln(v.out, v.warn.Render(msg))
}
