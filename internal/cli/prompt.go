package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
)

type lineResult struct {
	text string
	err  error
}

// Prompter reads line-oriented answers for the menu. All methods return
// io.EOF once input is exhausted and ctx.Err() once ctx is done, even while
// a read is still pending.
type Prompter struct {
	in    *bufio.Reader
	view  *View
	once  sync.Once
	lines chan lineResult
}

func NewPrompter(in io.Reader, view *View) *Prompter {
	return &Prompter{in: bufio.NewReader(in), view: view}
}

// readLines feeds p.lines until input ends. Lines have no length limit.
func (p *Prompter) readLines() {
	defer close(p.lines)
	for {
		s, err := p.in.ReadString('\n')
		if s != "" {
			p.lines <- lineResult{text: strings.TrimRight(s, "\r\n")}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.lines <- lineResult{err: err}
			}
			return
		}
	}
}

// Line reads the next line without its trailing newline.
func (p *Prompter) Line(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.lines = make(chan lineResult)
		go p.readLines()
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return r.text, r.err
	}
}

// Ask prints msg and reads the answer.
func (p *Prompter) Ask(ctx context.Context, msg string) (string, error) {
	p.view.Prompt(msg)
	return p.Line(ctx)
}

// Int keeps asking until the answer parses as an integer.
func (p *Prompter) Int(ctx context.Context, msg, retry string) (int, error) {
	return p.IntWhere(ctx, msg, retry, func(int) bool { return true })
}

// IntWhere keeps asking until the answer is an integer accepted by valid.
func (p *Prompter) IntWhere(ctx context.Context, msg, retry string, valid func(int) bool) (int, error) {
	p.view.Prompt(msg)
	for {
		line, err := p.Line(ctx)
		if err != nil {
			return 0, err
		}
		if n, ok := ParseInt(line); ok && valid(n) {
			return n, nil
		}
		p.view.Warn(retry)
	}
}

// ParseInt reports whether s, ignoring surrounding spaces, is an integer.
func ParseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
