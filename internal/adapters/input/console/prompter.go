package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hue-bridge-client/internal/domain/model"
	"io"
	"strings"
)

// Prompter asks the operator on a line-oriented terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) PromptAddress(ctx context.Context) (string, error) {
	fmt.Fprint(p.out, "Please enter the IP of your Hue bridge: ")
	return p.readLine(ctx)
}

func (p *Prompter) SelectBridge(ctx context.Context, candidates []model.Candidate) (string, error) {
	for i, c := range candidates {
		fmt.Fprintf(p.out, "No.%d => ID: %s || Internal IP address: %s\n", i, c.ID, c.InternalAddress)
	}
	fmt.Fprint(p.out, "Type the No. of the bridge you want to connect and press enter: ")
	return p.readLine(ctx)
}

type lineResult struct {
	line string
	err  error
}

// readLine returns early when ctx is done; the pending read is abandoned.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		line := strings.TrimSpace(r.line)
		switch {
		case r.err == nil:
			return line, nil
		case errors.Is(r.err, io.EOF) && line != "":
			return line, nil
		case errors.Is(r.err, io.EOF):
			return "", model.ErrNoInput
		}
		return "", fmt.Errorf("%w: %v", model.ErrNoInput, r.err)
	}
}
