package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrInvalid marks input rejected before anything is persisted.
	ErrInvalid = errors.New("invalid")
	// ErrTransition marks a status change the workflow does not allow.
	ErrTransition = errors.New("transition not allowed")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// problems collects validation failures and reports them as one error.
type problems struct {
	err *multierror.Error
}

func (p *problems) add(err error) {
	if err != nil {
		p.err = multierror.Append(p.err, err)
	}
}

func (p *problems) addf(format string, args ...any) {
	p.add(invalidf(format, args...))
}

func (p *problems) result() error {
	if p.err == nil {
		return nil
	}
	p.err.ErrorFormat = oneLine
	return p.err
}

func oneLine(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
