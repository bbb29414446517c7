package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardops/modelcard"
	"github.com/cardops/modelcard/internal/config"
)

// Process exit codes
const (
	ExitSuccess            = 0
	ExitError              = 1
	ExitUsageError         = 2
	ExitPanic              = 3
	ExitConfigError        = 10
	ExitStorageUnavailable = 11
	ExitBadInput           = 12
)

// usageError marks invalid arguments or flags.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{err: fmt.Errorf("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))}
		}
		return nil
	}
}

// ExitCodeForError maps an error returned by Execute onto a process exit code.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *usageError
	switch {
	case errors.As(err, &usage):
		return ExitUsageError
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	}

	switch modelcard.CategoryOf(err) {
	case modelcard.CategoryStorageUnavailable:
		return ExitStorageUnavailable
	case modelcard.CategoryBadInput:
		return ExitBadInput
	default:
		return ExitError
	}
}
