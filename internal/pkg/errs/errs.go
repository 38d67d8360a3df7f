package errs

import cr "github.com/cockroachdb/errors"

// Wrap annotates err with msg, preserving the chain for errors.Is/As.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

// Mark makes err match markErr under errors.Is while keeping the original
// cause in the chain.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// New creates a plain error.
func New(msg string) error {
	return cr.New(msg)
}
