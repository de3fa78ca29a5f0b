// Package datamask masks sensitive values in nested data.
//
// Data may be a Go value (maps, slices, structs, scalars) or JSON text. Values are
// addressed with path expressions such as "user.ssn", "a.'1'.None" or "$..password"
// (see package fieldpath). Erase never modifies its input: it works on a deep copy.
package datamask

import (
	"context"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/datamask/logger"
	"github.com/rise-and-shine/datamask/value"
)

// Option configures a DataMasking.
type Option func(*DataMasking)

// WithProvider replaces the default MaskingProvider.
func WithProvider(p Provider) Option {
	return func(d *DataMasking) {
		if p != nil {
			d.provider = p
		}
	}
}

// WithRaiseOnMissingField makes unresolved field paths fail the call instead of
// producing a warning.
func WithRaiseOnMissingField(raise bool) Option {
	return func(d *DataMasking) {
		d.raiseOnMissingField = raise
	}
}

// WithLogger sets the logger used by the default warning handler.
func WithLogger(l logger.Logger) Option {
	return func(d *DataMasking) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithWarningHandler replaces the default handler, which logs warnings at warn level.
func WithWarningHandler(h WarningHandler) Option {
	return func(d *DataMasking) {
		d.onWarning = h
	}
}

// WithMaxDepth bounds the nesting depth of Go values accepted by Erase.
func WithMaxDepth(depth int) Option {
	return func(d *DataMasking) {
		if depth > 0 {
			d.maxDepth = depth
		}
	}
}

// DataMasking is the entry point for masking. It is safe for concurrent use.
type DataMasking struct {
	provider            Provider
	raiseOnMissingField bool
	maxDepth            int
	logger              logger.Logger
	onWarning           WarningHandler
}

// New creates a DataMasking backed by a MaskingProvider unless WithProvider is given.
func New(opts ...Option) *DataMasking {
	d := &DataMasking{
		maxDepth: value.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.provider == nil {
		d.provider = NewMaskingProvider()
	}
	if d.logger == nil {
		d.logger = logger.Named("datamask")
	}
	if d.onWarning == nil {
		d.onWarning = d.logWarning
	}

	return d
}

func (d *DataMasking) logWarning(w Warning) {
	if w.Path == "" {
		d.logger.Warn(w.Message)
		return
	}
	d.logger.With("path", w.Path).Warn(w.Message)
}

// Encrypt encrypts data with the provider. Providers that do not implement Encrypter
// fail with CodeUnsupportedOperation.
func (d *DataMasking) Encrypt(ctx context.Context, data any) (any, error) {
	enc, ok := d.provider.(Encrypter)
	if !ok {
		return nil, unsupportedOperation("encrypt")
	}

	out, err := enc.Encrypt(ctx, data)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return out, nil
}

// Decrypt decrypts data with the provider. Providers that do not implement Decrypter
// fail with CodeUnsupportedOperation.
func (d *DataMasking) Decrypt(ctx context.Context, data any) (any, error) {
	dec, ok := d.provider.(Decrypter)
	if !ok {
		return nil, unsupportedOperation("decrypt")
	}

	out, err := dec.Decrypt(ctx, data)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return out, nil
}

func unsupportedOperation(op string) error {
	return errx.New(
		"[datamask]: provider does not support "+op,
		errx.WithCode(CodeUnsupportedOperation),
		errx.WithType(errx.T_Internal),
		errx.WithDetails(errx.D{"operation": op}),
	)
}
