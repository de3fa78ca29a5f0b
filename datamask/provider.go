package datamask

import (
	"context"

	"github.com/rise-and-shine/datamask/mask"
)

// Provider is the masking backend used by DataMasking.
type Provider interface {
	// Erase masks data as a whole.
	Erase(data any, rule mask.Rule) (any, error)
	// EraseField masks a single value found at a resolved path.
	EraseField(v any, rule mask.Rule) (any, error)
}

// Encrypter is implemented by providers able to encrypt data.
type Encrypter interface {
	Encrypt(ctx context.Context, data any) (any, error)
}

// Decrypter is implemented by providers able to decrypt data.
type Decrypter interface {
	Decrypt(ctx context.Context, data any) (any, error)
}

// MaskingProvider is the default in-process Provider. It does not implement
// Encrypter or Decrypter.
type MaskingProvider struct {
	masker *mask.Masker
}

// NewMaskingProvider creates a MaskingProvider. Options are passed to the underlying
// mask.Masker, which owns the regex cache.
func NewMaskingProvider(opts ...mask.Option) *MaskingProvider {
	return &MaskingProvider{masker: mask.NewMasker(opts...)}
}

// Erase masks data as a whole through mask.Masker.Whole.
func (p *MaskingProvider) Erase(data any, rule mask.Rule) (any, error) {
	return p.masker.Whole(data, rule)
}

// EraseField masks a resolved value through mask.Masker.Apply.
func (p *MaskingProvider) EraseField(v any, rule mask.Rule) (any, error) {
	return p.masker.Apply(v, rule)
}
