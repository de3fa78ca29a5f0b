package main

import (
	"unicode/utf8"

	"github.com/rise-and-shine/datamask/datamask"
	"github.com/rise-and-shine/datamask/logger"
	"github.com/rise-and-shine/datamask/mask"
)

// Profile describes how a document is masked.
//
// With Rules each path gets its own rule. Otherwise, with Fields, every listed
// path is masked with the inline rule. With neither, the whole document is masked.
type Profile struct {
	Logger logger.Config `yaml:"logger"`

	Fields []string             `yaml:"fields"`
	Rules  map[string]mask.Rule `yaml:"rules"`

	mask.Rule `yaml:",inline"`

	Sentinel            string `yaml:"sentinel"               default:"*****"`
	MaskChar            string `yaml:"mask_char"              default:"*"     validate:"single_rune"`
	RaiseOnMissingField bool   `yaml:"raise_on_missing_field"`
	MaxDepth            int    `yaml:"max_depth"              validate:"gte=0"`
}

func (p Profile) maskOptions() []mask.Option {
	c, _ := utf8.DecodeRuneInString(p.MaskChar)
	return []mask.Option{
		mask.WithSentinel(p.Sentinel),
		mask.WithMaskChar(c),
	}
}

func (p Profile) dataMaskingOptions(l logger.Logger) []datamask.Option {
	return []datamask.Option{
		datamask.WithProvider(datamask.NewMaskingProvider(p.maskOptions()...)),
		datamask.WithRaiseOnMissingField(p.RaiseOnMissingField),
		datamask.WithMaxDepth(p.MaxDepth),
		datamask.WithLogger(l.Named("datamask")),
	}
}

func (p Profile) eraseOptions() []datamask.EraseOption {
	switch {
	case len(p.Rules) > 0:
		return []datamask.EraseOption{datamask.WithMaskingRules(p.Rules)}
	case len(p.Fields) > 0:
		return []datamask.EraseOption{datamask.WithFields(p.Fields...), datamask.WithRule(p.Rule)}
	default:
		return []datamask.EraseOption{datamask.WithRule(p.Rule)}
	}
}
