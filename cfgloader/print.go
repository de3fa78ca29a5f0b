package cfgloader

import (
	"github.com/code19m/errx"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/datamask/datamask"
	"github.com/rise-and-shine/datamask/logger"
	"github.com/rise-and-shine/datamask/value"
)

// Print logs config as YAML at info level. Fields tagged `mask:"true"` are replaced
// with mask characters of the same length.
func Print(l logger.Logger, config any) {
	out, err := Render(config)
	if err != nil {
		l.Errorx(err)
		return
	}
	l.Info("Loaded config:\n" + out)
}

// Render returns config as YAML with fields tagged `mask:"true"` masked.
// Field order follows the struct.
func Render(config any) (string, error) {
	masked, err := maskConfig(config)
	if err != nil {
		return "", errx.Wrap(err)
	}

	node, err := toNode(masked)
	if err != nil {
		return "", errx.Wrap(err)
	}

	out, err := yaml.Marshal(node)
	if err != nil {
		return "", errx.Wrap(err)
	}
	return string(out), nil
}

func maskConfig(config any) (any, error) {
	// tagged fields inside empty slices or nil pointers have nothing to mask
	dm := datamask.New(datamask.WithWarningHandler(func(datamask.Warning) {}))

	fields := datamask.TaggedFields(config)
	if len(fields) == 0 {
		return value.Normalize(config)
	}
	return dm.Erase(config, datamask.WithFields(fields...), datamask.WithDynamicMask())
}

// toNode builds a yaml node tree so mapping order survives marshaling.
func toNode(v any) (*yaml.Node, error) {
	if m, ok := value.AsMapping(v); ok {
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range m.Keys() {
			child, _ := m.Get(k)
			valNode, err := toNode(child)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				valNode,
			)
		}
		return node, nil
	}

	if elems, ok := value.Elements(v); ok {
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range elems {
			child, err := toNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	}

	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}
