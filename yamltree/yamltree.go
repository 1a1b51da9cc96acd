package yamltree

import (
	"fmt"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/onecommons/tosca-parser-go/value"
)

// Parse parses data as a single YAML document and converts it into a
// [value.Value] tree, tagging every node with source/line [value.Provenance]
// for diagnostics. source is a human-readable origin (file path or URL),
// carried through into every node's Provenance.
func Parse(source string, data []byte) (value.Value, error) {
	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return value.NewNull(), fmt.Errorf("yamltree: parsing %q: %w", source, err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return value.NewNull(), nil
	}

	c := &converter{source: source, anchors: make(map[string]value.Value)}

	return c.convert(file.Docs[0].Body), nil
}

// converter walks one document's AST exactly once, resolving anchors as
// it encounters them so aliases seen later in document order resolve
// without a second pass.
type converter struct {
	source  string
	anchors map[string]value.Value
}

func (c *converter) convert(node ast.Node) value.Value {
	if node == nil {
		return value.NewNull()
	}

	switch n := node.(type) {
	case *ast.TagNode:
		return c.convert(n.Value)
	case *ast.AnchorNode:
		v := c.withProvenance(c.convert(n.Value), node)
		if n.Name != nil {
			c.anchors[n.Name.String()] = v
		}

		return v
	case *ast.AliasNode:
		if n.Value != nil {
			if v, ok := c.anchors[n.Value.String()]; ok {
				return v
			}
		}

		return value.NewNull()
	case *ast.NullNode:
		return value.NewNull()
	case *ast.BoolNode:
		return c.withProvenance(value.NewBool(n.Value), node)
	case *ast.IntegerNode:
		return c.withProvenance(value.NewInt(toInt64(n.Value)), node)
	case *ast.FloatNode:
		return c.withProvenance(value.NewFloat(n.Value), node)
	case *ast.InfinityNode:
		return c.withProvenance(value.NewFloat(n.Value), node)
	case *ast.NanNode:
		return value.NewFloat(0)
	case *ast.StringNode:
		return c.withProvenance(value.NewString(n.Value), node)
	case *ast.LiteralNode:
		if n.Value != nil {
			return c.withProvenance(value.NewString(n.Value.Value), node)
		}

		return value.NewString("")
	case *ast.SequenceNode:
		items := make([]value.Value, 0, len(n.Values))
		for _, item := range n.Values {
			items = append(items, c.convert(item))
		}

		return c.withProvenance(value.NewSequence(items...), node)
	case *ast.MappingValueNode:
		return c.withProvenance(value.NewMapping(c.mappingOf([]*ast.MappingValueNode{n})), node)
	case *ast.MappingNode:
		return c.withProvenance(value.NewMapping(c.mappingOf(n.Values)), node)
	default:
		// Document/comment/other structural nodes never reach here as a
		// property value; fall back to a string rendering so a parse
		// never panics on a shape this adapter doesn't special-case.
		return value.NewString(node.String())
	}
}

func (c *converter) mappingOf(entries []*ast.MappingValueNode) *value.Mapping {
	m := value.NewMappingData()

	for _, entry := range entries {
		if entry == nil || entry.Key == nil {
			continue
		}

		key := c.convert(entry.Key).String()
		if key == "" {
			key = entry.Key.String()
		}

		m.Set(key, c.convert(entry.Value))
	}

	return m
}

func (c *converter) withProvenance(v value.Value, node ast.Node) value.Value {
	tok := node.GetToken()
	if tok == nil || tok.Position == nil {
		return v
	}

	return v.WithProvenance(value.Provenance{Source: c.source, Line: tok.Position.Line})
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case uint:
		return int64(n)
	default:
		return 0
	}
}
