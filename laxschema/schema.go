// Package laxschema compiles YAML schema documents into laxvalid validator
// trees.
//
// A schema node is a mapping with a required type key:
//
//	type: object
//	properties:
//	  name: {type: string, minLength: 1}
//	  tags: {type: array, items: string}
//	  born: {type: or, anyOf: [null, datetime]}
//
// A bare scalar such as string is shorthand for {type: string}. JSON is a
// subset of YAML, so schemas may also be written as JSON. Duplicate keys,
// unknown keys and unknown types are schema errors.
package laxschema

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"slices"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/lattice-substrate/json-lax/laxdate"
	"github.com/lattice-substrate/json-lax/laxerr"
	"github.com/lattice-substrate/json-lax/laxvalid"
)

// allowed lists the keys each node type accepts besides type and
// description.
var allowed = map[string][]string{
	"any":      nil,
	"null":     nil,
	"boolean":  {"const"},
	"number":   {"minimum", "maximum"},
	"integer":  {"minimum", "maximum"},
	"string":   {"minLength", "maxLength", "pattern", "enum"},
	"datetime": {"minYear", "maxYear"},
	"array":    {"items"},
	"object":   {"properties"},
	"or":       {"anyOf"},
}

// Load compiles the first document in data.
func Load(data []byte) (laxvalid.Validator, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, laxerr.Wrap(laxerr.InvalidSchema, "decode schema", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, laxerr.New(laxerr.InvalidSchema, "empty schema document")
	}
	c := &compiler{active: make(map[*yaml.Node]bool)}
	return c.compile(root.Content[0], "$")
}

// LoadFile reads and compiles the schema stored at path.
func LoadFile(path string) (laxvalid.Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, laxerr.Wrap(laxerr.InternalIO, fmt.Sprintf("read schema %q", path), err)
	}
	v, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("laxschema: %s: %w", path, err)
	}
	return v, nil
}

func schemaErr(path, format string, args ...any) error {
	return laxerr.Newf(laxerr.InvalidSchema, "%s: %s", path, fmt.Sprintf(format, args...))
}

// maxSchemaDepth bounds node nesting, aliases included.
const maxSchemaDepth = 1000

// compiler tracks the alias targets on the current path, since yaml.v3
// resolves an anchor referenced from inside itself into a cyclic graph.
type compiler struct {
	active map[*yaml.Node]bool
	depth  int
}

func (c *compiler) compile(n *yaml.Node, path string) (laxvalid.Validator, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxSchemaDepth {
		return nil, schemaErr(path, "schema nesting exceeds %d (line %d)", maxSchemaDepth, n.Line)
	}

	switch n.Kind {
	case yaml.ScalarNode:
		// "null" resolves to the !!null tag but still names the null type.
		return c.compileType(n.Value, nil, path)
	case yaml.MappingNode:
	case yaml.AliasNode:
		if n.Alias == nil || c.active[n.Alias] {
			return nil, schemaErr(path, "recursive alias *%s (line %d)", n.Value, n.Line)
		}
		c.active[n.Alias] = true
		defer delete(c.active, n.Alias)
		return c.compile(n.Alias, path)
	default:
		return nil, schemaErr(path, "schema node must be a mapping or a type name (line %d)", n.Line)
	}

	fields, err := mappingFields(n, path)
	if err != nil {
		return nil, err
	}
	typeNode, ok := fields["type"]
	if !ok {
		return nil, schemaErr(path, "missing type (line %d)", n.Line)
	}
	if typeNode.Kind != yaml.ScalarNode {
		return nil, schemaErr(path, "type must be a scalar (line %d)", typeNode.Line)
	}
	return c.compileType(typeNode.Value, fields, path)
}

// mappingFields indexes a mapping node by key, rejecting duplicate keys.
func mappingFields(n *yaml.Node, path string) (map[string]*yaml.Node, error) {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	first := make(map[string]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if line, dup := first[k.Value]; dup {
			return nil, schemaErr(path, "duplicate key %q at line %d (first at line %d)", k.Value, k.Line, line)
		}
		first[k.Value] = k.Line
		fields[k.Value] = n.Content[i+1]
	}
	return fields, nil
}

func (c *compiler) compileType(typ string, fields map[string]*yaml.Node, path string) (laxvalid.Validator, error) {
	keys, known := allowed[typ]
	if !known {
		return nil, schemaErr(path, "unknown type %q", typ)
	}
	for k := range fields {
		if k == "type" || k == "description" || slices.Contains(keys, k) {
			continue
		}
		return nil, schemaErr(path, "key %q is not allowed for type %s", k, typ)
	}

	switch typ {
	case "any":
		return laxvalid.RubberStamp{}, nil
	case "null":
		return laxvalid.Null{}, nil
	case "boolean":
		return compileBoolean(fields, path)
	case "number":
		return compileNumber(fields, path)
	case "integer":
		return compileInteger(fields, path)
	case "string":
		return compileString(fields, path)
	case "datetime":
		return compileDateTime(fields, path)
	case "array":
		return c.compileArray(fields, path)
	case "object":
		return c.compileObject(fields, path)
	default:
		return c.compileOr(fields, path)
	}
}

// decodeField decodes an optional scalar field into dst and reports whether
// it was present.
func decodeField(fields map[string]*yaml.Node, key, path string, dst any) (bool, error) {
	n, ok := fields[key]
	if !ok {
		return false, nil
	}
	if err := n.Decode(dst); err != nil {
		return false, schemaErr(path, "%s: %v", key, err)
	}
	return true, nil
}

func compileBoolean(fields map[string]*yaml.Node, path string) (laxvalid.Validator, error) {
	var want bool
	has, err := decodeField(fields, "const", path, &want)
	if err != nil {
		return nil, err
	}
	if !has {
		return laxvalid.Boolean(nil), nil
	}
	return laxvalid.Boolean(func(b bool) bool { return b == want }), nil
}

func compileNumber(fields map[string]*yaml.Node, path string) (laxvalid.Validator, error) {
	lo, hi := math.Inf(-1), math.Inf(1)
	if _, err := decodeField(fields, "minimum", path, &lo); err != nil {
		return nil, err
	}
	if _, err := decodeField(fields, "maximum", path, &hi); err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, schemaErr(path, "minimum %v exceeds maximum %v", lo, hi)
	}
	return laxvalid.Number(func(f float64) bool { return f >= lo && f <= hi }), nil
}

func compileInteger(fields map[string]*yaml.Node, path string) (laxvalid.Validator, error) {
	var lo, hi uint64 = 0, math.MaxUint64
	if _, err := decodeField(fields, "minimum", path, &lo); err != nil {
		return nil, err
	}
	if _, err := decodeField(fields, "maximum", path, &hi); err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, schemaErr(path, "minimum %d exceeds maximum %d", lo, hi)
	}
	return laxvalid.Integer(func(u uint64) bool { return u >= lo && u <= hi }), nil
}

func compileString(fields map[string]*yaml.Node, path string) (laxvalid.Validator, error) {
	minLen, maxLen := 0, math.MaxInt
	if _, err := decodeField(fields, "minLength", path, &minLen); err != nil {
		return nil, err
	}
	if _, err := decodeField(fields, "maxLength", path, &maxLen); err != nil {
		return nil, err
	}
	if minLen < 0 || minLen > maxLen {
		return nil, schemaErr(path, "invalid length bounds [%d, %d]", minLen, maxLen)
	}

	var pattern string
	var re *regexp.Regexp
	hasPattern, err := decodeField(fields, "pattern", path, &pattern)
	if err != nil {
		return nil, err
	}
	if hasPattern {
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, laxerr.Wrap(laxerr.InvalidSchema, path+": pattern", err)
		}
	}

	var enum []string
	if _, err := decodeField(fields, "enum", path, &enum); err != nil {
		return nil, err
	}

	return laxvalid.String(func(s string) bool {
		n := utf8.RuneCountInString(s)
		if n < minLen || n > maxLen {
			return false
		}
		if re != nil && !re.MatchString(s) {
			return false
		}
		return enum == nil || slices.Contains(enum, s)
	}), nil
}

func compileDateTime(fields map[string]*yaml.Node, path string) (laxvalid.Validator, error) {
	var lo, hi uint16 = 0, math.MaxUint16
	if _, err := decodeField(fields, "minYear", path, &lo); err != nil {
		return nil, err
	}
	if _, err := decodeField(fields, "maxYear", path, &hi); err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, schemaErr(path, "minYear %d exceeds maxYear %d", lo, hi)
	}
	return laxvalid.DateTime(func(d laxdate.Date) bool { return d.Year >= lo && d.Year <= hi }), nil
}

func (c *compiler) compileArray(fields map[string]*yaml.Node, path string) (laxvalid.Validator, error) {
	n, ok := fields["items"]
	if !ok {
		return laxvalid.Array{Items: laxvalid.RubberStamp{}}, nil
	}
	items, err := c.compile(n, path+"[]")
	if err != nil {
		return nil, err
	}
	return laxvalid.Array{Items: items}, nil
}

func (c *compiler) compileObject(fields map[string]*yaml.Node, path string) (laxvalid.Validator, error) {
	n, ok := fields["properties"]
	if !ok {
		return laxvalid.Object{}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, schemaErr(path, "properties must be a mapping (line %d)", n.Line)
	}
	if _, err := mappingFields(n, path+".properties"); err != nil {
		return nil, err
	}
	obj := make(laxvalid.Object, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		v, err := c.compile(n.Content[i+1], path+"."+key)
		if err != nil {
			return nil, err
		}
		obj = append(obj, laxvalid.Field{Key: key, Validator: v})
	}
	return obj, nil
}

func (c *compiler) compileOr(fields map[string]*yaml.Node, path string) (laxvalid.Validator, error) {
	n, ok := fields["anyOf"]
	if !ok {
		return laxvalid.Or{}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, schemaErr(path, "anyOf must be a sequence (line %d)", n.Line)
	}
	alts := make(laxvalid.Or, 0, len(n.Content))
	var errs []error
	for i, alt := range n.Content {
		v, err := c.compile(alt, fmt.Sprintf("%s|%d", path, i))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		alts = append(alts, v)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return alts, nil
}
