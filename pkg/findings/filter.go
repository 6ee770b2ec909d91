package findings

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
)

// Attribute names a string property of a finding that filters can match against.
type Attribute string

const (
	AttributeFile     Attribute = "file"
	AttributePackage  Attribute = "package"
	AttributeModule   Attribute = "module"
	AttributeCategory Attribute = "category"
	AttributeType     Attribute = "type"
)

// Attributes lists every filterable attribute.
var Attributes = []Attribute{AttributeFile, AttributePackage, AttributeModule, AttributeCategory, AttributeType}

// ParseAttribute converts an attribute name into an Attribute.
// "filename", "file_name", "package_name" and "module_name" are accepted as aliases.
func ParseAttribute(name string) (Attribute, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "file", "filename", "file_name":
		return AttributeFile, nil
	case "package", "package_name":
		return AttributePackage, nil
	case "module", "module_name":
		return AttributeModule, nil
	case "category":
		return AttributeCategory, nil
	case "type":
		return AttributeType, nil
	default:
		return "", fmt.Errorf("%w: unknown attribute %q", ErrInvalidArgument, name)
	}
}

// Extractor returns the function reading this attribute from a finding.
func Extractor[T Record](attribute Attribute) (func(T) string, error) {
	switch attribute {
	case AttributeFile:
		return func(r T) string { return r.FileName() }, nil
	case AttributePackage:
		return func(r T) string { return r.PackageName() }, nil
	case AttributeModule:
		return func(r T) string { return r.ModuleName() }, nil
	case AttributeCategory:
		return func(r T) string { return r.Category() }, nil
	case AttributeType:
		return func(r T) string { return r.Type() }, nil
	default:
		return nil, fmt.Errorf("%w: unknown attribute %q", ErrInvalidArgument, attribute)
	}
}

// FilterBuilder combines include and exclude patterns into a single predicate.
//
// A finding is accepted when it fully matches at least one include pattern (or
// no include pattern is registered) and fully matches none of the exclude
// patterns. Patterns of all attributes take part in the same combination; they
// are not grouped per attribute.
type FilterBuilder[T Record] struct {
	includes []func(T) bool
	excludes []func(T) bool
}

// NewFilterBuilder returns a builder without filters; its predicate accepts everything.
func NewFilterBuilder[T Record]() *FilterBuilder[T] {
	return &FilterBuilder[T]{}
}

// AddFilter compiles every pattern as a full-match regular expression on the
// extracted property and registers it as an include or exclude filter.
// If a pattern does not compile, none of the patterns of this call are registered.
func (b *FilterBuilder[T]) AddFilter(patterns []string, property func(T) string, include bool) error {
	filters := make([]func(T) bool, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := compileFullMatch(pattern)
		if err != nil {
			return err
		}
		filters = append(filters, func(record T) bool {
			return re.MatchString(property(record)) == include
		})
	}

	if include {
		b.includes = append(b.includes, filters...)
	} else {
		b.excludes = append(b.excludes, filters...)
	}
	return nil
}

// AddAttributeFilter registers patterns for the named attribute.
func (b *FilterBuilder[T]) AddAttributeFilter(attribute Attribute, patterns []string, include bool) error {
	property, err := Extractor[T](attribute)
	if err != nil {
		return err
	}
	return b.AddFilter(patterns, property, include)
}

// IncludeFileName accepts findings whose file name fully matches one of the patterns.
func (b *FilterBuilder[T]) IncludeFileName(patterns ...string) error {
	return b.AddAttributeFilter(AttributeFile, patterns, true)
}

// ExcludeFileName rejects findings whose file name fully matches one of the patterns.
func (b *FilterBuilder[T]) ExcludeFileName(patterns ...string) error {
	return b.AddAttributeFilter(AttributeFile, patterns, false)
}

// IncludePackageName accepts findings whose package name fully matches one of the patterns.
func (b *FilterBuilder[T]) IncludePackageName(patterns ...string) error {
	return b.AddAttributeFilter(AttributePackage, patterns, true)
}

// ExcludePackageName rejects findings whose package name fully matches one of the patterns.
func (b *FilterBuilder[T]) ExcludePackageName(patterns ...string) error {
	return b.AddAttributeFilter(AttributePackage, patterns, false)
}

// IncludeModuleName accepts findings whose module name fully matches one of the patterns.
func (b *FilterBuilder[T]) IncludeModuleName(patterns ...string) error {
	return b.AddAttributeFilter(AttributeModule, patterns, true)
}

// ExcludeModuleName rejects findings whose module name fully matches one of the patterns.
func (b *FilterBuilder[T]) ExcludeModuleName(patterns ...string) error {
	return b.AddAttributeFilter(AttributeModule, patterns, false)
}

// IncludeCategory accepts findings whose category fully matches one of the patterns.
func (b *FilterBuilder[T]) IncludeCategory(patterns ...string) error {
	return b.AddAttributeFilter(AttributeCategory, patterns, true)
}

// ExcludeCategory rejects findings whose category fully matches one of the patterns.
func (b *FilterBuilder[T]) ExcludeCategory(patterns ...string) error {
	return b.AddAttributeFilter(AttributeCategory, patterns, false)
}

// IncludeType accepts findings whose type fully matches one of the patterns.
func (b *FilterBuilder[T]) IncludeType(patterns ...string) error {
	return b.AddAttributeFilter(AttributeType, patterns, true)
}

// ExcludeType rejects findings whose type fully matches one of the patterns.
func (b *FilterBuilder[T]) ExcludeType(patterns ...string) error {
	return b.AddAttributeFilter(AttributeType, patterns, false)
}

// Build returns the combined predicate: OR over the include filters, AND over
// the exclude filters, and the conjunction of both. An empty group accepts
// everything. Later changes to the builder do not affect a built predicate.
func (b *FilterBuilder[T]) Build() func(T) bool {
	include := anyOf(b.includes)
	exclude := allOf(b.excludes)
	return func(record T) bool {
		return include(record) && exclude(record)
	}
}

func anyOf[T any](predicates []func(T) bool) func(T) bool {
	if len(predicates) == 0 {
		return func(T) bool { return true }
	}
	predicates = append([]func(T) bool(nil), predicates...)
	return func(record T) bool {
		for _, p := range predicates {
			if p(record) {
				return true
			}
		}
		return false
	}
}

func allOf[T any](predicates []func(T) bool) func(T) bool {
	predicates = append([]func(T) bool(nil), predicates...)
	return func(record T) bool {
		for _, p := range predicates {
			if !p(record) {
				return false
			}
		}
		return true
	}
}

// compileFullMatch anchors the pattern so that it has to match the whole value.
// The anchors wrap the parsed form of the pattern, not its text, so constructs
// that run to the end of the text (such as \Q without \E) stay intact and an
// unbalanced pattern such as "a)|(b" is still rejected.
func compileFullMatch(pattern string) (*regexp.Regexp, error) {
	tree, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}
	re, err := regexp.Compile(`^(?:` + tree.String() + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}
	return re, nil
}
