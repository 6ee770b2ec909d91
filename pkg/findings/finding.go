// Package findings holds the canonical model of defects and warnings reported by
// analysis tools, a deduplicating container for them and a filter builder.
package findings

import (
	"fmt"

	"github.com/google/uuid"
)

// Record is the contract a finding type has to satisfy to be stored in a RecordSet.
// Value equality is defined by Key: two records with equal keys are duplicates,
// regardless of their IDs.
type Record interface {
	ID() uuid.UUID
	FileName() string
	PackageName() string
	ModuleName() string
	Category() string
	Type() string
	Origin() string
	Priority() Priority
	Message() string
	Key() Key
}

// Key holds every value field of a finding except its ID.
// It is comparable and is used as the deduplication key.
type Key struct {
	FileName    string
	PackageName string
	ModuleName  string
	Category    string
	Type        string
	Origin      string
	Priority    Priority
	Message     string
	LineStart   int
	LineEnd     int
}

// Finding is an immutable defect or warning reported by an analysis tool.
// Use Builder to create instances.
type Finding struct {
	id  uuid.UUID
	key Key
}

// ID returns the identifier assigned by Builder.Build. It is not part of the value.
func (f Finding) ID() uuid.UUID { return f.id }

// FileName returns the affected file, or "-" if unknown.
func (f Finding) FileName() string { return f.key.FileName }

// PackageName returns the package or namespace of the affected code.
func (f Finding) PackageName() string { return f.key.PackageName }

// ModuleName returns the build module of the affected code.
func (f Finding) ModuleName() string { return f.key.ModuleName }

// Category returns the tool specific category, e.g. a rule tag.
func (f Finding) Category() string { return f.key.Category }

// Type returns the rule or check that reported the finding, or "-" if unknown.
func (f Finding) Type() string { return f.key.Type }

// Origin returns the name of the reporting tool.
func (f Finding) Origin() string { return f.key.Origin }

// Priority returns the normalized severity.
func (f Finding) Priority() Priority { return f.key.Priority }

// Message returns the description reported by the tool.
func (f Finding) Message() string { return f.key.Message }

// LineStart returns the first affected line, 0 if unknown.
func (f Finding) LineStart() int { return f.key.LineStart }

// LineEnd returns the last affected line, 0 if unknown.
func (f Finding) LineEnd() int { return f.key.LineEnd }

// Key returns the value fields used for equality and deduplication.
func (f Finding) Key() Key { return f.key }

// Equal reports whether both findings carry the same values. IDs are ignored.
func (f Finding) Equal(other Finding) bool {
	return f.key == other.key
}

func (f Finding) String() string {
	return fmt.Sprintf("%s(%d,%d): %s: %s: %s", f.key.FileName, f.key.LineStart, f.key.LineEnd, f.key.Type, f.key.Category, f.key.Message)
}

const undefinedValue = "-"

// Builder creates Finding values. Every call to Build assigns a new ID.
type Builder struct {
	key Key
}

// NewBuilder returns a builder initialised with the default values:
// file name and type "-", priority Normal.
func NewBuilder() *Builder {
	return &Builder{key: Key{
		FileName: undefinedValue,
		Type:     undefinedValue,
		Priority: Normal,
	}}
}

// Copy seeds the builder with the values of an existing finding.
func (b *Builder) Copy(f Finding) *Builder {
	b.key = f.key
	return b
}

// WithFileName sets the file name; an empty name resets it to "-".
func (b *Builder) WithFileName(fileName string) *Builder {
	b.key.FileName = defaultIfBlank(fileName)
	return b
}

// WithPackageName sets the package name.
func (b *Builder) WithPackageName(packageName string) *Builder {
	b.key.PackageName = packageName
	return b
}

// WithModuleName sets the module name.
func (b *Builder) WithModuleName(moduleName string) *Builder {
	b.key.ModuleName = moduleName
	return b
}

// WithCategory sets the category.
func (b *Builder) WithCategory(category string) *Builder {
	b.key.Category = category
	return b
}

// WithType sets the type; an empty type resets it to "-".
func (b *Builder) WithType(findingType string) *Builder {
	b.key.Type = defaultIfBlank(findingType)
	return b
}

// WithOrigin sets the name of the reporting tool.
func (b *Builder) WithOrigin(origin string) *Builder {
	b.key.Origin = origin
	return b
}

// WithPriority sets the priority; undefined priorities become Normal.
func (b *Builder) WithPriority(priority Priority) *Builder {
	if !priority.Valid() {
		priority = Normal
	}
	b.key.Priority = priority
	return b
}

// WithMessage sets the message.
func (b *Builder) WithMessage(message string) *Builder {
	b.key.Message = message
	return b
}

// WithLines sets the line range. An end line before the start line is
// replaced by the start line.
func (b *Builder) WithLines(start, end int) *Builder {
	if end < start {
		end = start
	}
	b.key.LineStart = start
	b.key.LineEnd = end
	return b
}

// Build returns a new Finding with the current values and a fresh ID.
func (b *Builder) Build() Finding {
	return Finding{id: uuid.New(), key: b.key}
}

func defaultIfBlank(value string) string {
	if value == "" {
		return undefinedValue
	}
	return value
}
