package findings

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// DefaultID is the ID of a RecordSet that has not been assigned one.
const DefaultID = "unset"

// RecordSet is an insertion-ordered set of findings. Adding a finding that is
// value-equal to one already in the set does not store it; it increments the
// duplicate counter instead. The set also keeps per-priority counts, append-only
// info and error logs, and an optional ID.
//
// The zero value is an empty set ready to use. A RecordSet is not safe for
// concurrent mutation.
type RecordSet[T Record] struct {
	elements []T
	index    map[Key]struct{}

	priorityTally [numPriorities]int
	duplicates    int

	infoMessages  []string
	errorMessages []string

	id string
}

// NewRecordSet creates a set initialised with the given findings, added in order.
func NewRecordSet[T Record](records ...T) *RecordSet[T] {
	s := &RecordSet[T]{}
	s.AddRecords(records)
	return s
}

// ByFileName returns a predicate matching findings with exactly this file name.
func ByFileName[T Record](fileName string) func(T) bool {
	return func(record T) bool {
		return record.FileName() == fileName
	}
}

// ByPackageName returns a predicate matching findings with exactly this package name.
func ByPackageName[T Record](packageName string) func(T) bool {
	return func(record T) bool {
		return record.PackageName() == packageName
	}
}

// Add appends the findings in order. Findings already present are counted as
// duplicates and skipped.
func (s *RecordSet[T]) Add(record T, more ...T) {
	s.add(record)
	for _, r := range more {
		s.add(r)
	}
}

// AddRecords appends all findings of the slice in order, skipping duplicates.
func (s *RecordSet[T]) AddRecords(records []T) {
	for _, r := range records {
		s.add(r)
	}
}

func (s *RecordSet[T]) add(record T) {
	if s.index == nil {
		s.index = make(map[Key]struct{})
	}

	key := record.Key()
	if _, ok := s.index[key]; ok {
		s.duplicates++
		return
	}
	s.index[key] = struct{}{}
	s.elements = append(s.elements, record)
	if p := record.Priority(); p.Valid() {
		s.priorityTally[p]++
	}
}

// AddAll merges the sources into this set, one after the other. For each source:
// the source ID is adopted if this set has none yet, its findings are added with
// the usual duplicate detection, its duplicate count is added to ours, and its
// info and error messages are appended.
//
// The resulting duplicate count therefore includes both the collisions seen
// while merging and the duplicates the sources had already recorded.
func (s *RecordSet[T]) AddAll(source *RecordSet[T], more ...*RecordSet[T]) {
	s.merge(source)
	for _, other := range more {
		s.merge(other)
	}
}

func (s *RecordSet[T]) merge(source *RecordSet[T]) {
	if source == nil {
		return
	}
	if !s.HasID() {
		s.id = source.id
	}
	s.AddRecords(source.elements)
	s.copyProperties(source)
}

func (s *RecordSet[T]) copyProperties(source *RecordSet[T]) {
	s.duplicates += source.duplicates
	s.infoMessages = append(s.infoMessages, source.infoMessages...)
	s.errorMessages = append(s.errorMessages, source.errorMessages...)
}

// Remove deletes the finding with the given ID and returns it.
// Neither the priority counts nor the duplicate count are updated.
func (s *RecordSet[T]) Remove(id uuid.UUID) (T, error) {
	for i, element := range s.elements {
		if element.ID() == id {
			s.elements = slices.Delete(s.elements, i, i+1)
			delete(s.index, element.Key())
			return element, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: no finding with id %s", ErrNotFound, id)
}

// FindByID returns the finding with the given ID.
func (s *RecordSet[T]) FindByID(id uuid.UUID) (T, error) {
	for _, element := range s.elements {
		if element.ID() == id {
			return element, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: no finding with id %s", ErrNotFound, id)
}

// Get returns the finding at the given position in insertion order.
func (s *RecordSet[T]) Get(index int) (T, error) {
	if index < 0 || index >= len(s.elements) {
		var zero T
		return zero, fmt.Errorf("%w: no such index %d in %s", ErrOutOfRange, index, s)
	}
	return s.elements[index], nil
}

// FindByProperty returns all findings matching the criterion.
func (s *RecordSet[T]) FindByProperty(criterion func(T) bool) []T {
	var matches []T
	for _, element := range s.elements {
		if criterion(element) {
			matches = append(matches, element)
		}
	}
	return matches
}

// Filter returns a new set with the findings matching the criterion, in their
// original order. The new set starts as CopyEmptyInstance, so it carries this
// set's ID, messages and duplicate count; the duplicate count is not recomputed
// for the subset.
func (s *RecordSet[T]) Filter(criterion func(T) bool) *RecordSet[T] {
	filtered := s.CopyEmptyInstance()
	filtered.AddRecords(s.FindByProperty(criterion))
	return filtered
}

// Elements returns the findings in insertion order. The slice is a copy.
func (s *RecordSet[T]) Elements() []T {
	return slices.Clone(s.elements)
}

// Size returns the number of stored findings.
func (s *RecordSet[T]) Size() int {
	return len(s.elements)
}

// IsEmpty reports whether the set holds no findings.
func (s *RecordSet[T]) IsEmpty() bool {
	return s.Size() == 0
}

// IsNotEmpty reports whether the set holds at least one finding.
func (s *RecordSet[T]) IsNotEmpty() bool {
	return !s.IsEmpty()
}

// DuplicatesSize returns the number of insert attempts that were rejected
// because an equal finding was already stored.
func (s *RecordSet[T]) DuplicatesSize() int {
	return s.duplicates
}

// SizeOf returns the number of findings with the given priority.
func (s *RecordSet[T]) SizeOf(priority Priority) int {
	if !priority.Valid() {
		return 0
	}
	return s.priorityTally[priority]
}

// HighPrioritySize returns the number of findings with priority High.
func (s *RecordSet[T]) HighPrioritySize() int {
	return s.SizeOf(High)
}

// NormalPrioritySize returns the number of findings with priority Normal.
func (s *RecordSet[T]) NormalPrioritySize() int {
	return s.SizeOf(Normal)
}

// LowPrioritySize returns the number of findings with priority Low.
func (s *RecordSet[T]) LowPrioritySize() int {
	return s.SizeOf(Low)
}

// String returns the size and the ID, e.g. "3 issues (ID = semgrep)".
func (s *RecordSet[T]) String() string {
	return fmt.Sprintf("%d issues (ID = %s)", s.Size(), s.ID())
}

// Properties returns the distinct values of a property over all findings,
// in order of first appearance.
func (s *RecordSet[T]) Properties(property func(T) string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, element := range s.elements {
		value := property(element)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}

// PropertyCount returns the number of findings per distinct property value.
func (s *RecordSet[T]) PropertyCount(property func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, element := range s.elements {
		counts[property(element)]++
	}
	return counts
}

// GroupByProperty partitions the findings by property value. Every group is a
// fresh set built from its findings only: it has the default ID, no messages
// and no duplicates.
func (s *RecordSet[T]) GroupByProperty(property func(T) string) map[string]*RecordSet[T] {
	grouped := make(map[string][]T)
	for _, element := range s.elements {
		value := property(element)
		grouped[value] = append(grouped[value], element)
	}

	groups := make(map[string]*RecordSet[T], len(grouped))
	for value, records := range grouped {
		groups[value] = NewRecordSet(records...)
	}
	return groups
}

// Files returns the distinct file names in order of first appearance.
func (s *RecordSet[T]) Files() []string {
	return s.Properties(func(r T) string { return r.FileName() })
}

// Packages returns the distinct package names in order of first appearance.
func (s *RecordSet[T]) Packages() []string {
	return s.Properties(func(r T) string { return r.PackageName() })
}

// Modules returns the distinct module names in order of first appearance.
func (s *RecordSet[T]) Modules() []string {
	return s.Properties(func(r T) string { return r.ModuleName() })
}

// Categories returns the distinct categories in order of first appearance.
func (s *RecordSet[T]) Categories() []string {
	return s.Properties(func(r T) string { return r.Category() })
}

// Types returns the distinct types in order of first appearance.
func (s *RecordSet[T]) Types() []string {
	return s.Properties(func(r T) string { return r.Type() })
}

// ToolNames returns the names of the tools that reported the findings.
func (s *RecordSet[T]) ToolNames() []string {
	return s.Properties(func(r T) string { return r.Origin() })
}

// Copy returns a new set with the same ID, messages, duplicate count and findings.
func (s *RecordSet[T]) Copy() *RecordSet[T] {
	copied := &RecordSet[T]{id: s.id}
	copied.AddRecords(s.elements)
	copied.copyProperties(s)
	return copied
}

// CopyEmptyInstance returns a new set with the same ID, messages and duplicate
// count, but without findings.
func (s *RecordSet[T]) CopyEmptyInstance() *RecordSet[T] {
	empty := &RecordSet[T]{id: s.id}
	empty.copyProperties(s)
	return empty
}

// SetID assigns the ID of this set. The ID must not be empty.
func (s *RecordSet[T]) SetID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidArgument)
	}
	s.id = id
	return nil
}

// ID returns the assigned ID or DefaultID.
func (s *RecordSet[T]) ID() string {
	if s.id == "" {
		return DefaultID
	}
	return s.id
}

// HasID reports whether an ID other than DefaultID has been assigned.
func (s *RecordSet[T]) HasID() bool {
	return s.ID() != DefaultID
}

// LogInfo appends a formatted message to the info log.
func (s *RecordSet[T]) LogInfo(format string, args ...any) {
	s.infoMessages = append(s.infoMessages, fmt.Sprintf(format, args...))
}

// LogError appends a formatted message to the error log.
func (s *RecordSet[T]) LogError(format string, args ...any) {
	s.errorMessages = append(s.errorMessages, fmt.Sprintf(format, args...))
}

// InfoMessages returns a copy of the info log.
func (s *RecordSet[T]) InfoMessages() []string {
	return slices.Clone(s.infoMessages)
}

// ErrorMessages returns a copy of the error log.
func (s *RecordSet[T]) ErrorMessages() []string {
	return slices.Clone(s.errorMessages)
}

// Equal reports whether both sets hold the same findings (in any order), the
// same priority counts, info messages, duplicate count and ID.
// Error messages are not compared.
func (s *RecordSet[T]) Equal(other *RecordSet[T]) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if s.duplicates != other.duplicates {
		return false
	}
	if len(s.elements) != len(other.elements) {
		return false
	}
	for _, element := range s.elements {
		if _, ok := other.index[element.Key()]; !ok {
			return false
		}
	}
	if s.priorityTally != other.priorityTally {
		return false
	}
	if !slices.Equal(s.infoMessages, other.infoMessages) {
		return false
	}
	return s.ID() == other.ID()
}

// Hash returns a hash consistent with Equal: the findings contribute
// independently of their order and error messages are ignored.
func (s *RecordSet[T]) Hash() uint64 {
	var elements uint64
	for _, element := range s.elements {
		elements += hashKey(element.Key())
	}

	d := xxhash.New()
	writeUint64(d, elements)
	for _, count := range s.priorityTally {
		writeUint64(d, uint64(count))
	}
	for _, message := range s.infoMessages {
		writeString(d, message)
	}
	writeUint64(d, uint64(s.duplicates))
	writeString(d, s.ID())
	return d.Sum64()
}

func hashKey(key Key) uint64 {
	d := xxhash.New()
	for _, value := range []string{key.FileName, key.PackageName, key.ModuleName, key.Category, key.Type, key.Origin, key.Message} {
		writeString(d, value)
	}
	writeUint64(d, uint64(key.Priority))
	writeUint64(d, uint64(key.LineStart))
	writeUint64(d, uint64(key.LineEnd))
	return d.Sum64()
}

// writeString prefixes the value with its length so adjacent fields cannot collide.
func writeString(d *xxhash.Digest, value string) {
	writeUint64(d, uint64(len(value)))
	_, _ = d.WriteString(value)
}

func writeUint64(d *xxhash.Digest, value uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	_, _ = d.Write(buf[:])
}
