package identity

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// ErrInvalidID is returned for ids not following the "<name>-v<int>" format.
var ErrInvalidID = errors.New("invalid identifier")

var idPattern = regexp.MustCompile(`^.+-v[0-9]+$`)

// Tagged is implemented by entities that can be named automatically.
type Tagged interface {
	TypeTag() string
}

// NamingStrategy builds an identifier from a type tag and a 1-based
// sequence number.
type NamingStrategy func(typeTag string, seq int) string

// DefaultNaming yields "<typeTag>-v<seq>".
func DefaultNaming(typeTag string, seq int) string {
	return fmt.Sprintf("%s-v%d", typeTag, seq)
}

// Entry binds an identifier to its entity.
type Entry[T any] struct {
	ID    string
	Value T
}

// ValidateID checks that id follows the "<name>-v<int>" convention.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w %q: expected <name>-v<int>", ErrInvalidID, id)
	}
	return nil
}

// Resolver produces identifiers for entities. Taken, when set, reports ids
// already in use so synthesized ids skip them.
type Resolver[T Tagged] struct {
	Naming NamingStrategy
	Taken  func(id string) bool
}

// NewResolver returns a resolver using DefaultNaming.
func NewResolver[T Tagged](taken func(string) bool) *Resolver[T] {
	return &Resolver[T]{Naming: DefaultNaming, Taken: taken}
}

// One resolves a single entity. An empty id is synthesized from the
// entity's type tag.
func (r *Resolver[T]) One(item T, id string) ([]Entry[T], error) {
	if id != "" {
		if err := ValidateID(id); err != nil {
			return nil, err
		}
		return []Entry[T]{{ID: id, Value: item}}, nil
	}
	return r.List([]T{item}), nil
}

// List synthesizes an id for every item. Items sharing a type tag receive
// increasing sequence numbers in the order they appear.
func (r *Resolver[T]) List(items []T) []Entry[T] {
	seen := make(map[string]int)
	used := make(map[string]bool)
	out := make([]Entry[T], 0, len(items))
	for _, it := range items {
		tag := it.TypeTag()
		var id string
		for {
			seen[tag]++
			id = r.naming()(tag, seen[tag])
			if !used[id] && (r.Taken == nil || !r.Taken(id)) {
				break
			}
		}
		used[id] = true
		out = append(out, Entry[T]{ID: id, Value: it})
	}
	return out
}

// Map returns the mapping as entries ordered by id. Every key must be a
// valid identifier.
func (r *Resolver[T]) Map(m map[string]T) ([]Entry[T], error) {
	ids := make([]string, 0, len(m))
	for id := range m {
		if err := ValidateID(id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Entry[T], 0, len(ids))
	for _, id := range ids {
		out = append(out, Entry[T]{ID: id, Value: m[id]})
	}
	return out, nil
}

func (r *Resolver[T]) naming() NamingStrategy {
	if r.Naming == nil {
		return DefaultNaming
	}
	return r.Naming
}
