package util

import (
	"sort"
	"strings"
)

// StringSet is a map[string]bool with methods added to use it as a set of
// strings. The zero value is a nil map and is only safe for reading; use
// NewStringSet or StringSetOf to get one ready for adding to.
type StringSet map[string]bool

// NewStringSet creates a new StringSet containing the keys of all of the given
// maps.
func NewStringSet(of ...map[string]bool) StringSet {
	s := StringSet{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// StringSetOf creates a new StringSet containing every element of sl.
func StringSetOf(sl []string) StringSet {
	s := StringSet{}

	for i := range sl {
		s.Add(sl[i])
	}

	return s
}

func (s StringSet) Copy() StringSet {
	newS := NewStringSet()

	for k := range s {
		newS[k] = true
	}

	return newS
}

// Union returns a new StringSet that is the union of s and o.
func (s StringSet) Union(o StringSet) StringSet {
	newSet := NewStringSet()
	newSet.AddAll(s)
	newSet.AddAll(o)

	return newSet
}

// Difference returns a new StringSet that contains the elements that are in s
// but not in o.
func (s StringSet) Difference(o StringSet) StringSet {
	newSet := NewStringSet()
	newSet.AddAll(s)

	for k := range o {
		newSet.Remove(k)
	}

	return newSet
}

func (s StringSet) Empty() bool {
	return s.Len() == 0
}

func (s StringSet) Any(predicate func(v string) bool) bool {
	for k := range s {
		if predicate(k) {
			return true
		}
	}
	return false
}

func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

func (s StringSet) Add(value string) {
	s[value] = true
}

func (s StringSet) Remove(value string) {
	delete(s, value)
}

func (s StringSet) Len() int {
	return len(s)
}

func (s StringSet) AddAll(s2 StringSet) {
	for k := range s2 {
		s.Add(k)
	}
}

// Elements returns the elements of s as a slice in alphabetical order.
func (s StringSet) Elements() []string {
	if s == nil {
		return nil
	}

	sl := make([]string, 0, len(s))

	for item := range s {
		sl = append(sl, item)
	}

	sort.Strings(sl)

	return sl
}

// StringOrdered shows the contents of the set. Items are guaranteed to be
// alphabetized, so two sets with the same elements always give the same
// string regardless of the order the elements were added in.
func (s StringSet) StringOrdered() string {
	var sb strings.Builder

	sb.WriteRune('{')
	sb.WriteString(strings.Join(s.Elements(), ", "))
	sb.WriteRune('}')
	return sb.String()
}

func (s StringSet) String() string {
	return s.StringOrdered()
}

// Equal returns whether two sets have the same items. Anything other than a
// StringSet or a non-nil *StringSet is never considered equal.
func (s StringSet) Equal(o any) bool {
	other, ok := o.(StringSet)
	if !ok {
		otherPtr, ok := o.(*StringSet)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if s.Len() != other.Len() {
		return false
	}

	for k := range s {
		if !other.Has(k) {
			return false
		}
	}

	return true
}
