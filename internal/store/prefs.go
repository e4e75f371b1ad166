package store

import (
	"encoding/json"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the type of a stored preference value.
type Kind string

const (
	KindInt       Kind = "int"
	KindBool      Kind = "bool"
	KindString    Kind = "string"
	KindStringSet Kind = "string_set"
)

// value is a typed preference in its canonical string encoding. Two values
// are equal iff kind and encoding are equal, which makes diffing trivial.
type value struct {
	kind Kind
	raw  string
}

// Preferences is an immutable snapshot of the key-value store.
// The zero value is an empty snapshot.
type Preferences struct {
	m map[string]value
}

// Len returns the number of keys in the snapshot.
func (p Preferences) Len() int {
	return len(p.m)
}

// Has reports whether key is present, regardless of its kind.
func (p Preferences) Has(key string) bool {
	_, ok := p.m[key]
	return ok
}

// Keys returns all keys in sorted order.
func (p Preferences) Keys() []string {
	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Int returns the integer stored at key. A missing key, a value of another
// kind, or an undecodable value all report ok=false.
func (p Preferences) Int(key string) (int, bool) {
	v, ok := p.m[key]
	if !ok || v.kind != KindInt {
		return 0, false
	}
	n, err := strconv.Atoi(v.raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IntOr returns the integer at key, or def when absent.
func (p Preferences) IntOr(key string, def int) int {
	if n, ok := p.Int(key); ok {
		return n
	}
	return def
}

// Bool returns the boolean stored at key.
func (p Preferences) Bool(key string) (bool, bool) {
	v, ok := p.m[key]
	if !ok || v.kind != KindBool {
		return false, false
	}
	b, err := strconv.ParseBool(v.raw)
	if err != nil {
		return false, false
	}
	return b, true
}

// String returns the string stored at key.
func (p Preferences) String(key string) (string, bool) {
	v, ok := p.m[key]
	if !ok || v.kind != KindString {
		return "", false
	}
	return v.raw, true
}

// StringSet returns a sorted copy of the set stored at key.
func (p Preferences) StringSet(key string) ([]string, bool) {
	v, ok := p.m[key]
	if !ok || v.kind != KindStringSet {
		return nil, false
	}
	set, err := decodeSet(v.raw)
	if err != nil {
		return nil, false
	}
	return set, true
}

// SetLen returns the cardinality of the set at key, 0 when absent.
func (p Preferences) SetLen(key string) int {
	set, _ := p.StringSet(key)
	return len(set)
}

// Edit returns a mutable copy of the snapshot.
func (p Preferences) Edit() *MutablePreferences {
	m := make(map[string]value, len(p.m))
	for k, v := range p.m {
		m[k] = v
	}
	return &MutablePreferences{base: p.m, m: m}
}

// MutablePreferences is the edit buffer passed to a transaction mutator.
// Getters observe edits made earlier in the same transaction.
type MutablePreferences struct {
	base map[string]value
	m    map[string]value
}

// Snapshot returns the current state of the buffer as an immutable value.
func (mp *MutablePreferences) Snapshot() Preferences {
	m := make(map[string]value, len(mp.m))
	for k, v := range mp.m {
		m[k] = v
	}
	return Preferences{m: m}
}

// view exposes the buffer through the read-only getters without copying.
func (mp *MutablePreferences) view() Preferences {
	return Preferences{m: mp.m}
}

func (mp *MutablePreferences) Int(key string) (int, bool)    { return mp.view().Int(key) }
func (mp *MutablePreferences) IntOr(key string, def int) int { return mp.view().IntOr(key, def) }
func (mp *MutablePreferences) Bool(key string) (bool, bool)  { return mp.view().Bool(key) }
func (mp *MutablePreferences) String(key string) (string, bool) {
	return mp.view().String(key)
}
func (mp *MutablePreferences) StringSet(key string) ([]string, bool) {
	return mp.view().StringSet(key)
}
func (mp *MutablePreferences) Has(key string) bool { return mp.view().Has(key) }
func (mp *MutablePreferences) Keys() []string      { return mp.view().Keys() }

func (mp *MutablePreferences) SetInt(key string, n int) {
	mp.m[key] = value{kind: KindInt, raw: strconv.Itoa(n)}
}

func (mp *MutablePreferences) SetBool(key string, b bool) {
	mp.m[key] = value{kind: KindBool, raw: strconv.FormatBool(b)}
}

func (mp *MutablePreferences) SetString(key, s string) {
	mp.m[key] = value{kind: KindString, raw: s}
}

// SetStringSet stores the set of distinct members of items.
func (mp *MutablePreferences) SetStringSet(key string, items []string) {
	mp.m[key] = value{kind: KindStringSet, raw: encodeSet(items)}
}

// Remove deletes key. Removing an absent key is a no-op.
func (mp *MutablePreferences) Remove(key string) {
	delete(mp.m, key)
}

// RemovePrefix deletes every key starting with prefix and returns how many
// keys were removed.
func (mp *MutablePreferences) RemovePrefix(prefix string) int {
	n := 0
	for k := range mp.m {
		if strings.HasPrefix(k, prefix) {
			delete(mp.m, k)
			n++
		}
	}
	return n
}

// changes computes the delta between the buffer and the snapshot it was
// created from.
func (mp *MutablePreferences) changes() (upserts map[string]value, removed []string) {
	upserts = make(map[string]value)
	for k, v := range mp.m {
		if old, ok := mp.base[k]; !ok || old != v {
			upserts[k] = v
		}
	}
	for k := range mp.base {
		if _, ok := mp.m[k]; !ok {
			removed = append(removed, k)
		}
	}
	sort.Strings(removed)
	return upserts, removed
}

// encodeSet produces the canonical JSON encoding: sorted, de-duplicated.
func encodeSet(items []string) string {
	set := slices.Clone(items)
	sort.Strings(set)
	set = slices.Compact(set)
	if set == nil {
		set = []string{}
	}
	b, _ := json.Marshal(set)
	return string(b)
}

func decodeSet(raw string) ([]string, error) {
	var set []string
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, err
	}
	return set, nil
}
