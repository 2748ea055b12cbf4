package domain

import (
	"strings"
	"unique"
)

// TargetKey is the interned, case-folded form of a target name.
// Two names that differ only in case map to the same key.
type TargetKey struct {
	h unique.Handle[string]
}

// KeyOf returns the registry key for a target name.
func KeyOf(name string) TargetKey {
	return TargetKey{h: unique.Make(strings.ToLower(name))}
}

// KeysOf converts a list of target names to keys, keeping order.
func KeysOf(names []string) []TargetKey {
	res := make([]TargetKey, len(names))
	for i, n := range names {
		res[i] = KeyOf(n)
	}
	return res
}

// String returns the case-folded name.
func (k TargetKey) String() string {
	return k.h.Value()
}

// IsZero reports whether k was never assigned.
func (k TargetKey) IsZero() bool {
	return k == TargetKey{}
}

// MarshalText implements encoding.TextMarshaler.
func (k TargetKey) MarshalText() ([]byte, error) {
	return []byte(k.h.Value()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// The text is folded the same way KeyOf folds names.
func (k *TargetKey) UnmarshalText(text []byte) error {
	*k = KeyOf(string(text))
	return nil
}
