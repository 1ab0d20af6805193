// Package collectors defines the shared types of prompt-line's data sources.
// Each source (git, k8s, sysinfo) is queried exactly once before rendering
// and hands back an already-typed snapshot; segments never perform I/O.
package collectors

import "os"

// Outcome is the result of querying an optional data source. It keeps two
// questions apart: does the source apply here at all, and if so, did reading
// it succeed. Segments render nothing for an absent outcome and a broken
// badge for a failed one.
type Outcome[T any] struct {
	applicable bool
	value      T
	err        error
}

// Absent reports that the source does not apply (no repository, no project
// configured, no previous command).
func Absent[T any]() Outcome[T] {
	return Outcome[T]{}
}

// Found wraps a successfully read value.
func Found[T any](v T) Outcome[T] {
	return Outcome[T]{applicable: true, value: v}
}

// Failed records that the source applies but could not be read.
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{applicable: true, err: err}
}

// From converts a (value, error) pair into an applicable outcome.
func From[T any](v T, err error) Outcome[T] {
	if err != nil {
		return Failed[T](err)
	}
	return Found(v)
}

// Applicable reports whether the source applies.
func (o Outcome[T]) Applicable() bool { return o.applicable }

// Get returns the value and the read error. For an absent outcome both are
// zero.
func (o Outcome[T]) Get() (T, error) { return o.value, o.err }

// Err returns the read error, if any.
func (o Outcome[T]) Err() error { return o.err }

// Env looks up an environment variable. It has the signature of
// os.LookupEnv so tests can substitute a fixed environment.
type Env func(key string) (string, bool)

// OSEnv returns the process environment.
func OSEnv() Env { return os.LookupEnv }

// MapEnv returns an Env backed by m.
func MapEnv(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Get returns the value of key, or "" when unset.
func (e Env) Get(key string) string {
	v, _ := e(key)
	return v
}

// Has reports whether key is set, even to the empty string.
func (e Env) Has(key string) bool {
	_, ok := e(key)
	return ok
}
