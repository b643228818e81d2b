package sim

import "fmt"

// registry lets a Go program that elaborates a design register the
// resulting Scheduler by name at init() time, the same shape as
// pkg/convert's registry: there is no source file for cmd/hdlsim to
// build a simulation from, since elaboration is Go code.
var registry = map[string]func() *Scheduler{}

// Register records build under name, callable later via Build.
func Register(name string, build func() *Scheduler) {
	registry[name] = build
}

// Build resolves a name registered via Register, constructing a fresh
// Scheduler (build is called once per Build call, so re-running a
// simulation never reuses stale state).
func Build(name string) (*Scheduler, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("sim: no simulation registered under %q", name)
	}
	return build(), nil
}

// RegisteredNames returns every name registered via Register.
func RegisteredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
