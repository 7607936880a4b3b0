package aggregate

// Policy decides what happens when a value is already set.
type Policy int

const (
	// PreserveExisting keeps the first value ever set.
	PreserveExisting Policy = iota
	// ForceOverwrite lets every later non-empty value replace the earlier one.
	ForceOverwrite
)

// Merge combines an existing and an incoming value under policy. Empty
// values never overwrite.
func Merge(existing, incoming string, policy Policy) string {
	if incoming == "" {
		return existing
	}
	if existing == "" || policy == ForceOverwrite {
		return incoming
	}
	return existing
}

// PolicyFor maps the force flag to a policy.
func PolicyFor(force bool) Policy {
	if force {
		return ForceOverwrite
	}
	return PreserveExisting
}
