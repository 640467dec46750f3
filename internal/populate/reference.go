package populate

// ReferenceTracker records the reference numbers handed out during one run
// so no two generated transactions share one. It is not safe for concurrent use.
type ReferenceTracker struct {
	used map[string]struct{}
}

func NewReferenceTracker() *ReferenceTracker {
	return &ReferenceTracker{used: make(map[string]struct{})}
}

func (r *ReferenceTracker) Clear() {
	r.used = make(map[string]struct{})
}

func (r *ReferenceTracker) Len() int {
	return len(r.used)
}

func (r *ReferenceTracker) Contains(ref string) bool {
	_, ok := r.used[ref]
	return ok
}

// Claim reserves ref and reports whether it was still free.
func (r *ReferenceTracker) Claim(ref string) bool {
	if _, ok := r.used[ref]; ok {
		return false
	}
	r.used[ref] = struct{}{}
	return true
}
