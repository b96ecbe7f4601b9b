package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// StrFromPtrWithDefault dereferences the first set pointer. Cards read back
// from storage use it to refill edit inputs.
func StrFromPtrWithDefault(fallback string, ptrs ...*string) string {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// OptionalStr returns nil for a blank string so optional card fields stay
// NULL in storage.
func OptionalStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
