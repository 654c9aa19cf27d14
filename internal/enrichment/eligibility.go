package enrichment

// Eligible reports whether the contact still needs enrichment from any of the given
// providers: no email variant, no phone variant, and at least one provider that has
// not reached a definitive status.
func Eligible(v *ContactView, providers []ProviderName) bool {
	if v.HasEmail() || v.HasPhone() {
		return false
	}
	return len(PendingProviders(v, providers)) > 0
}

// PendingProviders filters providers down to those without a definitive status.
func PendingProviders(v *ContactView, providers []ProviderName) []ProviderName {
	var out []ProviderName
	for _, p := range providers {
		if !v.Status(p).Definitive() {
			out = append(out, p)
		}
	}
	return out
}

// Exhausted reports whether every provider the job drives is definitive while the
// contact still has no email and no phone.
func Exhausted(v *ContactView) bool {
	if v.HasEmail() || v.HasPhone() {
		return false
	}
	return len(PendingProviders(v, AllProviders)) == 0
}
