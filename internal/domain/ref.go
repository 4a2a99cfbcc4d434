package domain

import "strconv"

type RefKind string

const (
	RefInternal RefKind = "internal"
	RefExternal RefKind = "external"
)

// ProductRef identifies a product either by the local catalog id or by the
// upstream catalog's numeric id. Equality checks always consider both sides,
// never ad hoc string coercion at call sites.
type ProductRef struct {
	Kind  RefKind
	Value string
}

func InternalRef(id string) ProductRef {
	return ProductRef{Kind: RefInternal, Value: id}
}

func ExternalRef(id int64) ProductRef {
	return ProductRef{Kind: RefExternal, Value: strconv.FormatInt(id, 10)}
}

// IsZero reports whether the reference carries no identifier.
func (r ProductRef) IsZero() bool {
	return r.Value == ""
}

// ExternalID returns the numeric id for external references.
func (r ProductRef) ExternalID() (int64, bool) {
	if r.Kind != RefExternal {
		return 0, false
	}
	n, err := strconv.ParseInt(r.Value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Matches reports whether the reference points at the entity identified by
// the given internal and/or external ids.
func (r ProductRef) Matches(internalID *string, externalID *int64) bool {
	if r.IsZero() {
		return false
	}
	switch r.Kind {
	case RefInternal:
		return internalID != nil && *internalID == r.Value
	case RefExternal:
		n, ok := r.ExternalID()
		return ok && externalID != nil && *externalID == n
	}
	return false
}

// matchesProductRef compares a raw route parameter against both identifier
// fields, the way the API accepts either form interchangeably.
func matchesProductRef(ref string, internalID *string, externalID *int64) bool {
	if ref == "" {
		return false
	}
	if internalID != nil && *internalID == ref {
		return true
	}
	if externalID != nil && strconv.FormatInt(*externalID, 10) == ref {
		return true
	}
	return false
}
