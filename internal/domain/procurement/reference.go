package procurement

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ReferenceKind is the master-data namespace a business identifier belongs to
type ReferenceKind string

const (
	RefSupplier    ReferenceKind = "supplier"
	RefItem        ReferenceKind = "item"
	RefLegalEntity ReferenceKind = "legal_entity"
	RefSite        ReferenceKind = "site"
	RefPO          ReferenceKind = "po"
)

// ReferenceKinds lists every kind a resolver must understand
var ReferenceKinds = []ReferenceKind{RefSupplier, RefItem, RefLegalEntity, RefSite, RefPO}

// Valid reports whether k is a known kind
func (k ReferenceKind) Valid() bool {
	for _, known := range ReferenceKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Resolution is the surrogate key a business identifier resolved to.
// Placeholder is set when the key was fabricated instead of looked up.
type Resolution struct {
	Key         uuid.UUID
	Placeholder bool
}

// ReferenceResolver maps business identifiers to surrogate keys. Implementations
// either look the identifier up or fabricate a placeholder; callers cannot tell
// which is active.
type ReferenceResolver interface {
	Resolve(ctx context.Context, kind ReferenceKind, identifier string) (Resolution, error)
}

// ReferenceRepository reads master data. FindKey returns shared.ErrNotFound
// when no row carries the normalized match key.
type ReferenceRepository interface {
	FindKey(ctx context.Context, kind ReferenceKind, matchKey string) (uuid.UUID, error)
}

// Reference is a foreign key slot on a record, identified by a business
// identifier and filled in during resolution
type Reference struct {
	Kind        ReferenceKind
	Identifier  string
	Key         *uuid.UUID
	Placeholder bool
}

// NewReference creates an unbound reference. The identifier is trimmed.
func NewReference(kind ReferenceKind, identifier string) Reference {
	return Reference{Kind: kind, Identifier: strings.TrimSpace(identifier)}
}

// Requested reports whether the reference names something to resolve
func (r *Reference) Requested() bool {
	return r.Identifier != ""
}

// Bound reports whether the reference has a key
func (r *Reference) Bound() bool {
	return r.Key != nil
}

// Bind stores a resolution on the reference
func (r *Reference) Bind(res Resolution) {
	key := res.Key
	r.Key = &key
	r.Placeholder = res.Placeholder
}

// ReferenceRequest is a distinct (kind, identifier) pair to resolve
type ReferenceRequest struct {
	Kind       ReferenceKind
	Identifier string
}

func (r ReferenceRequest) String() string {
	return fmt.Sprintf("%s %q", r.Kind, r.Identifier)
}

// ReferenceNotFoundError is returned when a lookup finds no master data
type ReferenceNotFoundError struct {
	Kind       ReferenceKind
	Identifier string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("reference not found: %s %q", e.Kind, e.Identifier)
}

// NormalizeIdentifier produces the match key used for master-data lookups:
// NFKC normalization, Unicode case folding, trimmed and with internal
// whitespace runs collapsed to one space.
func NormalizeIdentifier(identifier string) string {
	s := norm.NFKC.String(identifier)
	s = cases.Fold().String(s) // Casers are stateful, so one per call
	return strings.Join(strings.Fields(s), " ")
}
