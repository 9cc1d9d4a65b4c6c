// Package counters implements the per-kind identifier allocator. Every
// entity kind owns its own monotonically increasing counter; the counters
// are reconciled against the store's highest existing identifiers at
// startup and advance atomically from there, so two concurrent writes never
// receive the same identifier and restarts never reuse one.
package counters

import (
	"fmt"
	"sync/atomic"

	"github.com/scidepot/depot/errors"
)

const component = "counters"

// Kind identifies one identifier namespace. The set of kinds is fixed at
// compile time; adding one means adding an enum value, its name, and a
// highest-id query for reconciliation.
type Kind int

const (
	KindArticle Kind = iota
	KindCollection
	KindAccount
	KindAuthor
	KindInstitution
	KindCategory
	KindFile
	KindFunding
	KindTimeline
	KindCustomField
	KindPrivateLink
	KindEmbargo
	KindSession
	KindReference
	KindArticleAuthor
	KindArticleCategory
	KindArticleFile
	KindArticleTag
	KindCollectionAuthor
	KindCollectionCategory
	KindCollectionArticle
	KindCollectionTag
	KindAccountCategory
	KindLicense

	kindCount
)

var kindNames = [kindCount]string{
	KindArticle:            "article",
	KindCollection:         "collection",
	KindAccount:            "account",
	KindAuthor:             "author",
	KindInstitution:        "institution",
	KindCategory:           "category",
	KindFile:               "file",
	KindFunding:            "funding",
	KindTimeline:           "timeline",
	KindCustomField:        "custom_field",
	KindPrivateLink:        "private_link",
	KindEmbargo:            "embargo",
	KindSession:            "session",
	KindReference:          "reference",
	KindArticleAuthor:      "article_author",
	KindArticleCategory:    "article_category",
	KindArticleFile:        "article_file",
	KindArticleTag:         "article_tag",
	KindCollectionAuthor:   "collection_author",
	KindCollectionCategory: "collection_category",
	KindCollectionArticle:  "collection_article",
	KindCollectionTag:      "collection_tag",
	KindAccountCategory:    "account_category",
	KindLicense:            "license",
}

// String returns the kind's wire name, used in type IRIs and logs.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k names a registered kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// ParseKind resolves a wire name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return -1, errors.WrapInvalid(errors.ErrUnknownKind, component, "ParseKind",
		fmt.Sprintf("no kind named %q", name))
}

// Kinds returns every registered kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Allocator holds one atomic counter per kind. The zero state is "unset":
// CurrentID and NextID refuse to answer until reconciliation has run and
// MarkInitialized has been called, so a process that could not determine
// the store's state never hands out colliding identifiers.
type Allocator struct {
	counters    [kindCount]atomic.Int64
	initialized atomic.Bool
}

// NewAllocator returns an unset allocator. Callers reconcile each kind with
// SetID and then call MarkInitialized.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// SetID raises the counter for kind to at least id. Lowering is refused
// silently so reconciliation can never move a counter backwards.
func (a *Allocator) SetID(kind Kind, id int64) error {
	if !kind.Valid() {
		return errors.WrapInvalid(errors.ErrUnknownKind, component, "SetID", kind.String())
	}
	counter := &a.counters[kind]
	for {
		current := counter.Load()
		if id <= current {
			return nil
		}
		if counter.CompareAndSwap(current, id) {
			return nil
		}
	}
}

// MarkInitialized declares reconciliation complete and unblocks allocation.
func (a *Allocator) MarkInitialized() {
	a.initialized.Store(true)
}

// Initialized reports whether the allocator may hand out identifiers.
func (a *Allocator) Initialized() bool {
	return a.initialized.Load()
}

// CurrentID returns the highest identifier issued or reconciled for kind.
func (a *Allocator) CurrentID(kind Kind) (int64, error) {
	if !kind.Valid() {
		return 0, errors.WrapInvalid(errors.ErrUnknownKind, component, "CurrentID", kind.String())
	}
	if !a.initialized.Load() {
		return 0, errors.WrapFatal(errors.ErrCountersUnset, component, "CurrentID",
			"allocator not reconciled with the store")
	}
	return a.counters[kind].Load(), nil
}

// NextID atomically increments the counter for kind and returns the new
// value. Write paths treat an unset allocator as a fatal precondition.
func (a *Allocator) NextID(kind Kind) (int64, error) {
	if !kind.Valid() {
		return 0, errors.WrapInvalid(errors.ErrUnknownKind, component, "NextID", kind.String())
	}
	if !a.initialized.Load() {
		return 0, errors.WrapFatal(errors.ErrCountersUnset, component, "NextID",
			"allocator not reconciled with the store")
	}
	return a.counters[kind].Add(1), nil
}
