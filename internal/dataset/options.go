package dataset

import "strconv"

// ClassSize is the per-class item budget for a subset: either all items of
// each class or a fixed cap. The zero value keeps everything.
type ClassSize struct {
	cap    int
	capped bool
}

// ClassSizeAll keeps every item of each selected class.
func ClassSizeAll() ClassSize {
	return ClassSize{}
}

// ClassSizeCap keeps at most n items per class, in base-dataset order.
// n must be positive; the value is validated at subset construction.
func ClassSizeCap(n int) ClassSize {
	return ClassSize{cap: n, capped: true}
}

// IsAll reports whether no cap applies.
func (c ClassSize) IsAll() bool {
	return !c.capped
}

// Cap returns the per-class cap; only meaningful when !IsAll().
func (c ClassSize) Cap() int {
	return c.cap
}

func (c ClassSize) validate() error {
	if c.capped && c.cap < 1 {
		return &ConfigError{Field: "class size", Reason: "per-class cap must be positive"}
	}
	return nil
}

// ParseClassSize parses "all" or a positive integer.
func ParseClassSize(s string) (ClassSize, error) {
	if s == "all" {
		return ClassSizeAll(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return ClassSize{}, &ConfigError{Field: "class size", Reason: "must be 'all' or a positive integer"}
	}
	return ClassSizeCap(n), nil
}

// ClassFilter selects which classes contribute to a subset: all classes or
// an explicit id list.
type ClassFilter struct {
	ids []int32 // nil = all
}

// ClassesAll selects every class present in the base dataset.
func ClassesAll() ClassFilter {
	return ClassFilter{}
}

// ClassesIDs selects exactly the given class ids, in the given order.
func ClassesIDs(ids ...int32) ClassFilter {
	return ClassFilter{ids: ids}
}

// IsAll reports whether every class is selected.
func (c ClassFilter) IsAll() bool {
	return c.ids == nil
}

// IDs returns the explicit id list; nil when IsAll().
func (c ClassFilter) IDs() []int32 {
	return c.ids
}

// Secondary is the synthetic secondary-label scheme applied to a subset.
type Secondary struct {
	kind secondaryKind
	k    int
}

type secondaryKind int

const (
	secondaryNone secondaryKind = iota
	secondaryIndex
	secondaryShuffle
	secondaryBuckets
)

// SecondaryNone attaches no secondary labels.
func SecondaryNone() Secondary {
	return Secondary{kind: secondaryNone}
}

// SecondaryIndex labels item i with i itself, making every item its own
// singleton class.
func SecondaryIndex() Secondary {
	return Secondary{kind: secondaryIndex}
}

// SecondaryShuffle labels item i with the primary label at a random
// permutation of i, preserving the label distribution while decorrelating
// labels from items.
func SecondaryShuffle() Secondary {
	return Secondary{kind: secondaryShuffle}
}

// SecondaryBuckets assigns shuffled positions cyclically to k buckets,
// producing k roughly balanced synthetic classes. k must be positive; the
// value is validated at subset construction.
func SecondaryBuckets(k int) Secondary {
	return Secondary{kind: secondaryBuckets, k: k}
}

func (s Secondary) validate() error {
	if s.kind == secondaryBuckets && s.k < 1 {
		return &ConfigError{Field: "secondary label scheme", Reason: "bucket count must be a positive integer"}
	}
	return nil
}

// ParseSecondary parses "none", "index", "shuffle", or a positive integer
// bucket count.
func ParseSecondary(s string) (Secondary, error) {
	switch s {
	case "none":
		return SecondaryNone(), nil
	case "index":
		return SecondaryIndex(), nil
	case "shuffle":
		return SecondaryShuffle(), nil
	}
	k, err := strconv.Atoi(s)
	if err != nil || k < 1 {
		return Secondary{}, &ConfigError{Field: "secondary label scheme", Reason: "must be 'index', 'shuffle', 'none', or an integer"}
	}
	return SecondaryBuckets(k), nil
}
