package dataset

import (
	"math/rand"
)

// Transform maps a stored image to the representation handed to the model.
// Applied on every access, never cached.
type Transform func(image []float32) []float32

// TargetTransform maps a stored label to the value handed to the model.
type TargetTransform func(label int32) int32

// SubsetConfig configures a RelabeledSubset.
type SubsetConfig struct {
	ClassSize       ClassSize
	Classes         ClassFilter
	Secondary       Secondary
	Transform       Transform
	TargetTransform TargetTransform
}

// Sample is one subset item. Target2 is only meaningful when HasTarget2 is
// true, i.e. the subset was built with a secondary label scheme.
type Sample struct {
	Image      []float32
	Target     int32
	Target2    int32
	HasTarget2 bool
}

// RelabeledSubset is a fixed, reproducible subset of a base dataset with an
// optional synthetic secondary label per item.
//
// Construction is the only mutation: the subset copies the selected images
// and labels, so later changes to the base dataset do not reach it. All
// randomness comes from the constructor's *rand.Rand, making the item
// sequence a pure function of (base dataset, config, seed).
type RelabeledSubset struct {
	images          [][]float32
	targets         []int32
	targets2        []int32 // nil without a secondary scheme
	transform       Transform
	targetTransform TargetTransform
}

// NewRelabeledSubset builds a subset of base according to cfg.
//
// Selection: with both ClassSize and Classes set to "all", the subset is the
// whole base dataset in order, with no random permutation. Otherwise the
// selected classes' indices are gathered in class order (capped per class in
// base order), concatenated, and shuffled once globally.
//
// All configuration is validated before any data is copied; invalid config
// returns a ConfigError and no subset.
func NewRelabeledSubset(base Dataset, cfg SubsetConfig, rng *rand.Rand) (*RelabeledSubset, error) {
	if err := cfg.ClassSize.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Secondary.validate(); err != nil {
		return nil, err
	}
	if !cfg.Classes.IsAll() {
		if err := validateClassIDs(base, cfg.Classes.IDs()); err != nil {
			return nil, err
		}
	}

	indices := selectIndices(base, cfg, rng)

	images := make([][]float32, len(indices))
	targets := make([]int32, len(indices))
	for i, idx := range indices {
		src := base.Image(idx)
		images[i] = make([]float32, len(src))
		copy(images[i], src)
		targets[i] = base.Label(idx)
	}

	s := &RelabeledSubset{
		images:          images,
		targets:         targets,
		transform:       cfg.Transform,
		targetTransform: cfg.TargetTransform,
	}
	s.targets2 = makeSecondary(cfg.Secondary, targets, rng)
	return s, nil
}

func validateClassIDs(base Dataset, ids []int32) error {
	known := make(map[int32]struct{}, len(base.ClassIDs()))
	for _, id := range base.ClassIDs() {
		known[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return &ConfigError{Field: "class ids", Reason: "unknown class id in selection"}
		}
	}
	return nil
}

func selectIndices(base Dataset, cfg SubsetConfig, rng *rand.Rand) []int {
	if cfg.ClassSize.IsAll() && cfg.Classes.IsAll() {
		indices := make([]int, base.Len())
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	classIDs := cfg.Classes.IDs()
	if classIDs == nil {
		classIDs = base.ClassIDs()
	}

	var indices []int
	for _, classID := range classIDs {
		var classIndices []int
		for i := 0; i < base.Len(); i++ {
			if base.Label(i) == classID {
				classIndices = append(classIndices, i)
			}
		}
		if !cfg.ClassSize.IsAll() && len(classIndices) > cfg.ClassSize.Cap() {
			classIndices = classIndices[:cfg.ClassSize.Cap()]
		}
		indices = append(indices, classIndices...)
	}

	// One global permutation fully determines the final item order.
	perm := rng.Perm(len(indices))
	shuffled := make([]int, len(indices))
	for i, p := range perm {
		shuffled[i] = indices[p]
	}
	return shuffled
}

func makeSecondary(scheme Secondary, targets []int32, rng *rand.Rand) []int32 {
	m := len(targets)
	switch scheme.kind {
	case secondaryIndex:
		targets2 := make([]int32, m)
		for i := range targets2 {
			targets2[i] = int32(i)
		}
		return targets2
	case secondaryShuffle:
		perm := rng.Perm(m)
		targets2 := make([]int32, m)
		for i, p := range perm {
			targets2[i] = targets[p]
		}
		return targets2
	case secondaryBuckets:
		perm := rng.Perm(m)
		targets2 := make([]int32, m)
		for i, p := range perm {
			targets2[i] = int32(p % scheme.k)
		}
		return targets2
	default:
		return nil
	}
}

// Len returns the number of items in the subset.
func (s *RelabeledSubset) Len() int {
	return len(s.targets)
}

// HasSecondary reports whether items carry a secondary label.
func (s *RelabeledSubset) HasSecondary() bool {
	return s.targets2 != nil
}

// Get returns item i with transforms applied. The image is a fresh copy, so
// callers may mutate it freely.
func (s *RelabeledSubset) Get(i int) Sample {
	img := make([]float32, len(s.images[i]))
	copy(img, s.images[i])
	if s.transform != nil {
		img = s.transform(img)
	}

	target := s.targets[i]
	if s.targetTransform != nil {
		target = s.targetTransform(target)
	}

	sample := Sample{Image: img, Target: target}
	if s.targets2 != nil {
		target2 := s.targets2[i]
		if s.targetTransform != nil {
			target2 = s.targetTransform(target2)
		}
		sample.Target2 = target2
		sample.HasTarget2 = true
	}
	return sample
}

// Targets returns a copy of the primary labels in item order.
func (s *RelabeledSubset) Targets() []int32 {
	out := make([]int32, len(s.targets))
	copy(out, s.targets)
	return out
}

// Targets2 returns a copy of the secondary labels, or nil if the subset has
// none.
func (s *RelabeledSubset) Targets2() []int32 {
	if s.targets2 == nil {
		return nil
	}
	out := make([]int32, len(s.targets2))
	copy(out, s.targets2)
	return out
}
