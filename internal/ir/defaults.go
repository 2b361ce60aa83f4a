package ir

// Task type vocabulary recognized by the JSON input schema. The document
// side treats type as an open string and preserves whatever it finds.
const (
	TypeAbstract    = "abstract"
	TypeGoal        = "goal"
	TypeUser        = "user"
	TypeSystem      = "system"
	TypeCognitive   = "cognitive"
	TypeInteraction = "interaction"
	TypeCooperative = "cooperative"
	TypeInputOutput = "inputouput" // dialect spelling, kept verbatim
)

// DefaultOperatorType is assumed when an operator carries no type tag.
const DefaultOperatorType = "enable"

// DefaultDataKind is assumed when a data object carries no kind tag.
const DefaultDataKind = "objectdod"

// ErrorPhenotype is the error type rendered as a phenotype element; every
// other type is a genotype kind.
const ErrorPhenotype = "humanerror"

// Derived link types per DOD kind.
const (
	LinkTypeUses = "USES_TYPE"
	LinkTypeTest = "TEST_TYPE"
)

var deviceKinds = map[string]bool{
	"deviceinputdod": true,
	"deviceouputdod": true,
	"deviceiodod":    true,
}

// IsDeviceKind reports whether a DOD kind is a device-class kind.
func IsDeviceKind(dataType string) bool { return deviceKinds[dataType] }

// DefaultLinkType is the derived link type used when a task ref carries
// none: USES_TYPE for device-class kinds, TEST_TYPE for everything else.
func DefaultLinkType(dataType string) string {
	if IsDeviceKind(dataType) {
		return LinkTypeUses
	}
	return LinkTypeTest
}

// DocumentDefaultType is the effective task type default on the
// document-reading path, which depends on position and shape: the root is
// a goal, a non-root task with operator children is abstract, and a leaf
// is an inputouput task. The compact JSON form omits the type whenever it
// equals this value.
//
// Kept deliberately separate from SimplifiedDefaultType: the two source
// formats disagree, and both existing producers depend on their own rule.
func DocumentDefaultType(isRoot, hasChildren bool) string {
	if isRoot {
		return TypeGoal
	}
	if hasChildren {
		return TypeAbstract
	}
	return TypeInputOutput
}

// SimplifiedDefaultType is the effective task type default on the
// JSON-reading path: the root is a goal, every other node is abstract,
// independent of whether it has children.
func SimplifiedDefaultType(isRoot bool) string {
	if isRoot {
		return TypeGoal
	}
	return TypeAbstract
}

// CompactFields describes which task fields the compact JSON form carries
// at a given position. Writers consult this instead of re-deriving the
// omission rules.
type CompactFields struct {
	ID        bool
	Type      bool
	Optional  bool
	Iterative bool
	Duration  bool
	Refs      bool
}

// CompactFieldsFor applies the compact-output contract to one task: omit
// the id when it was auto-generated, the type when it equals the
// document-path default for the position, optional when false, iterative
// when wildcard, duration when unset, and refs when empty.
func CompactFieldsFor(t *Task, isRoot bool) CompactFields {
	return CompactFields{
		ID:        !t.AutoID && t.ID != "",
		Type:      t.Type != DocumentDefaultType(isRoot, t.HasChildren()),
		Optional:  t.Optional,
		Iterative: !t.Iterative.IsWildcard(),
		Duration:  t.Duration.IsSet(),
		Refs:      len(t.Refs) > 0,
	}
}
