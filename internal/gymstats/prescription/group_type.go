package prescription

// GroupType can be one of:
//   - NORMAL
//   - DROP_SET
//   - PYRAMID_UP
//   - PYRAMID_DOWN
//   - PYRAMID_FULL
//   - SUPER_SET
//   - GIANT_SET
//
// The type is descriptive only, sets of every group are executed in order.
type GroupType string

const (
	GroupTypeNormal      GroupType = "NORMAL"
	GroupTypeDropSet     GroupType = "DROP_SET"
	GroupTypePyramidUp   GroupType = "PYRAMID_UP"
	GroupTypePyramidDown GroupType = "PYRAMID_DOWN"
	GroupTypePyramidFull GroupType = "PYRAMID_FULL"
	GroupTypeSuperSet    GroupType = "SUPER_SET"
	GroupTypeGiantSet    GroupType = "GIANT_SET"
)

var AllGroupTypes = []GroupType{
	GroupTypeNormal,
	GroupTypeDropSet,
	GroupTypePyramidUp,
	GroupTypePyramidDown,
	GroupTypePyramidFull,
	GroupTypeSuperSet,
	GroupTypeGiantSet,
}

func (gt GroupType) String() string {
	return string(gt)
}

func (gt GroupType) IsValid() bool {
	switch gt {
	case GroupTypeNormal,
		GroupTypeDropSet,
		GroupTypePyramidUp,
		GroupTypePyramidDown,
		GroupTypePyramidFull,
		GroupTypeSuperSet,
		GroupTypeGiantSet:
		return true
	default:
		return false
	}
}

// Label is the human readable name shown next to a group.
func (gt GroupType) Label() string {
	switch gt {
	case GroupTypeNormal:
		return "Normal"
	case GroupTypeDropSet:
		return "Drop set"
	case GroupTypePyramidUp:
		return "Pyramid (up)"
	case GroupTypePyramidDown:
		return "Pyramid (down)"
	case GroupTypePyramidFull:
		return "Pyramid (full)"
	case GroupTypeSuperSet:
		return "Super set"
	case GroupTypeGiantSet:
		return "Giant set"
	default:
		return string(gt)
	}
}
