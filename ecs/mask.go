package ecs

// Kind identifies one of the component kinds a slot can hold.
type Kind uint8

const (
	KindTransform Kind = iota // position and rotation
	KindMesh                  // triangle mesh
	KindVolume                // dense voxel grid

	kindCount
)

var kindNames = [...]string{
	KindTransform: "Transform",
	KindMesh:      "Mesh",
	KindVolume:    "Volume",
}

// String returns the component kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Mask is a set of component kinds. Bit k is set when kind k is present.
type Mask uint8

// MaskOf builds a mask containing the given kinds.
func MaskOf(kinds ...Kind) Mask {
	var m Mask
	for _, k := range kinds {
		m = m.Set(k)
	}
	return m
}

// Set returns m with kind k added.
func (m Mask) Set(k Kind) Mask { return m | 1<<k }

// Clear returns m with kind k removed.
func (m Mask) Clear(k Kind) Mask { return m &^ (1 << k) }

// Has reports whether kind k is in m.
func (m Mask) Has(k Kind) bool { return m&(1<<k) != 0 }

// HasAll reports whether every kind in sub is also in m.
func (m Mask) HasAll(sub Mask) bool { return m&sub == sub }

// Common render queries.
var (
	Renderable = MaskOf(KindTransform, KindMesh)
	Volumetric = MaskOf(KindTransform, KindVolume)
)
