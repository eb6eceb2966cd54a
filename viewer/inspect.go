package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/voxscene"
	"github.com/gogpu/voxscene/ecs"
)

// Per-tick steps of the inspector edits, scaled by dt.
const (
	NudgeStep = 0.05
	TurnStep  = 1.0
)

// InspectInput edits the selected entity.
//
// Tab and Shift+Tab change the selection. T, M and V toggle its transform,
// mesh and volume flags. R, B and C regenerate its volume as random noise,
// a ball and a wireframe cube. The arrow keys and Page Up/Down move it, Q
// and E turn it about the y axis.
type InspectInput struct {
	SelectNext bool
	SelectPrev bool

	ToggleTransform bool
	ToggleMesh      bool
	ToggleVolume    bool

	FillRandom bool
	FillSphere bool
	FillCube   bool

	// Nudge is added to the position and Turn to the rotation, both
	// multiplied by dt.
	Nudge mgl32.Vec3
	Turn  mgl32.Vec3
}

func readInspect() InspectInput {
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	tab := inpututil.IsKeyJustPressed(ebiten.KeyTab)
	in := InspectInput{
		SelectNext:      tab && !shift,
		SelectPrev:      tab && shift,
		ToggleTransform: inpututil.IsKeyJustPressed(ebiten.KeyT),
		ToggleMesh:      inpututil.IsKeyJustPressed(ebiten.KeyM),
		ToggleVolume:    inpututil.IsKeyJustPressed(ebiten.KeyV),
		FillRandom:      inpututil.IsKeyJustPressed(ebiten.KeyR),
		FillSphere:      inpututil.IsKeyJustPressed(ebiten.KeyB),
		FillCube:        inpututil.IsKeyJustPressed(ebiten.KeyC),
	}
	axis := func(neg, pos ebiten.Key) float32 {
		var a float32
		if ebiten.IsKeyPressed(neg) {
			a--
		}
		if ebiten.IsKeyPressed(pos) {
			a++
		}
		return a
	}
	in.Nudge = mgl32.Vec3{
		axis(ebiten.KeyArrowLeft, ebiten.KeyArrowRight),
		axis(ebiten.KeyArrowDown, ebiten.KeyArrowUp),
		axis(ebiten.KeyPageUp, ebiten.KeyPageDown),
	}.Mul(NudgeStep)
	in.Turn = mgl32.Vec3{0, axis(ebiten.KeyQ, ebiten.KeyE) * TurnStep, 0}
	return in
}

// Selected returns the entity the inspector edits.
func (v *Viewer) Selected() ecs.EntityID { return v.selected }

func (v *Viewer) inspect(in InspectInput, dt float32) {
	e := v.engine
	n := ecs.EntityID(e.Store().Capacity())
	switch {
	case in.SelectNext:
		v.selected = (v.selected + 1) % n
	case in.SelectPrev:
		v.selected = (v.selected + n - 1) % n
	}
	id := v.selected

	for _, tg := range []struct {
		on   bool
		kind ecs.Kind
	}{
		{in.ToggleTransform, ecs.KindTransform},
		{in.ToggleMesh, ecs.KindMesh},
		{in.ToggleVolume, ecs.KindVolume},
	} {
		if tg.on {
			_ = e.SetValid(id, tg.kind, !e.IsValid(id, tg.kind))
		}
	}

	var err error
	switch {
	case in.FillRandom:
		err = e.FillRandom(id)
	case in.FillSphere:
		err = e.FillSphere(id)
	case in.FillCube:
		err = e.FillWireframeCube(id)
	}
	if err != nil {
		voxscene.Logger().Warn("viewer: regenerate volume", "entity", id, "err", err)
	}

	if in.Nudge == (mgl32.Vec3{}) && in.Turn == (mgl32.Vec3{}) {
		return
	}
	if t, err := e.Transform(id); err == nil {
		t.Position = t.Position.Add(in.Nudge.Mul(dt))
		t.Rotation = t.Rotation.Add(in.Turn.Mul(dt))
	}
}

func (v *Viewer) inspectText() string {
	e, id := v.engine, v.selected
	flag := func(k ecs.Kind) string {
		if e.IsValid(id, k) {
			return k.String()
		}
		return "-"
	}
	s := fmt.Sprintf("entity %d [%s %s %s]", id,
		flag(ecs.KindTransform), flag(ecs.KindMesh), flag(ecs.KindVolume))
	if t, err := e.Transform(id); err == nil {
		s += fmt.Sprintf(" pos (%.2f, %.2f, %.2f) rot (%.0f, %.0f, %.0f)",
			t.Position[0], t.Position[1], t.Position[2],
			t.Rotation[0], t.Rotation[1], t.Rotation[2])
	}
	return s
}
