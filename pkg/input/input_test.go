package input

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestDefaultBindingsAreComplete(t *testing.T) {
	if err := DefaultBindings().Validate(); err != nil {
		t.Errorf("DefaultBindings().Validate() error: %v", err)
	}
}

func TestBindingsValidate(t *testing.T) {
	missing := DefaultBindings()
	delete(missing, ActionMoveUp)
	if err := missing.Validate(); err == nil {
		t.Error("Validate() should reject a missing binding")
	}

	unknown := DefaultBindings()
	unknown[Action("fly")] = ebiten.KeyF
	if err := unknown.Validate(); err == nil {
		t.Error("Validate() should reject an unknown action")
	}
}

func TestStaticSource(t *testing.T) {
	var nilMaps StaticSource
	if nilMaps.IsDown(ActionMoveLeft) || nilMaps.IsJustPressed(ActionMoveUp) {
		t.Error("empty StaticSource should report nothing pressed")
	}

	s := &StaticSource{
		Down:        map[Action]bool{ActionMoveLeft: true},
		JustPressed: map[Action]bool{ActionMoveUp: true},
	}
	if !s.IsDown(ActionMoveLeft) || s.IsDown(ActionMoveRight) {
		t.Error("IsDown() mismatch")
	}
	if !s.IsJustPressed(ActionMoveUp) || s.IsJustPressed(ActionQuit) {
		t.Error("IsJustPressed() mismatch")
	}
}
