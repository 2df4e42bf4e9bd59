package combat

import (
	"errors"
	"testing"
)

func TestTakeDamageClampsAtZero(t *testing.T) {
	u := NewUnit("Slime", 30, 10, 0)

	lost := u.TakeDamage(50)
	if lost != 30 {
		t.Errorf("Expected 30 health lost, got %d", lost)
	}
	if u.Health != 0 {
		t.Errorf("Expected health 0, got %d", u.Health)
	}
	if !u.IsDead() {
		t.Error("Unit at zero health should be dead")
	}
}

func TestTakeDamageRespectsDefending(t *testing.T) {
	u := NewUnit("Knight", 120, 18, 8)
	u.defending = true

	if lost := u.TakeDamage(20); lost != 4 {
		t.Errorf("Expected 4 damage through a defending guard, got %d", lost)
	}
	if lost := u.TakeDamage(10); lost != 0 {
		t.Errorf("Expected a fully absorbed hit, got %d", lost)
	}
	if u.Health != 116 {
		t.Errorf("Expected health 116, got %d", u.Health)
	}
}

func TestHealCapsAtMax(t *testing.T) {
	u := NewUnit("Fighter", 100, 15, 5)
	u.Health = 85

	if healed := u.Heal(30); healed != 15 {
		t.Errorf("Expected 15 healed, got %d", healed)
	}
	if u.Health != 100 {
		t.Errorf("Expected health 100, got %d", u.Health)
	}
	if healed := u.Heal(-5); healed != 0 {
		t.Errorf("Expected negative heal to do nothing, got %d", healed)
	}
}

func TestUnitValidate(t *testing.T) {
	dead := NewUnit("Ghost", 10, 1, 1)
	dead.Health = 0

	tests := []struct {
		name string
		unit *Unit
	}{
		{"nil", nil},
		{"no max health", NewUnit("Empty", 0, 1, 1)},
		{"already dead", dead},
		{"negative attack", NewUnit("Odd", 10, -1, 0)},
		{"negative defense", NewUnit("Odd", 10, 1, -2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.unit.validate("enemy"); !errors.Is(err, ErrConfiguration) {
				t.Errorf("Expected ErrConfiguration, got %v", err)
			}
		})
	}

	if err := NewUnit("Slime", 30, 10, 0).validate("enemy"); err != nil {
		t.Errorf("Expected valid unit, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	u := NewUnit("Thief", 80, 20, 3)
	u.defending = true

	c := u.clone()
	c.TakeDamage(10)

	if u.Health != 80 {
		t.Errorf("Original should be untouched, health %d", u.Health)
	}
	if c.IsDefending() {
		t.Error("Clone should not inherit the defend stance")
	}
}
