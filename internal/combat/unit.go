package combat

import "fmt"

// Unit is the stat and health record of one battle participant.
//
// Health stays within [0, MaxHealth] across every mutation.
type Unit struct {
	Name        string
	MaxHealth   int
	Health      int
	AttackPower int
	Defense     int

	defending bool
}

// NewUnit creates a unit at full health.
func NewUnit(name string, maxHealth, attackPower, defense int) *Unit {
	return &Unit{
		Name:        name,
		MaxHealth:   maxHealth,
		Health:      maxHealth,
		AttackPower: attackPower,
		Defense:     defense,
	}
}

// IsDefending reports whether the unit is bracing for incoming attacks.
func (u Unit) IsDefending() bool { return u.defending }

// IsDead returns true once health reaches zero.
func (u Unit) IsDead() bool { return u.Health <= 0 }

// TakeDamage applies a raw damage roll after defense and returns the health lost.
func (u *Unit) TakeDamage(raw int) int {
	actual := Mitigate(raw, u.Defense, u.defending)
	if actual > u.Health {
		actual = u.Health
	}
	u.Health -= actual
	return actual
}

// Heal restores health up to MaxHealth and returns the amount restored.
func (u *Unit) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if u.Health+actual > u.MaxHealth {
		actual = u.MaxHealth - u.Health
	}
	u.Health += actual
	return actual
}

func (u *Unit) validate(role string) error {
	switch {
	case u == nil:
		return fmt.Errorf("%w: missing %s unit", ErrConfiguration, role)
	case u.MaxHealth <= 0:
		return fmt.Errorf("%w: %s %q has max health %d", ErrConfiguration, role, u.Name, u.MaxHealth)
	case u.Health <= 0:
		return fmt.Errorf("%w: %s %q is already defeated", ErrConfiguration, role, u.Name)
	case u.AttackPower < 0 || u.Defense < 0:
		return fmt.Errorf("%w: %s %q has negative stats", ErrConfiguration, role, u.Name)
	}
	return nil
}

// clone copies the unit for exclusive use by an encounter.
func (u *Unit) clone() *Unit {
	c := *u
	c.Health = min(max(c.Health, 0), c.MaxHealth)
	c.defending = false
	return &c
}
