// Package combat provides the turn-based battle engine.
package combat

// =============================================================================
// BATTLE RULES
// =============================================================================
//
// Damage:
//   roll   = max(attackPower + uniform[-spread, spread], minDamage)
//   actual = max(roll - reduction, 0)
//   reduction = defense, or defense*2 while the defender is defending
//
// Turn order:
//   The player acts once, then every living enemy attacks in roster order.
//   Defending lasts for the whole enemy turn that follows.
//
// Flee:
//   A uniform draw from [0, 100) above the threshold escapes.

const (
	DefaultHealAmount    = 30
	DefaultFleeThreshold = 50
	DefaultDamageSpread  = 5
	DefaultMinDamage     = 1
)

// Rand is the random source used by the engine. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Rules holds the tunable battle constants.
type Rules struct {
	HealAmount    int // Health restored by UseItem
	FleeThreshold int // Flee succeeds when the [0,100) draw exceeds this
	DamageSpread  int // Half-width of the uniform attack roll
	MinDamage     int // Floor on the raw roll before defense
}

// DefaultRules returns the stock battle constants.
func DefaultRules() Rules {
	return Rules{
		HealAmount:    DefaultHealAmount,
		FleeThreshold: DefaultFleeThreshold,
		DamageSpread:  DefaultDamageSpread,
		MinDamage:     DefaultMinDamage,
	}
}

// RollDamage draws a raw attack value for the given attack power.
func (r Rules) RollDamage(rng Rand, attackPower int) int {
	damage := attackPower
	if r.DamageSpread > 0 {
		damage += rng.Intn(2*r.DamageSpread+1) - r.DamageSpread
	}
	return max(damage, r.MinDamage)
}

// FleeSucceeds draws one escape attempt.
func (r Rules) FleeSucceeds(rng Rand) bool {
	return rng.Float64()*100 > float64(r.FleeThreshold)
}

// Mitigate applies a defender's damage reduction to a raw roll.
func Mitigate(damage, defense int, defending bool) int {
	reduction := defense
	if defending {
		reduction *= 2
	}
	return max(damage-reduction, 0)
}
