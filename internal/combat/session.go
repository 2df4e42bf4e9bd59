package combat

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/dungeoncrawler/internal/telemetry"
)

const logLines = 5

// Session is one encounter from start to Victory, Defeat or Fled.
//
// Player actions are only accepted in StatePlayerTurn. Each one either ends
// the encounter or hands over to StateEnemyTurn, which the caller advances
// with NextEnemyStep (one enemy attack per call) so it can pace the
// presentation between attacks.
type Session struct {
	id      string
	engine  *Engine
	state   State
	player  *Unit
	enemies []*Unit // Living enemies in turn order
	roster  int     // Enemies at the start of the encounter
	target  int     // Index into enemies
	cursor  int     // Next enemy to act during the enemy turn
	turn    int     // Player actions taken
	log     []string
	outcome *Outcome
}

// ID returns the unique encounter identifier.
func (s *Session) ID() string { return s.id }

// State returns the current phase.
func (s *Session) State() State { return s.state }

// Turn returns the number of player actions resolved so far.
func (s *Session) Turn() int { return s.turn }

// Target returns the index of the currently selected enemy.
func (s *Session) Target() int { return s.target }

// RosterSize returns the number of enemies the encounter started with.
func (s *Session) RosterSize() int { return s.roster }

// Player returns a snapshot of the player unit.
func (s *Session) Player() Unit { return *s.player }

// Enemies returns snapshots of the living enemies in turn order.
func (s *Session) Enemies() []Unit {
	out := make([]Unit, len(s.enemies))
	for i, e := range s.enemies {
		out[i] = *e
	}
	return out
}

// Log returns the most recent battle messages, newest first.
func (s *Session) Log() []string {
	return append([]string(nil), s.log...)
}

// Outcome returns the final result once the encounter is over.
func (s *Session) Outcome() (Outcome, bool) {
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// Attack strikes the enemy at targetIndex.
func (s *Session) Attack(ctx context.Context, targetIndex int) (ActionResult, error) {
	if err := s.require(StatePlayerTurn, "attack"); err != nil {
		return ActionResult{}, err
	}
	if targetIndex < 0 || targetIndex >= len(s.enemies) {
		return ActionResult{}, fmt.Errorf("%w: index %d with %d enemies", ErrInvalidTarget, targetIndex, len(s.enemies))
	}

	ctx, span := s.startAction(ctx, "attack")
	defer span.End()

	s.state = StateResolvingPlayerAction
	s.turn++
	s.target = targetIndex

	target := s.enemies[targetIndex]
	raw := s.engine.rules.RollDamage(s.engine.rng, s.player.AttackPower)
	damage := target.TakeDamage(raw)

	res := ActionResult{
		Actor:   s.player.Name,
		Damage:  damage,
		Message: fmt.Sprintf("You dealt %d damage to %s!", damage, target.Name),
	}
	s.addLog(res.Message)
	span.SetAttributes(attribute.String("target", target.Name), attribute.Int("damage", damage))

	if target.IsDead() {
		s.enemies = append(s.enemies[:targetIndex], s.enemies[targetIndex+1:]...)
		s.addLog(fmt.Sprintf("%s defeated!", target.Name))
		span.SetAttributes(attribute.Bool("target_defeated", true))

		if len(s.enemies) == 0 {
			s.finish(ctx, ResultVictory, "Victory!")
			return s.result(res), nil
		}
		s.target = 0
	}

	s.beginEnemyTurn()
	return s.result(res), nil
}

// Defend braces the player for every attack of the upcoming enemy turn.
func (s *Session) Defend(ctx context.Context) (ActionResult, error) {
	if err := s.require(StatePlayerTurn, "defend"); err != nil {
		return ActionResult{}, err
	}

	ctx, span := s.startAction(ctx, "defend")
	defer span.End()

	s.state = StateResolvingPlayerAction
	s.turn++
	s.player.defending = true

	res := ActionResult{Actor: s.player.Name, Message: "You brace for impact!"}
	s.addLog(res.Message)

	s.beginEnemyTurn()
	return s.result(res), nil
}

// UseItem heals the player by the fixed item amount.
func (s *Session) UseItem(ctx context.Context) (ActionResult, error) {
	if err := s.require(StatePlayerTurn, "use item"); err != nil {
		return ActionResult{}, err
	}

	ctx, span := s.startAction(ctx, "use_item")
	defer span.End()

	s.state = StateResolvingPlayerAction
	s.turn++
	healed := s.player.Heal(s.engine.rules.HealAmount)

	res := ActionResult{
		Actor:   s.player.Name,
		Healed:  healed,
		Message: fmt.Sprintf("You healed %d HP!", healed),
	}
	s.addLog(res.Message)
	span.SetAttributes(attribute.Int("healed", healed))

	s.beginEnemyTurn()
	return s.result(res), nil
}

// Flee tries to escape. A failed attempt still costs the player's turn.
func (s *Session) Flee(ctx context.Context) (ActionResult, error) {
	if err := s.require(StatePlayerTurn, "flee"); err != nil {
		return ActionResult{}, err
	}

	ctx, span := s.startAction(ctx, "flee")
	defer span.End()

	s.state = StateResolvingPlayerAction
	s.turn++
	res := ActionResult{Actor: s.player.Name}

	if s.engine.rules.FleeSucceeds(s.engine.rng) {
		res.Message = "You escaped!"
		s.addLog(res.Message)
		span.SetAttributes(attribute.Bool("escaped", true))
		s.finish(ctx, ResultFled, "")
		return s.result(res), nil
	}

	res.Message = "Can't escape!"
	s.addLog(res.Message)
	span.SetAttributes(attribute.Bool("escaped", false))
	s.beginEnemyTurn()
	return s.result(res), nil
}

// NextEnemyStep lets the next living enemy attack the player.
//
// After the last enemy acts the player's defend stance is cleared and the
// turn returns to the player. A defeat stops the enemy turn immediately.
func (s *Session) NextEnemyStep(ctx context.Context) (ActionResult, error) {
	if err := s.require(StateEnemyTurn, "enemy step"); err != nil {
		return ActionResult{}, err
	}

	tracer := telemetry.Tracer("combat")
	ctx, span := tracer.Start(ctx, "battle.enemy_step")
	defer span.End()

	s.state = StateResolvingEnemyTurn
	enemy := s.enemies[s.cursor]
	s.cursor++

	raw := s.engine.rules.RollDamage(s.engine.rng, enemy.AttackPower)
	damage := s.player.TakeDamage(raw)

	res := ActionResult{
		Actor:   enemy.Name,
		Damage:  damage,
		Message: fmt.Sprintf("%s dealt %d damage!", enemy.Name, damage),
	}
	s.addLog(res.Message)
	span.SetAttributes(
		attribute.String("battle.id", s.id),
		attribute.String("actor", enemy.Name),
		attribute.Int("damage", damage),
		attribute.Bool("player_defending", s.player.defending),
		attribute.Int("player_hp", s.player.Health),
	)

	switch {
	case s.player.IsDead():
		s.finish(ctx, ResultDefeat, "You were defeated!")
	case s.cursor >= len(s.enemies):
		s.player.defending = false
		s.state = StatePlayerTurn
	default:
		s.state = StateEnemyTurn
	}
	return s.result(res), nil
}

// RunEnemyTurn resolves every remaining enemy step without pausing.
func (s *Session) RunEnemyTurn(ctx context.Context) ([]ActionResult, error) {
	if err := s.require(StateEnemyTurn, "enemy turn"); err != nil {
		return nil, err
	}
	var steps []ActionResult
	for s.state == StateEnemyTurn {
		res, err := s.NextEnemyStep(ctx)
		if err != nil {
			return steps, err
		}
		steps = append(steps, res)
	}
	return steps, nil
}

func (s *Session) require(want State, action string) error {
	if s.state != want {
		return fmt.Errorf("%w: cannot %s during %s", ErrInvalidState, action, s.state)
	}
	return nil
}

func (s *Session) beginEnemyTurn() {
	s.cursor = 0
	s.state = StateEnemyTurn
}

func (s *Session) finish(ctx context.Context, result Result, message string) {
	if message != "" {
		s.addLog(message)
	}
	switch result {
	case ResultVictory:
		s.state = StateVictory
	case ResultDefeat:
		s.state = StateDefeat
	case ResultFled:
		s.state = StateFled
	}
	s.player.defending = false
	s.outcome = &Outcome{Result: result, PlayerHealth: s.player.Health}

	tracer := telemetry.Tracer("combat")
	_, span := tracer.Start(ctx, "battle.end")
	span.SetAttributes(
		attribute.String("battle.id", s.id),
		attribute.String("outcome", result.String()),
		attribute.Int("turns_taken", s.turn),
		attribute.Int("player_hp_remaining", s.player.Health),
		attribute.Int("enemies_remaining", len(s.enemies)),
	)
	span.End()

	s.engine.logger.Info("battle over", "battle", s.id, "outcome", result, "turns", s.turn, "hp", s.player.Health)
}

func (s *Session) startAction(ctx context.Context, action string) (context.Context, trace.Span) {
	tracer := telemetry.Tracer("combat")
	ctx, span := tracer.Start(ctx, "battle.action")
	span.SetAttributes(
		attribute.String("battle.id", s.id),
		attribute.String("action", action),
		attribute.Int("turn", s.turn+1),
	)
	return ctx, span
}

func (s *Session) result(res ActionResult) ActionResult {
	res.State = s.state
	if s.outcome != nil {
		o := *s.outcome
		res.Outcome = &o
	}
	return res
}

// addLog keeps the latest messages, newest first.
func (s *Session) addLog(message string) {
	s.log = append([]string{message}, s.log...)
	if len(s.log) > logLines {
		s.log = s.log[:logLines]
	}
	s.engine.logger.Debug(message, "battle", s.id)
}
