package combat

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeoncrawler/internal/telemetry"
)

var (
	// ErrConfiguration is returned when an encounter cannot be set up.
	ErrConfiguration = errors.New("combat: invalid configuration")
	// ErrInvalidState is returned for actions outside the phase that allows them.
	ErrInvalidState = errors.New("combat: invalid state")
	// ErrInvalidTarget is returned for a target index outside the active enemy list.
	ErrInvalidTarget = errors.New("combat: invalid target")
	// ErrEncounterActive is returned when starting a battle while another is unresolved.
	ErrEncounterActive = errors.New("combat: encounter already active")
)

// Setup is the roster an encounter starts from. Enemy order is turn order
// and target order.
type Setup struct {
	Player  *Unit
	Enemies []*Unit
}

// Engine starts encounters and owns at most one unresolved session.
type Engine struct {
	rng    Rand
	rules  Rules
	logger *log.Logger
	active *Session
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules overrides the battle constants. The zero Rules keeps the defaults.
func WithRules(rules Rules) Option {
	return func(e *Engine) {
		if rules != (Rules{}) {
			e.rules = rules
		}
	}
}

// WithLogger sets the logger used for the battle log.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a battle engine drawing from rng.
// A nil rng is replaced by a time-seeded source.
func NewEngine(rng Rand, opts ...Option) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		rng:    rng,
		rules:  DefaultRules(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Active returns the unresolved session, or nil.
func (e *Engine) Active() *Session {
	if e.active != nil && e.active.state.IsTerminal() {
		return nil
	}
	return e.active
}

// Start validates the setup and opens a new encounter in the player's turn.
// Units are copied: the session owns its roster exclusively.
func (e *Engine) Start(ctx context.Context, setup Setup) (*Session, error) {
	if e.Active() != nil {
		return nil, fmt.Errorf("%w: session %s is in %s", ErrEncounterActive, e.active.id, e.active.state)
	}
	if err := setup.Player.validate("player"); err != nil {
		return nil, err
	}
	if len(setup.Enemies) == 0 {
		return nil, fmt.Errorf("%w: empty enemy roster", ErrConfiguration)
	}
	for _, enemy := range setup.Enemies {
		if err := enemy.validate("enemy"); err != nil {
			return nil, err
		}
	}

	tracer := telemetry.Tracer("combat")
	_, span := tracer.Start(ctx, "battle.start")
	defer span.End()

	s := &Session{
		id:     uuid.NewString(),
		engine: e,
		state:  StateSetup,
		player: setup.Player.clone(),
	}
	s.enemies = make([]*Unit, 0, len(setup.Enemies))
	for _, enemy := range setup.Enemies {
		s.enemies = append(s.enemies, enemy.clone())
	}
	s.roster = len(s.enemies)

	span.SetAttributes(
		attribute.String("battle.id", s.id),
		attribute.String("player", s.player.Name),
		attribute.Int("player_hp", s.player.Health),
		attribute.Int("enemy_count", len(s.enemies)),
	)

	e.active = s
	s.state = StatePlayerTurn
	s.addLog("Battle Start!")
	return s, nil
}
