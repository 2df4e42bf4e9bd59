package gamedata

import (
	"strings"

	"github.com/samdwyer/dungeoncrawler/internal/combat"
)

// DefaultClassID is used when a requested class is unknown.
const DefaultClassID = "fighter"

// ClassDef defines a playable class loaded from JSON.
type ClassDef struct {
	ID      string `json:"id"`      // Unique identifier (e.g., "knight")
	Name    string `json:"name"`    // Display name (e.g., "Knight")
	HP      int    `json:"hp"`      // Base hit points
	Attack  int    `json:"attack"`  // Base attack power
	Speed   int    `json:"speed"`   // Movement speed on the dungeon map
	Defense int    `json:"defense"` // Base defense value
}

// ToUnit returns a full-health battle unit with the class stats.
func (c *ClassDef) ToUnit() *combat.Unit {
	return combat.NewUnit(c.Name, c.HP, c.Attack, c.Defense)
}

// ClassesFile represents the structure of classes.json.
type ClassesFile struct {
	Classes []ClassDef `json:"classes"`
}

// LoadClasses loads class definitions from the embedded classes.json file.
func LoadClasses() ([]ClassDef, error) {
	file, err := Load[ClassesFile]("classes.json")
	if err != nil {
		return nil, err
	}
	return file.Classes, nil
}

// ClassRegistry looks up playable classes by id or display name.
type ClassRegistry struct {
	classes []ClassDef
	index   map[string]int
}

// NewClassRegistry creates a registry from loaded class definitions.
func NewClassRegistry(classes []ClassDef) *ClassRegistry {
	r := &ClassRegistry{
		classes: classes,
		index:   make(map[string]int, len(classes)*2),
	}
	for i, c := range classes {
		r.index[normalize(c.ID)] = i
		r.index[normalize(c.Name)] = i
	}
	return r
}

// LoadClassRegistry loads and creates a registry from the embedded classes.json.
func LoadClassRegistry() (*ClassRegistry, error) {
	classes, err := LoadClasses()
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, errEmpty("classes.json")
	}
	return NewClassRegistry(classes), nil
}

// MustLoadClassRegistry loads a registry, panicking on error.
func MustLoadClassRegistry() *ClassRegistry {
	registry, err := LoadClassRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// Get returns the class with the given id or name, case-insensitively.
func (r *ClassRegistry) Get(name string) (*ClassDef, bool) {
	i, ok := r.index[normalize(name)]
	if !ok {
		return nil, false
	}
	return &r.classes[i], true
}

// Resolve returns the named class, falling back to the default class
// (or the first one loaded) when the name is unknown.
func (r *ClassRegistry) Resolve(name string) *ClassDef {
	if c, ok := r.Get(name); ok {
		return c
	}
	if c, ok := r.Get(DefaultClassID); ok {
		return c
	}
	return &r.classes[0]
}

// All returns all class definitions in catalog order.
func (r *ClassRegistry) All() []ClassDef {
	return r.classes
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
