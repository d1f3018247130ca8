package cards

// File is the top level of a catalog document.
type File struct {
	Cards []CardSpec `yaml:"cards"`
}

// CardSpec is one card as written in YAML.
type CardSpec struct {
	Name       string   `yaml:"name"`
	Cost       string   `yaml:"cost"`
	Types      []string `yaml:"types"`
	Subtypes   []string `yaml:"subtypes"`
	Supertypes []string `yaml:"supertypes"`
	Colors     []string `yaml:"colors"`
	Power      int      `yaml:"power"`
	Toughness  int      `yaml:"toughness"`
	Loyalty    int      `yaml:"loyalty"`
	Keywords   []string `yaml:"keywords"`

	Target    *TargetSpec             `yaml:"target"`
	Effects   map[string][]EffectSpec `yaml:"effects"`
	Statics   []StaticSpec            `yaml:"statics"`
	Abilities []AbilitySpec           `yaml:"abilities"`
}

// TargetSpec describes what a spell or ability targets.
type TargetSpec struct {
	Type        string `yaml:"type"`
	Predicate   string `yaml:"predicate"`
	Min         *int   `yaml:"min"`
	Max         *int   `yaml:"max"`
	Description string `yaml:"description"`
}

// AbilitySpec is an activated, mana or loyalty ability.
type AbilitySpec struct {
	Kind         string       `yaml:"kind"`
	Description  string       `yaml:"description"`
	Cost         string       `yaml:"cost"`
	Tap          bool         `yaml:"tap"`
	Sacrifice    bool         `yaml:"sacrifice"`
	Loyalty      int          `yaml:"loyalty"`
	SorcerySpeed bool         `yaml:"sorcery_speed"`
	Target       *TargetSpec  `yaml:"target"`
	Effects      []EffectSpec `yaml:"effects"`
}

// ScopeSpec selects the permanents a static effect reaches.
type ScopeSpec struct {
	Kind        string `yaml:"kind"`
	Predicate   string `yaml:"predicate"`
	ChosenColor bool   `yaml:"chosen_color"`
}

// StaticSpec is a continuous effect printed on a card.
type StaticSpec struct {
	Type      string    `yaml:"type"`
	Scope     ScopeSpec `yaml:"scope"`
	Power     int       `yaml:"power"`
	Toughness int       `yaml:"toughness"`
	Keywords  []string  `yaml:"keywords"`
	Subtypes  []string  `yaml:"subtypes"`
	Count     string    `yaml:"count"`
}

// TokenSpec describes a token an effect creates.
type TokenSpec struct {
	Name      string   `yaml:"name"`
	Power     int      `yaml:"power"`
	Toughness int      `yaml:"toughness"`
	Colors    []string `yaml:"colors"`
	Subtypes  []string `yaml:"subtypes"`
	Keywords  []string `yaml:"keywords"`
}

// EffectSpec is one effect. Which fields matter depends on Type.
type EffectSpec struct {
	Type string `yaml:"type"`

	Target   int   `yaml:"target"`
	Self     bool  `yaml:"self"`
	Amount   int   `yaml:"amount"`
	Amounts  []int `yaml:"amounts"`
	Count    int   `yaml:"count"`
	Max      int   `yaml:"max"`
	UseX     bool  `yaml:"use_x"`
	Opponent bool  `yaml:"opponent"`

	Power     int      `yaml:"power"`
	Toughness int      `yaml:"toughness"`
	Keywords  []string `yaml:"keywords"`
	Subtypes  []string `yaml:"subtypes"`
	Counter   string   `yaml:"counter"`
	Colors    []string `yaml:"colors"`

	Prompt  string       `yaml:"prompt"`
	Effects []EffectSpec `yaml:"effects"`

	Predicate   string `yaml:"predicate"`
	Destination string `yaml:"destination"`
	Tapped      bool   `yaml:"tapped"`
	Shuffle     bool   `yaml:"shuffle"`
	ToBottom    bool   `yaml:"to_bottom"`

	UntilEndOfTurn bool `yaml:"until_end_of_turn"`

	Token *TokenSpec `yaml:"token"`
}
