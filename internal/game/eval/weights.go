package eval

// Weights tune the state evaluator. Per-stack weights multiply power amounts.
type Weights struct {
	Kill              float64 `mapstructure:"kill"`
	Strength          float64 `mapstructure:"strength"`
	Dexterity         float64 `mapstructure:"dexterity"`
	PlayerVulnerable  float64 `mapstructure:"player_vulnerable"`
	PlayerWeak        float64 `mapstructure:"player_weak"`
	PlayerFrail       float64 `mapstructure:"player_frail"`
	MonsterStrength   float64 `mapstructure:"monster_strength"`
	MonsterWeak       float64 `mapstructure:"monster_weak"`
	MonsterVulnerable float64 `mapstructure:"monster_vulnerable"`
	DamageDealt       float64 `mapstructure:"damage_dealt"`
	HP                float64 `mapstructure:"hp"`
	CardsDrawn        float64 `mapstructure:"cards_drawn"`

	// Incoming is applied per point of forecast damage above IncomingThreshold.
	Incoming          float64 `mapstructure:"incoming"`
	IncomingThreshold int     `mapstructure:"incoming_threshold"`
	// OverBlock is applied per point of block beyond OverBlockAllowance.
	OverBlock          float64 `mapstructure:"over_block"`
	OverBlockAllowance int     `mapstructure:"over_block_allowance"`

	PunishedSkill     float64 `mapstructure:"punished_skill"`
	ExhaustedJunk     float64 `mapstructure:"exhausted_junk"`
	ExhaustedValuable float64 `mapstructure:"exhausted_valuable"`
	JunkInDeck        float64 `mapstructure:"junk_in_deck"`

	KillRewardCards   []string `mapstructure:"kill_reward_cards"`
	KillRewardBonus   float64  `mapstructure:"kill_reward_bonus"`
	KillRewardPenalty float64  `mapstructure:"kill_reward_penalty"`

	EnginePowers         []string `mapstructure:"engine_powers"`
	EnginePower          float64  `mapstructure:"engine_power"`
	HighStakesMultiplier float64  `mapstructure:"high_stakes_multiplier"`
}

// DefaultWeights favours killing, scaling and keeping HP, in that order.
// Each call returns fresh slices.
func DefaultWeights() Weights {
	return Weights{
		Kill:              700,
		Strength:          600,
		Dexterity:         200,
		PlayerVulnerable:  -500,
		PlayerWeak:        -300,
		PlayerFrail:       -200,
		MonsterStrength:   -150,
		MonsterWeak:       225,
		MonsterVulnerable: 450,
		DamageDealt:       4,
		HP:                50,
		CardsDrawn:        20,

		Incoming:           -3,
		IncomingThreshold:  2,
		OverBlock:          -2,
		OverBlockAllowance: 10,

		PunishedSkill:     -2000,
		ExhaustedJunk:     10,
		ExhaustedValuable: -30,
		JunkInDeck:        -40,

		KillRewardCards:   []string{"Feed", "Feed+"},
		KillRewardBonus:   10000,
		KillRewardPenalty: -6000,

		EnginePowers: []string{
			"Demon Form", "Corruption", "Juggernaut", "Dark Embrace",
			"Feel No Pain", "Barricade", "Rupture",
		},
		EnginePower:          500,
		HighStakesMultiplier: 2,
	}
}
