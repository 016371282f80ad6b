package main

import "go.uber.org/zap"

// ClassType identifies a player class
type ClassType string

const (
	ClassNinja    ClassType = "ninja"
	ClassWizard   ClassType = "wizard"
	ClassWarrior  ClassType = "warrior"
	ClassAxeAI    ClassType = "axeai"
	ClassArcherAI ClassType = "archerai"
)

// ClassDef holds the starting kit for a class
type ClassDef struct {
	Weapon   Weapon
	Loadout  [SlotCount]AbilityName
	IsBot    bool
	MaxSpeed float64 // sideways momentum cap
}

var classDefs = map[ClassType]ClassDef{
	ClassNinja: {
		Weapon:   WeaponDagger,
		Loadout:  [SlotCount]AbilityName{AbilityBasicAttack, AbilityShurikenToss, AbilityStealth, AbilityDash, AbilityChains},
		MaxSpeed: 520,
	},
	ClassWizard: {
		Weapon:   WeaponStaff,
		Loadout:  [SlotCount]AbilityName{AbilityBasicAttack, AbilityFireball, AbilityIceBolt, AbilityFirestrike, AbilityBlizzard},
		MaxSpeed: 440,
	},
	ClassWarrior: {
		Weapon:   WeaponSword,
		Loadout:  [SlotCount]AbilityName{AbilityBasicAttack, AbilityCharge, AbilityShield, AbilityAxeThrow, AbilityHealingAura},
		MaxSpeed: 460,
	},
	ClassAxeAI: {
		Weapon:   WeaponAxe,
		Loadout:  [SlotCount]AbilityName{AbilityBasicAttack, AbilityAxeThrow, AbilityCharge, AbilityNone, AbilityNone},
		IsBot:    true,
		MaxSpeed: 380,
	},
	ClassArcherAI: {
		Weapon:   WeaponBow,
		Loadout:  [SlotCount]AbilityName{AbilityBasicAttack, AbilityVolley, AbilityPoisonArrow, AbilityNone, AbilityNone},
		IsBot:    true,
		MaxSpeed: 400,
	},
}

// ClassTable maps each class to its definition for one game session
type ClassTable map[ClassType]ClassDef

// NewClassTable copies the built-in classes and applies configured loadout
// overrides. Unknown ability names become AbilityNone so a typo in config
// cannot stop the server.
func NewClassTable(overrides map[string][]string, log *zap.Logger) ClassTable {
	t := make(ClassTable, len(classDefs))
	for k, v := range classDefs {
		t[k] = v
	}
	for class, names := range overrides {
		def, ok := t[ClassType(class)]
		if !ok {
			log.Warn("loadout for unknown class", zap.String("class", class))
			continue
		}
		for slot := 0; slot < int(SlotCount) && slot < len(names); slot++ {
			name, known := ParseAbilityName(names[slot])
			if !known {
				log.Warn("unknown ability in loadout, using none",
					zap.String("class", class), zap.Int("slot", slot), zap.String("ability", names[slot]))
			}
			def.Loadout[slot] = name
		}
		t[ClassType(class)] = def
	}
	return t
}

// Get returns the definition for a class, falling back to ninja
func (t ClassTable) Get(class ClassType) (ClassDef, bool) {
	def, ok := t[class]
	if !ok {
		return t[ClassNinja], false
	}
	return def, true
}
