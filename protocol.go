package main

// Client -> Server message types
const (
	MsgAction  = "action"
	MsgAbility = "ability"
	MsgFocus   = "focus"
)

// Server -> Client message types
const (
	MsgJoin          = "join"
	MsgPlayerInfo    = "playerInfo"
	MsgPlayerLeaving = "playerLeaving"
	MsgInfo          = "info"
	MsgError         = "error"
)

// Action types carried by MsgAction
const (
	ActionJump      = "jump"
	ActionMoveLeft  = "moveLeft"
	ActionMoveRight = "moveRight"
	ActionBlast     = "blast"
	ActionArrow     = "arrow"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ClientMessage is every message a client sends over the socket. Which
// fields matter depends on Type.
type ClientMessage struct {
	Type       string    `json:"type"`
	ActionType string    `json:"actionType,omitempty"`
	ID         EntityID  `json:"id,omitempty"`
	Slot       SlotIndex `json:"slot,omitempty"`
	Charging   bool      `json:"charging,omitempty"`
	X          float64   `json:"x,omitempty"`
	Y          float64   `json:"y,omitempty"`
}

// JoinRequest is the body of POST /join
type JoinRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	ClassType string `json:"classType"`
	Team      int    `json:"team"`
}

// JoinResponse answers a successful join
type JoinResponse struct {
	ID     EntityID    `json:"id"`
	Token  string      `json:"token"`
	Config ArenaConfig `json:"config"`
	Info   AllInfo     `json:"info"`
}

// AbilityState is the wire form of an AbilitySlot
type AbilityState struct {
	AbilityName  AbilityName `json:"abilityName"`
	Cooldown     float64     `json:"cooldown"`
	ChargeAmount float64     `json:"chargeAmount"`
	IsCharging   bool        `json:"isCharging"`
}

// PlayerState is the wire form of a Player
type PlayerState struct {
	ID                EntityID       `json:"id"`
	Name              string         `json:"name"`
	Color             string         `json:"color"`
	ClassType         ClassType      `json:"classType"`
	Team              int            `json:"team"`
	Position          Vector         `json:"position"`
	Momentum          Vector         `json:"momentum"`
	Size              Size           `json:"size"`
	Health            float64        `json:"health"`
	IsDead            bool           `json:"isDead"`
	DeathCooldown     float64        `json:"deathCooldown"`
	Standing          bool           `json:"standing"`
	WasStanding       bool           `json:"wasStanding"`
	CanJump           bool           `json:"canJump"`
	AlreadyJumped     int            `json:"alreadyJumped"`
	WeaponEquipped    Weapon         `json:"weaponEquipped"`
	Abilities         []AbilityState `json:"abilities"`
	IsStealthed       bool           `json:"isStealthed"`
	IsShielded        bool           `json:"isShielded"`
	IsFrozen          float64        `json:"isFrozen"`
	MoveSpeedModifier float64        `json:"moveSpeedModifier"`
	LastHitBy         EntityID       `json:"lastHitBy"`
	KillCount         int            `json:"killCount"`
	DeathCount        int            `json:"deathCount"`
	Facing            bool           `json:"facing"`
	FocusPosition     Vector         `json:"focusPosition"`
}

// ProjectileState is the wire form of a Projectile
type ProjectileState struct {
	ID             EntityID       `json:"id"`
	ProjectileType ProjectileType `json:"projectileType"`
	DamageType     DamageType     `json:"damageType"`
	Damage         float64        `json:"damage"`
	OwnerID        EntityID       `json:"ownerId"`
	Team           int            `json:"team"`
	Position       Vector         `json:"position"`
	Momentum       Vector         `json:"momentum"`
	Size           Size           `json:"size"`
	FallSpeed      float64        `json:"fallSpeed"`
	Knockback      float64        `json:"knockback"`
	Range          float64        `json:"range"`
	Life           float64        `json:"life"`
	InGround       bool           `json:"inGround"`
	SlowFactor     float64        `json:"slowFactor"`
}

// TargetedProjectileState is the wire form of a TargetedProjectile
type TargetedProjectileState struct {
	ID           EntityID     `json:"id"`
	TargetedType TargetedType `json:"targetedProjectileType"`
	OwnerID      EntityID     `json:"ownerId"`
	Team         int          `json:"team"`
	Position     Vector       `json:"position"`
	Momentum     Vector       `json:"momentum"`
	Destination  Vector       `json:"destination"`
	IsDead       bool         `json:"isDead"`
	Life         float64      `json:"life"`
}

// ItemState is the wire form of an Item
type ItemState struct {
	ID       EntityID `json:"id"`
	ItemType ItemType `json:"itemType"`
	Position Vector   `json:"position"`
	Momentum Vector   `json:"momentum"`
	Size     Size     `json:"size"`
	Life     float64  `json:"life"`
}

// PlatformState is the wire form of a Platform
type PlatformState struct {
	Position Vector `json:"position"`
	Size     Size   `json:"size"`
}

// BasicAttackState is the wire form of a BasicAttack
type BasicAttackState struct {
	ID       EntityID `json:"id"`
	OwnerID  EntityID `json:"ownerId"`
	Weapon   Weapon   `json:"weapon"`
	Position Vector   `json:"position"`
	Angle    float64  `json:"angle"`
	Spread   float64  `json:"spread"`
	Range    float64  `json:"range"`
	Life     float64  `json:"life"`
}

// AllInfo is the full snapshot broadcast every tick
type AllInfo struct {
	Tick                uint64                    `json:"tick"`
	Players             []PlayerState             `json:"players"`
	Platforms           []PlatformState           `json:"platforms"`
	Projectiles         []ProjectileState         `json:"projectiles"`
	TargetedProjectiles []TargetedProjectileState `json:"targetedProjectiles"`
	Items               []ItemState               `json:"items"`
	BasicAttacks        []BasicAttackState        `json:"basicAttacks"`
}

// PlayerInfoMsg echoes one player's actions to the other clients
type PlayerInfoMsg struct {
	ID      EntityID `json:"id"`
	Actions []string `json:"actions"`
}

// PlayerLeavingMsg tells clients a player disconnected
type PlayerLeavingMsg struct {
	ID EntityID `json:"id"`
}

// ErrorMsg sends an error to the client before it is dropped
type ErrorMsg struct {
	Msg string `json:"msg"`
}
