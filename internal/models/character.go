package models

import (
	"time"

	"gorm.io/datatypes"
)

// BattleResult is the outcome of a battle recorded in a lore entry.
type BattleResult string

// Allowed battle results.
const (
	BattleWon  BattleResult = "Won"
	BattleLost BattleResult = "Lost"
	BattleFled BattleResult = "Fled"
)

// Valid reports whether the battle result is one of the allowed values.
func (r BattleResult) Valid() bool {
	switch r {
	case BattleWon, BattleLost, BattleFled:
		return true
	}
	return false
}

// ItemType classifies equipment and inventory items.
type ItemType string

// Allowed item types.
const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemConsumable ItemType = "consumable"
	ItemQuest      ItemType = "quest"
	ItemMisc       ItemType = "misc"
)

// Valid reports whether the item type is one of the allowed values.
func (t ItemType) Valid() bool {
	switch t {
	case ItemWeapon, ItemArmor, ItemConsumable, ItemQuest, ItemMisc:
		return true
	}
	return false
}

// Rarity grades an item.
type Rarity string

// Allowed rarities.
const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Valid reports whether the rarity is one of the allowed values.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Weapon is the character's equipped weapon record.
type Weapon struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Effects     []string `json:"effects"`
	BonusStats  *string  `json:"bonusStats,omitempty"`
}

// SupportSkill is the character's support skill record.
type SupportSkill struct {
	Name        string `json:"name"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

// Ability is a named character ability.
type Ability struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Effects     []string `json:"effects"`
}

// EventItem is a limited-event item held by the character.
type EventItem struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Description *string `json:"description,omitempty"`
}

// QuestItem is a quest-bound item and where it came from.
type QuestItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// ActiveQuest is a quest the character is currently on.
type ActiveQuest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    *string `json:"location,omitempty"`
	QuestGiver  *string `json:"questGiver,omitempty"`
}

// StatusEffect is a temporary buff or debuff on the character.
type StatusEffect struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Duration    *string  `json:"duration,omitempty"`
	Effects     []string `json:"effects"`
}

// BattleOutcome records a single battle inside a lore entry.
type BattleOutcome struct {
	Enemy       string       `json:"enemy"`
	Result      BattleResult `json:"result"`
	Description *string      `json:"description,omitempty"`
}

// LoreEntry is an exploration record tied to a location.
type LoreEntry struct {
	Location        string          `json:"location"`
	Events          []string        `json:"events"`
	NPCsEncountered []string        `json:"npcsEncountered,omitempty"`
	Battles         []BattleOutcome `json:"battles,omitempty"`
}

// InventoryItem is a typed item in equipment or inventory.
type InventoryItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         ItemType `json:"type"`
	Quantity     int      `json:"quantity"`
	Description  *string  `json:"description,omitempty"`
	Equipped     *bool    `json:"equipped,omitempty"`
	Rarity       *Rarity  `json:"rarity,omitempty"`
	Effects      *string  `json:"effects,omitempty"`
	MainStat     *string  `json:"mainStat,omitempty"`
	BonusStats   *string  `json:"bonusStats,omitempty"`
	ExtraEffects *string  `json:"extraEffects,omitempty"`
	DefenseStat  *string  `json:"defenseStat,omitempty"`
}

// Character is a full character sheet. The structured sub-records live in
// jsonb columns; the storage gateway stamps created_at once and rewrites
// last_active on every update.
type Character struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	Name       string  `gorm:"type:text;not null" json:"name"`        // Character name.
	PlayerName string  `gorm:"type:text;not null" json:"playerName"`  // Owning player.
	ClassName  string  `gorm:"type:text;not null" json:"className"`   // Character class.
	Faction    *string `gorm:"type:text" json:"faction"`              // Optional faction.
	Backstory  *string `gorm:"type:text" json:"backstory"`            // Optional backstory.
	AvatarURL  *string `gorm:"type:text" json:"avatarUrl"`            // Optional avatar reference.

	Level       int `gorm:"not null;default:1" json:"level"`                               // Character level.
	CurrentXP   int `gorm:"column:current_xp;not null;default:0" json:"currentXP"`         // XP in current level.
	NextLevelXP int `gorm:"column:next_level_xp;not null;default:1000" json:"nextLevelXP"` // XP needed for next level.
	Gold        int `gorm:"not null;default:0" json:"gold"`                                // Gold on hand.

	Strength     int `gorm:"not null;default:0" json:"strength"`     // Core stat.
	Dexterity    int `gorm:"not null;default:0" json:"dexterity"`    // Core stat.
	Intelligence int `gorm:"not null;default:0" json:"intelligence"` // Core stat.
	Wisdom       int `gorm:"not null;default:0" json:"wisdom"`       // Core stat.
	Constitution int `gorm:"not null;default:0" json:"constitution"` // Core stat.
	Charisma     int `gorm:"not null;default:0" json:"charisma"`     // Core stat.
	Stealth      int `gorm:"not null;default:0" json:"stealth"`      // Core stat.
	Intimidation int `gorm:"not null;default:0" json:"intimidation"` // Core stat.
	Persuasion   int `gorm:"not null;default:0" json:"persuasion"`   // Core stat.
	Luck         int `gorm:"not null;default:0" json:"luck"`         // Core stat.

	CustomStats datatypes.JSONType[map[string]float64] `gorm:"type:jsonb;not null;default:'{}'" json:"customStats"` // Named extra stats.

	PowerLevel int `gorm:"not null;default:1" json:"powerLevel"` // Power gauge, nominally 1-1000.
	LoreLevel  int `gorm:"not null;default:1" json:"loreLevel"`  // Lore gauge, nominally 1-1000.

	ArenaRanking  string  `gorm:"type:text;not null;default:'N/A'" json:"arenaRanking"` // Arena placement label.
	DuelistRank   *string `gorm:"type:text" json:"duelistRank"`                         // Optional duelist rank.
	DuelistPoints int     `gorm:"not null;default:0" json:"duelistPoints"`              // Duelist points.

	Weapon        datatypes.JSONType[*Weapon]           `gorm:"type:jsonb" json:"weapon"`                              // Equipped weapon, nullable.
	SupportSkill  datatypes.JSONType[*SupportSkill]     `gorm:"type:jsonb" json:"supportSkill"`                        // Support skill, nullable.
	Abilities     datatypes.JSONSlice[Ability]          `gorm:"type:jsonb;not null;default:'[]'" json:"abilities"`     // Ability list.
	Traits        datatypes.JSONSlice[string]           `gorm:"type:jsonb;not null;default:'[]'" json:"traits"`        // Trait names.
	Skills        datatypes.JSONType[map[string]string] `gorm:"type:jsonb;not null;default:'{}'" json:"skills"`        // Skill name to description.
	EventItems    datatypes.JSONSlice[EventItem]        `gorm:"type:jsonb;not null;default:'[]'" json:"eventItems"`    // Event items.
	QuestItems    datatypes.JSONSlice[QuestItem]        `gorm:"type:jsonb;not null;default:'[]'" json:"questItems"`    // Quest items.
	ActiveQuests  datatypes.JSONSlice[ActiveQuest]      `gorm:"type:jsonb;not null;default:'[]'" json:"activeQuests"`  // Active quests.
	StatusEffects datatypes.JSONSlice[StatusEffect]     `gorm:"type:jsonb;not null;default:'[]'" json:"statusEffects"` // Status effects.
	LoreEntries   datatypes.JSONSlice[LoreEntry]        `gorm:"type:jsonb;not null;default:'[]'" json:"loreEntries"`   // Lore entries.

	Notoriety string `gorm:"type:text;not null;default:'unknown'" json:"notoriety"` // Notoriety/alignment label.

	Equipment datatypes.JSONSlice[InventoryItem] `gorm:"type:jsonb;not null;default:'[]'" json:"equipment"` // Equipped items.
	Inventory datatypes.JSONSlice[InventoryItem] `gorm:"type:jsonb;not null;default:'[]'" json:"inventory"` // Carried items.

	Notes *string `gorm:"type:text" json:"notes"` // Free-text notes.

	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`  // Set once at creation.
	LastActive time.Time `gorm:"not null" json:"lastActive"` // Rewritten on every update.
}
