package models

// Insert and patch schemas for the API boundary. Server-generated fields
// (id, createdAt, lastActive) are not representable here, so a patch can
// never touch them. Slices and maps use nil to mean "not supplied".

// CharacterInsert is the payload accepted when creating a character.
// Unsupplied fields receive the creation defaults in the storage gateway.
type CharacterInsert struct {
	Name       string  `json:"name" binding:"required"`
	PlayerName string  `json:"playerName" binding:"required"`
	ClassName  string  `json:"className" binding:"required"`
	Faction    *string `json:"faction"`
	Backstory  *string `json:"backstory"`
	AvatarURL  *string `json:"avatarUrl"`

	Level       *int `json:"level"`
	CurrentXP   *int `json:"currentXP"`
	NextLevelXP *int `json:"nextLevelXP"`
	Gold        *int `json:"gold"`

	Strength     *int `json:"strength"`
	Dexterity    *int `json:"dexterity"`
	Intelligence *int `json:"intelligence"`
	Wisdom       *int `json:"wisdom"`
	Constitution *int `json:"constitution"`
	Charisma     *int `json:"charisma"`
	Stealth      *int `json:"stealth"`
	Intimidation *int `json:"intimidation"`
	Persuasion   *int `json:"persuasion"`
	Luck         *int `json:"luck"`

	CustomStats map[string]float64 `json:"customStats"`

	PowerLevel *int `json:"powerLevel"`
	LoreLevel  *int `json:"loreLevel"`

	ArenaRanking  *string `json:"arenaRanking"`
	DuelistRank   *string `json:"duelistRank"`
	DuelistPoints *int    `json:"duelistPoints"`

	Weapon        *Weapon           `json:"weapon"`
	SupportSkill  *SupportSkill     `json:"supportSkill"`
	Abilities     []Ability         `json:"abilities"`
	Traits        []string          `json:"traits"`
	Skills        map[string]string `json:"skills"`
	EventItems    []EventItem       `json:"eventItems"`
	QuestItems    []QuestItem       `json:"questItems"`
	ActiveQuests  []ActiveQuest     `json:"activeQuests"`
	StatusEffects []StatusEffect    `json:"statusEffects"`
	LoreEntries   []LoreEntry       `json:"loreEntries"`

	Notoriety *string `json:"notoriety"`

	Equipment []InventoryItem `json:"equipment"`
	Inventory []InventoryItem `json:"inventory"`

	Notes *string `json:"notes"`
}

// CharacterPatch is the partial update payload for a character.
// Every field is optional; only supplied fields are written.
type CharacterPatch struct {
	Name       *string `json:"name"`
	PlayerName *string `json:"playerName"`
	ClassName  *string `json:"className"`
	Faction    *string `json:"faction"`
	Backstory  *string `json:"backstory"`
	AvatarURL  *string `json:"avatarUrl"`

	Level       *int `json:"level"`
	CurrentXP   *int `json:"currentXP"`
	NextLevelXP *int `json:"nextLevelXP"`
	Gold        *int `json:"gold"`

	Strength     *int `json:"strength"`
	Dexterity    *int `json:"dexterity"`
	Intelligence *int `json:"intelligence"`
	Wisdom       *int `json:"wisdom"`
	Constitution *int `json:"constitution"`
	Charisma     *int `json:"charisma"`
	Stealth      *int `json:"stealth"`
	Intimidation *int `json:"intimidation"`
	Persuasion   *int `json:"persuasion"`
	Luck         *int `json:"luck"`

	CustomStats map[string]float64 `json:"customStats"`

	PowerLevel *int `json:"powerLevel"`
	LoreLevel  *int `json:"loreLevel"`

	ArenaRanking  *string `json:"arenaRanking"`
	DuelistRank   *string `json:"duelistRank"`
	DuelistPoints *int    `json:"duelistPoints"`

	Weapon        *Weapon           `json:"weapon"`
	SupportSkill  *SupportSkill     `json:"supportSkill"`
	Abilities     []Ability         `json:"abilities"`
	Traits        []string          `json:"traits"`
	Skills        map[string]string `json:"skills"`
	EventItems    []EventItem       `json:"eventItems"`
	QuestItems    []QuestItem       `json:"questItems"`
	ActiveQuests  []ActiveQuest     `json:"activeQuests"`
	StatusEffects []StatusEffect    `json:"statusEffects"`
	LoreEntries   []LoreEntry       `json:"loreEntries"`

	Notoriety *string `json:"notoriety"`

	Equipment []InventoryItem `json:"equipment"`
	Inventory []InventoryItem `json:"inventory"`

	Notes *string `json:"notes"`
}

// SessionLogInsert is the payload accepted when creating a session log.
type SessionLogInsert struct {
	CharacterID uint64   `json:"characterId" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	XPGained    *int     `json:"xpGained"`
	Duration    *string  `json:"duration"`
	Tags        []string `json:"tags"`
	SessionDate string   `json:"sessionDate" binding:"required"`
}

// SessionLogPatch is the partial update payload for a session log.
type SessionLogPatch struct {
	CharacterID *uint64  `json:"characterId"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	XPGained    *int     `json:"xpGained"`
	Duration    *string  `json:"duration"`
	Tags        []string `json:"tags"`
	SessionDate *string  `json:"sessionDate"`
}
