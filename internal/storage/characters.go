package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dbutil "github.com/demplar/character-vault/internal/db"
	"github.com/demplar/character-vault/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Creation defaults applied when the insert payload omits a field.
const (
	defaultLevel       = 1
	defaultNextLevelXP = 1000
	defaultCoreStat    = 50
	defaultGaugeLevel  = 1
	defaultArenaRank   = "N/A"
	defaultNotoriety   = "unknown"
)

// GetCharacter returns the character with the given id, or nil when absent.
func (s *Storage) GetCharacter(ctx context.Context, id uint64) (*models.Character, error) {
	var ch models.Character
	errFind := s.db.WithContext(ctx).First(&ch, id).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if errFind != nil {
		return nil, fmt.Errorf("storage: get character: %w", errFind)
	}
	return &ch, nil
}

// GetCharacters returns all characters, most recently active first.
func (s *Storage) GetCharacters(ctx context.Context) ([]models.Character, error) {
	out := []models.Character{}
	if errFind := s.db.WithContext(ctx).Order("last_active DESC").Find(&out).Error; errFind != nil {
		return nil, fmt.Errorf("storage: list characters: %w", errFind)
	}
	return out, nil
}

// GetCharactersByPlayer returns the characters owned by an exact player
// name, most recently active first.
func (s *Storage) GetCharactersByPlayer(ctx context.Context, playerName string) ([]models.Character, error) {
	out := []models.Character{}
	errFind := s.db.WithContext(ctx).
		Where("player_name = ?", playerName).
		Order("last_active DESC").
		Find(&out).Error
	if errFind != nil {
		return nil, fmt.Errorf("storage: list characters by player: %w", errFind)
	}
	return out, nil
}

// SearchCharacters performs a case-insensitive substring search over name,
// player name, class name, and faction. A blank query short-circuits to an
// empty result without touching the store.
func (s *Storage) SearchCharacters(ctx context.Context, query string) ([]models.Character, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Character{}, nil
	}

	pattern := dbutil.NormalizeLikePattern(s.db, "%"+query+"%")
	where := dbutil.CaseInsensitiveLikeExpr(s.db, "name") + " OR " +
		dbutil.CaseInsensitiveLikeExpr(s.db, "player_name") + " OR " +
		dbutil.CaseInsensitiveLikeExpr(s.db, "class_name") + " OR " +
		dbutil.CaseInsensitiveLikeExpr(s.db, "faction")

	out := []models.Character{}
	errFind := s.db.WithContext(ctx).
		Where(where, pattern, pattern, pattern, pattern).
		Order("last_active DESC").
		Find(&out).Error
	if errFind != nil {
		return nil, fmt.Errorf("storage: search characters: %w", errFind)
	}
	return out, nil
}

// CreateCharacter applies creation defaults, stamps both timestamps to the
// same instant, and persists the sheet. The stored record including the
// generated id is returned. Store failures are logged with their cause and
// surfaced under a stable message.
func (s *Storage) CreateCharacter(ctx context.Context, in models.CharacterInsert) (*models.Character, error) {
	if errValidate := validateCharacterInsert(&in); errValidate != nil {
		return nil, errValidate
	}

	now := time.Now().UTC()
	ch := models.Character{
		Name:       strings.TrimSpace(in.Name),
		PlayerName: strings.TrimSpace(in.PlayerName),
		ClassName:  strings.TrimSpace(in.ClassName),
		Faction:    in.Faction,
		Backstory:  in.Backstory,
		AvatarURL:  in.AvatarURL,

		Level:       intOr(in.Level, defaultLevel),
		CurrentXP:   intOr(in.CurrentXP, 0),
		NextLevelXP: intOr(in.NextLevelXP, defaultNextLevelXP),
		Gold:        intOr(in.Gold, 0),

		Strength:     intOr(in.Strength, defaultCoreStat),
		Dexterity:    intOr(in.Dexterity, defaultCoreStat),
		Intelligence: intOr(in.Intelligence, defaultCoreStat),
		Wisdom:       intOr(in.Wisdom, defaultCoreStat),
		Constitution: intOr(in.Constitution, defaultCoreStat),
		Charisma:     intOr(in.Charisma, defaultCoreStat),
		Stealth:      intOr(in.Stealth, defaultCoreStat),
		Intimidation: intOr(in.Intimidation, defaultCoreStat),
		Persuasion:   intOr(in.Persuasion, defaultCoreStat),
		Luck:         intOr(in.Luck, defaultCoreStat),

		CustomStats: datatypes.NewJSONType(statMapOr(in.CustomStats)),

		PowerLevel: intOr(in.PowerLevel, defaultGaugeLevel),
		LoreLevel:  intOr(in.LoreLevel, defaultGaugeLevel),

		ArenaRanking:  strOr(in.ArenaRanking, defaultArenaRank),
		DuelistRank:   in.DuelistRank,
		DuelistPoints: intOr(in.DuelistPoints, 0),

		Weapon:        datatypes.NewJSONType(in.Weapon),
		SupportSkill:  datatypes.NewJSONType(in.SupportSkill),
		Abilities:     datatypes.NewJSONSlice(sliceOr(in.Abilities)),
		Traits:        datatypes.NewJSONSlice(sliceOr(in.Traits)),
		Skills:        datatypes.NewJSONType(skillMapOr(in.Skills)),
		EventItems:    datatypes.NewJSONSlice(sliceOr(in.EventItems)),
		QuestItems:    datatypes.NewJSONSlice(sliceOr(in.QuestItems)),
		ActiveQuests:  datatypes.NewJSONSlice(sliceOr(in.ActiveQuests)),
		StatusEffects: datatypes.NewJSONSlice(sliceOr(in.StatusEffects)),
		LoreEntries:   datatypes.NewJSONSlice(sliceOr(in.LoreEntries)),

		Notoriety: strOr(in.Notoriety, defaultNotoriety),

		Equipment: datatypes.NewJSONSlice(sliceOr(in.Equipment)),
		Inventory: datatypes.NewJSONSlice(sliceOr(in.Inventory)),

		Notes: in.Notes,

		CreatedAt:  now,
		LastActive: now,
	}

	if errCreate := s.db.WithContext(ctx).Create(&ch).Error; errCreate != nil {
		log.WithError(errCreate).Error("character creation failed")
		return nil, errors.New("storage: create character failed")
	}
	return &ch, nil
}

// UpdateCharacter applies a partial patch. The patch cannot carry id or
// createdAt; lastActive is always rewritten to the current time. Returns
// nil when no character matched the id.
func (s *Storage) UpdateCharacter(ctx context.Context, id uint64, patch models.CharacterPatch) (*models.Character, error) {
	if errValidate := validateCharacterPatch(&patch); errValidate != nil {
		return nil, errValidate
	}

	updates := characterPatchUpdates(&patch)
	updates["last_active"] = time.Now().UTC()

	res := s.db.WithContext(ctx).
		Model(&models.Character{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("storage: update character: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetCharacter(ctx, id)
}

// DeleteCharacter removes the character and all of its session logs inside
// one transaction, logs first. Reports whether a character row was removed.
func (s *Storage) DeleteCharacter(ctx context.Context, id uint64) (bool, error) {
	removed := false
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errLogs := tx.Where("character_id = ?", id).Delete(&models.SessionLog{}).Error; errLogs != nil {
			return fmt.Errorf("delete session logs: %w", errLogs)
		}
		res := tx.Delete(&models.Character{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete character: %w", res.Error)
		}
		removed = res.RowsAffected > 0
		return nil
	})
	if errTx != nil {
		return false, fmt.Errorf("storage: %w", errTx)
	}
	return removed, nil
}

// characterPatchUpdates builds the column update map from supplied fields.
func characterPatchUpdates(patch *models.CharacterPatch) map[string]any {
	updates := map[string]any{}

	if patch.Name != nil {
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.PlayerName != nil {
		updates["player_name"] = strings.TrimSpace(*patch.PlayerName)
	}
	if patch.ClassName != nil {
		updates["class_name"] = strings.TrimSpace(*patch.ClassName)
	}
	if patch.Faction != nil {
		updates["faction"] = *patch.Faction
	}
	if patch.Backstory != nil {
		updates["backstory"] = *patch.Backstory
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}

	if patch.Level != nil {
		updates["level"] = *patch.Level
	}
	if patch.CurrentXP != nil {
		updates["current_xp"] = *patch.CurrentXP
	}
	if patch.NextLevelXP != nil {
		updates["next_level_xp"] = *patch.NextLevelXP
	}
	if patch.Gold != nil {
		updates["gold"] = *patch.Gold
	}

	if patch.Strength != nil {
		updates["strength"] = *patch.Strength
	}
	if patch.Dexterity != nil {
		updates["dexterity"] = *patch.Dexterity
	}
	if patch.Intelligence != nil {
		updates["intelligence"] = *patch.Intelligence
	}
	if patch.Wisdom != nil {
		updates["wisdom"] = *patch.Wisdom
	}
	if patch.Constitution != nil {
		updates["constitution"] = *patch.Constitution
	}
	if patch.Charisma != nil {
		updates["charisma"] = *patch.Charisma
	}
	if patch.Stealth != nil {
		updates["stealth"] = *patch.Stealth
	}
	if patch.Intimidation != nil {
		updates["intimidation"] = *patch.Intimidation
	}
	if patch.Persuasion != nil {
		updates["persuasion"] = *patch.Persuasion
	}
	if patch.Luck != nil {
		updates["luck"] = *patch.Luck
	}

	if patch.CustomStats != nil {
		updates["custom_stats"] = datatypes.NewJSONType(patch.CustomStats)
	}

	if patch.PowerLevel != nil {
		updates["power_level"] = *patch.PowerLevel
	}
	if patch.LoreLevel != nil {
		updates["lore_level"] = *patch.LoreLevel
	}

	if patch.ArenaRanking != nil {
		updates["arena_ranking"] = *patch.ArenaRanking
	}
	if patch.DuelistRank != nil {
		updates["duelist_rank"] = *patch.DuelistRank
	}
	if patch.DuelistPoints != nil {
		updates["duelist_points"] = *patch.DuelistPoints
	}

	if patch.Weapon != nil {
		updates["weapon"] = datatypes.NewJSONType(patch.Weapon)
	}
	if patch.SupportSkill != nil {
		updates["support_skill"] = datatypes.NewJSONType(patch.SupportSkill)
	}
	if patch.Abilities != nil {
		updates["abilities"] = datatypes.NewJSONSlice(patch.Abilities)
	}
	if patch.Traits != nil {
		updates["traits"] = datatypes.NewJSONSlice(patch.Traits)
	}
	if patch.Skills != nil {
		updates["skills"] = datatypes.NewJSONType(patch.Skills)
	}
	if patch.EventItems != nil {
		updates["event_items"] = datatypes.NewJSONSlice(patch.EventItems)
	}
	if patch.QuestItems != nil {
		updates["quest_items"] = datatypes.NewJSONSlice(patch.QuestItems)
	}
	if patch.ActiveQuests != nil {
		updates["active_quests"] = datatypes.NewJSONSlice(patch.ActiveQuests)
	}
	if patch.StatusEffects != nil {
		updates["status_effects"] = datatypes.NewJSONSlice(patch.StatusEffects)
	}
	if patch.LoreEntries != nil {
		updates["lore_entries"] = datatypes.NewJSONSlice(patch.LoreEntries)
	}

	if patch.Notoriety != nil {
		updates["notoriety"] = *patch.Notoriety
	}

	if patch.Equipment != nil {
		updates["equipment"] = datatypes.NewJSONSlice(patch.Equipment)
	}
	if patch.Inventory != nil {
		updates["inventory"] = datatypes.NewJSONSlice(patch.Inventory)
	}

	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}

	return updates
}

// intOr returns the pointed-to value or the default when absent.
func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

// strOr returns the pointed-to value or the default when absent or blank.
func strOr(v *string, def string) string {
	if v != nil && strings.TrimSpace(*v) != "" {
		return *v
	}
	return def
}

// sliceOr returns the slice or an empty one when absent.
func sliceOr[T any](v []T) []T {
	if v != nil {
		return v
	}
	return []T{}
}

// statMapOr returns the stat map or an empty one when absent.
func statMapOr(v map[string]float64) map[string]float64 {
	if v != nil {
		return v
	}
	return map[string]float64{}
}

// skillMapOr returns the skill map or an empty one when absent.
func skillMapOr(v map[string]string) map[string]string {
	if v != nil {
		return v
	}
	return map[string]string{}
}
