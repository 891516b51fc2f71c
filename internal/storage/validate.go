package storage

import (
	"fmt"
	"strings"

	"github.com/demplar/character-vault/internal/models"
)

// validateCharacterInsert rejects malformed creation payloads before any
// store access.
func validateCharacterInsert(in *models.CharacterInsert) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.PlayerName) == "" {
		return &ValidationError{Field: "playerName", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.ClassName) == "" {
		return &ValidationError{Field: "className", Reason: "must not be empty"}
	}
	if errItems := validateItems("equipment", in.Equipment); errItems != nil {
		return errItems
	}
	if errItems := validateItems("inventory", in.Inventory); errItems != nil {
		return errItems
	}
	return validateLoreEntries(in.LoreEntries)
}

// validateCharacterPatch rejects malformed patch payloads. Required text
// fields may be omitted but not blanked out.
func validateCharacterPatch(patch *models.CharacterPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if patch.PlayerName != nil && strings.TrimSpace(*patch.PlayerName) == "" {
		return &ValidationError{Field: "playerName", Reason: "must not be empty"}
	}
	if patch.ClassName != nil && strings.TrimSpace(*patch.ClassName) == "" {
		return &ValidationError{Field: "className", Reason: "must not be empty"}
	}
	if errItems := validateItems("equipment", patch.Equipment); errItems != nil {
		return errItems
	}
	if errItems := validateItems("inventory", patch.Inventory); errItems != nil {
		return errItems
	}
	return validateLoreEntries(patch.LoreEntries)
}

// validateItems checks item types and rarities of an item list.
func validateItems(field string, items []models.InventoryItem) error {
	for _, item := range items {
		if !item.Type.Valid() {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("unknown item type %q", item.Type)}
		}
		if item.Rarity != nil && !item.Rarity.Valid() {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("unknown rarity %q", *item.Rarity)}
		}
	}
	return nil
}

// validateLoreEntries checks battle results nested in lore entries.
func validateLoreEntries(entries []models.LoreEntry) error {
	for _, entry := range entries {
		for _, battle := range entry.Battles {
			if !battle.Result.Valid() {
				return &ValidationError{Field: "loreEntries", Reason: fmt.Sprintf("unknown battle result %q", battle.Result)}
			}
		}
	}
	return nil
}
