package bser

import (
	"context"
	"fmt"
	"sync"

	"github.com/ksj1368/er-crawler/internal/usecase"
)

// staticCache memoizes successful reference-data responses. Reference data
// changes between patches, not between requests, so a process never needs
// to download a dataset twice. Failures are not cached.
type staticCache struct {
	mu         sync.Mutex
	characters []usecase.ExternalCharacter
	levelUps   []usecase.ExternalCharacterLevelUp
	armor      []usecase.ExternalEquipmentItem
	weapon     []usecase.ExternalEquipmentItem
	traits     []usecase.ExternalTrait
	l10nText   string
	l10nLoaded bool
}

// Characters fetches the character base stats and their per-level growth.
func (c *Client) Characters(ctx context.Context) ([]usecase.ExternalCharacter, []usecase.ExternalCharacterLevelUp, error) {
	c.static.mu.Lock()
	defer c.static.mu.Unlock()

	if c.static.characters != nil && c.static.levelUps != nil {
		return c.static.characters, c.static.levelUps, nil
	}

	characters, err := fetchGameData[usecase.ExternalCharacter](ctx, c, "Character")
	if err != nil {
		return nil, nil, err
	}
	levelUps, err := fetchGameData[usecase.ExternalCharacterLevelUp](ctx, c, "CharacterLevelUpStat")
	if err != nil {
		return nil, nil, err
	}

	c.static.characters = characters
	c.static.levelUps = levelUps
	return characters, levelUps, nil
}

// EquipmentItems fetches the armor and weapon reference tables.
func (c *Client) EquipmentItems(ctx context.Context) (armor, weapon []usecase.ExternalEquipmentItem, err error) {
	c.static.mu.Lock()
	defer c.static.mu.Unlock()

	if c.static.armor != nil && c.static.weapon != nil {
		return c.static.armor, c.static.weapon, nil
	}

	armor, err = fetchGameData[usecase.ExternalEquipmentItem](ctx, c, "ItemArmor")
	if err != nil {
		return nil, nil, err
	}
	weapon, err = fetchGameData[usecase.ExternalEquipmentItem](ctx, c, "ItemWeapon")
	if err != nil {
		return nil, nil, err
	}

	c.static.armor = armor
	c.static.weapon = weapon
	return armor, weapon, nil
}

// Traits fetches the trait reference table.
func (c *Client) Traits(ctx context.Context) ([]usecase.ExternalTrait, error) {
	c.static.mu.Lock()
	defer c.static.mu.Unlock()

	if c.static.traits != nil {
		return c.static.traits, nil
	}

	traits, err := fetchGameData[usecase.ExternalTrait](ctx, c, "Trait")
	if err != nil {
		return nil, err
	}

	c.static.traits = traits
	return traits, nil
}

// L10nText downloads the Korean localization blob. The metadata endpoint
// returns the blob's download URL; the blob itself is plain text served
// without authentication.
func (c *Client) L10nText(ctx context.Context) (string, error) {
	c.static.mu.Lock()
	defer c.static.mu.Unlock()

	if c.static.l10nLoaded {
		return c.static.l10nText, nil
	}

	var envelope l10nEnvelope
	if err := c.doJSON(ctx, "/v1/l10n/Korean", nil, &envelope); err != nil {
		return "", fmt.Errorf("fetch l10n metadata: %w", err)
	}
	if err := envelope.ok(); err != nil {
		return "", fmt.Errorf("fetch l10n metadata: %w", err)
	}
	if envelope.Data.L10Path == "" {
		return "", fmt.Errorf("l10n metadata has no download path")
	}

	raw, err := c.executeRequest(ctx, envelope.Data.L10Path, false)
	if err != nil {
		return "", fmt.Errorf("download l10n text: %w", err)
	}

	c.static.l10nText = string(raw)
	c.static.l10nLoaded = true
	return c.static.l10nText, nil
}

func fetchGameData[T any](ctx context.Context, c *Client, dataset string) ([]T, error) {
	var envelope gameDataEnvelope[T]
	if err := c.doJSON(ctx, "/v2/data/"+dataset, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch game data %s: %w", dataset, err)
	}
	if err := envelope.ok(); err != nil {
		return nil, fmt.Errorf("fetch game data %s: %w", dataset, err)
	}
	return envelope.Data, nil
}

type gameDataEnvelope[T any] struct {
	apiEnvelope
	Data []T `json:"data"`
}

type l10nEnvelope struct {
	apiEnvelope
	Data struct {
		L10Path string `json:"l10Path"`
	} `json:"data"`
}
