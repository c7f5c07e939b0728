package usecase

import (
	"fmt"
	"strings"

	"github.com/ksj1368/er-crawler/internal/domain/staticdata"
)

// equipmentGrades is the upstream grade order; the stored grade is the
// index into this list.
var equipmentGrades = []string{"Uncommon", "Common", "Rare", "Epic", "Legend", "Mythic"}

// Trait groups excluded from the trait reference table.
const (
	traitGroupCobalt = "Cobalt"
	traitGroupNone   = "None"
)

// NormalizeCharacters joins base character stats with per-level growth by
// character code. Characters without a growth entry get zero growth.
func NormalizeCharacters(characters []ExternalCharacter, levelUps []ExternalCharacterLevelUp) []staticdata.Character {
	growthByCode := make(map[int]ExternalCharacterLevelUp, len(levelUps))
	for _, lu := range levelUps {
		growthByCode[lu.Code] = lu
	}

	out := make([]staticdata.Character, 0, len(characters))
	for _, c := range characters {
		growth := growthByCode[c.Code]
		out = append(out, staticdata.Character{
			CharacterID:      c.Code,
			CharacterName:    c.Name,
			AttackPower:      c.AttackPower,
			Defense:          c.Defense,
			SkillAmp:         c.SkillAmp,
			MaxHP:            c.MaxHP,
			MaxSP:            c.MaxSP,
			HPRegen:          c.HPRegen,
			SPRegen:          c.SPRegen,
			AttackSpeed:      c.AttackSpeed,
			AttackSpeedLimit: c.AttackSpeedLimit,
			MoveSpeed:        c.MoveSpeed,
			SightRange:       c.SightRange,

			GrowthAttackPower: growth.AttackPower,
			GrowthDefense:     growth.Defense,
			GrowthMaxHP:       growth.MaxHP,
			GrowthMaxSP:       growth.MaxSP,
			GrowthHPRegen:     growth.HPRegen,
			GrowthSPRegen:     growth.SPRegen,
		})
	}

	return out
}

// NormalizeEquipment flattens armor and weapon reference data into one
// list. Ratio stats are scaled to integer percents.
func NormalizeEquipment(armor, weapon []ExternalEquipmentItem) ([]staticdata.Equipment, error) {
	out := make([]staticdata.Equipment, 0, len(armor)+len(weapon))
	for _, item := range armor {
		row, err := normalizeEquipmentItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	for _, item := range weapon {
		row, err := normalizeEquipmentItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	return out, nil
}

func normalizeEquipmentItem(item ExternalEquipmentItem) (staticdata.Equipment, error) {
	grade := gradeIndex(item.ItemGrade)
	if grade < 0 {
		return staticdata.Equipment{}, fmt.Errorf("%w: equipment %d has unknown grade %q", ErrMalformedPayload, item.Code, item.ItemGrade)
	}

	subType := item.ArmorType
	if subType == "" {
		subType = item.WeaponType
	}

	return staticdata.Equipment{
		EquipmentID:           item.Code,
		EquipmentName:         item.Name,
		EquipmentMainType:     item.ItemType,
		EquipmentSubType:      subType,
		EquipmentGrade:        grade,
		AttackPower:           item.AttackPower,
		AttackPowerByLv:       item.AttackPowerByLv,
		Defense:               item.Defense,
		DefenseByLv:           item.DefenseByLv,
		SkillAmp:              item.SkillAmp,
		SkillAmpByLv:          item.SkillAmpByLevel,
		SkillAmpRatio:         int(100 * item.SkillAmpRatio),
		AdaptiveForce:         item.AdaptiveForce,
		MaxHP:                 item.MaxHP,
		MaxHPByLv:             item.MaxHPByLv,
		MaxSP:                 item.MaxSP,
		HPRegenPercent:        int(100 * item.HPRegenRatio),
		SPRegenPercent:        int(100 * item.SPRegenRatio),
		AttackSpeedPercent:    int(100 * item.AttackSpeedRatio),
		CriticalPercent:       int(100 * item.CriticalStrikeChance),
		CriticalDamagePercent: int(100 * item.CriticalStrikeDamage),
		CooldownPercent:       int(100 * item.CooldownReduction),
		LifeStealPercent:      int(100 * item.LifeSteal),
		NormalLifeSteal:       int(100 * item.NormalLifeSteal),
		MoveSpeed:             item.MoveSpeed,
		MoveSpeedPercent:      int(100 * item.MoveSpeedRatio),
		SightRange:            item.SightRange,
		PenetrationDefense:    item.PenetrationDefense,
		SlowResistPercent:     int(100 * item.SlowResistRatio),
		CooldownLimitPercent:  int(100 * item.UniqueCooldownLimit),
		TenacityPercent:       int(100 * item.UniqueTenacity),
		UniqueSkillAmpPercent: int(100 * item.UniqueSkillAmpRatio),
	}, nil
}

func gradeIndex(grade string) int {
	for i, g := range equipmentGrades {
		if g == grade {
			return i
		}
	}
	return -1
}

// NormalizeTraits builds the trait reference rows. Cobalt-only and
// groupless traits are skipped. Names come from the localization mapping
// under "Trait/Name/{code}"; a missing key fails the sync.
func NormalizeTraits(traits []ExternalTrait, l10n map[string]string) ([]staticdata.Trait, error) {
	out := make([]staticdata.Trait, 0, len(traits))
	for _, t := range traits {
		if t.TraitGroup == traitGroupCobalt || t.TraitGroup == traitGroupNone {
			continue
		}

		key := fmt.Sprintf("Trait/Name/%d", t.Code)
		name, ok := l10n[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing localization key %s", ErrMalformedPayload, key)
		}
		out = append(out, staticdata.Trait{
			TraitID:   t.Code,
			TraitName: name,
		})
	}

	return out, nil
}

// ParseL10nText parses the localization blob, one "key┃value" pair per
// line. Lines without the delimiter are ignored.
func ParseL10nText(text string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		key, value, ok := strings.Cut(line, "┃")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return out
}
