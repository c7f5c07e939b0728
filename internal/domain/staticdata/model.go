package staticdata

const (
	TableCharacter = "game_character"
	TableEquipment = "equipment"
	TableTrait     = "trait_info"
)

// Character is one playable character with base and per-level growth stats.
type Character struct {
	CharacterID      int     `db:"character_id"`
	CharacterName    string  `db:"character_name"`
	AttackPower      float64 `db:"attack_power"`
	Defense          float64 `db:"defense"`
	SkillAmp         float64 `db:"skill_amp"`
	MaxHP            int     `db:"max_hp"`
	MaxSP            int     `db:"max_sp"`
	HPRegen          float64 `db:"hp_regen"`
	SPRegen          float64 `db:"sp_regen"`
	AttackSpeed      float64 `db:"attack_speed"`
	AttackSpeedLimit float64 `db:"attack_speed_limit"`
	MoveSpeed        float64 `db:"move_speed"`
	SightRange       float64 `db:"sight_range"`

	GrowthAttackPower float64 `db:"growth_attack_power"`
	GrowthDefense     float64 `db:"growth_defense"`
	GrowthMaxHP       float64 `db:"growth_max_hp"`
	GrowthMaxSP       float64 `db:"growth_max_sp"`
	GrowthHPRegen     float64 `db:"growth_hp_regen"`
	GrowthSPRegen     float64 `db:"growth_sp_regen"`
}

// Equipment is one armor or weapon item. Ratio stats are stored as integer
// percents.
type Equipment struct {
	EquipmentID           int     `db:"equipment_id"`
	EquipmentName         string  `db:"equipment_name"`
	EquipmentMainType     string  `db:"equipment_main_type"`
	EquipmentSubType      string  `db:"equipment_sub_type"`
	EquipmentGrade        int     `db:"equipment_grade"`
	AttackPower           float64 `db:"attack_power"`
	AttackPowerByLv       float64 `db:"attack_power_bylv"`
	Defense               float64 `db:"defense"`
	DefenseByLv           float64 `db:"defense_bylv"`
	SkillAmp              float64 `db:"skill_amp"`
	SkillAmpByLv          float64 `db:"skill_amp_bylv"`
	SkillAmpRatio         int     `db:"skill_amp_ratio"`
	AdaptiveForce         float64 `db:"adaptive_force"`
	MaxHP                 float64 `db:"max_hp"`
	MaxHPByLv             float64 `db:"max_hp_bylv"`
	MaxSP                 float64 `db:"max_sp"`
	HPRegenPercent        int     `db:"hp_regen_percent"`
	SPRegenPercent        int     `db:"sp_regen_percent"`
	AttackSpeedPercent    int     `db:"attack_speed_percent"`
	CriticalPercent       int     `db:"critical_percent"`
	CriticalDamagePercent int     `db:"critical_damage_percent"`
	CooldownPercent       int     `db:"cooldown_percent"`
	LifeStealPercent      int     `db:"life_steal_percent"`
	NormalLifeSteal       int     `db:"normal_life_steel"`
	MoveSpeed             float64 `db:"move_speed"`
	MoveSpeedPercent      int     `db:"move_speed_percent"`
	SightRange            float64 `db:"sight_range"`
	PenetrationDefense    float64 `db:"penetration_defense"`
	SlowResistPercent     int     `db:"slow_resist_percent"`
	CooldownLimitPercent  int     `db:"cooldown_limit_percent"`
	TenacityPercent       int     `db:"tenacity_percent"`
	UniqueSkillAmpPercent int     `db:"unique_skill_amp_percent"`
}

// Trait is one selectable trait with its localized name.
type Trait struct {
	TraitID   int    `db:"trait_id"`
	TraitName string `db:"trait_name"`
}
