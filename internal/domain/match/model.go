package match

import "time"

// Table names for the per-match row sets, in insert order. Parent rows go
// first so foreign keys resolve within one transaction.
const (
	TableMatchInfo      = "match_info"
	TableTeamInfo       = "match_team_info"
	TableUserBasic      = "match_user_basic"
	TableUserEquipment  = "match_user_equipment"
	TableUserStat       = "match_user_stat"
	TableUserDamage     = "match_user_damage"
	TableUserTrait      = "match_user_trait"
	TableUserMMR        = "match_user_mmr"
	TableUserKDADetail  = "user_match_kda_detail"
	TableUserSight      = "match_user_sight"
	TableUserObject     = "object"
	TableUserGainCredit = "match_user_gain_credit"
	TableUserUseCredit  = "match_user_use_credit"
	TableUserCreditTime = "match_user_credit_time"
)

// Info is the single match-level row derived from the first participant.
type Info struct {
	MatchID      int64      `db:"match_id"`
	StartDtm     time.Time  `db:"start_dtm"`
	MatchMode    int        `db:"match_mode"`
	SeasonID     int        `db:"season_id"`
	VersionMajor int        `db:"version_major"`
	VersionMinor int        `db:"version_minor"`
	WeatherMain  int        `db:"weather_main"`
	WeatherSub   int        `db:"weather_sub"`
	MatchSize    int        `db:"match_size"`
	MatchAvgMMR  int        `db:"match_avg_mmr"`
	MatchEnd     *time.Time `db:"match_expire_dtm"`
}

// TeamInfo is one row per distinct team, first participant wins.
type TeamInfo struct {
	MatchID                          int64 `db:"match_id"`
	TeamID                           int   `db:"team_id"`
	TeamRanking                      int   `db:"team_ranking"`
	EscapeState                      int   `db:"escape_state"`
	PlayerDown                       int   `db:"player_down"`
	TeamEliminationCount             int   `db:"team_elimination_count"`
	TeamDownInAutoResurrection       int   `db:"team_down_in_auto_resurrection"`
	TeamDownAfterAutoResurrection    int   `db:"team_down_after_auto_resurrection"`
	TeamRepeatDownInAutoResurrection int   `db:"team_repeat_down_in_auto_resurrection"`
	TeamRepeatDownAfterAutoResurrect int   `db:"team_repeat_down_after_auto_resurrection"`
}

type UserBasic struct {
	MatchID                 int64 `db:"match_id"`
	UserID                  int64 `db:"user_id"`
	TeamID                  int   `db:"team_id"`
	ExceptPremadeTeam       int   `db:"except_premade_team"`
	CharacterID             int   `db:"character_id"`
	SkinID                  int   `db:"skin_id"`
	CharacterLevel          int   `db:"character_level"`
	TotalKill               int   `db:"total_kill"`
	TotalDeath              int   `db:"total_death"`
	TotalAssist             int   `db:"total_assist"`
	WeaponType              int   `db:"weapon_type"`
	WeaponLevel             int   `db:"weapon_level"`
	PlayTime                int   `db:"play_time"`
	WatchTime               int   `db:"watch_time"`
	TotalDamageToPlayer     int   `db:"total_damage_to_player"`
	TotalDamageFromPlayer   int   `db:"total_damage_from_player"`
	TotalHeal               int   `db:"total_heal"`
	HealToTeam              int   `db:"heal_to_team"`
	UseLoopCount            int   `db:"use_loop_count"`
	UseSecurityConsoleCount int   `db:"user_security_console_count"`
	RouteID                 int   `db:"route_id"`
	StartPlace              int   `db:"start_place"`
	EmotionCount            int   `db:"emotion_count"`
	FishingCount            int   `db:"fishing_count"`
	TacticalSkillID         int   `db:"tactical_skill_id"`
	TacticalSkillLevel      int   `db:"tactical_skill_level"`
	TacticalSkillCount      int   `db:"tactical_skill_count"`
	CreditRevivalCount      int   `db:"credit_revival_count"`
	CreditRevivalOtherCount int   `db:"credit_revival_other_count"`
}

// UserEquipment keeps final and first-equipped item codes per slot. A zero
// or absent slot means no item and stays NULL.
type UserEquipment struct {
	MatchID              int64 `db:"match_id"`
	UserID               int64 `db:"user_id"`
	EquipmentWeapon      *int  `db:"equipment_weapon"`
	EquipmentChest       *int  `db:"equipment_chest"`
	EquipmentHead        *int  `db:"equipment_head"`
	EquipmentArm         *int  `db:"equipment_arm"`
	EquipmentLeg         *int  `db:"equipment_leg"`
	FirstEquipmentWeapon *int  `db:"first_equipment_weapon"`
	FirstEquipmentChest  *int  `db:"first_equipment_chest"`
	FirstEquipmentHead   *int  `db:"first_equipment_head"`
	FirstEquipmentArm    *int  `db:"first_equipment_arm"`
	FirstEquipmentLeg    *int  `db:"first_equipment_leg"`
}

type UserStat struct {
	MatchID             int64   `db:"match_id"`
	UserID              int64   `db:"user_id"`
	HP                  int     `db:"hp"`
	SP                  int     `db:"sp"`
	HPRegen             float64 `db:"hp_regen"`
	SPRegen             float64 `db:"sp_regen"`
	Defense             int     `db:"defense"`
	AttackPower         int     `db:"attack_power"`
	AttackSpeed         float64 `db:"attack_speed"`
	SkillAmp            int     `db:"skill_amp"`
	CooldownPercent     int     `db:"cooldown_percent"`
	AdaptiveForce       int     `db:"adaptive_force"`
	AdaptiveForceAttack int     `db:"adaptive_force_attack"`
	AdaptiveForceAmp    int     `db:"adaptive_force_amp"`
	MoveSpeed           float64 `db:"move_speed"`
	OOCMoveSpeed        float64 `db:"ooc_move_speed"`
	SightRange          float64 `db:"sight_range"`
	AttackRange         float64 `db:"attack_range"`
	CriticalPercent     int     `db:"critical_percent"`
	CriticalDamage      int     `db:"critical_damage"`
	LifeStealPercent    int     `db:"life_steal_percent"`
	NormalLifeSteal     int     `db:"normal_life_steel"`
	SkillLifeSteal      int     `db:"skill_life_steel"`
}

type UserDamage struct {
	MatchID                int64 `db:"match_id"`
	UserID                 int64 `db:"user_id"`
	BasicDamageToPlayer    int   `db:"basic_damage_to_player"`
	SkillDamageToPlayer    int   `db:"skill_damage_to_player"`
	DirectDamageToPlayer   int   `db:"direct_damage_to_player"`
	ShieldDamageToPlayer   int   `db:"shield_damage_to_player"`
	ItemDamageToPlayer     int   `db:"item_damage_to_player"`
	TrapDamageToPlayer     int   `db:"trap_damage_to_player"`
	BasicDamageFromPlayer  int   `db:"basic_damage_from_player"`
	SkillDamageFromPlayer  int   `db:"skill_damage_from_player"`
	DirectDamageFromPlayer int   `db:"direct_damage_from_player"`
	ShieldDamageFromPlayer int   `db:"shield_damage_from_player"`
	ItemDamageFromPlayer   int   `db:"item_damage_from_player"`
	TrapDamageFromPlayer   int   `db:"trap_damage_from_player"`
}

type UserTrait struct {
	MatchID          int64 `db:"match_id"`
	UserID           int64 `db:"user_id"`
	CoreTraitID      int   `db:"core_trait_id"`
	FirstTraitIDOne  int   `db:"first_trait_id_one"`
	FirstTraitIDTwo  int   `db:"first_trait_id_two"`
	SecondTraitIDOne int   `db:"second_trait_id_one"`
	SecondTraitIDTwo int   `db:"second_trait_id_two"`
}

type UserMMR struct {
	MatchID      int64 `db:"match_id"`
	UserID       int64 `db:"user_id"`
	BeforeMMR    int   `db:"before_mmr"`
	AfterMMR     int   `db:"after_mmr"`
	MMRGain      int   `db:"mmr_gain"`
	MMREntryLoss int   `db:"mmr_entry_loss"`
}

type UserKDADetail struct {
	MatchID         int64 `db:"match_id"`
	UserID          int64 `db:"user_id"`
	KillPhaseOne    int   `db:"kill_phase_one"`
	KillPhaseTwo    int   `db:"kill_phase_two"`
	KillPhaseThree  int   `db:"kill_phase_three"`
	DeathPhaseOne   int   `db:"death_phase_one"`
	DeathPhaseTwo   int   `db:"death_phase_two"`
	DeathPhaseThree int   `db:"death_phase_three"`
}

type UserSight struct {
	MatchID         int64   `db:"match_id"`
	UserID          int64   `db:"user_id"`
	SightScore      float64 `db:"sight_score"`
	CameraSetup     int     `db:"camera_setup"`
	CameraRemove    int     `db:"camera_remove"`
	EmpDroneSetup   int     `db:"emp_drone_setup"`
	BasicDroneSetup int     `db:"basic_drone_setup"`
}

// UserObject counts field objectives. Boss kills come keyed by numeric
// monster codes; code 7 is stored as a 0/1 flag.
type UserObject struct {
	MatchID           int64 `db:"match_id"`
	UserID            int64 `db:"user_id"`
	DamageToRumi      int   `db:"damage_to_rumi"`
	DamageToMonster   int   `db:"damage_to_monster"`
	TotalKillMonster  int   `db:"total_kill_monster"`
	KillAlpha         int   `db:"kill_alpha"`
	KillOmega         int   `db:"kill_omega"`
	KillGamma         int   `db:"kill_gamma"`
	KillWickline      int   `db:"kill_wickline"`
	GetCubeRed        int   `db:"get_cube_red"`
	GetCubeGreen      int   `db:"get_cube_green"`
	GetCubeGold       int   `db:"get_cube_gold"`
	GetCubePurple     int   `db:"get_cube_purple"`
	GetCubeSkyblue    int   `db:"get_cube_skyblue"`
	CollectTreeOfLife int   `db:"collect_tree_of_life"`
	CollectMeteorite  int   `db:"collect_meteorite"`
	AirSupplyPurple   int   `db:"get_air_supply_purple"`
	AirSupplyRed      int   `db:"get_air_supply_red"`
}

type UserGainCredit struct {
	MatchID           int64 `db:"match_id"`
	UserID            int64 `db:"user_id"`
	TotalGainCr       int   `db:"total_gain_cr"`
	StartCr           int   `db:"start_cr"`
	TimeElapseCr      int   `db:"time_elapse_cr"`
	TimeElapseBonusCr int   `db:"time_elapse_bonus_cr"`
	WildDogCr         int   `db:"wild_dog_cr"`
	BatCr             int   `db:"bat_cr"`
	ChickenCr         int   `db:"chicken_cr"`
	BoarCr            int   `db:"boar_cr"`
	WolfCr            int   `db:"wolf_cr"`
	BearCr            int   `db:"bear_cr"`
	RavenCr           int   `db:"raven_cr"`
	MutantWildDogCr   int   `db:"mutant_wild_dog_cr"`
	MutantBatCr       int   `db:"mutant_bat_cr"`
	MutantChickenCr   int   `db:"mutant_chicken_cr"`
	MutantBoarCr      int   `db:"mutant_boar_cr"`
	MutantWolfCr      int   `db:"mutant_wolf_cr"`
	MutantBearCr      int   `db:"mutant_bear_cr"`
	MutantRavenCr     int   `db:"mutant_raven_cr"`
	AlphaCr           int   `db:"alpha_cr"`
	OmegaCr           int   `db:"omega_cr"`
	GammaCr           int   `db:"gamma_cr"`
	WicklineCr        int   `db:"wickline_cr"`
	SecurityConsoleCr int   `db:"security_console_cr"`
	DroneCr           int   `db:"drone_cr"`
	KillCr            int   `db:"kill_cr"`
	KillByTeamCr      int   `db:"kill_by_team_cr"`
	RumiCr            int   `db:"rumi_cr"`
	SkillCr           int   `db:"skill_cr"`
	CoinTossCr        int   `db:"cointoss_cr"`
	ItemBountyCr      int   `db:"item_bounty_cr"`
	KillBountyCr      int   `db:"kill_bounty_cr"`
	DoorConsoleCr     int   `db:"door_console_cr"`
}

type UserUseCredit struct {
	MatchID               int64 `db:"match_id"`
	UserID                int64 `db:"user_id"`
	TotalUsedCr           int   `db:"total_used_cr"`
	UsedRevivalCr         int   `db:"used_revival_cr"`
	UsedRemoteDroneSelfCr int   `db:"used_remote_drone_myself_cr"`
	UsedRemoteDroneTeamCr int   `db:"used_remote_drone_myteam_cr"`
	UsedTacticalSkillCr   int   `db:"used_tactical_skill_cr"`
	UsedTreeOfLifeCr      int   `db:"used_tree_of_life_cr"`
	UsedMeteoriteCr       int   `db:"used_meteorite_cr"`
	UsedMythrilCr         int   `db:"used_mythril_cr"`
	UsedForceCoreCr       int   `db:"used_forcecore_cr"`
	UsedBloodSampleCr     int   `db:"used_blood_sample_cr"`
	UsedEscapeKitCr       int   `db:"used_escapekit_cr"`
	UsedEmpDroneCr        int   `db:"used_emp_drone_cr"`
	UsedBasicDroneCr      int   `db:"used_basic_drone_cr"`
	UsedCameraCr          int   `db:"used_camera_cr"`
	UsedGuillotineCr      int   `db:"used_guillotine_cr"`
	UsedC4Cr              int   `db:"used_c4_cr"`
	UsedFriedChickenCr    int   `db:"used_fried_chicken_cr"`
	UsedRumiSignatureCr   int   `db:"used_rumi_signiture_cr"`
	UsedRumiFlagshipCr    int   `db:"used_rumi_fragship_cr"`
	UsedRumiRadialCr      int   `db:"used_rumi_radial_cr"`
}

// UserCreditTime is the sparse per-minute credit series. Rows exist only
// for minutes with nonzero activity.
type UserCreditTime struct {
	MatchID    int64 `db:"match_id"`
	UserID     int64 `db:"user_id"`
	Minute     int   `db:"minute"`
	UsedCredit int   `db:"used_credit"`
	GainCredit int   `db:"gain_credit"`
}

// RecordSet holds every row derived from one match payload. It is persisted
// atomically, all tables or none.
type RecordSet struct {
	Info        Info
	Teams       []TeamInfo
	Basics      []UserBasic
	Equipments  []UserEquipment
	Stats       []UserStat
	Damages     []UserDamage
	Traits      []UserTrait
	MMRs        []UserMMR
	KDADetails  []UserKDADetail
	Sights      []UserSight
	Objects     []UserObject
	GainCredits []UserGainCredit
	UseCredits  []UserUseCredit
	CreditTimes []UserCreditTime
}

func (rs RecordSet) MatchID() int64 {
	return rs.Info.MatchID
}
