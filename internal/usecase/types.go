package usecase

import "context"

// ExternalRankedUser is one entry of the top-ranker leaderboard.
type ExternalRankedUser struct {
	UserNum  int64  `json:"userNum"`
	Nickname string `json:"nickname"`
	Rank     int    `json:"rank"`
	MMR      int    `json:"mmr"`
}

// ExternalUserMatchPage is one page of a player's match history. Next is
// the pagination token, zero when the history is exhausted.
type ExternalUserMatchPage struct {
	UserGames []ExternalUserGame `json:"userGames"`
	Next      int64              `json:"next"`
}

// ExternalMatchPayload is the full record of one match, one entry per
// participant.
type ExternalMatchPayload struct {
	UserGames []ExternalUserGame `json:"userGames"`
}

// ExternalUserGame is a single participant's record as served by the
// upstream API. Field names follow the wire format.
type ExternalUserGame struct {
	GameID       int64  `json:"gameId"`
	UserNum      int64  `json:"userNum"`
	StartDtm     string `json:"startDtm"`
	MatchingMode int    `json:"matchingMode"`
	TeamMode     int    `json:"matchingTeamMode"`
	SeasonID     int    `json:"seasonId"`
	VersionMajor int    `json:"versionMajor"`
	VersionMinor int    `json:"versionMinor"`
	MainWeather  int    `json:"mainWeather"`
	SubWeather   int    `json:"subWeather"`
	MMRAvg       int    `json:"mmrAvg"`

	GameRank    int `json:"gameRank"`
	PlayTime    int `json:"playTime"`
	WatchTime   int `json:"watchTime"`
	TeamNumber  int `json:"teamNumber"`
	EscapeState int `json:"escapeState"`

	TeamDown        int `json:"teamDown"`
	TeamElimination int `json:"teamElimination"`

	// Auto-resurrection accounting before the version-45 rename.
	TeamDownInAutoResurrection             int `json:"teamDownInAutoResurrection"`
	TeamDownDeactiveAutoResurrection       int `json:"teamDownDeactiveAutoResurrection"`
	TeamRepeatDownInAutoResurrection       int `json:"teamRepeatDownInAutoResurrection"`
	TeamRepeatDownDeactiveAutoResurrection int `json:"teamRepeatDownDeactiveAutoResurrection"`

	// The same accounting from version 45 on.
	TeamDownCanNotEliminate       int `json:"teamDownCanNotEliminate"`
	TeamDownCanEliminate          int `json:"teamDownCanEliminate"`
	TeamRepeatDownCanNotEliminate int `json:"teamRepeatDownCanNotEliminate"`
	TeamRepeatDownCanEliminate    int `json:"teamRepeatDownCanEliminate"`

	ExceptPreMadeTeam        int    `json:"exceptPreMadeTeam"`
	CharacterNum             int    `json:"characterNum"`
	SkinCode                 int    `json:"skinCode"`
	CharacterLevel           int    `json:"characterLevel"`
	PlayerKill               int    `json:"playerKill"`
	PlayerDeaths             int    `json:"playerDeaths"`
	PlayerAssistant          int    `json:"playerAssistant"`
	BestWeapon               int    `json:"bestWeapon"`
	BestWeaponLevel          int    `json:"bestWeaponLevel"`
	DamageToPlayer           int    `json:"damageToPlayer"`
	DamageFromPlayer         int    `json:"damageFromPlayer"`
	HealAmount               int    `json:"healAmount"`
	TeamRecover              int    `json:"teamRecover"`
	UseHyperLoop             int    `json:"useHyperLoop"`
	UseSecurityConsole       int    `json:"useSecurityConsole"`
	RouteIDOfStart           int    `json:"routeIdOfStart"`
	PlaceOfStart             string `json:"placeOfStart"`
	UseEmoticonCount         int    `json:"useEmoticonCount"`
	FishingCount             int    `json:"fishingCount"`
	TacticalSkillGroup       int    `json:"tacticalSkillGroup"`
	TacticalSkillLevel       int    `json:"tacticalSkillLevel"`
	TacticalSkillUseCount    int    `json:"tacticalSkillUseCount"`
	CreditRevivalCount       int    `json:"creditRevivalCount"`
	CreditRevivedOthersCount int    `json:"creditRevivedOthersCount"`

	Equipment            map[string]int   `json:"equipment"`
	EquipFirstItemForLog map[string][]int `json:"equipFirstItemForLog"`

	MaxHP                int     `json:"maxHp"`
	MaxSP                int     `json:"maxSp"`
	HPRegen              float64 `json:"hpRegen"`
	SPRegen              float64 `json:"spRegen"`
	Defense              int     `json:"defense"`
	AttackPower          int     `json:"attackPower"`
	AttackSpeed          float64 `json:"attackSpeed"`
	SkillAmp             int     `json:"skillAmp"`
	CoolDownReduction    float64 `json:"coolDownReduction"`
	AdaptiveForce        int     `json:"adaptiveForce"`
	AdaptiveForceAttack  int     `json:"adaptiveForceAttack"`
	AdaptiveForceAmplify int     `json:"adaptiveForceAmplify"`
	MoveSpeed            float64 `json:"moveSpeed"`
	OutOfCombatMoveSpeed float64 `json:"outOfCombatMoveSpeed"`
	SightRange           float64 `json:"sightRange"`
	AttackRange          float64 `json:"attackRange"`
	CriticalStrikeChance float64 `json:"criticalStrikeChance"`
	CriticalStrikeDamage float64 `json:"criticalStrikeDamage"`
	LifeSteal            float64 `json:"lifeSteal"`
	NormalLifeSteal      float64 `json:"normalLifeSteal"`
	SkillLifeSteal       int     `json:"skillLifeSteal"`

	DamageToPlayerBasic     int `json:"damageToPlayer_basic"`
	DamageToPlayerSkill     int `json:"damageToPlayer_skill"`
	DamageToPlayerDirect    int `json:"damageToPlayer_direct"`
	DamageToPlayerShield    int `json:"damageToPlayer_Shield"`
	DamageToPlayerItemSkill int `json:"damageToPlayer_itemSkill"`
	DamageToPlayerTrap      int `json:"damageToPlayer_trap"`

	DamageFromPlayerBasic     int `json:"damageFromPlayer_basic"`
	DamageFromPlayerSkill     int `json:"damageFromPlayer_skill"`
	DamageFromPlayerDirect    int `json:"damageFromPlayer_direct"`
	DamageOffsetedByShield    int `json:"damageOffsetedByShield_Player"`
	DamageFromPlayerItemSkill int `json:"damageFromPlayer_itemSkill"`
	DamageFromPlayerTrap      int `json:"damageFromPlayer_trap"`

	TraitFirstCore int   `json:"traitFirstCore"`
	TraitFirstSub  []int `json:"traitFirstSub"`
	TraitSecondSub []int `json:"traitSecondSub"`

	MMRBefore        int `json:"mmrBefore"`
	MMRAfter         int `json:"mmrAfter"`
	MMRGain          int `json:"mmrGain"`
	MMRLossEntryCost int `json:"mmrLossEntryCost"`

	KillsPhaseOne    int `json:"killsPhaseOne"`
	KillsPhaseTwo    int `json:"killsPhaseTwo"`
	KillsPhaseThree  int `json:"killsPhaseThree"`
	DeathsPhaseOne   int `json:"deathsPhaseOne"`
	DeathsPhaseTwo   int `json:"deathsPhaseTwo"`
	DeathsPhaseThree int `json:"deathsPhaseThree"`

	ViewContribution      float64 `json:"viewContribution"`
	AddTelephotoCamera    int     `json:"addTelephotoCamera"`
	RemoveTelephotoCamera int     `json:"removeTelephotoCamera"`
	UseEmpDrone           int     `json:"useEmpDrone"`
	UseReconDrone         int     `json:"useReconDrone"`

	DamageToGuideRobot int            `json:"damageToGuideRobot"`
	DamageToMonster    int            `json:"damageToMonster"`
	MonsterKill        int            `json:"monsterKill"`
	KillMonsters       map[string]int `json:"killMonsters"`
	GetBuffCubeRed     int            `json:"getBuffCubeRed"`
	GetBuffCubeGreen   int            `json:"getBuffCubeGreen"`
	GetBuffCubeGold    int            `json:"getBuffCubeGold"`
	GetBuffCubePurple  int            `json:"getBuffCubePurple"`
	GetBuffCubeSkyBlue int            `json:"getBuffCubeSkyBlue"`
	CollectItemForLog  []int          `json:"collectItemForLog"`
	AirSupplyOpenCount []int          `json:"airSupplyOpenCount"`

	CreditSource      map[string]float64 `json:"creditSource"`
	TotalGainVFCredit int                `json:"totalGainVFCredit"`
	CrGetKill         int                `json:"crGetKill"`
	CrGetByGuideRobot int                `json:"crGetByGuideRobot"`

	TotalUseVFCredit                      int   `json:"totalUseVFCredit"`
	TransferConsoleFromRevivalUseVFCredit int   `json:"transferConsoleFromRevivalUseVFCredit"`
	RemoteDroneUseVFCreditMySelf          int   `json:"remoteDroneUseVFCreditMySelf"`
	RemoteDroneUseVFCreditAlly            int   `json:"remoteDroneUseVFCreditAlly"`
	CrUseUpgradeTacticalSkill             int   `json:"crUseUpgradeTacticalSkill"`
	CrUseTreeOfLife                       int   `json:"crUseTreeOfLife"`
	CrUseMeteorite                        int   `json:"crUseMeteorite"`
	CrUseMythril                          int   `json:"crUseMythril"`
	CrUseForceCore                        int   `json:"crUseForceCore"`
	CrUseVFBloodSample                    int   `json:"crUseVFBloodSample"`
	CrUseRootkit                          int   `json:"crUseRootkit"`
	ItemTransferredDrone                  []int `json:"itemTransferredDrone"`

	UsedVFCredits  []int `json:"usedVFCredits"`
	TotalVFCredits []int `json:"totalVFCredits"`
}

// ExternalCharacter is a character entry from the reference-data endpoint.
type ExternalCharacter struct {
	Code             int     `json:"code"`
	Name             string  `json:"name"`
	AttackPower      float64 `json:"attackPower"`
	Defense          float64 `json:"defense"`
	SkillAmp         float64 `json:"skillAmp"`
	MaxHP            int     `json:"maxHp"`
	MaxSP            int     `json:"maxSp"`
	HPRegen          float64 `json:"hpRegen"`
	SPRegen          float64 `json:"spRegen"`
	AttackSpeed      float64 `json:"attackSpeed"`
	AttackSpeedLimit float64 `json:"attackSpeedLimit"`
	MoveSpeed        float64 `json:"moveSpeed"`
	SightRange       float64 `json:"sightRange"`
}

// ExternalCharacterLevelUp carries per-level stat growth for one character.
type ExternalCharacterLevelUp struct {
	Code        int     `json:"code"`
	AttackPower float64 `json:"attackPower"`
	Defense     float64 `json:"defense"`
	MaxHP       float64 `json:"maxHp"`
	MaxSP       float64 `json:"maxSp"`
	HPRegen     float64 `json:"hpRegen"`
	SPRegen     float64 `json:"spRegen"`
}

// ExternalEquipmentItem is one armor or weapon entry from the
// reference-data endpoints. Armor rows carry armorType, weapon rows
// weaponType.
type ExternalEquipmentItem struct {
	Code                 int     `json:"code"`
	Name                 string  `json:"name"`
	ItemType             string  `json:"itemType"`
	ArmorType            string  `json:"armorType"`
	WeaponType           string  `json:"weaponType"`
	ItemGrade            string  `json:"itemGrade"`
	AttackPower          float64 `json:"attackPower"`
	AttackPowerByLv      float64 `json:"attackPowerByLv"`
	Defense              float64 `json:"defense"`
	DefenseByLv          float64 `json:"defenseByLv"`
	SkillAmp             float64 `json:"skillAmp"`
	SkillAmpByLevel      float64 `json:"skillAmpByLevel"`
	SkillAmpRatio        float64 `json:"skillAmpRatio"`
	AdaptiveForce        float64 `json:"adaptiveForce"`
	MaxHP                float64 `json:"maxHp"`
	MaxHPByLv            float64 `json:"maxHpByLv"`
	MaxSP                float64 `json:"maxSp"`
	HPRegenRatio         float64 `json:"hpRegenRatio"`
	SPRegenRatio         float64 `json:"spRegenRatio"`
	AttackSpeedRatio     float64 `json:"attackSpeedRatio"`
	CriticalStrikeChance float64 `json:"criticalStrikeChance"`
	CriticalStrikeDamage float64 `json:"criticalStrikeDamage"`
	CooldownReduction    float64 `json:"cooldownReduction"`
	LifeSteal            float64 `json:"lifeSteal"`
	NormalLifeSteal      float64 `json:"normalLifeSteal"`
	MoveSpeed            float64 `json:"moveSpeed"`
	MoveSpeedRatio       float64 `json:"moveSpeedRatio"`
	SightRange           float64 `json:"sightRange"`
	PenetrationDefense   float64 `json:"penetrationDefense"`
	SlowResistRatio      float64 `json:"slowResistRatio"`
	UniqueCooldownLimit  float64 `json:"uniqueCooldownLimit"`
	UniqueTenacity       float64 `json:"uniqueTenacity"`
	UniqueSkillAmpRatio  float64 `json:"uniqueSkillAmpRatio"`
}

// ExternalTrait is one trait entry from the reference-data endpoint.
type ExternalTrait struct {
	Code       int    `json:"code"`
	Name       string `json:"name"`
	TraitGroup string `json:"traitGroup"`
}

// RankingProvider lists the current top-ranked players.
type RankingProvider interface {
	TopRankers(ctx context.Context, seasonID, matchingMode int) ([]ExternalRankedUser, error)
}

// UserMatchProvider pages through one player's match history.
type UserMatchProvider interface {
	UserMatchPage(ctx context.Context, userNum, next int64) (ExternalUserMatchPage, error)
}

// MatchProvider fetches one full match payload.
type MatchProvider interface {
	MatchByID(ctx context.Context, matchID int64) (*ExternalMatchPayload, error)
}

// StaticDataProvider fetches game reference data.
type StaticDataProvider interface {
	Characters(ctx context.Context) ([]ExternalCharacter, []ExternalCharacterLevelUp, error)
	EquipmentItems(ctx context.Context) (armor, weapon []ExternalEquipmentItem, err error)
	Traits(ctx context.Context) ([]ExternalTrait, error)
	L10nText(ctx context.Context) (string, error)
}
