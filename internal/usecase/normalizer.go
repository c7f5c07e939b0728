package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ksj1368/er-crawler/internal/domain/match"
)

// startDtmLayout is the upstream timestamp format, millisecond precision
// with a numeric zone offset.
const startDtmLayout = "2006-01-02T15:04:05.000-0700"

// legacyVersionMajor is the last major version using the old
// auto-resurrection field names.
const legacyVersionMajor = 44

// Unit credit costs for items delivered by remote drone. These are fixed
// game constants.
const (
	itemCodeEmpDrone     = 502308
	itemCodeReconDrone   = 502208
	itemCodeCamera       = 502207
	itemCodeGuillotine   = 502405
	itemCodeC4           = 502404
	itemCodeFriedChicken = 301316

	costEmpDrone     = 30
	costReconDrone   = 20
	costCamera       = 20
	costGuillotine   = 100
	costC4           = 100
	costFriedChicken = 25
)

// creditTimeSeriesMinutes is the fixed length of the per-minute credit
// series.
const creditTimeSeriesMinutes = 20

// Normalize turns one raw match payload into the full relational record
// set. It is deterministic and has no side effects. A payload without
// participants, or whose first participant lacks the match-level fields,
// fails with ErrMalformedPayload.
func Normalize(payload ExternalMatchPayload) (match.RecordSet, error) {
	if len(payload.UserGames) == 0 {
		return match.RecordSet{}, fmt.Errorf("%w: no user games", ErrMalformedPayload)
	}

	info, err := normalizeInfo(payload.UserGames)
	if err != nil {
		return match.RecordSet{}, err
	}

	rs := match.RecordSet{
		Info:        info,
		Teams:       normalizeTeams(payload.UserGames),
		Basics:      make([]match.UserBasic, 0, len(payload.UserGames)),
		Equipments:  make([]match.UserEquipment, 0, len(payload.UserGames)),
		Stats:       make([]match.UserStat, 0, len(payload.UserGames)),
		Damages:     make([]match.UserDamage, 0, len(payload.UserGames)),
		Traits:      make([]match.UserTrait, 0, len(payload.UserGames)),
		MMRs:        make([]match.UserMMR, 0, len(payload.UserGames)),
		KDADetails:  make([]match.UserKDADetail, 0, len(payload.UserGames)),
		Sights:      make([]match.UserSight, 0, len(payload.UserGames)),
		Objects:     make([]match.UserObject, 0, len(payload.UserGames)),
		GainCredits: make([]match.UserGainCredit, 0, len(payload.UserGames)),
		UseCredits:  make([]match.UserUseCredit, 0, len(payload.UserGames)),
	}

	for i := range payload.UserGames {
		p := &payload.UserGames[i]

		basic, err := normalizeBasic(p)
		if err != nil {
			return match.RecordSet{}, err
		}
		rs.Basics = append(rs.Basics, basic)
		rs.Equipments = append(rs.Equipments, normalizeEquipment(p))
		rs.Stats = append(rs.Stats, normalizeStat(p))
		rs.Damages = append(rs.Damages, normalizeDamage(p))

		trait, err := normalizeTrait(p)
		if err != nil {
			return match.RecordSet{}, err
		}
		rs.Traits = append(rs.Traits, trait)

		rs.MMRs = append(rs.MMRs, match.UserMMR{
			MatchID:      p.GameID,
			UserID:       p.UserNum,
			BeforeMMR:    p.MMRBefore,
			AfterMMR:     p.MMRAfter,
			MMRGain:      p.MMRGain,
			MMREntryLoss: p.MMRLossEntryCost,
		})
		rs.KDADetails = append(rs.KDADetails, match.UserKDADetail{
			MatchID:         p.GameID,
			UserID:          p.UserNum,
			KillPhaseOne:    p.KillsPhaseOne,
			KillPhaseTwo:    p.KillsPhaseTwo,
			KillPhaseThree:  p.KillsPhaseThree,
			DeathPhaseOne:   p.DeathsPhaseOne,
			DeathPhaseTwo:   p.DeathsPhaseTwo,
			DeathPhaseThree: p.DeathsPhaseThree,
		})
		rs.Sights = append(rs.Sights, match.UserSight{
			MatchID:         p.GameID,
			UserID:          p.UserNum,
			SightScore:      p.ViewContribution,
			CameraSetup:     p.AddTelephotoCamera,
			CameraRemove:    p.RemoveTelephotoCamera,
			EmpDroneSetup:   p.UseEmpDrone,
			BasicDroneSetup: p.UseReconDrone,
		})
		rs.Objects = append(rs.Objects, normalizeObject(p))
		rs.GainCredits = append(rs.GainCredits, normalizeGainCredit(p))
		rs.UseCredits = append(rs.UseCredits, normalizeUseCredit(p))
		rs.CreditTimes = append(rs.CreditTimes, normalizeCreditTimes(p)...)
	}

	return rs, nil
}

func normalizeInfo(games []ExternalUserGame) (match.Info, error) {
	first := &games[0]
	if first.GameID == 0 || first.StartDtm == "" {
		return match.Info{}, fmt.Errorf("%w: first participant is missing match fields", ErrMalformedPayload)
	}

	start, err := time.Parse(startDtmLayout, first.StartDtm)
	if err != nil {
		return match.Info{}, fmt.Errorf("%w: parse startDtm %q: %v", ErrMalformedPayload, first.StartDtm, err)
	}

	// The winner's play time marks the end of the match. Payloads without
	// a rank-1 participant keep a NULL end time.
	var matchEnd *time.Time
	for i := range games {
		if games[i].GameRank == 1 {
			end := start.Add(time.Duration(games[i].PlayTime) * time.Second)
			matchEnd = &end
			break
		}
	}

	return match.Info{
		MatchID:      first.GameID,
		StartDtm:     start,
		MatchMode:    first.TeamMode,
		SeasonID:     first.SeasonID,
		VersionMajor: first.VersionMajor,
		VersionMinor: first.VersionMinor,
		WeatherMain:  first.MainWeather,
		WeatherSub:   first.SubWeather,
		MatchSize:    len(games),
		MatchAvgMMR:  first.MMRAvg,
		MatchEnd:     matchEnd,
	}, nil
}

// normalizeTeams emits one row per team, keeping the first participant
// seen for each. Up to version 44 the upstream used the
// *AutoResurrection field names, afterwards the *CanEliminate ones.
func normalizeTeams(games []ExternalUserGame) []match.TeamInfo {
	teams := make([]match.TeamInfo, 0, len(games)/3+1)
	seen := make(map[int]struct{}, len(games)/3+1)

	for i := range games {
		p := &games[i]
		if _, ok := seen[p.TeamNumber]; ok {
			continue
		}
		seen[p.TeamNumber] = struct{}{}

		row := match.TeamInfo{
			MatchID:              p.GameID,
			TeamID:               p.TeamNumber,
			TeamRanking:          p.GameRank,
			EscapeState:          p.EscapeState,
			PlayerDown:           p.TeamDown,
			TeamEliminationCount: p.TeamElimination,
		}
		if p.VersionMajor <= legacyVersionMajor {
			row.TeamDownInAutoResurrection = p.TeamDownInAutoResurrection
			row.TeamDownAfterAutoResurrection = p.TeamDownDeactiveAutoResurrection
			row.TeamRepeatDownInAutoResurrection = p.TeamRepeatDownInAutoResurrection
			row.TeamRepeatDownAfterAutoResurrect = p.TeamRepeatDownDeactiveAutoResurrection
		} else {
			row.TeamDownInAutoResurrection = p.TeamDownCanNotEliminate
			row.TeamDownAfterAutoResurrection = p.TeamDownCanEliminate
			row.TeamRepeatDownInAutoResurrection = p.TeamRepeatDownCanNotEliminate
			row.TeamRepeatDownAfterAutoResurrect = p.TeamRepeatDownCanEliminate
		}
		teams = append(teams, row)
	}

	return teams
}

func normalizeBasic(p *ExternalUserGame) (match.UserBasic, error) {
	startPlace, err := strconv.Atoi(strings.TrimSpace(p.PlaceOfStart))
	if err != nil {
		return match.UserBasic{}, fmt.Errorf("%w: user %d placeOfStart %q", ErrMalformedPayload, p.UserNum, p.PlaceOfStart)
	}

	return match.UserBasic{
		MatchID:                 p.GameID,
		UserID:                  p.UserNum,
		TeamID:                  p.TeamNumber,
		ExceptPremadeTeam:       p.ExceptPreMadeTeam,
		CharacterID:             p.CharacterNum,
		SkinID:                  p.SkinCode,
		CharacterLevel:          p.CharacterLevel,
		TotalKill:               p.PlayerKill,
		TotalDeath:              p.PlayerDeaths,
		TotalAssist:             p.PlayerAssistant,
		WeaponType:              p.BestWeapon,
		WeaponLevel:             p.BestWeaponLevel,
		PlayTime:                p.PlayTime,
		WatchTime:               p.WatchTime,
		TotalDamageToPlayer:     p.DamageToPlayer,
		TotalDamageFromPlayer:   p.DamageFromPlayer,
		TotalHeal:               p.HealAmount,
		HealToTeam:              p.TeamRecover,
		UseLoopCount:            p.UseHyperLoop,
		UseSecurityConsoleCount: p.UseSecurityConsole,
		RouteID:                 p.RouteIDOfStart,
		StartPlace:              startPlace,
		EmotionCount:            p.UseEmoticonCount,
		FishingCount:            p.FishingCount,
		TacticalSkillID:         p.TacticalSkillGroup,
		TacticalSkillLevel:      p.TacticalSkillLevel,
		TacticalSkillCount:      p.TacticalSkillUseCount,
		CreditRevivalCount:      p.CreditRevivalCount,
		CreditRevivalOtherCount: p.CreditRevivedOthersCount,
	}, nil
}

// equipment slots, in column order weapon/chest/head/arm/leg.
var equipmentSlots = [5]string{"0", "1", "2", "3", "4"}

func normalizeEquipment(p *ExternalUserGame) match.UserEquipment {
	var final, first [5]*int
	for i, slot := range equipmentSlots {
		if code, ok := p.Equipment[slot]; ok {
			final[i] = itemCodeOrNil(code)
		}
		if history := p.EquipFirstItemForLog[slot]; len(history) > 0 {
			first[i] = itemCodeOrNil(history[len(history)-1])
		}
	}

	return match.UserEquipment{
		MatchID:              p.GameID,
		UserID:               p.UserNum,
		EquipmentWeapon:      final[0],
		EquipmentChest:       final[1],
		EquipmentHead:        final[2],
		EquipmentArm:         final[3],
		EquipmentLeg:         final[4],
		FirstEquipmentWeapon: first[0],
		FirstEquipmentChest:  first[1],
		FirstEquipmentHead:   first[2],
		FirstEquipmentArm:    first[3],
		FirstEquipmentLeg:    first[4],
	}
}

// itemCodeOrNil keeps zero item codes NULL so "no item" stays
// distinguishable from a real code.
func itemCodeOrNil(code int) *int {
	if code == 0 {
		return nil
	}
	return &code
}

func normalizeStat(p *ExternalUserGame) match.UserStat {
	return match.UserStat{
		MatchID:             p.GameID,
		UserID:              p.UserNum,
		HP:                  p.MaxHP,
		SP:                  p.MaxSP,
		HPRegen:             p.HPRegen,
		SPRegen:             p.SPRegen,
		Defense:             p.Defense,
		AttackPower:         p.AttackPower,
		AttackSpeed:         p.AttackSpeed,
		SkillAmp:            p.SkillAmp,
		CooldownPercent:     int(p.CoolDownReduction),
		AdaptiveForce:       p.AdaptiveForce,
		AdaptiveForceAttack: p.AdaptiveForceAttack,
		AdaptiveForceAmp:    p.AdaptiveForceAmplify,
		MoveSpeed:           p.MoveSpeed,
		OOCMoveSpeed:        p.OutOfCombatMoveSpeed,
		SightRange:          p.SightRange,
		AttackRange:         p.AttackRange,
		CriticalPercent:     int(p.CriticalStrikeChance),
		CriticalDamage:      int(p.CriticalStrikeDamage),
		LifeStealPercent:    int(100 * p.LifeSteal),
		NormalLifeSteal:     int(100 * p.NormalLifeSteal),
		SkillLifeSteal:      p.SkillLifeSteal,
	}
}

func normalizeDamage(p *ExternalUserGame) match.UserDamage {
	return match.UserDamage{
		MatchID:                p.GameID,
		UserID:                 p.UserNum,
		BasicDamageToPlayer:    p.DamageToPlayerBasic,
		SkillDamageToPlayer:    p.DamageToPlayerSkill,
		DirectDamageToPlayer:   p.DamageToPlayerDirect,
		ShieldDamageToPlayer:   p.DamageToPlayerShield,
		ItemDamageToPlayer:     p.DamageToPlayerItemSkill,
		TrapDamageToPlayer:     p.DamageToPlayerTrap,
		BasicDamageFromPlayer:  p.DamageFromPlayerBasic,
		SkillDamageFromPlayer:  p.DamageFromPlayerSkill,
		DirectDamageFromPlayer: p.DamageFromPlayerDirect,
		ShieldDamageFromPlayer: p.DamageOffsetedByShield,
		ItemDamageFromPlayer:   p.DamageFromPlayerItemSkill,
		TrapDamageFromPlayer:   p.DamageFromPlayerTrap,
	}
}

func normalizeTrait(p *ExternalUserGame) (match.UserTrait, error) {
	if len(p.TraitFirstSub) < 2 || len(p.TraitSecondSub) < 2 {
		return match.UserTrait{}, fmt.Errorf("%w: user %d has incomplete trait lists", ErrMalformedPayload, p.UserNum)
	}

	return match.UserTrait{
		MatchID:          p.GameID,
		UserID:           p.UserNum,
		CoreTraitID:      p.TraitFirstCore,
		FirstTraitIDOne:  p.TraitFirstSub[0],
		FirstTraitIDTwo:  p.TraitFirstSub[1],
		SecondTraitIDOne: p.TraitSecondSub[0],
		SecondTraitIDTwo: p.TraitSecondSub[1],
	}, nil
}

func normalizeObject(p *ExternalUserGame) match.UserObject {
	wickline := 0
	if p.KillMonsters["7"] > 0 {
		wickline = 1
	}

	return match.UserObject{
		MatchID:           p.GameID,
		UserID:            p.UserNum,
		DamageToRumi:      p.DamageToGuideRobot,
		DamageToMonster:   p.DamageToMonster,
		TotalKillMonster:  p.MonsterKill,
		KillAlpha:         p.KillMonsters["8"],
		KillOmega:         p.KillMonsters["9"],
		KillGamma:         p.KillMonsters["10"],
		KillWickline:      wickline,
		GetCubeRed:        p.GetBuffCubeRed,
		GetCubeGreen:      p.GetBuffCubeGreen,
		GetCubeGold:       p.GetBuffCubeGold,
		GetCubePurple:     p.GetBuffCubePurple,
		GetCubeSkyblue:    p.GetBuffCubeSkyBlue,
		CollectTreeOfLife: intAt(p.CollectItemForLog, 4),
		CollectMeteorite:  intAt(p.CollectItemForLog, 5),
		AirSupplyPurple:   intAt(p.AirSupplyOpenCount, 3),
		AirSupplyRed:      intAt(p.AirSupplyOpenCount, 5),
	}
}

func normalizeGainCredit(p *ExternalUserGame) match.UserGainCredit {
	cs := p.CreditSource

	return match.UserGainCredit{
		MatchID:           p.GameID,
		UserID:            p.UserNum,
		TotalGainCr:       p.TotalGainVFCredit,
		StartCr:           creditAt(cs, "PreliminaryPhase"),
		TimeElapseCr:      creditAt(cs, "TimeElapsedCompensationByMiliSecond"),
		TimeElapseBonusCr: creditAt(cs, "TimeElapsedCreditBonusByMiliSecond"),
		WildDogCr:         creditAt(cs, "KillWildDog"),
		BatCr:             creditAt(cs, "KillBat"),
		ChickenCr:         creditAt(cs, "KillChicken"),
		BoarCr:            creditAt(cs, "KillBoar"),
		WolfCr:            creditAt(cs, "KillWolf"),
		BearCr:            creditAt(cs, "KillBear"),
		RavenCr:           creditAt(cs, "KillRaven"),
		MutantWildDogCr:   creditAt(cs, "KillMutantWildDog"),
		MutantBatCr:       creditAt(cs, "KillMutantBat"),
		MutantChickenCr:   creditAt(cs, "KillMutantChicken"),
		MutantBoarCr:      creditAt(cs, "KillMutantBoar"),
		MutantWolfCr:      creditAt(cs, "KillMutantWolf"),
		MutantBearCr:      creditAt(cs, "KillMutantBear"),
		MutantRavenCr:     creditAt(cs, "KillMutantRaven"),
		AlphaCr:           creditAt(cs, "KillAlpha"),
		OmegaCr:           creditAt(cs, "KillOmega"),
		GammaCr:           creditAt(cs, "KillGamma"),
		WicklineCr:        creditAt(cs, "KillWickline"),
		SecurityConsoleCr: creditAt(cs, "GoldSecurityConsoleAccess"),
		DroneCr:           creditAt(cs, "KillDrone"),
		KillCr:            p.CrGetKill,
		KillByTeamCr:      creditAt(cs, "KillAssistDivideContribute"),
		RumiCr:            p.CrGetByGuideRobot,
		SkillCr:           creditAt(cs, "GetBySkill"),
		CoinTossCr:        creditAt(cs, "TraitSkillCoinToss"),
		ItemBountyCr:      creditAt(cs, "ItemBountyByItemCode"),
		KillBountyCr:      creditAt(cs, "ItemBounty"),
		DoorConsoleCr:     creditAt(cs, "DoorConsoleAccess"),
	}
}

func normalizeUseCredit(p *ExternalUserGame) match.UserUseCredit {
	cs := p.CreditSource

	return match.UserUseCredit{
		MatchID:               p.GameID,
		UserID:                p.UserNum,
		TotalUsedCr:           p.TotalUseVFCredit,
		UsedRevivalCr:         p.TransferConsoleFromRevivalUseVFCredit,
		UsedRemoteDroneSelfCr: p.RemoteDroneUseVFCreditMySelf,
		UsedRemoteDroneTeamCr: p.RemoteDroneUseVFCreditAlly,
		UsedTacticalSkillCr:   p.CrUseUpgradeTacticalSkill,
		UsedTreeOfLifeCr:      p.CrUseTreeOfLife,
		UsedMeteoriteCr:       p.CrUseMeteorite,
		UsedMythrilCr:         p.CrUseMythril,
		UsedForceCoreCr:       p.CrUseForceCore,
		UsedBloodSampleCr:     p.CrUseVFBloodSample,
		UsedEscapeKitCr:       p.CrUseRootkit,
		UsedEmpDroneCr:        countOf(p.ItemTransferredDrone, itemCodeEmpDrone) * costEmpDrone,
		UsedBasicDroneCr:      countOf(p.ItemTransferredDrone, itemCodeReconDrone) * costReconDrone,
		UsedCameraCr:          countOf(p.ItemTransferredDrone, itemCodeCamera) * costCamera,
		UsedGuillotineCr:      countOf(p.ItemTransferredDrone, itemCodeGuillotine) * costGuillotine,
		UsedC4Cr:              countOf(p.ItemTransferredDrone, itemCodeC4) * costC4,
		UsedFriedChickenCr:    countOf(p.ItemTransferredDrone, itemCodeFriedChicken) * costFriedChicken,
		UsedRumiSignatureCr:   creditAt(cs, "GuideRobotSignature"),
		UsedRumiFlagshipCr:    creditAt(cs, "guideRobotFlagShip"),
		UsedRumiRadialCr:      creditAt(cs, "GuideRobotRadial"),
	}
}

// normalizeCreditTimes expands the 20-minute series into sparse rows,
// skipping minutes without credit activity.
func normalizeCreditTimes(p *ExternalUserGame) []match.UserCreditTime {
	minutes := creditTimeSeriesMinutes
	if len(p.UsedVFCredits) < minutes {
		minutes = len(p.UsedVFCredits)
	}
	if len(p.TotalVFCredits) < minutes {
		minutes = len(p.TotalVFCredits)
	}

	var rows []match.UserCreditTime
	for minute := 0; minute < minutes; minute++ {
		used := p.UsedVFCredits[minute]
		gained := p.TotalVFCredits[minute]
		if used == 0 && gained == 0 {
			continue
		}
		rows = append(rows, match.UserCreditTime{
			MatchID:    p.GameID,
			UserID:     p.UserNum,
			Minute:     minute,
			UsedCredit: used,
			GainCredit: gained,
		})
	}

	return rows
}

func creditAt(cs map[string]float64, key string) int {
	return int(cs[key])
}

func countOf(items []int, code int) int {
	n := 0
	for _, item := range items {
		if item == code {
			n++
		}
	}
	return n
}

func intAt(s []int, idx int) int {
	if idx < 0 || idx >= len(s) {
		return 0
	}
	return s[idx]
}
