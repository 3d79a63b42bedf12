package sim

import (
	"sort"

	"hoopsim/internal/constants"
	"hoopsim/internal/domain"
	"hoopsim/internal/rng"
)

// buildBoxScore produces one side's stat lines. Points sum exactly to
// teamScore and minutes sum exactly to 240; everything else only has to be
// plausible for the player's role and floor time.
func buildBoxScore(src *rng.Source, sheet TeamSheet, teamScore, oppScore int) []domain.StatLine {
	rotation := pickRotation(sheet.Players)
	minutes := allocateMinutes(src, rotation)
	points := allocatePoints(src, rotation, teamScore)

	lines := make([]domain.StatLine, len(rotation))
	for i, p := range rotation {
		lines[i] = buildStatLine(src, p, sheet.Team.ID, minutes[i], points[i], teamScore, oppScore)
	}
	return lines
}

// pickRotation takes the top of the roster by minutes tendency: the first
// five are the starters, the rest the bench, capped at the rotation size.
func pickRotation(players []domain.Player) []domain.Player {
	rotation := make([]domain.Player, len(players))
	copy(rotation, players)
	sort.SliceStable(rotation, func(i, j int) bool {
		return rotation[i].Minutes > rotation[j].Minutes
	})
	if len(rotation) > constants.RotationSize {
		rotation = rotation[:constants.RotationSize]
	}
	return rotation
}

func allocateMinutes(src *rng.Source, rotation []domain.Player) []int {
	weights := make([]float64, len(rotation))
	for i, p := range rotation {
		tier := 1.0
		if i < 5 {
			tier = 1.6
		}
		base := p.Minutes
		if base < 10 {
			base = 10
		}
		weights[i] = tier * base * src.Uniform(0.9, 1.1)
	}

	minutes := allocateExact(constants.TeamMinutes, weights)
	capMinutes(minutes)
	return minutes
}

// capMinutes pulls any allocation above 48 back down and hands the excess
// to players still under the cap. With at least five players the 240 total
// always fits.
func capMinutes(minutes []int) {
	excess := 0
	for i := range minutes {
		if minutes[i] > constants.MaxPlayerMins {
			excess += minutes[i] - constants.MaxPlayerMins
			minutes[i] = constants.MaxPlayerMins
		}
	}
	for excess > 0 {
		moved := false
		for i := range minutes {
			if excess == 0 {
				break
			}
			if minutes[i] < constants.MaxPlayerMins {
				minutes[i]++
				excess--
				moved = true
			}
		}
		if !moved {
			break
		}
	}
}

func allocatePoints(src *rng.Source, rotation []domain.Player, teamScore int) []int {
	weights := make([]float64, len(rotation))
	for i, p := range rotation {
		w := p.Scoring
		if w < 1 {
			w = 1
		}
		// Hot or cold night.
		weights[i] = w * src.Uniform(0.7, 1.3)
	}
	return allocateExact(teamScore, weights)
}

func buildStatLine(src *rng.Source, p domain.Player, teamID string, minutes, points, teamScore, oppScore int) domain.StatLine {
	// Secondary stats scale loosely with floor time relative to the
	// player's usual minutes.
	floorShare := float64(minutes) / 36.0
	if floorShare > 1.3 {
		floorShare = 1.3
	}
	if floorShare < 0.3 {
		floorShare = 0.3
	}

	rebounds := int(p.Rebounding * src.Uniform(0.7, 1.3) * floorShare)
	assists := int(p.Playmaking * src.Uniform(0.7, 1.3) * floorShare)
	steals := int(p.Stealing * src.Uniform(0.5, 1.5))
	blocks := int(p.ShotBlock * src.Uniform(0.5, 1.5))
	turnovers := int(float64(assists) * src.Uniform(0.3, 0.6))

	fgm, fga, tpm, tpa, ftm, fta := shootingSplit(src, p, points)

	oreb := rebounds / 3
	dreb := rebounds - oreb

	margin := teamScore - oppScore
	plusMinus := int(float64(margin) * (float64(minutes) / 48.0) * src.Uniform(0.8, 1.2))

	line := domain.StatLine{
		PlayerID:    p.ID,
		TeamID:      teamID,
		Minutes:     minutes,
		Points:      points,
		Rebounds:    rebounds,
		OffRebounds: oreb,
		DefRebounds: dreb,
		Assists:     assists,
		Steals:      steals,
		Blocks:      blocks,
		Turnovers:   turnovers,
		Fouls:       src.Between(0, 5),
		FGM:         fgm,
		FGA:         fga,
		TPM:         tpm,
		TPA:         tpa,
		FTM:         ftm,
		FTA:         fta,
		PlusMinus:   plusMinus,
		PlayerName:  p.Name,
	}

	if denom := float64(fga) + 0.44*float64(fta); denom > 0 {
		line.TrueShooting = round3(float64(points) / (2 * denom))
	}
	if fga > 0 {
		line.EffectiveFG = round3((float64(fgm) + 0.5*float64(tpm)) / float64(fga))
	}
	if minutes > 0 {
		line.UsageRate = round3((float64(fga) + 0.44*float64(fta) + float64(turnovers)) * 48 / float64(minutes))
		raw := float64(points+rebounds+assists+steals+blocks-(fga-fgm)-(fta-ftm)-turnovers) / float64(minutes)
		if raw < 0 {
			raw = 0
		}
		line.PER = round1(raw * 10)
	}
	return line
}

// shootingSplit decomposes a point total into made threes, twos and free
// throws so that 3*TPM + 2*(FGM-TPM) + FTM == points, then derives attempts
// from the player's shooting percentages (floored so attempts stay sane
// for poor shooters).
func shootingSplit(src *rng.Source, p domain.Player, points int) (fgm, fga, tpm, tpa, ftm, fta int) {
	tpm = int(float64(points) * src.Uniform(0.15, 0.35) / 3)
	if 3*tpm > points {
		tpm = points / 3
	}

	rem := points - 3*tpm
	ftm = int(float64(rem) * src.Uniform(0.10, 0.30))
	if ftm > rem {
		ftm = rem
	}
	// Twos are worth two points, so what remains after free throws must be
	// even.
	if (rem-ftm)%2 != 0 {
		if ftm+1 <= rem {
			ftm++
		} else {
			ftm = rem
		}
	}
	twos := (rem - ftm) / 2
	fgm = twos + tpm

	threePct := p.ThreePct
	if threePct < 0.30 {
		threePct = 0.30
	}
	fgPct := p.FGPct
	if fgPct < 0.38 {
		fgPct = 0.38
	}
	ftPct := p.FTPct
	if ftPct < 0.70 {
		ftPct = 0.70
	}

	tpa = tpm
	if tpm > 0 {
		tpa = int(float64(tpm) / threePct)
	}
	fga = fgm
	if fgm > 0 {
		fga = int(float64(fgm) / fgPct)
	}
	if fga < tpa {
		fga = tpa
	}
	fta = ftm
	if ftm > 0 {
		fta = int(float64(ftm) / ftPct)
	}
	return fgm, fga, tpm, tpa, ftm, fta
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
