package seed

import (
	"context"
	"fmt"
	"time"

	"hoopsim/internal/domain"
	"hoopsim/internal/repository"
	"hoopsim/internal/rng"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type teamSpec struct {
	City string
	Name string
	Abbr string
}

// The 30 current franchises plus Seattle and Las Vegas to fill a 32-team
// bracket.
var leagueTeams = []teamSpec{
	{"Boston", "Celtics", "BOS"},
	{"Brooklyn", "Nets", "BKN"},
	{"New York", "Knicks", "NYK"},
	{"Philadelphia", "76ers", "PHI"},
	{"Toronto", "Raptors", "TOR"},
	{"Chicago", "Bulls", "CHI"},
	{"Cleveland", "Cavaliers", "CLE"},
	{"Detroit", "Pistons", "DET"},
	{"Indiana", "Pacers", "IND"},
	{"Milwaukee", "Bucks", "MIL"},
	{"Atlanta", "Hawks", "ATL"},
	{"Charlotte", "Hornets", "CHA"},
	{"Miami", "Heat", "MIA"},
	{"Orlando", "Magic", "ORL"},
	{"Washington", "Wizards", "WAS"},
	{"Memphis", "Grizzlies", "MEM"},
	{"Denver", "Nuggets", "DEN"},
	{"Minnesota", "Timberwolves", "MIN"},
	{"Oklahoma City", "Thunder", "OKC"},
	{"Portland", "Trail Blazers", "POR"},
	{"Utah", "Jazz", "UTA"},
	{"Golden State", "Warriors", "GSW"},
	{"Los Angeles", "Clippers", "LAC"},
	{"Los Angeles", "Lakers", "LAL"},
	{"Phoenix", "Suns", "PHX"},
	{"Sacramento", "Kings", "SAC"},
	{"Dallas", "Mavericks", "DAL"},
	{"Houston", "Rockets", "HOU"},
	{"New Orleans", "Pelicans", "NOP"},
	{"San Antonio", "Spurs", "SAS"},
	{"Seattle", "SuperSonics", "SEA"},
	{"Las Vegas", "Expansion", "LV"},
}

var rosters = map[string][]string{
	"BOS": {"Jayson Tatum", "Jaylen Brown", "Kristaps Porzingis", "Derrick White", "Jrue Holiday",
		"Al Horford", "Sam Hauser", "Payton Pritchard", "Luke Kornet", "Oshae Brissett"},
	"BKN": {"Mikal Bridges", "Cam Thomas", "Nicolas Claxton", "Spencer Dinwiddie", "Dorian Finney-Smith",
		"Cam Johnson", "Day'Ron Sharpe", "Lonnie Walker", "Dennis Smith Jr", "Trendon Watford"},
	"NYK": {"Jalen Brunson", "Julius Randle", "RJ Barrett", "Mitchell Robinson", "Josh Hart",
		"Immanuel Quickley", "Isaiah Hartenstein", "Donte DiVincenzo", "Quentin Grimes", "Precious Achiuwa"},
	"PHI": {"Joel Embiid", "Tyrese Maxey", "Tobias Harris", "De'Anthony Melton", "Nicolas Batum",
		"Kelly Oubre Jr", "Paul Reed", "Marcus Morris", "Patrick Beverley", "Danuel House"},
	"TOR": {"Scottie Barnes", "Pascal Siakam", "OG Anunoby", "Dennis Schroder", "Jakob Poeltl",
		"Gary Trent Jr", "Jordan Nwora", "Otto Porter Jr", "Chris Boucher", "Malachi Flynn"},
	"CHI": {"DeMar DeRozan", "Zach LaVine", "Nikola Vucevic", "Coby White", "Alex Caruso",
		"Patrick Williams", "Ayo Dosunmu", "Andre Drummond", "Torrey Craig", "Jevon Carter"},
	"CLE": {"Donovan Mitchell", "Darius Garland", "Evan Mobley", "Jarrett Allen", "Max Strus",
		"Caris LeVert", "Isaac Okoro", "Georges Niang", "Dean Wade", "Sam Merrill"},
	"DET": {"Cade Cunningham", "Jaden Ivey", "Bojan Bogdanovic", "Isaiah Stewart", "Jalen Duren",
		"Ausar Thompson", "Marcus Sasser", "James Wiseman", "Joe Harris", "Alec Burks"},
	"IND": {"Tyrese Haliburton", "Myles Turner", "Bennedict Mathurin", "Bruce Brown", "Buddy Hield",
		"Aaron Nesmith", "Obi Toppin", "T.J. McConnell", "Jalen Smith", "Andrew Nembhard"},
	"MIL": {"Giannis Antetokounmpo", "Damian Lillard", "Khris Middleton", "Brook Lopez", "Bobby Portis",
		"Malik Beasley", "Pat Connaughton", "Jae Crowder", "MarJon Beauchamp", "AJ Green"},
	"ATL": {"Trae Young", "Dejounte Murray", "Clint Capela", "Bogdan Bogdanovic", "De'Andre Hunter",
		"Onyeka Okongwu", "Saddiq Bey", "Jalen Johnson", "AJ Griffin", "Garrison Mathews"},
	"CHA": {"LaMelo Ball", "Brandon Miller", "Mark Williams", "Miles Bridges", "Terry Rozier",
		"Gordon Hayward", "PJ Washington", "Nick Richards", "Bryce McGowens", "JT Thor"},
	"MIA": {"Jimmy Butler", "Bam Adebayo", "Tyler Herro", "Kyle Lowry", "Caleb Martin",
		"Duncan Robinson", "Kevin Love", "Josh Richardson", "Jaime Jaquez Jr", "Nikola Jovic"},
	"ORL": {"Paolo Banchero", "Franz Wagner", "Wendell Carter Jr", "Cole Anthony", "Markelle Fultz",
		"Jalen Suggs", "Jonathan Isaac", "Gary Harris", "Moritz Wagner", "Chuma Okeke"},
	"WAS": {"Kyle Kuzma", "Jordan Poole", "Tyus Jones", "Daniel Gafford", "Deni Avdija",
		"Corey Kispert", "Bilal Coulibaly", "Marvin Bagley", "Delon Wright", "Landry Shamet"},
	"MEM": {"Ja Morant", "Desmond Bane", "Jaren Jackson Jr", "Marcus Smart", "Brandon Clarke",
		"Luke Kennard", "Santi Aldama", "Derrick Rose", "Xavier Tillman", "David Roddy"},
	"DEN": {"Nikola Jokic", "Jamal Murray", "Michael Porter Jr", "Aaron Gordon", "Kentavious Caldwell-Pope",
		"Christian Braun", "Reggie Jackson", "Justin Holiday", "Peyton Watson", "DeAndre Jordan"},
	"MIN": {"Anthony Edwards", "Karl-Anthony Towns", "Rudy Gobert", "Mike Conley", "Jaden McDaniels",
		"Kyle Anderson", "Naz Reid", "Nickeil Alexander-Walker", "Troy Brown Jr", "Jordan McLaughlin"},
	"OKC": {"Shai Gilgeous-Alexander", "Chet Holmgren", "Josh Giddey", "Jalen Williams", "Luguentz Dort",
		"Cason Wallace", "Isaiah Joe", "Jaylin Williams", "Kenrich Williams", "Vasilije Micic"},
	"POR": {"Anfernee Simons", "Jerami Grant", "Shaedon Sharpe", "Deandre Ayton", "Scoot Henderson",
		"Malcolm Brogdon", "Matisse Thybulle", "Jabari Walker", "Kris Murray", "Duop Reath"},
	"UTA": {"Lauri Markkanen", "Jordan Clarkson", "Collin Sexton", "Walker Kessler", "John Collins",
		"Talen Horton-Tucker", "Simone Fontecchio", "Ochai Agbaji", "Kelly Olynyk", "Keyonte George"},
	"GSW": {"Stephen Curry", "Klay Thompson", "Andrew Wiggins", "Draymond Green", "Chris Paul",
		"Jonathan Kuminga", "Brandin Podziemski", "Moses Moody", "Kevon Looney", "Gary Payton II"},
	"LAC": {"Kawhi Leonard", "Paul George", "Russell Westbrook", "Ivica Zubac", "James Harden",
		"Norman Powell", "Terance Mann", "Bones Hyland", "Mason Plumlee", "Amir Coffey"},
	"LAL": {"LeBron James", "Anthony Davis", "D'Angelo Russell", "Austin Reaves", "Rui Hachimura",
		"Jarred Vanderbilt", "Taurean Prince", "Jaxson Hayes", "Gabe Vincent", "Cam Reddish"},
	"PHX": {"Kevin Durant", "Devin Booker", "Bradley Beal", "Jusuf Nurkic", "Grayson Allen",
		"Eric Gordon", "Drew Eubanks", "Yuta Watanabe", "Josh Okogie", "Bol Bol"},
	"SAC": {"De'Aaron Fox", "Domantas Sabonis", "Kevin Huerter", "Harrison Barnes", "Keegan Murray",
		"Malik Monk", "Trey Lyles", "Davion Mitchell", "Sasha Vezenkov", "Chris Duarte"},
	"DAL": {"Luka Doncic", "Kyrie Irving", "Derrick Jones Jr", "Daniel Gafford", "PJ Washington",
		"Josh Green", "Maxi Kleber", "Tim Hardaway Jr", "Dereck Lively II", "Dante Exum"},
	"HOU": {"Alperen Sengun", "Jalen Green", "Fred VanVleet", "Jabari Smith Jr", "Dillon Brooks",
		"Amen Thompson", "Cam Whitmore", "Tari Eason", "Jeff Green", "Aaron Holiday"},
	"NOP": {"Zion Williamson", "Brandon Ingram", "CJ McCollum", "Herb Jones", "Jonas Valanciunas",
		"Trey Murphy III", "Jordan Hawkins", "Larry Nance Jr", "Jose Alvarado", "Dyson Daniels"},
	"SAS": {"Victor Wembanyama", "Devin Vassell", "Keldon Johnson", "Tre Jones", "Jeremy Sochan",
		"Zach Collins", "Malaki Branham", "Cedi Osman", "Sandro Mamukelashvili", "Blake Wesley"},
	"SEA": {"Shawn Kemp", "Gary Payton", "Ray Allen", "Rashard Lewis", "Detlef Schrempf",
		"Jack Sikma", "Spencer Haywood", "Gus Williams", "Dale Ellis", "Sam Perkins"},
	"LV": {"Josh Christopher", "Killian Hayes", "Moses Brown", "Frank Jackson", "Kendall Brown",
		"Jaden Hardy", "Leonard Miller", "Emoni Bates", "Sidy Cissoko", "Colby Jones"},
}

var freeAgents = []string{
	"Isaiah Thomas", "DeMarcus Cousins", "Dwight Howard", "Carmelo Anthony",
	"John Wall", "Blake Griffin", "Hassan Whiteside", "Lance Stephenson",
	"Kemba Walker", "Avery Bradley", "Tony Snell", "Wayne Ellington",
}

var positions = []string{"PG", "SG", "SF", "PF", "C"}

func createTeam(ctx context.Context, repo *repository.TeamRepository, spec teamSpec) (*domain.Team, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate team id: %w", err)
	}
	now := time.Now()
	team := &domain.Team{
		ID:           id,
		City:         spec.City,
		Name:         spec.Name,
		Abbreviation: spec.Abbr,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team %s: %w", spec.Abbr, err)
	}
	return team, nil
}

func createRoster(ctx context.Context, repo *repository.TeamRepository, src *rng.Source, teamID string, names []string) error {
	for i, name := range names {
		player, err := generatePlayer(src, name, teamID, i)
		if err != nil {
			return err
		}
		if err := repo.CreatePlayer(ctx, player); err != nil {
			return fmt.Errorf("failed to create player %s: %w", name, err)
		}
	}
	return nil
}

func createFreeAgents(ctx context.Context, repo *repository.TeamRepository, src *rng.Source) error {
	for i, name := range freeAgents {
		// Free agents carry bench-grade ratings.
		player, err := generatePlayer(src, name, "", i+8)
		if err != nil {
			return err
		}
		if err := repo.CreatePlayer(ctx, player); err != nil {
			return fmt.Errorf("failed to create free agent %s: %w", name, err)
		}
	}
	return nil
}

// generatePlayer draws position-shaped ratings, then scales them by the
// player's roster slot: the first two are stars, the next three starters,
// slots eight and up deep bench.
func generatePlayer(src *rng.Source, name, teamID string, slot int) (*domain.Player, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate player id: %w", err)
	}

	position := positions[slot%len(positions)]
	p := &domain.Player{
		ID:       id,
		Name:     name,
		TeamID:   teamID,
		Position: position,
		FGPct:    src.Uniform(0.38, 0.52),
		ThreePct: src.Uniform(0.30, 0.42),
		FTPct:    src.Uniform(0.70, 0.90),
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	switch position {
	case "PG":
		p.Scoring = src.Uniform(8, 25)
		p.Rebounding = src.Uniform(2, 6)
		p.Playmaking = src.Uniform(4, 10)
		p.Stealing = src.Uniform(0.5, 2)
		p.ShotBlock = src.Uniform(0.1, 0.5)
	case "SG":
		p.Scoring = src.Uniform(10, 28)
		p.Rebounding = src.Uniform(3, 6)
		p.Playmaking = src.Uniform(2, 5)
		p.Stealing = src.Uniform(0.8, 2)
		p.ShotBlock = src.Uniform(0.2, 0.8)
	case "SF":
		p.Scoring = src.Uniform(12, 27)
		p.Rebounding = src.Uniform(4, 8)
		p.Playmaking = src.Uniform(2, 6)
		p.Stealing = src.Uniform(0.7, 1.8)
		p.ShotBlock = src.Uniform(0.3, 1.2)
	case "PF":
		p.Scoring = src.Uniform(10, 24)
		p.Rebounding = src.Uniform(6, 12)
		p.Playmaking = src.Uniform(1, 4)
		p.Stealing = src.Uniform(0.5, 1.5)
		p.ShotBlock = src.Uniform(0.8, 2)
	default: // C
		p.Scoring = src.Uniform(8, 22)
		p.Rebounding = src.Uniform(8, 14)
		p.Playmaking = src.Uniform(1, 5)
		p.Stealing = src.Uniform(0.3, 1)
		p.ShotBlock = src.Uniform(1.5, 3)
	}

	switch {
	case slot < 2:
		p.Scoring *= 1.4
		p.Playmaking *= 1.4
		p.Rebounding *= 1.3
	case slot < 5:
		p.Scoring *= 1.1
		p.Playmaking *= 1.1
		p.Rebounding *= 1.1
	case slot >= 8:
		p.Scoring *= 0.6
		p.Playmaking *= 0.7
		p.Rebounding *= 0.8
	}

	if slot < 5 {
		p.Minutes = src.Uniform(25, 36)
	} else {
		p.Minutes = src.Uniform(8, 20)
	}
	return p, nil
}
