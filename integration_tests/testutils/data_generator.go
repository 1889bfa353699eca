package testutils

import (
	"time"

	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator builds rosters with realistic, seed-reproducible values.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed the generator was created with, for failure messages.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}

// GeneratePlayer returns a valid player with random statistics and no computed score.
func (g *TestDataGenerator) GeneratePlayer() rosterdomain.Player {
	targets := []int{rosterdomain.TargetMet, rosterdomain.TargetMissed}
	table := rosterdomain.PenaltyTable()

	penalties := make([]rosterdomain.PenaltyTag, g.faker.Number(0, 3))
	for i := range penalties {
		penalties[i] = table[g.faker.Number(0, len(table)-1)].Tag
	}

	return rosterdomain.Player{
		Name:           g.faker.Name(),
		LeaguePosition: g.faker.Number(rosterdomain.MinLeaguePosition, rosterdomain.MaxLeaguePosition),
		TargetHit:      targets[g.faker.Number(0, len(targets)-1)],
		CupStage:       g.faker.Number(rosterdomain.MinCupStage, rosterdomain.MaxCupStage),
		YellowCards:    g.faker.Number(0, 8),
		RedCards:       g.faker.Number(0, 3),
		GoalsConceded:  g.faker.Number(0, 60),
		GoalsScored:    g.faker.Number(0, 80),
		Interviews:     g.faker.Number(0, 40),
		PenaltyPoints:  penalties,
	}
}

// GenerateRoster creates count random players.
func (g *TestDataGenerator) GenerateRoster(count int) rosterdomain.Roster {
	roster := make(rosterdomain.Roster, count)
	for i := range roster {
		roster[i] = g.GeneratePlayer()
	}
	return roster
}
