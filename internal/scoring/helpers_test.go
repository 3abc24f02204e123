package scoring

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pgctour/scoring-engine/internal/models"
)

func intPtr(v int) *int         { return &v }
func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

// golferSpec keeps golfer fixtures compact in table tests.
type golferSpec struct {
	apiID  int64
	status models.GolferStatus
	rounds [4]*int
	today  *int
	thru   *int
	score  *int
}

func makeGolfer(spec golferSpec) models.Golfer {
	return models.Golfer{
		ID:         uuid.New(),
		ApiID:      spec.apiID,
		PlayerName: "Golfer",
		Status:     spec.status,
		Today:      spec.today,
		Thru:       spec.thru,
		Score:      spec.score,
		RoundOne:   spec.rounds[0],
		RoundTwo:   spec.rounds[1],
		RoundThree: spec.rounds[2],
		RoundFour:  spec.rounds[3],
	}
}

func golferPtrs(golfers []models.Golfer) []*models.Golfer {
	out := make([]*models.Golfer, len(golfers))
	for i := range golfers {
		out[i] = &golfers[i]
	}
	return out
}

// snapshotBuilder assembles engine-ready snapshots for tests.
type snapshotBuilder struct {
	tournament *models.Tournament
	cards      map[uuid.UUID]*models.TourCard
	playoff    *PlayoffContext
	tourID     uuid.UUID
}

func newSnapshotBuilder(par, currentRound int, live bool) *snapshotBuilder {
	tourID := uuid.New()
	return &snapshotBuilder{
		tournament: &models.Tournament{
			ID:           uuid.New(),
			Name:         "The Memorial",
			SeasonID:     "2026",
			CoursePar:    par,
			CurrentRound: currentRound,
			LivePlay:     live,
			StartDate:    time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
			Tier: &models.Tier{
				ID:       uuid.New(),
				Name:     "standard",
				SeasonID: "2026",
				Points:   defaultPoints(),
				Payouts:  defaultPayouts(),
			},
		},
		cards:  map[uuid.UUID]*models.TourCard{},
		tourID: tourID,
	}
}

func (sb *snapshotBuilder) asPlayoff(event int) *snapshotBuilder {
	sb.tournament.Name = "PGC Playoff Event"
	sb.playoff = &PlayoffContext{Event: event, CarryIn: map[uuid.UUID]float64{}}
	return sb
}

func (sb *snapshotBuilder) addGolfers(specs ...golferSpec) *snapshotBuilder {
	for _, spec := range specs {
		sb.tournament.Golfers = append(sb.tournament.Golfers, makeGolfer(spec))
	}
	return sb
}

// addTeam registers a tour card and its team rostering the given golfer ids.
// cardPoints seeds playoff starting strokes; playoff marks the bracket.
func (sb *snapshotBuilder) addTeam(golferIDs []int64, cardPoints float64, playoff int) (teamID, cardID uuid.UUID) {
	card := &models.TourCard{
		ID:          uuid.New(),
		MemberID:    uuid.NewString(),
		TourID:      sb.tourID,
		SeasonID:    "2026",
		DisplayName: "Team",
		Points:      cardPoints,
		Playoff:     playoff,
	}
	sb.cards[card.ID] = card

	team := models.Team{
		ID:           uuid.New(),
		TournamentID: sb.tournament.ID,
		TourCardID:   card.ID,
		GolferIDs:    pq.Int64Array(golferIDs),
	}
	sb.tournament.Teams = append(sb.tournament.Teams, team)
	return team.ID, card.ID
}

func (sb *snapshotBuilder) build() *Snapshot {
	return &Snapshot{
		Tournament: sb.tournament,
		TourCards:  sb.cards,
		Playoff:    sb.playoff,
	}
}

func defaultPoints() pq.Float64Array {
	points := make(pq.Float64Array, 75)
	base := []float64{500, 300, 190, 135, 125, 115, 105, 95, 90, 85}
	for i := range points {
		if i < len(base) {
			points[i] = base[i]
		} else {
			points[i] = float64(80 - i)
		}
	}
	return points
}

func defaultPayouts() pq.Float64Array {
	payouts := make(pq.Float64Array, 150)
	for i := range payouts {
		payouts[i] = float64(10000 - 50*i)
	}
	return payouts
}

func resultByTeam(results []TeamResult, teamID uuid.UUID) *TeamResult {
	for i := range results {
		if results[i].TeamID == teamID {
			return &results[i]
		}
	}
	return nil
}
