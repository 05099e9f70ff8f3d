package results

import (
	"time"

	electionModel "election-management/models/election"
	electionTypes "election-management/types/election"

	"gorm.io/gorm"
)

// Aggregator derives standings from the current vote counts. It never
// mutates anything.
type Aggregator struct {
	DB *gorm.DB

	Now func() time.Time
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{DB: db, Now: time.Now}
}

// ComputeResults returns all elections with their candidates and, for
// elections whose window has closed, the winner. Open elections carry no
// winner field; clients may show a non-authoritative leader on their own.
func (a *Aggregator) ComputeResults() ([]electionTypes.ResultResponse, error) {
	var elections []electionModel.Election
	if err := a.DB.Preload("Candidates").Preload("Ballots").
		Order("id").Find(&elections).Error; err != nil {
		return nil, err
	}

	now := a.Now()
	results := make([]electionTypes.ResultResponse, 0, len(elections))
	for i := range elections {
		el := &elections[i]
		res := electionTypes.ResultResponse{
			ElectionResponse: electionTypes.ElectionResponse{
				ID:          el.ID,
				Title:       el.Title,
				Description: el.Description,
				StartDate:   el.StartDate,
				EndDate:     el.EndDate,
				Candidates:  candidateResponses(el.Candidates),
				Voters:      el.VoterIDs(),
				HasImage:    el.HasImage(),
				CreatedAt:   el.CreatedAt,
				UpdatedAt:   el.UpdatedAt,
			},
		}
		if el.HasEnded(now) {
			res.Winner = Winner(el.Candidates)
		}
		results = append(results, res)
	}
	return results, nil
}

// Winner returns the candidate holding the vote maximum, or the synthetic
// Tie entry when more than one candidate shares it. The aggregator never
// picks arbitrarily among tied leaders. A candidate-less election has no
// winner.
func Winner(candidates []electionModel.Candidate) *electionTypes.WinnerResponse {
	if len(candidates) == 0 {
		return nil
	}

	leader := &candidates[0]
	tied := 1
	for i := 1; i < len(candidates); i++ {
		c := &candidates[i]
		switch {
		case c.Votes > leader.Votes:
			leader = c
			tied = 1
		case c.Votes == leader.Votes:
			tied++
		}
	}

	if tied > 1 {
		return &electionTypes.WinnerResponse{Name: "Tie", Party: "N/A", Votes: leader.Votes}
	}
	return &electionTypes.WinnerResponse{Name: leader.Name, Party: leader.Party, Votes: leader.Votes}
}

func candidateResponses(candidates []electionModel.Candidate) []electionTypes.CandidateResponse {
	out := make([]electionTypes.CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, electionTypes.CandidateResponse{
			ID:    c.ID,
			Name:  c.Name,
			Party: c.Party,
			Motto: c.Motto,
			Votes: c.Votes,
		})
	}
	return out
}
