package voting

import (
	"errors"
	"strings"
	"time"

	electionModel "election-management/models/election"

	"gorm.io/gorm"
)

// Terminal outcomes of a vote attempt. Controllers map these onto HTTP
// statuses; the messages match what clients already display.
var (
	ErrElectionNotFound  = errors.New("Election not found")
	ErrCandidateNotFound = errors.New("Candidate not found")
	ErrNotStarted        = errors.New("This election has not started yet")
	ErrEnded             = errors.New("This election has ended")
	ErrAlreadyVoted      = errors.New("You have already voted in this election")
)

// Engine validates and records votes. All validation runs against a snapshot;
// the only mutation is a single transaction that inserts the ballot and bumps
// the candidate counter together.
type Engine struct {
	DB *gorm.DB

	// Now is swappable for window-boundary tests.
	Now func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{DB: db, Now: time.Now}
}

// CastVote records one vote by accountID for candidateID in the given
// election. The voting window is [StartDate, EndDate): a vote at exactly
// StartDate is accepted, a vote at exactly EndDate is rejected.
//
// The one-vote invariant is not enforced by a read-then-write check: the
// ballot insert relies on the unique (election, account) index, so two
// concurrent attempts cannot both commit. The loser surfaces as
// ErrAlreadyVoted and nothing else about the election changes.
func (e *Engine) CastVote(electionID, accountID, candidateID uint) (*electionModel.Election, error) {
	var el electionModel.Election
	if err := e.DB.Preload("Candidates").First(&el, electionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, err
	}

	now := e.Now()
	if !el.HasStarted(now) {
		return nil, ErrNotStarted
	}
	if el.HasEnded(now) {
		return nil, ErrEnded
	}

	if el.FindCandidate(candidateID) == nil {
		return nil, ErrCandidateNotFound
	}

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		ballot := electionModel.Ballot{ElectionID: electionID, AccountID: accountID}
		if err := tx.Create(&ballot).Error; err != nil {
			if isDuplicate(err) {
				return ErrAlreadyVoted
			}
			return err
		}

		res := tx.Model(&electionModel.Candidate{}).
			Where("id = ? AND election_id = ?", candidateID, electionID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Candidate vanished between snapshot and commit; roll the
			// ballot back.
			return ErrCandidateNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := e.DB.Preload("Candidates").Preload("Ballots").First(&el, electionID).Error; err != nil {
		return nil, err
	}
	return &el, nil
}

// isDuplicate recognizes a unique-index violation across the supported
// drivers. Postgres and the sqlite test driver both translate to
// gorm.ErrDuplicatedKey; the string checks cover drivers that do not.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
