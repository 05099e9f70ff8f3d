package election

import (
	"time"
)

// Election is the root document for one election: metadata, an optional
// banner image stored inline, the candidate list and the cast ballots.
// The pincode gates detail-view access only and never leaves the server
// except in the creation response.
type Election struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	StartDate   time.Time `gorm:"not null;index" json:"start_date"`
	EndDate     time.Time `gorm:"not null;index" json:"end_date"`
	Pincode     string    `gorm:"type:varchar(6);not null" json:"-"`

	ImageData       []byte     `json:"-"`
	ImageType       string     `gorm:"type:varchar(100)" json:"-"`
	ImageFilename   string     `gorm:"type:varchar(255)" json:"-"`
	ImageUploadedAt *time.Time `json:"-"`

	Candidates []Candidate `gorm:"foreignKey:ElectionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"candidates"`
	Ballots    []Ballot    `gorm:"foreignKey:ElectionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Candidate is embedded in its parent election. Votes only ever moves up,
// and only through the voting engine.
type Candidate struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ElectionID uint   `gorm:"not null;index" json:"election_id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Party      string `gorm:"type:varchar(255);not null" json:"party"`
	Motto      string `gorm:"type:varchar(255)" json:"motto,omitempty"`
	Votes      uint   `gorm:"not null;default:0" json:"votes"`

	AvatarData []byte `json:"-"`
	AvatarType string `gorm:"type:varchar(100)" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Ballot records that an account has voted in an election. The composite
// unique index is the enforcement point for the one-vote invariant: a second
// insert for the same (election, account) pair fails at the storage layer,
// which keeps the check-and-append atomic under concurrent requests.
type Ballot struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ElectionID uint      `gorm:"not null;uniqueIndex:idx_ballots_election_account" json:"election_id"`
	AccountID  uint      `gorm:"not null;uniqueIndex:idx_ballots_election_account" json:"account_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// HasStarted reports whether voting is open from the given instant onward.
// The start bound is inclusive.
func (e *Election) HasStarted(at time.Time) bool {
	return !at.Before(e.StartDate)
}

// HasEnded reports whether the voting window has closed. The end bound is
// exclusive: a vote at exactly EndDate is rejected.
func (e *Election) HasEnded(at time.Time) bool {
	return !at.Before(e.EndDate)
}

// IsOpen reports whether votes are accepted at the given instant, i.e. the
// instant falls in [StartDate, EndDate).
func (e *Election) IsOpen(at time.Time) bool {
	return e.HasStarted(at) && !e.HasEnded(at)
}

// FindCandidate returns the candidate with the given id, or nil.
func (e *Election) FindCandidate(id uint) *Candidate {
	for i := range e.Candidates {
		if e.Candidates[i].ID == id {
			return &e.Candidates[i]
		}
	}
	return nil
}

// VoterIDs projects the ballots into the list of account ids that have voted.
func (e *Election) VoterIDs() []uint {
	ids := make([]uint, 0, len(e.Ballots))
	for _, b := range e.Ballots {
		ids = append(ids, b.AccountID)
	}
	return ids
}

// HasVoted reports whether the given account already holds a ballot. Callers
// must not rely on this for enforcement; the unique index on ballots is the
// authoritative check.
func (e *Election) HasVoted(accountID uint) bool {
	for _, b := range e.Ballots {
		if b.AccountID == accountID {
			return true
		}
	}
	return false
}

// HasImage reports whether a banner image was uploaded.
func (e *Election) HasImage() bool {
	return len(e.ImageData) > 0
}
