package election

import (
	"fmt"
	"time"
)

// CandidateInput is one entry of the candidates JSON field in the multipart
// create/update forms. A zero ID means a new candidate; a non-zero ID refers
// to an existing one on update.
type CandidateInput struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Party string `json:"party"`
	Motto string `json:"motto"`
}

// CreateElectionForm holds the non-file fields of the multipart creation
// request. Candidates arrive as a JSON-encoded string next to the files.
type CreateElectionForm struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
	Candidates  string
}

// Validate checks the required fields of the creation form.
func (f CreateElectionForm) Validate() error {
	if f.Title == "" {
		return fmt.Errorf("title is required")
	}
	if f.Description == "" {
		return fmt.Errorf("description is required")
	}
	if f.StartDate == "" {
		return fmt.Errorf("startDate is required")
	}
	if f.EndDate == "" {
		return fmt.Errorf("endDate is required")
	}
	return nil
}

// VerifyPincodeRequest represents the request payload for the pincode gate
type VerifyPincodeRequest struct {
	Pincode string `json:"pincode" validate:"required,len=6,numeric"`
}

// VoteRequest represents the request payload for casting a vote
type VoteRequest struct {
	CandidateID uint `json:"candidateId" validate:"required"`
}

// CandidateResponse is the outward-facing candidate projection. Avatar is a
// data URI on detail reads and empty elsewhere.
type CandidateResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Party  string `json:"party"`
	Motto  string `json:"motto,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Votes  uint   `json:"votes"`
}

// ElectionResponse is the outward-facing election projection. Pincode is
// populated exactly once, in the creation response; every other read leaves
// it empty so the field is dropped from the JSON.
type ElectionResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	StartDate   time.Time           `json:"startDate"`
	EndDate     time.Time           `json:"endDate"`
	Candidates  []CandidateResponse `json:"candidates"`
	Voters      []uint              `json:"voters"`
	HasImage    bool                `json:"has_image"`
	Pincode     string              `json:"pincode,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// WinnerResponse names the winning candidate of a closed election, or the
// synthetic Tie entry when the lead is shared.
type WinnerResponse struct {
	Name  string `json:"name"`
	Party string `json:"party"`
	Votes uint   `json:"votes"`
}

// ResultResponse is one election standing in the results listing. Winner is
// only attached once the election has ended.
type ResultResponse struct {
	ElectionResponse
	Winner *WinnerResponse `json:"winner,omitempty"`
}
