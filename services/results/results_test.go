package results

import (
	"testing"
	"time"

	electionModel "election-management/models/election"

	qt "github.com/frankban/quicktest"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	models := []interface{}{
		&electionModel.Election{},
		&electionModel.Candidate{},
		&electionModel.Ballot{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			t.Fatalf("failed to migrate %T: %v", m, err)
		}
	}
	return db
}

func seed(t *testing.T, db *gorm.DB, start, end time.Time, votes []uint) *electionModel.Election {
	t.Helper()

	names := []string{"Alice", "Bob", "Carol", "Dave"}
	candidates := make([]electionModel.Candidate, 0, len(votes))
	for i, v := range votes {
		candidates = append(candidates, electionModel.Candidate{
			Name:  names[i],
			Party: "Party " + names[i],
			Votes: v,
		})
	}
	el := electionModel.Election{
		Title:       "Board Election",
		Description: "Annual board election",
		StartDate:   start,
		EndDate:     end,
		Pincode:     "654321",
		Candidates:  candidates,
	}
	if err := db.Create(&el).Error; err != nil {
		t.Fatalf("failed to seed election: %v", err)
	}
	return &el
}

func TestWinnerClearLead(t *testing.T) {
	c := qt.New(t)

	w := Winner([]electionModel.Candidate{
		{Name: "Alice", Party: "Red", Votes: 7},
		{Name: "Bob", Party: "Blue", Votes: 5},
		{Name: "Carol", Party: "Green", Votes: 3},
	})
	c.Assert(w, qt.IsNotNil)
	c.Assert(w.Name, qt.Equals, "Alice")
	c.Assert(w.Party, qt.Equals, "Red")
	c.Assert(w.Votes, qt.Equals, uint(7))
}

func TestWinnerTie(t *testing.T) {
	c := qt.New(t)

	w := Winner([]electionModel.Candidate{
		{Name: "Alice", Party: "Red", Votes: 5},
		{Name: "Bob", Party: "Blue", Votes: 5},
		{Name: "Carol", Party: "Green", Votes: 3},
	})
	c.Assert(w, qt.IsNotNil)
	c.Assert(w.Name, qt.Equals, "Tie")
	c.Assert(w.Party, qt.Equals, "N/A")
	c.Assert(w.Votes, qt.Equals, uint(5))
}

func TestWinnerAllTiedAtZero(t *testing.T) {
	c := qt.New(t)

	w := Winner([]electionModel.Candidate{
		{Name: "Alice", Party: "Red"},
		{Name: "Bob", Party: "Blue"},
	})
	c.Assert(w.Name, qt.Equals, "Tie")
	c.Assert(w.Votes, qt.Equals, uint(0))
}

func TestWinnerNoCandidates(t *testing.T) {
	c := qt.New(t)
	c.Assert(Winner(nil), qt.IsNil)
}

func TestComputeResults(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	agg := NewAggregator(db)

	past := time.Now().Add(-48 * time.Hour)
	ended := seed(t, db, past, past.Add(24*time.Hour), []uint{5, 5, 3})
	open := seed(t, db, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), []uint{7, 5, 3})

	standings, err := agg.ComputeResults()
	c.Assert(err, qt.IsNil)
	c.Assert(standings, qt.HasLen, 2)

	byID := map[uint]int{}
	for i, s := range standings {
		byID[s.ID] = i
	}

	endedResult := standings[byID[ended.ID]]
	c.Assert(endedResult.Winner, qt.IsNotNil)
	c.Assert(endedResult.Winner.Name, qt.Equals, "Tie")
	c.Assert(endedResult.Winner.Votes, qt.Equals, uint(5))

	// Still-open elections carry no winner, however lopsided the count.
	openResult := standings[byID[open.ID]]
	c.Assert(openResult.Winner, qt.IsNil)
	c.Assert(openResult.Candidates, qt.HasLen, 3)
}

func TestComputeResultsWinnerAtEndInstant(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	agg := NewAggregator(db)

	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	el := seed(t, db, end.Add(-31*24*time.Hour), end, []uint{7, 5, 3})

	// The voting window is exclusive of the end instant, so results are
	// authoritative from exactly that moment.
	agg.Now = func() time.Time { return end }
	standings, err := agg.ComputeResults()
	c.Assert(err, qt.IsNil)
	c.Assert(standings, qt.HasLen, 1)
	c.Assert(standings[0].ID, qt.Equals, el.ID)
	c.Assert(standings[0].Winner, qt.IsNotNil)
	c.Assert(standings[0].Winner.Name, qt.Equals, "Alice")
}
