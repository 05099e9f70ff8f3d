package database

import (
	"fmt"
	"os"

	"election-management/logger"
	accountModel "election-management/models/account"
	electionModel "election-management/models/election"
	logModel "election-management/models/log"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB opens the Postgres connection and migrates the schema.
func InitDB() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the voting engine relies on.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := Migrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// Migrate runs auto migration for all models, parents before children so the
// foreign key constraints land cleanly.
func Migrate(db *gorm.DB) error {
	stage1Models := []interface{}{
		&accountModel.Account{},
		&electionModel.Election{},
	}
	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	stage2Models := []interface{}{
		&electionModel.Candidate{},
		&electionModel.Ballot{},
		&logModel.Log{},
	}
	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance.
func createIndexes() error {
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email)").Error; err != nil {
		return fmt.Errorf("failed to create account email index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_elections_end_date ON elections(end_date)").Error; err != nil {
		return fmt.Errorf("failed to create election end_date index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_candidates_election_id ON candidates(election_id)").Error; err != nil {
		return fmt.Errorf("failed to create candidate election_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_ballots_election_id ON ballots(election_id)").Error; err != nil {
		return fmt.Errorf("failed to create ballot election_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}
