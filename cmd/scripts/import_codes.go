package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/haivt/luckydraw-backend/internal/models"
	"github.com/haivt/luckydraw-backend/internal/repositories"
	mongorepo "github.com/haivt/luckydraw-backend/internal/repositories/mongodb"
	"github.com/haivt/luckydraw-backend/pkg/mongodb"
	"github.com/joho/godotenv"
)

// Imports bracelet codes from a CSV file, one code per row (a header row
// named "code" is skipped). Codes already in the database are reported and
// skipped, the rest are inserted unactivated.
//
// Usage: go run ./cmd/scripts codes.csv
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}

	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "luckydraw"
	}

	if len(os.Args) < 2 {
		log.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)

	codeRepo, err := mongorepo.NewBraceletCodeRepository(db)
	if err != nil {
		log.Fatalf("Failed to prepare bracelet codes collection: %v", err)
	}

	imported, skipped, err := importCodes(codeRepo, csvFilePath)
	if err != nil {
		log.Fatalf("Failed to import codes: %v", err)
	}

	log.Printf("Imported %d codes (%d skipped)", imported, skipped)
}

func importCodes(codeRepo repositories.BraceletCodeRepository, csvFilePath string) (int, int, error) {
	file, err := os.Open(csvFilePath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse CSV file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	imported, skipped := 0, 0
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(record[0]))
		if code == "" || (i == 0 && strings.EqualFold(code, "code")) {
			continue
		}

		err := codeRepo.Create(ctx, &models.BraceletCode{
			Code:      code,
			CreatedAt: time.Now(),
		})
		if errors.Is(err, repositories.ErrDuplicateKey) {
			log.Printf("Row %d: code %q already exists, skipping", i+1, code)
			skipped++
			continue
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("row %d: %w", i+1, err)
		}
		imported++
	}

	return imported, skipped, nil
}
