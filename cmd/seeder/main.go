// Command seeder loads a JSON question bank into the questions table.
//
// The input file is an array of entries:
//
//	[{"subject": "math", "difficulty": "easy", "question": {...}}]
//
// where question matches the engine's question shape. Existing question ids
// are left untouched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/eduspark/arena-platform/internal/arena"
	"github.com/eduspark/arena-platform/internal/config"
	"github.com/eduspark/arena-platform/internal/db/repository"
)

type seedEntry struct {
	Subject    string         `json:"subject"`
	Difficulty string         `json:"difficulty"`
	Question   arena.Question `json:"question"`
}

func main() {
	file := flag.String("file", "db/seed/questions.json", "JSON question bank to load")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to read question bank")
	}

	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Fatal().Err(err).Msg("failed to parse question bank")
	}

	connString := cfg.Postgres.ConnString()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	repo := repository.NewQuestionRepository(pool)

	inserted := 0
	for i, entry := range entries {
		subject := entry.Subject
		if subject == "" {
			subject = "general"
		}
		if entry.Question.ID == "" {
			log.Fatal().Int("index", i).Msg("question entry has no id")
		}
		if err := repo.InsertQuestion(ctx, subject, entry.Difficulty, entry.Question); err != nil {
			log.Fatal().Err(err).Str("question_id", entry.Question.ID).Msg("insert failed")
		}
		inserted++
	}

	log.Info().Int("count", inserted).Str("file", *file).Msg("question bank loaded")
}
