package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codewordle/go-server/internal/game"
	"github.com/codewordle/go-server/internal/httpserver"
	"github.com/codewordle/go-server/internal/store"
	"github.com/codewordle/go-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("DB_PATH", "./data/codewordle.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	wordStore := store.NewSQLiteWords(db)
	if err := seedWords(wordStore); err != nil {
		log.Fatal().Err(err).Msg("failed to seed word corpus")
	}

	manager := game.NewManager(store.NewSQLiteSessions(db), store.NewSQLiteGuesses(db), wordStore)
	srv := httpserver.New(store.NewSQLiteUsers(db), manager)

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting codewordle server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// seedWords populates the words table from the embedded corpus when it
// is empty, so a fresh database is immediately playable.
func seedWords(ws *store.SQLiteWords) error {
	ctx := context.Background()
	n, err := ws.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Debug().Int("words", n).Msg("word corpus already present")
		return nil
	}
	corpus, err := words.Corpus()
	if err != nil {
		return err
	}
	if err := ws.Seed(ctx, corpus); err != nil {
		return err
	}
	log.Info().Int("topics", len(corpus)).Msg("seeded word corpus")
	return nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
