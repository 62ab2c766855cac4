package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zvitly/gradewatch-backend/internal/config"
	"github.com/zvitly/gradewatch-backend/internal/database"
	"github.com/zvitly/gradewatch-backend/internal/logger"
	"github.com/zvitly/gradewatch-backend/internal/model"
	"github.com/zvitly/gradewatch-backend/internal/repository"
)

func main() {
	var (
		groupName     string
		spreadsheetID string
		namesPath     string
	)
	flag.StringVar(&groupName, "group", "", "Group name, e.g. П-21")
	flag.StringVar(&spreadsheetID, "spreadsheet", "", "Google Spreadsheet ID of the group's journal")
	flag.StringVar(&namesPath, "names", "", "Path to a file with one full name per line")
	flag.Parse()

	if groupName == "" || spreadsheetID == "" || namesPath == "" {
		fmt.Println("Usage: seed-roster -group <name> -spreadsheet <id> -names <file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	groupRepo := repository.NewGroupRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	// Reuse the group when a previous run already created it.
	group, err := groupRepo.GetBySpreadsheetID(ctx, spreadsheetID)
	switch {
	case err == nil:
		fmt.Printf("Found existing group %q with ID: %d\n", group.Name, group.ID)
	case errors.Is(err, repository.ErrGroupNotFound):
		group = &model.Group{Name: groupName, SpreadsheetID: spreadsheetID}
		if err := groupRepo.Create(ctx, group); err != nil {
			log.Fatal().Err(err).Msg("Failed to create group")
		}
		fmt.Printf("Created group %q with ID: %d\n", group.Name, group.ID)
	default:
		log.Fatal().Err(err).Msg("Failed to check existing group")
	}

	file, err := os.Open(namesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open names file")
	}
	defer file.Close()

	successCount := 0
	total := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		total++

		student := &model.Student{
			GroupID:  group.ID,
			FullName: name,
		}
		if err := studentRepo.Create(ctx, student); err != nil {
			fmt.Printf("Error creating student %q: %v\n", name, err)
			continue
		}
		successCount++
	}
	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to read names file")
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, total)
}
