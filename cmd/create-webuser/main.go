package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/zvitly/gradewatch-backend/internal/config"
	"github.com/zvitly/gradewatch-backend/internal/database"
	"github.com/zvitly/gradewatch-backend/internal/logger"
	"github.com/zvitly/gradewatch-backend/internal/repository"
	"github.com/zvitly/gradewatch-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	groupRepo := repository.NewGroupRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	authService := service.NewAuthService(cfg)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Grant Dashboard Access to a Student ===")

	fmt.Print("Enter Group ID: ")
	groupIDStr, _ := reader.ReadString('\n')
	groupID, err := strconv.Atoi(strings.TrimSpace(groupIDStr))
	if err != nil {
		fmt.Println("Error: Group ID must be a number")
		return
	}
	if _, err := groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			fmt.Println("Error: no such group")
			return
		}
		log.Fatal().Err(err).Msg("Failed to look up group")
	}

	fmt.Print("Enter Full Name (exactly as in the journal): ")
	fullName, _ := reader.ReadString('\n')
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fmt.Println("Error: Full name is required")
		return
	}

	student, err := studentRepo.FindByName(ctx, fullName, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			fmt.Println("Error: no student with that name in this group")
			return
		}
		log.Fatal().Err(err).Msg("Failed to look up student")
	}

	fmt.Print("Enter Login: ")
	login, _ := reader.ReadString('\n')
	login = strings.TrimSpace(login)
	if login == "" {
		fmt.Println("Error: Login is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := authService.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	if err := studentRepo.SetWebCredentials(ctx, student.ID, login, hash); err != nil {
		log.Fatal().Err(err).Msg("Failed to set credentials")
	}

	fmt.Printf("\nSuccess! Student %q (ID: %d) can now log in as %q\n", student.FullName, student.ID, login)
}
