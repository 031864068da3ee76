package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"clubhub/internal/models"
	"clubhub/internal/repository"
	"clubhub/migrations"
	"clubhub/pkg/auth"
	"clubhub/pkg/config"
	"clubhub/pkg/logger"
	"clubhub/pkg/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedFile    string
	skipMigrate bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply the schema and load departments, clubs and the admin account",
	Long: `Applies migrations/*.sql and inserts the departments, clubs and admin
account listed in the seed file. Rows that already exist (matched by name or
email) are left untouched, so the command can be re-run safely.`,
	RunE: runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&seedFile, "file", "f", "cmd/seed/seed.json", "seed data file")
	rootCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply migrations before seeding")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type seedClub struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Department  string `json:"department"`
	Active      *bool  `json:"active,omitempty"`
}

type seedAdmin struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type seedData struct {
	Departments []string   `json:"departments"`
	Clubs       []seedClub `json:"clubs"`
	Admin       *seedAdmin `json:"admin,omitempty"`
}

func loadSeedData(path string) (*seedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var data seedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	// SEED_ADMIN_PASSWORD keeps real credentials out of the repository
	if data.Admin != nil {
		if pw := os.Getenv("SEED_ADMIN_PASSWORD"); pw != "" {
			data.Admin.Password = pw
		}
	}

	return &data, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	data, err := loadSeedData(seedFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	if !skipMigrate {
		if err := postgres.Migrate(ctx, db, migrations.FS, appLogger); err != nil {
			return err
		}
	}

	appLogger.Info("Starting database seeding...")

	seeder := &seeder{
		depts:  repository.NewDepartmentRepository(db, appLogger),
		clubs:  repository.NewClubRepository(db, appLogger),
		users:  repository.NewUserRepository(db, appLogger),
		logger: appLogger,
	}
	if err := seeder.run(ctx, data); err != nil {
		appLogger.Error("Seeding failed", zap.Error(err))
		return err
	}

	appLogger.Info("Database seeding completed successfully!")
	return nil
}

type seeder struct {
	depts  *repository.DepartmentRepository
	clubs  *repository.ClubRepository
	users  *repository.UserRepository
	logger *zap.Logger
}

func (s *seeder) run(ctx context.Context, data *seedData) error {
	deptIDs, err := s.seedDepartments(ctx, data)
	if err != nil {
		return err
	}
	if err := s.seedClubs(ctx, data.Clubs, deptIDs); err != nil {
		return err
	}
	if data.Admin != nil {
		return s.seedAdmin(ctx, data.Admin)
	}
	return nil
}

// seedDepartments creates missing departments, including ones only named by
// clubs, and returns every department id by name.
func (s *seeder) seedDepartments(ctx context.Context, data *seedData) (map[string]int64, error) {
	names := append([]string{}, data.Departments...)
	for _, club := range data.Clubs {
		if club.Department != "" {
			names = append(names, club.Department)
		}
	}

	ids := make(map[string]int64, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if _, done := ids[name]; done || name == "" {
			continue
		}

		dept, err := s.depts.GetByName(ctx, name)
		if err == nil {
			ids[name] = dept.ID
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up department %q: %w", name, err)
		}

		dept = &models.Department{Name: name, CreatedAt: time.Now()}
		if err := s.depts.Create(ctx, dept); err != nil {
			return nil, fmt.Errorf("failed to create department %q: %w", name, err)
		}
		ids[name] = dept.ID
		s.logger.Info("Created department", zap.String("name", name))
	}

	return ids, nil
}

func (s *seeder) seedClubs(ctx context.Context, clubs []seedClub, deptIDs map[string]int64) error {
	existing, err := s.clubs.ListAll(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.Name] = true
	}

	created := 0
	for _, sc := range clubs {
		if known[sc.Name] {
			s.logger.Debug("Club already exists, skipping", zap.String("name", sc.Name))
			continue
		}

		now := time.Now()
		club := &models.Club{
			Name:        sc.Name,
			Description: sc.Description,
			IsActive:    sc.Active == nil || *sc.Active,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if id, ok := deptIDs[strings.TrimSpace(sc.Department)]; ok {
			club.DepartmentID = &id
		}

		if err := s.clubs.Create(ctx, club); err != nil {
			return fmt.Errorf("failed to create club %q: %w", sc.Name, err)
		}
		known[sc.Name] = true
		created++
	}

	s.logger.Info("Clubs seeded", zap.Int("created", created), zap.Int("total", len(clubs)))
	return nil
}

func (s *seeder) seedAdmin(ctx context.Context, admin *seedAdmin) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		s.logger.Info("Admin account already exists", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if len(admin.Password) < 8 {
		return errors.New("admin password must be at least 8 characters (set SEED_ADMIN_PASSWORD)")
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &models.User{
		Username:  admin.Username,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("Created admin account", zap.String("email", email))
	return nil
}
