package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/config"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// Models lists every table managed by AutoMigrate
func Models() []any {
	return []any{
		// Accounts
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.PasswordResetToken{},
		&entity.Church{},
		&entity.ChurchMembership{},

		// Membership and departments
		&entity.Member{},
		&entity.Department{},
		&entity.Item{},

		// Finance documents
		&entity.FiscalYear{},
		&entity.Contribution{},
		&entity.DepartmentIncome{},
		&entity.DepartmentBudget{},
		&entity.DepartmentBudgetItem{},
		&entity.DepartmentExpense{},
		&entity.DepartmentExpenseDetail{},
		&entity.Remittance{},
		&entity.RemittanceItem{},
		&entity.TreasuryBudget{},
		&entity.TreasuryBudgetDetail{},
		&entity.NamingSeries{},

		// Integrations
		&entity.Settings{},
		&entity.SMSLog{},
		&entity.MobileMoneyPayment{},

		// System
		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := createPartialIndexes(db); err != nil {
		return err
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// partialIndexes cover rows struct tags cannot express. Drafts carry no
// receipt number, so only issued numbers must be unique per church.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_contribution_receipt ON tithes_and_offerings (tenant_id, receipt_number) WHERE receipt_number <> ''`,
}

func createPartialIndexes(db *gorm.DB) error {
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// SeedDefaultData creates the built-in permissions and roles, and the
// platform admin when ADMIN_EMAIL and ADMIN_PASSWORD are set.
func SeedDefaultData(db *gorm.DB) error {
	log.Info().Msg("seeding default data")

	for _, name := range entity.AllPermissions {
		var existing entity.Permission
		err := db.Where("name = ?", name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&entity.Permission{Name: name, GuardName: "web"}).Error; err != nil {
				return fmt.Errorf("create permission %s: %w", name, err)
			}
		} else if err != nil {
			return err
		}
	}

	var allPermissions []entity.Permission
	if err := db.Find(&allPermissions).Error; err != nil {
		return err
	}
	byName := make(map[string]entity.Permission, len(allPermissions))
	for _, p := range allPermissions {
		byName[p.Name] = p
	}

	for roleName, permNames := range entity.DefaultRoles {
		var role entity.Role
		err := db.Where("name = ?", roleName).First(&role).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		role = entity.Role{Name: roleName, GuardName: "web"}
		for _, n := range permNames {
			if p, ok := byName[n]; ok {
				role.Permissions = append(role.Permissions, p)
			}
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("create role %s: %w", roleName, err)
		}
	}

	if err := seedPlatformAdmin(db); err != nil {
		log.Warn().Err(err).Msg("failed to create platform admin")
	}

	log.Info().Msg("default data seeding completed")
	return nil
}

func seedPlatformAdmin(db *gorm.DB) error {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing entity.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		log.Debug().Str("email", adminEmail).Msg("platform admin already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var role entity.Role
	if err := db.Where("name = ?", entity.RoleSuperAdmin).First(&role).Error; err != nil {
		return err
	}

	adminName := viper.GetString("ADMIN_NAME")
	if adminName == "" {
		adminName = "Platform Admin"
	}
	firstName, lastName, _ := strings.Cut(adminName, " ")

	admin := entity.User{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     adminEmail,
		Password:  string(hashed),
		Roles:     []entity.Role{role},
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info().Str("email", adminEmail).Msg("platform admin created")
	return nil
}
