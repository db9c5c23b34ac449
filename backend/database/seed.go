package database

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"courseplatform/backend/config"
	"courseplatform/backend/models"
	"courseplatform/backend/utils"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed program_groups.yaml
var programGroupsYAML []byte

type groupSeed struct {
	Name      string `yaml:"name"`
	Slug      string `yaml:"slug"`
	SortOrder int    `yaml:"sort_order"`
}

// Seed inserts the program groups and the super admin when they are absent.
func Seed(db *gorm.DB, cfg *config.Config, logger *log.Logger) error {
	if err := SeedProgramGroups(db, logger); err != nil {
		return err
	}
	return SeedSuperAdmin(db, cfg, logger)
}

func SeedProgramGroups(db *gorm.DB, logger *log.Logger) error {
	var doc struct {
		Groups []groupSeed `yaml:"groups"`
	}
	if err := yaml.Unmarshal(programGroupsYAML, &doc); err != nil {
		return fmt.Errorf("parse program groups: %w", err)
	}

	for _, g := range doc.Groups {
		group := models.ProgramGroup{Name: g.Name, Slug: g.Slug, SortOrder: g.SortOrder}
		res := db.Where(models.ProgramGroup{Slug: g.Slug}).FirstOrCreate(&group)
		if res.Error != nil {
			return fmt.Errorf("seed program group %s: %w", g.Slug, res.Error)
		}
		if res.RowsAffected > 0 {
			logger.Printf("Program group created: %s", g.Name)
		}
	}
	return nil
}

func SeedSuperAdmin(db *gorm.DB, cfg *config.Config, logger *log.Logger) error {
	if cfg.SuperAdminEmail == "" || cfg.SuperAdminPassword == "" {
		logger.Println("SUPER_ADMIN_EMAIL or SUPER_ADMIN_PASSWORD not set, skipping super admin seed")
		return nil
	}

	// stored the way UserService looks emails up
	email := strings.ToLower(strings.TrimSpace(cfg.SuperAdminEmail))

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up super admin: %w", err)
	}

	hash, err := utils.HashPassword(cfg.SuperAdminPassword, cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}

	admin := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         cfg.SuperAdminName,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}
	logger.Printf("Super admin created: %s", admin.Email)
	return nil
}
