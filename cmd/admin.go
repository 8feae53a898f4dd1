package main

import (
	"errors"
	"fmt"
	"strings"

	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/infrastructure/database"
	"clinic-backend/internal/repository"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// createAdminCmd seeds an administrator. Admins cannot register through the
// API.
func createAdminCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			name = strings.TrimSpace(name)
			if email == "" || name == "" {
				return errors.New("--email and --name are required")
			}
			if len(password) < 8 {
				return errors.New("--password must be at least 8 characters")
			}

			db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			user := &entity.User{
				Email:    email,
				Password: string(hashedPassword),
				FullName: name,
				RoleID:   entity.RoleIDAdmin,
				IsActive: true,
			}
			if err := repository.NewUserRepository().Create(db.WithContext(cmd.Context()), user); err != nil {
				if database.IsUniqueViolation(err) {
					return fmt.Errorf("email %s is already registered", email)
				}
				return err
			}

			log.WithField("user_id", user.ID).Info("Administrator created")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&name, "name", "", "admin full name")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}
