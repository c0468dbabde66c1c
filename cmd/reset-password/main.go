package main

import (
	"errors"
	"log"
	"os"

	"go-marketplace-toko/internal/config"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/internal/service"
	"go-marketplace-toko/pkg/database"
	"go-marketplace-toko/pkg/refcodec"

	"github.com/go-extras/cobraflags"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	usernameFlag = "username"
	passwordFlag = "password"
)

var flags = map[string]cobraflags.Flag{
	usernameFlag: &cobraflags.StringFlag{
		Name:  usernameFlag,
		Value: "admin",
		Usage: "Username whose password is reset",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "New password (min 6 characters, required)",
	},
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a user's password and sign out their sessions",
		Long: `Reset the password of an existing user directly in the database.

Every open session of the user is invalidated.

Examples:
  reset-password --password rahasia123
  reset-password --username sari --password rahasia123`,
		SilenceUsage: true,
		RunE:         run,
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func run(_ *cobra.Command, _ []string) error {
	username := flags[usernameFlag].GetString()
	password := flags[passwordFlag].GetString()
	if password == "" {
		return errors.New("--password is required")
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg.DSN())

	codec, err := refcodec.New(cfg.AppKey)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(repository.NewUserRepo(db), codec)

	// 3. Reset
	if err := authService.ResetPassword(username, password); err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return errors.New(vErr.Fields["password"])
		}
		return err
	}

	log.Printf("✅ Success! Password for %s has been reset", username)
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
