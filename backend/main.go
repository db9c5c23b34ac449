package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"courseplatform/backend/client"
	"courseplatform/backend/config"
	"courseplatform/backend/database"
	"courseplatform/backend/importer"
	"courseplatform/backend/routes"
	"courseplatform/backend/utils"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{EnableColors: !cfg.IsProduction()})

	app := &cli.App{
		Name:   "courseplatform",
		Usage:  "course content platform API and tooling",
		Action: func(*cli.Context) error { return serve(cfg, logger) },
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "migrate, seed and start the HTTP API",
				Action: func(*cli.Context) error { return serve(cfg, logger) },
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Action: func(*cli.Context) error {
					db, err := database.InitDB(cfg, logger)
					if err != nil {
						return err
					}
					return database.Migrate(db, logger)
				},
			},
			{
				Name:  "seed",
				Usage: "insert program groups and the super admin",
				Action: func(*cli.Context) error {
					db, err := database.InitDB(cfg, logger)
					if err != nil {
						return err
					}
					return database.Seed(db, cfg, logger)
				},
			},
			{
				Name:  "login",
				Usage: "authenticate against the API and store the session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", EnvVars: []string{"COURSEPLATFORM_PASSWORD"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					api := client.New(cfg.APIURL, client.NewFileSessionStore(cfg.SessionFile))
					session, err := api.Login(c.Context, c.String("email"), c.String("password"))
					if err != nil {
						return err
					}
					fmt.Printf("Logged in as %s (%s)\n", session.User.Name, session.User.Role)
					return nil
				},
			},
			{
				Name:  "logout",
				Usage: "forget the stored session",
				Action: func(*cli.Context) error {
					return client.New(cfg.APIURL, client.NewFileSessionStore(cfg.SessionFile)).Logout()
				},
			},
			{
				Name:      "import",
				Usage:     "import a folder of markdown lessons into a course",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "course", Aliases: []string{"c"}, Required: true},
				},
				Action: importFolder(cfg),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(cfg *config.Config, logger *log.Logger) error {
	db, err := prepare(cfg, logger)
	if err != nil {
		return err
	}

	app := routes.NewApp(db, cfg, logger)

	// Start server
	return app.Listen(":" + cfg.ServerPort)
}

func prepare(cfg *config.Config, logger *log.Logger) (*gorm.DB, error) {
	db, err := database.InitDB(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	if err := database.Migrate(db, logger); err != nil {
		return nil, err
	}
	if err := database.Seed(db, cfg, logger); err != nil {
		return nil, err
	}
	return db, nil
}

func importFolder(cfg *config.Config) cli.ActionFunc {
	return func(c *cli.Context) error {
		dir := c.Args().First()
		if dir == "" {
			return errors.New("folder argument is required")
		}

		payload, err := importer.ScanFolder(dir)
		if err != nil {
			return err
		}

		api := client.New(cfg.APIURL, client.NewFileSessionStore(cfg.SessionFile))
		session, err := api.Restore()
		if err != nil {
			return err
		}
		if session == nil {
			return errors.New("no stored session, run `courseplatform login` first")
		}

		counts, err := api.Import(c.Context, c.Uint("course"), payload)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d modules, %d topics, %d lessons\n", counts.Modules, counts.Topics, counts.Lessons)
		return nil
	}
}
