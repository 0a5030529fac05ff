package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/consultdesk/internal/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("portalctl failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "portalctl",
		Usage: "book and manage consultations from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:8080",
				Usage:   "portal API base URL",
				EnvVars: []string{"PORTAL_API_URL"},
			},
			&cli.StringFlag{
				Name:    "token-file",
				Usage:   "where the access token is kept (default: user config dir)",
				EnvVars: []string{"PORTAL_TOKEN_FILE"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 0,
				Usage: "request timeout (0 uses the client default)",
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			signupCommand(),
			listCommand(),
			bookCommand(),
			toggleCommand(),
			logoutCommand(),
		},
	}
}
