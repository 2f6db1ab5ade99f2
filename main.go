// Command rover drives a simulated Mars rover.
//
// Subcommands:
//  1. "run" – executes one command string in a world and prints where the rover ended up
//  2. "script" – runs a mission script
//  3. "worlds" / "validate" – list and check the world files in the config directory
//  4. "mcp" – serves the rover as MCP tools over stdio
//
// Settings come from an optional rover.yaml (or --config), ROVER_* environment
// variables and a .env file; flags override them.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mars-rover/game/config"
	"github.com/wricardo/mars-rover/game/service"
	"github.com/wricardo/mars-rover/game/session"
	"github.com/wricardo/mars-rover/settings"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Mars Rover"
	Banner  = "Welcome to Mars"
)

// app carries what the subcommands share once the root Before hook has run
type app struct {
	out      io.Writer
	settings *settings.Settings
}

// main loads .env, builds the command tree and runs it.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newCommand builds the root command writing its output to out
func newCommand(out io.Writer) *cli.Command {
	a := &app{out: out}

	return &cli.Command{
		Name:                      "rover",
		Usage:                     "drive a simulated Mars rover",
		Version:                   Version,
		Writer:                    out,
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "settings file (yaml, json or toml)",
				Sources: cli.EnvVars("ROVER_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "config-dir",
				Usage: "directory containing world files",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: a.before,
		Action: a.welcome,
		Commands: []*cli.Command{
			a.runCommand(),
			a.scriptCommand(),
			a.worldsCommand(),
			a.validateCommand(),
			a.mcpCommand(),
		},
	}
}

// before resolves settings; flags win over the settings file and environment
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	s, err := settings.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	if cmd.IsSet("config-dir") {
		s.ConfigDir = cmd.String("config-dir")
	}
	if cmd.IsSet("debug") {
		s.Debug = cmd.Bool("debug")
	}

	setupLogging(s.Debug)
	a.settings = s

	if s.Debug {
		log.Printf("Settings: config_dir=%s default_world=%s max_commands=%d", s.ConfigDir, s.DefaultWorld, s.MaxCommands)
	}
	return ctx, nil
}

func (a *app) welcome(ctx context.Context, cmd *cli.Command) error {
	fmt.Fprintln(a.out, Banner)
	fmt.Fprintln(a.out)
	return cli.ShowRootCommandHelp(cmd)
}

// setupLogging keeps logs on stderr; stdout belongs to command output and,
// in mcp mode, to the protocol.
func setupLogging(debug bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// worldManager opens the configured world directory
func (a *app) worldManager() (*config.Manager, error) {
	manager, err := config.NewManager(a.settings.ConfigDir, a.settings.DefaultWorld)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	return manager, nil
}

// initializeServices wires the session and world managers into the rover service
func initializeServices(s *settings.Settings) (service.RoverService, *session.Manager, error) {
	worlds, err := config.NewManager(s.ConfigDir, s.DefaultWorld)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessions := session.NewManager()
	return service.NewRoverService(sessions, worlds, s.MaxCommands), sessions, nil
}
