package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mars-rover/game/config"
	"github.com/wricardo/mars-rover/game/engine"
	"github.com/wricardo/mars-rover/game/mission"
	"github.com/wricardo/mars-rover/transport/mcp"
)

var (
	// errMissingArgument is returned when a subcommand is called without its argument
	errMissingArgument = errors.New("missing argument")
	// errMissionFailed is returned when at least one mission run hit an obstacle
	errMissionFailed = errors.New("mission incomplete")
	// errInvalidWorlds is returned by validate when any world file is invalid
	errInvalidWorlds = errors.New("some worlds have errors")
)

func (a *app) runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "execute one command string and print the rover's final position",
		ArgsUsage: "COMMANDS",
		Description: `COMMANDS is a string of l (turn left), r (turn right), f (forward) and
b (backward). Other characters are ignored. The rover stops at the first
obstacle; the commands before it stay applied.`,
		// Each subcommand resets the separator setting when it runs, so
		// --obstacle x,y needs it here as well as on the root
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "world",
				Usage: "start from a world in the config directory",
			},
			&cli.IntFlag{
				Name:  "boundary",
				Usage: "grid half-width: coordinates run from -B to B",
			},
			&cli.StringFlag{
				Name:  "at",
				Usage: "start cell as x,y",
			},
			&cli.StringFlag{
				Name:  "facing",
				Usage: "start heading: N, E, S or W",
			},
			&cli.StringSliceFlag{
				Name:  "obstacle",
				Usage: "obstacle cell as x,y (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print every processed command",
			},
		},
		Action: a.run,
	}
}

func (a *app) run(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("%w: COMMANDS", errMissingArgument)
	}
	commands := strings.Join(cmd.Args().Slice(), "")

	world, err := a.worldFromFlags(cmd)
	if err != nil {
		return err
	}

	rover, err := engine.NewRoverFromConfig(world)
	if err != nil {
		return err
	}

	steps, runErr := rover.Trace(commands)
	if cmd.Bool("trace") {
		for _, step := range steps {
			fmt.Fprintln(a.out, formatStep(step))
		}
	}

	fmt.Fprintf(a.out, "Rover at %s facing %s\n", rover.Position(), rover.Direction().Name())
	if runErr != nil {
		return fmt.Errorf("rover stopped: %w", runErr)
	}
	return nil
}

// worldFromFlags starts from --world (or the built-in default) and applies
// the remaining flags on top
func (a *app) worldFromFlags(cmd *cli.Command) (*engine.WorldConfig, error) {
	world := engine.DefaultWorldConfig()
	if name := cmd.String("world"); name != "" {
		manager, err := a.worldManager()
		if err != nil {
			return nil, err
		}
		loaded, err := manager.LoadWorld(name)
		if err != nil {
			return nil, err
		}
		copied := *loaded
		copied.Obstacles = append([]engine.Position(nil), loaded.Obstacles...)
		world = &copied
	}

	if cmd.IsSet("boundary") {
		world.Boundary = cmd.Int("boundary")
	}
	if at := cmd.String("at"); at != "" {
		start, err := engine.ParsePosition(at)
		if err != nil {
			return nil, err
		}
		world.Start = start
	}
	if facing := cmd.String("facing"); facing != "" {
		d, err := engine.ParseDirection(facing)
		if err != nil {
			return nil, err
		}
		world.Facing = d
	}
	for _, raw := range cmd.StringSlice("obstacle") {
		p, err := engine.ParsePosition(raw)
		if err != nil {
			return nil, err
		}
		world.Obstacles = append(world.Obstacles, p)
	}

	if err := engine.ValidateWorldConfig(world); err != nil {
		return nil, err
	}
	return world, nil
}

func formatStep(step engine.Step) string {
	switch {
	case !step.OK && step.Blocked != nil:
		return fmt.Sprintf("%3d %s ✗ blocked by obstacle at %s", step.Index+1, step.Command, step.Blocked)
	case step.Turned:
		return fmt.Sprintf("%3d %s   facing %s", step.Index+1, step.Command, step.Facing.Name())
	default:
		return fmt.Sprintf("%3d %s   %s -> %s", step.Index+1, step.Command, step.From, step.To)
	}
}

func (a *app) scriptCommand() *cli.Command {
	return &cli.Command{
		Name:      "script",
		Usage:     "run a mission script",
		ArgsUsage: "FILE",
		Action:    a.script,
	}
}

func (a *app) script(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: FILE", errMissingArgument)
	}

	script, err := mission.ParseFile(path)
	if err != nil {
		return err
	}

	// Only a world statement needs the config directory
	var loader mission.WorldLoader
	if manager, err := a.worldManager(); err == nil {
		loader = manager
	} else {
		log.Printf("World directory unavailable: %v", err)
	}

	report, err := mission.Run(ctx, script, loader)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Mission %s (world: %s, boundary %d)\n", path, report.World.Name, report.World.Boundary)
	for _, run := range report.Runs {
		if run.OK {
			fmt.Fprintf(a.out, "✓ line %d: run %q -> %s facing %s\n",
				run.Line, run.Commands, run.Position, run.Direction.Name())
		} else {
			fmt.Fprintf(a.out, "✗ line %d: run %q stopped: %s; rover at %s facing %s\n",
				run.Line, run.Commands, run.Error, run.Position, run.Direction.Name())
		}
	}
	fmt.Fprintf(a.out, "Final: %s facing %s\n", report.Final.Position, report.Final.Direction.Name())

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%w: %d of %d runs stopped by obstacles", errMissionFailed, failed, len(report.Runs))
	}
	return nil
}

func (a *app) worldsCommand() *cli.Command {
	return &cli.Command{
		Name:   "worlds",
		Usage:  "list the worlds in the config directory",
		Action: a.worlds,
	}
}

func (a *app) worlds(ctx context.Context, cmd *cli.Command) error {
	manager, err := a.worldManager()
	if err != nil {
		return err
	}

	worlds, err := manager.ListWorlds()
	if err != nil {
		return err
	}

	if len(worlds) == 0 {
		fmt.Fprintf(a.out, "No worlds in %s\n", manager.Dir())
		return nil
	}
	for _, w := range worlds {
		fmt.Fprintf(a.out, "%-16s boundary %-4d obstacles %-4d %s\n", w.WorldID, w.Boundary, w.ObstacleCount, w.Description)
	}
	return nil
}

func (a *app) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate and analyze world files",
		ArgsUsage: "[NAME...]",
		Action:    a.validate,
	}
}

func (a *app) validate(ctx context.Context, cmd *cli.Command) error {
	manager, err := a.worldManager()
	if err != nil {
		return err
	}

	results, err := manager.ValidateWorlds(cmd.Args().Slice()...)
	if err != nil {
		return err
	}

	if !a.printValidation(results) {
		return errInvalidWorlds
	}
	return nil
}

// printValidation writes the report and tells whether every world was valid
func (a *app) printValidation(results []config.ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(a.out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(a.out, "✅ VALID")
		} else {
			fmt.Fprintln(a.out, "❌ INVALID")
			allValid = false
		}
		for _, e := range result.Errors {
			fmt.Fprintln(a.out, "  ❌ "+e)
		}
		for _, w := range result.Warnings {
			fmt.Fprintln(a.out, "  ⚠️  "+w)
		}
		for _, n := range result.Notes {
			fmt.Fprintln(a.out, "  "+n)
		}
	}

	fmt.Fprintf(a.out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(a.out, "✅ All worlds are valid!")
	} else {
		fmt.Fprintln(a.out, "❌ Some worlds have errors")
	}
	return allValid
}

func (a *app) mcpCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "serve the rover as MCP tools over stdio",
		Action: a.serveMCP,
	}
}

func (a *app) serveMCP(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s (mode: mcp)", AppName, Version)

	roverService, sessions, err := initializeServices(a.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go sessions.RunCleanup(ctx, a.settings.CleanupEvery, a.settings.SessionTTL)

	log.Println("MCP stdio server ready")
	return mcp.NewServer(roverService).ServeStdio()
}
