package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Black-And-White-Club/league-score-manager/app"
	rosterservice "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/application"
	rosterdomain "github.com/Black-And-White-Club/league-score-manager/app/modules/roster/domain"
	"github.com/Black-And-White-Club/league-score-manager/config"
	"github.com/urfave/cli/v2"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withService runs fn against a roster service built without event consumers.
func withService(c *cli.Context, fn func(ctx context.Context, svc rosterservice.Service) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if !c.Bool("verbose") {
		cfg.Observability.LogLevel = "warn"
	}

	application, err := app.NewApp(c.Context, cfg, c.App.ErrWriter, false)
	if err != nil {
		return err
	}
	return runService(c.Context, c.App.ErrWriter, application.RosterModule.RosterService, application.Close, fn)
}

// runService calls fn and then closeFn. An empty roster is reported as a warning; the close
// error is joined into whatever fn returned.
func runService(
	ctx context.Context,
	errOut io.Writer,
	svc rosterservice.Service,
	closeFn func() error,
	fn func(ctx context.Context, svc rosterservice.Service) error,
) (err error) {
	defer func() {
		err = errors.Join(err, closeFn())
	}()

	err = fn(ctx, svc)
	if errors.Is(err, rosterdomain.ErrEmptyRoster) {
		fmt.Fprintf(errOut, "warning: %v\n", err)
		return nil
	}
	return err
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and event consumers",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			application, err := app.NewApp(c.Context, cfg, c.App.ErrWriter, true)
			if err != nil {
				return err
			}
			runErr := application.Run(c.Context)
			return errors.Join(runErr, application.Close())
		},
	}
}

func statFlags(withDefaults bool) []cli.Flag {
	def := func(v int) int {
		if withDefaults {
			return v
		}
		return 0
	}
	return []cli.Flag{
		&cli.IntFlag{Name: "league-position", Value: def(rosterdomain.MinLeaguePosition), Usage: "league position (1-20)"},
		&cli.IntFlag{Name: "target-hit", Value: def(rosterdomain.TargetMet), Usage: "1 if the target was met, -1 otherwise"},
		&cli.IntFlag{Name: "cup-stage", Value: def(rosterdomain.MaxCupStage), Usage: "cup stage reached (1-4)"},
		&cli.IntFlag{Name: "yellow-cards"},
		&cli.IntFlag{Name: "red-cards"},
		&cli.IntFlag{Name: "goals-conceded"},
		&cli.IntFlag{Name: "goals-scored"},
		&cli.IntFlag{Name: "interviews"},
		&cli.StringSliceFlag{Name: "penalty", Usage: "penalty tag, repeatable"},
	}
}

func penaltyTags(values []string) []rosterdomain.PenaltyTag {
	tags := make([]rosterdomain.PenaltyTag, len(values))
	for i, v := range values {
		tags[i] = rosterdomain.PenaltyTag(v)
	}
	return tags
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "add a player record",
		ArgsUsage: "NAME",
		Flags:     statFlags(true),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("add takes exactly one NAME argument", 2)
			}
			p := rosterdomain.NewPlayer(c.Args().First())
			p.LeaguePosition = c.Int("league-position")
			p.TargetHit = c.Int("target-hit")
			p.CupStage = c.Int("cup-stage")
			p.YellowCards = c.Int("yellow-cards")
			p.RedCards = c.Int("red-cards")
			p.GoalsConceded = c.Int("goals-conceded")
			p.GoalsScored = c.Int("goals-scored")
			p.Interviews = c.Int("interviews")
			p.PenaltyPoints = penaltyTags(c.StringSlice("penalty"))

			return withService(c, func(ctx context.Context, svc rosterservice.Service) error {
				added, err := svc.AddPlayer(ctx, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Added %s\n", added.Name)
				return nil
			})
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "update the first player record with NAME",
		ArgsUsage: "NAME",
		Flags:     statFlags(false),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("update takes exactly one NAME argument", 2)
			}
			patch := patchFromFlags(c)
			if patch.IsEmpty() {
				return cli.Exit("nothing to update, pass at least one field flag", 2)
			}

			return withService(c, func(ctx context.Context, svc rosterservice.Service) error {
				updated, err := svc.UpdatePlayer(ctx, c.Args().First(), patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Updated %s\n", updated.Name)
				return nil
			})
		},
	}
}

func patchFromFlags(c *cli.Context) rosterdomain.PlayerPatch {
	var patch rosterdomain.PlayerPatch
	intFlag := func(name string) *int {
		if !c.IsSet(name) {
			return nil
		}
		v := c.Int(name)
		return &v
	}
	patch.LeaguePosition = intFlag("league-position")
	patch.TargetHit = intFlag("target-hit")
	patch.CupStage = intFlag("cup-stage")
	patch.YellowCards = intFlag("yellow-cards")
	patch.RedCards = intFlag("red-cards")
	patch.GoalsConceded = intFlag("goals-conceded")
	patch.GoalsScored = intFlag("goals-scored")
	patch.Interviews = intFlag("interviews")
	if c.IsSet("penalty") {
		tags := penaltyTags(c.StringSlice("penalty"))
		patch.PenaltyPoints = &tags
	}
	return patch
}

func printScores(w io.Writer, roster rosterdomain.Roster) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSCORE")
	for _, p := range roster {
		fmt.Fprintf(tw, "%s\t%d\n", p.Name, p.Score)
	}
	return tw.Flush()
}

func computeCommand() *cli.Command {
	return &cli.Command{
		Name:  "compute",
		Usage: "recompute every score",
		Action: func(c *cli.Context) error {
			return withService(c, func(ctx context.Context, svc rosterservice.Service) error {
				roster, err := svc.ComputeScores(ctx)
				if err != nil {
					return err
				}
				return printScores(c.App.Writer, roster)
			})
		},
	}
}

func awardsCommand() *cli.Command {
	return &cli.Command{
		Name:  "awards",
		Usage: "apply fair-play, goal awards and penalties on top of current scores",
		Action: func(c *cli.Context) error {
			return withService(c, func(ctx context.Context, svc rosterservice.Service) error {
				roster, err := svc.ApplyAwards(ctx)
				if err != nil {
					return err
				}
				return printScores(c.App.Writer, roster)
			})
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "print the roster as JSON",
		Action: func(c *cli.Context) error {
			return withService(c, func(ctx context.Context, svc rosterservice.Service) error {
				roster, err := svc.ListPlayers(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "    ")
				return enc.Encode(roster)
			})
		},
	}
}

func breakdownCommand() *cli.Command {
	return &cli.Command{
		Name:  "breakdown",
		Usage: "print the components of every score",
		Action: func(c *cli.Context) error {
			return withService(c, func(ctx context.Context, svc rosterservice.Service) error {
				parts, err := svc.Breakdown(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(tw, "NAME\tLEAGUE\tTARGET\tCUP\tNO YC\tCONCEDED\tSCORED\tINTERVIEWS\tPENALTIES\tTOTAL\t")
				for _, p := range parts {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
						p.Name, p.League, p.Target, p.Cup, p.NoYellowCards, p.FewestConceded,
						p.MostScored, p.Interviews, p.Penalties, p.Total)
				}
				return tw.Flush()
			})
		},
	}
}

func writeFileCommand(name, usage, defaultOut string, write func(context.Context, rosterservice.Service, io.Writer) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: defaultOut, Usage: "output file, - for stdout"},
		},
		Action: func(c *cli.Context) error {
			return withService(c, func(ctx context.Context, svc rosterservice.Service) error {
				out := c.String("out")
				if out == "-" {
					return write(ctx, svc, c.App.Writer)
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				if err := write(ctx, svc, f); err != nil {
					_ = f.Close()
					_ = os.Remove(out)
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to close %s: %w", out, err)
				}
				fmt.Fprintf(c.App.Writer, "Wrote %s\n", out)
				return nil
			})
		},
	}
}

func exportCommand() *cli.Command {
	return writeFileCommand("export", "write the roster to an xlsx workbook", rosterservice.DefaultExportFilename,
		func(ctx context.Context, svc rosterservice.Service, w io.Writer) error {
			return svc.ExportSpreadsheet(ctx, w)
		})
}

func chartCommand() *cli.Command {
	return writeFileCommand("chart", "render the scores as a PNG bar chart", "scores.png",
		func(ctx context.Context, svc rosterservice.Service, w io.Writer) error {
			return svc.RenderChart(ctx, w)
		})
}

func penaltiesCommand() *cli.Command {
	return &cli.Command{
		Name:  "penalties",
		Usage: "list the penalty tags and their deltas",
		Action: func(c *cli.Context) error {
			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			for _, rule := range rosterdomain.PenaltyTable() {
				fmt.Fprintf(tw, "%s\t%d\n", rule.Tag, rule.Delta)
			}
			return tw.Flush()
		},
	}
}
