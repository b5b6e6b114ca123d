// Package cli exposes the racing services as cobra commands, one per entity:
//
//	paddock pilot list
//	paddock pilot get 5
//	paddock pilot add --data '{"name": "Piloto 7", "country_id": 5}'
//	paddock pilot update 7 --data '{"name": "Piloto 7", "team_id": 6}'
//	paddock pilot delete 7
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

var ErrMissingData = errors.New("missing flag --data")

type service[E any, ID ~int64] interface {
	FindByID(ctx context.Context, id ID) (E, error)
	Insert(ctx context.Context, e E) (E, error)
	Update(ctx context.Context, e E) (E, error)
	Delete(ctx context.Context, id ID) error
	ListAll(ctx context.Context) ([]E, error)
}

type entity[E any, ID ~int64] interface {
	WithIdentity(id ID) E
}

// Racing opens the application the commands work on.
// release is called once the command is done.
type Racing func(ctx context.Context) (racing *application.RacingApplication, release func(context.Context) error, err error)

// Commands returns the entity commands to be added to the root command.
func Commands(racing Racing) []*cobra.Command {
	return []*cobra.Command{
		entityCommand[domain.Country, domain.CountryID]("country", "countries", racing,
			func(a *application.RacingApplication) service[domain.Country, domain.CountryID] { return a.Countries }),
		entityCommand[domain.Team, domain.TeamID]("team", "teams", racing,
			func(a *application.RacingApplication) service[domain.Team, domain.TeamID] { return a.Teams }),
		entityCommand[domain.Championship, domain.ChampionshipID]("championship", "championships", racing,
			func(a *application.RacingApplication) service[domain.Championship, domain.ChampionshipID] {
				return a.Championships
			}),
		entityCommand[domain.Speedway, domain.SpeedwayID]("speedway", "speedways", racing,
			func(a *application.RacingApplication) service[domain.Speedway, domain.SpeedwayID] { return a.Speedways }),
		entityCommand[domain.Pilot, domain.PilotID]("pilot", "pilots", racing,
			func(a *application.RacingApplication) service[domain.Pilot, domain.PilotID] { return a.Pilots }),
		entityCommand[domain.PilotRace, domain.PilotRaceID]("pilot-race", "pilot results", racing,
			func(a *application.RacingApplication) service[domain.PilotRace, domain.PilotRaceID] { return a.PilotRaces }),
	}
}

//nolint:funlen // one command per operation
func entityCommand[E entity[E, ID], ID ~int64](
	name string,
	plural string,
	racing Racing,
	pick func(a *application.RacingApplication) service[E, ID],
) *cobra.Command {
	run := func(cmd *cobra.Command, fn func(ctx context.Context, svc service[E, ID]) error) error {
		a, release, err := racing(cmd.Context())
		if err != nil {
			return err
		}

		return errors.Join(fn(cmd.Context(), pick(a)), release(cmd.Context()))
	}

	cmd := &cobra.Command{
		Use:   name,
		Short: "Manage " + plural,
		Args:  cobra.NoArgs,
	}

	list := &cobra.Command{
		Use:                   "list",
		Short:                 "List all " + plural,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc service[E, ID]) error {
				all, err := svc.ListAll(ctx)
				if err != nil {
					return err //nolint:wrapcheck // the message is meant for the user
				}

				return printJSON(cmd.OutOrStdout(), all)
			})
		},
	}

	get := &cobra.Command{
		Use:                   "get <id>",
		Short:                 "Show the " + name + " with the id",
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID[ID](args[0])
			if err != nil {
				return err //nolint:wrapcheck // the message is meant for the user
			}

			return run(cmd, func(ctx context.Context, svc service[E, ID]) error {
				e, err := svc.FindByID(ctx, id)
				if err != nil {
					return err //nolint:wrapcheck // the message is meant for the user
				}

				return printJSON(cmd.OutOrStdout(), e)
			})
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a new " + name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := decode[E](cmd)
			if err != nil {
				return err
			}

			return run(cmd, func(ctx context.Context, svc service[E, ID]) error {
				e, err := app.NewValidatedRequest(nil, app.RequestFunc[E, E](svc.Insert)).H(ctx, e)
				if err != nil {
					return err //nolint:wrapcheck // the message is meant for the user
				}

				return printJSON(cmd.OutOrStdout(), e)
			})
		},
	}
	add.Flags().String("data", "", "the "+name+" as JSON")

	upd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the " + name + " with the id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID[ID](args[0])
			if err != nil {
				return err //nolint:wrapcheck // the message is meant for the user
			}

			e, err := decode[E](cmd)
			if err != nil {
				return err
			}

			return run(cmd, func(ctx context.Context, svc service[E, ID]) error {
				e, err := app.NewValidatedRequest(nil, app.RequestFunc[E, E](svc.Update)).H(ctx, e.WithIdentity(id))
				if err != nil {
					return err //nolint:wrapcheck // the message is meant for the user
				}

				return printJSON(cmd.OutOrStdout(), e)
			})
		},
	}
	upd.Flags().String("data", "", "the "+name+" as JSON")

	del := &cobra.Command{
		Use:                   "delete <id>",
		Short:                 "Delete the " + name + " with the id",
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID[ID](args[0])
			if err != nil {
				return err //nolint:wrapcheck // the message is meant for the user
			}

			return run(cmd, func(ctx context.Context, svc service[E, ID]) error {
				if err := svc.Delete(ctx, id); err != nil {
					return err //nolint:wrapcheck // the message is meant for the user
				}

				_, _ = color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "deleted %s %d\n", name, id)

				return nil
			})
		},
	}

	cmd.AddCommand(list, get, add, upd, del)

	return cmd
}

// decode reads the --data flag. Unknown fields are rejected, so typos do not go unnoticed.
func decode[E any](cmd *cobra.Command) (E, error) {
	var e E

	data, _ := cmd.Flags().GetString("data")
	if strings.TrimSpace(data) == "" {
		return e, ErrMissingData
	}

	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&e); err != nil {
		return e, fmt.Errorf("invalid --data: %w", err)
	}

	return e, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v) //nolint:wrapcheck // nothing to add
}
