// Package repository implements the racing repositories on top of arepo,
// for all storage backends: memory, SQLite, and PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racetrack-labs/paddock/arepo"
	"github.com/racetrack-labs/paddock/arepo/q"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

// Backend selects the storage of the repositories.
// Postgres wins over SQLite. If neither is set, the data is kept in memory
// and persisted by Store, if given.
type Backend struct {
	Postgres *pgxpool.Pool
	SQLite   *sql.DB
	Store    arepo.Store
}

// Tables of the entities.
const (
	CountriesTable     = "countries"
	TeamsTable         = "teams"
	ChampionshipsTable = "championships"
	SpeedwaysTable     = "speedways"
	PilotsTable        = "pilots"
	PilotRacesTable    = "pilot_races"
)

func newRepository[E any, ID ~int64](b Backend, table string) (repository[E, ID], error) {
	var (
		repo arepo.Repository[E, ID]
		err  error
	)

	switch {
	case b.Postgres != nil:
		repo, err = arepo.NewPostgresRepository[E, ID](b.Postgres, arepo.WithTable(table))
	case b.SQLite != nil:
		repo, err = arepo.NewSQLiteRepository[E, ID](b.SQLite, arepo.WithTable(table))
	default:
		store := b.Store
		if store == nil {
			store = arepo.NoopStore
		}

		repo, err = arepo.NewMemoryRepository[E, ID](arepo.WithStore(store), arepo.WithStoreFilename(table+".json"))
	}

	if err != nil {
		return repository[E, ID]{}, fmt.Errorf("could not create %s repository: %w", table, err)
	}

	return repository[E, ID]{repo: repo}, nil
}

// repository adapts an arepo.Repository to domain.Repository.
type repository[E any, ID ~int64] struct {
	repo arepo.Repository[E, ID]
}

func (r repository[E, ID]) NextID(ctx context.Context) (ID, error) { //nolint:ireturn // valid use of generics
	return r.repo.NextID(ctx) //nolint:wrapcheck // arepo adds the context
}

func (r repository[E, ID]) Create(ctx context.Context, entity E) error {
	return r.repo.Create(ctx, entity) //nolint:wrapcheck // arepo adds the context
}

func (r repository[E, ID]) FindByID(ctx context.Context, id ID) (E, error) { //nolint:ireturn // valid use of generics
	e, err := r.repo.FindByID(ctx, id)

	return e, translate(err)
}

func (r repository[E, ID]) Update(ctx context.Context, entity E) error {
	return translate(r.repo.Update(ctx, entity))
}

func (r repository[E, ID]) DeleteByID(ctx context.Context, id ID) error {
	return r.repo.DeleteByID(ctx, id) //nolint:wrapcheck // arepo adds the context
}

func (r repository[E, ID]) ExistsByID(ctx context.Context, id ID) (bool, error) {
	return r.repo.ExistsByID(ctx, id) //nolint:wrapcheck // arepo adds the context
}

func (r repository[E, ID]) FindAll(ctx context.Context) ([]E, error) {
	return r.repo.FindAll(ctx) //nolint:wrapcheck // arepo adds the context
}

// DeleteAll is not part of the domain, it is used to reset the data, e.g. in tests.
func (r repository[E, ID]) DeleteAll(ctx context.Context) error {
	return r.repo.DeleteAll(ctx) //nolint:wrapcheck // arepo adds the context
}

func (r repository[E, ID]) allBy(ctx context.Context, query q.Query) ([]E, error) {
	return r.repo.AllBy(ctx, query) //nolint:wrapcheck // arepo adds the context
}

// translate maps arepo.ErrNotFound to domain.ErrNotFound and keeps all other errors.
func translate(err error) error {
	if errors.Is(err, arepo.ErrNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}

	return err
}

// Repositories bundles the repositories of all entities on the same Backend.
type Repositories struct {
	Countries     *CountryRepository
	Teams         *TeamRepository
	Championships *ChampionshipRepository
	Speedways     *SpeedwayRepository
	Pilots        *PilotRepository
	PilotRaces    *PilotRaceRepository
}

func NewRepositories(b Backend) (*Repositories, error) {
	var (
		repos Repositories
		err   error
	)

	if repos.Countries, err = NewCountryRepository(b); err != nil {
		return nil, err
	}

	if repos.Teams, err = NewTeamRepository(b); err != nil {
		return nil, err
	}

	if repos.Championships, err = NewChampionshipRepository(b); err != nil {
		return nil, err
	}

	if repos.Speedways, err = NewSpeedwayRepository(b); err != nil {
		return nil, err
	}

	if repos.Pilots, err = NewPilotRepository(b); err != nil {
		return nil, err
	}

	if repos.PilotRaces, err = NewPilotRaceRepository(b); err != nil {
		return nil, err
	}

	return &repos, nil
}
