package arepo

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racetrack-labs/paddock/arepo/q"
	"github.com/racetrack-labs/paddock/postgres"
)

const pgUniqueViolation = "23505"

// NewPostgresRepository returns a Repository working on the table of E.
//
// To map the database rows to Go structs scany's dbscan is used. It translates the struct field name to snake case.
// To override this behaviour, specify the column name in the `db` field tag.
//
//	type Pilot struct {
//		ID        PilotID
//		Name      string
//		CountryID CountryID `db:"country"`
//	}
//
// In the example above Pilot is mapped to the columns: "id", "name", "country".
// Integer IDs are taken from the serial sequence of the id column, so the column has to be a serial or identity.
func NewPostgresRepository[E any, ID id](pg *pgxpool.Pool, opts ...Option) (*PostgresRepository[E, ID], error) {
	cols := columns[E]()
	name := reflect.TypeFor[E]().Name()

	repo := &PostgresRepository[E, ID]{
		PGx:         pg,
		IDFieldName: "ID",
		Table:       tableName[E](),
		columns:     cols,
	}

	for _, opt := range opts {
		if err := opt(repo); err != nil {
			return nil, fmt.Errorf("could not initialise %s postgres repository: option returned error: %w", name, err)
		}
	}

	idColumn, ok := columnOfField[E](cols, repo.IDFieldName)
	if !ok {
		return nil, fmt.Errorf("could not initialise %s postgres repository: %w: entity has no field %s",
			name, errIDFailed, repo.IDFieldName)
	}

	repo.idColumn = idColumn

	return repo, nil
}

// PostgresRepository implements Repository in a generic way.
// The repository exposes fields required to extend the repository with custom methods.
type PostgresRepository[E any, ID id] struct {
	PGx *pgxpool.Pool

	IDFieldName string
	Table       string

	idColumn string
	columns  []column
}

var _ Repository[struct{ ID int }, int] = (*PostgresRepository[struct{ ID int }, int])(nil)

// TxOrConn returns the transaction stored in ctx under postgres.CtxTX or the pool.
func (repo *PostgresRepository[E, ID]) TxOrConn(ctx context.Context) interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
} {
	if tx, ok := ctx.Value(postgres.CtxTX).(pgx.Tx); ok {
		return tx
	}

	return repo.PGx
}

func (repo *PostgresRepository[E, ID]) NextID(ctx context.Context) (ID, error) { //nolint:ireturn // valid use of generics
	var id ID

	if reflect.TypeOf(id).Kind() == reflect.String {
		reflect.ValueOf(&id).Elem().SetString(uuid.New().String())

		return id, nil
	}

	var serial int64

	err := pgxscan.Get(ctx, repo.TxOrConn(ctx), &serial,
		"SELECT nextval(pg_get_serial_sequence($1, $2))", repo.Table, repo.idColumn,
	)
	if err != nil {
		return id, fmt.Errorf("%w: could not get from sequence: %v", errIDGenerationFailed, err)
	}

	if reflect.TypeOf(id).Kind() >= reflect.Uint && reflect.TypeOf(id).Kind() <= reflect.Uint64 {
		reflect.ValueOf(&id).Elem().SetUint(uint64(serial)) //nolint:gosec // sequences start at 1

		return id, nil
	}

	reflect.ValueOf(&id).Elem().SetInt(serial)

	return id, nil
}

func (repo *PostgresRepository[E, ID]) Create(ctx context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return fmt.Errorf("%w: %w", errCreateFailed, err)
	}

	sql, args, err := psql.builder.Insert(repo.Table).
		Columns(columnNames(repo.columns)...).
		Values(columnValues(repo.columns, entity)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %v", errCreateFailed, err)
	}

	_, err = repo.TxOrConn(ctx).Exec(ctx, sql, args...)
	if pgErr := (*pgconn.PgError)(nil); errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation &&
		pgErr.ConstraintName == repo.Table+"_pkey" {
		return ErrAlreadyExists
	}

	if err != nil {
		return fmt.Errorf("%w: could not insert entity with id %v: %v", errCreateFailed, id, err)
	}

	return nil
}

func (repo *PostgresRepository[E, ID]) FindByID(ctx context.Context, id ID) (E, error) { //nolint:ireturn // valid use of generics
	sql, args, err := psql.builder.Select(columnNames(repo.columns)...).
		From(repo.Table).
		Where(repo.byID(id)).
		ToSql()
	if err != nil {
		return *new(E), fmt.Errorf("%w: could not build query: %v", errFindFailed, err)
	}

	entity := new(E)

	err = pgxscan.Get(ctx, repo.TxOrConn(ctx), entity, sql, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return *new(E), fmt.Errorf("entity %w", ErrNotFound)
	}

	if err != nil {
		return *new(E), fmt.Errorf("%w: could not scan entity: %v", errFindFailed, err)
	}

	return *entity, nil
}

func (repo *PostgresRepository[E, ID]) Update(ctx context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return fmt.Errorf("%w: %w", errUpdateFailed, err)
	}

	query := psql.builder.Update(repo.Table).Where(repo.byID(id))

	names := columnNames(repo.columns)
	for i, v := range columnValues(repo.columns, entity) {
		query = query.Set(names[i], v)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %v", errUpdateFailed, err)
	}

	res, err := repo.TxOrConn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%w: could not update entity with id %v: %v", errUpdateFailed, id, err)
	}

	if res.RowsAffected() == 0 {
		return fmt.Errorf("entity %w", ErrNotFound)
	}

	return nil
}

// Save inserts entity or updates all columns, if the id exists already.
func (repo *PostgresRepository[E, ID]) Save(ctx context.Context, entity E) error {
	if _, err := getID[ID](entity, repo.IDFieldName); err != nil {
		return fmt.Errorf("%w: %w", errSaveFailed, err)
	}

	names := columnNames(repo.columns)

	set := make([]string, len(names))
	for i, name := range names {
		set[i] = name + " = EXCLUDED." + name
	}

	sql, args, err := psql.builder.Insert(repo.Table).
		Columns(names...).
		Values(columnValues(repo.columns, entity)...).
		Suffix("ON CONFLICT (" + quoteIdent(repo.idColumn) + ") DO UPDATE SET " + strings.Join(set, ", ")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %v", errSaveFailed, err)
	}

	if _, err = repo.TxOrConn(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%w: could not save entity: %v", errSaveFailed, err)
	}

	return nil
}

func (repo *PostgresRepository[E, ID]) Delete(ctx context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return nil //nolint:nilerr // entity without ID does not exist in the repo; it is as if it is deleted.
	}

	return repo.DeleteByID(ctx, id)
}

func (repo *PostgresRepository[E, ID]) DeleteByID(ctx context.Context, id ID) error {
	sql, args, err := psql.builder.Delete(repo.Table).Where(repo.byID(id)).ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %v", errDeleteFailed, err)
	}

	if _, err = repo.TxOrConn(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%w: could not delete entity with id %v: %v", errDeleteFailed, id, err)
	}

	return nil
}

func (repo *PostgresRepository[E, ID]) DeleteAll(ctx context.Context) error {
	if _, err := repo.TxOrConn(ctx).Exec(ctx, "DELETE FROM "+repo.Table); err != nil {
		return fmt.Errorf("%w: could not execute query: %v", errDeleteFailed, err)
	}

	return nil
}

func (repo *PostgresRepository[E, ID]) FindAll(ctx context.Context) ([]E, error) {
	return repo.AllBy(ctx, q.Query{})
}

func (repo *PostgresRepository[E, ID]) AllBy(ctx context.Context, query q.Query) ([]E, error) {
	sql, args, err := psql.selectAll(repo.Table, repo.columns, repo.idColumn, query)
	if err != nil {
		return []E{}, fmt.Errorf("%w: could not build query: %w", errFindFailed, err)
	}

	entities := []E{}

	if err = pgxscan.Select(ctx, repo.TxOrConn(ctx), &entities, sql, args...); err != nil {
		return []E{}, fmt.Errorf("%w: could not scan entities: %v", errFindFailed, err)
	}

	return entities, nil
}

func (repo *PostgresRepository[E, ID]) ExistsByID(ctx context.Context, id ID) (bool, error) {
	sql, args, err := psql.builder.Select("1").
		Prefix("SELECT EXISTS (").
		From(repo.Table).Where(repo.byID(id)).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: could not build query: %v", errExistsFailed, err)
	}

	var exists bool

	if err = pgxscan.Get(ctx, repo.TxOrConn(ctx), &exists, sql, args...); err != nil {
		return false, fmt.Errorf("%w: could not scan result: %v", errExistsFailed, err)
	}

	return exists, nil
}

func (repo *PostgresRepository[E, ID]) Count(ctx context.Context) (int, error) {
	var count int

	if err := pgxscan.Get(ctx, repo.TxOrConn(ctx), &count, "SELECT COUNT(*) FROM "+repo.Table); err != nil {
		return 0, fmt.Errorf("%w: could not scan result: %v", errCountFailed, err)
	}

	return count, nil
}

func (repo *PostgresRepository[E, ID]) byID(id ID) map[string]any {
	return map[string]any{quoteIdent(repo.idColumn): id}
}
