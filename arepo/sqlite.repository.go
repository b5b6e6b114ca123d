package arepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/racetrack-labs/paddock/arepo/q"
	paddocksqlite "github.com/racetrack-labs/paddock/sqlite"
)

// NewSQLiteRepository returns a Repository working on the table of E in a database opened by the sqlite package.
// Column mapping works as for NewPostgresRepository.
//
// Integer IDs are counted up in the table "sequences" (name TEXT PRIMARY KEY, value INTEGER NOT NULL),
// one row per table. Rows inserted without NextID, e.g. by fixtures, are taken into account.
// Text conditions of q.Query require the casefold function, which the sqlite package registers.
func NewSQLiteRepository[E any, ID id](db *sql.DB, opts ...Option) (*SQLiteRepository[E, ID], error) {
	cols := columns[E]()
	name := reflect.TypeFor[E]().Name()

	repo := &SQLiteRepository[E, ID]{
		DB:          db,
		IDFieldName: "ID",
		Table:       tableName[E](),
		columns:     cols,
	}

	for _, opt := range opts {
		if err := opt(repo); err != nil {
			return nil, fmt.Errorf("could not initialise %s sqlite repository: option returned error: %w", name, err)
		}
	}

	idColumn, ok := columnOfField[E](cols, repo.IDFieldName)
	if !ok {
		return nil, fmt.Errorf("could not initialise %s sqlite repository: %w: entity has no field %s",
			name, errIDFailed, repo.IDFieldName)
	}

	repo.idColumn = idColumn

	return repo, nil
}

// SQLiteRepository implements Repository in a generic way on top of database/sql.
type SQLiteRepository[E any, ID id] struct {
	DB *sql.DB

	IDFieldName string
	Table       string

	idColumn string
	columns  []column
}

var _ Repository[struct{ ID int }, int] = (*SQLiteRepository[struct{ ID int }, int])(nil)

// TxOrConn returns the transaction stored in ctx under sqlite.CtxTX or the database.
func (repo *SQLiteRepository[E, ID]) TxOrConn(ctx context.Context) interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if tx, ok := ctx.Value(paddocksqlite.CtxTX).(*sql.Tx); ok {
		return tx
	}

	return repo.DB
}

func (repo *SQLiteRepository[E, ID]) NextID(ctx context.Context) (ID, error) { //nolint:ireturn // valid use of generics
	var id ID

	if reflect.TypeOf(id).Kind() == reflect.String {
		reflect.ValueOf(&id).Elem().SetString(uuid.New().String())

		return id, nil
	}

	maxID := "(SELECT COALESCE(MAX(" + quoteIdent(repo.idColumn) + "), 0) FROM " + repo.Table + ")"

	var next int64

	err := sqlscan.Get(ctx, repo.TxOrConn(ctx), &next,
		`INSERT INTO sequences (name, value) VALUES (?, `+maxID+` + 1)
		ON CONFLICT (name) DO UPDATE SET value = MAX(sequences.value, `+maxID+`) + 1
		RETURNING value`,
		repo.Table,
	)
	if err != nil {
		return id, fmt.Errorf("%w: could not get from sequence: %v", errIDGenerationFailed, err)
	}

	if reflect.TypeOf(id).Kind() >= reflect.Uint && reflect.TypeOf(id).Kind() <= reflect.Uint64 {
		reflect.ValueOf(&id).Elem().SetUint(uint64(next)) //nolint:gosec // sequences start at 1

		return id, nil
	}

	reflect.ValueOf(&id).Elem().SetInt(next)

	return id, nil
}

func (repo *SQLiteRepository[E, ID]) Create(ctx context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return fmt.Errorf("%w: %w", errCreateFailed, err)
	}

	query, args, err := sqlitesql.builder.Insert(repo.Table).
		Columns(columnNames(repo.columns)...).
		Values(columnValues(repo.columns, entity)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %v", errCreateFailed, err)
	}

	_, err = repo.TxOrConn(ctx).ExecContext(ctx, query, args...)
	if sqliteErr := (*sqlite.Error)(nil); errors.As(err, &sqliteErr) &&
		sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return ErrAlreadyExists
	}

	if err != nil {
		return fmt.Errorf("%w: could not insert entity with id %v: %v", errCreateFailed, id, err)
	}

	return nil
}

func (repo *SQLiteRepository[E, ID]) FindByID(ctx context.Context, id ID) (E, error) { //nolint:ireturn // valid use of generics
	query, args, err := sqlitesql.builder.Select(columnNames(repo.columns)...).
		From(repo.Table).
		Where(repo.byID(id)).
		ToSql()
	if err != nil {
		return *new(E), fmt.Errorf("%w: could not build query: %v", errFindFailed, err)
	}

	entity := new(E)

	err = sqlscan.Get(ctx, repo.TxOrConn(ctx), entity, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return *new(E), fmt.Errorf("entity %w", ErrNotFound)
	}

	if err != nil {
		return *new(E), fmt.Errorf("%w: could not scan entity: %v", errFindFailed, err)
	}

	return *entity, nil
}

func (repo *SQLiteRepository[E, ID]) Update(ctx context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return fmt.Errorf("%w: %w", errUpdateFailed, err)
	}

	stmt := sqlitesql.builder.Update(repo.Table).Where(repo.byID(id))

	names := columnNames(repo.columns)
	for i, v := range columnValues(repo.columns, entity) {
		stmt = stmt.Set(names[i], v)
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %v", errUpdateFailed, err)
	}

	res, err := repo.TxOrConn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: could not update entity with id %v: %v", errUpdateFailed, id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: could not get affected rows: %v", errUpdateFailed, err)
	}

	if affected == 0 {
		return fmt.Errorf("entity %w", ErrNotFound)
	}

	return nil
}

// Save inserts entity or updates all columns, if the id exists already.
func (repo *SQLiteRepository[E, ID]) Save(ctx context.Context, entity E) error {
	if _, err := getID[ID](entity, repo.IDFieldName); err != nil {
		return fmt.Errorf("%w: %w", errSaveFailed, err)
	}

	names := columnNames(repo.columns)

	set := make([]string, len(names))
	for i, name := range names {
		set[i] = name + " = excluded." + name
	}

	query, args, err := sqlitesql.builder.Insert(repo.Table).
		Columns(names...).
		Values(columnValues(repo.columns, entity)...).
		Suffix("ON CONFLICT (" + quoteIdent(repo.idColumn) + ") DO UPDATE SET " + strings.Join(set, ", ")).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %v", errSaveFailed, err)
	}

	if _, err = repo.TxOrConn(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: could not save entity: %v", errSaveFailed, err)
	}

	return nil
}

func (repo *SQLiteRepository[E, ID]) Delete(ctx context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return nil //nolint:nilerr // entity without ID does not exist in the repo; it is as if it is deleted.
	}

	return repo.DeleteByID(ctx, id)
}

func (repo *SQLiteRepository[E, ID]) DeleteByID(ctx context.Context, id ID) error {
	query, args, err := sqlitesql.builder.Delete(repo.Table).Where(repo.byID(id)).ToSql()
	if err != nil {
		return fmt.Errorf("%w: could not build query: %v", errDeleteFailed, err)
	}

	if _, err = repo.TxOrConn(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: could not delete entity with id %v: %v", errDeleteFailed, id, err)
	}

	return nil
}

func (repo *SQLiteRepository[E, ID]) DeleteAll(ctx context.Context) error {
	if _, err := repo.TxOrConn(ctx).ExecContext(ctx, "DELETE FROM "+repo.Table); err != nil {
		return fmt.Errorf("%w: could not execute query: %v", errDeleteFailed, err)
	}

	return nil
}

func (repo *SQLiteRepository[E, ID]) FindAll(ctx context.Context) ([]E, error) {
	return repo.AllBy(ctx, q.Query{})
}

func (repo *SQLiteRepository[E, ID]) AllBy(ctx context.Context, query q.Query) ([]E, error) {
	stmt, args, err := sqlitesql.selectAll(repo.Table, repo.columns, repo.idColumn, query)
	if err != nil {
		return []E{}, fmt.Errorf("%w: could not build query: %w", errFindFailed, err)
	}

	entities := []E{}

	if err = sqlscan.Select(ctx, repo.TxOrConn(ctx), &entities, stmt, args...); err != nil {
		return []E{}, fmt.Errorf("%w: could not scan entities: %v", errFindFailed, err)
	}

	return entities, nil
}

func (repo *SQLiteRepository[E, ID]) ExistsByID(ctx context.Context, id ID) (bool, error) {
	query, args, err := sqlitesql.builder.Select("1").
		Prefix("SELECT EXISTS (").
		From(repo.Table).Where(repo.byID(id)).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: could not build query: %v", errExistsFailed, err)
	}

	var exists bool

	if err = sqlscan.Get(ctx, repo.TxOrConn(ctx), &exists, query, args...); err != nil {
		return false, fmt.Errorf("%w: could not scan result: %v", errExistsFailed, err)
	}

	return exists, nil
}

func (repo *SQLiteRepository[E, ID]) Count(ctx context.Context) (int, error) {
	var count int

	if err := sqlscan.Get(ctx, repo.TxOrConn(ctx), &count, "SELECT COUNT(*) FROM "+repo.Table); err != nil {
		return 0, fmt.Errorf("%w: could not scan result: %v", errCountFailed, err)
	}

	return count, nil
}

func (repo *SQLiteRepository[E, ID]) byID(id ID) map[string]any {
	return map[string]any{quoteIdent(repo.idColumn): id}
}
