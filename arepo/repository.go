// Package arepo offers generic repositories for entities identified by a single primary key.
//
// The same Repository interface is implemented in memory, on SQLite and on PostgreSQL,
// so that a bounded context can switch the storage backend without touching its use cases.
package arepo

import (
	"context"
	"errors"
	"reflect"

	"github.com/racetrack-labs/paddock/arepo/q"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("exists already")
)

var (
	errSetOptionFailed    = errors.New("could not set option")
	errIDFailed           = errors.New("invalid id")
	errIDGenerationFailed = errors.New("could not generate id")
	errCreateFailed       = errors.New("create failed")
	errUpdateFailed       = errors.New("update failed")
	errSaveFailed         = errors.New("save failed")
	errDeleteFailed       = errors.New("delete failed")
	errFindFailed         = errors.New("find failed")
	errExistsFailed       = errors.New("exists failed")
	errCountFailed        = errors.New("count failed")
)

// id is the primary key used in the generic Repository.
type id interface {
	~string |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Repository is implemented by MemoryRepository, SQLiteRepository and PostgresRepository.
// Methods taking an ID return ErrNotFound if no entity has that ID,
// except the Delete methods, which treat a missing entity as already deleted.
type Repository[E any, ID id] interface { //nolint:interfacebloat // all implementations share it
	NextID(ctx context.Context) (ID, error)

	Create(ctx context.Context, entity E) error
	FindByID(ctx context.Context, id ID) (E, error)
	Update(ctx context.Context, entity E) error
	Save(ctx context.Context, entity E) error
	Delete(ctx context.Context, entity E) error
	DeleteByID(ctx context.Context, id ID) error
	DeleteAll(ctx context.Context) error

	// FindAll returns all entities ordered by ID.
	FindAll(ctx context.Context) ([]E, error)
	// AllBy returns the entities matching query, ordered by ID unless the query orders itself.
	AllBy(ctx context.Context, query q.Query) ([]E, error)
	ExistsByID(ctx context.Context, id ID) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Option takes in a repository to set different optional properties.
// Options set exported fields by reflection, so one option works for all implementations
// that expose the field.
type Option func(repo any) error

// WithIDField sets the name of the field that is used as the primary key.
// If not set, it is assumed that the entity struct has a field with the name "ID".
func WithIDField(idFieldName string) Option {
	return setStringField("IDFieldName", idFieldName)
}

// WithTable overwrites the table name for the sql implementations.
// The default is the lower case entity name.
func WithTable(table string) Option {
	return setStringField("Table", table)
}

func setStringField(name, value string) Option {
	return func(repo any) error {
		v := reflect.ValueOf(repo)
		if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
			return errSetOptionFailed
		}

		field := v.Elem().FieldByName(name)
		if !field.CanSet() || field.Kind() != reflect.String {
			return errSetOptionFailed
		}

		field.SetString(value)

		return nil
	}
}
