package arepo

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/racetrack-labs/paddock/arepo/q"
)

// WithStore sets a Store used to persist the MemoryRepository.
// ONLY applies to the in memory implementation.
//
// There are no transactions or consistency guarantees. If storing fails,
// the change is reverted in memory and the error returned.
func WithStore(store Store) Option {
	return func(repo any) error {
		c, ok := repo.(*memoryConfig)
		if !ok {
			return errSetOptionFailed
		}

		c.store = store

		return nil
	}
}

// WithStoreFilename overwrites the file name a Store uses to persist the MemoryRepository.
func WithStoreFilename(name string) Option {
	return func(repo any) error {
		c, ok := repo.(*memoryConfig)
		if !ok {
			return errSetOptionFailed
		}

		c.filename = name

		return nil
	}
}

type memoryConfig struct {
	IDFieldName string
	store       Store
	filename    string
}

// NewMemoryRepository returns an implementation of Repository for the given entity E.
// It is expected that E has a field called `ID`, that is used as the primary key and can
// be overwritten by WithIDField.
//
// Text comparisons of q.Query fold case with the Unicode rules of golang.org/x/text/cases.
func NewMemoryRepository[E any, ID id](opts ...Option) (*MemoryRepository[E, ID], error) {
	repo := &MemoryRepository[E, ID]{
		Mutex: &sync.Mutex{},
		Data:  make(map[ID]E),
		memoryConfig: memoryConfig{
			IDFieldName: "ID",
			store:       NoopStore,
			filename:    reflect.TypeFor[E]().Name() + ".json",
		},
		columns: columns[E](),
	}

	for _, opt := range opts {
		if err := opt(&repo.memoryConfig); err != nil {
			return nil, fmt.Errorf("could not initialise %s memory repository: %w", reflect.TypeFor[E]().Name(), err)
		}
	}

	if _, ok := reflect.TypeFor[E]().FieldByName(repo.IDFieldName); !ok {
		return nil, fmt.Errorf("could not initialise %s memory repository: %w: entity has no field %s",
			reflect.TypeFor[E]().Name(), errIDFailed, repo.IDFieldName)
	}

	err := repo.store.Load(repo.filename, &repo.Data)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load data for memory repository from store: %w", err)
	}

	err = repo.store.Load(repo.lastIDFilename(), &repo.currentIntID)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load last id for memory repository from store: %w", err)
	}

	for id := range repo.Data {
		repo.currentIntID = max(repo.currentIntID, id)
	}

	return repo, nil
}

// lastIDFilename is where the highest id handed out is kept, so that the ids
// of deleted records are not reused after a restart.
func (repo *MemoryRepository[E, ID]) lastIDFilename() string {
	ext := filepath.Ext(repo.filename)

	return strings.TrimSuffix(repo.filename, ext) + ".last-id" + ext
}

// raiseLastID stores id as the last id, if it is higher. The caller holds the lock.
func (repo *MemoryRepository[E, ID]) raiseLastID(id ID) error {
	if id <= repo.currentIntID {
		return nil
	}

	repo.currentIntID = id

	if reflect.TypeOf(id).Kind() == reflect.String {
		return nil
	}

	return repo.store.Store(repo.lastIDFilename(), repo.currentIntID) //nolint:wrapcheck // callers wrap
}

// MemoryRepository implements Repository in a generic way. Use it to speed up your unit testing
// or as a storage backend for local development.
type MemoryRepository[E any, ID id] struct {
	// Mutex is embedded, so that repositories who extend MemoryRepository can lock the same mutex as other methods.
	*sync.Mutex

	// Data is the repository's collection. It is exposed in case you're extending the repository.
	// If you write to Data, USE the Mutex to lock first.
	Data         map[ID]E
	currentIntID ID

	memoryConfig
	columns []column
}

var _ Repository[struct{ ID int }, int] = (*MemoryRepository[struct{ ID int }, int])(nil)

// NextID returns a new ID. Integer IDs are counted up, string IDs are random uuids.
func (repo *MemoryRepository[E, ID]) NextID(_ context.Context) (ID, error) { //nolint:ireturn // valid use of generics
	var id ID

	switch reflect.TypeOf(id).Kind() { //nolint:exhaustive // the id constraint only allows these kinds
	case reflect.String:
		reflect.ValueOf(&id).Elem().SetString(uuid.New().String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		repo.Lock()
		defer repo.Unlock()

		// the generic does not know the kind of ID, so the stored value is incremented by reflection.
		next := reflect.ValueOf(repo.currentIntID).Int() + 1
		reflect.ValueOf(&id).Elem().SetInt(next)

		if err := repo.raiseLastID(id); err != nil {
			return *new(ID), fmt.Errorf("%w: %w", errIDGenerationFailed, err)
		}
	default:
		repo.Lock()
		defer repo.Unlock()

		next := reflect.ValueOf(repo.currentIntID).Uint() + 1
		reflect.ValueOf(&id).Elem().SetUint(next)

		if err := repo.raiseLastID(id); err != nil {
			return *new(ID), fmt.Errorf("%w: %w", errIDGenerationFailed, err)
		}
	}

	return id, nil
}

func (repo *MemoryRepository[E, ID]) Create(_ context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return fmt.Errorf("%w: %w", errCreateFailed, err)
	}

	repo.Lock()
	defer repo.Unlock()

	if _, found := repo.Data[id]; found {
		return ErrAlreadyExists
	}

	repo.Data[id] = entity

	if err := repo.store.Store(repo.filename, repo.Data); err != nil {
		delete(repo.Data, id)

		return fmt.Errorf("%w: %w", errCreateFailed, err)
	}

	if err := repo.raiseLastID(id); err != nil {
		return fmt.Errorf("%w: %w", errCreateFailed, err)
	}

	return nil
}

func (repo *MemoryRepository[E, ID]) FindByID(_ context.Context, id ID) (E, error) { //nolint:ireturn // valid use of generics
	repo.Lock()
	defer repo.Unlock()

	if e, ok := repo.Data[id]; ok {
		return e, nil
	}

	return *new(E), fmt.Errorf("entity %w", ErrNotFound)
}

func (repo *MemoryRepository[E, ID]) Update(_ context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return fmt.Errorf("%w: %w", errUpdateFailed, err)
	}

	repo.Lock()
	defer repo.Unlock()

	old, found := repo.Data[id]
	if !found {
		return fmt.Errorf("entity %w", ErrNotFound)
	}

	repo.Data[id] = entity

	if err := repo.store.Store(repo.filename, repo.Data); err != nil {
		repo.Data[id] = old

		return fmt.Errorf("%w: %w", errUpdateFailed, err)
	}

	return nil
}

// Save creates or updates entity.
func (repo *MemoryRepository[E, ID]) Save(_ context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return fmt.Errorf("%w: %w", errSaveFailed, err)
	}

	repo.Lock()
	defer repo.Unlock()

	old, existed := repo.Data[id]
	repo.Data[id] = entity

	if err := repo.store.Store(repo.filename, repo.Data); err != nil {
		if existed {
			repo.Data[id] = old
		} else {
			delete(repo.Data, id)
		}

		return fmt.Errorf("%w: %w", errSaveFailed, err)
	}

	if err := repo.raiseLastID(id); err != nil {
		return fmt.Errorf("%w: %w", errSaveFailed, err)
	}

	return nil
}

func (repo *MemoryRepository[E, ID]) Delete(ctx context.Context, entity E) error {
	id, err := getID[ID](entity, repo.IDFieldName)
	if err != nil {
		return nil //nolint:nilerr // entity without ID does not exist in the repo; it is as if it is deleted.
	}

	return repo.DeleteByID(ctx, id)
}

func (repo *MemoryRepository[E, ID]) DeleteByID(_ context.Context, id ID) error {
	repo.Lock()
	defer repo.Unlock()

	old, found := repo.Data[id]
	if !found {
		return nil
	}

	delete(repo.Data, id)

	if err := repo.store.Store(repo.filename, repo.Data); err != nil {
		repo.Data[id] = old

		return fmt.Errorf("%w: %w", errDeleteFailed, err)
	}

	return nil
}

func (repo *MemoryRepository[E, ID]) DeleteAll(_ context.Context) error {
	repo.Lock()
	defer repo.Unlock()

	old := repo.Data
	repo.Data = make(map[ID]E)

	if err := repo.store.Store(repo.filename, repo.Data); err != nil {
		repo.Data = old

		return fmt.Errorf("%w: %w", errDeleteFailed, err)
	}

	return nil
}

func (repo *MemoryRepository[E, ID]) FindAll(ctx context.Context) ([]E, error) {
	return repo.AllBy(ctx, q.Query{})
}

func (repo *MemoryRepository[E, ID]) AllBy(_ context.Context, query q.Query) ([]E, error) {
	repo.Lock()
	defer repo.Unlock()

	ids := make([]ID, 0, len(repo.Data))
	for id := range repo.Data {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	entities := []E{}

	for _, id := range ids {
		e := repo.Data[id]

		ok, err := repo.matchGroup(reflect.ValueOf(e), query.Conditions)
		if err != nil {
			return []E{}, fmt.Errorf("%w: %w", errFindFailed, err)
		}

		if ok {
			entities = append(entities, e)
		}
	}

	if field, desc, ok := query.Ordering(); ok {
		if !hasColumn(repo.columns, field) {
			return []E{}, fmt.Errorf("%w: %w: %s", errFindFailed, errUnknownColumn, field)
		}

		slices.SortStableFunc(entities, func(a, b E) int {
			fa, _ := fieldByColumn(repo.columns, reflect.ValueOf(a), field)
			fb, _ := fieldByColumn(repo.columns, reflect.ValueOf(b), field)

			c, _ := compareValues(fa, fb.Interface())
			if desc {
				return -c
			}

			return c
		})
	}

	return entities, nil
}

func (repo *MemoryRepository[E, ID]) ExistsByID(_ context.Context, id ID) (bool, error) {
	repo.Lock()
	defer repo.Unlock()

	_, ok := repo.Data[id]

	return ok, nil
}

func (repo *MemoryRepository[E, ID]) Count(_ context.Context) (int, error) {
	repo.Lock()
	defer repo.Unlock()

	return len(repo.Data), nil
}

// matchGroup combines the conditions and inner groups with the group's operator. AND is the default.
func (repo *MemoryRepository[E, ID]) matchGroup(entity reflect.Value, g q.ConditionGroup) (bool, error) {
	results := make([]bool, 0, len(g.Conditions)+len(g.Groups))

	for _, c := range g.Conditions {
		ok, err := repo.match(entity, c)
		if err != nil {
			return false, err
		}

		results = append(results, ok)
	}

	for _, inner := range g.Groups {
		ok, err := repo.matchGroup(entity, inner)
		if err != nil {
			return false, err
		}

		results = append(results, ok)
	}

	if g.Operator == q.LogicalOr {
		return slices.Contains(results, true), nil
	}

	return !slices.Contains(results, false), nil
}

func (repo *MemoryRepository[E, ID]) match(entity reflect.Value, c q.Condition) (bool, error) {
	field, ok := fieldByColumn(repo.columns, entity, c.Field)
	if !ok {
		return false, fmt.Errorf("%w: %s", errUnknownColumn, c.Field)
	}

	switch c.Operator {
	case q.EqFold, q.Contains, q.ContainsFold, q.HasPrefixFold:
		return matchText(field, c)
	case q.Between:
		lower, err := compareValues(field, c.Value)
		if err != nil {
			return false, err
		}

		upper, err := compareValues(field, c.SecondValue)
		if err != nil {
			return false, err
		}

		return lower >= 0 && upper <= 0, nil
	}

	r, err := compareValues(field, c.Value)
	if err != nil {
		return false, err
	}

	switch c.Operator { //nolint:exhaustive // text operators and between are handled above
	case q.Eq:
		return r == 0, nil
	case q.Ne:
		return r != 0, nil
	case q.Gt:
		return r > 0, nil
	case q.Gte:
		return r >= 0, nil
	case q.Lt:
		return r < 0, nil
	case q.Lte:
		return r <= 0, nil
	default:
		return false, fmt.Errorf("%w: %s", errInvalidOperator, c.Operator)
	}
}

func matchText(field reflect.Value, c q.Condition) (bool, error) {
	value, ok := c.Value.(string)
	if field.Kind() != reflect.String || !ok {
		return false, fmt.Errorf("%w: %s requires a text field and value", errInvalidOperator, c.Operator)
	}

	text := field.String()

	if c.Operator == q.Contains {
		return strings.Contains(text, value), nil
	}

	folder := cases.Fold()
	text, value = folder.String(text), folder.String(value)

	switch c.Operator { //nolint:exhaustive // only text operators reach here
	case q.EqFold:
		return text == value, nil
	case q.ContainsFold:
		return strings.Contains(text, value), nil
	default:
		return strings.HasPrefix(text, value), nil
	}
}

var errIncomparable = errors.New("incomparable values")

// compareValues compares a field with a query value of the same kind, e.g. a CountryID field with an int.
func compareValues(field reflect.Value, value any) (int, error) {
	v := reflect.ValueOf(value)

	switch {
	case field.CanInt() && v.CanInt():
		return cmp.Compare(field.Int(), v.Int()), nil
	case field.CanUint() && v.CanUint():
		return cmp.Compare(field.Uint(), v.Uint()), nil
	case field.CanInt() && v.CanUint():
		return cmp.Compare(float64(field.Int()), float64(v.Uint())), nil
	case field.CanUint() && v.CanInt():
		return cmp.Compare(float64(field.Uint()), float64(v.Int())), nil
	case field.CanFloat() && v.CanFloat():
		return cmp.Compare(field.Float(), v.Float()), nil
	case field.Kind() == reflect.String && v.Kind() == reflect.String:
		return cmp.Compare(field.String(), v.String()), nil
	case field.Kind() == reflect.Bool && v.Kind() == reflect.Bool:
		if field.Bool() == v.Bool() {
			return 0, nil
		}

		return 1, nil
	}

	return 0, fmt.Errorf("%w: %s and %T", errIncomparable, field.Type(), value)
}
