package arepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racetrack-labs/paddock/arepo"
	"github.com/racetrack-labs/paddock/arepo/q"
	"github.com/racetrack-labs/paddock/arepo/testdata"
)

var ctx = context.Background()

// repositorySuite runs the behaviour every Repository implementation shares.
// newRepo has to return an empty repository, isolated from other calls.
func repositorySuite( //nolint:maintidx // one suite for all implementations
	t *testing.T,
	newRepo func(t *testing.T) arepo.Repository[testdata.Entity, testdata.EntityID],
	newUUIDRepo func(t *testing.T) arepo.Repository[testdata.EntityWithUUID, testdata.EntityUUID],
) {
	t.Helper()

	seeded := func(t *testing.T) arepo.Repository[testdata.Entity, testdata.EntityID] {
		t.Helper()

		repo := newRepo(t)
		for _, e := range testdata.Teams() {
			require.NoError(t, repo.Create(ctx, e))
		}

		return repo
	}

	t.Run("NextID", func(t *testing.T) {
		t.Parallel()

		t.Run("int", func(t *testing.T) {
			t.Parallel()

			repo := newRepo(t)

			first, err := repo.NextID(ctx)
			require.NoError(t, err)
			second, err := repo.NextID(ctx)
			require.NoError(t, err)

			assert.NotZero(t, first)
			assert.Greater(t, second, first)
		})

		t.Run("uuid", func(t *testing.T) {
			t.Parallel()

			repo := newUUIDRepo(t)

			first, err := repo.NextID(ctx)
			require.NoError(t, err)
			second, err := repo.NextID(ctx)
			require.NoError(t, err)

			assert.NotEmpty(t, first)
			assert.NotEqual(t, first, second)

			require.NoError(t, repo.Create(ctx, testdata.EntityWithUUID{ID: first, Name: "Equipe 5"}))
			got, err := repo.FindByID(ctx, first)
			require.NoError(t, err)
			assert.Equal(t, "Equipe 5", got.Name)
		})
	})

	t.Run("Create", func(t *testing.T) {
		t.Parallel()

		t.Run("create", func(t *testing.T) {
			t.Parallel()

			repo := newRepo(t)
			id, err := repo.NextID(ctx)
			require.NoError(t, err)

			entity := testdata.RandomEntity(id)
			require.NoError(t, repo.Create(ctx, entity))

			got, err := repo.FindByID(ctx, id)
			assert.NoError(t, err)
			assert.Equal(t, entity, got)
		})

		t.Run("create same again", func(t *testing.T) {
			t.Parallel()

			repo := seeded(t)

			err := repo.Create(ctx, testdata.Teams()[0])
			assert.ErrorIs(t, err, arepo.ErrAlreadyExists)
		})

		t.Run("missing id", func(t *testing.T) {
			t.Parallel()

			repo := newRepo(t)

			err := repo.Create(ctx, testdata.Entity{Name: "Equipe 5"})
			assert.Error(t, err)

			c, _ := repo.Count(ctx)
			assert.Equal(t, 0, c)
		})
	})

	t.Run("FindByID", func(t *testing.T) {
		t.Parallel()

		repo := seeded(t)

		got, err := repo.FindByID(ctx, 3)
		assert.NoError(t, err)
		assert.Equal(t, testdata.Teams()[2], got)

		got, err = repo.FindByID(ctx, 1337)
		assert.ErrorIs(t, err, arepo.ErrNotFound)
		assert.Empty(t, got)
	})

	t.Run("Update", func(t *testing.T) {
		t.Parallel()

		t.Run("existing", func(t *testing.T) {
			t.Parallel()

			repo := seeded(t)

			err := repo.Update(ctx, testdata.Entity{ID: 1, Name: "Equipe 7", Year: 2020})
			assert.NoError(t, err)

			got, _ := repo.FindByID(ctx, 1)
			assert.Equal(t, testdata.Entity{ID: 1, Name: "Equipe 7", Year: 2020}, got)

			other, _ := repo.FindByID(ctx, 2)
			assert.Equal(t, testdata.Teams()[1], other, "other entities are not touched")
		})

		t.Run("not existing", func(t *testing.T) {
			t.Parallel()

			repo := seeded(t)

			err := repo.Update(ctx, testdata.Entity{ID: 1337, Name: "Equipe 7"})
			assert.ErrorIs(t, err, arepo.ErrNotFound)

			c, _ := repo.Count(ctx)
			assert.Equal(t, 4, c)
		})
	})

	t.Run("Save", func(t *testing.T) {
		t.Parallel()

		repo := newRepo(t)

		require.NoError(t, repo.Save(ctx, testdata.Entity{ID: 10, Name: "Equipe 5", Year: 2001}))
		require.NoError(t, repo.Save(ctx, testdata.Entity{ID: 10, Name: "Equipe 6", Year: 2002}))

		got, err := repo.FindByID(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, testdata.Entity{ID: 10, Name: "Equipe 6", Year: 2002}, got)

		c, _ := repo.Count(ctx)
		assert.Equal(t, 1, c)
	})

	t.Run("Delete", func(t *testing.T) {
		t.Parallel()

		t.Run("delete", func(t *testing.T) {
			t.Parallel()

			repo := seeded(t)

			assert.NoError(t, repo.Delete(ctx, testdata.Teams()[0]))
			assert.NoError(t, repo.DeleteByID(ctx, 2))

			ok, err := repo.ExistsByID(ctx, 1)
			assert.NoError(t, err)
			assert.False(t, ok)

			ok, _ = repo.ExistsByID(ctx, 3)
			assert.True(t, ok)

			c, _ := repo.Count(ctx)
			assert.Equal(t, 2, c)
		})

		t.Run("not existing", func(t *testing.T) {
			t.Parallel()

			repo := seeded(t)

			assert.NoError(t, repo.DeleteByID(ctx, 1337))
			assert.NoError(t, repo.Delete(ctx, testdata.Entity{}))

			c, _ := repo.Count(ctx)
			assert.Equal(t, 4, c)
		})

		t.Run("all", func(t *testing.T) {
			t.Parallel()

			repo := seeded(t)

			assert.NoError(t, repo.DeleteAll(ctx))

			c, _ := repo.Count(ctx)
			assert.Equal(t, 0, c)
		})
	})

	t.Run("FindAll", func(t *testing.T) {
		t.Parallel()

		t.Run("empty", func(t *testing.T) {
			t.Parallel()

			all, err := newRepo(t).FindAll(ctx)
			assert.NoError(t, err)
			assert.NotNil(t, all)
			assert.Empty(t, all)
		})

		t.Run("ordered by id", func(t *testing.T) {
			t.Parallel()

			repo := newRepo(t)
			teams := testdata.Teams()

			for i := len(teams) - 1; i >= 0; i-- {
				require.NoError(t, repo.Create(ctx, teams[i]))
			}

			all, err := repo.FindAll(ctx)
			assert.NoError(t, err)
			assert.Equal(t, teams, all)
		})
	})

	t.Run("AllBy", func(t *testing.T) {
		t.Parallel()

		repo := seeded(t)

		tests := map[string]struct {
			query    q.Query
			expected []testdata.EntityID
		}{
			"is":                     {q.Where("name").Is("Equipe 5"), []testdata.EntityID{1}},
			"is not":                 {q.Where("year").IsNot(2001), []testdata.EntityID{2, 3, 4}},
			"greater than":           {q.Where("year").GreaterThan(2005), []testdata.EntityID{3, 4}},
			"between is inclusive":   {q.Where("year").Between(2005, 2010), []testdata.EntityID{2, 3}},
			"equal fold":             {q.Where("name").EqualFold("EQUIPE 6"), []testdata.EntityID{2}},
			"contains":               {q.Where("name").Contains("quipe"), []testdata.EntityID{1, 2}},
			"contains respects case": {q.Where("name").Contains("Equipe"), []testdata.EntityID{1}},
			"contains fold":          {q.Where("name").ContainsFold("QUIPE"), []testdata.EntityID{1, 2, 4}},
			"contains fold unicode":  {q.Where("name").ContainsFold("ímola"), []testdata.EntityID{3}},
			"has prefix fold":        {q.Where("name").HasPrefixFold("équipe"), []testdata.EntityID{4}},
			"no match":               {q.Where("name").HasPrefixFold("Pista"), []testdata.EntityID{}},
			"and": {
				q.Where("name").ContainsFold("quipe").Where("year").GreaterThanOrEqual(2005),
				[]testdata.EntityID{2, 4},
			},
			"or": {
				q.Query{}.Or(q.Where("year").Is(2001), q.Where("year").Is(2010)),
				[]testdata.EntityID{1, 3},
			},
			"order descending": {
				q.Where("year").LessThan(2011).OrderBy("year").Descending(),
				[]testdata.EntityID{3, 2, 1},
			},
		}

		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				found, err := repo.AllBy(ctx, tt.query)
				require.NoError(t, err)

				ids := []testdata.EntityID{}
				for _, e := range found {
					ids = append(ids, e.ID)
				}

				assert.Equal(t, tt.expected, ids)
			})
		}

		t.Run("unknown column", func(t *testing.T) {
			t.Parallel()

			_, err := repo.AllBy(ctx, q.Where("name; DROP TABLE entity").Is("x"))
			assert.Error(t, err)
		})

		t.Run("text operator on number", func(t *testing.T) {
			t.Parallel()

			_, err := repo.AllBy(ctx, q.Where("year").ContainsFold("20"))
			assert.Error(t, err)
		})

		t.Run("text operator on number with text value", func(t *testing.T) {
			t.Parallel()

			for _, query := range []q.Query{
				q.Where("year").EqualFold("2005"),
				q.Where("year").HasPrefixFold("2"),
				q.Where("year").Contains("0"),
			} {
				_, err := repo.AllBy(ctx, query)
				assert.Error(t, err, "all backends reject text operators on non text fields")
			}
		})
	})
}

// foldSuite checks full Unicode case folding, e.g. ß folds to ss.
// PostgreSQL compares with LOWER, which keeps ß, so it does not run there.
func foldSuite(t *testing.T, repo arepo.Repository[testdata.Entity, testdata.EntityID]) {
	t.Helper()

	require.NoError(t, repo.Create(ctx, testdata.Entity{ID: 1, Name: "Straße", Year: 2001}))

	for _, query := range []q.Query{
		q.Where("name").EqualFold("STRASSE"),
		q.Where("name").ContainsFold("ASS"),
		q.Where("name").HasPrefixFold("strass"),
	} {
		found, err := repo.AllBy(ctx, query)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	}
}
