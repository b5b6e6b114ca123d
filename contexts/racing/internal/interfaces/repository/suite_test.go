package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/interfaces/repository"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/testdata"
)

var ctx = context.Background()

// racingSuite runs against repositories that contain the seed data.
func racingSuite(t *testing.T, newRepos func(t *testing.T) *repository.Repositories) {
	t.Helper()

	t.Run("find by id", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		pilot, err := repos.Pilots.FindByID(ctx, testdata.PilotID5)
		require.NoError(t, err)
		assert.Equal(t, testdata.Pilots()[0], pilot)

		_, err = repos.Pilots.FindByID(ctx, testdata.NotExistingID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("create with next id", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		id, err := repos.Countries.NextID(ctx)
		require.NoError(t, err)
		assert.Greater(t, id, testdata.CountryID6, "ids of the seed data are taken into account")

		country := testdata.RandomCountry().WithIdentity(id)
		require.NoError(t, repos.Countries.Create(ctx, country))

		got, err := repos.Countries.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, country, got)
	})

	t.Run("no association", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		id, _ := repos.Pilots.NextID(ctx)
		pilot := domain.Pilot{ID: id, Name: "Piloto sem equipe", CountryID: testdata.CountryID5}
		require.NoError(t, repos.Pilots.Create(ctx, pilot))

		got, err := repos.Pilots.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.TeamID(0), got.TeamID)
		assert.Equal(t, pilot, got)
	})

	t.Run("update", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		team := domain.Team{ID: testdata.TeamID5, Name: "Equipe 5 teste alteração"}
		require.NoError(t, repos.Teams.Update(ctx, team))

		got, _ := repos.Teams.FindByID(ctx, testdata.TeamID5)
		assert.Equal(t, team, got)

		other, _ := repos.Teams.FindByID(ctx, testdata.TeamID6)
		assert.Equal(t, testdata.Teams()[1], other, "other records are untouched")

		err := repos.Teams.Update(ctx, domain.Team{ID: testdata.NotExistingID, Name: "Equipe inexistente"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		ok, err := repos.Championships.ExistsByID(ctx, 8)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, repos.Championships.DeleteByID(ctx, 8))

		ok, _ = repos.Championships.ExistsByID(ctx, 8)
		assert.False(t, ok)

		all, _ := repos.Championships.FindAll(ctx)
		assert.Equal(t, testdata.Championships()[1:], all)
	})

	t.Run("find all", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		races, err := repos.PilotRaces.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, testdata.PilotRaces(), races)

		require.NoError(t, repos.PilotRaces.DeleteAll(ctx))

		races, err = repos.PilotRaces.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, races)
	})

	t.Run("country by name", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		countries, err := repos.Countries.FindByName(ctx, "país 5")
		require.NoError(t, err)
		assert.Equal(t, testdata.Countries()[:1], countries)

		countries, err = repos.Countries.FindByName(ctx, "País")
		require.NoError(t, err)
		assert.Empty(t, countries, "the whole name has to match")
	})

	t.Run("team by name", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		teams, err := repos.Teams.FindByNameContains(ctx, "Equipe")
		require.NoError(t, err)
		assert.Len(t, teams, 2)

		teams, err = repos.Teams.FindByNameContains(ctx, "equipe")
		require.NoError(t, err)
		assert.Empty(t, teams)

		teams, err = repos.Teams.FindByNameContainsIgnoreCase(ctx, "equipe")
		require.NoError(t, err)
		assert.Len(t, teams, 2)

		teams, err = repos.Teams.FindByNameContainsIgnoreCase(ctx, "PE 6")
		require.NoError(t, err)
		assert.Equal(t, testdata.Teams()[1:], teams)
	})

	t.Run("championship by year", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		championships, err := repos.Championships.FindByYear(ctx, 2000)
		require.NoError(t, err)
		assert.Equal(t, testdata.Championships()[1:], championships)

		championships, err = repos.Championships.FindByYearBetween(ctx, 1990, 2005)
		require.NoError(t, err)
		assert.Len(t, championships, 2)

		championships, err = repos.Championships.FindByYearBetween(ctx, 1995, 1995)
		require.NoError(t, err)
		assert.Len(t, championships, 1, "bounds are included")

		championships, err = repos.Championships.FindByYearBetween(ctx, 2001, 2024)
		require.NoError(t, err)
		assert.Empty(t, championships)
	})

	t.Run("speedway filters", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		speedways, err := repos.Speedways.FindBySizeBetween(ctx, 12, 16)
		require.NoError(t, err)
		assert.Equal(t, testdata.Speedways()[:1], speedways)

		speedways, err = repos.Speedways.FindBySizeBetween(ctx, 15, 20)
		require.NoError(t, err)
		assert.Len(t, speedways, 2)

		speedways, err = repos.Speedways.FindByNameStartsWithIgnoreCase(ctx, "pi")
		require.NoError(t, err)
		assert.Len(t, speedways, 2)

		speedways, err = repos.Speedways.FindByNameStartsWithIgnoreCase(ctx, "ista")
		require.NoError(t, err)
		assert.Empty(t, speedways)

		speedways, err = repos.Speedways.FindByCountry(ctx, testdata.CountryID6)
		require.NoError(t, err)
		assert.Equal(t, testdata.Speedways()[1:], speedways)
	})

	t.Run("pilot filters", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		pilots, err := repos.Pilots.FindByNameStartsWithIgnoreCase(ctx, "P")
		require.NoError(t, err)
		assert.Len(t, pilots, 2)

		pilots, err = repos.Pilots.FindByCountry(ctx, testdata.CountryID5)
		require.NoError(t, err)
		assert.Equal(t, testdata.Pilots()[:1], pilots)

		pilots, err = repos.Pilots.FindByTeam(ctx, testdata.TeamID6)
		require.NoError(t, err)
		assert.Equal(t, testdata.Pilots()[1:], pilots)
	})

	t.Run("pilot race filters", func(t *testing.T) {
		t.Parallel()

		repos := newRepos(t)

		races, err := repos.PilotRaces.FindByPilot(ctx, testdata.PilotID5)
		require.NoError(t, err)
		assert.Equal(t, testdata.PilotRaces()[:1], races)

		races, err = repos.PilotRaces.FindByRace(ctx, testdata.RaceID5)
		require.NoError(t, err)
		assert.Len(t, races, 2)

		races, err = repos.PilotRaces.FindByRace(ctx, testdata.NotExistingID)
		require.NoError(t, err)
		assert.Empty(t, races)
	})
}
