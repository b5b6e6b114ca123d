package arepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test returns a MemoryRepository with assertions attached, for use in unit tests.
// It fails the test if the repository cannot be created.
func Test[E any, ID id](t *testing.T, opts ...Option) *TestRepository[E, ID] {
	if t == nil {
		panic("t is nil")
	}

	t.Helper()

	repo, err := NewMemoryRepository[E, ID](opts...)
	if err != nil {
		t.Fatal(err)
	}

	return &TestRepository[E, ID]{
		MemoryRepository: repo,
		TestAssertions:   TestAssert[E, ID](t, repo),
	}
}

type TestRepository[E any, ID id] struct {
	*MemoryRepository[E, ID]
	*TestAssertions[E, ID]
}

// TestAssert wraps any Repository with assertions, e.g. a SQLiteRepository loaded with fixtures.
func TestAssert[E any, ID id](t *testing.T, repo Repository[E, ID]) *TestAssertions[E, ID] {
	return &TestAssertions[E, ID]{repo: repo, t: t}
}

// TestAssertions are assertions that work on a Repository, to make
// testing easier and convenient. The interface follows stretchr/testify as close as possible.
type TestAssertions[E any, ID id] struct {
	repo Repository[E, ID]
	t    *testing.T
}

// Empty asserts that the repository has no entities.
func (a *TestAssertions[E, ID]) Empty(msgAndArgs ...any) bool {
	a.t.Helper()

	return a.Total(0, msgAndArgs...)
}

// NotEmpty asserts that the repository has at least one entity.
func (a *TestAssertions[E, ID]) NotEmpty(msgAndArgs ...any) bool {
	a.t.Helper()

	c, err := a.repo.Count(context.Background())
	if err != nil {
		return assert.Fail(a.t, "could not count entities: "+err.Error(), msgAndArgs...)
	}

	if c == 0 {
		return assert.Fail(a.t, "repository is empty, should have at least one entity", msgAndArgs...)
	}

	return true
}

// Total asserts that the repository holds exactly total entities.
func (a *TestAssertions[E, ID]) Total(total int, msgAndArgs ...any) bool {
	a.t.Helper()

	c, err := a.repo.Count(context.Background())
	if err != nil {
		return assert.Fail(a.t, "could not count entities: "+err.Error(), msgAndArgs...)
	}

	return assert.Equal(a.t, total, c, msgAndArgs...)
}

// Contains asserts that an entity with id exists.
func (a *TestAssertions[E, ID]) Contains(id ID, msgAndArgs ...any) bool {
	a.t.Helper()

	ok, err := a.repo.ExistsByID(context.Background(), id)
	if err != nil {
		return assert.Fail(a.t, "could not check existence: "+err.Error(), msgAndArgs...)
	}

	return assert.True(a.t, ok, msgAndArgs...)
}

// NotContains asserts that no entity with id exists.
func (a *TestAssertions[E, ID]) NotContains(id ID, msgAndArgs ...any) bool {
	a.t.Helper()

	ok, err := a.repo.ExistsByID(context.Background(), id)
	if err != nil {
		return assert.Fail(a.t, "could not check existence: "+err.Error(), msgAndArgs...)
	}

	return assert.False(a.t, ok, msgAndArgs...)
}
