package web_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControllers_List(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		target string
		status int
		body   string
	}{
		"country by name": {
			"/api/countries?name=pa%C3%ADs+5", http.StatusOK,
			`[{"id":5,"name":"País 5"}]`,
		},
		"country by unknown name": {
			"/api/countries?name=Brasil", http.StatusNotFound,
			`{"message":"Nenhum país cadastrado com o nome Brasil"}`,
		},
		"team contains": {
			"/api/teams?contains=e+6", http.StatusOK,
			`[{"id":6,"name":"Equipe 6"}]`,
		},
		"team contains respects case": {
			"/api/teams?contains=equipe", http.StatusNotFound,
			`{"message":"Nenhuma equipe contém equipe no nome"}`,
		},
		"team contains ignoring case": {
			"/api/teams?contains=equipe&ignore_case=true", http.StatusOK,
			`[{"id":5,"name":"Equipe 5"},{"id":6,"name":"Equipe 6"}]`,
		},
		"championship by year": {
			"/api/championships?year=2000", http.StatusOK,
			`[{"id":9,"description":"Campeonato 9","year":2000}]`,
		},
		"championship by years": {
			"/api/championships?from=1990&to=1999", http.StatusOK,
			`[{"id":8,"description":"Campeonato 8","year":1995}]`,
		},
		"championship without results": {
			"/api/championships?from=2001&to=2005", http.StatusNotFound,
			`{"message":"Nenhum campeonato cadastrado entre 2001 e 2005"}`,
		},
		"championship range requires both": {
			"/api/championships?from=2001", http.StatusBadRequest,
			`{"message":"query parameters from and to are required together"}`,
		},
		"championship invalid year": {
			"/api/championships?year=two", http.StatusBadRequest,
			`{"message":"query parameter year is not a number"}`,
		},
		"speedway by size": {
			"/api/speedways?min=12&max=16", http.StatusOK,
			`[{"id":3,"name":"Pista 3","size":15,"country_id":5}]`,
		},
		"speedway by prefix": {
			"/api/speedways?prefix=eq", http.StatusNotFound,
			`{"message":"Nenhuma pista cadastrada com nome iniciando em eq"}`,
		},
		"speedway by country": {
			"/api/speedways?country=6", http.StatusOK,
			`[{"id":4,"name":"Pista 4","size":20,"country_id":6}]`,
		},
		"pilot by prefix": {
			"/api/pilots?prefix=piloto+6", http.StatusOK,
			`[{"id":6,"name":"Piloto 6","country_id":6,"team_id":6}]`,
		},
		"pilot by country": {
			"/api/pilots?country=90", http.StatusNotFound,
			`{"message":"Nenhum piloto cadastrado para o país 90"}`,
		},
		"pilot by team": {
			"/api/pilots?team=5", http.StatusOK,
			`[{"id":5,"name":"Piloto 5","country_id":5,"team_id":5}]`,
		},
		"pilot by invalid team": {
			"/api/pilots?team=x", http.StatusBadRequest,
			`{"message":"query parameter team: invalid id: \"x\""}`,
		},
		"pilot race by pilot": {
			"/api/pilot-races?pilot=6", http.StatusOK,
			`[{"id":6,"placement":"2","pilot_id":6,"race_id":5}]`,
		},
		"pilot race by race": {
			"/api/pilot-races?race=7", http.StatusNotFound,
			`{"message":"Nenhum resultado cadastrado para a corrida 7"}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := serve(newTestRouter(t), get, tt.target, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestControllers_Details(t *testing.T) {
	t.Parallel()

	t.Run("pilot", func(t *testing.T) {
		t.Parallel()

		rec := serve(newTestRouter(t), get, "/api/pilots/5/details", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"id": 5, "name": "Piloto 5", "country_id": 5, "team_id": 5,
			"country": {"id": 5, "name": "País 5"},
			"team": {"id": 5, "name": "Equipe 5"}
		}`, rec.Body.String())
	})

	t.Run("pilot without team", func(t *testing.T) {
		t.Parallel()

		e := newTestRouter(t)
		serve(e, put, "/api/pilots/6", `{"name":"Piloto 6","country_id":6}`)

		rec := serve(e, get, "/api/pilots/6/details", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"id": 6, "name": "Piloto 6", "country_id": 6, "team_id": 0,
			"country": {"id": 6, "name": "País 6"}
		}`, rec.Body.String())
	})

	t.Run("missing reference", func(t *testing.T) {
		t.Parallel()

		e := newTestRouter(t)
		serve(e, del, "/api/teams/6", "")

		rec := serve(e, get, "/api/pilots/6/details", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"A equipe de ID 6 não existe na base de dados"}`, rec.Body.String())
	})

	t.Run("speedway", func(t *testing.T) {
		t.Parallel()

		rec := serve(newTestRouter(t), get, "/api/speedways/3/details", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"id": 3, "name": "Pista 3", "size": 15, "country_id": 5,
			"country": {"id": 5, "name": "País 5"}
		}`, rec.Body.String())
	})

	t.Run("speedway not existing", func(t *testing.T) {
		t.Parallel()

		rec := serve(newTestRouter(t), get, "/api/speedways/25/details", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"A pista de ID 25 não existe na base de dados"}`, rec.Body.String())
	})
}
