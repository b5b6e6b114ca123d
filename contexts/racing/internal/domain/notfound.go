package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError, so callers can check with errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing record or an empty result.
// The message is meant for the end user and returned as is by Error.
type NotFoundError struct {
	Message string
}

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a NotFoundError with msg taken literally.
func NotFound(msg string) *NotFoundError {
	return &NotFoundError{Message: msg}
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound //nolint:errorlint // sentinel comparison
}

// Messages are the NotFound messages of one entity.
type Messages struct {
	// ByID is used by FindByID and Delete; the verb gets the id.
	ByID string
	// Update is used by Update; the verb gets the id.
	Update string
	// None is used when there are no records at all.
	None string
}

//nolint:gochecknoglobals // fixed texts
var (
	ChampionshipMessages = Messages{
		ByID:   "O campeonato de ID %d não existe na base de dados",
		Update: "O campeonato %d não existe na base de dados",
		None:   "Nenhum campeonato cadastrado",
	}
	CountryMessages = Messages{
		ByID:   "O país de ID %d não existe na base de dados",
		Update: "O país %d não existe na base de dados",
		None:   "Nenhum país cadastrado",
	}
	TeamMessages = Messages{
		ByID:   "A equipe de ID %d não existe na base de dados",
		Update: "A equipe %d não existe na base de dados",
		None:   "Nenhuma equipe cadastrada",
	}
	SpeedwayMessages = Messages{
		ByID:   "A pista de ID %d não existe na base de dados",
		Update: "A pista %d não existe na base de dados",
		None:   "Nenhuma pista cadastrada",
	}
	PilotMessages = Messages{
		ByID:   "O piloto de ID %d não existe na base de dados",
		Update: "O piloto %d não existe na base de dados",
		None:   "Nenhum piloto cadastrado",
	}
	PilotRaceMessages = Messages{
		ByID:   "O resultado de ID %d não existe na base de dados",
		Update: "O resultado %d não existe na base de dados",
		None:   "Nenhum resultado cadastrado",
	}
)

// Messages of the filtered queries.
const (
	MsgChampionshipByYear        = "Nenhum campeonato cadastrado no ano %d"
	MsgChampionshipByYearBetween = "Nenhum campeonato cadastrado entre %d e %d"
	MsgCountryByName             = "Nenhum país cadastrado com o nome %s"
	MsgTeamByNameContains        = "Nenhuma equipe contém %s no nome"
	MsgSpeedwayBySizeBetween     = "Nenhuma pista cadastrada com tamanho entre %d e %d"
	MsgSpeedwayByNamePrefix      = "Nenhuma pista cadastrada com nome iniciando em %s"
	MsgSpeedwayByCountry         = "Nenhuma pista cadastrada para o país %d"
	MsgPilotByNamePrefix         = "Nenhum piloto cadastrado com nome iniciando em %s"
	MsgPilotByCountry            = "Nenhum piloto cadastrado para o país %d"
	MsgPilotByTeam               = "Nenhum piloto cadastrado para a equipe %d"
	MsgPilotRaceByPilot          = "Nenhum resultado cadastrado para o piloto %d"
	MsgPilotRaceByRace           = "Nenhum resultado cadastrado para a corrida %d"
)
