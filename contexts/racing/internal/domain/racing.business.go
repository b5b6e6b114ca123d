// Package domain holds the racing data model: countries, teams, championships,
// speedways, pilots, and the results pilots achieved in races.
package domain

type (
	CountryID      int64
	TeamID         int64
	ChampionshipID int64
	SpeedwayID     int64
	PilotID        int64
	PilotRaceID    int64
	// RaceID references a race. Races themselves are not managed here.
	RaceID int64
)

type Country struct {
	ID   CountryID `json:"id"`
	Name string    `json:"name" validate:"required"`
}

type Team struct {
	ID   TeamID `json:"id"`
	Name string `json:"name" validate:"required"`
}

type Championship struct {
	ID          ChampionshipID `json:"id"`
	Description string         `json:"description" validate:"required"`
	Year        int            `json:"year"        validate:"gt=0"`
}

type Speedway struct {
	ID        SpeedwayID `json:"id"`
	Name      string     `json:"name"       validate:"required"`
	Size      int        `json:"size"       validate:"gt=0"`
	CountryID CountryID  `json:"country_id"`
}

type Pilot struct {
	ID        PilotID   `json:"id"`
	Name      string    `json:"name"       validate:"required"`
	CountryID CountryID `json:"country_id"`
	TeamID    TeamID    `json:"team_id"`
}

// PilotRace is the placement a pilot achieved in a race.
type PilotRace struct {
	ID        PilotRaceID `json:"id"`
	Placement string      `json:"placement" validate:"required"`
	PilotID   PilotID     `json:"pilot_id"`
	RaceID    RaceID      `json:"race_id"`
}

func (c Country) Identity() CountryID           { return c.ID }
func (t Team) Identity() TeamID                 { return t.ID }
func (c Championship) Identity() ChampionshipID { return c.ID }
func (s Speedway) Identity() SpeedwayID         { return s.ID }
func (p Pilot) Identity() PilotID               { return p.ID }
func (r PilotRace) Identity() PilotRaceID       { return r.ID }

func (c Country) WithIdentity(id CountryID) Country                { c.ID = id; return c }
func (t Team) WithIdentity(id TeamID) Team                         { t.ID = id; return t }
func (c Championship) WithIdentity(id ChampionshipID) Championship { c.ID = id; return c }
func (s Speedway) WithIdentity(id SpeedwayID) Speedway             { s.ID = id; return s }
func (p Pilot) WithIdentity(id PilotID) Pilot                      { p.ID = id; return p }
func (r PilotRace) WithIdentity(id PilotRaceID) PilotRace          { r.ID = id; return r }
