// Package resultdb exports decoded races and their qualifiers to a sqlite
// file or a libsql database.
package resultdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"ironman-results/lib/ironman"
	"ironman-results/lib/qualify"
	"ironman-results/lib/resultdb/db"
)

var Schema = db.Schema

func isRemote(dsn string) bool {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return false
}

// Open opens a local sqlite file (created when missing) or a remote libsql
// database and applies the schema.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}
	if isRemote(dsn) {
		database, err := sql.Open("libsql", dsn)
		if err != nil {
			return nil, err
		}
		return database, migrate(database)
	}

	if dsn != ":memory:" {
		_, statErr := os.Stat(dsn)
		if os.IsNotExist(statErr) {
			f, err := os.Create(dsn)
			if err != nil {
				return nil, err
			}
			f.Close()
		}
	}

	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite only allows a single writer
	database.SetMaxOpenConns(1)
	if dsn != ":memory:" {
		_, err = database.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			database.Close()
			return nil, err
		}
	}
	return database, migrate(database)
}

func migrate(database *sql.DB) error {
	_, err := database.Exec(Schema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func RaceID(race ironman.Race) string {
	if race.Event.ID != "" {
		return race.Event.ID
	}
	return race.Event.Name
}

func nullSeconds(d ironman.Duration) sql.NullInt64 {
	if !d.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(d.Value / time.Second), Valid: true}
}

func nullRank(rank int) sql.NullInt64 {
	if rank == ironman.NoRank {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(rank), Valid: true}
}

// Push replaces everything stored for the race with its results, qualifier
// flags and per age group slots. A zero Outcome exports the results without
// any qualifiers.
func (s Store) Push(ctx context.Context, race ironman.Race, outcome qualify.Outcome) error {
	raceID := RaceID(race)
	if raceID == "" {
		return fmt.Errorf("race has neither an id nor a name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.UpsertRace(ctx, db.UpsertRaceParams{
		ID:         raceID,
		Name:       race.Event.Name,
		Date:       race.Event.Date,
		Location:   race.Event.Location,
		ExportedAt: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	err = txqry.DeleteRaceResults(ctx, raceID)
	if err != nil {
		return err
	}
	err = txqry.DeleteRaceSlots(ctx, raceID)
	if err != nil {
		return err
	}

	for _, r := range race.Results {
		err := txqry.CreateResult(ctx, db.CreateResultParams{
			RaceID:        raceID,
			AthleteKey:    r.Key(),
			Name:          r.Name,
			AgeGroup:      r.AgeGroup,
			Country:       r.Country,
			Status:        r.Status.String(),
			FinishSeconds: nullSeconds(r.FinishTime),
			SwimSeconds:   nullSeconds(r.Splits.Swim),
			T1Seconds:     nullSeconds(r.Splits.T1),
			BikeSeconds:   nullSeconds(r.Splits.Bike),
			T2Seconds:     nullSeconds(r.Splits.T2),
			RunSeconds:    nullSeconds(r.Splits.Run),
			OverallRank:   nullRank(r.OverallRank),
			AgeGroupRank:  nullRank(r.AgeGroupRank),
			Qualifier:     outcome.IsQualifier(r),
		})
		if err != nil {
			return fmt.Errorf("insert result %s: %w", r.Key(), err)
		}
	}

	for _, g := range outcome.Groups {
		err := txqry.CreateAgeGroupSlots(ctx, db.CreateAgeGroupSlotsParams{
			RaceID:    raceID,
			AgeGroup:  g.AgeGroup,
			Starters:  int64(g.Starters),
			Finishers: int64(g.Finishers),
			Allocated: int64(g.Allocated),
			Final:     int64(g.Final),
			Unused:    int64(g.Unused),
		})
		if err != nil {
			return fmt.Errorf("insert slots %s: %w", g.AgeGroup, err)
		}
	}

	slog.DebugContext(ctx, "exported race", "race", race.Event.Name, "results", len(race.Results), "qualifiers", outcome.QualifierCount())
	return tx.Commit()
}

type RaceSummary struct {
	ID         string
	Name       string
	Date       string
	Location   string
	ExportedAt time.Time
	Results    int
	Qualifiers int
}

func (s Store) Races(ctx context.Context) ([]RaceSummary, error) {
	rows, err := s.qry.GetRaces(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RaceSummary, len(rows))
	for i, r := range rows {
		out[i] = RaceSummary{
			ID:         r.ID,
			Name:       r.Name,
			Date:       r.Date,
			Location:   r.Location,
			ExportedAt: time.Unix(r.ExportedAt, 0),
			Results:    int(r.Results),
			Qualifiers: int(r.Qualifiers),
		}
	}
	return out, nil
}

type Qualifier struct {
	Name         string
	AgeGroup     string
	AgeGroupRank int
	FinishTime   ironman.Duration
}

func (s Store) Qualifiers(ctx context.Context, raceID string) ([]Qualifier, error) {
	rows, err := s.qry.GetQualifiers(ctx, raceID)
	if err != nil {
		return nil, err
	}
	out := make([]Qualifier, len(rows))
	for i, r := range rows {
		q := Qualifier{
			Name:         r.Name,
			AgeGroup:     r.AgeGroup,
			AgeGroupRank: int(r.AgeGroupRank.Int64),
		}
		if r.FinishSeconds.Valid {
			q.FinishTime = ironman.NewDuration(time.Duration(r.FinishSeconds.Int64) * time.Second)
		}
		out[i] = q
	}
	return out, nil
}
