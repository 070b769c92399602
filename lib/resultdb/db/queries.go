package db

import (
	"context"
	"database/sql"
)

const upsertRace = `
insert into race (id, name, date, location, exported_at)
values (?, ?, ?, ?, ?)
on conflict (id) do update set
    name = excluded.name,
    date = excluded.date,
    location = excluded.location,
    exported_at = excluded.exported_at
`

type UpsertRaceParams struct {
	ID         string
	Name       string
	Date       string
	Location   string
	ExportedAt int64
}

func (q *Queries) UpsertRace(ctx context.Context, arg UpsertRaceParams) error {
	_, err := q.db.ExecContext(ctx, upsertRace,
		arg.ID,
		arg.Name,
		arg.Date,
		arg.Location,
		arg.ExportedAt,
	)
	return err
}

const deleteRaceResults = `delete from result where race_id = ?`

func (q *Queries) DeleteRaceResults(ctx context.Context, raceID string) error {
	_, err := q.db.ExecContext(ctx, deleteRaceResults, raceID)
	return err
}

const deleteRaceSlots = `delete from age_group_slots where race_id = ?`

func (q *Queries) DeleteRaceSlots(ctx context.Context, raceID string) error {
	_, err := q.db.ExecContext(ctx, deleteRaceSlots, raceID)
	return err
}

const createResult = `
insert or replace into result (
    race_id, athlete_key, name, age_group, country, status,
    finish_seconds, swim_seconds, t1_seconds, bike_seconds, t2_seconds, run_seconds,
    overall_rank, age_group_rank, qualifier
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateResultParams struct {
	RaceID        string
	AthleteKey    string
	Name          string
	AgeGroup      string
	Country       string
	Status        string
	FinishSeconds sql.NullInt64
	SwimSeconds   sql.NullInt64
	T1Seconds     sql.NullInt64
	BikeSeconds   sql.NullInt64
	T2Seconds     sql.NullInt64
	RunSeconds    sql.NullInt64
	OverallRank   sql.NullInt64
	AgeGroupRank  sql.NullInt64
	Qualifier     bool
}

func (q *Queries) CreateResult(ctx context.Context, arg CreateResultParams) error {
	_, err := q.db.ExecContext(ctx, createResult,
		arg.RaceID,
		arg.AthleteKey,
		arg.Name,
		arg.AgeGroup,
		arg.Country,
		arg.Status,
		arg.FinishSeconds,
		arg.SwimSeconds,
		arg.T1Seconds,
		arg.BikeSeconds,
		arg.T2Seconds,
		arg.RunSeconds,
		arg.OverallRank,
		arg.AgeGroupRank,
		arg.Qualifier,
	)
	return err
}

const createAgeGroupSlots = `
insert into age_group_slots (race_id, age_group, starters, finishers, allocated, final, unused)
values (?, ?, ?, ?, ?, ?, ?)
`

type CreateAgeGroupSlotsParams struct {
	RaceID    string
	AgeGroup  string
	Starters  int64
	Finishers int64
	Allocated int64
	Final     int64
	Unused    int64
}

func (q *Queries) CreateAgeGroupSlots(ctx context.Context, arg CreateAgeGroupSlotsParams) error {
	_, err := q.db.ExecContext(ctx, createAgeGroupSlots,
		arg.RaceID,
		arg.AgeGroup,
		arg.Starters,
		arg.Finishers,
		arg.Allocated,
		arg.Final,
		arg.Unused,
	)
	return err
}

const getRaces = `
select
    race.id, race.name, race.date, race.location, race.exported_at,
    (select count(*) from result where result.race_id = race.id) as results,
    (select count(*) from result where result.race_id = race.id and result.qualifier = 1) as qualifiers
from race
order by race.date, race.name
`

type GetRacesRow struct {
	ID         string
	Name       string
	Date       string
	Location   string
	ExportedAt int64
	Results    int64
	Qualifiers int64
}

func (q *Queries) GetRaces(ctx context.Context) ([]GetRacesRow, error) {
	rows, err := q.db.QueryContext(ctx, getRaces)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetRacesRow
	for rows.Next() {
		var i GetRacesRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Date,
			&i.Location,
			&i.ExportedAt,
			&i.Results,
			&i.Qualifiers,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getQualifiers = `
select name, age_group, age_group_rank, finish_seconds
from result
where race_id = ? and qualifier = 1
order by age_group, age_group_rank
`

type GetQualifiersRow struct {
	Name          string
	AgeGroup      string
	AgeGroupRank  sql.NullInt64
	FinishSeconds sql.NullInt64
}

func (q *Queries) GetQualifiers(ctx context.Context, raceID string) ([]GetQualifiersRow, error) {
	rows, err := q.db.QueryContext(ctx, getQualifiers, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetQualifiersRow
	for rows.Next() {
		var i GetQualifiersRow
		if err := rows.Scan(
			&i.Name,
			&i.AgeGroup,
			&i.AgeGroupRank,
			&i.FinishSeconds,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
