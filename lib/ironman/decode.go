package ironman

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrNoResults = errors.New("results file has no resultsJson.value rows")

// Row is a single athlete row as returned by the competitor results api.
// Numeric fields are pointers since the api emits null for athletes that
// never produced them.
type Row struct {
	Athlete           string   `json:"athlete"`
	ContactID         string   `json:"_wtc_contactid_value"`
	EventName         string   `json:"_wtc_eventid_value_formatted"`
	AgeGroup          string   `json:"_wtc_agegroupid_value_formatted"`
	Country           string   `json:"_wtc_countryrepresentingid_value_formatted"`
	FinishTimeSeconds *float64 `json:"wtc_finishtime"`
	FinishTimeText    string   `json:"wtc_finishtimeformatted"`
	SwimSeconds       *float64 `json:"wtc_swimtime"`
	T1Seconds         *float64 `json:"wtc_transition1time"`
	BikeSeconds       *float64 `json:"wtc_biketime"`
	T2Seconds         *float64 `json:"wtc_transition2time"`
	RunSeconds        *float64 `json:"wtc_runtime"`
	RankOverall       *float64 `json:"wtc_finishrankoverall"`
	RankGroup         *float64 `json:"wtc_finishrankgroup"`
	Finisher          *bool    `json:"wtc_finisher"`
	DNF               *bool    `json:"wtc_dnf"`
	DNS               *bool    `json:"wtc_dns"`
}

type resultsJson struct {
	Value []Row `json:"value"`
}

// File is the on-disk shape of a scraped race, the event wrapper is optional
// so that raw api payloads can be read as well.
type File struct {
	Event       *Event      `json:"event,omitempty"`
	ResultsJson resultsJson `json:"resultsJson"`
}

func NewFile(event Event, rows []Row) File {
	return File{
		Event:       &event,
		ResultsJson: resultsJson{Value: rows},
	}
}

func (f File) Rows() []Row {
	return f.ResultsJson.Value
}

func ReadRaceFile(path string) (Race, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Race{}, err
	}
	var file File
	err = json.Unmarshal(contents, &file)
	if err != nil {
		return Race{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return DecodeRace(file)
}

func DecodeRace(file File) (Race, error) {
	rows := file.Rows()
	if len(rows) == 0 {
		return Race{}, ErrNoResults
	}

	var event Event
	if file.Event != nil {
		event = *file.Event
	}
	if event.Name == "" {
		event.Name = strings.TrimSpace(rows[0].EventName)
	}

	results := make([]RaceResult, len(rows))
	for i, row := range rows {
		res, err := DecodeRow(row)
		if err != nil {
			return Race{}, fmt.Errorf("row %d (%s): %w", i, row.Athlete, err)
		}
		res.Row = i + 1
		results[i] = res
	}
	return Race{Event: event, Results: results}, nil
}

func DecodeRow(row Row) (RaceResult, error) {
	res := RaceResult{
		AthleteID: row.ContactID,
		Name:      strings.TrimSpace(row.Athlete),
		AgeGroup:  strings.TrimSpace(row.AgeGroup),
		Country:   strings.TrimSpace(row.Country),
		Status:    decodeStatus(row),
	}

	var err error
	if res.FinishTime, err = decodeSeconds(row.FinishTimeSeconds); err != nil {
		return res, fmt.Errorf("finish time: %w", err)
	}
	if !res.FinishTime.Valid && row.FinishTimeText != "" {
		res.FinishTime, err = ParseClock(row.FinishTimeText)
		if err != nil {
			return res, fmt.Errorf("finish time: %w", err)
		}
	}
	if res.Splits.Swim, err = decodeSeconds(row.SwimSeconds); err != nil {
		return res, fmt.Errorf("swim time: %w", err)
	}
	if res.Splits.T1, err = decodeSeconds(row.T1Seconds); err != nil {
		return res, fmt.Errorf("t1 time: %w", err)
	}
	if res.Splits.Bike, err = decodeSeconds(row.BikeSeconds); err != nil {
		return res, fmt.Errorf("bike time: %w", err)
	}
	if res.Splits.T2, err = decodeSeconds(row.T2Seconds); err != nil {
		return res, fmt.Errorf("t2 time: %w", err)
	}
	if res.Splits.Run, err = decodeSeconds(row.RunSeconds); err != nil {
		return res, fmt.Errorf("run time: %w", err)
	}

	// ranks only mean something for finishers, the api reports 0 or junk otherwise
	if res.Status == StatusFinished {
		if res.OverallRank, err = decodeRank(row.RankOverall); err != nil {
			return res, fmt.Errorf("overall rank: %w", err)
		}
		if res.AgeGroupRank, err = decodeRank(row.RankGroup); err != nil {
			return res, fmt.Errorf("age group rank: %w", err)
		}
	}
	return res, nil
}

func decodeStatus(row Row) Status {
	switch {
	case row.Finisher != nil && *row.Finisher:
		return StatusFinished
	case row.DNS != nil && *row.DNS:
		return StatusDidNotStart
	case row.DNF != nil && *row.DNF:
		return StatusDidNotFinish
	case row.Finisher != nil:
		return StatusDidNotFinish
	}
	return StatusUnknown
}

func decodeSeconds(v *float64) (Duration, error) {
	if v == nil || *v == 0 {
		return Duration{}, nil
	}
	if *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Duration{}, fmt.Errorf("invalid seconds value %v", *v)
	}
	return NewDuration(time.Duration(*v) * time.Second), nil
}

func decodeRank(v *float64) (int, error) {
	if v == nil || *v == 0 {
		return NoRank, nil
	}
	if *v < 0 || *v != math.Trunc(*v) {
		return NoRank, fmt.Errorf("invalid rank %v", *v)
	}
	return int(*v), nil
}

// ParseClock parses "h:mm:ss" (or "mm:ss") race clock strings.
func ParseClock(text string) (Duration, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "--:--:--" {
		return Duration{}, nil
	}
	parts := strings.Split(text, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Duration{}, fmt.Errorf("invalid clock %q", text)
	}
	var total int
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Duration{}, fmt.Errorf("invalid clock %q", text)
		}
		total = total*60 + n
	}
	return NewDuration(time.Duration(total) * time.Second), nil
}
