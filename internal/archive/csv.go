package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/cailot/cool-runnings/internal/model"
)

// ReadCSV parses draw history from a CSV file. Rows that fail to parse are
// logged and skipped, never fatal.
//
// Expected columns: Draw, Date (yyyy-mm-dd), 7 winning numbers, 2 bonus
// numbers. Extra trailing columns are ignored.
func ReadCSV(path string) ([]model.Draw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // source files carry trailing stat columns

	// Header line
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			log.Println("[WARN] csv file is empty")
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var draws []model.Draw
	failed := 0
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			failed++
			log.Printf("[WARN] csv line %d: %v", line, err)
			continue
		}

		d, err := parseCSVRecord(record)
		if err != nil {
			failed++
			log.Printf("[WARN] csv line %d: %v", line, err)
			continue
		}
		draws = append(draws, d)
	}

	if failed > 0 {
		log.Printf("[WARN] csv read: %d rows failed to parse", failed)
	}
	return draws, nil
}

// ImportCSV reads draw history from a CSV file and stores every row the
// archive doesn't already have. Returns the number of rows saved.
func ImportCSV(a Archive, path string) (int, error) {
	draws, err := ReadCSV(path)
	if err != nil {
		return 0, err
	}

	saved, skipped := 0, 0
	for _, d := range draws {
		existing, err := a.FindByIndex(d.Index)
		if err != nil {
			return saved, fmt.Errorf("lookup draw %d: %w", d.Index, err)
		}
		if existing != nil {
			skipped++
			continue
		}
		if err := a.SaveDraw(d); err != nil {
			return saved, fmt.Errorf("save draw %d: %w", d.Index, err)
		}
		saved++
	}

	log.Printf("[INFO] csv import done: %d saved, %d skipped", saved, skipped)
	return saved, nil
}

func parseCSVRecord(record []string) (model.Draw, error) {
	var d model.Draw
	if len(record) < 11 {
		return d, fmt.Errorf("expected at least 11 columns, got %d", len(record))
	}

	index, err := strconv.Atoi(record[0])
	if err != nil {
		return d, fmt.Errorf("draw index %q: %w", record[0], err)
	}
	d.Index = index

	date, err := time.Parse("2006-01-02", record[1])
	if err != nil {
		return d, fmt.Errorf("draw date %q: %w", record[1], err)
	}
	d.Date = date

	for i := 0; i < model.WinningCount; i++ {
		n, err := strconv.Atoi(record[2+i])
		if err != nil {
			return d, fmt.Errorf("winning number %q: %w", record[2+i], err)
		}
		if !model.ValidNumber(n) {
			return d, fmt.Errorf("winning number %d out of range", n)
		}
		d.Winning[i] = n
	}
	for i := 0; i < model.BonusCount; i++ {
		n, err := strconv.Atoi(record[9+i])
		if err != nil {
			return d, fmt.Errorf("bonus number %q: %w", record[9+i], err)
		}
		if !model.ValidNumber(n) {
			return d, fmt.Errorf("bonus number %d out of range", n)
		}
		d.Bonus[i] = n
	}
	return d, nil
}
