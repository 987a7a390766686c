// Package csvstore persists extracted batches as flat CSV interchange files,
// the representation the importer later reads. Appends accumulate across
// runs; id continuity comes from seeding seq counters with the max ids found
// on disk, once, at startup.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lukman83/boostgg-scrap/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

var serviceHeader = []string{
	"service_id", "game_id", "name", "description", "price_per_unit",
	"sale_price", "icon_url", "category", "game_name",
}

var optionHeader = []string{
	"option_id", "service_id", "parent_option_id", "option_type",
	"option_name", "option_label", "option_value", "price_modifier",
	"min_value", "max_value", "default_value", "is_required",
	"display_order", "is_active", "created_at", "updated_at",
}

// Store reads and writes the two interchange files.
type Store struct {
	ServicesPath string
	OptionsPath  string
}

// EnsureFiles creates both files with headers if they do not exist yet.
func (s *Store) EnsureFiles() error {
	if err := ensureFile(s.ServicesPath, serviceHeader); err != nil {
		return err
	}
	return ensureFile(s.OptionsPath, optionHeader)
}

// Reset truncates both files back to headers only.
func (s *Store) Reset() error {
	if err := writeHeader(s.ServicesPath, serviceHeader); err != nil {
		return err
	}
	return writeHeader(s.OptionsPath, optionHeader)
}

// MaxServiceID returns the highest service_id on disk, 0 when empty.
func (s *Store) MaxServiceID() (int64, error) {
	return maxIDColumn(s.ServicesPath, 0)
}

// MaxOptionID returns the highest option_id on disk, 0 when empty.
func (s *Store) MaxOptionID() (int64, error) {
	return maxIDColumn(s.OptionsPath, 0)
}

// AppendService appends one service row.
func (s *Store) AppendService(svc models.Service) error {
	rec := []string{
		strconv.FormatInt(svc.ServiceID, 10),
		strconv.FormatInt(svc.GameID, 10),
		svc.Name,
		svc.Description,
		svc.PricePerUnit.StringFixed(2),
		decimalOrEmpty(svc.SalePrice),
		svc.IconURL,
		svc.Category,
		svc.GameName,
	}
	return appendRecords(s.ServicesPath, [][]string{rec})
}

// AppendOptions appends a batch of option rows in order.
func (s *Store) AppendOptions(rows []models.OptionRow) error {
	recs := make([][]string, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, []string{
			strconv.FormatInt(r.OptionID, 10),
			strconv.FormatInt(r.ServiceID, 10),
			int64OrEmpty(r.ParentOptionID),
			r.OptionType,
			r.OptionName,
			r.OptionLabel,
			strOrEmpty(r.OptionValue),
			r.PriceModifier.StringFixed(2),
			intOrEmpty(r.MinValue),
			intOrEmpty(r.MaxValue),
			strOrEmpty(r.DefaultValue),
			boolFlag(r.IsRequired),
			strconv.Itoa(r.DisplayOrder),
			boolFlag(r.IsActive),
			r.CreatedAt.Format(timeLayout),
			r.UpdatedAt.Format(timeLayout),
		})
	}
	return appendRecords(s.OptionsPath, recs)
}

// ReadServices loads every service row from disk.
func (s *Store) ReadServices() ([]models.Service, error) {
	records, err := readRecords(s.ServicesPath)
	if err != nil {
		return nil, err
	}
	var out []models.Service
	for i, rec := range records {
		if len(rec) < len(serviceHeader) {
			return nil, fmt.Errorf("%s: row %d has %d fields, want %d",
				s.ServicesPath, i+2, len(rec), len(serviceHeader))
		}
		svc := models.Service{
			Name:        rec[2],
			Description: rec[3],
			IconURL:     rec[6],
			Category:    rec[7],
			GameName:    rec[8],
		}
		if svc.ServiceID, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
			return nil, fmt.Errorf("%s: row %d service_id: %w", s.ServicesPath, i+2, err)
		}
		if svc.GameID, err = strconv.ParseInt(rec[1], 10, 64); err != nil {
			return nil, fmt.Errorf("%s: row %d game_id: %w", s.ServicesPath, i+2, err)
		}
		if svc.PricePerUnit, err = decimal.NewFromString(rec[4]); err != nil {
			return nil, fmt.Errorf("%s: row %d price_per_unit: %w", s.ServicesPath, i+2, err)
		}
		if rec[5] != "" {
			v, err := decimal.NewFromString(rec[5])
			if err != nil {
				return nil, fmt.Errorf("%s: row %d sale_price: %w", s.ServicesPath, i+2, err)
			}
			svc.SalePrice = &v
		}
		out = append(out, svc)
	}
	return out, nil
}

// ReadOptions loads every option row from disk, in file order.
func (s *Store) ReadOptions() ([]models.OptionRow, error) {
	records, err := readRecords(s.OptionsPath)
	if err != nil {
		return nil, err
	}
	var out []models.OptionRow
	for i, rec := range records {
		if len(rec) < len(optionHeader) {
			return nil, fmt.Errorf("%s: row %d has %d fields, want %d",
				s.OptionsPath, i+2, len(rec), len(optionHeader))
		}
		row := models.OptionRow{
			OptionType:  rec[3],
			OptionName:  rec[4],
			OptionLabel: rec[5],
		}
		if row.OptionID, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
			return nil, fmt.Errorf("%s: row %d option_id: %w", s.OptionsPath, i+2, err)
		}
		if row.ServiceID, err = strconv.ParseInt(rec[1], 10, 64); err != nil {
			return nil, fmt.Errorf("%s: row %d service_id: %w", s.OptionsPath, i+2, err)
		}
		if rec[2] != "" {
			v, err := strconv.ParseInt(rec[2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d parent_option_id: %w", s.OptionsPath, i+2, err)
			}
			row.ParentOptionID = &v
		}
		if rec[6] != "" {
			v := rec[6]
			row.OptionValue = &v
		}
		if row.PriceModifier, err = decimal.NewFromString(rec[7]); err != nil {
			return nil, fmt.Errorf("%s: row %d price_modifier: %w", s.OptionsPath, i+2, err)
		}
		if row.MinValue, err = intPtrField(rec[8]); err != nil {
			return nil, fmt.Errorf("%s: row %d min_value: %w", s.OptionsPath, i+2, err)
		}
		if row.MaxValue, err = intPtrField(rec[9]); err != nil {
			return nil, fmt.Errorf("%s: row %d max_value: %w", s.OptionsPath, i+2, err)
		}
		if rec[10] != "" {
			v := rec[10]
			row.DefaultValue = &v
		}
		row.IsRequired = rec[11] == "1"
		if row.DisplayOrder, err = strconv.Atoi(rec[12]); err != nil {
			return nil, fmt.Errorf("%s: row %d display_order: %w", s.OptionsPath, i+2, err)
		}
		row.IsActive = rec[13] == "1"
		if row.CreatedAt, err = time.Parse(timeLayout, rec[14]); err != nil {
			return nil, fmt.Errorf("%s: row %d created_at: %w", s.OptionsPath, i+2, err)
		}
		if row.UpdatedAt, err = time.Parse(timeLayout, rec[15]); err != nil {
			return nil, fmt.Errorf("%s: row %d updated_at: %w", s.OptionsPath, i+2, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func ensureFile(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return writeHeader(path, header)
}

func writeHeader(path string, header []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func appendRecords(path string, recs [][]string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

func maxIDColumn(path string, col int) (int64, error) {
	records, err := readRecords(path)
	if err != nil {
		return 0, err
	}
	var max int64
	for _, rec := range records {
		if col >= len(rec) {
			continue
		}
		v, err := strconv.ParseInt(rec[col], 10, 64)
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}
	return max, nil
}

func decimalOrEmpty(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func int64OrEmpty(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func intPtrField(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
