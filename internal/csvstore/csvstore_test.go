package csvstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukman83/boostgg-scrap/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s := &Store{
		ServicesPath: filepath.Join(dir, "services.csv"),
		OptionsPath:  filepath.Join(dir, "service_options.csv"),
	}
	require.NoError(t, s.EnsureFiles())
	return s
}

func TestMaxIDsOnEmptyFiles(t *testing.T) {
	s := newTestStore(t)

	maxSvc, err := s.MaxServiceID()
	require.NoError(t, err)
	assert.Zero(t, maxSvc)

	maxOpt, err := s.MaxOptionID()
	require.NoError(t, err)
	assert.Zero(t, maxOpt)
}

func TestServiceRoundTrip(t *testing.T) {
	s := newTestStore(t)

	sale := decimal.NewFromFloat(39.99)
	svc := models.Service{
		ServiceID:    3,
		GameID:       21,
		Name:         "Leveling 1-60",
		Description:  "Fast and safe.",
		PricePerUnit: decimal.NewFromFloat(54.99),
		SalePrice:    &sale,
		IconURL:      "https://cdn.example.com/icon.png",
		Category:     "World of Warcraft",
		GameName:     "World of Warcraft",
	}
	require.NoError(t, s.AppendService(svc))

	got, err := s.ReadServices()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, svc.Name, got[0].Name)
	assert.Equal(t, "54.99", got[0].PricePerUnit.StringFixed(2))
	require.NotNil(t, got[0].SalePrice)
	assert.Equal(t, "39.99", got[0].SalePrice.StringFixed(2))

	maxSvc, err := s.MaxServiceID()
	require.NoError(t, err)
	assert.Equal(t, int64(3), maxSvc)
}

func TestOptionRoundTripAndSeeding(t *testing.T) {
	s := newTestStore(t)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	parent := int64(11)
	value := "hard"
	minV, maxV := 1, 60
	rows := []models.OptionRow{
		{
			OptionID: 11, ServiceID: 3, OptionType: models.TypeRadio,
			OptionName: "difficulty", OptionLabel: "Difficulty",
			PriceModifier: decimal.Zero, IsRequired: true, DisplayOrder: 1,
			IsActive: true, CreatedAt: now, UpdatedAt: now,
		},
		{
			OptionID: 12, ServiceID: 3, ParentOptionID: &parent,
			OptionType: models.TypeRadio, OptionName: "difficulty_hard",
			OptionLabel: "Hard", OptionValue: &value,
			PriceModifier: decimal.NewFromFloat(12.87),
			MinValue:      &minV, MaxValue: &maxV,
			DisplayOrder: 2, IsActive: true, CreatedAt: now, UpdatedAt: now,
		},
	}
	require.NoError(t, s.AppendOptions(rows))

	got, err := s.ReadOptions()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Nil(t, got[0].ParentOptionID)
	assert.True(t, got[0].IsRequired)
	require.NotNil(t, got[1].ParentOptionID)
	assert.Equal(t, int64(11), *got[1].ParentOptionID)
	require.NotNil(t, got[1].OptionValue)
	assert.Equal(t, "hard", *got[1].OptionValue)
	assert.Equal(t, "12.87", got[1].PriceModifier.StringFixed(2))
	require.NotNil(t, got[1].MinValue)
	assert.Equal(t, 1, *got[1].MinValue)
	assert.Equal(t, now, got[1].CreatedAt)

	maxOpt, err := s.MaxOptionID()
	require.NoError(t, err)
	assert.Equal(t, int64(12), maxOpt)
}

func TestResetTruncatesToHeaders(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AppendService(models.Service{ServiceID: 1, GameID: 21, Name: "X", PricePerUnit: decimal.Zero}))
	require.NoError(t, s.Reset())

	got, err := s.ReadServices()
	require.NoError(t, err)
	assert.Empty(t, got)
}
