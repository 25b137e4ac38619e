package model

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"Run", &Run{}, "runs"},
		{"Marker", &Marker{}, "markers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func migrate(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "model.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(DatabaseModels...))
	return db
}

func TestDatabaseModels_MigrateAndStoreGeometry(t *testing.T) {
	db := migrate(t)

	run := Run{
		UID:       "7f7c3c9e-0000-4000-8000-000000000001",
		Mode:      "fresh",
		Settings:  datatypes.JSON(`{"pixelSizeNm":160}`),
		MaxFrames: 10,
		StartTime: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&run).Error)

	corner := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: 1.5, Y: 2.5}, Type: geom.DimXY})
	outline := geom.NewLineString(geom.NewSequence([]float64{0, 0, 5, 0, 5, 5, 0, 5, 0, 0}, geom.DimXY))
	require.NoError(t, db.Create(&Marker{
		RunID: run.ID, Seq: 0, Frame: 1, Corner: corner, Outline: outline,
		Size: 5, Form: "Square", Label: "50",
	}).Error)

	var got Marker
	require.NoError(t, db.Where("run_id = ?", run.ID).First(&got).Error)
	c, ok := got.Corner.Coordinates()
	require.True(t, ok)
	assert.Equal(t, geom.XY{X: 1.5, Y: 2.5}, c.XY)
	assert.Equal(t, 5, got.Outline.Coordinates().Length())
	assert.Equal(t, "50", got.Label)
}

func TestDatabaseModels_ForeignKeyOnMarkersOnly(t *testing.T) {
	db := migrate(t)

	ddl := func(table string) string {
		var sql string
		require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&sql).Error)
		require.NotEmpty(t, sql)
		return sql
	}

	assert.NotContains(t, strings.ToUpper(ddl("runs")), "FOREIGN KEY")
	assert.Regexp(t, "(?i)foreign key \\(.?run_id.?\\) references .?runs.?", ddl("markers"))

	require.NoError(t, db.Create(&Run{UID: "5d7c", Mode: "fresh"}).Error)
}
