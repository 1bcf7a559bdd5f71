package modelio

import (
	"log/slog"

	"github.com/geofr/commatlas/pkg/ent/model"
	"github.com/jinzhu/gorm"
)

type modelio struct {
	db *gorm.DB
}

// New returns a new instance of Model
func New(db *gorm.DB) model.Model {
	res := modelio{db: db}
	return &res
}

// Migrate creates tables in the database. The commune registry comes
// first so the observation tables can reference it.
func (m *modelio) Migrate() error {
	db := m.db.Set("gorm:table_options", "ENGINE=InnoDB").AutoMigrate(
		&model.Commune{},
		&model.WaterObservation{},
		&model.RentObservation{},
		&model.MergedObservation{},
	)
	if db.Error != nil {
		return db.Error
	}

	fks := []struct {
		mod   interface{}
		field string
	}{
		{&model.WaterObservation{}, "inseecommune"},
		{&model.RentObservation{}, "insee_c"},
		{&model.MergedObservation{}, "insee_commune"},
	}
	for _, fk := range fks {
		err := m.db.Model(fk.mod).
			AddForeignKey(fk.field, "commune(codgeo)", "CASCADE", "CASCADE").
			Error
		if err != nil {
			slog.Error("Cannot create foreign key", "column", fk.field, "error", err)
			return err
		}
	}
	return nil
}
