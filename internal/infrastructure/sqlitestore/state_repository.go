package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jhoicas/shopfront/internal/domain/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// stateRow fila de la tabla app_state.
type stateRow struct {
	Key       string    `gorm:"column:key;primaryKey;size:128"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stateRow) TableName() string {
	return "app_state"
}

// StateRepo implementación del puerto StateRepository sobre un archivo SQLite local.
type StateRepo struct {
	db *gorm.DB
}

// Open abre (o crea) la base en path y migra la tabla app_state. path ":memory:" sirve para tests.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&stateRow{}); err != nil {
		return nil, fmt.Errorf("migrar app_state: %w", err)
	}
	return db, nil
}

// NewStateRepository construye el adaptador sobre una conexión ya migrada.
func NewStateRepository(db *gorm.DB) *StateRepo {
	return &StateRepo{db: db}
}

func (r *StateRepo) Load(ctx context.Context, key string) ([]byte, error) {
	var row stateRow
	err := r.db.WithContext(ctx).Where(&stateRow{Key: key}).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get app_state: %w", err)
	}
	return row.Value, nil
}

func (r *StateRepo) Save(ctx context.Context, key string, value []byte) error {
	row := stateRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert app_state: %w", err)
	}
	return nil
}

// Close libera la conexión subyacente.
func (r *StateRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
