package calibration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// preference is one namespaced integer entry.
type preference struct {
	Namespace string `gorm:"primaryKey"`
	Key       string `gorm:"primaryKey"`
	Value     int64
	UpdatedAt time.Time
}

func (preference) TableName() string {
	return "preferences"
}

// SQLite is a Backend storing preferences in an SQLite database file.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (and creates if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open calibration database: %w", err)
	}

	if err := db.AutoMigrate(&preference{}); err != nil {
		return nil, fmt.Errorf("migrate calibration database: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Begin implements Backend.
func (s *SQLite) Begin(ctx context.Context, namespace string, readOnly bool) (Namespace, error) {
	db := s.db.WithContext(ctx)

	if readOnly {
		var count int64
		if err := db.Model(&preference{}).Where(map[string]any{"namespace": namespace}).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("open namespace %q: %w", namespace, err)
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNamespaceNotFound, namespace)
		}
	}

	return &sqliteNamespace{db: db, name: namespace, readOnly: readOnly}, nil
}

type sqliteNamespace struct {
	db       *gorm.DB
	name     string
	readOnly bool
	ended    bool
}

func (n *sqliteNamespace) GetInt(key string, def int) (int, error) {
	if n.ended {
		return def, ErrNamespaceClosed
	}

	var p preference
	err := n.db.Where(map[string]any{"namespace": n.name, "key": key}).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("get %s/%s: %w", n.name, key, err)
	}
	return int(p.Value), nil
}

func (n *sqliteNamespace) PutInt(key string, value int) error {
	if n.ended {
		return ErrNamespaceClosed
	}
	if n.readOnly {
		return ErrReadOnly
	}

	p := preference{Namespace: n.name, Key: key, Value: int64(value)}
	err := n.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", n.name, key, err)
	}
	return nil
}

func (n *sqliteNamespace) End() error {
	if n.ended {
		return ErrNamespaceClosed
	}
	n.ended = true
	return nil
}
