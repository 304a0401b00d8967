package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool tunes the sql.DB behind gorm. Zero fields take the defaults.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

var DefaultPool = Pool{
	MaxOpenConns:    30,
	MaxIdleConns:    10,
	ConnMaxLifetime: 30 * time.Minute,
	ConnMaxIdleTime: 10 * time.Minute,
}

func (p Pool) withDefaults() Pool {
	if p.MaxOpenConns <= 0 {
		p.MaxOpenConns = DefaultPool.MaxOpenConns
	}
	if p.MaxIdleConns <= 0 {
		p.MaxIdleConns = DefaultPool.MaxIdleConns
	}
	if p.MaxIdleConns > p.MaxOpenConns {
		p.MaxIdleConns = p.MaxOpenConns
	}
	if p.ConnMaxLifetime <= 0 {
		p.ConnMaxLifetime = DefaultPool.ConnMaxLifetime
	}
	if p.ConnMaxIdleTime <= 0 {
		p.ConnMaxIdleTime = DefaultPool.ConnMaxIdleTime
	}
	return p
}

func OpenGorm(dsn string, pool Pool) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), pool)
}

// OpenGormWithDialector opens gorm on any dialector, sizes the pool and pings.
func OpenGormWithDialector(dial gorm.Dialector, pool Pool) (*gorm.DB, error) {
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pool = pool.withDefaults()
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"dialect": dial.Name(), "max_open_conns": pool.MaxOpenConns,
	}).Info("gorm: connected")
	return db, nil
}
