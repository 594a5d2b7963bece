package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/schedsense/internal/profile"
	"github.com/hrygo/schedsense/store"
	"github.com/hrygo/schedsense/store/db/postgres"
	"github.com/hrygo/schedsense/store/db/sqlite"
)

// SQLite is the default driver for single-user development setups;
// PostgreSQL is for production deployments. Both carry the full
// conversation schema.

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
