package db

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v3"
)

type ConfigDB interface {
	GetConfig(ctx context.Context) (DeviceConfig, error)
	SaveConfig(ctx context.Context, config DeviceConfig) error
	Close(ctx context.Context) error
}

var configKey = []byte("device/config")

func NewConfigDB(dirname string) (ConfigDB, error) {
	opt := badger.DefaultOptions(dirname)
	opt.ValueLogFileSize = 1024 * 1024 * 40
	opt.Logger = nil

	db, err := badger.Open(opt)
	if err != nil {
		return nil, err
	}

	return &configDB{
		db: db,
	}, nil
}

type configDB struct {
	db *badger.DB
}

// GetConfig loads the persisted record. A missing key or a record whose
// version byte is the erased sentinel both yield the default config, so a
// store migrated from raw EEPROM bytes behaves the same as a fresh one.
func (d *configDB) GetConfig(ctx context.Context) (DeviceConfig, error) {
	var ret DeviceConfig
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(configKey)
		if err != nil {
			return err
		}

		return item.Value(func(v []byte) error {
			return ret.UnmarshalBinary(v)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return DefaultDeviceConfig(), nil
	}
	if err != nil {
		return DeviceConfig{}, err
	}

	if ret.FormatVersion == erasedVersion {
		return DefaultDeviceConfig(), nil
	}

	return ret, nil
}

func (d *configDB) SaveConfig(ctx context.Context, config DeviceConfig) error {
	data, err := config.MarshalBinary()
	if err != nil {
		return err
	}

	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(configKey, data)
	})
}

func (d *configDB) Close(ctx context.Context) error {
	return d.db.Close()
}
