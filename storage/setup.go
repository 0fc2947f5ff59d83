// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ledgerkit/ledgerd/fault"
)

// names of the supported backends
const (
	LevelDB = "leveldb"
	Memory  = "memory"
	Pebble  = "pebble"
)

const (
	currentVersion = 1

	// how long modification sequence numbers are remembered, any
	// transaction open for longer than this cannot be validated
	defaultRetention = 5 * time.Minute
)

// outside every namespace: namespaces are valid UTF-8 and can never
// start with 0xff
var versionKey = []byte{0xff, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

// Configuration - database section of the configuration file
type Configuration struct {
	Backend   string `gluamapper:"backend" json:"backend"`
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Database - an open store
//
// the store is nil once closed, transactions still open at that
// point fail with fault.ErrDatabaseIsNotSet
type Database struct {
	sync.RWMutex

	log       *logger.L
	store     backend
	tracker   *tracker
	iterators sync.WaitGroup
}

// Open - open or create a database
//
// Name is the path of the database, for the memory backend it is
// only used in log messages
func Open(configuration *Configuration) (*Database, error) {
	log := logger.New("storage")
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	var store backend
	var err error

	switch configuration.Backend {
	case "", LevelDB:
		store, err = openLevelDB(configuration.Name)
	case Memory:
		store, err = openMemory()
	case Pebble:
		store, err = openPebble(configuration.Name)
	default:
		return nil, fmt.Errorf("%w: %q", fault.ErrInvalidBackend, configuration.Backend)
	}
	if nil != err {
		log.Errorf("open backend: %q  database: %q  error: %s", configuration.Backend, configuration.Name, err)
		return nil, err
	}

	db := &Database{
		log:     log,
		store:   store,
		tracker: newTracker(defaultRetention),
	}

	if err := db.checkVersion(); nil != err {
		log.Errorf("database: %q  error: %s", configuration.Name, err)
		_ = store.close()
		return nil, err
	}

	log.Infof("opened backend: %q  database: %q", configuration.Backend, configuration.Name)
	return db, nil
}

// OpenMemory - an empty in-memory database
func OpenMemory() (*Database, error) {
	return Open(&Configuration{
		Backend: Memory,
		Name:    "memory",
	})
}

// Close - flush and close the backend
//
// waits for reads and commits in progress and for open iterators to
// be released
func (db *Database) Close() error {
	db.Lock()
	store := db.store
	db.store = nil
	db.Unlock()

	if nil == store {
		return fault.ErrDatabaseIsNotSet
	}
	db.log.Info("closing…")
	db.iterators.Wait()
	err := store.close()
	db.log.Flush()
	return err
}

func (db *Database) get(key []byte) ([]byte, error) {
	db.RLock()
	defer db.RUnlock()

	if nil == db.store {
		return nil, fault.ErrDatabaseIsNotSet
	}
	return db.store.get(key)
}

func (db *Database) iterator(searchRange *ldb_util.Range) (Iterator, error) {
	db.RLock()
	defer db.RUnlock()

	if nil == db.store {
		return nil, fault.ErrDatabaseIsNotSet
	}
	iter, err := db.store.iterator(searchRange)
	if nil != err {
		return nil, err
	}
	db.iterators.Add(1)
	return &trackedIterator{Iterator: iter, done: db.iterators.Done}, nil
}

func (db *Database) write(operations []operation) error {
	db.RLock()
	defer db.RUnlock()

	if nil == db.store {
		return fault.ErrDatabaseIsNotSet
	}
	return db.store.write(operations)
}

// keeps Close waiting until Release
type trackedIterator struct {
	Iterator
	once sync.Once
	done func()
}

func (t *trackedIterator) Release() {
	t.Iterator.Release()
	t.once.Do(t.done)
}

// a new database is stamped with the current version, an existing
// one must match it
func (db *Database) checkVersion() error {
	value, err := db.get(versionKey)
	if nil != err {
		return err
	}

	if nil == value {
		buffer := make([]byte, 4)
		binary.BigEndian.PutUint32(buffer, currentVersion)
		return db.write([]operation{{key: versionKey, value: buffer}})
	}

	if 4 != len(value) {
		return fault.ErrIncompatibleDatabase
	}
	if version := binary.BigEndian.Uint32(value); currentVersion != version {
		return fmt.Errorf("%w: found: %d  expected: %d", fault.ErrIncompatibleDatabase, version, currentVersion)
	}
	return nil
}
