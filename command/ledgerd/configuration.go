// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/configuration"
	"github.com/ledgerkit/ledgerd/marketplace"
	"github.com/ledgerkit/ledgerd/publish"
	"github.com/ledgerkit/ledgerd/rpc"
	"github.com/ledgerkit/ledgerd/storage"
	"github.com/ledgerkit/ledgerd/token"
	"github.com/ledgerkit/ledgerd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultKeyFile         = "rpc.key"
	defaultCertificateFile = "rpc.crt"

	defaultDatabaseDirectory = "data"
	defaultDatabase          = "ledger.db"

	defaultLogDirectory = "log"
	defaultLogFile      = "ledgerd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 10
	defaultRetries    = 3

	defaultIssuerMSP = "Org1MSP"
)

var (
	defaultLogLevels = map[string]string{
		logger.DefaultTag: "critical",
	}
	defaultCreatorMSPs = []string{"SonyMSP"}
	defaultBuyerMSPs   = []string{"MarketplaceMSP"}
)

// DatabaseType - where the store lives
type DatabaseType = storage.Configuration

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	ClientRPC   rpc.Configuration         `gluamapper:"client_rpc" json:"client_rpc"`
	Publishing  publish.Configuration     `gluamapper:"publishing" json:"publishing"`
	Token       token.Configuration       `gluamapper:"token" json:"token"`
	Marketplace marketplace.Configuration `gluamapper:"marketplace" json:"marketplace"`
	Logging     logger.Configuration      `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Backend:   storage.LevelDB,
			Directory: defaultDatabaseDirectory,
			Name:      defaultDatabase,
		},

		ClientRPC: rpc.Configuration{
			MaximumConnections: defaultRPCClients,
			Certificate:        defaultCertificateFile,
			PrivateKey:         defaultKeyFile,
			Retries:            defaultRetries,
		},

		Token: token.Configuration{
			IssuerMSP: defaultIssuerMSP,
		},

		Marketplace: marketplace.Configuration{
			CreatorMSPs: append([]string(nil), defaultCreatorMSPs...),
			BuyerMSPs:   append([]string(nil), defaultBuyerMSPs...),
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
		&options.Logging.Directory,
	}
	for i := range options.ClientRPC.Organisations {
		mustBeAbsolute = append(mustBeAbsolute, &options.ClientRPC.Organisations[i].Certificate)
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Publishing.PublicKey,
		&options.Publishing.PrivateKey,
	}
	for _, f := range optionalAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// the database name must be a plain file name, it is placed in
	// the database directory
	switch filepath.Dir(options.Database.Name) {
	case "", ".":
		options.Database.Name = util.EnsureAbsolute(options.Database.Directory, options.Database.Name)
	default:
		return nil, fmt.Errorf("database: %q is not plain name", options.Database.Name)
	}
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("log file: %q is not plain name", options.Logging.File)
	}

	if err := util.MakeDirectories(options.Database.Directory, options.Logging.Directory); nil != err {
		return nil, err
	}

	return options, nil
}
