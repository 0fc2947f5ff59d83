// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/ledgerkit/ledgerd/command/ledger-cli/rpccalls"
)

type metadata struct {
	connect   string
	tlsConfig *tls.Config
	verbose   bool
	e         io.Writer
	w         io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "ledger-cli"
	app.Usage = "invoke ledgerd contract operations"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2130",
			Usage:  " ledgerd `HOST:PORT`",
			EnvVar: "LEDGER_CONNECT",
		},
		cli.StringFlag{
			Name:   "certificate, C",
			Value:  "",
			Usage:  "*client certificate `FILE`",
			EnvVar: "LEDGER_CERTIFICATE",
		},
		cli.StringFlag{
			Name:   "key, k",
			Value:  "",
			Usage:  "*client private key `FILE`",
			EnvVar: "LEDGER_KEY",
		},
		cli.StringFlag{
			Name:   "ca, a",
			Value:  "",
			Usage:  " CA certificate `FILE` to verify ledgerd",
			EnvVar: "LEDGER_CA",
		},
		cli.StringFlag{
			Name:  "fingerprint, f",
			Value: "",
			Usage: " expected SHA3-256 `HEX` of the ledgerd certificate",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "submit",
			Usage:     "run a contract operation and commit it",
			ArgsUsage: "CONTRACT OPERATION [ARGUMENTS...]",
			Action:    runSubmit,
		},
		{
			Name:      "evaluate",
			Usage:     "run a contract operation without committing",
			ArgsUsage: "CONTRACT OPERATION [ARGUMENTS...]",
			Action:    runEvaluate,
		},
		{
			Name:      "info",
			Usage:     "display ledgerd status",
			ArgsUsage: " ",
			Action:    runInfo,
		},
		{
			Name:      "subscribe",
			Usage:     "print events from a ledgerd publisher",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "publisher, p",
					Value: "",
					Usage: "*publisher `HOST:PORT`",
				},
				cli.StringFlag{
					Name:  "server-key, s",
					Value: "",
					Usage: " publisher public key `FILE` for CURVE",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 0,
					Usage: " stop after `COUNT` events, 0 to run forever",
				},
			},
			Action: runSubscribe,
		},
		{
			Name:  "version",
			Usage: "display ledger-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		m := &metadata{
			connect: c.GlobalString("connect"),
			verbose: c.GlobalBool("verbose"),
			e:       c.App.ErrWriter,
			w:       c.App.Writer,
		}
		c.App.Metadata["config"] = m

		// only the RPC commands need client credentials
		switch c.Args().Get(0) {
		case "submit", "evaluate", "info":
		default:
			return nil
		}

		tlsConfig, err := rpccalls.TLSConfig(
			c.GlobalString("certificate"),
			c.GlobalString("key"),
			c.GlobalString("ca"),
			c.GlobalString("fingerprint"),
		)
		if nil != err {
			return err
		}
		m.tlsConfig = tlsConfig

		if m.verbose {
			fmt.Fprintf(m.e, "connect: %s\n", m.connect)
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
