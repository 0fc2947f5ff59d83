// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/ledgerkit/ledgerd/rpc/certificate"
	"github.com/ledgerkit/ledgerd/storage"
	"github.com/ledgerkit/ledgerd/zmqutil"
)

const (
	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"

	publishPublicKeyFilename  = "publish.public"
	publishPrivateKeyFilename = "publish.private"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := makeSelfSignedCertificate("rpc", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "gen-publish-keys", "publish":
		publicKeyFilename := getFilenameWithDirectory(arguments, publishPublicKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, publishPrivateKeyFilename)
		err := zmqutil.MakeKeyPair(publicKeyFilename, privateKeyFilename)
		if nil != err {
			fmt.Printf("generate private key: %q and public key: %q error: %s\n", privateKeyFilename, publicKeyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated private key: %q and public key: %q\n", privateKeyFilename, publicKeyFilename)

	case "start", "run":
		return false // continue processing

	case "dump", "d":
		return false // defer processing until database is loaded

	case "config-test", "cfg", "fingerprint", "fp":
		return false

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)       - display this message\n\n")
		fmt.Printf("  version                    (v)       - display version sting\n\n")

		fmt.Printf("  gen-rpc-cert [DIR]         (rpc)     - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                         and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]          - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                         and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-publish-keys [DIR]     (publish) - create private key in: %q\n", "DIR/"+publishPrivateKeyFilename)
		fmt.Printf("                                         and the public key in: %q\n", "DIR/"+publishPublicKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)     - just run the program, same as no arguments\n")
		fmt.Printf("                                         for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)     - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  fingerprint                (fp)      - display the RPC certificate fingerprint and publish key\n")
		fmt.Printf("\n")

		fmt.Printf("  dump CONTRACT [FILE]       (d)       - dump the records of a contract as JSON to stdout/file\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "fingerprint", "fp":
		printFingerprints(options)

	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		_ = json.Indent(&out, b, "", "  ")
		_, _ = out.WriteTo(os.Stdout)
		_, _ = os.Stdout.WriteString("\n")

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the database is open so these commands can read it
func processDataCommand(log *logger.L, arguments []string, db *storage.Database) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "dump", "d":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing contract name argument")
		}

		fd := os.Stdout
		if len(arguments) > 1 && "" != arguments[1] && "-" != arguments[1] {
			var err error
			fd, err = os.Create(arguments[1])
			if nil != err {
				exitwithstatus.Message("error: creating: %q error: %s", arguments[1], err)
			}
			defer fd.Close()
		}

		n, err := dumpContract(db, arguments[0], fd)
		if nil != err {
			exitwithstatus.Message("dump: %q error: %s", arguments[0], err)
		}
		log.Infof("dumped: %d records of: %q", n, arguments[0])

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

// the RPC certificate fingerprint that clients can pin and the CURVE
// key subscribers need
func printFingerprints(options *Configuration) {
	certificatePEM, _, err := certificate.ReadFiles(options.ClientRPC.Certificate, options.ClientRPC.PrivateKey)
	if nil != err {
		exitwithstatus.Message("error: cannot read certificate: %q  error: %s", options.ClientRPC.Certificate, err)
	}
	fingerprint, err := certificateFingerprint([]byte(certificatePEM))
	if nil != err {
		exitwithstatus.Message("error: cannot decode certificate: %q  error: %s", options.ClientRPC.Certificate, err)
	}
	fmt.Printf("rpc fingerprint: %x\n", fingerprint)

	if "" == options.Publishing.PublicKey {
		fmt.Printf("publish key:     none\n")
		return
	}
	publicKey, err := zmqutil.ReadPublicKeyFile(options.Publishing.PublicKey)
	if nil != err {
		exitwithstatus.Message("error: cannot read public key: %q  error: %s", options.Publishing.PublicKey, err)
	}
	fmt.Printf("publish key:     %x\n", publicKey)
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
