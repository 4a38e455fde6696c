/*
 * n8n-nodes-imap - Copyright (C) 2023 the n8n-nodes-imap authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

package verify

import (
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/CryptofBoy1/n8n-nodes-imap/cmd/config"
	"github.com/CryptofBoy1/n8n-nodes-imap/node"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{}
	app.Commands = append(app.Commands, &cli.Command{
		Name:   "verify",
		Usage:  "Dial, authenticate and log out, as the host's credential test would",
		Flags:  cfg.Parameters(),
		Action: func(context *cli.Context) error { return verify(context, cfg) },
	})
	return app
}

func verify(cctx *cli.Context, cfg *config.CliConfig) error {
	cfg.SetupLogging()

	creds, _, err := cfg.IMAP.BuildCredentials()
	if err != nil {
		return err
	}

	n := node.New(nil)
	if err := n.TestCredentials(cctx.Context, config.CredentialsMap(creds)); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"host": creds.Host,
		"user": creds.User,
	}).Info("credentials_ok")
	return nil
}
