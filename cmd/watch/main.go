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

package watch

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/CryptofBoy1/n8n-nodes-imap/cmd/config"
	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	"github.com/CryptofBoy1/n8n-nodes-imap/node"
	"github.com/CryptofBoy1/n8n-nodes-imap/trigger"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := &config.CliConfig{}
	var pollInterval time.Duration
	var includeBody bool

	flags := cfg.Parameters()
	flags = append(flags,
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "poll interval for servers that don't support IDLE",
			EnvVars:     []string{"IMAPNODE_POLL_INTERVAL"},
			Destination: &pollInterval,
			Value:       time.Minute,
		},
		&cli.BoolFlag{
			Name:        "include-body",
			Usage:       "download and parse the body of each new message",
			EnvVars:     []string{"IMAPNODE_INCLUDE_BODY"},
			Destination: &includeBody,
		},
	)

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "watch",
		Usage: "Watch a mailbox and print new messages, one JSON line per item",
		Flags: flags,
		Action: func(context *cli.Context) error {
			return watch(context, cfg, pollInterval, includeBody)
		},
	})
	return app
}

func watch(_ *cli.Context, cfg *config.CliConfig, pollInterval time.Duration, includeBody bool) error {
	cfg.SetupLogging()

	creds, mailbox, err := cfg.IMAP.BuildCredentials()
	if err != nil {
		return err
	}

	params, err := cfg.ParseParams()
	if err != nil {
		return err
	}

	if _, ok := params["mailbox"]; !ok && mailbox != "" {
		params["mailbox"] = mailbox
	}
	params["authentication"] = node.AuthStoredCredentials
	params["pollInterval"] = int(pollInterval.Seconds())
	params["includeBody"] = includeBody

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.WithFields(log.Fields{
		"url":           cfg.IMAP.URL,
		"username":      cfg.IMAP.Username,
		"poll_interval": pollInterval,
	}).Info("watch_starting")

	w := trigger.New(nil)
	store := flow.MemoryCredentials{node.CredentialType: config.CredentialsMap(creds)}
	enc := json.NewEncoder(os.Stdout)

	emit := func(items []flow.Item) {
		for i := range items {
			if err := enc.Encode(items[i]); err != nil {
				log.WithError(err).Error("watch_encode_failed")
			}
		}
	}

	return w.Watch(ctx, flow.NewExecution(w.Descriptor(), params, nil, store), emit)
}
