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

package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/CryptofBoy1/n8n-nodes-imap/cmd/describe"
	"github.com/CryptofBoy1/n8n-nodes-imap/cmd/oauthlogin"
	"github.com/CryptofBoy1/n8n-nodes-imap/cmd/run"
	"github.com/CryptofBoy1/n8n-nodes-imap/cmd/verify"
	"github.com/CryptofBoy1/n8n-nodes-imap/cmd/watch"
)

func Main() {
	app := cli.App{
		Name:  "imapnode",
		Usage: os.Args[0],
		Description: `imapnode runs the IMAP workflow node outside its host,
for development and scripting. Items are read from stdin and written
to stdout as JSON.
`,
	}

	describe.RegisterCommand(&app)
	run.RegisterCommand(&app)
	verify.RegisterCommand(&app)
	watch.RegisterCommand(&app)
	oauthlogin.RegisterCommand(&app)

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
