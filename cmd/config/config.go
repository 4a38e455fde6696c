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

package config

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func DefaultConfig() CliConfig {
	return CliConfig{
		IMAP:      DefaultIMAPConfig(),
		LogLevel:  "info",
		LogFormat: "text",
	}
}

func (cfg *CliConfig) Parameters() []cli.Flag {
	def := DefaultConfig()

	var flags []cli.Flag
	flags = append(flags, cfg.IMAP.Parameters()...)
	flags = append(flags, []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "logging level",
			EnvVars:     []string{"IMAPNODE_LOG_LEVEL"},
			Destination: &cfg.LogLevel,
			Value:       def.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "logging format (text/json)",
			EnvVars:     []string{"IMAPNODE_LOG_FORMAT"},
			Destination: &cfg.LogFormat,
			Value:       def.LogFormat,
		},
		&cli.StringFlag{
			Name:        "params",
			Usage:       "node parameters as a JSON object",
			EnvVars:     []string{"IMAPNODE_PARAMS"},
			Destination: &cfg.Params,
			Value:       "",
		},
	}...)

	return flags
}

func (cfg *CliConfig) SetupLogging() {
	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err == nil {
		log.SetLevel(logLevel)
	}

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

// ParseParams decodes the --params JSON into the parameter map handed to
// the node.
func (cfg *CliConfig) ParseParams() (map[string]interface{}, error) {
	params := map[string]interface{}{}
	if cfg.Params == "" {
		return params, nil
	}

	if err := json.Unmarshal([]byte(cfg.Params), &params); err != nil {
		return nil, fmt.Errorf("malformed --params: %w", err)
	}
	return params, nil
}
