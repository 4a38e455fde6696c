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

package flow

import (
	"strconv"
	"strings"
	"time"
)

// Parameter coercion. Values arrive as whatever the host's JSON layer
// produced, so numbers may be float64 and booleans may be strings.

func StringParam(run Execution, name string, item int) string {
	v, ok := run.Parameter(name, item)
	if !ok || v == nil {
		return ""
	}

	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func IntParam(run Execution, name string, item int) int {
	v, ok := run.Parameter(name, item)
	if !ok || v == nil {
		return 0
	}

	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

func BoolParam(run Execution, name string, item int) bool {
	v, ok := run.Parameter(name, item)
	if !ok || v == nil {
		return false
	}

	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}

// DateParam accepts ISO dates with or without a time component.
func DateParam(run Execution, name string, item int) (time.Time, bool) {
	s := strings.TrimSpace(StringParam(run, name, item))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ListParam splits a comma-separated parameter, dropping empty entries.
func ListParam(run Execution, name string, item int) []string {
	var out []string
	for _, part := range strings.Split(StringParam(run, name, item), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
