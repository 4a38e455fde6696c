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

package imap

import (
	"fmt"
	"strings"
	"sync"
)

// maxTrapLines bounds the retained backlog so a chatty connection can't
// grow without limit between drains.
const maxTrapLines = 32

// ErrorTrap implements the wrapped library's logger interface. go-imap
// swallows some protocol errors into Client.ErrorLog instead of returning
// them; installing a trap there recovers those lines so they can be merged
// into the error reported to the host.
type ErrorTrap struct {
	mu    sync.Mutex
	lines []string
}

func NewErrorTrap() *ErrorTrap {
	return &ErrorTrap{}
}

func (t *ErrorTrap) Printf(format string, v ...interface{}) {
	t.record(fmt.Sprintf(format, v...))
}

func (t *ErrorTrap) Println(v ...interface{}) {
	t.record(fmt.Sprintln(v...))
}

func (t *ErrorTrap) record(line string) {
	line = strings.TrimRight(line, "\n")
	if line == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.lines = append(t.lines, line)
	if n := len(t.lines); n > maxTrapLines {
		t.lines = t.lines[n-maxTrapLines:]
	}
}

// Drain returns the captured lines and clears the backlog.
func (t *ErrorTrap) Drain() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines
	t.lines = nil
	return lines
}
