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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTrapCaptureAndDrain(t *testing.T) {
	trap := NewErrorTrap()

	trap.Printf("imap/client: %v", "response error")
	trap.Println("connection reset")
	trap.Println()

	lines := trap.Drain()
	assert.Equal(t, []string{"imap/client: response error", "connection reset"}, lines)

	assert.Empty(t, trap.Drain())
}

func TestErrorTrapBounded(t *testing.T) {
	trap := NewErrorTrap()

	for i := 0; i < maxTrapLines*2; i++ {
		trap.Println(fmt.Sprintf("line %d", i))
	}

	lines := trap.Drain()
	assert.Len(t, lines, maxTrapLines)
	assert.Equal(t, fmt.Sprintf("line %d", maxTrapLines*2-1), lines[len(lines)-1])
}
