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

package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/CryptofBoy1/n8n-nodes-imap/flow"
	imap2 "github.com/CryptofBoy1/n8n-nodes-imap/imap"
	"github.com/CryptofBoy1/n8n-nodes-imap/imap/persistentclient"
	"github.com/CryptofBoy1/n8n-nodes-imap/node"
	"github.com/emersion/go-imap"
	client2 "github.com/emersion/go-imap/client"
	log "github.com/sirupsen/logrus"
)

// Watcher is the long-lived companion to the IMAP node: it watches a
// mailbox and emits newly-arrived messages as item batches. The connection
// goes through the persistent client so dropped links redial on their own.
type Watcher struct {
	factory imap2.ClientFactory
}

func New(factory imap2.ClientFactory) *Watcher {
	return &Watcher{factory: factory}
}

func (w *Watcher) Descriptor() *flow.Descriptor {
	return descriptor
}

// Watch runs until the context is cancelled. New messages are detected by
// UIDNEXT: the baseline is taken at startup and only messages with a UID at
// or above it are ever emitted, so restarts don't replay the backlog.
func (w *Watcher) Watch(ctx context.Context, run flow.Execution, emit func([]flow.Item)) error {
	creds, err := node.ResolveCredentials(ctx, run)
	if err != nil {
		return fmt.Errorf("credential resolution failed: %w", err)
	}

	mailbox := flow.StringParam(run, "mailbox", 0)
	if mailbox == "" {
		mailbox = "INBOX"
	}

	pollInterval := time.Duration(flow.IntParam(run, "pollInterval", 0)) * time.Second
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}

	includeBody := flow.BoolParam(run, "includeBody", 0)

	updates := make(chan client2.Update, 64)
	cfg := creds.ClientConfig()
	cfg.Updates = updates

	factory := w.factory
	if factory == nil {
		factory = &persistentclient.Factory{Mailbox: mailbox}
	}

	c, err := factory.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("connection to %v failed: %w", creds.Host, err)
	}
	defer func() { _ = c.Logout() }()

	status, err := c.Select(mailbox, true)
	if err != nil {
		return fmt.Errorf("selecting mailbox %v failed: %w", mailbox, err)
	}
	nextUID := status.UidNext

	idleSupported, err := c.Support("IDLE")
	if err != nil {
		return err
	}

	logger := run.Logger().WithFields(log.Fields{
		"mailbox":        mailbox,
		"idle_supported": idleSupported,
	})
	logger.WithField("uid_next", nextUID).Info("watch_started")

	for {
		if err := w.waitForUpdates(ctx, c, updates, idleSupported, pollInterval); err != nil {
			if ctx.Err() != nil {
				logger.Info("watch_stopped")
				return nil
			}
			return err
		}

		if ctx.Err() != nil {
			logger.Info("watch_stopped")
			return nil
		}

		next, items, err := w.collectNew(c, mailbox, nextUID, includeBody)
		if err != nil {
			return err
		}

		if len(items) > 0 {
			logger.WithFields(log.Fields{
				"count":    len(items),
				"uid_next": next,
			}).Info("watch_emitting")
			emit(items)
		}
		nextUID = next
	}
}

// waitForUpdates blocks until something may have changed in the mailbox:
// a mailbox update during IDLE, the IDLE returning, or the poll interval
// expiring on servers without IDLE.
func (w *Watcher) waitForUpdates(ctx context.Context, c imap2.Client, updates <-chan client2.Update, idleSupported bool, pollInterval time.Duration) error {
	if !idleSupported {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			log.WithField("update", fmt.Sprintf("%T", upd)).Trace("watch_update")
			return nil
		case <-time.After(pollInterval):
			return nil
		}
	}

	stop := make(chan struct{})
	idleDone := make(chan error, 1)
	go func() { idleDone <- c.Idle(stop, nil) }()

	for {
		select {
		case <-ctx.Done():
			close(stop)
			<-idleDone
			return ctx.Err()
		case err := <-idleDone:
			if err != nil {
				// An IDLE failure is transient, the connection layer
				// redials on its own. Wait out a poll interval and resume.
				log.WithError(err).Warn("watch_idle_failed")
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(pollInterval):
				}
			}
			return nil
		case upd := <-updates:
			if _, ok := upd.(*client2.MailboxUpdate); !ok {
				log.WithField("update", fmt.Sprintf("%T", upd)).Trace("watch_update_ignored")
				continue
			}
			close(stop)
			if err := <-idleDone; err != nil {
				log.WithError(err).Warn("watch_idle_failed")
			}
			return nil
		case <-time.After(pollInterval):
			close(stop)
			if err := <-idleDone; err != nil {
				log.WithError(err).Warn("watch_idle_failed")
			}
			return nil
		}
	}
}

// collectNew fetches every message with a UID at or above the baseline and
// returns the advanced baseline.
func (w *Watcher) collectNew(c imap2.Client, mailbox string, sinceUID uint32, includeBody bool) (uint32, []flow.Item, error) {
	criteria := imap.NewSearchCriteria()
	criteria.Uid = new(imap.SeqSet)
	criteria.Uid.AddRange(sinceUID, 0)

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return sinceUID, nil, fmt.Errorf("message search failed: %w", err)
	}

	// Servers answer a n:* range with at least the newest message even
	// when its UID is below n.
	var fresh []uint32
	for _, uid := range uids {
		if uid >= sinceUID {
			fresh = append(fresh, uid)
		}
	}
	if len(fresh) == 0 {
		return sinceUID, nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(fresh...)

	fetchItems := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid, imap.FetchRFC822Size}
	var section *imap.BodySectionName
	if includeBody {
		section = &imap.BodySectionName{Peek: true}
		fetchItems = append(fetchItems, section.FetchItem())
	}

	ch := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() { done <- c.UidFetch(seqset, fetchItems, ch) }()

	var items []flow.Item
	next := sinceUID
	for msg := range ch {
		it := node.MessageItem(mailbox, msg)

		if section != nil {
			if body := msg.GetBody(section); body != nil {
				if err := node.AttachBody(&it, body, false); err != nil {
					return sinceUID, nil, fmt.Errorf("parsing message %v failed: %w", msg.Uid, err)
				}
			}
		}

		items = append(items, it)
		if msg.Uid >= next {
			next = msg.Uid + 1
		}
	}

	if err := <-done; err != nil {
		return sinceUID, nil, fmt.Errorf("message fetch failed: %w", err)
	}

	return next, items, nil
}
