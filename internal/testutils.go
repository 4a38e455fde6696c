package internal

import (
	"bytes"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/server"
	"github.com/emersion/go-message"
	"github.com/stretchr/testify/assert"
)

func BuildTestIMAPServer(t *testing.T) (*server.Server, string, *memory.Mailbox) {
	be := memory.New()
	user, err := be.Login(nil, "username", "password")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	mb, err := user.GetMailbox("INBOX")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	mailbox := mb.(*memory.Mailbox)
	mailbox.Messages = nil

	s := server.New(be)
	t.Cleanup(func() { _ = s.Close() })

	s.AllowInsecureAuth = true

	l, err := net.Listen("tcp", "localhost:0")
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	go func() { err = s.Serve(l) }()

	return s, l.Addr().String(), mailbox
}

// BuildTestMessage renders a small single-part RFC822 message.
func BuildTestMessage(t *testing.T, from, subject, messageID, body string) []byte {
	hdr := message.Header{}
	hdr.Add("From", from)
	hdr.Add("To", "to@example.com")
	hdr.Add("Subject", subject)
	hdr.Add("Date", "Wed, 11 May 2016 14:31:59 +0000")
	hdr.Add("Content-Type", "text/plain")
	hdr.Add("Message-ID", messageID)

	msg, err := message.New(hdr, bytes.NewBufferString(body))
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	bb := new(bytes.Buffer)
	err = msg.WriteTo(bb)
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	return bb.Bytes()
}

// AppendTestMessage seeds a message directly into the memory backend.
func AppendTestMessage(t *testing.T, mbox *memory.Mailbox, flags []string, raw []byte) {
	err := mbox.CreateMessage(flags, time.Now(), bytes.NewBuffer(raw))
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}
}

// SeedMessages fills a mailbox with n distinct unseen messages.
func SeedMessages(t *testing.T, mbox *memory.Mailbox, n int) {
	for i := 0; i < n; i++ {
		raw := BuildTestMessage(t,
			fmt.Sprintf("sender%d@example.com", i),
			fmt.Sprintf("Test Email %d", i),
			fmt.Sprintf("<%d@localhost>", i),
			fmt.Sprintf("body %d", i))
		AppendTestMessage(t, mbox, nil, raw)
	}
}
