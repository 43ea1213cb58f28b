package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInquiryMessage(t *testing.T) {
	msg, err := InquiryMessage(InquiryData{
		OwnerName:      "Olive",
		OwnerEmail:     "owner@example.com",
		GleanerName:    "Gus",
		GleanerEmail:   "gus@example.com",
		GleanerNote:    "Saturday <morning> works",
		ProduceType:    "fig",
		Quantity:       "abundant",
		UnavailableURL: "https://www.pickmyfruit.com/api/listings/7/unavailable?nonce=n&ts=1&sig=s",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", msg.To)
	assert.Equal(t, "gus@example.com", msg.ReplyTo)
	assert.Equal(t, "Gus wants your fig", msg.Subject)
	assert.Contains(t, msg.HTML, "Someone wants your fig!")
	assert.Contains(t, msg.HTML, "abundant")
	assert.Contains(t, msg.HTML, "&lt;morning")
	assert.NotContains(t, msg.HTML, "<morning>")
	assert.Contains(t, msg.HTML, "/api/listings/7/unavailable")
	assert.NotContains(t, msg.HTML, "Your notes")
	assert.False(t, strings.Contains(msg.HTML, "\n  "), "html should be minified")
}

func TestMagicLinkMessage(t *testing.T) {
	msg, err := MagicLinkMessage(MagicLinkData{
		Email:   "new@example.com",
		URL:     "https://www.pickmyfruit.com/api/auth/magic-link/verify?token=abc",
		Minutes: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", msg.To)
	assert.Contains(t, msg.HTML, "token=abc")
	assert.Contains(t, msg.HTML, "5 minutes")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Send(context.Background(), Message{To: "a@example.com"}))
	assert.Len(t, r.Sent(), 1)

	r.Err = errors.New("smtp down")
	assert.Error(t, r.Send(context.Background(), Message{To: "b@example.com"}))
	assert.Len(t, r.Sent(), 1)
}
