package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
	"github.com/pickmyfruit/pickmyfruit-backend/internal/testutil"
)

func TestInquiryService_Create(t *testing.T) {
	f := newFixture(t)
	owner := testutil.InsertUser(t, f.db)
	gleaner := testutil.InsertUser(t, f.db)
	l := testutil.InsertListing(t, f.db, owner.ID)

	result, err := f.inquiry.Create(context.Background(), gleaner.ID,
		models.InquiryForm{ListingID: l.ID, Note: "  I can come Saturday morning  "}, testBaseURL)
	require.NoError(t, err)
	assert.NotZero(t, result.InquiryID)
	assert.True(t, result.EmailSent)

	sent := f.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, owner.Email, sent[0].To)
	assert.Equal(t, gleaner.Email, sent[0].ReplyTo)
	assert.Contains(t, sent[0].Subject, gleaner.Name)
	assert.Contains(t, sent[0].HTML, "I can come Saturday morning")
	assert.Contains(t, sent[0].HTML, testBaseURL+"/api/listings/")

	var emailSentAt *int64
	require.NoError(t, f.db.QueryRow(`SELECT email_sent_at FROM inquiries WHERE id = ?`, result.InquiryID).Scan(&emailSentAt))
	assert.NotNil(t, emailSentAt)
}

func TestInquiryService_PrivateListingAcceptsInquiries(t *testing.T) {
	f := newFixture(t)
	owner := testutil.InsertUser(t, f.db)
	gleaner := testutil.InsertUser(t, f.db)
	l := testutil.InsertListing(t, f.db, owner.ID, testutil.WithStatus(models.StatusPrivate))

	_, err := f.inquiry.Create(context.Background(), gleaner.ID, models.InquiryForm{ListingID: l.ID}, testBaseURL)
	assert.NoError(t, err)
}

func TestInquiryService_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.InsertUser(t, f.db)
	gleaner := testutil.InsertUser(t, f.db)
	unavailable := testutil.InsertListing(t, f.db, owner.ID, testutil.WithStatus(models.StatusUnavailable))
	deleted := testutil.InsertListing(t, f.db, owner.ID, testutil.WithDeleted())
	l := testutil.InsertListing(t, f.db, owner.ID)

	tests := []struct {
		name      string
		gleanerID string
		form      models.InquiryForm
		want      error
	}{
		{"missing listing", gleaner.ID, models.InquiryForm{ListingID: 99999}, ErrNotFound},
		{"unavailable listing", gleaner.ID, models.InquiryForm{ListingID: unavailable.ID}, ErrNotFound},
		{"deleted listing", gleaner.ID, models.InquiryForm{ListingID: deleted.ID}, ErrNotFound},
		{"own listing", owner.ID, models.InquiryForm{ListingID: l.ID}, ErrNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.inquiry.Create(ctx, tt.gleanerID, tt.form, testBaseURL)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.mail.Sent())
}

func TestInquiryService_NoteTooLong(t *testing.T) {
	f := newFixture(t)
	owner := testutil.InsertUser(t, f.db)
	gleaner := testutil.InsertUser(t, f.db)
	l := testutil.InsertListing(t, f.db, owner.ID)

	_, err := f.inquiry.Create(context.Background(), gleaner.ID,
		models.InquiryForm{ListingID: l.ID, Note: strings.Repeat("a", 501)}, testBaseURL)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "note")
}

func TestInquiryService_OncePerWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := testutil.InsertUser(t, f.db)
	gleaner := testutil.InsertUser(t, f.db)
	l := testutil.InsertListing(t, f.db, owner.ID)

	start := time.Now()
	f.inquiry.now = func() time.Time { return start }

	_, err := f.inquiry.Create(ctx, gleaner.ID, models.InquiryForm{ListingID: l.ID}, testBaseURL)
	require.NoError(t, err)

	f.inquiry.now = func() time.Time { return start.Add(InquiryWindow - time.Minute) }
	_, err = f.inquiry.Create(ctx, gleaner.ID, models.InquiryForm{ListingID: l.ID}, testBaseURL)
	assert.ErrorIs(t, err, ErrRateLimited)

	f.inquiry.now = func() time.Time { return start.Add(InquiryWindow + time.Minute) }
	_, err = f.inquiry.Create(ctx, gleaner.ID, models.InquiryForm{ListingID: l.ID}, testBaseURL)
	assert.NoError(t, err)
}

func TestInquiryService_EmailFailureStillRecords(t *testing.T) {
	f := newFixture(t)
	f.mail.Err = errors.New("smtp down")
	owner := testutil.InsertUser(t, f.db)
	gleaner := testutil.InsertUser(t, f.db)
	l := testutil.InsertListing(t, f.db, owner.ID)

	result, err := f.inquiry.Create(context.Background(), gleaner.ID, models.InquiryForm{ListingID: l.ID}, testBaseURL)
	require.NoError(t, err)
	assert.False(t, result.EmailSent)

	var count int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM inquiries WHERE email_sent_at IS NULL`).Scan(&count))
	assert.Equal(t, 1, count)
}
