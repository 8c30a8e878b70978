package storage

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPublicReadResource(t *testing.T) {
	t.Run("creates statement when bucket has no policy", func(t *testing.T) {
		raw, err := addPublicReadResource("", "records", "pdfs/p1/scan.pdf")
		require.NoError(t, err)

		var policy bucketPolicy
		require.NoError(t, json.Unmarshal([]byte(raw), &policy))
		require.Len(t, policy.Statement, 1)
		assert.Equal(t, []string{"arn:aws:s3:::records/pdfs/p1/scan.pdf"}, policy.Statement[0].Resource)
		assert.Equal(t, []string{"s3:GetObject"}, policy.Statement[0].Action)
	})

	t.Run("appends to existing statement and keeps others", func(t *testing.T) {
		first, err := addPublicReadResource("", "records", "pdfs/p1/a.pdf")
		require.NoError(t, err)

		var withOther bucketPolicy
		require.NoError(t, json.Unmarshal([]byte(first), &withOther))
		withOther.Statement = append(withOther.Statement, policyStatement{
			Sid:      "Other",
			Effect:   "Deny",
			Action:   []string{"s3:DeleteObject"},
			Resource: []string{"arn:aws:s3:::records/*"},
		})
		current, err := marshalPolicy(withOther)
		require.NoError(t, err)

		raw, err := addPublicReadResource(current, "records", "pdfs/p2/b.pdf")
		require.NoError(t, err)

		var policy bucketPolicy
		require.NoError(t, json.Unmarshal([]byte(raw), &policy))
		require.Len(t, policy.Statement, 2)
		assert.ElementsMatch(t, []string{
			"arn:aws:s3:::records/pdfs/p1/a.pdf",
			"arn:aws:s3:::records/pdfs/p2/b.pdf",
		}, policy.Statement[0].Resource)
		assert.Equal(t, "Other", policy.Statement[1].Sid)
	})

	t.Run("no change when already public", func(t *testing.T) {
		current, err := addPublicReadResource("", "records", "pdfs/p1/a.pdf")
		require.NoError(t, err)

		raw, err := addPublicReadResource(current, "records", "pdfs/p1/a.pdf")
		require.NoError(t, err)
		assert.Empty(t, raw)
	})

	t.Run("rejects malformed policy", func(t *testing.T) {
		_, err := addPublicReadResource("{not json", "records", "pdfs/p1/a.pdf")
		assert.ErrorIs(t, err, errMalformedPolicy)
	})
}
