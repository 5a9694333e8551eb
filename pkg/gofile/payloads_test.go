package gofile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolderPayload(t *testing.T) {
	payload := createFolderPayload{
		Token:          "foo",
		ParentFolderID: uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		FolderName:     "bar",
	}
	assertJSON(t, `{
		"token": "foo",
		"parentFolderId": "00000000-0000-0000-0000-000000000001",
		"folderName": "bar"
	}`, payload)
}

func TestContentOptionEncoding(t *testing.T) {
	tests := []struct {
		name string
		opt  ContentOption
		want string
	}{
		{"public true", PublicOption(true), `{"token":"foo","option":"public","value":"true"}`},
		{"public false", PublicOption(false), `{"token":"foo","option":"public","value":"false"}`},
		{"password", PasswordOption("bar"), `{"token":"foo","option":"password","value":"bar"}`},
		{"description", DescriptionOption("bar"), `{"token":"foo","option":"description","value":"bar"}`},
		{
			"expire",
			ExpireOption(time.Date(2001, 9, 9, 1, 46, 40, 0, time.UTC)),
			`{"token":"foo","option":"expire","value":1000000000}`,
		},
		{"tags", TagsOption([]string{"bar", "baz"}), `{"token":"foo","option":"tags","value":"bar,baz"}`},
		{"direct link off", DirectLinkOption(false), `{"token":"foo","option":"directLink","value":"false"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := updateContentPayload{Token: "foo", Option: tc.opt.name, Value: tc.opt.value}
			assertJSON(t, tc.want, payload)
		})
	}
}

func TestCopyAndDeletePayloads(t *testing.T) {
	ids := []uuid.UUID{
		uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		uuid.MustParse("00000000-0000-0000-0000-000000000002"),
	}

	assertJSON(t, `{
		"token": "foo",
		"contentsId": "00000000-0000-0000-0000-000000000001,00000000-0000-0000-0000-000000000002",
		"folderIdDest": "00000000-0000-0000-0000-000000000003"
	}`, copyContentPayload{
		Token:        "foo",
		ContentsID:   ids,
		FolderIDDest: uuid.MustParse("00000000-0000-0000-0000-000000000003"),
	})

	assertJSON(t, `{
		"token": "foo",
		"contentsId": "00000000-0000-0000-0000-000000000001,00000000-0000-0000-0000-000000000002"
	}`, deleteContentPayload{Token: "foo", ContentsID: ids})
}

// assertJSON compares the payload's encoding against want, ignoring
// formatting.
func assertJSON(t *testing.T, want string, payload any) {
	t.Helper()
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	var gotValue, wantValue any
	require.NoError(t, json.Unmarshal(encoded, &gotValue))
	require.NoError(t, json.Unmarshal([]byte(want), &wantValue))
	assert.Equal(t, wantValue, gotValue)
}
