package gofile_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofile/gofile_sdk_go/pkg/gofile"
)

var (
	id1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	id2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	id3 = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	id4 = uuid.MustParse("00000000-0000-0000-0000-000000000004")
)

const nestedFolderJSON = `{
	"id": "00000000-0000-0000-0000-000000000001",
	"name": "foo",
	"parentFolder": "00000000-0000-0000-0000-000000000002",
	"createTime": 1000000001,
	"type": "folder",
	"code": "bar",
	"childrenIds": [
		"00000000-0000-0000-0000-000000000003",
		"00000000-0000-0000-0000-000000000004"
	],
	"totalDownloadCount": 10,
	"totalSize": 20,
	"contents": {
		"00000000-0000-0000-0000-000000000003": {
			"id": "00000000-0000-0000-0000-000000000003",
			"name": "baz",
			"parentFolder": "00000000-0000-0000-0000-000000000001",
			"createTime": 1000000002,
			"type": "folder",
			"code": "fiz",
			"public": true,
			"childrenIds": []
		},
		"00000000-0000-0000-0000-000000000004": {
			"id": "00000000-0000-0000-0000-000000000004",
			"name": "foz",
			"parentFolder": "00000000-0000-0000-0000-000000000001",
			"createTime": 1000000003,
			"type": "file",
			"size": 20,
			"downloadCount": 10,
			"md5": "000000000000000000000000000001ff",
			"mimetype": "text/plain",
			"serverChoosen": "fez",
			"link": "http://example.com/path/file.txt"
		}
	}
}`

func TestContentUnmarshalFolderTree(t *testing.T) {
	var content gofile.Content
	require.NoError(t, json.Unmarshal([]byte(nestedFolderJSON), &content))

	assert.Equal(t, id1, content.ID)
	assert.Equal(t, "foo", content.Name)
	assert.Equal(t, id2, content.ParentFolder)
	assert.Equal(t, time.Unix(1000000001, 0).UTC(), content.CreateTime)

	folder, ok := content.Folder()
	require.True(t, ok, "root content must be a folder")
	assert.Equal(t, "bar", folder.Code)
	assert.False(t, folder.Public)
	assert.Equal(t, []uuid.UUID{id3, id4}, folder.ChildrenIDs)
	require.NotNil(t, folder.TotalDownloadCount)
	assert.EqualValues(t, 10, *folder.TotalDownloadCount)
	require.NotNil(t, folder.TotalSize)
	assert.EqualValues(t, 20, *folder.TotalSize)
	require.Len(t, folder.Contents, 2)

	sub, ok := folder.Contents[id3].Folder()
	require.True(t, ok)
	assert.Equal(t, "fiz", sub.Code)
	assert.True(t, sub.Public)
	assert.Empty(t, sub.ChildrenIDs)
	assert.Nil(t, sub.TotalDownloadCount, "aggregate counts only appear on the fetch root")
	assert.Nil(t, sub.Contents)

	file, ok := folder.Contents[id4].File()
	require.True(t, ok)
	assert.EqualValues(t, 20, file.Size)
	assert.EqualValues(t, 10, file.DownloadCount)
	assert.Equal(t, "000000000000000000000000000001ff", file.MD5.String())
	assert.Equal(t, "text/plain", file.MimeType)
	assert.Equal(t, "fez", file.ServerChosen)
	assert.Equal(t, "http://example.com/path/file.txt", file.Link)
}

func TestContentRoundTrip(t *testing.T) {
	var content gofile.Content
	require.NoError(t, json.Unmarshal([]byte(nestedFolderJSON), &content))

	encoded, err := json.Marshal(content)
	require.NoError(t, err)

	var decoded gofile.Content
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, content, decoded)
}

func TestContentUnmarshalUnknownType(t *testing.T) {
	body := `{
		"id": "00000000-0000-0000-0000-000000000001",
		"name": "foo",
		"parentFolder": "00000000-0000-0000-0000-000000000002",
		"createTime": 1000000001,
		"type": "symlink"
	}`
	var content gofile.Content
	err := json.Unmarshal([]byte(body), &content)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}

func TestMD5Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", `"000000000000000000000000000001ff"`, false},
		{"too short", `"0000ff"`, true},
		{"not hex", `"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"`, true},
		{"not a string", `12345`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var sum gofile.MD5
			err := json.Unmarshal([]byte(tc.input), &sum)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, byte(0xff), sum[15])
			assert.Equal(t, byte(0x01), sum[14])
		})
	}
}

func TestUploadedFileUnmarshal(t *testing.T) {
	body := `{
		"guestToken": "guest-tok",
		"downloadPage": "https://gofile.io/d/bar",
		"code": "bar",
		"parentFolder": "00000000-0000-0000-0000-000000000001",
		"fileId": "00000000-0000-0000-0000-000000000002",
		"fileName": "baz",
		"md5": "000000000000000000000000000001ff"
	}`
	var uploaded gofile.UploadedFile
	require.NoError(t, json.Unmarshal([]byte(body), &uploaded))
	assert.Equal(t, "guest-tok", uploaded.GuestToken)
	assert.Equal(t, "https://gofile.io/d/bar", uploaded.DownloadPage)
	assert.Equal(t, "bar", uploaded.Code)
	assert.Equal(t, id1, uploaded.ParentFolder)
	assert.Equal(t, id2, uploaded.FileID)
	assert.Equal(t, "baz", uploaded.FileName)
	assert.Equal(t, "000000000000000000000000000001ff", uploaded.MD5.String())
}

func TestServerURLs(t *testing.T) {
	server := gofile.Server{Name: "store7", Zone: "eu"}
	assert.Equal(t, "https://store7.gofile.io", server.Root())
	assert.Equal(t, "https://store7.gofile.io/contents/uploadfile", server.UploadURL())
	assert.Equal(t, "store7 (eu)", server.String())
}
