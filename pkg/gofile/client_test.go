package gofile_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofile/gofile_sdk_go/pkg/gofile"
)

func envelope(data string) string {
	return `{"status":"ok","data":` + data + `}`
}

func newTestClient(t *testing.T, handler http.Handler, opts ...gofile.Option) *gofile.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := gofile.New(append([]gofile.Option{gofile.WithBaseURL(server.URL)}, opts...)...)
	require.NoError(t, err)
	return client
}

func TestGetServers(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/servers", r.URL.Path)
		io.WriteString(w, envelope(`{"servers":[{"name":"store1","zone":"eu"},{"name":"store2","zone":"na"}]}`))
	}))

	servers, err := client.GetServers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []gofile.Server{
		{Name: "store1", Zone: "eu"},
		{Name: "store2", Zone: "na"},
	}, servers)
}

func TestGetServerPrefersZone(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, envelope(`{"servers":[{"name":"store2","zone":"na"},{"name":"store1","zone":"eu"}]}`))
	})

	server, err := newTestClient(t, handler).GetServer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "store1", server.Server().Name)

	server, err = newTestClient(t, handler, gofile.WithZone("na")).GetServer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "store2", server.Server().Name)
}

func TestGetServerEmptyList(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, envelope(`{"servers":[{"name":"store2","zone":"na"}]}`))
	}))

	_, err := client.GetServer(context.Background())
	require.ErrorIs(t, err, gofile.ErrEmptyServerList)
}

func TestGetAccountDetails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/getAccountDetails", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		io.WriteString(w, envelope(`{
			"id": "00000000-0000-0000-0000-000000000001",
			"token": "secret",
			"email": "bar",
			"tier": "baz",
			"rootFolder": "00000000-0000-0000-0000-000000000002",
			"filesCount": 1,
			"totalSize": 2
		}`))
	}))

	details, err := client.Authorize("secret").GetAccountDetails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &gofile.AccountDetails{
		ID:         id1,
		Token:      "secret",
		Email:      "bar",
		Tier:       "baz",
		RootFolder: id2,
		FilesCount: 1,
		TotalSize:  2,
	}, details)
}

func TestGetContentSendsIDAndToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getContent", r.URL.Path)
		assert.Equal(t, "abcd", r.URL.Query().Get("contentId"))
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		io.WriteString(w, envelope(nestedFolderJSON))
	}))

	content, err := client.Authorize("secret").GetContent(context.Background(), "abcd")
	require.NoError(t, err)
	assert.Equal(t, "foo", content.Name)
	assert.True(t, content.IsFolder())
}

func TestGetContentByURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c0de", r.URL.Query().Get("contentId"))
		io.WriteString(w, envelope(nestedFolderJSON))
	}))

	_, err := client.Authorize("secret").GetContentByURL(context.Background(), "https://gofile.io/d/c0de")
	require.NoError(t, err)

	_, err = client.Authorize("secret").GetContentByURL(context.Background(), "https://gofile.io/x/c0de")
	require.ErrorIs(t, err, gofile.ErrInvalidContentURL)
}

func TestCreateFolder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/createFolder", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, map[string]any{
			"token":          "secret",
			"parentFolderId": id1.String(),
			"folderName":     "docs",
		}, payload)

		io.WriteString(w, envelope(`{
			"id": "00000000-0000-0000-0000-000000000003",
			"name": "docs",
			"parentFolder": "00000000-0000-0000-0000-000000000001",
			"createTime": 1000000001,
			"type": "folder",
			"code": "abcd"
		}`))
	}))

	folder, err := client.Authorize("secret").CreateFolder(context.Background(), id1, "docs")
	require.NoError(t, err)
	assert.Equal(t, id3, folder.ID)
	assert.Equal(t, "docs", folder.Name)
	kind, ok := folder.Folder()
	require.True(t, ok)
	assert.Equal(t, "abcd", kind.Code)
}

func TestSetOptionRoute(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/contents/"+id1.String()+"/update", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, map[string]any{
			"token":  "secret",
			"option": "public",
			"value":  "true",
		}, payload)

		io.WriteString(w, envelope(`{}`))
	}))

	require.NoError(t, client.Authorize("secret").SetPublic(context.Background(), id1, true))
}

func TestGetDirectLink(t *testing.T) {
	var disabled bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "directLink", payload["option"])

		if payload["value"] == "false" {
			disabled = true
			io.WriteString(w, envelope(`{}`))
			return
		}
		io.WriteString(w, envelope(`"https://store1.gofile.io/download/file.txt"`))
	}))

	api := client.Authorize("secret")
	link, err := api.GetDirectLink(context.Background(), id1)
	require.NoError(t, err)
	assert.Equal(t, "https://store1.gofile.io/download/file.txt", link)

	require.NoError(t, api.DisableDirectLink(context.Background(), id1))
	assert.True(t, disabled)
}

func TestCopyAndDeleteContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		switch r.URL.Path {
		case "/contents/copy":
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, id1.String()+","+id2.String(), payload["contentsId"])
			assert.Equal(t, id3.String(), payload["folderIdDest"])
		case "/contents":
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, id1.String(), payload["contentsId"])
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, envelope(`{}`))
	}))

	api := client.Authorize("secret")
	require.NoError(t, api.CopyContent(context.Background(), []uuid.UUID{id1, id2}, id3))
	require.NoError(t, api.DeleteContent(context.Background(), id1))
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "ok http status, non-ok envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"status":"error-auth","data":{}}`)
			},
			check: func(t *testing.T, err error) {
				var apiErr *gofile.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "error-auth", apiErr.Status)
			},
		},
		{
			name: "error http status with envelope body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `{"status":"error-notFound","data":{}}`)
			},
			check: func(t *testing.T, err error) {
				var apiErr *gofile.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "error-notFound", apiErr.Status)
			},
		},
		{
			name: "error http status without envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				io.WriteString(w, "<html>bad gateway</html>")
			},
			check: func(t *testing.T, err error) {
				var httpErr *gofile.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)

				var apiErr *gofile.APIError
				assert.False(t, errors.As(err, &apiErr))
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)
			_, err := client.Authorize("secret").GetAccountDetails(context.Background())
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetServers(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
