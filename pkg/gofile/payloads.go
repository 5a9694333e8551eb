package gofile

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// uuidList serializes a set of content ids the way the API expects them:
// a single comma-separated string.
type uuidList []uuid.UUID

func (l uuidList) MarshalJSON() ([]byte, error) {
	parts := make([]string, len(l))
	for i, id := range l {
		parts[i] = id.String()
	}
	return json.Marshal(strings.Join(parts, ","))
}

type createFolderPayload struct {
	Token          string    `json:"token"`
	ParentFolderID uuid.UUID `json:"parentFolderId"`
	FolderName     string    `json:"folderName"`
}

type updateContentPayload struct {
	Token  string `json:"token"`
	Option string `json:"option"`
	Value  any    `json:"value"`
}

type copyContentPayload struct {
	Token        string    `json:"token"`
	ContentsID   uuidList  `json:"contentsId"`
	FolderIDDest uuid.UUID `json:"folderIdDest"`
}

type deleteContentPayload struct {
	Token      string   `json:"token"`
	ContentsID uuidList `json:"contentsId"`
}

// ContentOption is a single content attribute change for SetOption. Boolean
// options travel as the strings "true"/"false", the expiry as unix seconds,
// and tags as one comma-joined string.
type ContentOption struct {
	name  string
	value any
}

// Name reports the wire name of the option.
func (o ContentOption) Name() string { return o.name }

// PublicOption toggles public visibility of a folder.
func PublicOption(public bool) ContentOption {
	return ContentOption{name: "public", value: strconv.FormatBool(public)}
}

// PasswordOption protects a content with a password.
func PasswordOption(password string) ContentOption {
	return ContentOption{name: "password", value: password}
}

// DescriptionOption sets the content description.
func DescriptionOption(description string) ContentOption {
	return ContentOption{name: "description", value: description}
}

// ExpireOption sets the expiry timestamp of a content.
func ExpireOption(expire time.Time) ContentOption {
	return ContentOption{name: "expire", value: expire.Unix()}
}

// TagsOption replaces the tags of a content.
func TagsOption(tags []string) ContentOption {
	return ContentOption{name: "tags", value: strings.Join(tags, ",")}
}

// DirectLinkOption toggles the direct download link of a file.
func DirectLinkOption(enabled bool) ContentOption {
	return ContentOption{name: "directLink", value: strconv.FormatBool(enabled)}
}
