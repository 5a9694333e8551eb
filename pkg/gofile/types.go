package gofile

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Server is an upload server as listed by GET /servers.
type Server struct {
	Name string `json:"name"`
	Zone string `json:"zone"`
}

// Root returns the base URL for the server.
func (s Server) Root() string {
	return fmt.Sprintf("https://%s.gofile.io", s.Name)
}

// UploadURL returns the upload endpoint for the server.
func (s Server) UploadURL() string {
	return s.Root() + "/contents/uploadfile"
}

func (s Server) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Zone)
}

// AccountDetails describes the account that owns a token.
type AccountDetails struct {
	ID         uuid.UUID `json:"id"`
	Token      string    `json:"token"`
	Email      string    `json:"email"`
	Tier       string    `json:"tier"`
	RootFolder uuid.UUID `json:"rootFolder"`
	FilesCount int64     `json:"filesCount"`
	TotalSize  int64     `json:"totalSize"`
}

// UploadedFile is the payload returned by POST /contents/uploadfile.
type UploadedFile struct {
	GuestToken   string    `json:"guestToken,omitempty"`
	DownloadPage string    `json:"downloadPage"`
	Code         string    `json:"code"`
	ParentFolder uuid.UUID `json:"parentFolder"`
	FileID       uuid.UUID `json:"fileId"`
	FileName     string    `json:"fileName"`
	MD5          MD5       `json:"md5"`
}

// MD5 is a 16-byte checksum carried as lowercase hex on the wire.
type MD5 [16]byte

func (m MD5) String() string {
	return hex.EncodeToString(m[:])
}

// MarshalJSON encodes the checksum as a hex JSON string.
func (m MD5) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a 32-character hex JSON string.
func (m *MD5) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("gofile: invalid md5 %q: %w", s, err)
	}
	if len(raw) != len(m) {
		return fmt.Errorf("gofile: invalid md5 length %d", len(raw))
	}
	copy(m[:], raw)
	return nil
}

// Content type discriminators used on the wire.
const (
	ContentTypeFolder = "folder"
	ContentTypeFile   = "file"
)

// ContentKind is the type-specific half of a Content: either Folder or File.
type ContentKind interface {
	contentKind()
}

// Folder holds the folder-specific fields of a Content. The aggregate counts
// and the Contents map are populated only on the root of a getContent fetch.
type Folder struct {
	Code        string
	Public      bool
	ChildrenIDs []uuid.UUID

	TotalDownloadCount *int64
	TotalSize          *int64
	Contents           map[uuid.UUID]Content
}

// File holds the file-specific fields of a Content.
type File struct {
	Size          int64
	DownloadCount int64
	MD5           MD5
	MimeType      string
	ServerChosen  string
	Link          string
}

func (Folder) contentKind() {}
func (File) contentKind()   {}

// Content is a node of the remote content tree: a folder or a file sharing
// the common identity fields, discriminated by the JSON "type" field.
type Content struct {
	ID           uuid.UUID
	Name         string
	ParentFolder uuid.UUID
	CreateTime   time.Time
	Kind         ContentKind
}

// Folder returns the folder variant, if this content is a folder.
func (c Content) Folder() (Folder, bool) {
	f, ok := c.Kind.(Folder)
	return f, ok
}

// File returns the file variant, if this content is a file.
func (c Content) File() (File, bool) {
	f, ok := c.Kind.(File)
	return f, ok
}

// IsFolder reports whether the content is a folder.
func (c Content) IsFolder() bool {
	_, ok := c.Kind.(Folder)
	return ok
}

// contentJSON is the flattened wire form shared by both variants. The server
// spells serverChoosen with the extra o; we keep the wire name and fix the
// Go name.
type contentJSON struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ParentFolder uuid.UUID `json:"parentFolder"`
	CreateTime   int64     `json:"createTime"`
	Type         string    `json:"type"`

	Code               string                `json:"code,omitempty"`
	Public             *bool                 `json:"public,omitempty"`
	ChildrenIDs        []uuid.UUID           `json:"childrenIds,omitempty"`
	TotalDownloadCount *int64                `json:"totalDownloadCount,omitempty"`
	TotalSize          *int64                `json:"totalSize,omitempty"`
	Contents           map[uuid.UUID]Content `json:"contents,omitempty"`

	Size          *int64 `json:"size,omitempty"`
	DownloadCount *int64 `json:"downloadCount,omitempty"`
	MD5           *MD5   `json:"md5,omitempty"`
	MimeType      string `json:"mimetype,omitempty"`
	ServerChosen  string `json:"serverChoosen,omitempty"`
	Link          string `json:"link,omitempty"`
}

// UnmarshalJSON decodes the tagged union, rejecting unknown type tags.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw contentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Content{
		ID:           raw.ID,
		Name:         raw.Name,
		ParentFolder: raw.ParentFolder,
		CreateTime:   fromUnixSeconds(raw.CreateTime),
	}

	switch raw.Type {
	case ContentTypeFolder:
		folder := Folder{
			Code:               raw.Code,
			TotalDownloadCount: raw.TotalDownloadCount,
			TotalSize:          raw.TotalSize,
		}
		if len(raw.ChildrenIDs) > 0 {
			folder.ChildrenIDs = raw.ChildrenIDs
		}
		if len(raw.Contents) > 0 {
			folder.Contents = raw.Contents
		}
		if raw.Public != nil {
			folder.Public = *raw.Public
		}
		out.Kind = folder
	case ContentTypeFile:
		file := File{
			MimeType:     raw.MimeType,
			ServerChosen: raw.ServerChosen,
			Link:         raw.Link,
		}
		if raw.Size != nil {
			file.Size = *raw.Size
		}
		if raw.DownloadCount != nil {
			file.DownloadCount = *raw.DownloadCount
		}
		if raw.MD5 != nil {
			file.MD5 = *raw.MD5
		}
		out.Kind = file
	default:
		return fmt.Errorf("gofile: unknown content type %q", raw.Type)
	}

	*c = out
	return nil
}

// MarshalJSON encodes the tagged union back into its wire form.
func (c Content) MarshalJSON() ([]byte, error) {
	raw := contentJSON{
		ID:           c.ID,
		Name:         c.Name,
		ParentFolder: c.ParentFolder,
		CreateTime:   toUnixSeconds(c.CreateTime),
	}

	switch kind := c.Kind.(type) {
	case Folder:
		raw.Type = ContentTypeFolder
		raw.Code = kind.Code
		public := kind.Public
		raw.Public = &public
		raw.ChildrenIDs = kind.ChildrenIDs
		raw.TotalDownloadCount = kind.TotalDownloadCount
		raw.TotalSize = kind.TotalSize
		raw.Contents = kind.Contents
	case File:
		raw.Type = ContentTypeFile
		size := kind.Size
		raw.Size = &size
		count := kind.DownloadCount
		raw.DownloadCount = &count
		md5 := kind.MD5
		raw.MD5 = &md5
		raw.MimeType = kind.MimeType
		raw.ServerChosen = kind.ServerChosen
		raw.Link = kind.Link
	default:
		return nil, fmt.Errorf("gofile: content %s has no kind", c.ID)
	}

	return json.Marshal(raw)
}

func fromUnixSeconds(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}

func toUnixSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
