package gofile

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/gofile/gofile_sdk_go/internal/gofileapi"
	"github.com/gofile/gofile_sdk_go/internal/httpx"
)

// ProgressFunc receives the cumulative number of bytes handed to the upload
// so far. The counter never decreases and never exceeds total; total is -1
// when the size of the stream is unknown.
type ProgressFunc func(uploaded, total int64)

type uploadConfig struct {
	folderID    uuid.UUID
	hasFolderID bool
	contentType string
	progress    ProgressFunc
}

// UploadOption configures a single upload.
type UploadOption func(*uploadConfig)

// WithFolderID uploads into an existing folder instead of a fresh guest
// folder.
func WithFolderID(folderID uuid.UUID) UploadOption {
	return func(cfg *uploadConfig) {
		cfg.folderID = folderID
		cfg.hasFolderID = true
	}
}

// WithContentType forces the content type of the file part.
func WithContentType(contentType string) UploadOption {
	return func(cfg *uploadConfig) {
		cfg.contentType = contentType
	}
}

// WithProgress reports upload progress through fn. fn is called from the
// goroutine feeding the request body.
func WithProgress(fn ProgressFunc) UploadOption {
	return func(cfg *uploadConfig) {
		cfg.progress = fn
	}
}

// ServerClient uploads files to one GoFile upload server. Obtain one from
// Client.GetServer (guest uploads) or Authorized.GetServer (account uploads).
type ServerClient struct {
	server Server
	api    *httpx.Client
	token  string
}

// Server reports which upload server the client is bound to.
func (s *ServerClient) Server() Server {
	return s.server
}

// UploadFile streams the file at path to the server. The content type of the
// part is sniffed from the file unless WithContentType overrides it.
func (s *ServerClient) UploadFile(ctx context.Context, path string, opts ...UploadOption) (*UploadedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gofile: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("gofile: stat %s: %w", path, err)
	}

	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("gofile: no file name in path %q", path)
	}

	if mt, err := mimetype.DetectFile(path); err == nil {
		opts = append([]UploadOption{WithContentType(mt.String())}, opts...)
	}
	return s.Upload(ctx, name, f, info.Size(), opts...)
}

// UploadFileToFolder streams the file at path into an existing folder.
func (s *ServerClient) UploadFileToFolder(ctx context.Context, folderID uuid.UUID, path string, opts ...UploadOption) (*UploadedFile, error) {
	return s.UploadFile(ctx, path, append(opts, WithFolderID(folderID))...)
}

// Upload streams size bytes from r as a multipart upload. The body is
// streamed through a pipe, so the file is never held in memory whole. Pass
// size -1 when the length is unknown; progress then reports total as -1.
func (s *ServerClient) Upload(ctx context.Context, filename string, r io.Reader, size int64, opts ...UploadOption) (*UploadedFile, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("gofile: file name is required")
	}

	cfg := uploadConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeMultipart(mw, s.token, filename, r, size, &cfg))
	}()

	req := &httpx.Request{
		Method: http.MethodPost,
		Path:   "contents/uploadfile",
		Header: http.Header{"Content-Type": {mw.FormDataContentType()}},
		Body:   pr,
	}
	resp, err := s.api.Do(ctx, req)
	if err != nil {
		return nil, translateError(err)
	}
	body, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gofile: read upload response: %w", err)
	}

	var uploaded UploadedFile
	if err := gofileapi.Decode(body, &uploaded); err != nil {
		return nil, translateError(err)
	}
	return &uploaded, nil
}

// writeMultipart feeds the form fields and the file part into mw. It runs on
// the pipe-writer side, concurrent with the HTTP client reading the request
// body.
func writeMultipart(mw *multipart.Writer, token, filename string, r io.Reader, size int64, cfg *uploadConfig) error {
	if token != "" {
		if err := mw.WriteField("token", token); err != nil {
			return err
		}
	}
	if cfg.hasFolderID {
		if err := mw.WriteField("folderId", cfg.folderID.String()); err != nil {
			return err
		}
	}

	part, err := createFilePart(mw, filename, cfg.contentType)
	if err != nil {
		return err
	}

	counter := &progressReader{r: r, total: size, fn: cfg.progress}
	if _, err := io.Copy(part, counter); err != nil {
		return err
	}
	counter.finish()

	return mw.Close()
}

func createFilePart(mw *multipart.Writer, filename, contentType string) (io.Writer, error) {
	if contentType == "" {
		return mw.CreateFormFile("file", filename)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)
	return mw.CreatePart(header)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// progressReader counts bytes flowing into the upload. The reported value is
// monotonically non-decreasing and saturates at total.
type progressReader struct {
	r        io.Reader
	total    int64
	uploaded int64
	fn       ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.uploaded += int64(n)
		if p.total >= 0 && p.uploaded > p.total {
			p.uploaded = p.total
		}
		p.report()
	}
	return n, err
}

// finish emits the terminal progress event at exactly the total size.
func (p *progressReader) finish() {
	if p.total >= 0 {
		p.uploaded = p.total
	}
	p.report()
}

func (p *progressReader) report() {
	if p.fn != nil {
		p.fn(p.uploaded, p.total)
	}
}
