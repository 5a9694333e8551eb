// Package mock implements an in-memory GoFile service together with an
// http.Handler speaking the REST surface the SDK consumes. It backs the unit
// tests, the runnable examples and the gofile-sandbox command.
package mock

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gofile/gofile_sdk_go/pkg/gofile"
)

type account struct {
	id    uuid.UUID
	token string
	email string
	tier  string
	root  uuid.UUID
}

type node struct {
	id      uuid.UUID
	name    string
	parent  uuid.UUID
	created time.Time

	// folder
	isFolder bool
	code     string
	public   bool
	children []uuid.UUID

	// file
	data     []byte
	sum      gofile.MD5
	mimeType string
	server   string
	link     bool

	// options
	password    string
	description string
	expire      time.Time
	tags        []string
}

// Service is an in-memory GoFile: accounts, a content tree per account and
// guest uploads. All methods are safe for concurrent use.
type Service struct {
	mu       sync.RWMutex
	servers  []gofile.Server
	accounts map[string]*account // keyed by token
	nodes    map[uuid.UUID]*node
	codes    map[string]uuid.UUID
}

// New constructs a Service advertising one upload server per zone.
func New() *Service {
	return &Service{
		servers: []gofile.Server{
			{Name: "store1", Zone: "eu"},
			{Name: "store2", Zone: "na"},
		},
		accounts: make(map[string]*account),
		nodes:    make(map[uuid.UUID]*node),
		codes:    make(map[string]uuid.UUID),
	}
}

// SetServers replaces the advertised upload servers.
func (s *Service) SetServers(servers []gofile.Server) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers = append([]gofile.Server(nil), servers...)
}

// AddAccount registers an account with a fresh root folder and returns its
// token.
func (s *Service) AddAccount(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAccountLocked(email, "standard").token
}

func (s *Service) addAccountLocked(email, tier string) *account {
	root := s.newFolderLocked(uuid.Nil, "root")
	acct := &account{
		id:    uuid.New(),
		token: newToken(),
		email: email,
		tier:  tier,
		root:  root.id,
	}
	s.accounts[acct.token] = acct
	return acct
}

func (s *Service) newFolderLocked(parent uuid.UUID, name string) *node {
	n := &node{
		id:       uuid.New(),
		name:     name,
		parent:   parent,
		created:  time.Now().UTC().Truncate(time.Second),
		isFolder: true,
		code:     newCode(),
	}
	s.nodes[n.id] = n
	s.codes[n.code] = n.id
	if p, ok := s.nodes[parent]; ok {
		p.children = append(p.children, n.id)
	}
	return n
}

func (s *Service) newFileLocked(parent uuid.UUID, name string, data []byte, contentType, server string) *node {
	n := &node{
		id:       uuid.New(),
		name:     name,
		parent:   parent,
		created:  time.Now().UTC().Truncate(time.Second),
		data:     append([]byte(nil), data...),
		sum:      gofile.MD5(md5.Sum(data)),
		mimeType: contentType,
		server:   server,
	}
	s.nodes[n.id] = n
	if p, ok := s.nodes[parent]; ok {
		p.children = append(p.children, n.id)
	}
	return n
}

// FileData returns the stored bytes of a file node, for test assertions.
func (s *Service) FileData(id uuid.UUID) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok || n.isFolder {
		return nil, false
	}
	return append([]byte(nil), n.data...), true
}

// Handler returns an http.Handler implementing the GoFile REST surface.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/servers", s.handleServers)
	mux.HandleFunc("/getAccountDetails", s.handleAccountDetails)
	mux.HandleFunc("/getContent", s.handleGetContent)
	mux.HandleFunc("/createFolder", s.handleCreateFolder)
	mux.HandleFunc("/contents", s.handleContents)
	mux.HandleFunc("/contents/", s.handleContentsSubpath)
	return mux
}

func (s *Service) handleServers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeStatus(w, http.StatusMethodNotAllowed, "error-method")
		return
	}
	s.mu.RLock()
	servers := append([]gofile.Server(nil), s.servers...)
	s.mu.RUnlock()
	writeOK(w, map[string]any{"servers": servers})
}

func (s *Service) handleAccountDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeStatus(w, http.StatusMethodNotAllowed, "error-method")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[r.URL.Query().Get("token")]
	if !ok {
		writeStatus(w, http.StatusUnauthorized, "error-auth")
		return
	}

	files, size := s.accountTotalsLocked(acct.root)
	writeOK(w, gofile.AccountDetails{
		ID:         acct.id,
		Token:      acct.token,
		Email:      acct.email,
		Tier:       acct.tier,
		RootFolder: acct.root,
		FilesCount: files,
		TotalSize:  size,
	})
}

func (s *Service) accountTotalsLocked(folderID uuid.UUID) (files, size int64) {
	n, ok := s.nodes[folderID]
	if !ok {
		return 0, 0
	}
	for _, childID := range n.children {
		child, ok := s.nodes[childID]
		if !ok {
			continue
		}
		if child.isFolder {
			f, sz := s.accountTotalsLocked(childID)
			files += f
			size += sz
			continue
		}
		files++
		size += int64(len(child.data))
	}
	return files, size
}

func (s *Service) handleGetContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeStatus(w, http.StatusMethodNotAllowed, "error-method")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts[r.URL.Query().Get("token")]; !ok {
		writeStatus(w, http.StatusUnauthorized, "error-auth")
		return
	}

	n := s.lookupLocked(r.URL.Query().Get("contentId"))
	if n == nil {
		writeStatus(w, http.StatusNotFound, "error-notFound")
		return
	}
	writeOK(w, s.contentLocked(n, true))
}

// contentLocked renders a node as a gofile.Content. The root of a fetch
// carries aggregate counts and a one-level map of its children.
func (s *Service) contentLocked(n *node, root bool) gofile.Content {
	content := gofile.Content{
		ID:           n.id,
		Name:         n.name,
		ParentFolder: n.parent,
		CreateTime:   n.created,
	}
	if !n.isFolder {
		file := gofile.File{
			Size:         int64(len(n.data)),
			MD5:          n.sum,
			MimeType:     n.mimeType,
			ServerChosen: n.server,
		}
		if n.link {
			file.Link = s.directLinkLocked(n)
		}
		content.Kind = file
		return content
	}

	folder := gofile.Folder{
		Code:        n.code,
		Public:      n.public,
		ChildrenIDs: append([]uuid.UUID(nil), n.children...),
	}
	if root {
		downloads := int64(0)
		_, size := s.accountTotalsLocked(n.id)
		folder.TotalDownloadCount = &downloads
		folder.TotalSize = &size
		folder.Contents = make(map[uuid.UUID]gofile.Content, len(n.children))
		for _, childID := range n.children {
			if child, ok := s.nodes[childID]; ok {
				folder.Contents[childID] = s.contentLocked(child, false)
			}
		}
	}
	content.Kind = folder
	return content
}

func (s *Service) directLinkLocked(n *node) string {
	return fmt.Sprintf("https://%s.gofile.io/download/%s/%s", n.server, n.id, n.name)
}

func (s *Service) lookupLocked(idOrCode string) *node {
	if id, err := uuid.Parse(idOrCode); err == nil {
		return s.nodes[id]
	}
	if id, ok := s.codes[idOrCode]; ok {
		return s.nodes[id]
	}
	return nil
}

func (s *Service) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeStatus(w, http.StatusMethodNotAllowed, "error-method")
		return
	}
	var payload struct {
		Token          string    `json:"token"`
		ParentFolderID uuid.UUID `json:"parentFolderId"`
		FolderName     string    `json:"folderName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[payload.Token]; !ok {
		writeStatus(w, http.StatusUnauthorized, "error-auth")
		return
	}
	parent, ok := s.nodes[payload.ParentFolderID]
	if !ok || !parent.isFolder {
		writeStatus(w, http.StatusNotFound, "error-notFound")
		return
	}
	if strings.TrimSpace(payload.FolderName) == "" {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}

	folder := s.newFolderLocked(parent.id, payload.FolderName)
	writeOK(w, s.contentLocked(folder, false))
}

// handleContents serves DELETE /contents and PUT /contents/copy style routes
// that land on the bare prefix.
func (s *Service) handleContents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeStatus(w, http.StatusMethodNotAllowed, "error-method")
		return
	}
	var payload struct {
		Token      string `json:"token"`
		ContentsID string `json:"contentsId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[payload.Token]; !ok {
		writeStatus(w, http.StatusUnauthorized, "error-auth")
		return
	}
	ids, err := parseIDList(payload.ContentsID)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}
	for _, id := range ids {
		if _, ok := s.nodes[id]; !ok {
			writeStatus(w, http.StatusNotFound, "error-notFound")
			return
		}
	}
	for _, id := range ids {
		s.removeLocked(id)
	}
	writeOK(w, struct{}{})
}

func (s *Service) removeLocked(id uuid.UUID) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	for _, childID := range append([]uuid.UUID(nil), n.children...) {
		s.removeLocked(childID)
	}
	if parent, ok := s.nodes[n.parent]; ok {
		parent.children = removeID(parent.children, id)
	}
	if n.code != "" {
		delete(s.codes, n.code)
	}
	delete(s.nodes, id)
}

func (s *Service) handleContentsSubpath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/contents/")
	switch {
	case rest == "copy":
		s.handleCopy(w, r)
	case rest == "uploadfile":
		s.handleUpload(w, r)
	case strings.HasSuffix(rest, "/update"):
		s.handleUpdate(w, r, strings.TrimSuffix(rest, "/update"))
	default:
		writeStatus(w, http.StatusNotFound, "error-notFound")
	}
}

func (s *Service) handleCopy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeStatus(w, http.StatusMethodNotAllowed, "error-method")
		return
	}
	var payload struct {
		Token        string    `json:"token"`
		ContentsID   string    `json:"contentsId"`
		FolderIDDest uuid.UUID `json:"folderIdDest"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[payload.Token]; !ok {
		writeStatus(w, http.StatusUnauthorized, "error-auth")
		return
	}
	dest, ok := s.nodes[payload.FolderIDDest]
	if !ok || !dest.isFolder {
		writeStatus(w, http.StatusNotFound, "error-notFound")
		return
	}
	ids, err := parseIDList(payload.ContentsID)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}
	for _, id := range ids {
		src, ok := s.nodes[id]
		if !ok {
			writeStatus(w, http.StatusNotFound, "error-notFound")
			return
		}
		s.copyLocked(src, dest.id)
	}
	writeOK(w, struct{}{})
}

func (s *Service) copyLocked(src *node, destID uuid.UUID) {
	if src.isFolder {
		folder := s.newFolderLocked(destID, src.name)
		folder.public = src.public
		for _, childID := range src.children {
			if child, ok := s.nodes[childID]; ok {
				s.copyLocked(child, folder.id)
			}
		}
		return
	}
	s.newFileLocked(destID, src.name, src.data, src.mimeType, src.server)
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request, rawID string) {
	if r.Method != http.MethodPut {
		writeStatus(w, http.StatusMethodNotAllowed, "error-method")
		return
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}
	var payload struct {
		Token  string          `json:"token"`
		Option string          `json:"option"`
		Value  json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[payload.Token]; !ok {
		writeStatus(w, http.StatusUnauthorized, "error-auth")
		return
	}
	n, ok := s.nodes[id]
	if !ok {
		writeStatus(w, http.StatusNotFound, "error-notFound")
		return
	}

	switch payload.Option {
	case "public":
		v, err := parseBoolString(payload.Value)
		if err != nil {
			writeStatus(w, http.StatusBadRequest, "error-badRequest")
			return
		}
		n.public = v
		writeOK(w, struct{}{})
	case "password":
		var v string
		if err := json.Unmarshal(payload.Value, &v); err != nil {
			writeStatus(w, http.StatusBadRequest, "error-badRequest")
			return
		}
		n.password = v
		writeOK(w, struct{}{})
	case "description":
		var v string
		if err := json.Unmarshal(payload.Value, &v); err != nil {
			writeStatus(w, http.StatusBadRequest, "error-badRequest")
			return
		}
		n.description = v
		writeOK(w, struct{}{})
	case "expire":
		var ts int64
		if err := json.Unmarshal(payload.Value, &ts); err != nil {
			writeStatus(w, http.StatusBadRequest, "error-badRequest")
			return
		}
		n.expire = time.Unix(ts, 0).UTC()
		writeOK(w, struct{}{})
	case "tags":
		var v string
		if err := json.Unmarshal(payload.Value, &v); err != nil {
			writeStatus(w, http.StatusBadRequest, "error-badRequest")
			return
		}
		n.tags = strings.Split(v, ",")
		writeOK(w, struct{}{})
	case "directLink":
		v, err := parseBoolString(payload.Value)
		if err != nil {
			writeStatus(w, http.StatusBadRequest, "error-badRequest")
			return
		}
		if n.isFolder {
			writeStatus(w, http.StatusBadRequest, "error-notAFile")
			return
		}
		n.link = v
		if v {
			writeOK(w, s.directLinkLocked(n))
			return
		}
		writeOK(w, struct{}{})
	default:
		writeStatus(w, http.StatusBadRequest, "error-unknownOption")
	}
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeStatus(w, http.StatusMethodNotAllowed, "error-method")
		return
	}
	reader, err := r.MultipartReader()
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}

	var (
		token       string
		folderID    string
		filename    string
		contentType string
		data        []byte
		haveFile    bool
	)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			writeStatus(w, http.StatusBadRequest, "error-badRequest")
			return
		}
		switch part.FormName() {
		case "token":
			token = readFormValue(part)
		case "folderId":
			folderID = readFormValue(part)
		case "file":
			filename = part.FileName()
			contentType = part.Header.Get("Content-Type")
			data, err = io.ReadAll(part)
			if err != nil {
				writeStatus(w, http.StatusBadRequest, "error-badRequest")
				return
			}
			haveFile = true
		}
	}
	if !haveFile || filename == "" {
		writeStatus(w, http.StatusBadRequest, "error-badRequest")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	guestToken := ""
	acct, ok := s.accounts[token]
	if !ok {
		if token != "" {
			writeStatus(w, http.StatusUnauthorized, "error-auth")
			return
		}
		acct = s.addAccountLocked("", "guest")
		guestToken = acct.token
	}

	parent := s.nodes[acct.root]
	if folderID != "" {
		id, err := uuid.Parse(folderID)
		if err != nil {
			writeStatus(w, http.StatusBadRequest, "error-badRequest")
			return
		}
		parent, ok = s.nodes[id]
		if !ok || !parent.isFolder {
			writeStatus(w, http.StatusNotFound, "error-notFound")
			return
		}
	} else if guestToken != "" {
		// Guest uploads land in a fresh folder under the guest root.
		parent = s.newFolderLocked(acct.root, filename)
	}

	file := s.newFileLocked(parent.id, filename, data, contentType, s.servers[0].Name)
	writeOK(w, gofile.UploadedFile{
		GuestToken:   guestToken,
		DownloadPage: "https://gofile.io/d/" + parent.code,
		Code:         parent.code,
		ParentFolder: parent.id,
		FileID:       file.id,
		FileName:     file.name,
		MD5:          file.sum,
	})
}

func readFormValue(part io.Reader) string {
	data, err := io.ReadAll(part)
	if err != nil {
		return ""
	}
	return string(data)
}

func parseIDList(raw string) ([]uuid.UUID, error) {
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseBoolString accepts the API's stringly booleans ("true"/"false").
func parseBoolString(raw json.RawMessage) (bool, error) {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, err
	}
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean string: %q", v)
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func newToken() string {
	return "tok-" + randomHex(16)
}

func newCode() string {
	return randomHex(3)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

func writeOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"data":   data,
	})
}

func writeStatus(w http.ResponseWriter, httpCode int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"data":   struct{}{},
	})
}
