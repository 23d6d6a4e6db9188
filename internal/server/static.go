package server

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// indexFile is the SPA entry point served for any path that is not an asset.
const indexFile = "index.html"

// serveStatic serves the editor assets, gzip-compressed when the client
// accepts it. Range requests are served uncompressed since the byte offsets
// refer to the file on disk.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Range") != "" {
		s.serveAsset(w, r)
		return
	}
	s.staticHandler.ServeHTTP(w, r)
}

// serveAsset resolves r to a regular file under the asset root, falling back
// to index.html. Lookups go through os.OpenInRoot so neither ".." nor a
// symlink can leave the root; any lookup failure is treated as "not an
// asset" and never reported to the client.
func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD, OPTIONS")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.opts.StaticDir == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	f, info, err := openAsset(s.opts.StaticDir, assetName(r.URL.Path))
	if err != nil {
		f, info, err = openAsset(s.opts.StaticDir, indexFile)
	}
	if err != nil {
		s.logger.Warn("asset root has no index document", "static_dir", s.opts.StaticDir, "error", err)
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// assetName maps a URL path to a root-relative file name. Paths that cannot
// name a file (backslashes, NUL) map to the index document.
func assetName(urlPath string) string {
	if strings.ContainsAny(urlPath, "\\\x00") {
		return indexFile
	}
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return indexFile
	}
	return name
}

// openAsset opens name under root and returns it only if it is a regular file.
func openAsset(root, name string) (*os.File, fs.FileInfo, error) {
	f, err := os.OpenInRoot(root, name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, errors.New("not a regular file")
	}
	return f, info, nil
}
