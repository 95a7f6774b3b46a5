package server

import (
	"bytes"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

type asset struct {
	contentType string
	data        []byte
}

// assets serves the frontend from memory, minified once at startup.
type assets struct {
	files   map[string]asset
	modTime time.Time
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return m
}

func loadAssets(frontendFS fs.FS) (*assets, error) {
	m := newMinifier()
	a := &assets{files: make(map[string]asset), modTime: time.Now()}

	err := fs.WalkDir(frontendFS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(frontendFS, p)
		if err != nil {
			return err
		}
		ct := mime.TypeByExtension(path.Ext(p))
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		mediatype := strings.TrimSpace(strings.SplitN(ct, ";", 2)[0])
		if out, err := m.Bytes(mediatype, data); err == nil {
			data = out
		} else if !errors.Is(err, minify.ErrNotExist) {
			return errors.Wrapf(err, "minify %s", p)
		}
		a.files["/"+p] = asset{contentType: ct, data: data}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "load frontend")
	}
	return a, nil
}

func (a *assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	f, ok := a.files[p]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", f.contentType)
	http.ServeContent(w, r, p, a.modTime, bytes.NewReader(f.data))
}
