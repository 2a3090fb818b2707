// Package wiki holds the documents generated for a Semantic MediaWiki site
// and renders each of them as a page of the XML dump.
package wiki

import (
	"io/fs"
	"strconv"
	"time"

	"github.com/hesusruiz/tsv2smw/shell"
	"go.uber.org/zap"
)

// NA is the value shown for missing data.
const NA = "N/D"

// TimestampLayout is the layout of the revision timestamps in the dump.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Localizer returns the strings of the selected language.
type Localizer interface {
	Get(key string) string
	Format(key string, args ...string) string
	Language() string
}

// Env is what documents need to render themselves.
type Env struct {
	Shells shell.Provider
	Lang   Localizer
	Pages  fs.FS // source of the simple pages, may be nil
	Host   string
	Now    func() time.Time
	Log    *zap.SugaredLogger
}

// Timestamp returns the current time in the dump layout.
func (e *Env) Timestamp() string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().UTC().Format(TimestampLayout)
}

func (e *Env) logger() *zap.SugaredLogger {
	if e.Log == nil {
		return zap.NewNop().Sugar()
	}
	return e.Log
}

// DocumentIdentity is the identity shared by every page of the dump.
type DocumentIdentity struct {
	ID      int
	Name    string
	Message string
}

func (d DocumentIdentity) Identity() DocumentIdentity {
	return d
}

// Document is a page that can be written in the dump.
type Document interface {
	Identity() DocumentIdentity
	Render(env *Env) (string, error)
}

// fill loads a shell and fills the markers common to every page together with values.
func (d DocumentIdentity) fill(env *Env, name string, values map[string]string) (string, error) {
	values["ID"] = strconv.Itoa(d.ID)
	values["TIMESTAMP"] = env.Timestamp()
	return shell.Fill(env.Shells, name, values)
}
