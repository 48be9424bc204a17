// Package actionlog records who did what to which project.
package actionlog

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/keshon/coderepo/internal/fs"
	"github.com/keshon/coderepo/internal/ident"
	"github.com/keshon/coderepo/internal/object"
	"github.com/keshon/coderepo/internal/util"
)

// Actions recorded by the repository.
const (
	ActionCommit = "commit"
	ActionBranch = "branch"
)

// Entry is one recorded action. ProjectID is empty for actions outside a project.
type Entry struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	ProjectID string    `json:"projectId,omitempty"`
	Action    string    `json:"action"`
	Time      time.Time `json:"time"`
}

// Log stores entries as logs/<id>.json.
type Log struct {
	FS  fs.FS
	Dir string

	ids  *ident.Fresh
	now  func() time.Time
	once sync.Once
	err  error
}

// New creates a Log rooted at dir.
func New(fsys fs.FS, dir string) *Log {
	return &Log{FS: fsys, Dir: dir, ids: ident.NewFresh(), now: time.Now}
}

func (l *Log) init() error {
	l.once.Do(func() { l.err = l.FS.MkdirAll(l.Dir, 0o755) })
	return l.err
}

// Record appends an entry. projectID may be empty.
func (l *Log) Record(action, profileID, projectID string) (*Entry, error) {
	if err := l.init(); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	e := &Entry{
		ProfileID: profileID,
		ProjectID: projectID,
		Action:    action,
		Time:      l.now().UTC(),
	}
	e.ID = l.ids.NewID("log", []byte(profileID+"\x00"+projectID+"\x00"+action))
	if err := util.WriteJSON(l.FS, filepath.Join(l.Dir, e.ID+".json"), e); err != nil {
		return nil, object.NewStoreError("put", "log", e.ID, err)
	}
	return e, nil
}

// Get returns the entry with the given id.
func (l *Log) Get(id string) (*Entry, error) {
	if id == "" || strings.ContainsAny(id, `/\.`) {
		return nil, object.NotFound("log", id)
	}
	var e Entry
	if err := util.ReadJSON(l.FS, filepath.Join(l.Dir, id+".json"), &e); err != nil {
		if l.FS.IsNotExist(err) {
			return nil, object.NotFound("log", id)
		}
		return nil, object.NewStoreError("get", "log", id, err)
	}
	return &e, nil
}

// All returns every entry, oldest first.
func (l *Log) All() ([]*Entry, error) {
	return l.filter(func(*Entry) bool { return true })
}

// ByProfile returns the entries recorded for profileID.
func (l *Log) ByProfile(profileID string) ([]*Entry, error) {
	return l.filter(func(e *Entry) bool { return e.ProfileID == profileID })
}

// ByProject returns the entries recorded for projectID.
func (l *Log) ByProject(projectID string) ([]*Entry, error) {
	return l.filter(func(e *Entry) bool { return e.ProjectID == projectID })
}

// ByProfileAndProject returns the entries matching both ids.
func (l *Log) ByProfileAndProject(profileID, projectID string) ([]*Entry, error) {
	return l.filter(func(e *Entry) bool {
		return e.ProfileID == profileID && e.ProjectID == projectID
	})
}

func (l *Log) filter(keep func(*Entry) bool) ([]*Entry, error) {
	files, err := l.FS.ReadDir(l.Dir)
	if err != nil {
		if l.FS.IsNotExist(err) {
			return nil, nil
		}
		return nil, object.NewStoreError("list", "log", "", err)
	}

	var out []*Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "tmp-") {
			continue
		}
		e, err := l.Get(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}
