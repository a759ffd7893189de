// Package cache keeps paginated chapters in SQLite database, so unchanged
// chapters laid out with the same parameters are not parsed again.
package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"pager/layout"
	"pager/notes"
)

const schema = `
CREATE TABLE IF NOT EXISTS chapters (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	name        TEXT NOT NULL,
	size        INTEGER NOT NULL,
	mtime       INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	language    TEXT NOT NULL DEFAULT '',
	created     INTEGER NOT NULL,
	UNIQUE (source, name)
);
CREATE TABLE IF NOT EXISTS pages (
	chapter TEXT NOT NULL,
	idx     INTEGER NOT NULL,
	payload BLOB NOT NULL,
	PRIMARY KEY (chapter, idx)
);
CREATE TABLE IF NOT EXISTS notes (
	chapter TEXT NOT NULL,
	idx     INTEGER NOT NULL,
	kind    TEXT NOT NULL,
	note    TEXT NOT NULL,
	body    TEXT NOT NULL,
	PRIMARY KEY (chapter, idx)
);
`

const (
	kindInline    = "inline"
	kindParagraph = "paragraph"
)

// Key identifies chapter state. Entry is valid only while every field
// matches.
type Key struct {
	// Source is the host path of the book or directory
	Source string
	// Name is the chapter path inside source
	Name    string
	Size    int64
	ModTime time.Time
	// Fingerprint describes layout parameters
	Fingerprint string
}

// Entry is a cached chapter.
type Entry struct {
	ID             uuid.UUID
	Pages          []*layout.Page
	Language       string
	InlineNotes    []notes.Note
	ParagraphNotes []notes.Note
}

// Table rebuilds notes table of the entry.
func (e *Entry) Table(maxEntries int, log *zap.Logger) *notes.Table {
	t := notes.NewTable(maxEntries, log)
	for _, n := range e.InlineNotes {
		t.AddInline(n.ID, n.Text)
	}
	for _, n := range e.ParagraphNotes {
		t.AddParagraph(n.ID, n.Text)
	}
	return t
}

// Store is not safe for concurrent use.
type Store struct {
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens or creates database at path, ":memory:" gives transient store.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open cache %q: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return nil, multierr.Append(fmt.Errorf("unable to prepare cache schema: %w", err), conn.Close())
	}
	return &Store{conn: conn, log: log.Named("cache").With(zap.String("path", path))}, nil
}

// Close closes database.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) lookup(key Key) (id string, found, valid bool, lang string, err error) {
	err = sqlitex.Execute(s.conn,
		`SELECT id, size, mtime, fingerprint, language FROM chapters WHERE source = ? AND name = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key.Source, key.Name},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				id = stmt.ColumnText(0)
				valid = stmt.ColumnInt64(1) == key.Size &&
					stmt.ColumnInt64(2) == key.ModTime.UnixNano() &&
					stmt.ColumnText(3) == key.Fingerprint
				lang = stmt.ColumnText(4)
				return nil
			},
		})
	return
}

// Get returns cached chapter. Second value is false when chapter is not
// cached or source changed since it was stored.
func (s *Store) Get(key Key) (*Entry, bool, error) {
	id, found, valid, lang, err := s.lookup(key)
	if err != nil {
		return nil, false, fmt.Errorf("unable to query cache: %w", err)
	}
	if !found {
		s.log.Debug("Cache miss", zap.String("chapter", key.Name))
		return nil, false, nil
	}
	if !valid {
		s.log.Debug("Cache entry is stale", zap.String("chapter", key.Name), zap.String("id", id))
		return nil, false, nil
	}

	e := &Entry{Language: lang}
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, false, fmt.Errorf("bad cache entry id %q: %w", id, err)
	}

	err = sqlitex.Execute(s.conn, `SELECT payload FROM pages WHERE chapter = ? ORDER BY idx`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				data := make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, data)
				p, err := decodePage(data)
				if err != nil {
					return err
				}
				e.Pages = append(e.Pages, p)
				return nil
			},
		})
	if err != nil {
		return nil, false, fmt.Errorf("unable to read cached pages: %w", err)
	}

	err = sqlitex.Execute(s.conn, `SELECT kind, note, body FROM notes WHERE chapter = ? ORDER BY idx`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				n := notes.Note{ID: stmt.ColumnText(1), Text: stmt.ColumnText(2)}
				switch stmt.ColumnText(0) {
				case kindInline:
					e.InlineNotes = append(e.InlineNotes, n)
				case kindParagraph:
					e.ParagraphNotes = append(e.ParagraphNotes, n)
				}
				return nil
			},
		})
	if err != nil {
		return nil, false, fmt.Errorf("unable to read cached notes: %w", err)
	}

	s.log.Debug("Cache hit", zap.String("chapter", key.Name), zap.Int("pages", len(e.Pages)))
	return e, true, nil
}

// Put replaces cached chapter with new content. Entry ID is assigned.
func (s *Store) Put(key Key, e *Entry) (err error) {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to generate entry id: %w", err)
	}

	defer sqlitex.Save(s.conn)(&err)

	if err = s.delete(key); err != nil {
		return err
	}
	err = sqlitex.Execute(s.conn,
		`INSERT INTO chapters (id, source, name, size, mtime, fingerprint, language, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{id.String(), key.Source, key.Name, key.Size, key.ModTime.UnixNano(), key.Fingerprint, e.Language, time.Now().Unix()},
		})
	if err != nil {
		return fmt.Errorf("unable to store chapter: %w", err)
	}

	for i, p := range e.Pages {
		data, encErr := encodePage(p)
		if encErr != nil {
			return encErr
		}
		err = sqlitex.Execute(s.conn, `INSERT INTO pages (chapter, idx, payload) VALUES (?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{id.String(), i, data}})
		if err != nil {
			return fmt.Errorf("unable to store page %d: %w", i, err)
		}
	}

	idx := 0
	for _, group := range []struct {
		kind  string
		notes []notes.Note
	}{{kindInline, e.InlineNotes}, {kindParagraph, e.ParagraphNotes}} {
		for _, n := range group.notes {
			err = sqlitex.Execute(s.conn, `INSERT INTO notes (chapter, idx, kind, note, body) VALUES (?, ?, ?, ?, ?)`,
				&sqlitex.ExecOptions{Args: []any{id.String(), idx, group.kind, n.ID, n.Text}})
			if err != nil {
				return fmt.Errorf("unable to store note %q: %w", n.ID, err)
			}
			idx++
		}
	}

	e.ID = id
	s.log.Debug("Chapter cached", zap.String("chapter", key.Name), zap.Stringer("id", id), zap.Int("pages", len(e.Pages)))
	return nil
}

// Delete removes chapter from cache.
func (s *Store) Delete(key Key) (err error) {
	defer sqlitex.Save(s.conn)(&err)
	return s.delete(key)
}

func (s *Store) delete(key Key) error {
	var ids []string
	err := sqlitex.Execute(s.conn, `SELECT id FROM chapters WHERE source = ? AND name = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key.Source, key.Name},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				ids = append(ids, stmt.ColumnText(0))
				return nil
			},
		})
	if err != nil {
		return fmt.Errorf("unable to query cache: %w", err)
	}
	for _, id := range ids {
		for _, q := range []string{
			`DELETE FROM pages WHERE chapter = ?`,
			`DELETE FROM notes WHERE chapter = ?`,
			`DELETE FROM chapters WHERE id = ?`,
		} {
			if err := sqlitex.Execute(s.conn, q, &sqlitex.ExecOptions{Args: []any{id}}); err != nil {
				return fmt.Errorf("unable to drop cache entry %s: %w", id, err)
			}
		}
	}
	return nil
}

// Count returns number of cached chapters.
func (s *Store) Count() (n int, err error) {
	err = sqlitex.Execute(s.conn, `SELECT count(*) FROM chapters`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			n = stmt.ColumnInt(0)
			return nil
		},
	})
	return n, err
}
