package spritepane

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/spritepane/raster"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Cache records the inputs used to build each pane so that unchanged panes
// aren't rewritten.
type Cache struct {
	db *sql.DB
}

// NewCache opens, creating if necessary, the sqlite cache database in file
func NewCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS pane (output TEXT PRIMARY KEY NOT NULL, digest TEXT NOT NULL, png_sha1 TEXT NOT NULL, json_sha1 TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

// Close closes the database
func (c *Cache) Close() error {
	return c.db.Close()
}

func sha1File(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

// Fresh reports whether the pane at pngPath and jsonPath was built from
// inputs with the given digest and neither file has changed since.
func (c *Cache) Fresh(pngPath, jsonPath, digest string) (bool, error) {
	var stored, pngSum, jsonSum string
	switch err := c.db.QueryRow("SELECT digest, png_sha1, json_sha1 FROM pane WHERE output = ?", pngPath).Scan(&stored, &pngSum, &jsonSum); err {
	case sql.ErrNoRows:
		return false, nil
	case nil:
	default:
		return false, errors.Wrap(err, "cache lookup")
	}

	if stored != digest {
		return false, nil
	}

	for file, want := range map[string]string{pngPath: pngSum, jsonPath: jsonSum} {
		got, err := sha1File(file)
		switch {
		case os.IsNotExist(err):
			return false, nil
		case err != nil:
			return false, err
		case got != want:
			return false, nil
		}
	}

	return true, nil
}

// Store records the digest and output checksums for the pane at pngPath
func (c *Cache) Store(pngPath, jsonPath, digest, pngSum, jsonSum string) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO pane (output, digest, png_sha1, json_sha1) VALUES (?, ?, ?, ?)", pngPath, digest, pngSum, jsonSum); err != nil {
		return errors.Wrap(err, "cache store")
	}
	return nil
}

// digest identifies everything that affects the output of a pane
func (p *Packer) digest(pane *Pane) string {
	h := sha1.New()
	fmt.Fprintf(h, "factor=%d\n", pane.Factor)
	fmt.Fprintf(h, "background=%s\n", raster.FormatBackground(p.background))
	fmt.Fprintf(h, "optimize=%t\n", p.encoding.Optimize)
	fmt.Fprintf(h, "colors=%d\n", p.encoding.Colors)
	for _, m := range pane.images {
		fmt.Fprintf(h, "%s\x00%X\x00%t\n", m.Name, m.Sum, m.Derived)
	}
	return fmt.Sprintf("%X", h.Sum(nil))
}
