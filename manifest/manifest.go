/*
Package manifest implements the placement manifest written alongside each
sprite pane.

The manifest is a JSON object keyed by image base name. Each value records
where the image was placed within the pane along with its size and pixel
ratio:

	{
	    "airport": {
	        "height": 32,
	        "pixelRatio": 1,
	        "width": 32,
	        "x": 0,
	        "y": 0
	    }
	}

Keys at every level are sorted and the document is indented with four
spaces so that regenerating a pane from the same inputs produces an
identical file.
*/
package manifest

import (
	"bytes"
	"encoding/json"
	"image"
	"io"
	"sort"

	"github.com/pkg/errors"
)

const indent = "    "

// Record describes the placement of a single image within a sprite pane.
// Fields are declared in lexicographic order of their JSON names.
type Record struct {
	Height     int `json:"height"`
	PixelRatio int `json:"pixelRatio"`
	Width      int `json:"width"`
	X          int `json:"x"`
	Y          int `json:"y"`
}

// Rect returns the rectangle covered by the record.
func (r Record) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Manifest is the placement manifest. It implements the json.Marshaler and
// json.Unmarshaler interfaces.
type Manifest struct {
	records map[string]Record
}

// New returns an empty manifest
func New() *Manifest {
	return &Manifest{
		records: make(map[string]Record),
	}
}

// Len returns the number of records in the manifest
func (m *Manifest) Len() int {
	return len(m.records)
}

// Set stores the record for the given name. Names must be unique.
func (m *Manifest) Set(name string, r Record) error {
	if name == "" {
		return errors.New("manifest: empty name")
	}
	if _, ok := m.records[name]; ok {
		return errors.Errorf("manifest: duplicate name %q", name)
	}
	m.records[name] = r
	return nil
}

// Get returns the record for the given name
func (m *Manifest) Get(name string) (Record, bool) {
	r, ok := m.records[name]
	return r, ok
}

// Names returns the names in the manifest in sorted order
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.records))
	for k := range m.records {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every record lies within bounds and that no two
// records overlap.
func (m *Manifest) Validate(bounds image.Rectangle) error {
	names := m.Names()
	for i, n := range names {
		r := m.records[n].Rect()
		if r.Empty() {
			return errors.Errorf("manifest: %q has empty rectangle %v", n, r)
		}
		if !r.In(bounds) {
			return errors.Errorf("manifest: %q at %v lies outside %v", n, r, bounds)
		}
		for _, o := range names[i+1:] {
			if r.Overlaps(m.records[o].Rect()) {
				return errors.Errorf("manifest: %q overlaps %q", n, o)
			}
		}
	}
	return nil
}

// MarshalJSON encodes the manifest in compact form. Map keys are emitted in
// sorted order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.records)
}

// UnmarshalJSON decodes the manifest, replacing any existing records
func (m *Manifest) UnmarshalJSON(b []byte) error {
	records := make(map[string]Record)
	if err := json.Unmarshal(b, &records); err != nil {
		return err
	}
	m.records = records
	return nil
}

// Encode writes the indented manifest to w. No trailing newline is written.
func (m *Manifest) Encode(w io.Writer) error {
	b := new(bytes.Buffer)
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(m.records); err != nil {
		return errors.Wrap(err, "manifest: encode")
	}
	_, err := w.Write(bytes.TrimSuffix(b.Bytes(), []byte{'\n'}))
	return err
}

// Decode reads a manifest from r
func Decode(r io.Reader) (*Manifest, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m := New()
	if err := m.UnmarshalJSON(b); err != nil {
		return nil, errors.Wrap(err, "manifest: decode")
	}
	return m, nil
}
