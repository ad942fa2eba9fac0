package gallery

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

// Format is a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Entry is one manifest item. Height may be zero until probed.
type Entry struct {
	ID     string  `json:"id" toml:"id"`
	Img    string  `json:"img" toml:"img"`
	Height float64 `json:"height,omitempty" toml:"height"`
	URL    string  `json:"url,omitempty" toml:"url"`
	Title  string  `json:"title,omitempty" toml:"title"`
}

// Manifest is a parsed gallery file.
type Manifest struct {
	Title   string  `json:"title,omitempty" toml:"title"`
	Entries []Entry `json:"items" toml:"item"`

	// Dir is the directory relative image paths resolve against.
	Dir string `json:"-" toml:"-"`
}

// FormatFor guesses the format from a file name. Unknown extensions are
// treated as TOML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest %s", path)
	}
	m, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, err
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes a manifest and validates its entries.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode json manifest")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode toml manifest")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown manifest key %q", undecoded[0].String())
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported manifest format %q", format)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		if err := errors.ValidateItemID(e.ID); err != nil {
			return err
		}
		if seen[e.ID] {
			return errors.New(errors.ErrCodeInvalidItem, "duplicate item id %q", e.ID)
		}
		seen[e.ID] = true

		if e.Img == "" {
			return errors.New(errors.ErrCodeInvalidItem, "item %q has no image", e.ID)
		}
		if !errors.IsRemote(e.Img) {
			if err := errors.ValidatePath(e.Img); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidItem, err, "item %q image", e.ID)
			}
		}
		if e.Height != 0 {
			if err := errors.ValidateHeight(e.ID, e.Height); err != nil {
				return err
			}
		}
		if e.URL != "" {
			if err := errors.ValidateURL(e.URL); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidItem, err, "item %q link", e.ID)
			}
		}
	}
	return nil
}

// Unresolved returns the ids of entries whose height is still unknown.
func (m *Manifest) Unresolved() []string {
	var ids []string
	for _, e := range m.Entries {
		if e.Height == 0 {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Items converts the entries to layout items. It fails if any height is
// still unknown.
func (m *Manifest) Items() ([]masonry.Item, error) {
	if ids := m.Unresolved(); len(ids) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidItem, "%d item(s) without height: %s", len(ids), strings.Join(ids, ", "))
	}
	items := make([]masonry.Item, len(m.Entries))
	for i, e := range m.Entries {
		items[i] = masonry.Item{ID: e.ID, Img: e.Img, Height: e.Height, URL: e.URL}
	}
	return items, nil
}
