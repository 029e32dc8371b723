package load

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/syssam/cardgraph"
	"github.com/syssam/cardgraph/schema"
)

// Extensions lists the file extensions read by Dir.
var Extensions = []string{".json", ".jsonc", ".yaml", ".yml"}

// Dir reads type cards from the card documents under a directory tree.
//
// A document holds one card, or an array of cards. YAML files may hold
// several documents. Every unreadable document is reported. Cards that are not type cards, inactive cards and
// cards failing validation are skipped. Cards keep the lexical order of
// their files, then document order.
type Dir struct {
	Path string
	// Logger receives skipped cards. Defaults to slog.Default().
	Logger *slog.Logger
	// Workers limits concurrent file decoding. Defaults to GOMAXPROCS.
	Workers int
}

// Cards implements Source.
func (d *Dir) Cards(ctx context.Context) ([]*Card, error) {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	files, err := Files(d.Path)
	if err != nil {
		return nil, err
	}
	docs := make([][]*schema.Fragment, len(files))
	errs := make([]error, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.workers())
	for i, path := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs[i], errs[i] = ReadFile(path)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := cardgraph.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	var cards []*Card
	for i, path := range files {
		for _, f := range docs[i] {
			switch {
			case !f.IsTypeCard():
				log.Debug("skipping card that is not a type card", "path", path, "slug", f.Slug(), "type", f.CardType())
				continue
			case !f.Active():
				log.Debug("skipping inactive type card", "path", path, "slug", f.Slug(), "version", f.Version())
				continue
			}
			c, err := NewCard(f, path)
			if err != nil {
				log.Warn("skipping invalid type card", "path", path, "error", err)
				continue
			}
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func (d *Dir) workers() int {
	if d.Workers > 0 {
		return d.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Files returns the card documents under root in lexical order.
func Files(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, e fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case e.IsDir():
			if path != root && strings.HasPrefix(e.Name(), ".") {
				return filepath.SkipDir
			}
		case slices.Contains(Extensions, strings.ToLower(filepath.Ext(path))):
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{Path: root, Err: err}
	}
	return files, nil
}

// ReadFile decodes the cards of a single document.
func ReadFile(path string) ([]*schema.Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	docs, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return docs, nil
}

// Decode decodes the cards of a document with the given file extension.
func Decode(ext string, data []byte) ([]*schema.Fragment, error) {
	var docs []*schema.Fragment
	switch strings.ToLower(ext) {
	case ".json":
		f, err := schema.Parse(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, f)
	case ".jsonc":
		f, err := schema.Parse(jsonc.ToJSON(data))
		if err != nil {
			return nil, err
		}
		docs = append(docs, f)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		for {
			var node yaml.Node
			err := dec.Decode(&node)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, err
			}
			f, err := schema.FromYAML(&node)
			if err != nil {
				return nil, err
			}
			docs = append(docs, f)
		}
	default:
		return nil, errors.New("unsupported card document extension " + ext)
	}
	var cards []*schema.Fragment
	for _, f := range docs {
		if f.IsArray() {
			cards = append(cards, f.Items()...)
			continue
		}
		cards = append(cards, f)
	}
	return cards, nil
}
