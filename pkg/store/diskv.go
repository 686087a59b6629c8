package store

import (
	"context"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/coledit/pkg/collection"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: record not found")

// Record is one stored map value. Value holds the JSON encoding of the item
// and Type names its concrete type.
type Record struct {
	Key   string          `json:"-"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Persistence stores records in named collections. Each collection keeps its
// key order in an index alongside the records.
type Persistence interface {
	BasePath() string
	Collections(ctx context.Context) ([]string, error)
	Keys(ctx context.Context, collection string) ([]string, error)
	Get(collection, key string) (Record, error)
	Put(collection string, rec Record) error
	Delete(collection, key string) error
	SetOrder(collection string, keys []string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		// Other processes edit the same files and Watch reports it, so
		// reads must not be served from a stale cache.
		CacheSizeMax: 0,
	}), basePath: basePath, own: newOwnWrites()}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	own      *ownWrites
}

const orderFile = "_order"

var encoding = base32.HexEncoding.WithPadding(base32.NoPadding)

func (p *persistence) BasePath() string {
	return p.basePath
}

func (p *persistence) Collections(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for key := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(key)
		if len(pk.Path) == 0 {
			continue
		}
		name, err := decode(pk.Path[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: %s: %v\n", key, err)
			continue
		}
		seen[name] = struct{}{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Keys lists the keys of a collection in index order. Records missing from
// the index follow in sorted order; index entries without a record are
// dropped.
func (p *persistence) Keys(ctx context.Context, coll string) ([]string, error) {
	if err := checkName(coll); err != nil {
		return nil, err
	}
	prefix := encode(coll) + "-"
	present := make(map[string]struct{})
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		pk := keyToPathTransform(key)
		if pk.FileName == orderFile {
			continue
		}
		name, err := decode(pk.FileName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: %s: %v\n", key, err)
			continue
		}
		present[name] = struct{}{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order, err := p.order(coll)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(present))
	for _, k := range order {
		if _, ok := present[k]; ok {
			keys = append(keys, k)
			delete(present, k)
		}
	}
	rest := make([]string, 0, len(present))
	for k := range present {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(keys, rest...), nil
}

func (p *persistence) Get(coll, key string) (Record, error) {
	if err := checkName(coll); err != nil {
		return Record{}, err
	}
	data, err := p.d.Read(recordKey(coll, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, fmt.Errorf("%w: %s/%s", ErrNotFound, coll, key)
		}
		return Record{}, fmt.Errorf("store: read %s/%s: %w", coll, key, err)
	}
	rec := Record{}
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("store: decode %s/%s: %w", coll, key, err)
	}
	rec.Key = key
	return rec, nil
}

func (p *persistence) Put(coll string, rec Record) error {
	if err := checkName(coll); err != nil {
		return err
	}
	if rec.Key == "" {
		return errors.New("store: record key required")
	}
	if len(rec.Value) == 0 {
		rec.Value = json.RawMessage("null")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", coll, rec.Key, err)
	}
	existed := p.d.Has(recordKey(coll, rec.Key))
	if err := p.write(recordKey(coll, rec.Key), data); err != nil {
		return fmt.Errorf("store: write %s/%s: %w", coll, rec.Key, err)
	}
	if existed {
		return nil
	}
	order, err := p.order(coll)
	if err != nil {
		return err
	}
	return p.SetOrder(coll, append(order, rec.Key))
}

func (p *persistence) Delete(coll, key string) error {
	if err := checkName(coll); err != nil {
		return err
	}
	if err := p.erase(recordKey(coll, key)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, coll, key)
		}
		return fmt.Errorf("store: erase %s/%s: %w", coll, key, err)
	}
	order, err := p.order(coll)
	if err != nil {
		return err
	}
	kept := order[:0]
	for _, k := range order {
		if k != key {
			kept = append(kept, k)
		}
	}
	return p.SetOrder(coll, kept)
}

func (p *persistence) SetOrder(coll string, keys []string) error {
	if err := checkName(coll); err != nil {
		return err
	}
	data, err := collection.MarshalOrder(keys)
	if err != nil {
		return fmt.Errorf("store: encode order %s: %w", coll, err)
	}
	if err := p.write(orderKey(coll), data); err != nil {
		return fmt.Errorf("store: write order %s: %w", coll, err)
	}
	return nil
}

func (p *persistence) order(coll string) ([]string, error) {
	data, err := p.d.Read(orderKey(coll))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("store: read order %s: %w", coll, err)
	}
	keys, err := collection.UnmarshalOrder(data)
	if err != nil {
		return nil, fmt.Errorf("store: decode order %s: %w", coll, err)
	}
	return keys, nil
}

// write and erase go through ownWrites so Watch does not report them.
func (p *persistence) write(key string, data []byte) error {
	done := p.own.begin(p.pathOf(key))
	defer done()
	return p.d.Write(key, data)
}

func (p *persistence) erase(key string) error {
	done := p.own.begin(p.pathOf(key))
	defer done()
	return p.d.Erase(key)
}

// pathOf is the file diskv keeps key in.
func (p *persistence) pathOf(key string) string {
	pk := keyToPathTransform(key)
	parts := append([]string{p.basePath}, pk.Path...)
	return filepath.Join(append(parts, pk.FileName)...)
}

func checkName(coll string) error {
	if strings.TrimSpace(coll) == "" {
		return errors.New("store: collection name required")
	}
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// recordKey makes `collection-key`, both encoded so neither contains '-'.
func recordKey(coll, key string) string {
	return fmt.Sprintf("%s-%s", encode(coll), encode(key))
}

func orderKey(coll string) string {
	return fmt.Sprintf("%s-%s", encode(coll), orderFile)
}

func encode(s string) string {
	if s == "" {
		return "_"
	}
	return encoding.EncodeToString([]byte(s))
}

func decode(s string) (string, error) {
	if s == "_" {
		return "", nil
	}
	b, err := encoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
