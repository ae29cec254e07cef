package ocfl

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"path"
	"sort"
	"time"

	ocflfs "github.com/ocflkit/ocfl/fs"
)

// inventoryBase is the file name used for the inventory document in an
// object root and in every version directory.
const inventoryBase = "inventory.json"

// defaultContentDirectory is used when a builder isn't given an explicit
// content directory name.
const defaultContentDirectory = "content"

// ContentSource resolves a digest to the filesystem and path holding its
// bytes, so the commit pipeline can copy staged content into an object's
// version directory without caring where the bytes originated (local
// upload, another object's manifest, a reinstated version, ...).
type ContentSource interface {
	GetContent(digest string) (fsys ocflfs.FS, path string)
}

// Version is one entry in an inventory's versions map: the logical state of
// an object at a particular version number.
type Version struct {
	Created time.Time `json:"created"`
	Message string    `json:"message,omitempty"`
	User    *User     `json:"user,omitempty"`
	State   DigestMap `json:"state"`
}

// Inventory is the in-memory representation of an OCFL object inventory.
// Values are built incrementally with [NewInventoryBuilder] and finalized
// with [InventoryBuilder.Build], which checks the invariants in the data
// model before producing an Inventory.
type Inventory struct {
	ID               string
	Type             InventoryType
	DigestAlgorithm  string
	Head             VNum
	ContentDirectory string
	Manifest         DigestMap
	Fixity           map[string]DigestMap
	Versions         map[VNum]*Version
}

// rawInventory mirrors the on-disk JSON shape (spec.md §6): map keys are the
// "v1", "v2", ... strings rather than Go's VNum type, and field order/casing
// matches the inventory JSON schema exactly.
type rawInventory struct {
	ID               string                       `json:"id"`
	Type             InventoryType                `json:"type"`
	DigestAlgorithm  string                       `json:"digestAlgorithm"`
	Head             VNum                         `json:"head"`
	ContentDirectory string                       `json:"contentDirectory,omitempty"`
	Fixity           map[string]DigestMap         `json:"fixity,omitempty"`
	Manifest         DigestMap                    `json:"manifest"`
	Versions         map[string]*rawInventoryVers `json:"versions"`
}

type rawInventoryVers struct {
	Created time.Time `json:"created"`
	Message string    `json:"message,omitempty"`
	User    *User     `json:"user,omitempty"`
	State   DigestMap `json:"state"`
}

func (inv *Inventory) toRaw() *rawInventory {
	raw := &rawInventory{
		ID:               inv.ID,
		Type:             inv.Type,
		DigestAlgorithm:  inv.DigestAlgorithm,
		Head:             inv.Head,
		ContentDirectory: inv.ContentDirectory,
		Fixity:           inv.Fixity,
		Manifest:         inv.Manifest,
		Versions:         make(map[string]*rawInventoryVers, len(inv.Versions)),
	}
	for v, ver := range inv.Versions {
		raw.Versions[v.String()] = &rawInventoryVers{
			Created: ver.Created,
			Message: ver.Message,
			User:    ver.User,
			State:   ver.State,
		}
	}
	return raw
}

func inventoryFromRaw(raw *rawInventory) (*Inventory, error) {
	inv := &Inventory{
		ID:               raw.ID,
		Type:             raw.Type,
		DigestAlgorithm:  raw.DigestAlgorithm,
		Head:             raw.Head,
		ContentDirectory: raw.ContentDirectory,
		Fixity:           raw.Fixity,
		Manifest:         raw.Manifest,
		Versions:         make(map[VNum]*Version, len(raw.Versions)),
	}
	for vStr, ver := range raw.Versions {
		var v VNum
		if err := ParseVNum(vStr, &v); err != nil {
			return nil, &InvalidInventoryErr{Msg: "invalid version number key " + vStr, Err: err}
		}
		inv.Versions[v] = &Version{
			Created: ver.Created,
			Message: ver.Message,
			User:    ver.User,
			State:   ver.State,
		}
	}
	return inv, nil
}

// MarshalJSON renders the inventory in the on-disk OCFL shape, with version
// numbers as "v1"/"v2"/... string keys.
func (inv Inventory) MarshalJSON() ([]byte, error) {
	return json.Marshal(inv.toRaw())
}

// UnmarshalJSON parses an inventory document from its on-disk OCFL shape.
func (inv *Inventory) UnmarshalJSON(b []byte) error {
	var raw rawInventory
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := inventoryFromRaw(&raw)
	if err != nil {
		return err
	}
	*inv = *parsed
	return nil
}

// marshal renders inv as canonical JSON bytes (two-space indent, matching
// the teacher's serializer convention) and returns those bytes along with
// their digest under inv's own digest algorithm.
func (inv *Inventory) marshal() (raw []byte, digest string, err error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(inv); err != nil {
		return nil, "", &InvalidInventoryErr{Msg: "encoding inventory", Err: err}
	}
	raw = buf.Bytes()
	h, err := newInventoryDigester(inv.DigestAlgorithm)
	if err != nil {
		return nil, "", err
	}
	if _, err := h.Write(raw); err != nil {
		return nil, "", err
	}
	return raw, hex.EncodeToString(h.Sum(nil)), nil
}

// newInventoryDigester returns the hash.Hash for one of the two digest
// algorithms spec.md §3 allows for the inventory digest itself.
func newInventoryDigester(alg string) (hash.Hash, error) {
	switch alg {
	case "sha512", "":
		return sha512.New(), nil
	case "sha256":
		return sha256.New(), nil
	default:
		return nil, &InvalidInventoryErr{Msg: fmt.Sprintf("unsupported inventory digest algorithm %q", alg)}
	}
}

// versionContent returns the PathMap of content-path → digest for the files
// new in version v: paths under v's content directory that are not already
// present (under the same digest) in an earlier version. For a first
// version, this is the full manifest restricted to paths under v.
func (inv *Inventory) versionContent(v VNum) PathMap {
	prefix := v.String() + "/" + inv.contentDirectory() + "/"
	out := PathMap{}
	for dig, paths := range inv.Manifest {
		for _, p := range paths {
			if len(p) > len(prefix) && p[:len(prefix)] == prefix {
				out[p] = dig
			}
		}
	}
	return out
}

func (inv *Inventory) contentDirectory() string {
	if inv.ContentDirectory == "" {
		return defaultContentDirectory
	}
	return inv.ContentDirectory
}

// HeadState returns the logical state (digest → logical paths) of the head
// version, or an empty DigestMap if inv has no versions.
func (inv *Inventory) HeadState() DigestMap {
	if ver := inv.Versions[inv.Head]; ver != nil {
		return ver.State
	}
	return DigestMap{}
}

// StoredInventory pairs a parsed Inventory with the exact bytes and digest
// it was read from (or written as), so the commit pipeline can compare
// against a prior version byte-for-byte (invariant 8) without re-marshaling
// and risking nondeterministic JSON key ordering.
type StoredInventory struct {
	Inventory
	bytes  []byte
	digest string
}

// newStoredInventory parses raw inventory JSON bytes, computes their digest
// under the parsed inventory's own algorithm, and returns the combined
// value.
func newStoredInventory(raw []byte) (*StoredInventory, error) {
	var inv Inventory
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, &InvalidInventoryErr{Msg: "parsing inventory.json", Err: err}
	}
	h, err := newInventoryDigester(inv.DigestAlgorithm)
	if err != nil {
		return nil, err
	}
	if _, err := h.Write(raw); err != nil {
		return nil, err
	}
	return &StoredInventory{
		Inventory: inv,
		bytes:     raw,
		digest:    hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Digest returns the digest of the stored inventory's raw bytes, under the
// inventory's own digest algorithm.
func (si *StoredInventory) Digest() string { return si.digest }

// Bytes returns the exact bytes the inventory was parsed from.
func (si *StoredInventory) Bytes() []byte { return si.bytes }

// readStoredInventory reads and parses an object's (or version directory's)
// inventory.json from dir.
func readStoredInventory(ctx context.Context, fsys ocflfs.FS, dir string) (*StoredInventory, error) {
	f, err := fsys.OpenFile(ctx, path.Join(dir, inventoryBase))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, &StorageErr{Op: "read inventory.json", Err: err}
	}
	return newStoredInventory(raw)
}

// writeInventorySidecar writes "inventory.json.<alg>", containing "<digest>
// inventory.json\n", into dir.
func writeInventorySidecar(ctx context.Context, fsys ocflfs.FS, dir string, digest string, alg string) error {
	name := path.Join(dir, inventoryBase+"."+alg)
	content := digest + " " + inventoryBase + "\n"
	_, err := ocflfs.Write(ctx, fsys, name, bytes.NewReader([]byte(content)))
	return err
}

// InventoryBuilder incrementally constructs an Inventory. It may start
// blank (a brand new object) or from an existing inventory (an update); see
// spec.md §4.2.
type InventoryBuilder struct {
	inv *Inventory
}

// NewInventoryBuilder returns a builder seeded from prev, or a blank builder
// if prev is nil.
func NewInventoryBuilder(prev *Inventory) *InventoryBuilder {
	if prev == nil {
		return &InventoryBuilder{inv: &Inventory{
			Manifest: DigestMap{},
			Fixity:   map[string]DigestMap{},
			Versions: map[VNum]*Version{},
		}}
	}
	next := &Inventory{
		ID:               prev.ID,
		Type:             prev.Type,
		DigestAlgorithm:  prev.DigestAlgorithm,
		Head:             prev.Head,
		ContentDirectory: prev.ContentDirectory,
		Manifest:         prev.Manifest.Clone(),
		Fixity:           make(map[string]DigestMap, len(prev.Fixity)),
		Versions:         make(map[VNum]*Version, len(prev.Versions)),
	}
	for alg, m := range prev.Fixity {
		next.Fixity[alg] = m.Clone()
	}
	for v, ver := range prev.Versions {
		state := ver.State.Clone()
		next.Versions[v] = &Version{Created: ver.Created, Message: ver.Message, User: ver.User, State: state}
	}
	return &InventoryBuilder{inv: next}
}

// ID sets the object identifier. It is a no-op once already set by a
// previous inventory.
func (b *InventoryBuilder) ID(id string) *InventoryBuilder {
	if b.inv.ID == "" {
		b.inv.ID = id
	}
	return b
}

// Spec sets the inventory type (OCFL spec version).
func (b *InventoryBuilder) Spec(s Spec) *InventoryBuilder {
	b.inv.Type = InventoryType{Spec: s}
	return b
}

// DigestAlgorithm sets the primary digest algorithm. It is a no-op once
// already set by a previous inventory.
func (b *InventoryBuilder) DigestAlgorithm(alg string) *InventoryBuilder {
	if b.inv.DigestAlgorithm == "" {
		b.inv.DigestAlgorithm = alg
	}
	return b
}

// ContentDirectory sets the per-version content directory name. It is a
// no-op once already set by a previous inventory (invariant 7).
func (b *InventoryBuilder) ContentDirectory(name string) *InventoryBuilder {
	if b.inv.ContentDirectory == "" {
		b.inv.ContentDirectory = name
	}
	return b
}

// AddFileToManifest adds contentPath as a witness for digest. Idempotent:
// adding the same path twice under the same digest has no further effect.
func (b *InventoryBuilder) AddFileToManifest(digest, contentPath string) *InventoryBuilder {
	for _, p := range b.inv.Manifest[digest] {
		if p == contentPath {
			return b
		}
	}
	b.inv.Manifest[digest] = append(b.inv.Manifest[digest], contentPath)
	return b
}

// RemoveFileFromManifest drops contentPath from the manifest. If it was the
// last path for its digest, the digest entry is removed entirely.
func (b *InventoryBuilder) RemoveFileFromManifest(contentPath string) *InventoryBuilder {
	for dig, paths := range b.inv.Manifest {
		for i, p := range paths {
			if p != contentPath {
				continue
			}
			rest := append(paths[:i], paths[i+1:]...)
			if len(rest) == 0 {
				delete(b.inv.Manifest, dig)
			} else {
				b.inv.Manifest[dig] = rest
			}
			return b
		}
	}
	return b
}

// AddFixity appends a fixity witness for contentPath (which must already be
// manifested) under algorithm alg.
func (b *InventoryBuilder) AddFixity(contentPath, alg, digest string) *InventoryBuilder {
	m, ok := b.inv.Fixity[alg]
	if !ok {
		m = DigestMap{}
		b.inv.Fixity[alg] = m
	}
	for _, p := range m[digest] {
		if p == contentPath {
			return b
		}
	}
	m[digest] = append(m[digest], contentPath)
	return b
}

// AddHeadVersion appends ver as the next version, incrementing head. The
// zero-value Head.Next() is v1, so this also handles a brand-new object.
func (b *InventoryBuilder) AddHeadVersion(ver *Version) *InventoryBuilder {
	next, err := b.inv.Head.Next()
	if err != nil {
		// padding overflow on an otherwise-valid builder: leave head as-is,
		// Build will reject the result.
		return b
	}
	b.inv.Head = next
	b.inv.Versions[next] = ver
	return b
}

// MutateHeadVersion replaces the pending head version with the result of
// fn, used while the updater flushes accumulated state changes.
func (b *InventoryBuilder) MutateHeadVersion(fn func(*Version) *Version) *InventoryBuilder {
	cur := b.inv.Versions[b.inv.Head]
	if cur == nil {
		cur = &Version{State: DigestMap{}}
	}
	b.inv.Versions[b.inv.Head] = fn(cur)
	return b
}

// Build validates the invariants in the data model and returns the
// resulting immutable Inventory, or an *InvalidInventoryErr.
func (b *InventoryBuilder) Build() (*Inventory, error) {
	inv := b.inv
	if inv.ID == "" {
		return nil, &InvalidInventoryErr{Msg: "missing object id"}
	}
	if inv.DigestAlgorithm != "sha512" && inv.DigestAlgorithm != "sha256" {
		return nil, &InvalidInventoryErr{Msg: fmt.Sprintf("invalid digest algorithm %q", inv.DigestAlgorithm)}
	}
	if inv.ContentDirectory == "" {
		inv.ContentDirectory = defaultContentDirectory
	}
	if err := inv.Manifest.Valid(); err != nil {
		return nil, &InvalidInventoryErr{Msg: "manifest", Err: err}
	}
	vnums := make(VNums, 0, len(inv.Versions))
	for v := range inv.Versions {
		vnums = append(vnums, v)
	}
	sort.Sort(vnums)
	if err := vnums.Valid(); err != nil {
		return nil, &InvalidInventoryErr{Msg: "versions", Err: err}
	}
	if len(vnums) == 0 || vnums[len(vnums)-1] != inv.Head {
		return nil, &InvalidInventoryErr{Msg: "head does not match the greatest version number"}
	}
	for v, ver := range inv.Versions {
		for dig := range ver.State {
			if _, ok := inv.Manifest[dig]; !ok {
				return nil, &InvalidInventoryErr{Msg: fmt.Sprintf("version %s state references unmanifested digest %s", v, dig)}
			}
		}
		if ver.User != nil && ver.User.Name == "" {
			return nil, &InvalidInventoryErr{Msg: fmt.Sprintf("version %s user has a blank name", v)}
		}
	}
	return inv, nil
}
