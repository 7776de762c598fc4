// Package packager writes a documentation bundle to disk and zips it.
package packager

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Drago-03/Documentation.AI/internal/model"
)

const (
	ManifestName  = "package-info.json"
	Generator     = "Documentation.AI v2.0.0"
	defaultName   = "documentation-package"
	archiveSuffix = "-documentation.zip"
)

type Manifest struct {
	PackageName    string               `json:"package_name"`
	GeneratedAt    string               `json:"generated_at"`
	Generator      string               `json:"generator"`
	RepositoryInfo model.RepositoryInfo `json:"repository_info"`
	FilesIncluded  []string             `json:"files_included"`
}

// Package is a built bundle. Dir holds both the file tree and the archive at Path.
type Package struct {
	Dir   string
	Path  string
	Name  string
	Files []string
}

func (p *Package) ArchiveName() string {
	return p.Name + archiveSuffix
}

// Cleanup removes the working directory, archive included.
func (p *Package) Cleanup() error {
	if p == nil || p.Dir == "" {
		return nil
	}
	return os.RemoveAll(p.Dir)
}

type Option func(*Packager)

func WithClock(now func() time.Time) Option {
	return func(p *Packager) {
		p.now = now
	}
}

type Packager struct {
	workDir string
	now     func() time.Time
}

func New(workDir string, opts ...Option) *Packager {
	p := &Packager{workDir: workDir, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PackageName derives the top-level directory name from the repository name.
func PackageName(info model.RepositoryInfo) string {
	name := strings.TrimSpace(info.Name)
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	if name == "" || name == "." || name == ".." {
		return defaultName
	}
	return name
}

// Build writes every artifact under a fresh temporary directory, adds the
// manifest and zips the tree. On error the directory is left for inspection.
func (p *Packager) Build(ctx context.Context, docs *model.Documentation, info model.RepositoryInfo) (*Package, error) {
	if docs == nil {
		return nil, fmt.Errorf("documentation is required")
	}
	if err := os.MkdirAll(p.workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir %s: %w", p.workDir, err)
	}
	dir, err := os.MkdirTemp(p.workDir, "docai-package-")
	if err != nil {
		return nil, fmt.Errorf("create package dir: %w", err)
	}
	name := PackageName(info)
	root := filepath.Join(dir, name)
	pkg := &Package{Dir: dir, Name: name}

	files := make([]string, 0, docs.FileCount())
	for _, a := range docs.Artifacts() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel, err := relativePath(a.Path)
		if err != nil {
			return nil, err
		}
		if err := writeFile(filepath.Join(root, filepath.FromSlash(rel)), []byte(a.Content)); err != nil {
			return nil, err
		}
		files = append(files, rel)
	}
	sort.Strings(files)
	pkg.Files = files

	manifest := Manifest{
		PackageName:    name,
		GeneratedAt:    p.now().UTC().Format(time.RFC3339Nano),
		Generator:      Generator,
		RepositoryInfo: info,
		FilesIncluded:  files,
	}
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := writeFile(filepath.Join(root, ManifestName), raw); err != nil {
		return nil, err
	}

	pkg.Path = filepath.Join(dir, pkg.ArchiveName())
	if err := zipTree(pkg.Path, dir, name, p.now()); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("documentation package built",
		zap.String("package", name),
		zap.Int("files", len(files)),
		zap.String("path", pkg.Path),
	)
	return pkg, nil
}

func relativePath(p string) (string, error) {
	cleaned := path.Clean("/" + p)
	if cleaned == "/" || cleaned != "/"+p {
		return "", fmt.Errorf("invalid artifact path %q", p)
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}

func writeFile(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", p, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// zipTree archives base/name recursively with entries prefixed by name.
func zipTree(dst, base, name string, modified time.Time) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", dst, err)
	}
	defer out.Close()
	writer := zip.NewWriter(out)
	err = filepath.WalkDir(filepath.Join(base, name), func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		w, err := writer.CreateHeader(&zip.FileHeader{
			Name:     filepath.ToSlash(rel),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		writer.Close()
		return fmt.Errorf("zip %s: %w", dst, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize archive %s: %w", dst, err)
	}
	return nil
}
