package content

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smallwonder/storefront-api/pkg/config"
	pkgerrors "github.com/smallwonder/storefront-api/pkg/errors"
)

// FrontMatter is the YAML block at the top of each blog markdown file.
type FrontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Author  string   `yaml:"author"`
	Excerpt string   `yaml:"excerpt"`
	Tags    []string `yaml:"tags"`
	Cover   string   `yaml:"cover"`
}

type PostSummary struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Author  string   `json:"author,omitempty"`
	Excerpt string   `json:"excerpt,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Cover   string   `json:"cover,omitempty"`
}

type Post struct {
	PostSummary
	Body string `json:"body"`
}

type Service interface {
	List(ctx context.Context) ([]PostSummary, error)
	Get(ctx context.Context, slug string) (*Post, error)
}

// service reads markdown files from a local directory on every request.
// The post set is small and ships with the deploy, so no caching layer.
type service struct {
	dir string
}

func NewService(cfg config.ContentConfig) (Service, error) {
	dir := strings.TrimSpace(cfg.BlogDir)
	if dir == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "blog directory is required")
	}
	return &service{dir: dir}, nil
}

func (s *service) List(_ context.Context) ([]PostSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []PostSummary{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read blog directory")
	}

	summaries := make([]PostSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		post, err := s.load(slug)
		if err != nil {
			continue // skip unreadable posts rather than failing the listing
		}
		summaries = append(summaries, post.PostSummary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date > summaries[j].Date
	})
	return summaries, nil
}

func (s *service) Get(_ context.Context, slug string) (*Post, error) {
	if !validSlug(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid post slug")
	}
	post, err := s.load(slug)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) load(slug string) (*Post, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, slug+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read blog post")
	}

	matter, body := splitFrontMatter(raw)
	var fm FrontMatter
	if len(matter) > 0 {
		if err := yaml.Unmarshal(matter, &fm); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse post front matter")
		}
	}
	if fm.Title == "" {
		fm.Title = slug
	}

	return &Post{
		PostSummary: PostSummary{
			Slug:    slug,
			Title:   fm.Title,
			Date:    fm.Date,
			Author:  fm.Author,
			Excerpt: fm.Excerpt,
			Tags:    fm.Tags,
			Cover:   fm.Cover,
		},
		Body: strings.TrimSpace(string(body)),
	}, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Files without one are all body.
func splitFrontMatter(raw []byte) (matter, body []byte) {
	const delim = "---"
	trimmed := bytes.TrimLeft(raw, "\r\n")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, raw
	}
	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, raw
	}
	matter = rest[:idx]
	body = rest[idx+len(delim)+1:]
	return matter, body
}

func validSlug(slug string) bool {
	if slug == "" {
		return false
	}
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
