// Package i18n resolves user-facing texts by key and locale.
//
// Catalogs are YAML files named after their locale (en.yaml, de.yaml). Nested
// keys are flattened with dots. Every catalog must define exactly the keys of
// the fallback catalog; Load fails otherwise.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Fallback is the locale used when a user's locale has no catalog.
const Fallback = "en"

//go:embed locales/*.yaml
var locales embed.FS

type Catalog struct {
	tags    []language.Tag
	texts   []map[string]string
	matcher language.Matcher
}

// Load reads the embedded catalogs.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(locales, "locales")
	if err != nil {
		return nil, err
	}
	return New(sub, Fallback)
}

// New reads every *.yaml file in fsys and validates the catalogs against the
// fallback locale.
func New(fsys fs.FS, fallback string) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}

	catalogs := make(map[string]map[string]string, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", name, err)
		}
		flat := make(map[string]string)
		if err := flatten("", tree, flat); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", name, err)
		}
		catalogs[strings.TrimSuffix(path.Base(name), ".yaml")] = flat
	}

	base, ok := catalogs[fallback]
	if !ok {
		return nil, fmt.Errorf("no catalog for fallback locale %q", fallback)
	}
	if err := validate(fallback, catalogs); err != nil {
		return nil, err
	}

	c := &Catalog{}
	// The matcher prefers the first tag when nothing matches.
	c.add(fallback, base)
	locs := make([]string, 0, len(catalogs))
	for loc := range catalogs {
		if loc != fallback {
			locs = append(locs, loc)
		}
	}
	sort.Strings(locs)
	for _, loc := range locs {
		c.add(loc, catalogs[loc])
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func (c *Catalog) add(locale string, texts map[string]string) {
	c.tags = append(c.tags, language.Make(locale))
	c.texts = append(c.texts, texts)
}

// T returns the text for key in the best matching locale. Unknown keys are
// returned as is so that a missing text is visible instead of blank.
func (c *Catalog) T(key, locale string) string {
	_, idx, _ := c.matcher.Match(language.Make(locale))
	if s, ok := c.texts[idx][key]; ok {
		return s
	}
	if s, ok := c.texts[0][key]; ok {
		return s
	}
	return key
}

// Tf formats the text for key with args.
func (c *Catalog) Tf(key, locale string, args ...any) string {
	return fmt.Sprintf(c.T(key, locale), args...)
}

// Locales lists the available locales, fallback first.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

func flatten(prefix string, tree map[string]any, out map[string]string) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = strings.TrimRight(val, "\n")
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %s: unsupported value of type %T", key, v)
		}
	}
	return nil
}

func validate(fallback string, catalogs map[string]map[string]string) error {
	base := catalogs[fallback]
	var problems []string
	for loc, texts := range catalogs {
		if loc == fallback {
			continue
		}
		for key := range base {
			if _, ok := texts[key]; !ok {
				problems = append(problems, fmt.Sprintf("%s: missing %s", loc, key))
			}
		}
		for key := range texts {
			if _, ok := base[key]; !ok {
				problems = append(problems, fmt.Sprintf("%s: unknown %s", loc, key))
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("incomplete catalogs: %s", strings.Join(problems, "; "))
	}
	return nil
}
