package generator

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"golang.org/x/text/language"

	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/models"
	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
)

//go:embed phrasebooks/*.yaml
var phrasebookFS embed.FS

// Catalog holds the compiled phrasebooks keyed by base language.
type Catalog struct {
	books map[language.Base]*phrasebook
	tags  []language.Tag
}

// Template is a resolved jurisdiction/language/will-type selection. Obtain one
// from Catalog.Template; the zero value is not usable.
type Template struct {
	Jurisdiction id.JurisdictionCode
	Language     language.Tag
	WillType     models.WillType
	book         *phrasebook
}

// LoadCatalog compiles the embedded phrasebooks.
func LoadCatalog() (*Catalog, error) {
	paths, err := fs.Glob(phrasebookFS, "phrasebooks/*.yaml")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "list phrasebooks")
	}
	sort.Strings(paths)
	sources := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := phrasebookFS.ReadFile(p)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("read phrasebook %s", p))
		}
		sources = append(sources, data)
	}
	return NewCatalog(sources...)
}

// NewCatalog compiles the given phrasebook documents. Two documents for the
// same base language are rejected.
func NewCatalog(sources ...[]byte) (*Catalog, error) {
	if len(sources) == 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "no phrasebooks supplied")
	}
	c := &Catalog{books: make(map[language.Base]*phrasebook, len(sources))}
	for _, src := range sources {
		book, err := parsePhrasebook(src)
		if err != nil {
			return nil, err
		}
		base, _ := book.tag.Base()
		if _, dup := c.books[base]; dup {
			return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("duplicate phrasebook for %s", base))
		}
		c.books[base] = book
		c.tags = append(c.tags, book.tag)
	}
	sort.Slice(c.tags, func(i, j int) bool { return c.tags[i].String() < c.tags[j].String() })
	return c, nil
}

// Languages returns the languages that have a phrasebook, sorted by tag.
func (c *Catalog) Languages() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Template resolves the phrasebook for a jurisdiction, language and will type.
// The language and will type must already be supported by cfg and every
// mandatory clause of cfg must have wording in the chosen language.
func (c *Catalog) Template(cfg jurisdiction.Config, lang language.Tag, wt models.WillType) (Template, error) {
	if !cfg.SupportsWillType(wt) {
		return Template{}, dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("will type %q is not available in %s", wt, cfg.Code))
	}
	base, _ := lang.Base()
	offered := false
	for _, t := range cfg.Languages {
		if b, _ := t.Base(); b == base {
			offered = true
			break
		}
	}
	if !offered {
		return Template{}, dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("language %s is not offered in %s", lang, cfg.Code))
	}
	book, ok := c.books[base]
	if !ok {
		return Template{}, dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("no phrasebook for language %s", lang))
	}
	for _, clause := range cfg.MandatoryClauses {
		if !book.has(groupClauses, string(clause)) {
			return Template{}, dErrors.New(dErrors.CodeConfiguration,
				fmt.Sprintf("phrasebook %s has no wording for mandatory clause %q of %s", book.tag, clause, cfg.Code))
		}
	}
	return Template{Jurisdiction: cfg.Code, Language: lang, WillType: wt, book: book}, nil
}

// Disclaimer returns the legal disclaimer for lang, if a phrasebook exists.
func (c *Catalog) Disclaimer(lang language.Tag) (string, bool) {
	base, _ := lang.Base()
	book, ok := c.books[base]
	if !ok {
		return "", false
	}
	return book.disclaimer, true
}
