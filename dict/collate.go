package dict

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collated returns a string-key comparator applying the collation rules of
// the given language tag, for maps whose keys are user-visible text (asset
// names, entity labels) rather than identifiers:
//
//	m := dict.NewFunc[string, int](dict.Collated(language.English))
//
// Plain byte-wise ordering (the New default via cmp.Compare) is the right
// choice for identifier keys; collation costs more per comparison.
func Collated(tag language.Tag, opts ...collate.Option) func(a, b string) int {
	c := collate.New(tag, opts...)
	return c.CompareString
}
