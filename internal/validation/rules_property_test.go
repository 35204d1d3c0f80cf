//go:build property

package validation

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/template"
	"github.com/conneroisu/trackforge/internal/testutils"
	"github.com/conneroisu/trackforge/internal/version"
)

// TestValidateProperties checks that validation is a pure function of the
// document, the version and the icon set.
func TestValidateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	versions := gen.OneConstOf("1.6.4", "1.12.2", "1.16.1", "25w14craftmine")
	someIcons := IconResolverFunc(func(p string) bool { return p != "misc/star.png" })

	properties.Property("validate is deterministic", prop.ForAll(
		func(doc *template.Document, v string) bool {
			gv := version.MustParseGame(v)
			first := Validate(doc, gv, someIcons)
			for i := 0; i < 3; i++ {
				again := Validate(doc, gv, someIcons)
				if (first == nil) != (again == nil) {
					return false
				}
				if first != nil && first.Error() != again.Error() {
					return false
				}
			}
			return true
		},
		testutils.GenDocument(),
		versions,
	))

	properties.Property("validate never mutates the document", prop.ForAll(
		func(doc *template.Document, v string) bool {
			before := doc.Clone()
			_ = Validate(doc, version.MustParseGame(v), someIcons)
			return reflect.DeepEqual(before, doc)
		},
		testutils.GenDocument(),
		versions,
	))

	properties.Property("failures are validation errors with a code", prop.ForAll(
		func(doc *template.Document) bool {
			err := Validate(doc, version.MustParseGame("1.16.1"), someIcons)
			if err == nil {
				return true
			}
			return fe.IsValidation(err) && fe.CodeOf(err) != ""
		},
		testutils.GenDocument(),
	))

	properties.TestingRun(t)
}
